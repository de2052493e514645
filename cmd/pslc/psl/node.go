package psl

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Node is an interned, immutable expression triple. Two nodes built from the
// same (op, left, right, payload) in the same Store are the same pointer, so
// pointer equality is structural equality.
//
// All accessors are nil-safe: a nil *Node reports OpInvalid and nil children.
type Node struct {
	op    Op
	left  *Node
	right *Node
	name  string
	value int
	id    uint32
}

func (n *Node) Op() Op {
	if n == nil {
		return OpInvalid
	}
	return n.op
}

func (n *Node) Left() *Node {
	if n == nil {
		return nil
	}
	return n.left
}

func (n *Node) Right() *Node {
	if n == nil {
		return nil
	}
	return n.right
}

// Name is the identifier of an atom leaf.
func (n *Node) Name() string {
	if n == nil {
		return ""
	}
	return n.name
}

// Value is the integer of a number leaf.
func (n *Node) Value() int {
	if n == nil {
		return 0
	}
	return n.value
}

// ID is the dense, store-local identifier of the node.
func (n *Node) ID() uint32 {
	if n == nil {
		return 0
	}
	return n.id
}

func (n *Node) String() string { return Print(n) }

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// Store hash-conses nodes. It is safe for concurrent use, so several sessions
// may share one store.
type Store struct {
	mu     sync.RWMutex
	table  map[uint64][]*Node
	nextID uint32
}

func NewStore() *Store {
	return &Store{table: make(map[uint64][]*Node), nextID: 1}
}

// Intern returns the canonical node for (op, left, right).
func (s *Store) Intern(op Op, left, right *Node) *Node {
	return s.intern(op, left, right, "", 0)
}

// InternConverted maps op through the conversion table before interning.
func (s *Store) InternConverted(conv ConvType, op Op, left, right *Node) (*Node, error) {
	mapped, err := ConvertOp(op, conv)
	if err != nil {
		return nil, err
	}
	return s.intern(mapped, left, right, "", 0), nil
}

func (s *Store) Atom(name string) *Node { return s.intern(OpAtom, nil, nil, name, 0) }

func (s *Store) Number(v int) *Node { return s.intern(OpNumber, nil, nil, "", v) }

func (s *Store) True() *Node { return s.intern(OpTrue, nil, nil, "", 0) }

func (s *Store) False() *Node { return s.intern(OpFalse, nil, nil, "", 0) }

// Len reports the number of distinct nodes interned so far.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int(s.nextID - 1)
}

func (s *Store) intern(op Op, left, right *Node, name string, value int) *Node {
	h := hashKey(op, left, right, name, value)

	s.mu.RLock()
	if n := lookup(s.table[h], op, left, right, name, value); n != nil {
		s.mu.RUnlock()
		return n
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.table[h]
	if n := lookup(bucket, op, left, right, name, value); n != nil {
		return n
	}
	n := &Node{op: op, left: left, right: right, name: name, value: value, id: s.nextID}
	s.nextID++
	s.table[h] = append(bucket, n)
	return n
}

func lookup(bucket []*Node, op Op, left, right *Node, name string, value int) *Node {
	for _, n := range bucket {
		if n.op == op && n.left == left && n.right == right && n.name == name && n.value == value {
			return n
		}
	}
	return nil
}

func hashKey(op Op, left, right *Node, name string, value int) uint64 {
	var buf [18]byte
	binary.LittleEndian.PutUint16(buf[0:], uint16(op))
	binary.LittleEndian.PutUint32(buf[2:], left.ID())
	binary.LittleEndian.PutUint32(buf[6:], right.ID())
	binary.LittleEndian.PutUint64(buf[10:], uint64(int64(value)))

	d := xxhash.New()
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(name)
	return d.Sum64()
}
