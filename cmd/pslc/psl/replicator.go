package psl

import (
	"github.com/sirupsen/logrus"
)

// BoundIdentifiers is the ordered set of replicator ids in scope. Ids are
// compared by name, not by node identity.
type BoundIdentifiers struct {
	ids []*Node
}

func (b *BoundIdentifiers) Contains(id *Node) bool {
	for _, x := range b.ids {
		if sameIdentifier(x, id) {
			return true
		}
	}
	return false
}

func (b *BoundIdentifiers) Push(id *Node) { b.ids = append(b.ids, id) }

func (b *BoundIdentifiers) Pop() { b.ids = b.ids[:len(b.ids)-1] }

func (b *BoundIdentifiers) Len() int { return len(b.ids) }

func sameIdentifier(a, b *Node) bool {
	if a == b {
		return true
	}
	return a.Op() == OpAtom && b.Op() == OpAtom && a.Name() == b.Name()
}

// Expander instantiates forall replicators.
type Expander struct {
	store *Store
	log   logrus.FieldLogger
}

func NewExpander(s *Store, log logrus.FieldLogger) *Expander {
	if log == nil {
		log = discardLogger()
	}
	return &Expander{store: s, log: log}
}

// Expand returns wff[id:=v1] & ... & wff[id:=vn] for the values of the
// replicator rep, in declaration order. The conjunction is folded left.
func (e *Expander) Expand(rep, wff *Node) (*Node, error) {
	if rep.Op() != PslReplicator {
		return nil, internal(PhaseReplicate, rep, "not a replicator")
	}
	id := rep.Left()
	if id.Op() != OpAtom {
		return nil, unsupported(PhaseReplicate, rep, "replicator id must be a plain identifier")
	}
	values, err := e.Values(rep.Right())
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{"id": id.Name(), "values": len(values)}).Debug("expanding replicator")

	var out *Node
	for _, v := range values {
		inst, err := e.Subst(wff, id, v)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = inst
			continue
		}
		out = e.store.Intern(PslAnd, out, inst)
	}
	return out, nil
}

// Values enumerates a replicator value set in declaration order.
func (e *Expander) Values(set *Node) ([]*Node, error) {
	switch set.Op() {
	case OpBoolean:
		return []*Node{e.store.False(), e.store.True()}, nil
	case OpRange:
		return e.rangeValues(set, nil)
	case OpCons:
		var out []*Node
		for _, item := range listItems(set) {
			if item.Op() != OpRange {
				out = append(out, item)
				continue
			}
			var err error
			if out, err = e.rangeValues(item, out); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return nil, unsupported(PhaseReplicate, set, "unsupported replicator value set")
}

func (e *Expander) rangeValues(rng *Node, out []*Node) ([]*Node, error) {
	if rng.Right().Op() == OpInf {
		return nil, unsupported(PhaseReplicate, rng, "inf bound in replicator range")
	}
	lo, okLo := literal(rng.Left())
	hi, okHi := literal(rng.Right())
	if !okLo || !okHi {
		return nil, unsupported(PhaseReplicate, rng, "replicator range bounds must be integer literals")
	}
	if lo > hi {
		return nil, semantic(PhaseReplicate, rng, "range lower bound %d exceeds upper bound %d", lo, hi)
	}
	for i := lo; i <= hi; i++ {
		out = append(out, e.store.Number(i))
	}
	return out, nil
}

// Subst replaces the free occurrences of id in n with v. It does not enter
// the body of a nested forall that rebinds id, and leaves the field operand
// of a dot untouched.
func (e *Expander) Subst(n, id, v *Node) (*Node, error) {
	switch op := n.Op(); {
	case n == nil:
		return nil, nil
	case op == OpAtom:
		if sameIdentifier(n, id) {
			return v, nil
		}
		return n, nil
	case op.IsLeaf():
		return n, nil
	case op == PslForall:
		rep := n.Left()
		set, err := e.Subst(rep.Right(), id, v)
		if err != nil {
			return nil, err
		}
		body := n.Right()
		if !sameIdentifier(rep.Left(), id) {
			if body, err = e.Subst(body, id, v); err != nil {
				return nil, err
			}
		}
		return e.store.Intern(PslForall, e.store.Intern(PslReplicator, rep.Left(), set), body), nil
	case op == PslDot || op == SmvDot:
		base, err := e.Subst(n.Left(), id, v)
		if err != nil {
			return nil, err
		}
		return e.store.Intern(op, base, n.Right()), nil
	case op == PslArray || op == SmvArray:
		base, err := e.Subst(n.Left(), id, v)
		if err != nil {
			return nil, err
		}
		// A replicated base must still name something indexable.
		if base != n.Left() && !isIdentifierExpr(base) {
			return nil, semantic(PhaseReplicate, n, "cannot index value %s", Print(base))
		}
		idx, err := e.Subst(n.Right(), id, v)
		if err != nil {
			return nil, err
		}
		return e.store.Intern(op, base, idx), nil
	}
	l, err := e.Subst(n.Left(), id, v)
	if err != nil {
		return nil, err
	}
	r, err := e.Subst(n.Right(), id, v)
	if err != nil {
		return nil, err
	}
	if l == n.Left() && r == n.Right() {
		return n, nil
	}
	return e.store.Intern(n.Op(), l, r), nil
}

func isIdentifierExpr(n *Node) bool {
	switch n.Op() {
	case OpAtom, PslArray, PslDot, SmvArray, SmvDot:
		return true
	}
	return false
}
