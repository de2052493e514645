// Package boolsat decides propositional questions about PSL and SMV letters
// with a SAT solver. It backs letter pruning in the SERE normalizer and the
// equivalence checks used by the CLI and the tests.
package boolsat

import (
	"fmt"

	"psl-tools/cmd/pslc/psl"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// Checker is stateless; every query builds its own circuit, so a Checker may
// be shared between sessions.
type Checker struct{}

var _ psl.LetterChecker = Checker{}

// Satisfiable reports whether some assignment makes n true. Sub-terms that
// are not boolean connectives (relations, array elements, fields) are treated
// as independent variables, so the answer over-approximates satisfiability.
func (Checker) Satisfiable(n *psl.Node) (bool, error) {
	enc := newEncoder()
	f, err := enc.encode(n)
	if err != nil {
		return false, err
	}
	return enc.solve(f), nil
}

// Equivalent reports whether a and b agree under every assignment.
func (Checker) Equivalent(a, b *psl.Node) (bool, error) {
	enc := newEncoder()
	fa, err := enc.encode(a)
	if err != nil {
		return false, err
	}
	fb, err := enc.encode(b)
	if err != nil {
		return false, err
	}
	return !enc.solve(enc.xor(fa, fb)), nil
}

// formula is a circuit literal or a folded constant.
type formula struct {
	lit   z.Lit
	konst int8 // 0: lit is valid, 1: true, -1: false
}

var (
	top    = formula{konst: 1}
	bottom = formula{konst: -1}
)

func (f formula) not() formula {
	if f.konst != 0 {
		return formula{konst: -f.konst}
	}
	return formula{lit: f.lit.Not()}
}

type encoder struct {
	c    *logic.C
	vars map[*psl.Node]z.Lit
}

func newEncoder() *encoder {
	return &encoder{c: logic.NewC(), vars: make(map[*psl.Node]z.Lit)}
}

func (e *encoder) variable(n *psl.Node) formula {
	if l, ok := e.vars[n]; ok {
		return formula{lit: l}
	}
	l := e.c.Lit()
	e.vars[n] = l
	return formula{lit: l}
}

func (e *encoder) and(a, b formula) formula {
	switch {
	case a.konst < 0 || b.konst < 0:
		return bottom
	case a.konst > 0:
		return b
	case b.konst > 0:
		return a
	}
	return formula{lit: e.c.And(a.lit, b.lit)}
}

func (e *encoder) or(a, b formula) formula {
	return e.and(a.not(), b.not()).not()
}

func (e *encoder) xor(a, b formula) formula {
	return e.or(e.and(a, b.not()), e.and(a.not(), b))
}

func (e *encoder) encode(n *psl.Node) (formula, error) {
	if n == nil {
		return formula{}, fmt.Errorf("boolsat: nil node")
	}
	op := n.Op()
	switch op {
	case psl.OpTrue:
		return top, nil
	case psl.OpFalse:
		return bottom, nil
	case psl.OpAtom:
		return e.variable(n), nil
	case psl.OpNumber:
		return formula{}, fmt.Errorf("boolsat: number %s used as a letter", psl.Print(n))
	}

	switch op.Family() {
	case psl.FamilyArith:
		if op == psl.PslIte || op == psl.SmvIte {
			return e.ite(n)
		}
		return e.variable(n), nil
	case psl.FamilyBoolean:
	default:
		return formula{}, fmt.Errorf("boolsat: %s is not propositional: %s", op, psl.Print(n))
	}

	l, err := e.encode(n.Left())
	if err != nil {
		return formula{}, err
	}
	if op == psl.PslNot || op == psl.SmvNot {
		return l.not(), nil
	}
	r, err := e.encode(n.Right())
	if err != nil {
		return formula{}, err
	}
	switch op {
	case psl.PslAnd, psl.SmvAnd:
		return e.and(l, r), nil
	case psl.PslOr, psl.SmvOr:
		return e.or(l, r), nil
	case psl.PslXor, psl.SmvXor:
		return e.xor(l, r), nil
	case psl.PslXnor, psl.SmvXnor, psl.PslIff, psl.SmvIff:
		return e.xor(l, r).not(), nil
	case psl.PslImplies, psl.SmvImplies:
		return e.or(l.not(), r), nil
	}
	return formula{}, fmt.Errorf("boolsat: unhandled operator %s", op)
}

// ite encodes a boolean conditional; numeric conditionals stay opaque.
func (e *encoder) ite(n *psl.Node) (formula, error) {
	branches := n.Right()
	if !boolean(branches.Left()) || !boolean(branches.Right()) {
		return e.variable(n), nil
	}
	c, err := e.encode(n.Left())
	if err != nil {
		return formula{}, err
	}
	a, err := e.encode(branches.Left())
	if err != nil {
		return formula{}, err
	}
	b, err := e.encode(branches.Right())
	if err != nil {
		return formula{}, err
	}
	return e.or(e.and(c, a), e.and(c.not(), b)), nil
}

// boolean reports whether n is built from boolean connectives and
// constants only, so it can be encoded rather than abstracted.
func boolean(n *psl.Node) bool {
	switch n.Op() {
	case psl.OpTrue, psl.OpFalse:
		return true
	}
	return n.Op().Family() == psl.FamilyBoolean
}

func (e *encoder) solve(f formula) bool {
	if f.konst != 0 {
		return f.konst > 0
	}
	g := gini.New()
	e.c.ToCnf(g)
	g.Assume(f.lit)
	return g.Solve() == 1
}
