package psl

import "fmt"

// RangedNext selects the shape produced for ranged next and next_event
// operators. Both shapes are equivalent.
type RangedNext uint8

const (
	// RangedFlat folds the unrolled terms left: X!p & X!X!p & X!X!X!p.
	RangedFlat RangedNext = iota
	// RangedDistributed nests them: X!(p & X!(p & X!p)).
	RangedDistributed
)

func (r RangedNext) String() string {
	if r == RangedDistributed {
		return "distributed"
	}
	return "flat"
}

func ParseRangedNext(s string) (RangedNext, error) {
	switch s {
	case "", "flat":
		return RangedFlat, nil
	case "distributed":
		return RangedDistributed, nil
	}
	return 0, fmt.Errorf("unknown ranged next form %q (want flat or distributed)", s)
}

// translator turns SERE-free PSL into LTL or CTL in the vocabulary selected
// by conv. It expands replicators as it meets them.
type translator struct {
	store    *Store
	expander *Expander
	bound    BoundIdentifiers
	conv     ConvType
	ranged   RangedNext
}

func (t *translator) mk(op Op, l, r *Node) (*Node, error) {
	return t.store.InternConverted(t.conv, op, l, r)
}

// copyOp copies a propositional, arithmetic or helper node, translating its
// children with rec.
func (t *translator) copyOp(n *Node, rec func(*Node) (*Node, error)) (*Node, error) {
	l, err := rec(n.Left())
	if err != nil {
		return nil, err
	}
	r, err := rec(n.Right())
	if err != nil {
		return nil, err
	}
	out, err := t.mk(n.Op(), l, r)
	if err != nil {
		return nil, withNode(err, n)
	}
	return out, nil
}

func (t *translator) replicate(n *Node, rec func(*Node) (*Node, error)) (*Node, error) {
	rv, err := ViewReplicator(n)
	if err != nil {
		return nil, err
	}
	if t.bound.Contains(rv.ID) {
		return nil, semantic(PhaseReplicate, n, "replicator id %s is already bound", Print(rv.ID))
	}
	expanded, err := t.expander.Expand(n.Left(), rv.Body)
	if err != nil {
		return nil, err
	}
	t.bound.Push(rv.ID)
	defer t.bound.Pop()
	return rec(expanded)
}

// ---------------------------------------------------------------------------
// LTL
// ---------------------------------------------------------------------------

func (t *translator) ltl(n *Node) (*Node, error) {
	if n == nil || n.Op().IsLeaf() {
		return n, nil
	}
	op := n.Op()
	switch op.Family() {
	case FamilyBoolean, FamilyArith, FamilyHelper:
		return t.copyOp(n, t.ltl)
	}
	switch op {
	case PslX, PslXBang, PslNext, PslNextBang:
		return t.next(n)
	case PslNextA, PslNextABang, PslNextE, PslNextEBang:
		return t.rangedNext(n)
	case PslNextEvent, PslNextEventBang, PslNextEventA, PslNextEventABang, PslNextEventE, PslNextEventEBang:
		return t.nextEvent(n)
	case PslAlways, PslG, PslEventuallyBang, PslF:
		phi, err := t.ltl(n.Left())
		if err != nil {
			return nil, err
		}
		return t.mk(op, phi, nil)
	case PslNever:
		phi, err := t.ltl(n.Left())
		if err != nil {
			return nil, err
		}
		return t.globally(t.negate(phi))
	case PslU:
		return t.copyOp(n, t.ltl)
	case PslW:
		a, b, err := t.operands(n)
		if err != nil {
			return nil, err
		}
		return t.weakUntil(a, b)
	case PslUntil, PslUntilBang, PslUntilU, PslUntilBangU,
		PslBefore, PslBeforeBang, PslBeforeU, PslBeforeBangU:
		return t.untilFamily(n)
	case PslForall:
		return t.replicate(n, t.ltl)
	}
	return nil, unsupported(PhaseTranslate, n, "operator %s is not supported in LTL", op)
}

func (t *translator) operands(n *Node) (*Node, *Node, error) {
	a, err := t.ltl(n.Left())
	if err != nil {
		return nil, nil, err
	}
	b, err := t.ltl(n.Right())
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// next unrolls X, X!, next and next! with a count into nested applications
// of the same operator.
func (t *translator) next(n *Node) (*Node, error) {
	v, err := ViewNext(n)
	if err != nil {
		return nil, err
	}
	out, err := t.ltl(v.Operand)
	if err != nil {
		return nil, err
	}
	for i := 0; i < v.Steps; i++ {
		if out, err = t.mk(v.Op, out, nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (t *translator) rangedNext(n *Node) (*Node, error) {
	v, err := ViewRangedNext(n)
	if err != nil {
		return nil, err
	}
	phi, err := t.ltl(v.Operand)
	if err != nil {
		return nil, err
	}
	join := PslOr
	if v.Universal {
		join = PslAnd
	}
	if t.ranged == RangedDistributed {
		acc := phi
		for m := v.Hi; m > v.Lo; m-- {
			x, err := t.strongNext(acc)
			if err != nil {
				return nil, err
			}
			if acc, err = t.mk(join, phi, x); err != nil {
				return nil, err
			}
		}
		return t.strongNextN(acc, v.Lo)
	}
	var out *Node
	for m := v.Lo; m <= v.Hi; m++ {
		term, err := t.strongNextN(phi, m)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = term
			continue
		}
		if out, err = t.mk(join, out, term); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (t *translator) nextEvent(n *Node) (*Node, error) {
	v, err := ViewNextEvent(n)
	if err != nil {
		return nil, err
	}
	b, err := t.ltl(v.Cond)
	if err != nil {
		return nil, err
	}
	phi, err := t.ltl(v.Operand)
	if err != nil {
		return nil, err
	}
	macro := func(psi *Node) (*Node, error) { return t.eventMacro(b, psi, v.Strong) }

	// occurrence k: M(phi), then M(X! r) k-1 more times.
	occurrence := func(inner *Node, k int) (*Node, error) {
		r, err := macro(inner)
		if err != nil {
			return nil, err
		}
		for i := 1; i < k; i++ {
			x, err := t.strongNext(r)
			if err != nil {
				return nil, err
			}
			if r, err = macro(x); err != nil {
				return nil, err
			}
		}
		return r, nil
	}
	if !v.Ranged {
		return occurrence(phi, v.Lo)
	}

	join := PslOr
	if v.Universal {
		join = PslAnd
	}
	if t.ranged == RangedDistributed {
		acc, err := macro(phi)
		if err != nil {
			return nil, err
		}
		for m := v.Hi; m > v.Lo; m-- {
			x, err := t.strongNext(acc)
			if err != nil {
				return nil, err
			}
			joined, err := t.mk(join, phi, x)
			if err != nil {
				return nil, err
			}
			if acc, err = macro(joined); err != nil {
				return nil, err
			}
		}
		for i := 1; i < v.Lo; i++ {
			x, err := t.strongNext(acc)
			if err != nil {
				return nil, err
			}
			if acc, err = macro(x); err != nil {
				return nil, err
			}
		}
		return acc, nil
	}
	var out *Node
	for m := v.Lo; m <= v.Hi; m++ {
		term, err := occurrence(phi, m)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = term
			continue
		}
		if out, err = t.mk(join, out, term); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// eventMacro is !b U (b & psi), or'ed with G !b when weak.
func (t *translator) eventMacro(b, psi *Node, strong bool) (*Node, error) {
	notB, err := t.mk(PslNot, b, nil)
	if err != nil {
		return nil, err
	}
	hit, err := t.mk(PslAnd, b, psi)
	if err != nil {
		return nil, err
	}
	u, err := t.mk(PslU, notB, hit)
	if err != nil || strong {
		return u, err
	}
	g, err := t.mk(PslG, notB, nil)
	if err != nil {
		return nil, err
	}
	return t.mk(PslOr, u, g)
}

// untilFamily implements:
//
//	a until! b   -> a U b
//	a until b    -> (a U b) | G a
//	a until!_ b  -> a U (a & b)
//	a until_ b   -> (a U (a & b)) | G a
//	a before! b  -> !b U (a & !b)
//	a before b   -> (!b U (a & !b)) | G !b
//	a before!_ b -> !b U a
//	a before_ b  -> (!b U a) | G !b
func (t *translator) untilFamily(n *Node) (*Node, error) {
	v, err := ViewUntil(n)
	if err != nil {
		return nil, err
	}
	a, b, err := t.operands(n)
	if err != nil {
		return nil, err
	}
	hold, goal := a, b
	if v.Before {
		if hold, err = t.mk(PslNot, b, nil); err != nil {
			return nil, err
		}
		goal = a
		if !v.Inclusive {
			if goal, err = t.mk(PslAnd, a, hold); err != nil {
				return nil, err
			}
		}
	} else if v.Inclusive {
		if goal, err = t.mk(PslAnd, a, b); err != nil {
			return nil, err
		}
	}
	if v.Strong {
		return t.mk(PslU, hold, goal)
	}
	return t.weakUntil(hold, goal)
}

// weakUntil is (a U b) | G a.
func (t *translator) weakUntil(a, b *Node) (*Node, error) {
	u, err := t.mk(PslU, a, b)
	if err != nil {
		return nil, err
	}
	g, err := t.mk(PslG, a, nil)
	if err != nil {
		return nil, err
	}
	return t.mk(PslOr, u, g)
}

func (t *translator) globally(phi *Node, err error) (*Node, error) {
	if err != nil {
		return nil, err
	}
	return t.mk(PslG, phi, nil)
}

func (t *translator) negate(phi *Node) (*Node, error) { return t.mk(PslNot, phi, nil) }

func (t *translator) strongNext(phi *Node) (*Node, error) { return t.mk(PslXBang, phi, nil) }

func (t *translator) strongNextN(phi *Node, k int) (*Node, error) {
	var err error
	for i := 0; i < k; i++ {
		if phi, err = t.strongNext(phi); err != nil {
			return nil, err
		}
	}
	return phi, nil
}

// ---------------------------------------------------------------------------
// CTL
// ---------------------------------------------------------------------------

func (t *translator) ctl(n *Node) (*Node, error) {
	if n == nil || n.Op().IsLeaf() {
		return n, nil
	}
	op := n.Op()
	switch op.Family() {
	case FamilyBoolean, FamilyArith, FamilyHelper, FamilyOBE:
		return t.copyOp(n, t.ctl)
	}
	if op == PslForall {
		return t.replicate(n, t.ctl)
	}
	return nil, unsupported(PhaseTranslate, n, "operator %s is not supported in CTL", op)
}
