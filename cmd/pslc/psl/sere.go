package psl

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Step records one rule application of the normalizer.
type Step struct {
	Phase     Phase
	Rule      string
	Iteration int
	Before    *Node
	After     *Node
}

// LetterChecker decides satisfiability of propositional letters. When one is
// configured the normalizer lowers unsatisfiable merged letters to FALSE.
type LetterChecker interface {
	Satisfiable(n *Node) (bool, error)
}

// normalizer removes SERE operators and suffix implications from a property.
// The result uses only propositional operators, X! and until!.
type normalizer struct {
	ctx      context.Context
	store    *Store
	log      logrus.FieldLogger
	trace    func(Step)
	letters  LetterChecker
	maxIter  int
	lastIter int
}

func (z *normalizer) step(rule string, iter int, before, after *Node) {
	if before == after {
		return
	}
	z.log.WithFields(logrus.Fields{"rule": rule, "iteration": iter}).Debug("sere rewrite")
	if z.trace != nil {
		z.trace(Step{Phase: PhaseNormalize, Rule: rule, Iteration: iter, Before: before, After: after})
	}
}

// property rewrites every sequence, strong sequence and suffix implication
// found in property position.
func (z *normalizer) property(n *Node) (*Node, error) {
	op := n.Op()
	switch {
	case n == nil || op.IsLeaf():
		return n, nil
	case isSereOp(op):
		return z.sequence(n, nil, true)
	case op == PslStrong:
		return z.sequence(n.Left(), nil, true)
	case op == PslSuffixOverlap || op == PslSuffixNext:
		return z.suffix(n)
	}
	l, err := z.property(n.Left())
	if err != nil {
		return nil, err
	}
	r, err := z.property(n.Right())
	if err != nil {
		return nil, err
	}
	return z.rebuild(n, l, r), nil
}

// suffix rewrites {r} |-> psi into !T(r, !psi) and {r} |=> psi into
// !T(r, X!(!psi)). Suffix implications nested in psi go first.
func (z *normalizer) suffix(n *Node) (*Node, error) {
	psi, err := z.property(n.Right())
	if err != nil {
		return nil, err
	}
	hole := z.not(psi)
	if n.Op() == PslSuffixNext {
		hole = z.next(hole)
	}
	t, err := z.sequence(n.Left(), hole, false)
	if err != nil {
		return nil, err
	}
	out := z.not(t)
	z.step("suffix", 0, n, out)
	return out, nil
}

// sequence normalizes the SERE r and lowers it with continuation phi. top is
// set when nothing follows the match (sequence properties and strong
// sequences), which allows trailing standalone repetitions to be dropped.
func (z *normalizer) sequence(r, phi *Node, top bool) (*Node, error) {
	expanded, err := z.expandCounts(r)
	if err != nil {
		return nil, err
	}
	z.step("count", 0, r, expanded)
	r = expanded

	if top {
		stripped := z.stripTrailing(r)
		z.step("strip", 0, r, stripped)
		r = stripped
	}

	plus, err := z.eliminatePlus(r)
	if err != nil {
		return nil, err
	}
	z.step("plus", 0, r, plus)
	r = plus

	if r, err = z.fixpoint(r); err != nil {
		return nil, err
	}

	out, err := z.lower(r, phi)
	if err != nil {
		return nil, err
	}
	z.step("lower", 0, r, out)
	return out, nil
}

// ---------------------------------------------------------------------------
// Rule 1: literal repetition counts
// ---------------------------------------------------------------------------

func (z *normalizer) expandCounts(r *Node) (*Node, error) {
	switch r.Op() {
	case PslConcat, PslFusion, PslSereOr, PslSereAnd, PslSereLand:
		l, err := z.expandCounts(r.Left())
		if err != nil {
			return nil, err
		}
		rr, err := z.expandCounts(r.Right())
		if err != nil {
			return nil, err
		}
		return z.rebuild(r, l, rr), nil
	case PslStar, PslPlusRep:
		rv, err := ViewRepeat(r)
		if err != nil {
			return nil, err
		}
		operand := rv.Operand
		if operand != nil {
			if operand, err = z.expandCounts(operand); err != nil {
				return nil, err
			}
		}
		if rv.Unbounded {
			return z.store.Intern(r.Op(), operand, nil), nil
		}
		if operand == nil {
			operand = z.store.True()
		}
		out := z.repeat(operand, rv.Lo)
		for k := rv.Lo + 1; k <= rv.Hi; k++ {
			out = z.store.Intern(PslSereOr, out, z.repeat(operand, k))
		}
		return out, nil
	case PslEqualRep, PslGotoRep:
		return nil, unsupported(PhaseNormalize, r, "%s repetition is not supported", r.Op().Token())
	}
	return r, nil
}

func (z *normalizer) repeat(x *Node, n int) *Node {
	out := x
	for i := 1; i < n; i++ {
		out = z.store.Intern(PslConcat, out, x)
	}
	return out
}

// ---------------------------------------------------------------------------
// Rule 2: trailing standalone [*] / [+]
// ---------------------------------------------------------------------------

func (z *normalizer) stripTrailing(r *Node) *Node {
	if r.Op() != PslConcat {
		return r
	}
	elems := flatten(PslConcat, r)
	kept := trimTrailing(elems)
	if len(kept) == len(elems) {
		return r
	}
	return z.chain(kept)
}

// trimTrailing drops the standalone [*] and [+] that end a chain, keeping at
// least one element. On infinite words they match any continuation.
func trimTrailing(elems []*Node) []*Node {
	end := len(elems)
	for end > 1 && isStandaloneUnbounded(elems[end-1]) {
		end--
	}
	return elems[:end]
}

func isStandaloneUnbounded(n *Node) bool {
	return (n.Op() == PslStar || n.Op() == PslPlusRep) && n.Left() == nil && n.Right() == nil
}

// ---------------------------------------------------------------------------
// Rule 3: [+]
// ---------------------------------------------------------------------------

func (z *normalizer) eliminatePlus(r *Node) (*Node, error) {
	switch r.Op() {
	case PslConcat, PslFusion, PslSereOr, PslSereAnd, PslSereLand:
		l, err := z.eliminatePlus(r.Left())
		if err != nil {
			return nil, err
		}
		rr, err := z.eliminatePlus(r.Right())
		if err != nil {
			return nil, err
		}
		return z.rebuild(r, l, rr), nil
	case PslPlusRep:
		b := r.Left()
		if b == nil {
			b = z.store.True()
		}
		if !IsPropositional(b) {
			return nil, unsupported(PhaseNormalize, r, "unbounded repetition of a compound sequence")
		}
		return z.loop(b), nil
	}
	return r, nil
}

func (z *normalizer) loop(b *Node) *Node { return z.store.Intern(opLoop, b, nil) }

// ---------------------------------------------------------------------------
// Rule group 5, iterated to a fixpoint
// ---------------------------------------------------------------------------

type rewriteRule struct {
	name  string
	apply func(*Node) *Node
}

func (z *normalizer) rules() []rewriteRule {
	return []rewriteRule{
		{"star", z.starPass},
		{"and", func(n *Node) *Node { return z.mergePass(PslSereAnd, n) }},
		{"land", func(n *Node) *Node { return z.mergePass(PslSereLand, n) }},
		{"fusion", func(n *Node) *Node { return z.mergePass(PslFusion, n) }},
		{"distribute", z.distPass},
	}
}

// iterationLimit bounds the fixpoint loop. Every iteration either removes
// SERE operators or lowers the nesting of | below other sequence operators,
// so the initial counts of both bound the number of productive iterations.
func (z *normalizer) iterationLimit(r *Node) int {
	if z.maxIter > 0 {
		return z.maxIter
	}
	sere := CountOps(r, func(x *Node) bool { return isSereOp(x.Op()) })
	ors := CountOps(r, func(x *Node) bool { return x.Op() == PslSereOr })
	return sere + ors + 1
}

func (z *normalizer) fixpoint(r *Node) (*Node, error) {
	limit := z.iterationLimit(r)
	rules := z.rules()
	for iter := 1; ; iter++ {
		if err := z.ctx.Err(); err != nil {
			return nil, err
		}
		if iter > limit {
			return nil, internal(PhaseNormalize, r, "no fixpoint after %d iterations", limit)
		}
		changed := false
		for _, rule := range rules {
			next := rule.apply(r)
			if next == r {
				continue
			}
			z.step(rule.name, iter, r, next)
			r, changed = next, true
		}
		z.lastIter = iter
		if !changed {
			return r, nil
		}
	}
}

// starPass rewrites r1;b[*];r2 into r1;r2 | r1;b+;r2 inside every chain. A
// chain made of a single star is left alone until distribution puts it next
// to something.
func (z *normalizer) starPass(n *Node) *Node {
	switch n.Op() {
	case PslConcat:
		elems := flatten(PslConcat, n)
		changed := false
		for i, e := range elems {
			if s := z.starPass(e); s != e {
				elems[i], changed = s, true
			}
			if elems[i].Op() == PslStar && elems[i].Right() == nil {
				changed = true
			}
		}
		if !changed {
			return n
		}
		return z.eliminateStars(elems)
	case PslFusion, PslSereOr, PslSereAnd, PslSereLand:
		return z.rebuild(n, z.starPass(n.Left()), z.starPass(n.Right()))
	}
	return n
}

func (z *normalizer) eliminateStars(elems []*Node) *Node {
	if len(elems) > 1 {
		for k, e := range elems {
			if e.Op() != PslStar || e.Right() != nil {
				continue
			}
			b := e.Left()
			if b == nil {
				b = z.store.True()
			}
			skip := make([]*Node, 0, len(elems)-1)
			skip = append(skip, elems[:k]...)
			skip = append(skip, elems[k+1:]...)
			loop := append([]*Node(nil), elems...)
			loop[k] = z.loop(b)
			return z.store.Intern(PslSereOr, z.eliminateStars(skip), z.eliminateStars(loop))
		}
	}
	return z.chain(elems)
}

// mergePass eliminates target (&, && or :) wherever both operands are plain
// chains of letters. Operands of & may also hold loop letters.
func (z *normalizer) mergePass(target Op, n *Node) *Node {
	switch n.Op() {
	case PslConcat, PslFusion, PslSereOr, PslSereAnd, PslSereLand:
	default:
		return n
	}
	l := z.mergePass(target, n.Left())
	r := z.mergePass(target, n.Right())
	if n.Op() == target {
		chainOf := z.letterChain
		if target == PslSereAnd {
			chainOf = z.loopChain
		}
		lc, okL := chainOf(l)
		rc, okR := chainOf(r)
		if okL && okR {
			return z.merge(target, lc, rc)
		}
	}
	return z.rebuild(n, l, r)
}

func (z *normalizer) merge(op Op, l, r []*Node) *Node {
	switch op {
	case PslSereLand:
		if len(l) != len(r) {
			return z.store.False()
		}
		out := make([]*Node, len(l))
		for i := range l {
			out[i] = z.letterAnd(l[i], r[i])
		}
		return z.chain(out)
	case PslSereAnd:
		return z.alternatives(z.andChains(l, r))
	}
	// fusion: ...;x : y;... -> ...;x&y;...
	out := make([]*Node, 0, len(l)+len(r)-1)
	out = append(out, l[:len(l)-1]...)
	out = append(out, z.letterAnd(l[len(l)-1], r[0]))
	out = append(out, r[1:]...)
	return z.chain(out)
}

// andChains merges two chains under &, where the shorter match only has to
// cover a prefix of the longer one. A loop letter b+ either stops at the
// current cycle or keeps going, so each loop branches the merge and the
// result lists the alternative chains.
func (z *normalizer) andChains(l, r []*Node) [][]*Node {
	switch {
	case len(l) == 0:
		return [][]*Node{r}
	case len(r) == 0:
		return [][]*Node{l}
	}
	x, y := l[0], r[0]
	var head *Node
	var rest [][]*Node
	switch xl, yl := x.Op() == opLoop, y.Op() == opLoop; {
	case xl && yl:
		head = z.loop(z.letterAnd(x.Left(), y.Left()))
		rest = append(rest, z.andChains(l[1:], r[1:])...)
		rest = append(rest, z.andChains(l, r[1:])...)
		rest = append(rest, z.andChains(l[1:], r)...)
	case xl:
		head = z.letterAnd(x.Left(), y)
		rest = append(rest, z.andChains(l[1:], r[1:])...)
		rest = append(rest, z.andChains(l, r[1:])...)
	case yl:
		head = z.letterAnd(x, y.Left())
		rest = append(rest, z.andChains(l[1:], r[1:])...)
		rest = append(rest, z.andChains(l[1:], r)...)
	default:
		head = z.letterAnd(x, y)
		rest = z.andChains(l[1:], r[1:])
	}
	out := make([][]*Node, len(rest))
	for i, tail := range rest {
		out[i] = append([]*Node{head}, tail...)
	}
	return out
}

// alternatives joins chains with |, dropping repeated ones.
func (z *normalizer) alternatives(chains [][]*Node) *Node {
	var out *Node
	seen := make(map[*Node]bool, len(chains))
	for _, c := range chains {
		n := z.chain(c)
		if seen[n] {
			continue
		}
		seen[n] = true
		if out == nil {
			out = n
		} else {
			out = z.store.Intern(PslSereOr, out, n)
		}
	}
	return out
}

// distPass hoists | above ;, :, & and &&.
func (z *normalizer) distPass(n *Node) *Node {
	switch op := n.Op(); op {
	case PslConcat, PslFusion, PslSereAnd, PslSereLand:
		l, r := z.distPass(n.Left()), z.distPass(n.Right())
		if l == n.Left() && r == n.Right() && l.Op() != PslSereOr && r.Op() != PslSereOr {
			return n
		}
		return z.distribute(op, l, r)
	case PslSereOr:
		return z.rebuild(n, z.distPass(n.Left()), z.distPass(n.Right()))
	}
	return n
}

func (z *normalizer) distribute(op Op, l, r *Node) *Node {
	if l.Op() == PslSereOr {
		return z.store.Intern(PslSereOr, z.distribute(op, l.Left(), r), z.distribute(op, l.Right(), r))
	}
	if r.Op() == PslSereOr {
		return z.store.Intern(PslSereOr, z.distribute(op, l, r.Left()), z.distribute(op, l, r.Right()))
	}
	return z.store.Intern(op, l, r)
}

// ---------------------------------------------------------------------------
// Chain helpers
// ---------------------------------------------------------------------------

// flatten lists the operands of nested op nodes from left to right.
func flatten(op Op, n *Node) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(x *Node) {
		if x.Op() != op {
			out = append(out, x)
			return
		}
		walk(x.Left())
		walk(x.Right())
	}
	walk(n)
	return out
}

// chain rebuilds a left-nested concatenation.
func (z *normalizer) chain(elems []*Node) *Node {
	out := elems[0]
	for _, e := range elems[1:] {
		out = z.store.Intern(PslConcat, out, e)
	}
	return out
}

func (z *normalizer) letterChain(n *Node) ([]*Node, bool) {
	elems := flatten(PslConcat, n)
	for _, e := range elems {
		if !IsPropositional(e) {
			return nil, false
		}
	}
	return elems, true
}

// loopChain is letterChain that also admits loop letters over propositions.
func (z *normalizer) loopChain(n *Node) ([]*Node, bool) {
	elems := flatten(PslConcat, n)
	for _, e := range elems {
		if e.Op() == opLoop && IsPropositional(e.Left()) {
			continue
		}
		if !IsPropositional(e) {
			return nil, false
		}
	}
	return elems, true
}

func (z *normalizer) rebuild(n, l, r *Node) *Node {
	if l == n.Left() && r == n.Right() {
		return n
	}
	return z.store.Intern(n.Op(), l, r)
}
