package psl

import "github.com/sirupsen/logrus"

// lower turns a disjunction of hole-free chains into LTL, threading the
// continuation phi to the open end of every chain:
//
//	T(b, phi)     = b & phi
//	T(b+, phi)    = b until! (b & phi)
//	T(r1;r2, phi) = T(r1, X!(T(r2, phi)))
//	T(r1:r2, phi) = T(r1, T(r2, phi))
//	T(r1|r2, phi) = T(r1, phi) | T(r2, phi)
//
// A nil phi means the match has no continuation.
func (z *normalizer) lower(r, phi *Node) (*Node, error) {
	switch r.Op() {
	case PslSereOr:
		l, err := z.lower(r.Left(), phi)
		if err != nil {
			return nil, err
		}
		rr, err := z.lower(r.Right(), phi)
		if err != nil {
			return nil, err
		}
		return z.or(l, rr), nil
	case PslConcat:
		rest, err := z.lower(r.Right(), phi)
		if err != nil {
			return nil, err
		}
		return z.lower(r.Left(), z.next(rest))
	case PslFusion:
		rest, err := z.lower(r.Right(), phi)
		if err != nil {
			return nil, err
		}
		return z.lower(r.Left(), rest)
	case opLoop:
		b := z.prune(r.Left())
		if phi == nil {
			return b, nil
		}
		return z.until(b, z.and(b, phi)), nil
	case PslStar, PslPlusRep, PslSereAnd, PslSereLand, PslEqualRep, PslGotoRep:
		return nil, internal(PhaseNormalize, r, "%s left after rewriting", r.Op().Token())
	}
	if !IsPropositional(r) {
		return nil, internal(PhaseNormalize, r, "non-boolean letter")
	}
	return z.and(z.prune(r), phi), nil
}

// The constructors below fold TRUE and FALSE so the lowered formula does not
// carry the padding letters introduced by standalone repetitions.

func (z *normalizer) and(a, b *Node) *Node {
	switch {
	case b == nil:
		return a
	case a.Op() == OpFalse || b.Op() == OpFalse:
		return z.store.False()
	case a.Op() == OpTrue:
		return b
	case b.Op() == OpTrue:
		return a
	}
	return z.store.Intern(PslAnd, a, b)
}

func (z *normalizer) or(a, b *Node) *Node {
	switch {
	case a.Op() == OpFalse:
		return b
	case b.Op() == OpFalse:
		return a
	case a.Op() == OpTrue || b.Op() == OpTrue:
		return z.store.True()
	case a == b:
		return a
	}
	return z.store.Intern(PslOr, a, b)
}

func (z *normalizer) not(a *Node) *Node {
	switch a.Op() {
	case OpTrue:
		return z.store.False()
	case OpFalse:
		return z.store.True()
	}
	return z.store.Intern(PslNot, a, nil)
}

// next is the strong next; X! FALSE is FALSE.
func (z *normalizer) next(a *Node) *Node {
	if a.Op() == OpFalse {
		return a
	}
	return z.store.Intern(PslXBang, a, nil)
}

func (z *normalizer) until(a, b *Node) *Node {
	if b.Op() == OpFalse {
		return b
	}
	return z.store.Intern(PslUntilBang, a, b)
}

// letterAnd conjoins two letters of a merge.
func (z *normalizer) letterAnd(a, b *Node) *Node {
	if a == b {
		return a
	}
	return z.prune(z.and(a, b))
}

// prune replaces a letter that can never hold by FALSE. Without a
// LetterChecker it is the identity.
func (z *normalizer) prune(letter *Node) *Node {
	if z.letters == nil || letter.Op().IsLeaf() {
		return letter
	}
	sat, err := z.letters.Satisfiable(letter)
	if err != nil {
		z.log.WithFields(logrus.Fields{"letter": Print(letter)}).WithError(err).Warn("letter check failed")
		return letter
	}
	if sat {
		return letter
	}
	z.log.WithFields(logrus.Fields{"letter": Print(letter)}).Debug("pruned unsatisfiable letter")
	return z.store.False()
}
