package psl

import "errors"

// Fragment is the logic an expression belongs to.
type Fragment uint8

const (
	FragmentPropositional Fragment = iota
	FragmentLTL
	FragmentCTL
	FragmentMixed
)

func (f Fragment) String() string {
	switch f {
	case FragmentPropositional:
		return "propositional"
	case FragmentLTL:
		return "ltl"
	case FragmentCTL:
		return "ctl"
	}
	return "mixed"
}

// DefaultMaxDepth bounds the nesting accepted by IsHandled.
const DefaultMaxDepth = 10000

func temporalFamily(n *Node) bool {
	switch n.Op().Family() {
	case FamilyFL, FamilyOBE, FamilySERE:
		return true
	}
	return false
}

// IsPropositional reports whether n contains no temporal or sequence
// operator.
func IsPropositional(n *Node) bool { return !Any(n, temporalFamily) }

// IsLtl reports whether n contains no OBE operator.
func IsLtl(n *Node) bool {
	return !Any(n, func(x *Node) bool { return x.Op().Family() == FamilyOBE })
}

// IsObe reports whether n contains no FL or SERE operator.
func IsObe(n *Node) bool {
	return !Any(n, func(x *Node) bool {
		f := x.Op().Family()
		return f == FamilyFL || f == FamilySERE
	})
}

func Classify(n *Node) Fragment {
	ltl, obe := IsLtl(n), IsObe(n)
	switch {
	case ltl && obe:
		return FragmentPropositional
	case ltl:
		return FragmentLTL
	case obe:
		return FragmentCTL
	}
	return FragmentMixed
}

// IsHandled checks that n lies inside the fragment the normalizer and the
// translators implement. It returns the first offending subtree as an
// *Error, or nil.
func IsHandled(n *Node) error {
	return validator{maxDepth: DefaultMaxDepth}.check(n)
}

type validator struct {
	maxDepth int
}

func (v validator) check(n *Node) error {
	if d := Depth(n); v.maxDepth > 0 && d > v.maxDepth {
		return unsupported(PhaseClassify, nil, "nesting depth %d exceeds the limit of %d", d, v.maxDepth)
	}
	if Classify(n) == FragmentMixed {
		return unsupported(PhaseClassify, n, "expression mixes FL and OBE operators")
	}
	return v.property(n)
}

func isSereOp(op Op) bool {
	switch op {
	case PslConcat, PslFusion, PslSereOr, PslSereAnd, PslSereLand,
		PslStar, PslPlusRep, PslEqualRep, PslGotoRep:
		return true
	}
	return false
}

func (v validator) property(n *Node) error {
	if n == nil || n.Op().IsLeaf() {
		return nil
	}
	switch op := n.Op(); {
	case op == PslWithin || op == PslWhilenot || op == PslAbort:
		return unsupported(PhaseClassify, n, "%s is not supported", op.Token())
	case isSereOp(op):
		if err := v.sequenceRoot(n); err != nil {
			return err
		}
		for _, e := range trimTrailing(flatten(PslConcat, n)) {
			if hasUnbounded(e) {
				return unsupported(PhaseClassify, n, "weak sequence with unbounded repetition")
			}
		}
		return nil
	case op == PslStrong:
		return v.sequenceRoot(n.Left())
	case op == PslSuffixOverlap || op == PslSuffixNext:
		if err := v.sequenceRoot(n.Left()); err != nil {
			return err
		}
		if isSereOp(n.Right().Op()) {
			return unsupported(PhaseClassify, n, "weak sequence as suffix implication consequence")
		}
		return v.property(n.Right())
	case op == PslX || op == PslXBang || op == PslNext || op == PslNextBang:
		if _, err := ViewNext(n); err != nil {
			return inPhase(err, PhaseClassify)
		}
		return v.property(n.Left())
	case op == PslNextA || op == PslNextABang || op == PslNextE || op == PslNextEBang:
		if _, err := ViewRangedNext(n); err != nil {
			return inPhase(err, PhaseClassify)
		}
		return v.property(n.Left())
	case isNextEvent(op):
		nv, err := ViewNextEvent(n)
		if err != nil {
			return inPhase(err, PhaseClassify)
		}
		if !IsPropositional(nv.Cond) {
			return unsupported(PhaseClassify, n, "next_event condition must be boolean")
		}
		return v.property(nv.Operand)
	case op == PslForall:
		return v.replicator(n)
	case op.Family() == FamilyArith:
		if !IsPropositional(n) {
			return unsupported(PhaseClassify, n, "temporal operand under %s", op.Token())
		}
		return nil
	}
	if err := v.property(n.Left()); err != nil {
		return err
	}
	return v.property(n.Right())
}

func (v validator) replicator(n *Node) error {
	rv, err := ViewReplicator(n)
	if err != nil {
		return inPhase(err, PhaseClassify)
	}
	switch rv.ID.Op() {
	case OpAtom:
	case PslArray:
		return unsupported(PhaseClassify, n, "indexed replicator id %s", Print(rv.ID))
	default:
		return unsupported(PhaseClassify, n, "replicator id must be an identifier")
	}
	switch rv.Values.Op() {
	case OpBoolean:
	case OpRange:
		if err := valueRange(n, rv.Values); err != nil {
			return err
		}
	case OpCons:
		for _, item := range listItems(rv.Values) {
			if item.Op() != OpRange {
				continue
			}
			if err := valueRange(n, item); err != nil {
				return err
			}
		}
	default:
		return unsupported(PhaseClassify, n, "unsupported replicator value set")
	}
	return v.property(rv.Body)
}

// valueRange accepts literal finite ranges; lo > hi is reported by the
// expander.
func valueRange(owner, rng *Node) error {
	if rng.Right().Op() == OpInf {
		return unsupported(PhaseClassify, owner, "inf bound in replicator range")
	}
	if _, ok := literal(rng.Left()); !ok {
		return unsupported(PhaseClassify, owner, "replicator range bounds must be integer literals")
	}
	if _, ok := literal(rng.Right()); !ok {
		return unsupported(PhaseClassify, owner, "replicator range bounds must be integer literals")
	}
	return nil
}

// sequenceRoot checks a sequence that is matched from a root position: a
// premise, a strong sequence or a weak sequence property.
func (v validator) sequenceRoot(r *Node) error {
	if err := v.sere(r); err != nil {
		return err
	}
	if nullable(r) {
		return unsupported(PhaseClassify, r, "sequence can match the empty word")
	}
	return nil
}

func (v validator) sere(r *Node) error {
	switch op := r.Op(); op {
	case PslConcat, PslSereOr:
		if err := v.sere(r.Left()); err != nil {
			return err
		}
		return v.sere(r.Right())
	case PslFusion, PslSereLand:
		if hasUnbounded(r.Left()) || hasUnbounded(r.Right()) {
			return unsupported(PhaseClassify, r, "unbounded repetition under %s", op.Token())
		}
		if err := v.sere(r.Left()); err != nil {
			return err
		}
		return v.sere(r.Right())
	case PslSereAnd:
		if err := v.sere(r.Left()); err != nil {
			return err
		}
		if err := v.sere(r.Right()); err != nil {
			return err
		}
		if nullable(r.Left()) || nullable(r.Right()) {
			return unsupported(PhaseClassify, r, "operand of & can match the empty word")
		}
		return nil
	case PslStar, PslPlusRep:
		rv, err := ViewRepeat(r)
		if err != nil {
			return inPhase(err, PhaseClassify)
		}
		if rv.Operand == nil {
			return nil
		}
		if rv.Unbounded && !IsPropositional(rv.Operand) {
			return unsupported(PhaseClassify, r, "unbounded repetition of a compound sequence")
		}
		return v.sere(rv.Operand)
	case PslEqualRep, PslGotoRep:
		return unsupported(PhaseClassify, r, "%s repetition is not supported", op.Token())
	}
	if !IsPropositional(r) {
		return unsupported(PhaseClassify, r, "temporal operator inside a sequence")
	}
	return nil
}

func isNextEvent(op Op) bool {
	switch op {
	case PslNextEvent, PslNextEventBang, PslNextEventA, PslNextEventABang, PslNextEventE, PslNextEventEBang:
		return true
	}
	return false
}

func hasUnbounded(n *Node) bool {
	return Any(n, func(x *Node) bool {
		return (x.Op() == PslStar || x.Op() == PslPlusRep || x.Op() == opLoop) && x.Right() == nil
	})
}

// nullable reports whether r can match the empty word.
func nullable(r *Node) bool {
	switch r.Op() {
	case PslStar:
		if r.Right() == nil {
			return true
		}
		return r.Left() != nil && nullable(r.Left())
	case PslPlusRep:
		return r.Left() != nil && nullable(r.Left())
	case PslConcat, PslSereAnd, PslSereLand:
		return nullable(r.Left()) && nullable(r.Right())
	case PslSereOr:
		return nullable(r.Left()) || nullable(r.Right())
	}
	return false
}

func inPhase(err error, phase Phase) error {
	var e *Error
	if errors.As(err, &e) {
		e.Phase = phase
	}
	return err
}
