package psl

// Nodes stay plain triples so they can be interned. The views below decode
// one operator family each, so the rewriting code never has to know which
// child slot carries which payload.

// NextView decodes X, X!, next and next!.
type NextView struct {
	Op      Op
	Operand *Node
	Steps   int
	Strong  bool
}

func ViewNext(n *Node) (NextView, error) {
	v := NextView{Op: n.Op(), Operand: n.Left(), Steps: 1}
	switch n.Op() {
	case PslX, PslNext:
	case PslXBang, PslNextBang:
		v.Strong = true
	default:
		return v, internal(PhaseTranslate, n, "not a next operator")
	}
	if c := n.Right(); c != nil {
		k, ok := literal(c)
		if !ok {
			return v, unsupported(PhaseTranslate, n, "next count must be an integer literal")
		}
		if k < 0 {
			return v, semantic(PhaseTranslate, n, "negative next count %d", k)
		}
		v.Steps = k
	}
	return v, nil
}

// RangedNextView decodes next_a and next_e with their strong forms.
type RangedNextView struct {
	Op        Op
	Operand   *Node
	Lo, Hi    int
	Strong    bool
	Universal bool
}

func ViewRangedNext(n *Node) (RangedNextView, error) {
	v := RangedNextView{Op: n.Op(), Operand: n.Left()}
	switch n.Op() {
	case PslNextA:
		v.Universal = true
	case PslNextABang:
		v.Universal, v.Strong = true, true
	case PslNextE:
	case PslNextEBang:
		v.Strong = true
	default:
		return v, internal(PhaseTranslate, n, "not a ranged next operator")
	}
	lo, hi, err := literalRange(PhaseTranslate, n, n.Right(), 0)
	if err != nil {
		return v, err
	}
	v.Lo, v.Hi = lo, hi
	return v, nil
}

// NextEventView decodes the next_event family. Unranged forms report
// Lo == Hi == count.
type NextEventView struct {
	Op        Op
	Cond      *Node
	Operand   *Node
	Lo, Hi    int
	Strong    bool
	Ranged    bool
	Universal bool
}

func ViewNextEvent(n *Node) (NextEventView, error) {
	v := NextEventView{Op: n.Op(), Operand: n.Left(), Lo: 1, Hi: 1}
	switch n.Op() {
	case PslNextEvent:
	case PslNextEventBang:
		v.Strong = true
	case PslNextEventA:
		v.Ranged, v.Universal = true, true
	case PslNextEventABang:
		v.Ranged, v.Universal, v.Strong = true, true, true
	case PslNextEventE:
		v.Ranged = true
	case PslNextEventEBang:
		v.Ranged, v.Strong = true, true
	default:
		return v, internal(PhaseTranslate, n, "not a next_event operator")
	}
	payload := n.Right()
	if payload.Op() != OpPair {
		return v, internal(PhaseTranslate, n, "malformed next_event payload")
	}
	v.Cond = payload.Left()
	bound := payload.Right()
	if v.Ranged {
		lo, hi, err := literalRange(PhaseTranslate, n, bound, 1)
		if err != nil {
			return v, err
		}
		v.Lo, v.Hi = lo, hi
		return v, nil
	}
	if bound != nil {
		k, ok := literal(bound)
		if !ok {
			return v, unsupported(PhaseTranslate, n, "next_event count must be an integer literal")
		}
		if k < 1 {
			return v, semantic(PhaseTranslate, n, "next_event count must be positive, got %d", k)
		}
		v.Lo, v.Hi = k, k
	}
	return v, nil
}

// UntilView decodes the until and before families.
type UntilView struct {
	Op          Op
	Left, Right *Node
	Strong      bool
	Inclusive   bool
	Before      bool
}

func ViewUntil(n *Node) (UntilView, error) {
	v := UntilView{Op: n.Op(), Left: n.Left(), Right: n.Right()}
	switch n.Op() {
	case PslUntil:
	case PslUntilBang:
		v.Strong = true
	case PslUntilU:
		v.Inclusive = true
	case PslUntilBangU:
		v.Strong, v.Inclusive = true, true
	case PslBefore:
		v.Before = true
	case PslBeforeBang:
		v.Before, v.Strong = true, true
	case PslBeforeU:
		v.Before, v.Inclusive = true, true
	case PslBeforeBangU:
		v.Before, v.Strong, v.Inclusive = true, true, true
	default:
		return v, internal(PhaseTranslate, n, "not an until or before operator")
	}
	return v, nil
}

// RepeatView decodes [*] and [+]. Unbounded is set for the count-less forms.
type RepeatView struct {
	Op         Op
	Operand    *Node
	Lo, Hi     int
	Unbounded  bool
	Standalone bool
}

func ViewRepeat(n *Node) (RepeatView, error) {
	v := RepeatView{Op: n.Op(), Operand: n.Left(), Standalone: n.Left() == nil}
	if n.Op() != PslStar && n.Op() != PslPlusRep {
		return v, internal(PhaseNormalize, n, "not a repetition operator")
	}
	c := n.Right()
	switch {
	case c == nil:
		v.Unbounded = true
		v.Lo = 0
		if n.Op() == PslPlusRep {
			v.Lo = 1
		}
	case c.Op() == OpRange:
		lo, hi, err := literalRange(PhaseNormalize, n, c, 1)
		if err != nil {
			return v, err
		}
		v.Lo, v.Hi = lo, hi
	default:
		k, ok := literal(c)
		if !ok {
			return v, unsupported(PhaseNormalize, n, "repetition count must be an integer literal")
		}
		if k < 1 {
			return v, unsupported(PhaseNormalize, n, "repetition count must be positive, got %d", k)
		}
		v.Lo, v.Hi = k, k
	}
	return v, nil
}

// ReplicatorView decodes forall(replicator(id, values), body).
type ReplicatorView struct {
	ID     *Node
	Values *Node
	Body   *Node
}

func ViewReplicator(n *Node) (ReplicatorView, error) {
	rep := n.Left()
	if n.Op() != PslForall || rep.Op() != PslReplicator {
		return ReplicatorView{}, internal(PhaseReplicate, n, "not a forall")
	}
	return ReplicatorView{ID: rep.Left(), Values: rep.Right(), Body: n.Right()}, nil
}

func literal(n *Node) (int, bool) {
	if n.Op() != OpNumber {
		return 0, false
	}
	return n.Value(), true
}

// literalRange decodes range(lo, hi) with literal, finite ends, lo >= floor and
// lo <= hi.
func literalRange(phase Phase, owner, rng *Node, floor int) (int, int, error) {
	if rng.Op() != OpRange {
		return 0, 0, unsupported(phase, owner, "expected a range")
	}
	if rng.Right().Op() == OpInf {
		return 0, 0, unsupported(phase, owner, "inf bound not supported")
	}
	lo, okLo := literal(rng.Left())
	hi, okHi := literal(rng.Right())
	if !okLo || !okHi {
		return 0, 0, unsupported(phase, owner, "range bounds must be integer literals")
	}
	if lo < floor {
		return 0, 0, unsupported(phase, owner, "range lower bound must be at least %d, got %d", floor, lo)
	}
	if lo > hi {
		return 0, 0, semantic(phase, owner, "range lower bound %d exceeds upper bound %d", lo, hi)
	}
	return lo, hi, nil
}
