package psl

// Builder constructs typed expressions. Every constructor checks the syntax
// classes of its operands and returns a TypeError on mismatch; nothing is
// coerced silently.
//
// An absent optional operand (a repetition count, a next bound) is the zero
// TypedExpr.
type Builder struct {
	store *Store
}

func NewBuilder(s *Store) *Builder {
	return &Builder{store: s}
}

func (b *Builder) Store() *Store { return b.store }

func (b *Builder) Atom(name string) TypedExpr {
	return TypedExpr{b.store.Atom(name), ClassIdentifier}
}

func (b *Builder) Number(v int) TypedExpr {
	return TypedExpr{b.store.Number(v), ClassNumeric}
}

func (b *Builder) True() TypedExpr { return TypedExpr{b.store.True(), ClassBoolean} }

func (b *Builder) False() TypedExpr { return TypedExpr{b.store.False(), ClassBoolean} }

// Boolean is the `boolean` replicator value set.
func (b *Builder) Boolean() TypedExpr {
	return TypedExpr{b.store.Intern(OpBoolean, nil, nil), ClassList}
}

// Inf is the `inf` range bound.
func (b *Builder) Inf() TypedExpr {
	return TypedExpr{b.store.Intern(OpInf, nil, nil), ClassNumeric}
}

func (b *Builder) mk(op Op, class SyntaxClass, l, r *Node) TypedExpr {
	return TypedExpr{b.store.Intern(op, l, r), class}
}

func typeError(op Op, want string, got ...TypedExpr) *Error {
	offender := got[0]
	classes := got[0].Class.String()
	for _, g := range got[1:] {
		classes += ", " + g.Class.String()
	}
	for _, g := range got {
		if g.Node != nil {
			offender = g
			break
		}
	}
	return newError(KindType, PhaseBuild, offender.Node,
		"operator %s expects %s, got %s", op, want, classes)
}

// Unary builds a prefix operator.
func (b *Builder) Unary(op Op, x TypedExpr) (TypedExpr, error) {
	switch op {
	case PslNot:
		switch {
		case x.Class.boolish():
			return b.mk(op, ClassBoolean, x.Node, nil), nil
		case x.Class == ClassSequence:
			return b.mk(op, ClassFLProperty, x.Node, nil), nil
		case x.Class.propertyish():
			return b.mk(op, x.Class, x.Node, nil), nil
		}
		return TypedExpr{}, typeError(op, "a boolean or property operand", x)
	case PslUMinus:
		if !x.Class.numish() {
			return TypedExpr{}, typeError(op, "a numeric operand", x)
		}
		return b.mk(op, ClassNumeric, x.Node, nil), nil
	case PslAlways, PslG, PslNever, PslEventuallyBang, PslF:
		if !x.Class.flish() {
			return TypedExpr{}, typeError(op, "an FL operand", x)
		}
		return b.mk(op, ClassFLProperty, x.Node, nil), nil
	case PslX, PslXBang, PslNext, PslNextBang:
		return b.Next(op, x, TypedExpr{})
	case OpAX, OpEX, OpAG, OpEG, OpAF, OpEF:
		if !x.Class.obeish() {
			return TypedExpr{}, typeError(op, "an OBE operand", x)
		}
		return b.mk(op, ClassOBEProperty, x.Node, nil), nil
	case PslStrong:
		return b.Strong(x)
	case PslStar, PslPlusRep:
		return b.Repeat(op, x, TypedExpr{})
	}
	return TypedExpr{}, newError(KindType, PhaseBuild, x.Node, "%s is not a unary operator", op)
}

// Binary builds an infix operator. `&` and `|` over sequences are promoted to
// their SERE forms; `&&` over booleans is plain conjunction.
func (b *Builder) Binary(op Op, x, y TypedExpr) (TypedExpr, error) {
	switch op {
	case PslAnd, PslOr, PslSereAnd, PslSereOr:
		prop, sere := PslAnd, PslSereAnd
		if op == PslOr || op == PslSereOr {
			prop, sere = PslOr, PslSereOr
		}
		if x.Class.boolish() && y.Class.boolish() {
			return b.mk(prop, ClassBoolean, x.Node, y.Node), nil
		}
		if x.Class.seqish() && y.Class.seqish() {
			return b.mk(sere, ClassSequence, x.Node, y.Node), nil
		}
		if op == PslSereAnd || op == PslSereOr {
			return TypedExpr{}, typeError(op, "sequence operands", x, y)
		}
		return b.connective(prop, x, y)
	case PslSereLand:
		if x.Class.boolish() && y.Class.boolish() {
			return b.mk(PslAnd, ClassBoolean, x.Node, y.Node), nil
		}
		if x.Class.seqish() && y.Class.seqish() {
			return b.mk(op, ClassSequence, x.Node, y.Node), nil
		}
		return TypedExpr{}, typeError(op, "sequence operands", x, y)
	case PslXor, PslXnor, PslImplies, PslIff:
		return b.connective(op, x, y)
	case PslConcat, PslFusion:
		if !x.Class.seqish() || !y.Class.seqish() {
			return TypedExpr{}, typeError(op, "sequence operands", x, y)
		}
		return b.mk(op, ClassSequence, x.Node, y.Node), nil
	case PslEqual, PslNotEqual:
		if (x.Class.numish() && y.Class.numish()) || (x.Class.boolish() && y.Class.boolish()) {
			return b.mk(op, ClassBoolean, x.Node, y.Node), nil
		}
		return TypedExpr{}, typeError(op, "comparable operands", x, y)
	case PslLt, PslLe, PslGt, PslGe:
		if !x.Class.numish() || !y.Class.numish() {
			return TypedExpr{}, typeError(op, "numeric operands", x, y)
		}
		return b.mk(op, ClassBoolean, x.Node, y.Node), nil
	case PslPlus, PslMinus, PslTimes, PslDivide, PslMod:
		if !x.Class.numish() || !y.Class.numish() {
			return TypedExpr{}, typeError(op, "numeric operands", x, y)
		}
		return b.mk(op, ClassNumeric, x.Node, y.Node), nil
	case PslU, PslW, PslUntil, PslUntilBang, PslUntilU, PslUntilBangU,
		PslBefore, PslBeforeBang, PslBeforeU, PslBeforeBangU,
		PslAbort, PslWithin, PslWhilenot:
		if !x.Class.flish() || !y.Class.flish() {
			return TypedExpr{}, typeError(op, "FL operands", x, y)
		}
		return b.mk(op, ClassFLProperty, x.Node, y.Node), nil
	case OpAU, OpEU:
		if !x.Class.obeish() || !y.Class.obeish() {
			return TypedExpr{}, typeError(op, "OBE operands", x, y)
		}
		return b.mk(op, ClassOBEProperty, x.Node, y.Node), nil
	case PslSuffixOverlap, PslSuffixNext:
		return b.Suffix(op, x, y)
	case PslArray:
		return b.Index(x, y)
	case PslDot:
		return b.Field(x, y)
	case OpRange:
		return b.Range(x, y)
	case PslReplicator:
		return b.Replicator(x, y)
	case PslForall:
		return b.Forall(x, y)
	}
	return TypedExpr{}, newError(KindType, PhaseBuild, x.Node, "%s is not a binary operator", op)
}

func (b *Builder) connective(op Op, x, y TypedExpr) (TypedExpr, error) {
	class, ok := joinProperty(x.Class, y.Class)
	if !ok {
		return TypedExpr{}, typeError(op, "boolean or property operands", x, y)
	}
	return b.mk(op, class, x.Node, y.Node), nil
}

// Next builds X, X!, next and next! with an optional literal step count.
func (b *Builder) Next(op Op, phi, count TypedExpr) (TypedExpr, error) {
	switch op {
	case PslX, PslXBang, PslNext, PslNextBang:
	default:
		return TypedExpr{}, newError(KindType, PhaseBuild, phi.Node, "%s is not a next operator", op)
	}
	if !phi.Class.flish() {
		return TypedExpr{}, typeError(op, "an FL operand", phi)
	}
	if count.Node != nil && !count.Class.numish() {
		return TypedExpr{}, typeError(op, "a numeric count", count)
	}
	return b.mk(op, ClassFLProperty, phi.Node, count.Node), nil
}

// NextRange builds next_a, next_e and their strong forms over a range.
func (b *Builder) NextRange(op Op, phi, rng TypedExpr) (TypedExpr, error) {
	switch op {
	case PslNextA, PslNextABang, PslNextE, PslNextEBang:
	default:
		return TypedExpr{}, newError(KindType, PhaseBuild, phi.Node, "%s is not a ranged next operator", op)
	}
	if !phi.Class.flish() {
		return TypedExpr{}, typeError(op, "an FL operand", phi)
	}
	if rng.Class != ClassRange {
		return TypedExpr{}, typeError(op, "a range", rng)
	}
	return b.mk(op, ClassFLProperty, phi.Node, rng.Node), nil
}

// NextEvent builds the next_event family. bound is a count for the plain
// forms and a range for the _a and _e forms.
func (b *Builder) NextEvent(op Op, cond, phi, bound TypedExpr) (TypedExpr, error) {
	ranged := false
	switch op {
	case PslNextEvent, PslNextEventBang:
	case PslNextEventA, PslNextEventABang, PslNextEventE, PslNextEventEBang:
		ranged = true
	default:
		return TypedExpr{}, newError(KindType, PhaseBuild, phi.Node, "%s is not a next_event operator", op)
	}
	if !cond.Class.boolish() {
		return TypedExpr{}, typeError(op, "a boolean condition", cond)
	}
	if !phi.Class.flish() {
		return TypedExpr{}, typeError(op, "an FL operand", phi)
	}
	switch {
	case ranged && bound.Class != ClassRange:
		return TypedExpr{}, typeError(op, "a range", bound)
	case !ranged && bound.Node != nil && !bound.Class.numish():
		return TypedExpr{}, typeError(op, "a numeric count", bound)
	}
	payload := b.store.Intern(OpPair, cond.Node, bound.Node)
	return b.mk(op, ClassFLProperty, phi.Node, payload), nil
}

// Repeat builds [*], [+], [=] and [->]. A zero r is the standalone form.
func (b *Builder) Repeat(op Op, r, count TypedExpr) (TypedExpr, error) {
	switch op {
	case PslStar:
	case PslPlusRep:
		if count.Node != nil {
			return TypedExpr{}, typeError(op, "no count", count)
		}
	case PslEqualRep, PslGotoRep:
		if !r.Class.boolish() {
			return TypedExpr{}, typeError(op, "a boolean operand", r)
		}
	default:
		return TypedExpr{}, newError(KindType, PhaseBuild, r.Node, "%s is not a repetition operator", op)
	}
	if r.Node != nil && !r.Class.seqish() {
		return TypedExpr{}, typeError(op, "a sequence operand", r)
	}
	if count.Node != nil && !count.Class.numish() && count.Class != ClassRange {
		return TypedExpr{}, typeError(op, "a numeric count or range", count)
	}
	return b.mk(op, ClassSequence, r.Node, count.Node), nil
}

// Strong builds the strong sequence property {r}!.
func (b *Builder) Strong(r TypedExpr) (TypedExpr, error) {
	if !r.Class.seqish() {
		return TypedExpr{}, typeError(PslStrong, "a sequence operand", r)
	}
	return b.mk(PslStrong, ClassFLProperty, r.Node, nil), nil
}

// Suffix builds {r} |-> psi and {r} |=> psi.
func (b *Builder) Suffix(op Op, premise, consequence TypedExpr) (TypedExpr, error) {
	if op != PslSuffixOverlap && op != PslSuffixNext {
		return TypedExpr{}, newError(KindType, PhaseBuild, premise.Node, "%s is not a suffix implication", op)
	}
	if !premise.Class.seqish() {
		return TypedExpr{}, typeError(op, "a sequence premise", premise)
	}
	if !consequence.Class.flish() {
		return TypedExpr{}, typeError(op, "an FL consequence", consequence)
	}
	return b.mk(op, ClassFLProperty, premise.Node, consequence.Node), nil
}

// Range builds lo..hi. hi may be inf.
func (b *Builder) Range(lo, hi TypedExpr) (TypedExpr, error) {
	if !lo.Class.numish() || !hi.Class.numish() {
		return TypedExpr{}, typeError(OpRange, "numeric bounds", lo, hi)
	}
	return b.mk(OpRange, ClassRange, lo.Node, hi.Node), nil
}

// List builds a value list, preserving the order of items.
func (b *Builder) List(items ...TypedExpr) (TypedExpr, error) {
	if len(items) == 0 {
		return TypedExpr{}, newError(KindType, PhaseBuild, nil, "empty value list")
	}
	var tail *Node
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		switch it.Class {
		case ClassBoolean, ClassNumeric, ClassIdentifier, ClassRange:
		default:
			return TypedExpr{}, typeError(OpCons, "values or ranges", it)
		}
		tail = b.store.Intern(OpCons, it.Node, tail)
	}
	return TypedExpr{tail, ClassList}, nil
}

// Replicator builds `id in values`.
func (b *Builder) Replicator(id, values TypedExpr) (TypedExpr, error) {
	if id.Class != ClassIdentifier {
		return TypedExpr{}, typeError(PslReplicator, "an identifier", id)
	}
	if values.Class != ClassList && values.Class != ClassRange {
		return TypedExpr{}, typeError(PslReplicator, "a value set", values)
	}
	return b.mk(PslReplicator, ClassReplicator, id.Node, values.Node), nil
}

// Forall builds `forall rep : wff`; the result has the class of wff.
func (b *Builder) Forall(rep, wff TypedExpr) (TypedExpr, error) {
	if rep.Class != ClassReplicator {
		return TypedExpr{}, typeError(PslForall, "a replicator", rep)
	}
	if !wff.Class.propertyish() {
		return TypedExpr{}, typeError(PslForall, "a property body", wff)
	}
	class := wff.Class
	switch class {
	case ClassIdentifier:
		class = ClassBoolean
	case ClassSequence:
		class = ClassFLProperty
	}
	return b.mk(PslForall, class, rep.Node, wff.Node), nil
}

// Ite builds c ? x : y.
func (b *Builder) Ite(c, x, y TypedExpr) (TypedExpr, error) {
	if !c.Class.boolish() {
		return TypedExpr{}, typeError(PslIte, "a boolean condition", c)
	}
	var class SyntaxClass
	switch {
	case x.Class.boolish() && y.Class.boolish():
		class = ClassBoolean
	case x.Class.numish() && y.Class.numish():
		class = ClassNumeric
	default:
		return TypedExpr{}, typeError(PslIte, "branches of one type", x, y)
	}
	if x.Class == ClassIdentifier && y.Class == ClassIdentifier {
		class = ClassIdentifier
	}
	return b.mk(PslIte, class, c.Node, b.store.Intern(OpPair, x.Node, y.Node)), nil
}

// Index builds a[i].
func (b *Builder) Index(a, i TypedExpr) (TypedExpr, error) {
	if a.Class != ClassIdentifier {
		return TypedExpr{}, typeError(PslArray, "an identifier base", a)
	}
	if !i.Class.numish() && !i.Class.boolish() {
		return TypedExpr{}, typeError(PslArray, "a scalar index", i)
	}
	return b.mk(PslArray, ClassIdentifier, a.Node, i.Node), nil
}

// Field builds a.f.
func (b *Builder) Field(a, f TypedExpr) (TypedExpr, error) {
	if a.Class != ClassIdentifier || f.Node.Op() != OpAtom {
		return TypedExpr{}, typeError(PslDot, "identifiers", a, f)
	}
	return b.mk(PslDot, ClassIdentifier, a.Node, f.Node), nil
}
