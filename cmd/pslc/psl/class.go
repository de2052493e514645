package psl

// SyntaxClass is the static type of a built expression.
type SyntaxClass uint8

const (
	ClassNone SyntaxClass = iota
	ClassBoolean
	ClassNumeric
	ClassIdentifier
	ClassSequence
	ClassProperty
	ClassFLProperty
	ClassOBEProperty
	ClassReplicator
	ClassRange
	ClassList
)

var classNames = [...]string{
	ClassNone:        "none",
	ClassBoolean:     "boolean",
	ClassNumeric:     "numeric",
	ClassIdentifier:  "identifier",
	ClassSequence:    "sequence",
	ClassProperty:    "property",
	ClassFLProperty:  "FL property",
	ClassOBEProperty: "OBE property",
	ClassReplicator:  "replicator",
	ClassRange:       "range",
	ClassList:        "list",
}

func (c SyntaxClass) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// TypedExpr pairs a node with the class it was built as.
type TypedExpr struct {
	Node  *Node
	Class SyntaxClass
}

// An identifier may stand for a boolean or a numeric signal; its real type is
// only known to the model, so it is accepted wherever either is.

func (c SyntaxClass) boolish() bool { return c == ClassBoolean || c == ClassIdentifier }

func (c SyntaxClass) numish() bool { return c == ClassNumeric || c == ClassIdentifier }

func (c SyntaxClass) seqish() bool { return c == ClassSequence || c.boolish() }

// propertyish reports whether c may stand in property position. Bare
// sequences are weak sequence properties.
func (c SyntaxClass) propertyish() bool {
	switch c {
	case ClassBoolean, ClassIdentifier, ClassSequence, ClassProperty, ClassFLProperty, ClassOBEProperty:
		return true
	}
	return false
}

func (c SyntaxClass) flish() bool { return c.propertyish() && c != ClassOBEProperty }

func (c SyntaxClass) obeish() bool {
	switch c {
	case ClassBoolean, ClassIdentifier, ClassProperty, ClassOBEProperty:
		return true
	}
	return false
}

// joinProperty computes the class of a propositional connective applied to
// two property-level operands.
func joinProperty(a, b SyntaxClass) (SyntaxClass, bool) {
	if !a.propertyish() || !b.propertyish() {
		return ClassNone, false
	}
	if a.boolish() && b.boolish() {
		return ClassBoolean, true
	}
	fl := a == ClassFLProperty || a == ClassSequence || b == ClassFLProperty || b == ClassSequence
	obe := a == ClassOBEProperty || b == ClassOBEProperty
	// Mixed FL/OBE operands build fine; the classifier rejects them.
	switch {
	case fl && obe:
		return ClassProperty, true
	case fl:
		return ClassFLProperty, true
	case obe:
		return ClassOBEProperty, true
	}
	return ClassProperty, true
}
