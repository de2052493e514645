package psl

import (
	"strconv"
	"strings"
)

// Print renders n in surface syntax. Binary operators are fully
// parenthesized; sequences are braced. The output round-trips operator
// semantics, not the original layout.
func Print(n *Node) string {
	var b strings.Builder
	printNode(&b, n)
	return b.String()
}

func printNode(b *strings.Builder, n *Node) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	op := n.Op()
	switch op {
	case OpAtom:
		b.WriteString(n.Name())
		return
	case OpNumber:
		b.WriteString(strconv.Itoa(n.Value()))
		return
	case OpTrue, OpFalse, OpBoolean, OpInf:
		b.WriteString(op.Token())
		return
	case OpRange:
		printNode(b, n.Left())
		b.WriteString("..")
		printNode(b, n.Right())
		return
	case OpCons:
		b.WriteByte('{')
		for i, item := range listItems(n) {
			if i > 0 {
				b.WriteString(", ")
			}
			printNode(b, item)
		}
		b.WriteByte('}')
		return
	case OpPair:
		printNode(b, n.Left())
		b.WriteString(", ")
		printNode(b, n.Right())
		return
	case PslNot, SmvNot:
		b.WriteByte('!')
		printNode(b, n.Left())
		return
	case PslUMinus, SmvUMinus:
		b.WriteByte('-')
		printNode(b, n.Left())
		return
	case PslIte, SmvIte:
		b.WriteByte('(')
		printNode(b, n.Left())
		b.WriteString(" ? ")
		printNode(b, n.Right().Left())
		b.WriteString(" : ")
		printNode(b, n.Right().Right())
		b.WriteByte(')')
		return
	case PslArray, SmvArray:
		printNode(b, n.Left())
		b.WriteByte('[')
		printNode(b, n.Right())
		b.WriteByte(']')
		return
	case PslDot, SmvDot:
		printNode(b, n.Left())
		b.WriteByte('.')
		printNode(b, n.Right())
		return
	case PslX, PslXBang, PslNext, PslNextBang, PslNextA, PslNextABang, PslNextE, PslNextEBang:
		b.WriteString(op.Token())
		if c := n.Right(); c != nil {
			b.WriteByte('[')
			printNode(b, c)
			b.WriteByte(']')
		}
		b.WriteByte('(')
		printNode(b, n.Left())
		b.WriteByte(')')
		return
	case PslNextEvent, PslNextEventBang, PslNextEventA, PslNextEventABang, PslNextEventE, PslNextEventEBang:
		b.WriteString(op.Token())
		b.WriteByte('(')
		printNode(b, n.Right().Left())
		b.WriteByte(')')
		if c := n.Right().Right(); c != nil {
			b.WriteByte('[')
			printNode(b, c)
			b.WriteByte(']')
		}
		b.WriteByte('(')
		printNode(b, n.Left())
		b.WriteByte(')')
		return
	case PslAlways, PslG, PslNever, PslEventuallyBang, PslF,
		OpAX, OpEX, OpAG, OpEG, OpAF, OpEF,
		SmvNext, SmvGlobal, SmvFuture:
		b.WriteString(op.Token())
		b.WriteByte(' ')
		printNode(b, n.Left())
		return
	case OpAU, OpEU:
		b.WriteString(op.Token()[:1])
		b.WriteByte('[')
		printNode(b, n.Left())
		b.WriteString(" U ")
		printNode(b, n.Right())
		b.WriteByte(']')
		return
	case PslStar, PslPlusRep, PslEqualRep, PslGotoRep, opLoop:
		if n.Left() != nil {
			printSere(b, n.Left())
		}
		b.WriteString(repeatToken(n))
		return
	case PslStrong:
		printSere(b, n.Left())
		b.WriteByte('!')
		return
	case PslConcat, PslFusion, PslSereOr, PslSereAnd, PslSereLand:
		b.WriteByte('{')
		printNode(b, n.Left())
		b.WriteString(" " + op.Token() + " ")
		printNode(b, n.Right())
		b.WriteByte('}')
		return
	case PslSuffixOverlap, PslSuffixNext:
		b.WriteByte('(')
		printSere(b, n.Left())
		b.WriteString(" " + op.Token() + " ")
		printNode(b, n.Right())
		b.WriteByte(')')
		return
	case PslForall:
		rep := n.Left()
		b.WriteString("forall ")
		printNode(b, rep.Left())
		b.WriteString(" in ")
		if rep.Right().Op() == OpRange {
			b.WriteByte('{')
			printNode(b, rep.Right())
			b.WriteByte('}')
		} else {
			printNode(b, rep.Right())
		}
		b.WriteString(" : ")
		printNode(b, n.Right())
		return
	case PslReplicator:
		printNode(b, n.Left())
		b.WriteString(" in ")
		printNode(b, n.Right())
		return
	}

	// Remaining operators are binary infix.
	b.WriteByte('(')
	printNode(b, n.Left())
	b.WriteString(" " + op.Token() + " ")
	printNode(b, n.Right())
	b.WriteByte(')')
}

// printSere braces a sequence operand unless it already prints braced.
func printSere(b *strings.Builder, n *Node) {
	switch n.Op() {
	case PslConcat, PslFusion, PslSereOr, PslSereAnd, PslSereLand:
		printNode(b, n)
	default:
		b.WriteByte('{')
		printNode(b, n)
		b.WriteByte('}')
	}
}

func repeatToken(n *Node) string {
	if n.Op() == opLoop {
		return "[+]"
	}
	tok := n.Op().Token()
	if n.Right() == nil {
		return tok
	}
	// [*] -> [*3], [=] -> [=2], [->] -> [->1]
	return tok[:len(tok)-1] + Print(n.Right()) + "]"
}

// listItems returns the elements of a cons list in order.
func listItems(n *Node) []*Node {
	var items []*Node
	for ; n.Op() == OpCons; n = n.Right() {
		items = append(items, n.Left())
	}
	return items
}
