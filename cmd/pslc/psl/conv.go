package psl

import "fmt"

// ConvType selects the output vocabulary of a conversion-aware construction.
type ConvType uint8

const (
	PSL2SMV ConvType = iota
	PSL2PSL
	SMV2PSL
)

func (c ConvType) String() string {
	switch c {
	case PSL2SMV:
		return "psl2smv"
	case PSL2PSL:
		return "psl2psl"
	case SMV2PSL:
		return "smv2psl"
	}
	return fmt.Sprintf("ConvType(%d)", uint8(c))
}

// ParseConvType accepts the names printed by String.
func ParseConvType(s string) (ConvType, error) {
	for _, c := range []ConvType{PSL2SMV, PSL2PSL, SMV2PSL} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown conversion %q (want psl2smv, psl2psl or smv2psl)", s)
}

// convPairs is ordered: for SMV2PSL the first pair whose SMV side matches
// wins, so the preferred PSL spelling is listed first.
var convPairs = []struct{ psl, smv Op }{
	{OpAtom, OpAtom},
	{OpNumber, OpNumber},
	{OpTrue, OpTrue},
	{OpFalse, OpFalse},
	{OpBoolean, OpBoolean},
	{OpInf, OpInf},
	{OpCons, OpCons},
	{OpRange, OpRange},
	{OpPair, OpPair},

	{PslNot, SmvNot},
	{PslAnd, SmvAnd},
	{PslOr, SmvOr},
	{PslXor, SmvXor},
	{PslXnor, SmvXnor},
	{PslImplies, SmvImplies},
	{PslIff, SmvIff},
	{PslEqual, SmvEqual},
	{PslNotEqual, SmvNotEqual},
	{PslLt, SmvLt},
	{PslLe, SmvLe},
	{PslGt, SmvGt},
	{PslGe, SmvGe},
	{PslPlus, SmvPlus},
	{PslMinus, SmvMinus},
	{PslTimes, SmvTimes},
	{PslDivide, SmvDivide},
	{PslMod, SmvMod},
	{PslUMinus, SmvUMinus},
	{PslIte, SmvIte},
	{PslArray, SmvArray},
	{PslDot, SmvDot},

	{PslXBang, SmvNext},
	{PslX, SmvNext},
	{PslNext, SmvNext},
	{PslNextBang, SmvNext},
	{PslG, SmvGlobal},
	{PslAlways, SmvGlobal},
	{PslF, SmvFuture},
	{PslEventuallyBang, SmvFuture},
	{PslU, SmvUntil},
	{PslUntilBang, SmvUntil},

	{OpAX, OpAX},
	{OpEX, OpEX},
	{OpAG, OpAG},
	{OpEG, OpEG},
	{OpAF, OpAF},
	{OpEF, OpEF},
	{OpAU, OpAU},
	{OpEU, OpEU},
}

var (
	pslToSmv = map[Op]Op{}
	smvToPsl = map[Op]Op{}
)

func init() {
	for _, p := range convPairs {
		if _, ok := pslToSmv[p.psl]; !ok {
			pslToSmv[p.psl] = p.smv
		}
		if _, ok := smvToPsl[p.smv]; !ok {
			smvToPsl[p.smv] = p.psl
		}
	}
}

// ConvertOp maps a single operator. PSL2PSL accepts every PSL-domain or
// shared operator (the structural-copy case), even those without an SMV
// counterpart; the other directions require a pair in the table.
func ConvertOp(op Op, conv ConvType) (Op, error) {
	switch conv {
	case PSL2SMV:
		if m, ok := pslToSmv[op]; ok {
			return m, nil
		}
	case PSL2PSL:
		if d := op.Domain(); op != OpInvalid && (d == DomainPSL || d == DomainShared) {
			return op, nil
		}
	case SMV2PSL:
		if m, ok := smvToPsl[op]; ok {
			return m, nil
		}
	}
	return OpInvalid, &Error{
		Kind:  KindUnsupported,
		Phase: PhaseConvert,
		Msg:   fmt.Sprintf("operator %s has no %s conversion", op, conv),
	}
}

// Convert copies expr into the vocabulary selected by conv.
func Convert(s *Store, expr *Node, conv ConvType) (*Node, error) {
	if expr == nil || expr.Op().IsLeaf() {
		return expr, nil
	}
	l, err := Convert(s, expr.Left(), conv)
	if err != nil {
		return nil, err
	}
	r, err := Convert(s, expr.Right(), conv)
	if err != nil {
		return nil, err
	}
	out, err := s.InternConverted(conv, expr.Op(), l, r)
	if err != nil {
		return nil, withNode(err, expr)
	}
	return out, nil
}
