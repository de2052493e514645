package psl

import "fmt"

// Op is the operator tag of a Node. The vocabulary is closed: it covers the
// leaves shared by both domains, the PSL-domain tokens produced by the front
// end and the SMV-domain tokens handed to the model-checking back end.
type Op uint16

const (
	OpInvalid Op = iota

	// Shared leaves and structural helpers.
	OpAtom
	OpNumber
	OpTrue
	OpFalse
	OpBoolean // the `boolean` value set
	OpInf     // `inf` range bound
	OpCons    // value-list cell: Cons(head, tail)
	OpRange   // lo..hi
	OpPair    // helper pair used by ite branches and next_event payloads

	// OBE (CTL) tokens, identical in both domains.
	OpAX
	OpEX
	OpAG
	OpEG
	OpAF
	OpEF
	OpAU
	OpEU

	// PSL domain: propositional and arithmetic.
	PslNot
	PslAnd
	PslOr
	PslXor
	PslXnor
	PslImplies
	PslIff
	PslEqual
	PslNotEqual
	PslLt
	PslLe
	PslGt
	PslGe
	PslPlus
	PslMinus
	PslTimes
	PslDivide
	PslMod
	PslUMinus
	PslIte
	PslArray
	PslDot

	// PSL domain: FL temporal operators.
	PslX
	PslXBang
	PslNext
	PslNextBang
	PslNextA
	PslNextABang
	PslNextE
	PslNextEBang
	PslNextEvent
	PslNextEventBang
	PslNextEventA
	PslNextEventABang
	PslNextEventE
	PslNextEventEBang
	PslAlways
	PslG
	PslNever
	PslEventuallyBang
	PslF
	PslU
	PslW
	PslUntil
	PslUntilBang
	PslUntilU
	PslUntilBangU
	PslBefore
	PslBeforeBang
	PslBeforeU
	PslBeforeBangU
	PslAbort
	PslWithin
	PslWhilenot

	// PSL domain: SEREs.
	PslConcat
	PslFusion
	PslSereOr
	PslSereAnd
	PslSereLand
	PslStar
	PslPlusRep
	PslEqualRep
	PslGotoRep
	PslStrong
	PslSuffixOverlap
	PslSuffixNext

	// PSL domain: replicators.
	PslForall
	PslReplicator

	// SMV domain.
	SmvNot
	SmvAnd
	SmvOr
	SmvXor
	SmvXnor
	SmvImplies
	SmvIff
	SmvEqual
	SmvNotEqual
	SmvLt
	SmvLe
	SmvGt
	SmvGe
	SmvPlus
	SmvMinus
	SmvTimes
	SmvDivide
	SmvMod
	SmvUMinus
	SmvIte
	SmvArray
	SmvDot
	SmvNext
	SmvGlobal
	SmvFuture
	SmvUntil

	// opLoop is the normalizer's one-or-more letter b⁺ left behind once
	// `[+]` has been eliminated. It never leaves the SERE normalizer.
	opLoop

	opCount
)

// Domain tells which vocabulary an operator belongs to.
type Domain uint8

const (
	DomainShared Domain = iota
	DomainPSL
	DomainSMV
	domainInternal
)

// Family groups operators the classifier and translator treat alike.
type Family uint8

const (
	FamilyLeaf Family = iota
	FamilyHelper
	FamilyBoolean
	FamilyArith
	FamilyFL
	FamilyOBE
	FamilySERE
	FamilyReplicator
)

type opInfo struct {
	token  string
	domain Domain
	family Family
}

var opTable = [opCount]opInfo{
	OpInvalid: {"<invalid>", domainInternal, FamilyHelper},

	OpAtom:    {"atom", DomainShared, FamilyLeaf},
	OpNumber:  {"number", DomainShared, FamilyLeaf},
	OpTrue:    {"TRUE", DomainShared, FamilyLeaf},
	OpFalse:   {"FALSE", DomainShared, FamilyLeaf},
	OpBoolean: {"boolean", DomainShared, FamilyLeaf},
	OpInf:     {"inf", DomainShared, FamilyLeaf},
	OpCons:    {"cons", DomainShared, FamilyHelper},
	OpRange:   {"..", DomainShared, FamilyHelper},
	OpPair:    {"pair", DomainShared, FamilyHelper},

	OpAX: {"AX", DomainShared, FamilyOBE},
	OpEX: {"EX", DomainShared, FamilyOBE},
	OpAG: {"AG", DomainShared, FamilyOBE},
	OpEG: {"EG", DomainShared, FamilyOBE},
	OpAF: {"AF", DomainShared, FamilyOBE},
	OpEF: {"EF", DomainShared, FamilyOBE},
	OpAU: {"AU", DomainShared, FamilyOBE},
	OpEU: {"EU", DomainShared, FamilyOBE},

	PslNot:      {"!", DomainPSL, FamilyBoolean},
	PslAnd:      {"&", DomainPSL, FamilyBoolean},
	PslOr:       {"|", DomainPSL, FamilyBoolean},
	PslXor:      {"xor", DomainPSL, FamilyBoolean},
	PslXnor:     {"xnor", DomainPSL, FamilyBoolean},
	PslImplies:  {"->", DomainPSL, FamilyBoolean},
	PslIff:      {"<->", DomainPSL, FamilyBoolean},
	PslEqual:    {"=", DomainPSL, FamilyArith},
	PslNotEqual: {"!=", DomainPSL, FamilyArith},
	PslLt:       {"<", DomainPSL, FamilyArith},
	PslLe:       {"<=", DomainPSL, FamilyArith},
	PslGt:       {">", DomainPSL, FamilyArith},
	PslGe:       {">=", DomainPSL, FamilyArith},
	PslPlus:     {"+", DomainPSL, FamilyArith},
	PslMinus:    {"-", DomainPSL, FamilyArith},
	PslTimes:    {"*", DomainPSL, FamilyArith},
	PslDivide:   {"/", DomainPSL, FamilyArith},
	PslMod:      {"mod", DomainPSL, FamilyArith},
	PslUMinus:   {"-", DomainPSL, FamilyArith},
	PslIte:      {"?", DomainPSL, FamilyArith},
	PslArray:    {"[]", DomainPSL, FamilyArith},
	PslDot:      {".", DomainPSL, FamilyArith},

	PslX:              {"X", DomainPSL, FamilyFL},
	PslXBang:          {"X!", DomainPSL, FamilyFL},
	PslNext:           {"next", DomainPSL, FamilyFL},
	PslNextBang:       {"next!", DomainPSL, FamilyFL},
	PslNextA:          {"next_a", DomainPSL, FamilyFL},
	PslNextABang:      {"next_a!", DomainPSL, FamilyFL},
	PslNextE:          {"next_e", DomainPSL, FamilyFL},
	PslNextEBang:      {"next_e!", DomainPSL, FamilyFL},
	PslNextEvent:      {"next_event", DomainPSL, FamilyFL},
	PslNextEventBang:  {"next_event!", DomainPSL, FamilyFL},
	PslNextEventA:     {"next_event_a", DomainPSL, FamilyFL},
	PslNextEventABang: {"next_event_a!", DomainPSL, FamilyFL},
	PslNextEventE:     {"next_event_e", DomainPSL, FamilyFL},
	PslNextEventEBang: {"next_event_e!", DomainPSL, FamilyFL},
	PslAlways:         {"always", DomainPSL, FamilyFL},
	PslG:              {"G", DomainPSL, FamilyFL},
	PslNever:          {"never", DomainPSL, FamilyFL},
	PslEventuallyBang: {"eventually!", DomainPSL, FamilyFL},
	PslF:              {"F", DomainPSL, FamilyFL},
	PslU:              {"U", DomainPSL, FamilyFL},
	PslW:              {"W", DomainPSL, FamilyFL},
	PslUntil:          {"until", DomainPSL, FamilyFL},
	PslUntilBang:      {"until!", DomainPSL, FamilyFL},
	PslUntilU:         {"until_", DomainPSL, FamilyFL},
	PslUntilBangU:     {"until!_", DomainPSL, FamilyFL},
	PslBefore:         {"before", DomainPSL, FamilyFL},
	PslBeforeBang:     {"before!", DomainPSL, FamilyFL},
	PslBeforeU:        {"before_", DomainPSL, FamilyFL},
	PslBeforeBangU:    {"before!_", DomainPSL, FamilyFL},
	PslAbort:          {"abort", DomainPSL, FamilyFL},
	PslWithin:         {"within", DomainPSL, FamilyFL},
	PslWhilenot:       {"whilenot", DomainPSL, FamilyFL},

	PslConcat:        {";", DomainPSL, FamilySERE},
	PslFusion:        {":", DomainPSL, FamilySERE},
	PslSereOr:        {"|", DomainPSL, FamilySERE},
	PslSereAnd:       {"&", DomainPSL, FamilySERE},
	PslSereLand:      {"&&", DomainPSL, FamilySERE},
	PslStar:          {"[*]", DomainPSL, FamilySERE},
	PslPlusRep:       {"[+]", DomainPSL, FamilySERE},
	PslEqualRep:      {"[=]", DomainPSL, FamilySERE},
	PslGotoRep:       {"[->]", DomainPSL, FamilySERE},
	PslStrong:        {"!", DomainPSL, FamilySERE},
	PslSuffixOverlap: {"|->", DomainPSL, FamilySERE},
	PslSuffixNext:    {"|=>", DomainPSL, FamilySERE},

	PslForall:     {"forall", DomainPSL, FamilyReplicator},
	PslReplicator: {"in", DomainPSL, FamilyReplicator},

	SmvNot:      {"!", DomainSMV, FamilyBoolean},
	SmvAnd:      {"&", DomainSMV, FamilyBoolean},
	SmvOr:       {"|", DomainSMV, FamilyBoolean},
	SmvXor:      {"xor", DomainSMV, FamilyBoolean},
	SmvXnor:     {"xnor", DomainSMV, FamilyBoolean},
	SmvImplies:  {"->", DomainSMV, FamilyBoolean},
	SmvIff:      {"<->", DomainSMV, FamilyBoolean},
	SmvEqual:    {"=", DomainSMV, FamilyArith},
	SmvNotEqual: {"!=", DomainSMV, FamilyArith},
	SmvLt:       {"<", DomainSMV, FamilyArith},
	SmvLe:       {"<=", DomainSMV, FamilyArith},
	SmvGt:       {">", DomainSMV, FamilyArith},
	SmvGe:       {">=", DomainSMV, FamilyArith},
	SmvPlus:     {"+", DomainSMV, FamilyArith},
	SmvMinus:    {"-", DomainSMV, FamilyArith},
	SmvTimes:    {"*", DomainSMV, FamilyArith},
	SmvDivide:   {"/", DomainSMV, FamilyArith},
	SmvMod:      {"mod", DomainSMV, FamilyArith},
	SmvUMinus:   {"-", DomainSMV, FamilyArith},
	SmvIte:      {"?", DomainSMV, FamilyArith},
	SmvArray:    {"[]", DomainSMV, FamilyArith},
	SmvDot:      {".", DomainSMV, FamilyArith},
	SmvNext:     {"X", DomainSMV, FamilyFL},
	SmvGlobal:   {"G", DomainSMV, FamilyFL},
	SmvFuture:   {"F", DomainSMV, FamilyFL},
	SmvUntil:    {"U", DomainSMV, FamilyFL},

	opLoop: {"loop", domainInternal, FamilySERE},
}

func (op Op) info() opInfo {
	if op >= opCount {
		return opTable[OpInvalid]
	}
	return opTable[op]
}

// Token returns the surface token of the operator.
func (op Op) Token() string { return op.info().token }

// Domain returns the vocabulary the operator belongs to.
func (op Op) Domain() Domain { return op.info().domain }

// Family returns the operator family.
func (op Op) Family() Family { return op.info().family }

func (op Op) String() string {
	if op >= opCount {
		return fmt.Sprintf("Op(%d)", uint16(op))
	}
	switch op.Domain() {
	case DomainSMV:
		return "smv:" + op.Token()
	case domainInternal:
		return "internal:" + op.Token()
	}
	return op.Token()
}

// IsLeaf reports whether nodes of this operator carry no children.
func (op Op) IsLeaf() bool { return op.Family() == FamilyLeaf }

// OpByToken resolves a PSL-domain or shared token to its operator. Tokens
// spelled identically in the propositional and SERE vocabularies (`|`, `&`)
// resolve to the propositional operator; the builder promotes them when the
// operands are sequences.
func OpByToken(token string) (Op, bool) {
	op, ok := tokenIndex[token]
	return op, ok
}

var tokenIndex = func() map[string]Op {
	m := make(map[string]Op)
	for op := Op(1); op < opCount; op++ {
		info := opTable[op]
		if info.domain != DomainPSL && info.domain != DomainShared {
			continue
		}
		if _, taken := m[info.token]; taken {
			continue
		}
		m[info.token] = op
	}
	// Aliases accepted by the loader for tokens that would otherwise clash.
	m["strong"] = PslStrong
	m["neg"] = PslUMinus
	m["sere_or"] = PslSereOr
	m["sere_and"] = PslSereAnd
	return m
}()
