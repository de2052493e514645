// Package pslyaml loads PSL properties from YAML files.
//
// A property file is a mapping with a single `properties` key:
//
//	properties:
//	  - name: req_ack
//	    logic: ltl
//	    expr: [always, ["|=>", [";", req, busy], ack]]
//
// Expressions are YAML sequences whose first item is an operator token
// (`&`, `until!`, `next_a`, `[*]`, `forall`, ...). Strings are atoms, integers
// are numbers and YAML booleans are TRUE/FALSE. A null (~) marks an absent
// optional operand, as in `["[*]", ~, 2]` for a standalone `[*2]`.
package pslyaml

import (
	"bytes"
	"io"
	"os"
	"strconv"

	"psl-tools/cmd/pslc/psl"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Logic is the fragment a property declares.
type Logic string

const (
	LogicAny Logic = ""
	LogicLTL Logic = "ltl"
	LogicCTL Logic = "ctl"
)

// Property is one named, typed expression.
type Property struct {
	Name  string
	Logic Logic
	Expr  psl.TypedExpr
	Pos   psl.Pos
}

// Fragment classifies the property's expression.
func (p Property) Fragment() psl.Fragment { return psl.Classify(p.Expr.Node) }

// ---- Internal YAML parsing structs ----------------------------------------

type yamlDocument struct {
	Properties []yamlProperty `yaml:"properties"`
}

// yamlProperty keeps expr as a yaml.Node so positions survive decoding.
type yamlProperty struct {
	Name  string    `yaml:"name"`
	Logic string    `yaml:"logic,omitempty"`
	Expr  yaml.Node `yaml:"expr"`
}

// ---- Parse -----------------------------------------------------------------

// Parse decodes one property file. Expressions are built with the session's
// builder and their positions recorded in the session.
func Parse(s *psl.Session, file string, in []byte) ([]Property, error) {
	dec := yaml.NewDecoder(bytes.NewReader(in))
	dec.KnownFields(true)

	var doc yamlDocument
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Errorf("phase=parse path=%s: empty YAML", file)
		}
		return nil, errors.Wrapf(err, "phase=parse path=%s", file)
	}
	if len(doc.Properties) == 0 {
		return nil, errors.Errorf("phase=parse path=%s: missing or empty 'properties'", file)
	}

	ld := loader{s: s, b: s.Builder(), file: file}
	seen := make(map[string]bool, len(doc.Properties))
	out := make([]Property, 0, len(doc.Properties))
	for i, yp := range doc.Properties {
		if yp.Name == "" {
			return nil, errors.Errorf("phase=parse path=%s: property %d has no name", file, i)
		}
		if seen[yp.Name] {
			return nil, errors.Errorf("phase=parse path=%s: duplicate property %q", file, yp.Name)
		}
		seen[yp.Name] = true

		p, err := ld.property(yp)
		if err != nil {
			return nil, errors.Wrapf(err, "property %q", yp.Name)
		}
		out = append(out, p)
	}
	return out, nil
}

// Load reads and parses files in order. Property names must be unique across
// all files.
func Load(s *psl.Session, files ...string) ([]Property, error) {
	var out []Property
	where := make(map[string]string)
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, errors.Wrapf(err, "property file %s", f)
		}
		props, err := Parse(s, f, data)
		if err != nil {
			return nil, err
		}
		for _, p := range props {
			if prev, ok := where[p.Name]; ok {
				return nil, errors.Errorf("property %q defined in both %s and %s", p.Name, prev, f)
			}
			where[p.Name] = f
		}
		out = append(out, props...)
	}
	return out, nil
}

// ---- Convert: yaml nodes -> typed expressions ------------------------------

type loader struct {
	s    *psl.Session
	b    *psl.Builder
	file string
}

func (ld loader) pos(n *yaml.Node) psl.Pos {
	return psl.Pos{File: ld.file, Line: n.Line, Col: n.Column}
}

func (ld loader) errorf(n *yaml.Node, format string, args ...any) error {
	return errors.Errorf("%s: "+format, append([]any{ld.pos(n)}, args...)...)
}

func (ld loader) property(yp yamlProperty) (Property, error) {
	if yp.Expr.Kind == 0 {
		return Property{}, errors.New("missing 'expr'")
	}
	logic := Logic(yp.Logic)
	switch logic {
	case LogicAny, LogicLTL, LogicCTL:
	default:
		return Property{}, ld.errorf(&yp.Expr, "unknown logic %q (want ltl or ctl)", yp.Logic)
	}

	te, err := ld.expr(&yp.Expr)
	if err != nil {
		return Property{}, err
	}
	if te.Node == nil {
		return Property{}, ld.errorf(&yp.Expr, "expression is null")
	}
	frag := psl.Classify(te.Node)
	switch {
	case logic == LogicLTL && frag == psl.FragmentCTL,
		logic == LogicCTL && frag == psl.FragmentLTL:
		return Property{}, ld.errorf(&yp.Expr, "declared %s but the expression is %s", logic, frag)
	}
	return Property{Name: yp.Name, Logic: logic, Expr: te, Pos: ld.pos(&yp.Expr)}, nil
}

// expr converts one YAML node. A null node yields the zero TypedExpr.
func (ld loader) expr(n *yaml.Node) (psl.TypedExpr, error) {
	te, err := ld.convert(n)
	if err != nil {
		return psl.TypedExpr{}, err
	}
	ld.s.SetPos(te.Node, ld.pos(n))
	return te, nil
}

func (ld loader) convert(n *yaml.Node) (psl.TypedExpr, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return ld.expr(n.Alias)
	case yaml.ScalarNode:
		return ld.scalar(n)
	case yaml.SequenceNode:
		return ld.sequence(n)
	}
	return psl.TypedExpr{}, ld.errorf(n, "expected a scalar or a sequence, got YAML kind %d", n.Kind)
}

func (ld loader) scalar(n *yaml.Node) (psl.TypedExpr, error) {
	switch n.Tag {
	case "!!null":
		return psl.TypedExpr{}, nil
	case "!!int":
		v, err := strconv.Atoi(n.Value)
		if err != nil {
			return psl.TypedExpr{}, ld.errorf(n, "integer %s out of range", n.Value)
		}
		return ld.b.Number(v), nil
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err != nil {
			return psl.TypedExpr{}, ld.errorf(n, "%v", err)
		}
		if v {
			return ld.b.True(), nil
		}
		return ld.b.False(), nil
	case "!!str":
	default:
		return psl.TypedExpr{}, ld.errorf(n, "unsupported scalar %s", n.Tag)
	}
	switch n.Value {
	case "TRUE":
		return ld.b.True(), nil
	case "FALSE":
		return ld.b.False(), nil
	case "inf":
		return ld.b.Inf(), nil
	case "boolean":
		return ld.b.Boolean(), nil
	case "":
		return psl.TypedExpr{}, ld.errorf(n, "empty atom")
	}
	return ld.b.Atom(n.Value), nil
}

// associative operators accept more than two operands and fold them left.
var associative = map[psl.Op]bool{
	psl.PslAnd:      true,
	psl.PslOr:       true,
	psl.PslSereAnd:  true,
	psl.PslSereOr:   true,
	psl.PslSereLand: true,
	psl.PslConcat:   true,
	psl.PslFusion:   true,
	psl.PslPlus:     true,
	psl.PslTimes:    true,
}

func (ld loader) sequence(n *yaml.Node) (psl.TypedExpr, error) {
	if len(n.Content) == 0 {
		return psl.TypedExpr{}, ld.errorf(n, "empty expression")
	}
	head := n.Content[0]
	if head.Kind != yaml.ScalarNode {
		return psl.TypedExpr{}, ld.errorf(head, "operator must be a scalar token")
	}

	args := make([]psl.TypedExpr, 0, len(n.Content)-1)
	for _, c := range n.Content[1:] {
		a, err := ld.expr(c)
		if err != nil {
			return psl.TypedExpr{}, err
		}
		args = append(args, a)
	}

	if head.Value == "list" {
		return ld.built(n)(ld.b.List(args...))
	}
	op, ok := psl.OpByToken(head.Value)
	if !ok {
		return psl.TypedExpr{}, ld.errorf(head, "unknown operator %q", head.Value)
	}
	arity := func(lo, hi int) error {
		if len(args) >= lo && len(args) <= hi {
			return nil
		}
		if lo == hi {
			return ld.errorf(n, "%s takes %d operands, got %d", head.Value, lo, len(args))
		}
		return ld.errorf(n, "%s takes %d to %d operands, got %d", head.Value, lo, hi, len(args))
	}
	arg := func(i int) psl.TypedExpr {
		if i < len(args) {
			return args[i]
		}
		return psl.TypedExpr{}
	}
	done := ld.built(n)

	switch op {
	case psl.OpCons:
		return done(ld.b.List(args...))
	case psl.PslX, psl.PslXBang, psl.PslNext, psl.PslNextBang:
		if err := arity(1, 2); err != nil {
			return psl.TypedExpr{}, err
		}
		return done(ld.b.Next(op, arg(0), arg(1)))
	case psl.PslNextA, psl.PslNextABang, psl.PslNextE, psl.PslNextEBang:
		if err := arity(2, 2); err != nil {
			return psl.TypedExpr{}, err
		}
		return done(ld.b.NextRange(op, args[0], args[1]))
	case psl.PslNextEvent, psl.PslNextEventBang, psl.PslNextEventA, psl.PslNextEventABang,
		psl.PslNextEventE, psl.PslNextEventEBang:
		if err := arity(2, 3); err != nil {
			return psl.TypedExpr{}, err
		}
		return done(ld.b.NextEvent(op, args[0], args[1], arg(2)))
	case psl.PslStar, psl.PslPlusRep, psl.PslEqualRep, psl.PslGotoRep:
		if err := arity(0, 2); err != nil {
			return psl.TypedExpr{}, err
		}
		return done(ld.b.Repeat(op, arg(0), arg(1)))
	case psl.PslForall:
		if err := arity(3, 3); err != nil {
			return psl.TypedExpr{}, err
		}
		rep, err := done(ld.b.Replicator(args[0], args[1]))
		if err != nil {
			return psl.TypedExpr{}, err
		}
		ld.s.SetPos(rep.Node, ld.pos(n))
		return done(ld.b.Forall(rep, args[2]))
	case psl.PslIte:
		if err := arity(3, 3); err != nil {
			return psl.TypedExpr{}, err
		}
		return done(ld.b.Ite(args[0], args[1], args[2]))
	}

	for i, a := range args {
		if a.Node == nil {
			return psl.TypedExpr{}, ld.errorf(n.Content[i+1], "null operand of %s", head.Value)
		}
	}
	switch {
	case len(args) == 0:
		return psl.TypedExpr{}, ld.errorf(n, "%s needs operands", head.Value)
	case len(args) == 1:
		if op == psl.PslMinus {
			op = psl.PslUMinus
		}
		return done(ld.b.Unary(op, args[0]))
	case len(args) > 2 && !associative[op]:
		return psl.TypedExpr{}, ld.errorf(n, "%s takes 2 operands, got %d", head.Value, len(args))
	}
	out := args[0]
	for _, a := range args[1:] {
		var err error
		if out, err = done(ld.b.Binary(op, out, a)); err != nil {
			return psl.TypedExpr{}, err
		}
		ld.s.SetPos(out.Node, ld.pos(n))
	}
	return out, nil
}

// built returns a function that passes a builder result through, stamping
// errors with the position of n.
func (ld loader) built(n *yaml.Node) func(psl.TypedExpr, error) (psl.TypedExpr, error) {
	return func(te psl.TypedExpr, err error) (psl.TypedExpr, error) {
		if err != nil {
			return psl.TypedExpr{}, ld.located(n, err)
		}
		return te, nil
	}
}

// located stamps builder errors with the position of the YAML node.
func (ld loader) located(n *yaml.Node, err error) error {
	var e *psl.Error
	if errors.As(err, &e) && !e.Pos.IsValid() {
		e.Pos = ld.pos(n)
	}
	return err
}
