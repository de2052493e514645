package pslyaml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"psl-tools/cmd/pslc/psl"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*psl.Session, []Property) {
	t.Helper()
	s := psl.NewSession(nil, psl.Options{})
	props, err := Parse(s, "props.yml", []byte(src))
	require.NoError(t, err)
	return s, props
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	_, err := Parse(psl.NewSession(nil, psl.Options{}), "props.yml", []byte(src))
	require.Error(t, err)
	return err
}

func TestParse_Expressions(t *testing.T) {
	cases := []struct {
		name string
		expr string
		want string
	}{
		{"atom", `p`, "p"},
		{"number relation", `["<", x, 3]`, "(x < 3)"},
		{"yaml booleans", `["&", true, false]`, "(TRUE & FALSE)"},
		{"n-ary and folds left", `["&", a, b, c]`, "((a & b) & c)"},
		{"unary minus", `["=", ["-", x], -2]`, "(-x = -2)"},
		{"counted next", `[next, p, 3]`, "next[3](p)"},
		{"ranged next", `[next_a, p, ["..", 1, 3]]`, "next_a[1..3](p)"},
		{"next_event", `["next_event!", b, p, 2]`, "next_event!(b)[2](p)"},
		{"sequence", `[";", a, b, c]`, "{{a ; b} ; c}"},
		{"sere or promotes", `["|", [";", a, b], c]`, "{{a ; b} | c}"},
		{"standalone count", `[";", ["[*]", ~, 2], a]`, "{[*2] ; a}"},
		{"strong", `[strong, [";", a, ["[*]", b]]]`, "{a ; {b}[*]}!"},
		{"suffix", `[always, ["|=>", [";", req, busy], ack]]`, "always ({req ; busy} |=> ack)"},
		{"forall", `[forall, i, [list, 0, ["..", 2, 3]], ["[]", p, i]]`, "forall i in {0, 2..3} : p[i]"},
		{"ite", `["?", c, 1, 2]`, "(c ? 1 : 2)"},
		{"ctl", `[AG, ["->", req, [AF, ack]]]`, "AG (req -> AF ack)"},
		{"field", `[".", s, ready]`, "s.ready"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, props := parse(t, "properties:\n  - name: p\n    expr: "+tc.expr+"\n")
			require.Len(t, props, 1)
			assert.Equal(t, tc.want, psl.Print(props[0].Expr.Node))
		})
	}
}

func TestParse_PropertiesKeepOrderAndPositions(t *testing.T) {
	src := `properties:
  - name: first
    logic: ltl
    expr: [G, a]
  - name: second
    logic: ctl
    expr: [AG, b]
  - name: third
    expr: c
`
	s, props := parse(t, src)

	type summary struct {
		Name  string
		Logic Logic
		Line  int
	}
	var got []summary
	for _, p := range props {
		got = append(got, summary{p.Name, p.Logic, p.Pos.Line})
	}
	want := []summary{
		{"first", LogicLTL, 4},
		{"second", LogicCTL, 7},
		{"third", LogicAny, 9},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}

	pos, ok := s.Pos(props[1].Expr.Node)
	require.True(t, ok)
	assert.Equal(t, psl.Pos{File: "props.yml", Line: 7, Col: 11}, pos)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name     string
		src      string
		contains string
	}{
		{"empty", "", "empty YAML"},
		{"no properties", "properties: []\n", "missing or empty"},
		{"unknown key", "properties: []\nextra: 1\n", "extra"},
		{"missing name", "properties:\n  - expr: a\n", "has no name"},
		{"duplicate name", "properties:\n  - {name: x, expr: a}\n  - {name: x, expr: b}\n", `duplicate property "x"`},
		{"missing expr", "properties:\n  - name: x\n", "missing 'expr'"},
		{"unknown logic", "properties:\n  - {name: x, logic: mu, expr: a}\n", `unknown logic "mu"`},
		{"declared logic mismatch", "properties:\n  - {name: x, logic: ctl, expr: [G, a]}\n", "declared ctl but the expression is ltl"},
		{"unknown operator", "properties:\n  - {name: x, expr: [frobnicate, a]}\n", `unknown operator "frobnicate"`},
		{"arity", "properties:\n  - {name: x, expr: [\"->\", a, b, c]}\n", "takes 2 operands, got 3"},
		{"ranged next arity", "properties:\n  - {name: x, expr: [next_a, p]}\n", "takes 2 operands, got 1"},
		{"null operand", "properties:\n  - {name: x, expr: [\"&\", a, ~]}\n", "null operand"},
		{"mapping expr", "properties:\n  - {name: x, expr: {a: b}}\n", "expected a scalar or a sequence"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, parseErr(t, tc.src).Error(), tc.contains)
		})
	}
}

func TestParse_TypeErrorCarriesPosition(t *testing.T) {
	err := parseErr(t, "properties:\n  - name: x\n    expr: [always, 3]\n")

	var e *psl.Error
	require.True(t, errors.As(err, &e))
	assert.ErrorIs(t, err, psl.ErrType)
	assert.Equal(t, psl.Pos{File: "props.yml", Line: 3, Col: 11}, e.Pos)
	assert.Contains(t, err.Error(), `property "x"`)
}

func TestParse_TranslateErrorPointsIntoFile(t *testing.T) {
	s, props := parse(t, "properties:\n  - name: w\n    expr:\n      - always\n      - [whilenot, a, b]\n")

	_, err := s.Translate(context.Background(), props[0].Expr.Node)
	var e *psl.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 5, e.Pos.Line)
	assert.Contains(t, err.Error(), "props.yml:5:")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	one := filepath.Join(dir, "one.yml")
	two := filepath.Join(dir, "two.yml")
	require.NoError(t, os.WriteFile(one, []byte("properties:\n  - {name: a, expr: [G, p]}\n"), 0o644))
	require.NoError(t, os.WriteFile(two, []byte("properties:\n  - {name: b, expr: [F, q]}\n"), 0o644))

	s := psl.NewSession(nil, psl.Options{})
	props, err := Load(s, one, two)
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, "a", props[0].Name)
	assert.Equal(t, two, props[1].Pos.File)

	t.Run("duplicate across files", func(t *testing.T) {
		_, err := Load(psl.NewSession(nil, psl.Options{}), one, one)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "defined in both")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(psl.NewSession(nil, psl.Options{}), filepath.Join(dir, "nope.yml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
