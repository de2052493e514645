package psl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Fragments(t *testing.T) {
	f := newFixture(t)
	a, b := f.atom("a"), f.atom("b")

	cases := []struct {
		name string
		expr TypedExpr
		want Fragment
	}{
		{"propositional", f.bin(PslImplies, a, f.un(PslNot, b)), FragmentPropositional},
		{"ltl", f.un(PslG, f.bin(PslImplies, a, f.un(PslF, b))), FragmentLTL},
		{"sequence is ltl", f.strong(f.seq(a, b)), FragmentLTL},
		{"ctl", f.un(OpAG, f.bin(PslImplies, a, f.un(OpAF, b))), FragmentCTL},
		{"mixed", f.bin(PslAnd, f.un(PslG, a), f.un(OpAG, b)), FragmentMixed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.expr.Node))
		})
	}

	assert.True(t, IsPropositional(f.bin(PslEqual, a, f.num(1)).Node))
	assert.False(t, IsPropositional(f.seq(a, b).Node))
	assert.True(t, IsLtl(f.un(PslX, a).Node))
	assert.False(t, IsObe(f.un(PslX, a).Node))
	assert.True(t, IsObe(f.un(OpEX, a).Node))
}

func TestIsHandled_WhilenotRejected(t *testing.T) {
	f := newFixture(t)
	wn := f.bin(PslWhilenot, f.atom("a"), f.atom("b"))
	expr := f.un(PslAlways, wn)

	e := requireKind(t, IsHandled(expr.Node), ErrUnsupported)
	assert.Equal(t, PhaseClassify, e.Phase)
	assert.Same(t, wn.Node, e.Node)
	assert.Contains(t, e.Error(), "whilenot")
}

func TestIsHandled_Rejections(t *testing.T) {
	f := newFixture(t)
	a, b, c := f.atom("a"), f.atom("b"), f.atom("c")
	ab := f.seq(a, b)
	unbounded := f.star(b, TypedExpr{})
	withStar := f.seq(a, unbounded)
	i := f.atom("i")

	cases := []struct {
		name     string
		expr     TypedExpr
		sentinel error
		contains string
	}{
		{"within", f.bin(PslWithin, ab, c), ErrUnsupported, "within"},
		{"abort", f.bin(PslAbort, f.un(PslG, a), b), ErrUnsupported, "abort"},
		{"goto repetition", f.strong(f.seq(a, f.must(f.b.Repeat(PslGotoRep, b, f.num(2))))), ErrUnsupported, "[->]"},
		{"nonconsecutive repetition", f.strong(f.seq(a, f.must(f.b.Repeat(PslEqualRep, b, f.num(2))))), ErrUnsupported, "[=]"},
		{"weak suffix consequence", f.bin(PslSuffixOverlap, ab, f.seq(b, c)), ErrUnsupported, "weak sequence"},
		{"weak sequence with star", withStar, ErrUnsupported, "unbounded"},
		{"non-literal next count", f.must(f.b.Next(PslNext, a, b)), ErrUnsupported, "literal"},
		{"inf ranged next", f.must(f.b.NextRange(PslNextA, a, f.must(f.b.Range(f.num(1), f.b.Inf())))), ErrUnsupported, "inf"},
		{"reversed ranged next", f.must(f.b.NextRange(PslNextE, a, f.rng(3, 1))), ErrSemantic, "exceeds"},
		{"zero repetition", f.strong(f.seq(a, f.star(b, f.num(0)))), ErrUnsupported, "positive"},
		{"zero next_event count", f.must(f.b.NextEvent(PslNextEvent, b, a, f.num(0))), ErrSemantic, "positive"},
		{"star under fusion", f.strong(f.bin(PslFusion, withStar, c)), ErrUnsupported, "under :"},
		{"star under land", f.strong(f.bin(PslSereLand, withStar, f.seq(a, c))), ErrUnsupported, "under &&"},
		{"nullable operand of and", f.strong(f.bin(PslSereAnd, unbounded, f.seq(a, c))), ErrUnsupported, "operand of &"},
		{"star of compound", f.strong(f.seq(c, f.star(ab, TypedExpr{}))), ErrUnsupported, "compound"},
		{"nullable premise", f.bin(PslSuffixOverlap, unbounded, c), ErrUnsupported, "empty word"},
		{"nullable strong sequence", f.strong(f.seq(unbounded, f.star(c, TypedExpr{}))), ErrUnsupported, "empty word"},
		{"temporal letter", TypedExpr{Node: f.node(PslStrong, f.node(PslConcat, a.Node, f.un(PslG, b).Node), nil)},
			ErrUnsupported, "inside a sequence"},
		{"indexed replicator id", f.must(f.b.Forall(
			f.must(f.b.Replicator(f.must(f.b.Index(i, f.num(0))), f.b.Boolean())),
			a)), ErrUnsupported, "indexed"},
		{"replicator range with inf", f.must(f.b.Forall(
			f.must(f.b.Replicator(i, f.must(f.b.Range(f.num(0), f.b.Inf())))),
			a)), ErrUnsupported, "inf"},
		{"replicator range with name", f.must(f.b.Forall(
			f.must(f.b.Replicator(i, f.must(f.b.List(f.must(f.b.Range(f.num(0), c)))))),
			a)), ErrUnsupported, "literals"},
		{"mixed fl and obe", f.bin(PslAnd, f.un(PslG, a), f.un(OpAG, b)), ErrUnsupported, "mixes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := requireKind(t, IsHandled(tc.expr.Node), tc.sentinel)
			assert.Contains(t, e.Error(), tc.contains)
			assert.Equal(t, PhaseClassify, e.Phase)
		})
	}
}

func TestIsHandled_Accepts(t *testing.T) {
	f := newFixture(t)
	a, b, c, d := f.atom("a"), f.atom("b"), f.atom("c"), f.atom("d")
	star := f.star(b, TypedExpr{})

	cases := []struct {
		name string
		expr TypedExpr
	}{
		{"star in premise", f.bin(PslSuffixOverlap, f.seq(a, star, c), d)},
		{"trailing star in premise", f.bin(PslSuffixNext, f.seq(a, star), d)},
		{"bounded weak sequence", f.star(f.seq(a, b), f.num(2))},
		{"strong sequence with star", f.strong(f.seq(f.star(a, TypedExpr{}), b))},
		{"strong consequence", f.bin(PslSuffixOverlap, f.seq(a, b), f.strong(f.seq(c, star, d)))},
		{"nested suffix", f.un(PslAlways, f.bin(PslSuffixOverlap, a, f.bin(PslSuffixNext, b, c)))},
		{"next_event range", f.must(f.b.NextEvent(PslNextEventA, b, a, f.rng(1, 3)))},
		{"ranged repetition", f.strong(f.star(a, f.rng(1, 3)))},
		{"weak sequence with trailing star", f.seq(a, b, f.star(TypedExpr{}, TypedExpr{}))},
		{"weak sequence with trailing plus", f.seq(a, f.must(f.b.Repeat(PslPlusRep, TypedExpr{}, TypedExpr{})))},
		{"always over weak trailing star", f.un(PslAlways, f.seq(a, b, f.star(TypedExpr{}, TypedExpr{})))},
		{"star under and", f.strong(f.bin(PslSereAnd, f.seq(a, star), f.seq(a, c)))},
		{"fusion of bounded", f.strong(f.bin(PslFusion, f.seq(a, b), f.seq(c, d)))},
		{"ctl", f.un(OpAG, f.bin(PslImplies, a, f.un(OpEF, b)))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, IsHandled(tc.expr.Node))
		})
	}
}

func TestValidate_DepthLimit(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.MaxDepth = 50 })
	x := f.atom("p")
	for i := 0; i < 60; i++ {
		x = f.un(PslXBang, x)
	}
	e := requireKind(t, f.s.Validate(x.Node), ErrUnsupported)
	assert.Contains(t, e.Msg, "depth 61")
}

func TestDepth_DeepTreeIsIterative(t *testing.T) {
	st := NewStore()
	n := st.Atom("p")
	for i := 0; i < 200000; i++ {
		n = st.Intern(PslNot, n, nil)
	}
	assert.Equal(t, 200001, Depth(n))
	assert.Equal(t, 200001, Size(n))
	require.Error(t, IsHandled(n))
}
