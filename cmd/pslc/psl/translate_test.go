package psl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) ltl(n TypedExpr, conv ConvType) *Node {
	f.t.Helper()
	out, err := f.s.TranslateLtl(n.Node, conv)
	require.NoError(f.t, err, Print(n.Node))
	return out
}

func TestTranslate_UntilFamily(t *testing.T) {
	f := newFixture(t)
	a, b := f.atom("a"), f.atom("b")
	A, B := a.Node, b.Node
	smv := func(op Op, l, r *Node) *Node { return f.node(op, l, r) }
	notB := smv(SmvNot, B, nil)

	cases := []struct {
		op   Op
		want *Node
	}{
		{PslUntilBang, smv(SmvUntil, A, B)},
		{PslUntil, smv(SmvOr, smv(SmvUntil, A, B), smv(SmvGlobal, A, nil))},
		{PslUntilBangU, smv(SmvUntil, A, smv(SmvAnd, A, B))},
		{PslUntilU, smv(SmvOr, smv(SmvUntil, A, smv(SmvAnd, A, B)), smv(SmvGlobal, A, nil))},
		{PslBeforeBang, smv(SmvUntil, notB, smv(SmvAnd, A, notB))},
		{PslBefore, smv(SmvOr, smv(SmvUntil, notB, smv(SmvAnd, A, notB)), smv(SmvGlobal, notB, nil))},
		{PslBeforeBangU, smv(SmvUntil, notB, A)},
		{PslBeforeU, smv(SmvOr, smv(SmvUntil, notB, A), smv(SmvGlobal, notB, nil))},
	}
	for _, tc := range cases {
		t.Run(tc.op.String(), func(t *testing.T) {
			requireSame(t, tc.want, f.ltl(f.bin(tc.op, a, b), PSL2SMV))
		})
	}
}

func TestTranslate_Next(t *testing.T) {
	f := newFixture(t)
	p := f.atom("p")
	P := p.Node

	t.Run("counted next keeps its operator", func(t *testing.T) {
		got := f.ltl(f.must(f.b.Next(PslNext, p, f.num(3))), PSL2PSL)
		want := f.node(PslNext, f.node(PslNext, f.node(PslNext, P, nil), nil), nil)
		requireSame(t, want, got)
		assert.Equal(t, "next(next(next(p)))", Print(got))
	})

	t.Run("zero count is the operand", func(t *testing.T) {
		requireSame(t, P, f.ltl(f.must(f.b.Next(PslNextBang, p, f.num(0))), PSL2PSL))
	})

	t.Run("plain X is one step", func(t *testing.T) {
		x := f.un(PslX, p)
		requireSame(t, x.Node, f.ltl(x, PSL2PSL))
	})

	t.Run("smv has a single next", func(t *testing.T) {
		got := f.ltl(f.must(f.b.Next(PslX, p, f.num(2))), PSL2SMV)
		requireSame(t, f.node(SmvNext, f.node(SmvNext, P, nil), nil), got)
	})
}

func TestTranslate_RangedNext(t *testing.T) {
	p := func(f *fixture) *Node { return f.atom("p").Node }

	t.Run("flat conjunction", func(t *testing.T) {
		f := newFixture(t)
		P := p(f)
		got := f.ltl(f.must(f.b.NextRange(PslNextA, f.atom("p"), f.rng(1, 3))), PSL2PSL)
		want := f.and(f.and(f.xs(P), f.xs(f.xs(P))), f.xs(f.xs(f.xs(P))))
		requireSame(t, want, got)
	})

	t.Run("distributed conjunction", func(t *testing.T) {
		f := newFixture(t, func(o *Options) { o.RangedNext = RangedDistributed })
		P := p(f)
		got := f.ltl(f.must(f.b.NextRange(PslNextA, f.atom("p"), f.rng(1, 3))), PSL2PSL)
		want := f.xs(f.and(P, f.xs(f.and(P, f.xs(P)))))
		requireSame(t, want, got)
	})

	t.Run("existential from zero", func(t *testing.T) {
		f := newFixture(t)
		P := p(f)
		got := f.ltl(f.must(f.b.NextRange(PslNextEBang, f.atom("p"), f.rng(0, 1))), PSL2PSL)
		requireSame(t, f.or(P, f.xs(P)), got)
	})

	t.Run("single point range", func(t *testing.T) {
		f := newFixture(t)
		P := p(f)
		got := f.ltl(f.must(f.b.NextRange(PslNextE, f.atom("p"), f.rng(2, 2))), PSL2PSL)
		requireSame(t, f.xs(f.xs(P)), got)
	})
}

func TestTranslate_NextEvent(t *testing.T) {
	f := newFixture(t)
	b, p := f.atom("b"), f.atom("p")
	B, P := b.Node, p.Node
	notB := f.not(B)
	u := func(l, r *Node) *Node { return f.node(PslU, l, r) }
	strongMacro := func(psi *Node) *Node { return u(notB, f.and(B, psi)) }

	t.Run("strong", func(t *testing.T) {
		got := f.ltl(f.must(f.b.NextEvent(PslNextEventBang, b, p, TypedExpr{})), PSL2PSL)
		requireSame(t, strongMacro(P), got)
	})

	t.Run("weak allows b to never hold", func(t *testing.T) {
		got := f.ltl(f.must(f.b.NextEvent(PslNextEvent, b, p, TypedExpr{})), PSL2PSL)
		requireSame(t, f.or(strongMacro(P), f.node(PslG, notB, nil)), got)
	})

	t.Run("second occurrence", func(t *testing.T) {
		got := f.ltl(f.must(f.b.NextEvent(PslNextEventBang, b, p, f.num(2))), PSL2PSL)
		requireSame(t, strongMacro(f.xs(strongMacro(P))), got)
	})

	t.Run("ranged flat", func(t *testing.T) {
		got := f.ltl(f.must(f.b.NextEvent(PslNextEventEBang, b, p, f.rng(1, 2))), PSL2PSL)
		requireSame(t, f.or(strongMacro(P), strongMacro(f.xs(strongMacro(P)))), got)
	})

	t.Run("smv vocabulary", func(t *testing.T) {
		got := f.ltl(f.must(f.b.NextEvent(PslNextEventBang, b, p, TypedExpr{})), PSL2SMV)
		want := f.node(SmvUntil, f.node(SmvNot, B, nil), f.node(SmvAnd, B, P))
		requireSame(t, want, got)
	})
}

func TestTranslate_Derived(t *testing.T) {
	f := newFixture(t)
	a, b := f.atom("a"), f.atom("b")
	A, B := a.Node, b.Node

	requireSame(t,
		f.node(SmvGlobal, f.node(SmvNot, A, nil), nil),
		f.ltl(f.un(PslNever, a), PSL2SMV))
	requireSame(t,
		f.or(f.node(PslU, A, B), f.node(PslG, A, nil)),
		f.ltl(f.bin(PslW, a, b), PSL2PSL))
	requireSame(t,
		f.node(SmvGlobal, f.node(SmvFuture, A, nil), nil),
		f.ltl(f.un(PslAlways, f.un(PslEventuallyBang, a)), PSL2SMV))
	requireSame(t,
		f.node(SmvImplies, A, f.node(SmvNext, B, nil)),
		f.ltl(f.bin(PslImplies, a, f.un(PslXBang, b)), PSL2SMV))
}

func TestTranslate_Ctl(t *testing.T) {
	f := newFixture(t)
	a, b := f.atom("a"), f.atom("b")

	t.Run("obe operators are copied", func(t *testing.T) {
		in := f.un(OpAG, f.bin(PslImplies, a, f.un(OpEF, b)))
		got, err := f.s.TranslateCtl(in.Node, PSL2SMV)
		require.NoError(t, err)
		want := f.node(OpAG, f.node(SmvImplies, a.Node, f.node(OpEF, b.Node, nil)), nil)
		requireSame(t, want, got)
		assert.Equal(t, "AG (a -> EF b)", Print(got))
	})

	t.Run("forall is expanded", func(t *testing.T) {
		i := f.atom("i")
		rep := f.must(f.b.Replicator(i, f.must(f.b.List(f.num(0), f.num(1)))))
		in := f.must(f.b.Forall(rep, f.un(OpAG, f.must(f.b.Index(f.atom("p"), i)))))
		require.Equal(t, FragmentCTL, Classify(in.Node))

		res, err := f.s.Translate(context.Background(), in.Node)
		require.NoError(t, err)
		assert.Equal(t, "(AG p[0] & AG p[1])", Print(res.Output))
		assert.Equal(t, SmvAnd, res.Output.Op())
	})

	t.Run("fl operator is rejected", func(t *testing.T) {
		in := f.node(OpAG, f.node(PslG, a.Node, nil), nil)
		_, err := f.s.TranslateCtl(in, PSL2SMV)
		e := requireKind(t, err, ErrUnsupported)
		assert.Equal(t, PhaseTranslate, e.Phase)
		assert.Contains(t, e.Msg, "CTL")
	})
}

func TestTranslate_Unsupported(t *testing.T) {
	f := newFixture(t)
	a, b := f.atom("a"), f.atom("b")

	cases := []struct {
		name string
		in   TypedExpr
		conv ConvType
	}{
		{"within", f.bin(PslWithin, f.seq(a, b), b), PSL2PSL},
		{"abort", f.bin(PslAbort, f.un(PslG, a), b), PSL2PSL},
		{"sequence left in place", f.strong(f.seq(a, b)), PSL2PSL},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.s.TranslateLtl(tc.in.Node, tc.conv)
			e := requireKind(t, err, ErrUnsupported)
			assert.Equal(t, PhaseTranslate, e.Phase)
		})
	}
}

func TestSession_Translate(t *testing.T) {
	var steps int
	f := newFixture(t, func(o *Options) { o.Trace = func(Step) { steps++ } })
	a, b, c := f.atom("a"), f.atom("b"), f.atom("c")

	// always ({a ; b} |=> c)
	in := f.un(PslAlways, f.bin(PslSuffixNext, f.seq(a, b), c))
	res, err := f.s.Translate(context.Background(), in.Node)
	require.NoError(t, err)

	assert.Same(t, in.Node, res.Input)
	assert.Equal(t, FragmentLTL, res.Fragment)
	assert.True(t, IsLtl(res.Normalized))
	assert.Equal(t, "G !(a & X (b & X !c))", Print(res.Output))
	assert.Positive(t, res.Rewrites)
	assert.Equal(t, res.Rewrites, steps)
	assert.Len(t, res.Steps, steps)

	smv := res.Output
	res, err = f.s.TranslateTo(context.Background(), in.Node, PSL2PSL)
	require.NoError(t, err)
	assert.NotSame(t, smv, res.Output)
	assert.Equal(t, "always !(a & X!((b & X!(!c))))", Print(res.Output))
	assert.False(t, Any(res.Output, func(n *Node) bool { return n.Op().Domain() == DomainPSL }))
}

func TestSession_ErrorPositions(t *testing.T) {
	f := newFixture(t)
	wn := f.bin(PslWithin, f.seq(f.atom("a"), f.atom("b")), f.atom("c"))
	in := f.un(PslAlways, wn)
	f.s.SetPos(wn.Node, Pos{File: "props.yml", Line: 4, Col: 9})
	f.s.SetPos(wn.Node, Pos{File: "other.yml", Line: 1, Col: 1})

	_, err := f.s.Translate(context.Background(), in.Node)
	e := requireKind(t, err, ErrUnsupported)
	assert.Equal(t, Pos{File: "props.yml", Line: 4, Col: 9}, e.Pos)
	assert.Equal(t,
		"phase=classify at props.yml:4:9: not supported: within is not supported: ({a ; b} within c)",
		e.Error())
}

func TestSession_TranslateCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.s.Translate(ctx, f.un(PslG, f.atom("a")).Node)
	require.ErrorIs(t, err, context.Canceled)
}
