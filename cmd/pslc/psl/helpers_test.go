package psl

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	t  *testing.T
	s  *Session
	b  *Builder
	st *Store
}

func newFixture(t *testing.T, opts ...func(*Options)) *fixture {
	t.Helper()
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	s := NewSession(nil, o)
	return &fixture{t: t, s: s, b: s.Builder(), st: s.Store()}
}

func (f *fixture) must(te TypedExpr, err error) TypedExpr {
	f.t.Helper()
	require.NoError(f.t, err)
	return te
}

func (f *fixture) atom(name string) TypedExpr { return f.b.Atom(name) }

func (f *fixture) num(v int) TypedExpr { return f.b.Number(v) }

func (f *fixture) un(op Op, x TypedExpr) TypedExpr {
	f.t.Helper()
	return f.must(f.b.Unary(op, x))
}

func (f *fixture) bin(op Op, x, y TypedExpr) TypedExpr {
	f.t.Helper()
	return f.must(f.b.Binary(op, x, y))
}

// seq concatenates items left to right.
func (f *fixture) seq(items ...TypedExpr) TypedExpr {
	f.t.Helper()
	out := items[0]
	for _, it := range items[1:] {
		out = f.bin(PslConcat, out, it)
	}
	return out
}

func (f *fixture) rng(lo, hi int) TypedExpr {
	f.t.Helper()
	return f.must(f.b.Range(f.num(lo), f.num(hi)))
}

func (f *fixture) star(r TypedExpr, count TypedExpr) TypedExpr {
	f.t.Helper()
	return f.must(f.b.Repeat(PslStar, r, count))
}

func (f *fixture) strong(r TypedExpr) TypedExpr {
	f.t.Helper()
	return f.must(f.b.Strong(r))
}

// node builds a raw node in the store, bypassing class checks. Used for
// expected results.
func (f *fixture) node(op Op, l, r *Node) *Node { return f.st.Intern(op, l, r) }

func (f *fixture) and(l, r *Node) *Node { return f.node(PslAnd, l, r) }

func (f *fixture) or(l, r *Node) *Node { return f.node(PslOr, l, r) }

func (f *fixture) not(x *Node) *Node { return f.node(PslNot, x, nil) }

func (f *fixture) xs(x *Node) *Node { return f.node(PslXBang, x, nil) }

func (f *fixture) untilS(l, r *Node) *Node { return f.node(PslUntilBang, l, r) }

func (f *fixture) normalize(n TypedExpr) *Node {
	f.t.Helper()
	require.NoError(f.t, f.s.Validate(n.Node))
	out, err := f.s.Normalize(context.Background(), n.Node)
	require.NoError(f.t, err)
	return out
}

// requireSame compares interned nodes and prints both sides on mismatch.
func requireSame(t *testing.T, want, got *Node) {
	t.Helper()
	if want != got {
		t.Fatalf("node mismatch\nwant: %s\n got: %s", Print(want), Print(got))
	}
}

func requireKind(t *testing.T, err error, sentinel error) *Error {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, sentinel)
	var e *Error
	require.True(t, errors.As(err, &e), "expected *psl.Error, got %T", err)
	return e
}
