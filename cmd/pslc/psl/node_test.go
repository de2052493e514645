package psl

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Interning(t *testing.T) {
	st := NewStore()

	t.Run("equal triples share one node", func(t *testing.T) {
		a1, a2 := st.Atom("a"), st.Atom("a")
		require.Same(t, a1, a2)
		n1 := st.Intern(PslAnd, a1, st.Atom("b"))
		n2 := st.Intern(PslAnd, a2, st.Atom("b"))
		require.Same(t, n1, n2)
	})

	t.Run("payload distinguishes leaves", func(t *testing.T) {
		assert.NotSame(t, st.Atom("a"), st.Atom("b"))
		assert.NotSame(t, st.Number(1), st.Number(2))
		assert.Same(t, st.Number(-3), st.Number(-3))
		assert.NotSame(t, st.True(), st.False())
	})

	t.Run("operator and child order matter", func(t *testing.T) {
		a, b := st.Atom("a"), st.Atom("b")
		assert.NotSame(t, st.Intern(PslAnd, a, b), st.Intern(PslAnd, b, a))
		assert.NotSame(t, st.Intern(PslAnd, a, b), st.Intern(PslOr, a, b))
		assert.NotSame(t, st.Intern(PslNot, a, nil), st.Intern(PslNot, nil, a))
	})

	t.Run("len counts distinct nodes", func(t *testing.T) {
		s := NewStore()
		a := s.Atom("a")
		s.Atom("a")
		s.Intern(PslNot, a, nil)
		s.Intern(PslNot, a, nil)
		assert.Equal(t, 2, s.Len())
	})

	t.Run("nil node accessors", func(t *testing.T) {
		var n *Node
		assert.Equal(t, OpInvalid, n.Op())
		assert.Nil(t, n.Left())
		assert.Nil(t, n.Right())
		assert.Equal(t, "", n.Name())
	})
}

func TestStore_ConcurrentIntern(t *testing.T) {
	st := NewStore()
	const workers = 16
	results := make([]*Node, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n := st.Atom("p")
			for k := 0; k < 50; k++ {
				n = st.Intern(PslXBang, st.Intern(PslAnd, n, st.Number(k)), nil)
			}
			results[i] = n
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		require.Same(t, results[0], results[i])
	}
	// p, 50 numbers, 50 ands, 50 nexts
	assert.Equal(t, 151, st.Len())
}

func TestStore_InternConverted(t *testing.T) {
	st := NewStore()
	a, b := st.Atom("a"), st.Atom("b")

	cases := []struct {
		name string
		conv ConvType
		in   Op
		want Op
	}{
		{"and to smv", PSL2SMV, PslAnd, SmvAnd},
		{"strong next to smv", PSL2SMV, PslXBang, SmvNext},
		{"weak next to smv", PSL2SMV, PslNext, SmvNext},
		{"always to smv", PSL2SMV, PslAlways, SmvGlobal},
		{"eventually to smv", PSL2SMV, PslEventuallyBang, SmvFuture},
		{"ctl maps to itself", PSL2SMV, OpAG, OpAG},
		{"psl copy keeps until!", PSL2PSL, PslUntilBang, PslUntilBang},
		{"psl copy keeps sequences", PSL2PSL, PslConcat, PslConcat},
		{"smv next back to X!", SMV2PSL, SmvNext, PslXBang},
		{"smv global back to G", SMV2PSL, SmvGlobal, PslG},
		{"smv until back to U", SMV2PSL, SmvUntil, PslU},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := st.InternConverted(tc.conv, tc.in, a, b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, n.Op())
			assert.Same(t, a, n.Left())
		})
	}

	t.Run("sequence has no smv counterpart", func(t *testing.T) {
		_, err := st.InternConverted(PSL2SMV, PslConcat, a, b)
		requireKind(t, err, ErrUnsupported)
	})

	t.Run("psl op is not an smv op", func(t *testing.T) {
		_, err := st.InternConverted(SMV2PSL, PslAnd, a, b)
		requireKind(t, err, ErrUnsupported)
	})

	t.Run("smv op is not a psl op", func(t *testing.T) {
		_, err := st.InternConverted(PSL2PSL, SmvAnd, a, b)
		requireKind(t, err, ErrUnsupported)
	})
}

func TestConvert_RoundTrip(t *testing.T) {
	st := NewStore()
	p, q := st.Atom("p"), st.Atom("q")
	in := st.Intern(PslG, st.Intern(PslImplies, p, st.Intern(PslXBang, q, nil)), nil)

	smv, err := Convert(st, in, PSL2SMV)
	require.NoError(t, err)
	assert.Equal(t, "G (p -> X q)", Print(smv))

	back, err := Convert(st, smv, SMV2PSL)
	require.NoError(t, err)
	require.Same(t, in, back)

	copied, err := Convert(st, in, PSL2PSL)
	require.NoError(t, err)
	require.Same(t, in, copied)
}

func TestParseConvType(t *testing.T) {
	for _, c := range []ConvType{PSL2SMV, PSL2PSL, SMV2PSL} {
		got, err := ParseConvType(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseConvType("smv2smv")
	assert.Error(t, err)
}

func TestOpByToken(t *testing.T) {
	for token, want := range map[string]Op{
		"&":       PslAnd,
		"|":       PslOr,
		"!":       PslNot,
		"-":       PslMinus,
		"neg":     PslUMinus,
		"strong":  PslStrong,
		"until!_": PslUntilBangU,
		"[*]":     PslStar,
		"|=>":     PslSuffixNext,
		"AU":      OpAU,
		"..":      OpRange,
	} {
		got, ok := OpByToken(token)
		require.True(t, ok, token)
		assert.Equal(t, want, got, token)
	}
	_, ok := OpByToken("NEXT")
	assert.False(t, ok)
}
