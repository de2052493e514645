package psl

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Options configures a Session. The zero value is usable.
type Options struct {
	// Conv selects the output vocabulary of Translate.
	Conv ConvType
	// RangedNext selects the shape of ranged next and next_event unrolling.
	RangedNext RangedNext
	// MaxDepth rejects deeper expressions before rewriting. Zero means
	// DefaultMaxDepth; negative disables the check.
	MaxDepth int
	// MaxRewriteIterations caps the SERE fixpoint loop. Zero derives the cap
	// from the size of each sequence.
	MaxRewriteIterations int
	// Letters, when set, prunes unsatisfiable letters during lowering.
	Letters LetterChecker
	Logger  logrus.FieldLogger
	// Trace receives every rewrite rule application.
	Trace func(Step)
}

// Session owns the store and the source positions of one batch of
// translations. A Session is safe for concurrent use; translations do not
// share mutable state besides the store.
type Session struct {
	store   *Store
	builder *Builder
	opts    Options
	log     logrus.FieldLogger

	mu  sync.RWMutex
	pos map[*Node]Pos
}

func NewSession(store *Store, opts Options) *Session {
	if store == nil {
		store = NewStore()
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Session{
		store:   store,
		builder: NewBuilder(store),
		opts:    opts,
		log:     opts.Logger,
		pos:     make(map[*Node]Pos),
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (s *Session) Store() *Store { return s.store }

func (s *Session) Builder() *Builder { return s.builder }

func (s *Session) Options() Options { return s.opts }

// SetPos records where n was written. The first position recorded for an
// interned node wins.
func (s *Session) SetPos(n *Node, p Pos) {
	if n == nil || !p.IsValid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pos[n]; !ok {
		s.pos[n] = p
	}
}

func (s *Session) Pos(n *Node) (Pos, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pos[n]
	return p, ok
}

// locate fills in the source position of an *Error from its node.
func (s *Session) locate(err error) error {
	var e *Error
	if errors.As(err, &e) && !e.Pos.IsValid() && e.Node != nil {
		if p, ok := s.Pos(e.Node); ok {
			e.Pos = p
		}
	}
	return err
}

// Validate runs the classifier's legality checks.
func (s *Session) Validate(n *Node) error {
	v := validator{maxDepth: s.opts.MaxDepth}
	return s.locate(v.check(n))
}

func (s *Session) newNormalizer(ctx context.Context, trace func(Step)) *normalizer {
	return &normalizer{
		ctx:     ctx,
		store:   s.store,
		log:     s.log,
		trace:   trace,
		letters: s.opts.Letters,
		maxIter: s.opts.MaxRewriteIterations,
	}
}

// Normalize removes every SERE operator and suffix implication from a
// validated property. A SERE-free input is returned unchanged.
func (s *Session) Normalize(ctx context.Context, n *Node) (*Node, error) {
	out, err := s.newNormalizer(ctx, s.opts.Trace).property(n)
	return out, s.locate(err)
}

func (s *Session) newTranslator(conv ConvType) *translator {
	return &translator{
		store:    s.store,
		expander: NewExpander(s.store, s.log),
		conv:     conv,
		ranged:   s.opts.RangedNext,
	}
}

// TranslateLtl translates a SERE-free FL property.
func (s *Session) TranslateLtl(n *Node, conv ConvType) (*Node, error) {
	out, err := s.newTranslator(conv).ltl(n)
	return out, s.locate(err)
}

// TranslateCtl translates an OBE property.
func (s *Session) TranslateCtl(n *Node, conv ConvType) (*Node, error) {
	out, err := s.newTranslator(conv).ctl(n)
	return out, s.locate(err)
}

// Result is the outcome of one Translate call.
type Result struct {
	Input      *Node
	Fragment   Fragment
	Normalized *Node
	Output     *Node
	Rewrites   int
	// Steps lists the rewrite rules applied during normalization, in order.
	Steps []Step
}

// Translate runs the whole pipeline: validation, SERE normalization for FL
// properties, then LTL or CTL translation into Options.Conv.
func (s *Session) Translate(ctx context.Context, n *Node) (*Result, error) {
	return s.TranslateTo(ctx, n, s.opts.Conv)
}

// TranslateTo is Translate with an explicit output vocabulary.
func (s *Session) TranslateTo(ctx context.Context, n *Node, conv ConvType) (*Result, error) {
	res := &Result{Input: n, Fragment: Classify(n)}
	phase := func(p Phase) {
		s.log.WithFields(logrus.Fields{"phase": p, "nodes": s.store.Len()}).Debug("phase")
	}

	phase(PhaseClassify)
	if err := s.Validate(n); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if res.Fragment == FragmentCTL {
		phase(PhaseTranslate)
		out, err := s.TranslateCtl(n, conv)
		if err != nil {
			return nil, err
		}
		res.Normalized, res.Output = n, out
		return res, nil
	}

	phase(PhaseNormalize)
	trace := func(st Step) {
		res.Rewrites++
		res.Steps = append(res.Steps, st)
		if s.opts.Trace != nil {
			s.opts.Trace(st)
		}
	}
	normalized, err := s.newNormalizer(ctx, trace).property(n)
	if err != nil {
		return nil, s.locate(err)
	}
	res.Normalized = normalized
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	phase(PhaseTranslate)
	out, err := s.TranslateLtl(normalized, conv)
	if err != nil {
		return nil, err
	}
	res.Output = out
	return res, nil
}
