package psl

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrType        = errors.New("type error")
	ErrUnsupported = errors.New("not supported")
	ErrSemantic    = errors.New("semantic error")
	ErrInternal    = errors.New("internal error")
)

type Kind uint8

const (
	KindType Kind = iota
	KindUnsupported
	KindSemantic
	KindInternal
)

func (k Kind) sentinel() error {
	switch k {
	case KindType:
		return ErrType
	case KindUnsupported:
		return ErrUnsupported
	case KindSemantic:
		return ErrSemantic
	}
	return ErrInternal
}

func (k Kind) String() string { return k.sentinel().Error() }

// Phase names the pipeline stage that raised an error.
type Phase string

const (
	PhaseBuild     Phase = "build"
	PhaseConvert   Phase = "convert"
	PhaseClassify  Phase = "classify"
	PhaseNormalize Phase = "normalize"
	PhaseReplicate Phase = "replicate"
	PhaseTranslate Phase = "translate"
)

// Pos is a source position attached by a loader.
type Pos struct {
	File string
	Line int
	Col  int
}

func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Error is returned by every operation in this package. Match it with
// errors.Is against the Err* sentinels or errors.As for the details.
type Error struct {
	Kind  Kind
	Phase Phase
	Node  *Node
	Pos   Pos
	Msg   string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "phase=%s", e.Phase)
	if e.Pos.IsValid() {
		fmt.Fprintf(&b, " at %s", e.Pos)
	}
	fmt.Fprintf(&b, ": %s", e.Kind)
	if e.Msg != "" {
		fmt.Fprintf(&b, ": %s", e.Msg)
	}
	if e.Node != nil {
		fmt.Fprintf(&b, ": %s", Print(e.Node))
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Kind.sentinel() }

func newError(kind Kind, phase Phase, n *Node, format string, args ...any) *Error {
	return &Error{Kind: kind, Phase: phase, Node: n, Msg: fmt.Sprintf(format, args...)}
}

func unsupported(phase Phase, n *Node, format string, args ...any) *Error {
	return newError(KindUnsupported, phase, n, format, args...)
}

func semantic(phase Phase, n *Node, format string, args ...any) *Error {
	return newError(KindSemantic, phase, n, format, args...)
}

func internal(phase Phase, n *Node, format string, args ...any) *Error {
	return newError(KindInternal, phase, n, format, args...)
}

// withNode attaches n to err when err is an *Error that has no node yet.
func withNode(err error, n *Node) error {
	var e *Error
	if errors.As(err, &e) && e.Node == nil {
		e.Node = n
	}
	return err
}
