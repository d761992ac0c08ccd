package joyerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/alexjc/joyfl/value"
)

// Kind names one of the taxonomy's error kinds.
type Kind string

const (
	ParseError      Kind = "ParseError"
	IncompleteParse Kind = "IncompleteParse"
	NameError       Kind = "NameError"
	ImportError     Kind = "ImportError"
	ModuleError     Kind = "ModuleError"
	TypeMissing     Kind = "TypeMissing"
	TypeError       Kind = "TypeError"
	UnknownStruct   Kind = "UnknownStruct"
	TypeDuplicate   Kind = "TypeDuplicate"
	StackError      Kind = "StackError"
	AssertionError  Kind = "AssertionError"
	RuntimeError    Kind = "RuntimeError"
)

// Snapshot is a readable rendering of a Stack at the moment an error was
// raised: top-first, bracketed, quotations rendered as `[ ... ]` via
// their own String().
type Snapshot struct {
	Items []value.Value
}

// NewSnapshot captures s as a Snapshot.
func NewSnapshot(s value.Stack) Snapshot {
	return Snapshot{Items: value.ToSlice(s)}
}

func (s Snapshot) String() string {
	parts := make([]string, len(s.Items))
	for i, v := range s.Items {
		parts[i] = v.String()
	}
	return "[ " + strings.Join(parts, " ") + " ]"
}

// Error is the runtime's uniform error value: a Kind plus whichever of
// the token, operation, meta, and stack-snapshot fields are known at the
// raise site. It wraps an underlying cause (when there is one) so
// errors.Unwrap/errors.Cause keep working across this boundary.
type Error struct {
	Kind    Kind
	Message string
	Token   string
	Op      *value.Operation
	Meta    value.Meta
	Stack   *Snapshot
	cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	if e.Token != "" {
		fmt.Fprintf(&b, " (token %q)", e.Token)
	}
	if e.Op != nil {
		fmt.Fprintf(&b, " (op %s)", e.Op.Name)
	}
	if e.Meta.Filename != "" {
		fmt.Fprintf(&b, " at %s:%d", e.Meta.Filename, e.Meta.StartLine)
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ": %s", e.cause.Error())
	}
	return b.String()
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As/errors.Cause.
func (e *Error) Unwrap() error { return e.cause }

// New builds an *Error of kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of kind that preserves cause.
func Wrap(cause error, kind Kind, format string, args ...interface{}) *Error {
	if cause == nil {
		return New(kind, format, args...)
	}
	if je, ok := cause.(*Error); ok && je.Kind == kind && format == "" {
		return je
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// WithToken attaches the offending token's lexeme and returns e.
func (e *Error) WithToken(tok string) *Error { e.Token = tok; return e }

// WithMeta attaches source attribution and returns e.
func (e *Error) WithMeta(m value.Meta) *Error { e.Meta = m; return e }

// WithOp attaches the offending operation and returns e.
func (e *Error) WithOp(op *value.Operation) *Error { e.Op = op; return e }

// WithStack attaches a stack snapshot and returns e.
func (e *Error) WithStack(s value.Stack) *Error {
	snap := NewSnapshot(s)
	e.Stack = &snap
	return e
}

// Cause returns the deepest non-*Error cause, mirroring
// github.com/pkg/errors.Cause's contract so callers can inspect what a
// ModuleError/ImportError ultimately wraps. An *Error with no cause is
// returned as is.
func Cause(err error) error {
	for err != nil {
		if je, ok := err.(*Error); ok {
			if je.cause == nil {
				return je
			}
			err = je.cause
			continue
		}
		c, ok := err.(interface{ Cause() error })
		if !ok {
			return err
		}
		err = c.Cause()
	}
	return err
}

// AsError reports whether err is (or wraps) a *joyerr.Error and returns it.
func AsError(err error) (*Error, bool) {
	var je *Error
	if errors.As(err, &je) {
		return je, true
	}
	return nil, false
}

// ToValue converts e into the Joy-visible value.ErrorValue that exec!
// pushes on failure and that error-kind/error-message/error-data inspect
// from Joy code.
func (e *Error) ToValue() *value.ErrorValue {
	return &value.ErrorValue{
		KindName: string(e.Kind),
		Message:  e.Message,
		Token:    e.Token,
		Op:       e.Op,
		Meta:     e.Meta,
	}
}
