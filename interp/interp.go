package interp

import (
	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/joyerr"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/queue"
	"github.com/alexjc/joyfl/value"
)

// Sentinel is a non-operation, non-literal queue item used for
// interactive control. No operation currently emits one; they exist so a
// front end wiring up interactive control has somewhere to plug in.
type Sentinel string

const (
	// Abort raises a terminal error, ending the program.
	Abort Sentinel = "ABORT"
	// Break suspends the program until input resumes. The non-REPL
	// runtime façade has nothing to resume it with, so here it is
	// equivalent to Abort; an interactive front end would intercept it
	// before the interpreter ever saw it reach this loop.
	Break Sentinel = "BREAK"
)

// Interpreter holds one cooperative run's mutable state: the library it
// dispatches against, whether pre-step validation is enabled, and a
// running step count.
type Interpreter struct {
	lib      *library.Library
	validate bool
	steps    int
}

// Option configures an Interpreter at construction.
type Option func(*Interpreter)

// WithValidation turns pre-step validation on or off. Off by default;
// validation is opt-in per run.
func WithValidation(on bool) Option {
	return func(ip *Interpreter) { ip.validate = on }
}

// New returns an Interpreter bound to lib.
func New(lib *library.Library, opts ...Option) *Interpreter {
	ip := &Interpreter{lib: lib}
	for _, o := range opts {
		o(ip)
	}
	return ip
}

// Steps reports how many queue items this Interpreter has dispatched so
// far (across possibly several Drain calls).
func (ip *Interpreter) Steps() int { return ip.steps }

// Step executes exactly one queue item and reports whether q still has
// work afterward. Exposed (alongside Drain) for callers that want to
// drive the loop themselves, such as the runtime façade's DoStep.
func (ip *Interpreter) Step(q *queue.Queue, s value.Stack) (value.Stack, bool, error) {
	return ip.step(q, s)
}

// Drain runs q to exhaustion against the starting stack s and returns
// the final stack. Any error stops the program immediately; the
// partially consumed queue and stack are not returned.
func (ip *Interpreter) Drain(q *queue.Queue, s value.Stack) (value.Stack, error) {
	for !q.Empty() {
		next, cont, err := ip.step(q, s)
		if err != nil {
			return nil, err
		}
		s = next
		if !cont {
			break
		}
	}
	return s, nil
}

// step pops and dispatches exactly one queue item. cont is false when
// the queue was already empty or when an error is returned; every
// successful dispatch reports true.
func (ip *Interpreter) step(q *queue.Queue, s value.Stack) (next value.Stack, cont bool, err error) {
	item, ok := q.PopFront()
	if !ok {
		return s, false, nil
	}
	ip.steps++

	switch it := item.(type) {
	case Sentinel:
		return ip.sentinel(it, s)
	case *value.Operation:
		return ip.dispatch(it, q, s)
	case value.Value:
		return value.Push(s, it), true, nil
	default:
		return s, false, joyerr.New(joyerr.RuntimeError, "unrecognized queue item %T", item).WithStack(s)
	}
}

func (ip *Interpreter) sentinel(s Sentinel, stack value.Stack) (value.Stack, bool, error) {
	switch s {
	case Abort:
		return nil, false, joyerr.New(joyerr.RuntimeError, "ABORT").WithStack(stack)
	case Break:
		return nil, false, joyerr.New(joyerr.RuntimeError, "BREAK: input suspended").WithStack(stack)
	default:
		return nil, false, joyerr.New(joyerr.RuntimeError, "unknown sentinel %q", string(s)).WithStack(stack)
	}
}

// dispatch runs the pre-step checks and invokes the operation by its
// tag, with panic recovery wrapping the actual native/combinator call so
// a host-level fault (e.g. an unexpected type assertion deep in a native
// function) is reported the same way as any other runtime error, tagged
// with the offending Operation and a stack snapshot.
func (ip *Interpreter) dispatch(op *value.Operation, q *queue.Queue, s value.Stack) (result value.Stack, cont bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = joyerr.New(joyerr.RuntimeError, "panic: %v", r).WithOp(op).WithMeta(op.Meta).WithStack(s)
			cont = false
		}
	}()

	switch op.Tag {
	case value.Combinator:
		if ip.validate {
			if verr := ip.validateCombinator(op, s); verr != nil {
				return nil, false, verr
			}
		}
		fn, ok := op.Target.(library.CombinatorFunc)
		if !ok {
			return nil, false, joyerr.New(joyerr.RuntimeError, "combinator %q has no implementation bound", op.Name).WithOp(op)
		}
		next, cerr := fn(op, q, s, ip.lib)
		if cerr != nil {
			return nil, false, annotate(cerr, op, s)
		}
		return next, true, nil

	case value.Function:
		fb, ok := op.Target.(*library.FuncBinding)
		if !ok {
			return nil, false, joyerr.New(joyerr.RuntimeError, "function %q has no implementation bound", op.Name).WithOp(op)
		}
		if ip.validate {
			if verr := effect.Validate(fb.Signature, s); verr != nil {
				return nil, false, joyerr.Wrap(verr, joyerr.StackError, "%s", op.Name).WithOp(op).WithMeta(op.Meta).WithStack(s)
			}
			if verr := validateFunction(fb.Name, s); verr != nil {
				return nil, false, verr.WithOp(op).WithMeta(op.Meta).WithStack(s)
			}
		}
		next, ferr := fb.Fn(s)
		if ferr != nil {
			return nil, false, annotate(ferr, op, s)
		}
		return next, true, nil

	case value.Execute:
		quot, ok := op.Target.(*value.Quotation)
		if !ok {
			return nil, false, joyerr.New(joyerr.RuntimeError, "quotation %q has no program bound", op.Name).WithOp(op)
		}
		if quot.Program == nil {
			return nil, false, joyerr.New(joyerr.NameError, "quotation %q was never linked", op.Name).WithOp(op)
		}
		q.Prepend(quot.Program)
		return s, true, nil

	default:
		return nil, false, joyerr.New(joyerr.RuntimeError, "unknown operation tag %v", op.Tag).WithOp(op)
	}
}

// validateCombinator implements the one combinator-specific pre-step
// rule: i and dip require a quotation on top (and, for dip, a second
// value below). Every other combinator (step, struct, unstruct) carries
// no declared signature and is left to its own argument checks.
func (ip *Interpreter) validateCombinator(op *value.Operation, s value.Stack) error {
	switch op.Name {
	case "i", "dip":
		top, rest, ok := value.Pop(s)
		if !ok {
			return joyerr.New(joyerr.StackError, "`%s` needs a quotation on top of the stack", op.Name).WithOp(op).WithStack(s)
		}
		if _, ok := top.(value.List); !ok {
			return joyerr.New(joyerr.StackError, "`%s` requires a quotation, got %s", op.Name, top.Kind()).WithOp(op).WithStack(s)
		}
		if op.Name == "dip" {
			if _, _, ok := value.Pop(rest); !ok {
				return joyerr.New(joyerr.StackError, "`dip` needs a second value below the quotation").WithOp(op).WithStack(s)
			}
		}
	}
	return nil
}

// validateFunction covers the per-operation checks that go beyond the
// declared signature: the div family rejects a zero divisor in advance,
// and index requires its integer to be in bounds. Keyed on the binding's
// canonical name so symbolic aliases (`/`, `%`) are covered too.
func validateFunction(name string, s value.Stack) *joyerr.Error {
	switch name {
	case "div", "rem", "//":
		if top, _, ok := value.Pop(s); ok && isZero(top) {
			return joyerr.New(joyerr.StackError, "%s: division by zero", name)
		}
	case "index":
		lv, rest, ok := value.Pop(s)
		if !ok {
			return nil
		}
		l, lok := lv.(value.List)
		nv, _, nok := value.Pop(rest)
		if !lok || !nok {
			return nil
		}
		n, iok := nv.(value.Int)
		if !iok {
			return nil
		}
		idx := n.V.Int64()
		if idx < 0 || idx >= int64(len(l.Items())) {
			return joyerr.New(joyerr.StackError, "index %d out of bounds for length %d", idx, len(l.Items()))
		}
	}
	return nil
}

func isZero(v value.Value) bool {
	switch t := v.(type) {
	case value.Int:
		return t.IsZero()
	case value.Rational:
		return t.V.Sign() == 0
	case value.Float:
		return t == 0
	}
	return false
}

func annotate(err error, op *value.Operation, s value.Stack) error {
	if je, ok := joyerr.AsError(err); ok {
		if je.Op == nil {
			je.WithOp(op)
		}
		if je.Meta.Filename == "" {
			je.WithMeta(op.Meta)
		}
		if je.Stack == nil {
			je.WithStack(s)
		}
		return je
	}
	return joyerr.Wrap(err, joyerr.RuntimeError, "%s", op.Name).WithOp(op).WithMeta(op.Meta).WithStack(s)
}

// Run executes prog on a fresh, empty stack with validation enabled.
// This is the Runner shape package combinator's exec! closes over.
func Run(prog value.Program, lib *library.Library) (value.Stack, error) {
	ip := New(lib, WithValidation(true))
	return ip.Drain(queue.New(prog), nil)
}

// RunWithOptions drains prog starting from s and reports the total step
// count alongside the result, for callers (the runtime façade's
// load/run, and any stats collector) that want it.
func RunWithOptions(prog value.Program, s value.Stack, lib *library.Library, validate bool) (value.Stack, int, error) {
	ip := New(lib, WithValidation(validate))
	out, err := ip.Drain(queue.New(prog), s)
	return out, ip.Steps(), err
}
