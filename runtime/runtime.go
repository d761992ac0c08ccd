package runtime

import (
	"github.com/google/uuid"

	"github.com/alexjc/joyfl/builtin"
	"github.com/alexjc/joyfl/combinator"
	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/interp"
	"github.com/alexjc/joyfl/joyerr"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/linker"
	"github.com/alexjc/joyfl/module"
	"github.com/alexjc/joyfl/parser"
	"github.com/alexjc/joyfl/queue"
	"github.com/alexjc/joyfl/value"
)

// Stats accumulates interpreter step counts across a Load/Run call, for
// callers that want basic execution telemetry.
type Stats struct {
	Steps int
}

// Option configures a Runtime at construction, applied after builtins,
// combinators, and the default module loaders are wired in, so an option
// can still shadow any of them (e.g. install a ",,," input source, or
// register an additional native module's operators directly).
type Option func(*Runtime) error

// WithInputSource wires the ",,," interactive-continuation combinator to
// src. Without this option the combinator is simply unregistered.
func WithInputSource(src combinator.InputSource) Option {
	return func(rt *Runtime) error {
		rt.lib.AddCombinator(",,,", combinator.NewCont(src))
		return nil
	}
}

// Runtime is the single embeddable object a host interacts with: one
// Library seeded with every builtin, combinator, and module loader, plus
// the per-namespace load-generation ledger that Reset clears.
type Runtime struct {
	lib  *library.Library
	gens module.Generations
}

// New builds a Runtime with its Library fully seeded, then applies opts.
func New(opts ...Option) (*Runtime, error) {
	lib := library.New()
	builtin.Register(lib)
	combinator.Register(lib)

	rt := &Runtime{lib: lib}
	lib.AddCombinator("exec!", combinator.NewExec(interp.Run))
	lib.SetNativeLoader(module.NativeLoader(&rt.gens))
	lib.SetJoyLoader(module.JoyLoader(&rt.gens))

	for _, opt := range opts {
		if err := opt(rt); err != nil {
			return nil, err
		}
	}
	return rt, nil
}

// Library exposes the underlying registry for callers that need direct
// access (e.g. a native module's install hook during tests).
func (rt *Runtime) Library() *library.Library { return rt.lib }

func (rt *Runtime) runSource(source, filename string, validate bool, stats *Stats) (value.Stack, error) {
	entries, err := parser.Parse(source, filename)
	if err != nil {
		return nil, joyerr.Wrap(err, joyerr.ParseError, "parsing %s", filename)
	}
	var last value.Stack
	haveResult := false
	for _, e := range entries {
		if e.Library != nil {
			if err := linker.InstallBlock(rt.lib, e.Library.Module, e.Library.Types, e.Library.Private, e.Library.Public); err != nil {
				return nil, err
			}
			continue
		}
		if e.Term == nil {
			continue
		}
		prog, _, err := linker.LinkBody(e.Term.Tokens, e.Term.Meta, rt.lib, "")
		if err != nil {
			return nil, err
		}
		out, steps, err := interp.RunWithOptions(prog, nil, rt.lib, validate)
		if err != nil {
			return nil, err
		}
		if stats != nil {
			stats.Steps += steps
		}
		last, haveResult = out, true
	}
	if !haveResult {
		return nil, nil
	}
	return last, nil
}

// Load parses, links, and installs source into the Runtime's Library,
// executing any top-level terms but discarding their result stacks.
func (rt *Runtime) Load(source, filename string, validate bool) error {
	_, err := rt.runSource(source, filename, validate, nil)
	return err
}

// Run behaves like Load but returns the last executed top-level term's
// result stack, accumulating step counts into stats if non-nil.
func (rt *Runtime) Run(source, filename string, validate bool, stats *Stats) (value.Stack, error) {
	return rt.runSource(source, filename, validate, stats)
}

// resolveOperation looks up name as a combinator, quotation, or function
// (in that order, the same priority LinkBody gives them, minus the
// constant/factory steps, which only make sense for literal tokens
// appearing in a parsed body, not for a bare name supplied by a host
// caller through Apply).
func (rt *Runtime) resolveOperation(name string) (*value.Operation, error) {
	if fn, ok := rt.lib.GetCombinator(name); ok {
		return &value.Operation{Tag: value.Combinator, Target: fn, Name: name}, nil
	}
	q, err := rt.lib.GetQuotation(name, "")
	if err != nil {
		return nil, err
	}
	if q != nil {
		return &value.Operation{Tag: value.Execute, Target: q, Name: name}, nil
	}
	fb, err := rt.lib.GetFunction(name)
	if err != nil {
		return nil, err
	}
	if fb != nil {
		return &value.Operation{Tag: value.Function, Target: fb, Name: name}, nil
	}
	return nil, joyerr.New(joyerr.NameError, "unknown name %q", name)
}

// Apply runs the single named operation against s and returns the
// resulting stack. This is the entry point for a host driving the
// interpreter one call at a time rather than through Joy source text.
func (rt *Runtime) Apply(name string, s value.Stack, validate bool) (value.Stack, error) {
	op, err := rt.resolveOperation(name)
	if err != nil {
		return nil, err
	}
	out, _, err := interp.RunWithOptions(value.Program{op}, s, rt.lib, validate)
	return out, err
}

// DoStep advances q by exactly one item against s, for a host that wants
// to interleave its own work between interpreter steps. Each call builds
// a fresh Interpreter, so step counts are not accumulated across calls;
// callers that need that should use Run/RunWithOptions-style draining
// instead.
func (rt *Runtime) DoStep(q *queue.Queue, s value.Stack, validate bool) (value.Stack, bool, error) {
	ip := interp.New(rt.lib, interp.WithValidation(validate))
	return ip.Step(q, s)
}

// RegisterOperation adds a native function directly to the Runtime's
// Library, bypassing the module system. Useful for a host embedding
// joyfl that wants to expose one or two callbacks without writing a full
// native module.
func (rt *Runtime) RegisterOperation(name string, fn library.NativeFunc, sig effect.Signature) {
	rt.lib.AddFunction(name, fn, sig)
}

// RegisterFactory adds a zero-arg value factory directly to the
// Runtime's Library.
func (rt *Runtime) RegisterFactory(name string, f func() value.Value) {
	rt.lib.AddFactory(name, f)
}

// GetSignature reports the declared signature of a registered native
// function, if any.
func (rt *Runtime) GetSignature(name string) (effect.Signature, bool) {
	fb, err := rt.lib.GetFunction(name)
	if err != nil || fb == nil {
		return effect.Signature{}, false
	}
	return fb.Signature, true
}

// ListOperations returns every bound function, combinator, and public
// quotation name, sorted.
func (rt *Runtime) ListOperations() []string { return rt.lib.ListOperations() }

// ToStack builds a Stack from a top-first slice of Values.
func (rt *Runtime) ToStack(items []value.Value) value.Stack { return value.FromSlice(items) }

// FromStack returns the elements of s, top-first.
func (rt *Runtime) FromStack(s value.Stack) []value.Value { return value.ToSlice(s) }

// LoadGeneration reports the load-generation UUID last stamped on ns by
// either module loader, if ns has been loaded at all.
func (rt *Runtime) LoadGeneration(ns string) (uuid.UUID, bool) { return rt.gens.Get(ns) }

// Reset clears the loaded-namespace cache and the generation ledger, for
// test isolation. It does not remove any already-installed definitions
// or unregister native modules (see module.ResetNativeRegistry for that,
// process-wide knob).
func (rt *Runtime) Reset() {
	rt.lib.ResetModules()
	rt.gens.Reset()
}
