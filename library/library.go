package library

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/queue"
	"github.com/alexjc/joyfl/value"
)

// NativeFunc is a native operator: it consumes its declared arguments from
// the top of the stack and returns the resulting stack.
type NativeFunc func(value.Stack) (value.Stack, error)

// CombinatorFunc is a combinator's implementation, invoked with the
// dispatching Operation, the program queue, the current stack, and the
// library. Declared here rather than in package combinator or interp so
// both can reference the identical, named function type without
// importing one another.
type CombinatorFunc func(op *value.Operation, q *queue.Queue, s value.Stack, lib *Library) (value.Stack, error)

// FuncBinding is a registered native function together with its derived
// or declared stack-effect signature. Every registered function carries
// one.
type FuncBinding struct {
	Name      string
	Fn        NativeFunc
	Signature effect.Signature
}

// ErrModuleNotFound is the sentinel a Loader returns (possibly wrapped)
// when the requested namespace simply does not exist on its side: no
// registered native module, no ns.joy on the search path. The getters
// treat it as "name unbound" and let the linker fall through to the next
// token-resolution rule, whereas any other loader error (a module that
// exists but is malformed) stays fatal.
var ErrModuleNotFound = errors.New("module not found")

// Loader lazily populates a Library with one namespace's worth of
// definitions. Returning nil means the namespace is now loaded.
type Loader func(lib *Library, ns string) error

// Library is the registry the linker and interpreter operate over.
// The zero value is not usable; construct with New.
type Library struct {
	functions   map[string]*FuncBinding
	combinators map[string]interface{}
	constants   map[string]value.Value
	factories   map[string]func() value.Value
	aliases     map[string]string
	structTypes map[string]*value.StructType

	quotations map[string]*value.Quotation
	parent     *Library

	loadedNative map[string]bool
	loadedJoy    map[string]bool
	nativeLoader Loader
	joyLoader    Loader
}

// New returns an empty, ready-to-populate Library.
func New() *Library {
	return &Library{
		functions:    map[string]*FuncBinding{},
		combinators:  map[string]interface{}{},
		constants:    map[string]value.Value{},
		factories:    map[string]func() value.Value{},
		aliases:      map[string]string{},
		structTypes:  map[string]*value.StructType{},
		quotations:   map[string]*value.Quotation{},
		loadedNative: map[string]bool{},
		loadedJoy:    map[string]bool{},
	}
}

// WithOverlay returns a new library view that shares every table with lib
// except quotations, which get a fresh write-on-top layer: reads fall
// through to lib (and lib's own parent chain) when not found locally,
// writes touch only the new layer. Used while linking one module's own
// body so its private/local definitions don't leak into the parent
// table.
func (lib *Library) WithOverlay() *Library {
	return &Library{
		functions:    lib.functions,
		combinators:  lib.combinators,
		constants:    lib.constants,
		factories:    lib.factories,
		aliases:      lib.aliases,
		structTypes:  lib.structTypes,
		quotations:   map[string]*value.Quotation{},
		parent:       lib,
		loadedNative: lib.loadedNative,
		loadedJoy:    lib.loadedJoy,
		nativeLoader: lib.nativeLoader,
		joyLoader:    lib.joyLoader,
	}
}

// SetNativeLoader installs the callback used to resolve an unloaded
// native-module namespace. Set once, on the root library, by runtime.New.
func (lib *Library) SetNativeLoader(l Loader) { lib.nativeLoader = l }

// SetJoyLoader installs the callback used to resolve an unloaded
// Joy-source-module namespace.
func (lib *Library) SetJoyLoader(l Loader) { lib.joyLoader = l }

// MarkJoyLoaded records ns as an already-loaded Joy module namespace, so
// a later dotted reference to ns.op does not try the file-system loader.
// The linker calls this when a MODULE block is installed directly from
// in-memory source rather than resolved through JoyLoader.
func (lib *Library) MarkJoyLoaded(ns string) {
	if ns != "" {
		lib.loadedJoy[ns] = true
	}
}

// ResetModules clears the loaded-namespace cache, the reset hook test
// isolation relies on. It does not remove any definitions
// already installed; a subsequent reference to a previously-loaded
// namespace will re-invoke its loader, which is expected to be idempotent
// in what it installs.
func (lib *Library) ResetModules() {
	maps.Clear(lib.loadedNative)
	maps.Clear(lib.loadedJoy)
}

func splitNS(name string) (ns, rest string, dotted bool) {
	idx := strings.IndexByte(name, '.')
	if idx < 0 {
		return "", name, false
	}
	return name[:idx], name[idx+1:], true
}

// resolveAlias applies at most one level of redirection. Aliases are
// shallow and never chain.
func (lib *Library) resolveAlias(name string) string {
	if target, ok := lib.aliases[name]; ok {
		return target
	}
	return name
}

func (lib *Library) ensureNativeLoaded(ns string) error {
	if ns == "" || lib.loadedNative[ns] {
		return nil
	}
	if lib.nativeLoader == nil {
		return errors.Wrapf(ErrModuleNotFound, "no native module loader configured for %q", ns)
	}
	if err := lib.nativeLoader(lib, ns); err != nil {
		return errors.Wrapf(err, "loading native module %q", ns)
	}
	lib.loadedNative[ns] = true
	return nil
}

func (lib *Library) ensureJoyLoaded(ns string) error {
	if ns == "" || lib.loadedJoy[ns] {
		return nil
	}
	if lib.joyLoader == nil {
		return errors.Wrapf(ErrModuleNotFound, "no Joy module loader configured for %q", ns)
	}
	if err := lib.joyLoader(lib, ns); err != nil {
		return errors.Wrapf(err, "loading module %q", ns)
	}
	lib.loadedJoy[ns] = true
	return nil
}

// AddFunction registers a native function under name.
func (lib *Library) AddFunction(name string, fn NativeFunc, sig effect.Signature) {
	lib.functions[name] = &FuncBinding{Name: name, Fn: fn, Signature: sig}
}

// GetFunction resolves name (possibly dotted), lazily loading its native
// module on first reference. A nil, nil result means the name is simply
// unbound (the linker falls through to the next token-resolution rule);
// a non-nil error means the load itself failed.
func (lib *Library) GetFunction(name string) (*FuncBinding, error) {
	name = lib.resolveAlias(name)
	ns, _, dotted := splitNS(name)
	if dotted {
		if err := lib.ensureNativeLoaded(ns); err != nil {
			if errors.Is(err, ErrModuleNotFound) {
				return nil, nil
			}
			return nil, err
		}
	}
	return lib.functions[name], nil
}

// AddCombinator registers a combinator implementation under name. fn's
// concrete type is defined by package combinator; library stores it
// opaquely to avoid importing combinator.
func (lib *Library) AddCombinator(name string, fn interface{}) {
	lib.combinators[name] = fn
}

// GetCombinator looks up a combinator by name.
func (lib *Library) GetCombinator(name string) (interface{}, bool) {
	fn, ok := lib.combinators[name]
	return fn, ok
}

// AddConstant registers an immutable singleton value under name.
func (lib *Library) AddConstant(name string, v value.Value) { lib.constants[name] = v }

// GetConstant looks up a constant by name.
func (lib *Library) GetConstant(name string) (value.Value, bool) {
	v, ok := lib.constants[name]
	return v, ok
}

// AddFactory registers a zero-arg value factory under name. Factories
// produce a fresh mutable collaborator each time they are referenced,
// unlike constants.
func (lib *Library) AddFactory(name string, f func() value.Value) { lib.factories[name] = f }

// GetFactory resolves name (possibly dotted), lazily loading its native
// module on first reference. When strict is true and the factory is
// absent, an error is returned; otherwise a nil function is returned.
func (lib *Library) GetFactory(name string, strict bool) (func() value.Value, error) {
	name = lib.resolveAlias(name)
	ns, _, dotted := splitNS(name)
	if dotted {
		if err := lib.ensureNativeLoaded(ns); err != nil {
			if !strict && errors.Is(err, ErrModuleNotFound) {
				return nil, nil
			}
			return nil, err
		}
	}
	f, ok := lib.factories[name]
	if !ok && strict {
		return nil, errors.Errorf("no such factory %q", name)
	}
	return f, nil
}

// AddAlias registers name as a one-level redirect to target.
func (lib *Library) AddAlias(name, target string) { lib.aliases[name] = target }

// AddStructType registers t. If a type with the same Name is already
// registered, the two declarations must agree in shape, or registration
// fails.
func (lib *Library) AddStructType(t *value.StructType) error {
	if existing, ok := lib.structTypes[t.Name]; ok {
		if !existing.SameShape(t) {
			return errors.Errorf("struct type %q redeclared with a different shape", t.Name)
		}
		return nil
	}
	lib.structTypes[t.Name] = t
	return nil
}

// GetStructType looks up a struct type by name.
func (lib *Library) GetStructType(name string) (*value.StructType, bool) {
	t, ok := lib.structTypes[name]
	return t, ok
}

// AddQuotation registers q under name in the current layer (the overlay's
// local layer if called on an overlay, or the root table otherwise).
func (lib *Library) AddQuotation(name string, q *value.Quotation) {
	lib.quotations[name] = q
}

// RemoveQuotation deletes name from the current layer only. Used by the
// linker to roll back a sibling batch of placeholders when any one of
// them fails to link.
func (lib *Library) RemoveQuotation(name string) {
	delete(lib.quotations, name)
}

func (lib *Library) lookupQuotationRaw(name string) *value.Quotation {
	for l := lib; l != nil; l = l.parent {
		if q, ok := l.quotations[name]; ok {
			return q
		}
	}
	return nil
}

// GetQuotation resolves name (possibly dotted), lazily loading its Joy
// source module on first reference. fromModule identifies the module
// currently being linked (empty string for the global scope); a Private
// quotation belonging to a different module is treated as not found, so
// private names are never callable from outside. A nil, nil result means
// "not found" (the linker tries the next resolution rule); non-nil error
// means the underlying module load failed.
func (lib *Library) GetQuotation(name string, fromModule string) (*value.Quotation, error) {
	name = lib.resolveAlias(name)
	ns, _, dotted := splitNS(name)
	if dotted {
		if err := lib.ensureJoyLoaded(ns); err != nil && !errors.Is(err, ErrModuleNotFound) {
			return nil, err
		}
	}
	q := lib.lookupQuotationRaw(name)
	if q == nil {
		return nil, nil
	}
	if q.Visibility == value.Private && q.Module != fromModule {
		return nil, nil
	}
	return q, nil
}

// ListOperations returns every bound function, combinator, and public
// quotation name, sorted for deterministic introspection output.
func (lib *Library) ListOperations() []string {
	names := make(map[string]struct{})
	for _, m := range []map[string]*FuncBinding{lib.functions} {
		for k := range m {
			names[k] = struct{}{}
		}
	}
	for k := range lib.combinators {
		names[k] = struct{}{}
	}
	for l := lib; l != nil; l = l.parent {
		for k, q := range l.quotations {
			if q.Visibility == value.Public {
				names[k] = struct{}{}
			}
		}
	}
	out := maps.Keys(names)
	slices.Sort(out)
	return out
}
