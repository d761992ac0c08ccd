package module

import (
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/library"
)

// Operator is one entry of a native module's declared registry: the Go
// callable plus its derived stack-effect signature. Every registered
// function carries one.
type Operator struct {
	Fn        library.NativeFunc
	Signature effect.Signature
}

// Registry is the declared registry a native module exposes, keyed by
// its host-language identifier (before the Joy-name derivation rule is
// applied).
type Registry map[string]Operator

// Installer is called once, at first reference to a namespace, with the
// library and the namespace being loaded, so the module may register
// factories under its own dotted namespace at import time. May be nil.
type Installer func(lib *library.Library, ns string) error

// nativeEntry is one registered native module provider.
type nativeEntry struct {
	ops     Registry
	install Installer
}

// nativeRegistry is the process-lifetime table of native module
// providers, populated by RegisterNative (typically from an init() func,
// the same way database/sql drivers register themselves).
var nativeRegistry = map[string]*nativeEntry{}

// RegisterNative declares a native module's operator registry under ns.
// Call from an init() func of the package implementing the module, before
// any runtime.New() that might reference ns.* names. A re-registration of
// the same ns overwrites the previous one (useful in tests).
func RegisterNative(ns string, ops Registry, install Installer) {
	nativeRegistry[ns] = &nativeEntry{ops: ops, install: install}
}

// joyName derives a Joy operator name from a host-language identifier by
// a fixed rule: underscore -> dash, trailing "_q" -> "?", trailing
// "_b" -> "!", leading "op_" prefix stripped.
func joyName(ident string) string {
	s := ident
	if len(s) > 3 && s[:3] == "op_" {
		s = s[3:]
	}
	switch {
	case len(s) > 2 && s[len(s)-2:] == "_q":
		s = s[:len(s)-2] + "?"
	case len(s) > 2 && s[len(s)-2:] == "_b":
		s = s[:len(s)-2] + "!"
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			out = append(out, '-')
		} else {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// NativeLoader returns a library.Loader that resolves ns against the
// nativeRegistry, stamping a fresh generation UUID into gens on every
// successful load (exposed by runtime.LoadGeneration so tests can tell a
// reload from a cache hit).
func NativeLoader(gens *Generations) library.Loader {
	return func(lib *library.Library, ns string) error {
		entry, ok := nativeRegistry[ns]
		if !ok {
			return errors.Wrapf(library.ErrModuleNotFound, "no native module registered for namespace %q", ns)
		}
		idents := make([]string, 0, len(entry.ops))
		for ident := range entry.ops {
			idents = append(idents, ident)
		}
		sort.Strings(idents)
		for _, ident := range idents {
			op := entry.ops[ident]
			lib.AddFunction(ns+"."+joyName(ident), op.Fn, op.Signature)
		}
		if entry.install != nil {
			if err := entry.install(lib, ns); err != nil {
				return errors.Wrapf(err, "installing native module %q", ns)
			}
		}
		if gens != nil {
			gens.Set(ns, uuid.New())
		}
		return nil
	}
}

// ResetNativeRegistry clears every RegisterNative'd provider. Exposed for
// test isolation only; production code never needs it.
func ResetNativeRegistry() {
	for k := range nativeRegistry {
		delete(nativeRegistry, k)
	}
}
