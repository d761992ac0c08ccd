package module

import (
	"testing"

	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/value"
)

func TestJoyNameBijection(t *testing.T) {
	cases := map[string]string{
		"op_add":      "add",
		"op_equal_q":  "equal?",
		"op_put_b":    "put!",
		"op_str_join": "str-join",
	}
	for in, want := range cases {
		if got := joyName(in); got != want {
			t.Errorf("joyName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNativeLoaderInstallsAndStampsGeneration(t *testing.T) {
	defer ResetNativeRegistry()
	installed := false
	RegisterNative("demo", Registry{
		"op_one": {Fn: func(s value.Stack) (value.Stack, error) { return s, nil }, Signature: effect.Signature{Arity: effect.ArityVariadic}},
	}, func(lib *library.Library, ns string) error {
		installed = true
		lib.AddFactory(ns+".z", func() value.Value { return value.NewInt(0) })
		return nil
	})

	var gens Generations
	lib := library.New()
	lib.SetNativeLoader(NativeLoader(&gens))

	fb, err := lib.GetFunction("demo.one")
	if err != nil || fb == nil {
		t.Fatalf("GetFunction(demo.one): %v, %v", fb, err)
	}
	if !installed {
		t.Error("Installer hook should have run")
	}
	f, err := lib.GetFactory("demo.z", true)
	if err != nil || f == nil {
		t.Fatalf("GetFactory(demo.z): %v, %v", f != nil, err)
	}
	if _, ok := gens.Get("demo"); !ok {
		t.Error("NativeLoader should stamp a generation for the namespace it just loaded")
	}
}

func TestNativeLoaderUnknownNamespace(t *testing.T) {
	defer ResetNativeRegistry()
	lib := library.New()
	lib.SetNativeLoader(NativeLoader(nil))
	fb, err := lib.GetFunction("nosuch.thing")
	if err != nil {
		t.Fatalf("an unregistered native namespace should fall through as unbound, got error: %v", err)
	}
	if fb != nil {
		t.Error("expected no function binding for an unregistered namespace")
	}
	f, err := lib.GetFactory("nosuch.thing", true)
	if err == nil || f != nil {
		t.Error("a strict factory lookup should still surface the missing-module error")
	}
}
