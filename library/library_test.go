package library

import (
	"testing"

	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/value"
)

func TestFunctionRoundTrip(t *testing.T) {
	lib := New()
	fn := NativeFunc(func(s value.Stack) (value.Stack, error) { return s, nil })
	lib.AddFunction("noop", fn, effect.Signature{Arity: effect.ArityVariadic})

	fb, err := lib.GetFunction("noop")
	if err != nil || fb == nil {
		t.Fatalf("GetFunction: %v, %v", fb, err)
	}
	if fb.Name != "noop" {
		t.Errorf("got name %q, want noop", fb.Name)
	}
}

func TestAliasOneLevelOnly(t *testing.T) {
	lib := New()
	lib.AddFunction("add", NativeFunc(func(s value.Stack) (value.Stack, error) { return s, nil }), effect.Signature{Arity: effect.ArityVariadic})
	lib.AddAlias("+", "add")

	fb, err := lib.GetFunction("+")
	if err != nil || fb == nil {
		t.Fatalf("alias should resolve to the target function: %v, %v", fb, err)
	}
	if fb.Name != "add" {
		t.Errorf("resolved function name = %q, want add", fb.Name)
	}
}

func TestOverlayIsolatesWrites(t *testing.T) {
	lib := New()
	lib.AddQuotation("global", &value.Quotation{Name: "global", Visibility: value.Public})

	overlay := lib.WithOverlay()
	overlay.AddQuotation("local-only", &value.Quotation{Name: "local-only", Visibility: value.Local})

	if q, _ := overlay.GetQuotation("global", ""); q == nil {
		t.Error("overlay should read through to the parent's quotations")
	}
	if q, _ := lib.GetQuotation("local-only", ""); q != nil {
		t.Error("a write on the overlay must not leak into its parent")
	}
}

func TestPrivateQuotationNotVisibleOutsideModule(t *testing.T) {
	lib := New()
	lib.AddQuotation("m.secret", &value.Quotation{Name: "m.secret", Visibility: value.Private, Module: "m"})

	if q, _ := lib.GetQuotation("m.secret", "m"); q == nil {
		t.Error("a private quotation should be visible from within its own module's link pass")
	}
	if q, _ := lib.GetQuotation("m.secret", ""); q != nil {
		t.Error("a private quotation must not be visible outside its declaring module")
	}
}

func TestStructTypeRedeclarationSameShapeOK(t *testing.T) {
	lib := New()
	t1 := &value.StructType{Name: "Pair", Fields: []value.FieldDecl{{Label: "a"}, {Label: "b"}}}
	t2 := &value.StructType{Name: "Pair", Fields: []value.FieldDecl{{Label: "a"}, {Label: "b"}}}
	if err := lib.AddStructType(t1); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if err := lib.AddStructType(t2); err != nil {
		t.Errorf("same-shape redeclaration should be accepted: %v", err)
	}
}

func TestStructTypeRedeclarationDifferentShapeFails(t *testing.T) {
	lib := New()
	t1 := &value.StructType{Name: "Pair", Fields: []value.FieldDecl{{Label: "a"}, {Label: "b"}}}
	t2 := &value.StructType{Name: "Pair", Fields: []value.FieldDecl{{Label: "a"}}}
	if err := lib.AddStructType(t1); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if err := lib.AddStructType(t2); err == nil {
		t.Error("a shape-incompatible redeclaration must fail")
	}
}

func TestListOperationsSortedAndDeduped(t *testing.T) {
	lib := New()
	lib.AddFunction("zeta", NativeFunc(func(s value.Stack) (value.Stack, error) { return s, nil }), effect.Signature{Arity: effect.ArityVariadic})
	lib.AddFunction("alpha", NativeFunc(func(s value.Stack) (value.Stack, error) { return s, nil }), effect.Signature{Arity: effect.ArityVariadic})
	lib.AddQuotation("mid", &value.Quotation{Name: "mid", Visibility: value.Public})

	names := lib.ListOperations()
	if len(names) != 3 {
		t.Fatalf("got %d names, want 3: %v", len(names), names)
	}
	if names[0] != "alpha" || names[1] != "mid" || names[2] != "zeta" {
		t.Errorf("expected sorted order, got %v", names)
	}
}

func TestResetModulesDoesNotDropDefinitions(t *testing.T) {
	lib := New()
	calls := 0
	lib.SetNativeLoader(func(l *Library, ns string) error {
		calls++
		l.AddFunction(ns+".f", NativeFunc(func(s value.Stack) (value.Stack, error) { return s, nil }), effect.Signature{Arity: effect.ArityVariadic})
		return nil
	})
	if _, err := lib.GetFunction("ns.f"); err != nil {
		t.Fatalf("GetFunction: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected loader to run once, ran %d times", calls)
	}
	if _, err := lib.GetFunction("ns.f"); err != nil {
		t.Fatalf("GetFunction (cached): %v", err)
	}
	if calls != 1 {
		t.Fatalf("loader should not re-run while ns stays loaded, ran %d times", calls)
	}

	lib.ResetModules()
	if _, err := lib.GetFunction("ns.f"); err != nil {
		t.Fatalf("GetFunction after reset: %v", err)
	}
	if calls != 2 {
		t.Fatalf("loader should re-run once its namespace cache is reset, ran %d times", calls)
	}
}
