package builtin

import (
	"testing"

	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/value"
)

func newLib(t *testing.T) *library.Library {
	t.Helper()
	lib := library.New()
	Register(lib)
	return lib
}

// call looks name up (through aliases) and applies it to a stack built
// from items given bottom-to-top.
func call(t *testing.T, lib *library.Library, name string, items ...value.Value) (value.Stack, error) {
	t.Helper()
	fb, err := lib.GetFunction(name)
	if err != nil || fb == nil {
		t.Fatalf("GetFunction(%q): %v, %v", name, fb, err)
	}
	var s value.Stack
	for _, v := range items {
		s = value.Push(s, v)
	}
	return fb.Fn(s)
}

func mustCall(t *testing.T, lib *library.Library, name string, items ...value.Value) []value.Value {
	t.Helper()
	out, err := call(t, lib, name, items...)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return value.ToSlice(out)
}

func TestArithmeticOperandOrder(t *testing.T) {
	lib := newLib(t)
	cases := []struct {
		name string
		b, a int64
		want value.Value
	}{
		{"add", 2, 3, value.NewInt(5)},
		{"sub", 5, 3, value.NewInt(2)},
		{"mul", 4, 3, value.NewInt(12)},
		{"min", 4, 7, value.NewInt(4)},
		{"max", 4, 7, value.NewInt(7)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := mustCall(t, lib, c.name, value.NewInt(c.b), value.NewInt(c.a))
			if len(got) != 1 || !value.Equal(got[0], c.want) {
				t.Errorf("%d %d %s = %v, want %v", c.b, c.a, c.name, got, c.want)
			}
		})
	}
}

func TestDivYieldsRational(t *testing.T) {
	lib := newLib(t)
	got := mustCall(t, lib, "div", value.NewInt(1), value.NewInt(3))
	r, ok := got[0].(value.Rational)
	if !ok {
		t.Fatalf("1 3 div should yield a Rational, got %T", got[0])
	}
	if r.String() != "1⁄3" {
		t.Errorf("got %q, want 1⁄3", r.String())
	}
	// Even an exact quotient stays Rational-typed: 6/3 yields the
	// integer-valued rational 2, not an Int.
	got = mustCall(t, lib, "div", value.NewInt(6), value.NewInt(3))
	if _, ok := got[0].(value.Rational); !ok {
		t.Errorf("div keeps the Rational kind even for whole results, got %T", got[0])
	}
}

func TestDivByZeroFails(t *testing.T) {
	lib := newLib(t)
	if _, err := call(t, lib, "div", value.NewInt(1), value.NewInt(0)); err == nil {
		t.Error("division by zero must fail")
	}
	if _, err := call(t, lib, "rem", value.NewInt(1), value.NewInt(0)); err == nil {
		t.Error("rem by zero must fail")
	}
	if _, err := call(t, lib, "//", value.NewInt(1), value.NewInt(0)); err == nil {
		t.Error("// by zero must fail")
	}
}

func TestFloorDiv(t *testing.T) {
	lib := newLib(t)
	cases := []struct{ b, a, want int64 }{
		{7, 2, 3},
		{-7, 2, -4},
		{7, -2, -4},
	}
	for _, c := range cases {
		got := mustCall(t, lib, "//", value.NewInt(c.b), value.NewInt(c.a))
		if !value.Equal(got[0], value.NewInt(c.want)) {
			t.Errorf("%d %d // = %v, want %d", c.b, c.a, got[0], c.want)
		}
	}
}

func TestFloatContagion(t *testing.T) {
	lib := newLib(t)
	got := mustCall(t, lib, "add", value.NewInt(1), value.Float(2.5))
	f, ok := got[0].(value.Float)
	if !ok || float64(f) != 3.5 {
		t.Errorf("mixing a float should yield a float: %v", got[0])
	}
}

func TestComparisonsUseDeeperOperandFirst(t *testing.T) {
	lib := newLib(t)
	got := mustCall(t, lib, "gt", value.NewInt(5), value.NewInt(3))
	if !value.Equal(got[0], value.Bool(true)) {
		t.Errorf("5 3 gt = %v, want true", got[0])
	}
	got = mustCall(t, lib, "lt", value.NewInt(5), value.NewInt(3))
	if !value.Equal(got[0], value.Bool(false)) {
		t.Errorf("5 3 lt = %v, want false", got[0])
	}
}

func TestEqualIsStructural(t *testing.T) {
	lib := newLib(t)
	a := value.NewList(value.NewInt(1), value.NewInt(2))
	b := value.NewList(value.NewInt(1), value.NewInt(2))
	got := mustCall(t, lib, "equal?", a, b)
	if !value.Equal(got[0], value.Bool(true)) {
		t.Error("structurally equal lists should compare equal")
	}
}

func TestAliasesResolve(t *testing.T) {
	lib := newLib(t)
	for alias, target := range map[string]string{
		"+": "add", "-": "sub", "*": "mul", "/": "div",
		">": "gt", "=": "equal?", "size": "length",
	} {
		fb, err := lib.GetFunction(alias)
		if err != nil || fb == nil {
			t.Errorf("alias %q should resolve: %v", alias, err)
			continue
		}
		if fb.Name != target {
			t.Errorf("alias %q resolved to %q, want %q", alias, fb.Name, target)
		}
	}
}

func TestConsAppendOrder(t *testing.T) {
	lib := newLib(t)
	l := value.NewList(value.NewInt(2), value.NewInt(3))

	got := mustCall(t, lib, "cons", value.NewInt(1), l)
	cl := got[0].(value.List)
	if len(cl.Items()) != 3 || !value.Equal(cl.Items()[0], value.NewInt(1)) {
		t.Errorf("cons should prepend: %v", cl)
	}

	got = mustCall(t, lib, "append", value.NewInt(4), l)
	al := got[0].(value.List)
	if len(al.Items()) != 3 || !value.Equal(al.Items()[2], value.NewInt(4)) {
		t.Errorf("append should add at the end: %v", al)
	}
}

func TestConsRejectsNonList(t *testing.T) {
	lib := newLib(t)
	if _, err := call(t, lib, "cons", value.NewInt(1), value.NewInt(2)); err == nil {
		t.Error("cons with a non-list second argument must fail, no coercion")
	}
	if _, err := call(t, lib, "append", value.NewInt(1), value.String("x")); err == nil {
		t.Error("append with a non-list second argument must fail")
	}
}

func TestUnconsSplitsHeadAndTail(t *testing.T) {
	lib := newLib(t)
	got := mustCall(t, lib, "uncons", value.NewList(value.NewInt(1), value.NewInt(2)))
	if len(got) != 2 {
		t.Fatalf("uncons = %v", got)
	}
	if !value.Equal(got[0], value.NewInt(1)) {
		t.Errorf("head = %v, want 1", got[0])
	}
	tail := got[1].(value.List)
	if len(tail.Items()) != 1 || !value.Equal(tail.Items()[0], value.NewInt(2)) {
		t.Errorf("tail = %v, want [2]", tail)
	}
}

func TestIndexBounds(t *testing.T) {
	lib := newLib(t)
	l := value.NewList(value.NewInt(10), value.NewInt(20))
	got := mustCall(t, lib, "index", value.NewInt(1), l)
	if !value.Equal(got[0], value.NewInt(20)) {
		t.Errorf("index 1 = %v, want 20", got[0])
	}
	if _, err := call(t, lib, "index", value.NewInt(2), l); err == nil {
		t.Error("an out-of-bounds index must fail")
	}
}

func TestSumAndProduct(t *testing.T) {
	lib := newLib(t)
	l := value.NewList(value.NewInt(1), value.NewInt(2), value.NewInt(3))
	got := mustCall(t, lib, "sum", l)
	if !value.Equal(got[0], value.NewInt(6)) {
		t.Errorf("sum = %v, want 6", got[0])
	}
	got = mustCall(t, lib, "product", l)
	if !value.Equal(got[0], value.NewInt(6)) {
		t.Errorf("product = %v, want 6", got[0])
	}
}

func TestNullAndSmallPredicates(t *testing.T) {
	lib := newLib(t)
	cases := []struct {
		v         value.Value
		null, sml bool
	}{
		{value.NewList(), true, true},
		{value.NewList(value.NewInt(1)), false, true},
		{value.NewList(value.NewInt(1), value.NewInt(2)), false, false},
		{value.NewInt(0), true, true},
		{value.NewInt(1), false, true},
		{value.NewInt(2), false, false},
		{value.String(""), true, true},
		{value.String("ab"), false, false},
	}
	for _, c := range cases {
		got := mustCall(t, lib, "null?", c.v)
		if !value.Equal(got[0], value.Bool(c.null)) {
			t.Errorf("%v null? = %v, want %v", c.v, got[0], c.null)
		}
		got = mustCall(t, lib, "small?", c.v)
		if !value.Equal(got[0], value.Bool(c.sml)) {
			t.Errorf("%v small? = %v, want %v", c.v, got[0], c.sml)
		}
	}
}

func TestStackOperators(t *testing.T) {
	lib := newLib(t)
	got := mustCall(t, lib, "stack", value.NewInt(1), value.NewInt(2))
	top := got[0].(value.List)
	// stack reifies top-first.
	if len(top.Items()) != 2 || !value.Equal(top.Items()[0], value.NewInt(2)) {
		t.Errorf("stack = %v, want [2 1]", top)
	}

	got = mustCall(t, lib, "unstack", value.NewList(value.NewInt(9), value.NewInt(8)))
	if len(got) != 2 || !value.Equal(got[0], value.NewInt(9)) || !value.Equal(got[1], value.NewInt(8)) {
		t.Errorf("unstack should replace the stack, top-first: %v", got)
	}
}

func TestStringOperators(t *testing.T) {
	lib := newLib(t)
	got := mustCall(t, lib, "str-concat", value.String("foo"), value.String("bar"))
	if !value.Equal(got[0], value.String("foobar")) {
		t.Errorf("str-concat = %v, want foobar", got[0])
	}

	got = mustCall(t, lib, "str-split", value.String(","), value.String("a,b,c"))
	parts := got[0].(value.List)
	if len(parts.Items()) != 3 || !value.Equal(parts.Items()[1], value.String("b")) {
		t.Errorf("str-split = %v", parts)
	}

	got = mustCall(t, lib, "str-join", value.NewList(value.String("a"), value.String("b")), value.String("-"))
	if !value.Equal(got[0], value.String("a-b")) {
		t.Errorf("str-join = %v, want a-b", got[0])
	}
}

func TestDictOperators(t *testing.T) {
	lib := newLib(t)
	d := value.NewDict()
	got := mustCall(t, lib, "dict-store", d, value.Symbol("k"), value.NewInt(1))
	if got[0] != value.Value(d) {
		t.Fatal("dict-store should leave the same dict on the stack")
	}
	got = mustCall(t, lib, "dict-fetch", d, value.Symbol("k"))
	if !value.Equal(got[0], value.NewInt(1)) {
		t.Errorf("dict-fetch = %v, want 1", got[0])
	}
	if _, err := call(t, lib, "dict-fetch", d, value.Symbol("missing")); err == nil {
		t.Error("fetching an unbound key must fail")
	}

	f, err := lib.GetFactory("dict-new", true)
	if err != nil || f == nil {
		t.Fatalf("dict-new factory: %v", err)
	}
	if f() == f() {
		t.Error("dict-new must produce a fresh dict per reference")
	}
}

func TestAssertRaisesOnFalse(t *testing.T) {
	lib := newLib(t)
	if _, err := call(t, lib, "assert!", value.Bool(false)); err == nil {
		t.Error("assert! on false must raise")
	}
	got := mustCall(t, lib, "assert!", value.Bool(true))
	if len(got) != 0 {
		t.Errorf("assert! on true should just consume the flag: %v", got)
	}
}

func TestErrorAccessorsExposeFields(t *testing.T) {
	lib := newLib(t)
	ev := &value.ErrorValue{KindName: "RuntimeError", Message: "went wrong", Token: "bad"}

	got := mustCall(t, lib, "error-kind", ev)
	if !value.Equal(got[0], value.Symbol("RuntimeError")) {
		t.Errorf("error-kind = %v", got[0])
	}
	got = mustCall(t, lib, "error-message", ev)
	if !value.Equal(got[0], value.String("went wrong")) {
		t.Errorf("error-message = %v", got[0])
	}
	got = mustCall(t, lib, "error-data", ev)
	d := got[0].(*value.Dict)
	if v, ok := d.Get(value.Symbol("token")); !ok || !value.Equal(v, value.String("bad")) {
		t.Errorf("error-data token = %v, %v", v, ok)
	}
}

func TestSametype(t *testing.T) {
	lib := newLib(t)
	got := mustCall(t, lib, "sametype?", value.NewInt(1), value.NewInt(2))
	if !value.Equal(got[0], value.Bool(true)) {
		t.Error("two ints share a type")
	}
	got = mustCall(t, lib, "sametype?", value.NewInt(1), value.String("x"))
	if !value.Equal(got[0], value.Bool(false)) {
		t.Error("an int and a string do not share a type")
	}
}
