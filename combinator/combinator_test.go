package combinator

import (
	"testing"

	"github.com/alexjc/joyfl/builtin"
	"github.com/alexjc/joyfl/interp"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/queue"
	"github.com/alexjc/joyfl/value"
)

func newTestLib(t *testing.T) *library.Library {
	t.Helper()
	lib := library.New()
	builtin.Register(lib)
	Register(lib)
	lib.AddCombinator("exec!", NewExec(interp.Run))
	return lib
}

func op(t *testing.T, lib *library.Library, name string) *value.Operation {
	t.Helper()
	if fn, ok := lib.GetCombinator(name); ok {
		return &value.Operation{Tag: value.Combinator, Target: fn, Name: name}
	}
	fb, err := lib.GetFunction(name)
	if err != nil || fb == nil {
		t.Fatalf("no such operation %q: %v", name, err)
	}
	return &value.Operation{Tag: value.Function, Target: fb, Name: name}
}

func run(t *testing.T, lib *library.Library, prog value.Program, s value.Stack) value.Stack {
	t.Helper()
	out, err := interp.New(lib).Drain(queue.New(prog), s)
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	return out
}

func ints(ns ...int64) []value.Value {
	out := make([]value.Value, len(ns))
	for i, n := range ns {
		out[i] = value.NewInt(n)
	}
	return out
}

// step on a list must equal running the quotation once per element with
// that element pushed first.
func TestStepDistributivity(t *testing.T) {
	lib := newTestLib(t)
	add := op(t, lib, "add")

	// 0 [1 2 3] [add] step  ->  6
	prog := value.Program{
		value.NewInt(0),
		value.NewList(ints(1, 2, 3)...),
		value.NewList(add),
		op(t, lib, "step"),
	}
	out := run(t, lib, prog, nil)
	got := value.ToSlice(out)
	if len(got) != 1 || !value.Equal(got[0], value.NewInt(6)) {
		t.Errorf("step sum = %v, want [6]", got)
	}
}

func TestStepEmptyListIsNoop(t *testing.T) {
	lib := newTestLib(t)
	prog := value.Program{
		value.NewInt(42),
		value.NewList(),
		value.NewList(op(t, lib, "dup")),
		op(t, lib, "step"),
	}
	out := run(t, lib, prog, nil)
	got := value.ToSlice(out)
	if len(got) != 1 || !value.Equal(got[0], value.NewInt(42)) {
		t.Errorf("step on an empty list should drop both operands and do nothing: %v", got)
	}
}

func TestIRejectsNonQuotation(t *testing.T) {
	lib := newTestLib(t)
	_, err := interp.New(lib).Drain(queue.New(value.Program{value.NewInt(5), op(t, lib, "i")}), nil)
	if err == nil {
		t.Fatal("`i` on a non-list should fail")
	}
}

func TestDipRestoresSavedValue(t *testing.T) {
	lib := newTestLib(t)
	prog := value.Program{
		value.NewInt(1), value.NewInt(2), value.NewInt(100),
		value.NewList(op(t, lib, "add")),
		op(t, lib, "dip"),
	}
	out := run(t, lib, prog, nil)
	got := value.ToSlice(out)
	if len(got) != 2 || !value.Equal(got[0], value.NewInt(100)) || !value.Equal(got[1], value.NewInt(3)) {
		t.Errorf("dip result = %v, want [100, 3]", got)
	}
}

// exec! never propagates: success and failure both leave (flag, payload)
// on the caller's stack.
func TestExecTotalitySuccess(t *testing.T) {
	lib := newTestLib(t)
	prog := value.Program{
		value.String("kept"),
		value.NewList(value.NewInt(1), value.NewInt(2), op(t, lib, "add")),
		op(t, lib, "exec!"),
	}
	out := run(t, lib, prog, nil)
	got := value.ToSlice(out)
	if len(got) != 3 {
		t.Fatalf("stack = %v, want flag, payload, and the untouched item below", got)
	}
	if !value.Equal(got[0], value.Bool(true)) {
		t.Errorf("flag = %v, want true", got[0])
	}
	payload, ok := got[1].(value.List)
	if !ok || len(payload.Items()) != 1 || !value.Equal(payload.Items()[0], value.NewInt(3)) {
		t.Errorf("payload = %v, want [3]", got[1])
	}
	if !value.Equal(got[2], value.String("kept")) {
		t.Errorf("the caller's stack below exec! must be untouched, got %v", got[2])
	}
}

func TestExecTotalityFailure(t *testing.T) {
	lib := newTestLib(t)
	prog := value.Program{
		value.NewList(value.Bool(false), op(t, lib, "assert!")),
		op(t, lib, "exec!"),
	}
	out := run(t, lib, prog, nil)
	got := value.ToSlice(out)
	if len(got) != 2 {
		t.Fatalf("stack = %v, want [flag, error]", got)
	}
	if !value.Equal(got[0], value.Bool(false)) {
		t.Errorf("flag = %v, want false", got[0])
	}
	ev, ok := got[1].(*value.ErrorValue)
	if !ok {
		t.Fatalf("payload should be an error value, got %T", got[1])
	}
	if ev.KindName != "AssertionError" {
		t.Errorf("error kind = %q, want AssertionError", ev.KindName)
	}
}

func TestExecRunsOnFreshStack(t *testing.T) {
	lib := newTestLib(t)
	// The quotation sees an empty stack, so `add` underflows even though
	// the caller has plenty of values below.
	prog := value.Program{
		value.NewInt(1), value.NewInt(2),
		value.NewList(op(t, lib, "add")),
		op(t, lib, "exec!"),
	}
	out := run(t, lib, prog, nil)
	got := value.ToSlice(out)
	if len(got) != 4 {
		t.Fatalf("stack = %v, want flag, error, and the two caller values", got)
	}
	if !value.Equal(got[0], value.Bool(false)) {
		t.Errorf("flag = %v, want false (underflow on the fresh stack)", got[0])
	}
}

func registerPair(t *testing.T, lib *library.Library) {
	t.Helper()
	err := lib.AddStructType(&value.StructType{
		Name: "Pair",
		Fields: []value.FieldDecl{
			{Label: "a", Type: "int"},
			{Label: "b", Type: "float"},
		},
	})
	if err != nil {
		t.Fatalf("AddStructType: %v", err)
	}
}

func TestStructUnstructRoundtrip(t *testing.T) {
	lib := newTestLib(t)
	registerPair(t, lib)

	// 1 2.5 'Pair struct  ->  Pair{a=1 b=2.5}; unstruct restores 1 2.5.
	prog := value.Program{
		value.NewInt(1), value.Float(2.5), value.Symbol("Pair"),
		op(t, lib, "struct"), op(t, lib, "unstruct"),
	}
	out := run(t, lib, prog, nil)
	got := value.ToSlice(out)
	if len(got) != 2 || !value.Equal(got[0], value.Float(2.5)) || !value.Equal(got[1], value.NewInt(1)) {
		t.Errorf("roundtrip = %v, want [2.5, 1]", got)
	}
}

func TestStructBindsTopValueToLastField(t *testing.T) {
	lib := newTestLib(t)
	registerPair(t, lib)
	prog := value.Program{
		value.NewInt(1), value.Float(2.5), value.Symbol("Pair"),
		op(t, lib, "struct"),
	}
	out := run(t, lib, prog, nil)
	inst, ok := value.ToSlice(out)[0].(*value.Instance)
	if !ok {
		t.Fatalf("expected a struct instance, got %T", value.ToSlice(out)[0])
	}
	if a, _ := inst.Field("a"); !value.Equal(a, value.NewInt(1)) {
		t.Errorf("field a = %v, want 1", a)
	}
	if b, _ := inst.Field("b"); !value.Equal(b, value.Float(2.5)) {
		t.Errorf("field b = %v, want 2.5", b)
	}
}

func TestStructTypeChecksFields(t *testing.T) {
	lib := newTestLib(t)
	registerPair(t, lib)
	// b is declared float; handing it a string must fail.
	prog := value.Program{
		value.NewInt(1), value.String("nope"), value.Symbol("Pair"),
		op(t, lib, "struct"),
	}
	if _, err := interp.New(lib).Drain(queue.New(prog), nil); err == nil {
		t.Fatal("struct should reject a field value of the wrong declared type")
	}
}

func TestStructUnknownTypeFails(t *testing.T) {
	lib := newTestLib(t)
	prog := value.Program{value.Symbol("Ghost"), op(t, lib, "struct")}
	if _, err := interp.New(lib).Drain(queue.New(prog), nil); err == nil {
		t.Fatal("struct on an undeclared type name should fail")
	}
}

func TestUnstructRejectsNonStruct(t *testing.T) {
	lib := newTestLib(t)
	prog := value.Program{value.NewInt(1), op(t, lib, "unstruct")}
	if _, err := interp.New(lib).Drain(queue.New(prog), nil); err == nil {
		t.Fatal("unstruct should reject a non-struct top of stack")
	}
}

type scriptedInput struct {
	lines []string
	pos   int
}

func (s *scriptedInput) ReadLine() (string, error) {
	if s.pos >= len(s.lines) {
		return "", nil
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}

func TestContReadsParsesAndReschedules(t *testing.T) {
	lib := newTestLib(t)
	src := &scriptedInput{lines: []string{"2 3 add .", ""}}
	lib.AddCombinator(",,,", NewCont(src))
	cont := op(t, lib, ",,,")

	out := run(t, lib, value.Program{cont}, nil)
	got := value.ToSlice(out)
	if len(got) != 1 || !value.Equal(got[0], value.NewInt(5)) {
		t.Errorf("continuation should have executed the scripted line: %v", got)
	}
	if src.pos != 2 {
		t.Errorf("the combinator should re-invoke itself until input runs dry, read %d lines", src.pos)
	}
}
