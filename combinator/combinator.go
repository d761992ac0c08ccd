package combinator

import (
	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/joyerr"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/queue"
	"github.com/alexjc/joyfl/value"
)

func toProgram(l value.List) value.Program {
	items := l.Items()
	prog := make(value.Program, len(items))
	for i, v := range items {
		prog[i] = v
	}
	return prog
}

func asQuotation(name string, v value.Value) (value.List, error) {
	l, ok := v.(value.List)
	if !ok {
		return value.List{}, joyerr.New(joyerr.StackError, "`%s` requires a quotation as the top item on the stack", name)
	}
	return l, nil
}

// I pops a quotation from the top of the stack and prepends its contents
// to the head of the program queue. Fails if the top is not a list.
func I(op *value.Operation, q *queue.Queue, s value.Stack, lib *library.Library) (value.Stack, error) {
	qv, rest, ok := value.Pop(s)
	if !ok {
		return nil, joyerr.New(joyerr.StackError, "`i` needs 1 item on the stack")
	}
	prog, err := asQuotation("i", qv)
	if err != nil {
		return nil, err
	}
	q.Prepend(toProgram(prog))
	return rest, nil
}

// Dip pops a quotation q (top) and a value x (second), schedules q ahead
// of the rest of the queue, and schedules x to be pushed back onto the
// stack once q has run. x rides the queue as a plain literal item; no
// synthetic operation is needed to restore it.
func Dip(op *value.Operation, q *queue.Queue, s value.Stack, lib *library.Library) (value.Stack, error) {
	qv, rest1, ok := value.Pop(s)
	if !ok {
		return nil, joyerr.New(joyerr.StackError, "`dip` needs 2 items on the stack")
	}
	prog, err := asQuotation("dip", qv)
	if err != nil {
		return nil, err
	}
	x, rest2, ok := value.Pop(rest1)
	if !ok {
		return nil, joyerr.New(joyerr.StackError, "`dip` needs 2 items on the stack")
	}
	q.PrependOne(x)
	q.Prepend(toProgram(prog))
	return rest2, nil
}

// Step pops a program (top) and a list (second). If the list is empty it
// does nothing; otherwise it schedules one element to run under the
// program and reschedules itself on the remainder, so each iteration
// processes exactly one element.
func Step(op *value.Operation, q *queue.Queue, s value.Stack, lib *library.Library) (value.Stack, error) {
	programV, rest1, ok := value.Pop(s)
	if !ok {
		return nil, joyerr.New(joyerr.StackError, "`step` needs 2 items on the stack")
	}
	program, err := asQuotation("step", programV)
	if err != nil {
		return nil, err
	}
	listV, rest2, ok := value.Pop(rest1)
	if !ok {
		return nil, joyerr.New(joyerr.StackError, "`step` needs 2 items on the stack")
	}
	values, err := asQuotation("step", listV)
	if err != nil {
		return nil, err
	}
	if values.Empty() {
		return rest2, nil
	}
	head, tail, _ := values.Uncons()

	items := make(value.Program, 0, 1+len(program.Items())+3)
	items = append(items, head)
	items = append(items, toProgram(program)...)
	items = append(items, tail)
	items = append(items, program)
	items = append(items, op)
	q.Prepend(items)
	return rest2, nil
}

// Runner executes a linked program against a fresh stack and returns the
// result. It is the seam that lets Exec call back into the interpreter
// without this package importing package interp (which itself has no
// reason to import combinator). The runtime wires
// combinator.NewExec(interp.Run) together when it builds the library.
type Runner func(prog value.Program, lib *library.Library) (value.Stack, error)

// NewExec builds the exec! combinator around run. exec! always executes
// on a fresh, empty stack with validation enabled. On success it pushes
// the resulting stack as a list and then true; on any captured
// runtime/stack/assertion error it pushes the error value and then
// false. It never propagates the error to its own caller.
func NewExec(run Runner) library.CombinatorFunc {
	return func(op *value.Operation, q *queue.Queue, s value.Stack, lib *library.Library) (value.Stack, error) {
		qv, rest, ok := value.Pop(s)
		if !ok {
			return nil, joyerr.New(joyerr.StackError, "`exec!` needs 1 item on the stack")
		}
		prog, err := asQuotation("exec!", qv)
		if err != nil {
			return nil, err
		}
		result, runErr := run(toProgram(prog), lib)
		if runErr != nil {
			je, ok := joyerr.AsError(runErr)
			if !ok {
				je = joyerr.Wrap(runErr, joyerr.RuntimeError, "exec!")
			}
			return value.Push(value.Push(rest, je.ToValue()), value.Bool(false)), nil
		}
		payload := value.NewList(value.ToSlice(result)...)
		return value.Push(value.Push(rest, payload), value.Bool(true)), nil
	}
}

// Struct pops a Symbol type name and the N field values below it (N the
// type's arity). Values are popped top-to-bottom but bound to fields in
// declaration order, so the top-most popped value goes into the last
// field.
func Struct(op *value.Operation, q *queue.Queue, s value.Stack, lib *library.Library) (value.Stack, error) {
	nameV, rest, ok := value.Pop(s)
	if !ok {
		return nil, joyerr.New(joyerr.StackError, "`struct` needs a type name on the stack")
	}
	sym, ok := nameV.(value.Symbol)
	if !ok {
		return nil, joyerr.New(joyerr.TypeError, "`struct` requires a symbol type name on top of the stack")
	}
	st, ok := lib.GetStructType(string(sym))
	if !ok {
		return nil, joyerr.New(joyerr.UnknownStruct, "unknown struct type %q", string(sym))
	}

	n := st.Arity()
	popped := make([]value.Value, n)
	cur := rest
	for i := 0; i < n; i++ {
		v, next, ok := value.Pop(cur)
		if !ok {
			return nil, joyerr.New(joyerr.StackError, "`struct`: not enough values for type %q (needs %d)", string(sym), n)
		}
		popped[i] = v
		cur = next
	}

	fields := make([]value.Value, n)
	for i := 0; i < n; i++ {
		fields[n-1-i] = popped[i]
	}
	for i, fd := range st.Fields {
		if fd.Type == "" {
			continue
		}
		k, ok := effect.KindForName(fd.Type)
		if ok && fields[i].Kind() != k {
			return nil, joyerr.New(joyerr.TypeError, "`struct` field %q: expected %s, got %s", fd.Label, k, fields[i].Kind())
		}
	}
	return value.Push(cur, st.New(fields...)), nil
}

// Unstruct pops a Struct instance and pushes its fields in declaration
// order (bottom-to-top), the inverse of Struct.
func Unstruct(op *value.Operation, q *queue.Queue, s value.Stack, lib *library.Library) (value.Stack, error) {
	v, rest, ok := value.Pop(s)
	if !ok {
		return nil, joyerr.New(joyerr.StackError, "`unstruct` needs 1 item on the stack")
	}
	inst, ok := v.(*value.Instance)
	if !ok {
		return nil, joyerr.New(joyerr.TypeError, "`unstruct` requires a struct instance on top of the stack")
	}
	cur := rest
	for _, f := range inst.Fields {
		cur = value.Push(cur, f)
	}
	return cur, nil
}

// Register installs every combinator defined in this package under its
// Joy name, except exec!, which runtime wires separately via NewExec
// once an interp.Run is available to close over, and ",,,", which is
// only installed when an InputSource is supplied (NewCont).
func Register(lib *library.Library) {
	lib.AddCombinator("i", library.CombinatorFunc(I))
	lib.AddCombinator("dip", library.CombinatorFunc(Dip))
	lib.AddCombinator("step", library.CombinatorFunc(Step))
	lib.AddCombinator("struct", library.CombinatorFunc(Struct))
	lib.AddCombinator("unstruct", library.CombinatorFunc(Unstruct))
}
