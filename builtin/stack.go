package builtin

import (
	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/value"
)

// registerStack wires the stack-shuffling primitives: dup, swap, pop,
// id, and the whole-stack introspection pair stack/unstack. unstack's
// signature uses effect.ValencyReplace since it discards the entire
// incoming stack rather than consuming a fixed number of items.
func registerStack(lib *library.Library) {
	lib.AddFunction("dup", func(s value.Stack) (value.Stack, error) {
		v, rest, err := pop1("dup", s)
		if err != nil {
			return nil, err
		}
		return value.Push(value.Push(rest, v), v), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Any},
		[]effect.ElemType{effect.Any, effect.Any},
	))

	lib.AddFunction("pop", func(s value.Stack) (value.Stack, error) {
		_, rest, err := pop1("pop", s)
		if err != nil {
			return nil, err
		}
		return rest, nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Any},
		nil,
	))

	lib.AddFunction("swap", func(s value.Stack) (value.Stack, error) {
		b, a, rest, err := pop2("swap", s)
		if err != nil {
			return nil, err
		}
		return value.Push(value.Push(rest, b), a), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Any, effect.Any},
		[]effect.ElemType{effect.Any, effect.Any},
	))

	lib.AddFunction("id", func(s value.Stack) (value.Stack, error) {
		return s, nil
	}, effect.Fixed(nil, nil))

	lib.AddFunction("stack", func(s value.Stack) (value.Stack, error) {
		return value.Push(s, value.NewList(value.ToSlice(s)...)), nil
	}, effect.Signature{Arity: 0, Valency: 1, Inputs: nil, Outputs: []effect.ElemType{effect.Of(value.KindList)}})

	lib.AddFunction("unstack", func(s value.Stack) (value.Stack, error) {
		v, _, err := pop1("unstack", s)
		if err != nil {
			return nil, err
		}
		l, err := asList("unstack", v)
		if err != nil {
			return nil, err
		}
		return value.FromSlice(l.Items()), nil
	}, effect.Signature{Arity: 1, Valency: effect.ValencyReplace, Inputs: []effect.ElemType{effect.Of(value.KindList)}, Outputs: nil})

	lib.AddFunction("stack-size", func(s value.Stack) (value.Stack, error) {
		return value.Push(s, value.NewInt(int64(value.Depth(s)))), nil
	}, effect.Signature{Arity: 0, Valency: 1, Outputs: []effect.ElemType{effect.Of(value.KindInt)}})
}
