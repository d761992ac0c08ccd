package builtin

import (
	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/value"
)

var boolSig2 = effect.Fixed(
	[]effect.ElemType{effect.Of(value.KindBool), effect.Of(value.KindBool)},
	[]effect.ElemType{effect.Of(value.KindBool)},
)

var boolSig1 = effect.Fixed(
	[]effect.ElemType{effect.Of(value.KindBool)},
	[]effect.ElemType{effect.Of(value.KindBool)},
)

func registerLogic(lib *library.Library) {
	lib.AddFunction("and", func(s value.Stack) (value.Stack, error) {
		bv, av, rest, err := pop2("and", s)
		if err != nil {
			return nil, err
		}
		b, err := asBool("and", bv)
		if err != nil {
			return nil, err
		}
		a, err := asBool("and", av)
		if err != nil {
			return nil, err
		}
		return value.Push(rest, value.Bool(b && a)), nil
	}, boolSig2)

	lib.AddFunction("or", func(s value.Stack) (value.Stack, error) {
		bv, av, rest, err := pop2("or", s)
		if err != nil {
			return nil, err
		}
		b, err := asBool("or", bv)
		if err != nil {
			return nil, err
		}
		a, err := asBool("or", av)
		if err != nil {
			return nil, err
		}
		return value.Push(rest, value.Bool(b || a)), nil
	}, boolSig2)

	lib.AddFunction("xor", func(s value.Stack) (value.Stack, error) {
		bv, av, rest, err := pop2("xor", s)
		if err != nil {
			return nil, err
		}
		b, err := asBool("xor", bv)
		if err != nil {
			return nil, err
		}
		a, err := asBool("xor", av)
		if err != nil {
			return nil, err
		}
		return value.Push(rest, value.Bool(b != a)), nil
	}, boolSig2)

	lib.AddFunction("not", func(s value.Stack) (value.Stack, error) {
		xv, rest, err := pop1("not", s)
		if err != nil {
			return nil, err
		}
		x, err := asBool("not", xv)
		if err != nil {
			return nil, err
		}
		return value.Push(rest, value.Bool(!x)), nil
	}, boolSig1)
}
