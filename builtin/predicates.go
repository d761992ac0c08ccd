package builtin

import (
	"math/big"

	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/value"
)

var bigTwo = big.NewInt(2)

var predSig = effect.Fixed(
	[]effect.ElemType{effect.Any},
	[]effect.ElemType{effect.Of(value.KindBool)},
)

// pred1 builds a type predicate that consumes the probed value and
// leaves only its bool result. Predicates are ordinary single-output
// functions, not peeks.
func pred1(test func(value.Value) bool) library.NativeFunc {
	return func(s value.Stack) (value.Stack, error) {
		v, rest, err := pop1("predicate", s)
		if err != nil {
			return nil, err
		}
		return value.Push(rest, value.Bool(test(v))), nil
	}
}

func registerPredicates(lib *library.Library) {
	// null?: empty for lists and strings, zero for ints, false for
	// bools.
	lib.AddFunction("null?", pred1(func(v value.Value) bool {
		switch t := v.(type) {
		case value.List:
			return t.Empty()
		case value.String:
			return t == ""
		case value.Int:
			return t.IsZero()
		case value.Bool:
			return !bool(t)
		default:
			return false
		}
	}), predSig)

	// small?: length below 2 for lists and strings, value below 2 for
	// ints.
	lib.AddFunction("small?", pred1(func(v value.Value) bool {
		switch t := v.(type) {
		case value.List:
			return value.Depth(t.Head) < 2
		case value.String:
			return len(t) < 2
		case value.Int:
			return t.V.Cmp(bigTwo) < 0
		case value.Bool:
			return true
		default:
			return false
		}
	}), predSig)

	lib.AddFunction("integer?", pred1(func(v value.Value) bool {
		_, ok := v.(value.Int)
		return ok
	}), predSig)

	lib.AddFunction("float?", pred1(func(v value.Value) bool {
		_, ok := v.(value.Float)
		return ok
	}), predSig)

	lib.AddFunction("rational?", pred1(func(v value.Value) bool {
		_, ok := v.(value.Rational)
		return ok
	}), predSig)

	lib.AddFunction("boolean?", pred1(func(v value.Value) bool {
		_, ok := v.(value.Bool)
		return ok
	}), predSig)

	lib.AddFunction("string?", pred1(func(v value.Value) bool {
		_, ok := v.(value.String)
		return ok
	}), predSig)

	lib.AddFunction("list?", pred1(func(v value.Value) bool {
		_, ok := v.(value.List)
		return ok
	}), predSig)

	lib.AddFunction("symbol?", pred1(func(v value.Value) bool {
		_, ok := v.(value.Symbol)
		return ok
	}), predSig)

	// sametype?: order-symmetric, so the pop order doesn't affect the
	// result.
	lib.AddFunction("sametype?", func(s value.Stack) (value.Stack, error) {
		bv, av, rest, err := pop2("sametype?", s)
		if err != nil {
			return nil, err
		}
		return value.Push(rest, value.Bool(bv.Kind() == av.Kind())), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Any, effect.Any},
		[]effect.ElemType{effect.Of(value.KindBool)},
	))
}
