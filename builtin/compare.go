package builtin

import (
	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/value"
)

var cmpSig = effect.Fixed(
	[]effect.ElemType{effect.Any, effect.Any},
	[]effect.ElemType{effect.Of(value.KindBool)},
)

// cmp2 builds a binary numeric comparator. pop2 hands back bv = top of
// stack and av = the item below it; the deeper item is compared against
// the top one, so "5 3 gt" computes 5 > 3. cmp receives the sign of
// (deeper - top).
func cmp2(name string, cmp func(c int) bool) library.NativeFunc {
	return func(s value.Stack) (value.Stack, error) {
		bv, av, rest, err := pop2(name, s)
		if err != nil {
			return nil, err
		}
		if isFloatValue(bv) || isFloatValue(av) {
			bf, ok1 := toFloat(bv)
			af, ok2 := toFloat(av)
			if !ok1 || !ok2 {
				return nil, typeErr(name, pickNonNumeric(bv, av))
			}
			c := 0
			switch {
			case af < bf:
				c = -1
			case af > bf:
				c = 1
			}
			return value.Push(rest, value.Bool(cmp(c))), nil
		}
		br, ok1 := toRat(bv)
		ar, ok2 := toRat(av)
		if !ok1 || !ok2 {
			return nil, typeErr(name, pickNonNumeric(bv, av))
		}
		return value.Push(rest, value.Bool(cmp(ar.Cmp(br)))), nil
	}
}

func registerCompare(lib *library.Library) {
	lib.AddFunction("gt", cmp2("gt", func(c int) bool { return c > 0 }), cmpSig)
	lib.AddFunction("gte", cmp2("gte", func(c int) bool { return c >= 0 }), cmpSig)
	lib.AddFunction("lt", cmp2("lt", func(c int) bool { return c < 0 }), cmpSig)
	lib.AddFunction("lte", cmp2("lte", func(c int) bool { return c <= 0 }), cmpSig)

	lib.AddFunction("equal?", func(s value.Stack) (value.Stack, error) {
		b, a, rest, err := pop2("equal?", s)
		if err != nil {
			return nil, err
		}
		return value.Push(rest, value.Bool(value.Equal(b, a))), nil
	}, cmpSig)
	lib.AddFunction("differ?", func(s value.Stack) (value.Stack, error) {
		b, a, rest, err := pop2("differ?", s)
		if err != nil {
			return nil, err
		}
		return value.Push(rest, value.Bool(!value.Equal(b, a))), nil
	}, cmpSig)
}
