package builtin

import (
	"strings"

	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/value"
)

// registerStrings wires the string operators.
func registerStrings(lib *library.Library) {
	// str-concat: the result is (below)+(top).
	lib.AddFunction("str-concat", func(s value.Stack) (value.Stack, error) {
		topv, belowv, rest, err := pop2("str-concat", s)
		if err != nil {
			return nil, err
		}
		top, err := asString("str-concat", topv)
		if err != nil {
			return nil, err
		}
		below, err := asString("str-concat", belowv)
		if err != nil {
			return nil, err
		}
		return value.Push(rest, value.String(below+top)), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Of(value.KindString), effect.Of(value.KindString)},
		[]effect.ElemType{effect.Of(value.KindString)},
	))

	// str-contains?: the haystack is on top of stack, the needle below
	// it.
	lib.AddFunction("str-contains?", func(s value.Stack) (value.Stack, error) {
		haystackv, needlev, rest, err := pop2("str-contains?", s)
		if err != nil {
			return nil, err
		}
		haystack, err := asString("str-contains?", haystackv)
		if err != nil {
			return nil, err
		}
		needle, err := asString("str-contains?", needlev)
		if err != nil {
			return nil, err
		}
		return value.Push(rest, value.Bool(strings.Contains(haystack, needle))), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Of(value.KindString), effect.Of(value.KindString)},
		[]effect.ElemType{effect.Of(value.KindBool)},
	))

	// str-split: the source string is on top of stack, the separator
	// below it.
	lib.AddFunction("str-split", func(s value.Stack) (value.Stack, error) {
		srcv, sepv, rest, err := pop2("str-split", s)
		if err != nil {
			return nil, err
		}
		src, err := asString("str-split", srcv)
		if err != nil {
			return nil, err
		}
		sep, err := asString("str-split", sepv)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(src, sep)
		items := make([]value.Value, len(parts))
		for i, p := range parts {
			items[i] = value.String(p)
		}
		return value.Push(rest, value.NewList(items...)), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Of(value.KindString), effect.Of(value.KindString)},
		[]effect.ElemType{effect.Of(value.KindList)},
	))

	lib.AddFunction("str-join", func(s value.Stack) (value.Stack, error) {
		bv, av, rest, err := pop2("str-join", s)
		if err != nil {
			return nil, err
		}
		sep, err := asString("str-join", bv)
		if err != nil {
			return nil, err
		}
		al, err := asList("str-join", av)
		if err != nil {
			return nil, err
		}
		parts := make([]string, 0, len(al.Items()))
		for _, v := range al.Items() {
			sv, err := asString("str-join", v)
			if err != nil {
				return nil, err
			}
			parts = append(parts, sv)
		}
		return value.Push(rest, value.String(strings.Join(parts, sep))), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Of(value.KindString), effect.Of(value.KindList)},
		[]effect.ElemType{effect.Of(value.KindString)},
	))

	lib.AddFunction("str-cast", func(s value.Stack) (value.Stack, error) {
		v, rest, err := pop1("str-cast", s)
		if err != nil {
			return nil, err
		}
		return value.Push(rest, value.String(v.String())), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Any},
		[]effect.ElemType{effect.Of(value.KindString)},
	))
}
