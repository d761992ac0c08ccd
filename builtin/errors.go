package builtin

import (
	"fmt"

	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/joyerr"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/value"
)

// registerErrors wires assert!, raise!, put!, and the error-kind/
// error-message/error-data accessors.
func registerErrors(lib *library.Library) {
	lib.AddFunction("assert!", func(s value.Stack) (value.Stack, error) {
		v, rest, err := pop1("assert!", s)
		if err != nil {
			return nil, err
		}
		ok, err := asBool("assert!", v)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, joyerr.New(joyerr.AssertionError, "assertion failed")
		}
		return rest, nil
	}, effect.Fixed([]effect.ElemType{effect.Of(value.KindBool)}, nil))

	lib.AddFunction("raise!", func(s value.Stack) (value.Stack, error) {
		v, _, err := pop1("raise!", s)
		if err != nil {
			return nil, err
		}
		if ev, ok := v.(*value.ErrorValue); ok {
			return nil, joyerr.New(joyerr.Kind(ev.KindName), "%s", ev.Message).WithToken(ev.Token).WithOp(ev.Op).WithMeta(ev.Meta)
		}
		return nil, joyerr.New(joyerr.RuntimeError, "raised: %s", v.String())
	}, effect.Fixed([]effect.ElemType{effect.Any}, nil))

	lib.AddFunction("put!", func(s value.Stack) (value.Stack, error) {
		v, rest, err := pop1("put!", s)
		if err != nil {
			return nil, err
		}
		text := v.String()
		if str, ok := v.(value.String); ok {
			text = string(str)
		}
		fmt.Println(text)
		return rest, nil
	}, effect.Fixed([]effect.ElemType{effect.Any}, nil))

	lib.AddFunction("error-kind", func(s value.Stack) (value.Stack, error) {
		v, rest, err := pop1("error-kind", s)
		if err != nil {
			return nil, err
		}
		ev, ok := v.(*value.ErrorValue)
		if !ok {
			return nil, typeErr("error-kind", v)
		}
		return value.Push(rest, value.Symbol(ev.KindName)), nil
	}, effect.Fixed([]effect.ElemType{effect.Of(value.KindError)}, []effect.ElemType{effect.Of(value.KindSymbol)}))

	lib.AddFunction("error-message", func(s value.Stack) (value.Stack, error) {
		v, rest, err := pop1("error-message", s)
		if err != nil {
			return nil, err
		}
		ev, ok := v.(*value.ErrorValue)
		if !ok {
			return nil, typeErr("error-message", v)
		}
		return value.Push(rest, value.String(ev.Message)), nil
	}, effect.Fixed([]effect.ElemType{effect.Of(value.KindError)}, []effect.ElemType{effect.Of(value.KindString)}))

	lib.AddFunction("error-data", func(s value.Stack) (value.Stack, error) {
		v, rest, err := pop1("error-data", s)
		if err != nil {
			return nil, err
		}
		ev, ok := v.(*value.ErrorValue)
		if !ok {
			return nil, typeErr("error-data", v)
		}
		return value.Push(rest, ev.Data()), nil
	}, effect.Fixed([]effect.ElemType{effect.Of(value.KindError)}, []effect.ElemType{effect.Of(value.KindDict)}))
}
