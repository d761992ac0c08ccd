package builtin

import (
	"sort"

	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/value"
)

func asDict(name string, v value.Value) (*value.Dict, error) {
	d, ok := v.(*value.Dict)
	if !ok {
		return nil, typeErr(name, v)
	}
	return d, nil
}

func asSymbol(name string, v value.Value) (value.Symbol, error) {
	sym, ok := v.(value.Symbol)
	if !ok {
		return "", typeErr(name, v)
	}
	return sym, nil
}

// registerDict wires the Dict operators. dict-new is a factory, not a
// function: every reference produces a fresh mutable Dict.
func registerDict(lib *library.Library) {
	lib.AddFactory("dict-new", func() value.Value { return value.NewDict() })

	lib.AddFunction("dict?", pred1(func(v value.Value) bool {
		_, ok := v.(*value.Dict)
		return ok
	}), predSig)

	// dict-store: stack order bottom-to-top is dict, key, value (value
	// on top), matching "dict key val dict-store".
	lib.AddFunction("dict-store", func(s value.Stack) (value.Stack, error) {
		v, k, d, rest, err := pop3("dict-store", s)
		if err != nil {
			return nil, err
		}
		dd, err := asDict("dict-store", d)
		if err != nil {
			return nil, err
		}
		key, err := asSymbol("dict-store", k)
		if err != nil {
			return nil, err
		}
		dd.Set(key, v)
		return value.Push(rest, dd), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Any, effect.Of(value.KindSymbol), effect.Of(value.KindDict)},
		[]effect.ElemType{effect.Of(value.KindDict)},
	))

	// dict-fetch: stack order is dict, key (key on top).
	lib.AddFunction("dict-fetch", func(s value.Stack) (value.Stack, error) {
		kv, dv, rest, err := pop2("dict-fetch", s)
		if err != nil {
			return nil, err
		}
		dd, err := asDict("dict-fetch", dv)
		if err != nil {
			return nil, err
		}
		key, err := asSymbol("dict-fetch", kv)
		if err != nil {
			return nil, err
		}
		v, ok := dd.Get(key)
		if !ok {
			return nil, typeErr("dict-fetch", kv)
		}
		return value.Push(rest, v), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Of(value.KindSymbol), effect.Of(value.KindDict)},
		[]effect.ElemType{effect.Any},
	))

	lib.AddFunction("dict-keys", func(s value.Stack) (value.Stack, error) {
		dv, rest, err := pop1("dict-keys", s)
		if err != nil {
			return nil, err
		}
		dd, err := asDict("dict-keys", dv)
		if err != nil {
			return nil, err
		}
		keys := dd.Keys()
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		items := make([]value.Value, len(keys))
		for i, k := range keys {
			items[i] = k
		}
		return value.Push(rest, value.NewList(items...)), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Of(value.KindDict)},
		[]effect.ElemType{effect.Of(value.KindList)},
	))
}
