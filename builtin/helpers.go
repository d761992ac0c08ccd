package builtin

import (
	"math/big"

	"github.com/alexjc/joyfl/joyerr"
	"github.com/alexjc/joyfl/value"
)

func arityErr(name string, need int) error {
	return joyerr.New(joyerr.StackError, "%s: needs %d argument(s)", name, need)
}

func typeErr(name string, got value.Value) error {
	return joyerr.New(joyerr.TypeError, "%s: unexpected argument of kind %s", name, got.Kind())
}

func pop1(name string, s value.Stack) (value.Value, value.Stack, error) {
	v, rest, ok := value.Pop(s)
	if !ok {
		return nil, nil, arityErr(name, 1)
	}
	return v, rest, nil
}

func pop2(name string, s value.Stack) (b, a value.Value, rest value.Stack, err error) {
	b, rest, ok := value.Pop(s)
	if !ok {
		return nil, nil, nil, arityErr(name, 2)
	}
	a, rest, ok = value.Pop(rest)
	if !ok {
		return nil, nil, nil, arityErr(name, 2)
	}
	return b, a, rest, nil
}

func pop3(name string, s value.Stack) (c, b, a value.Value, rest value.Stack, err error) {
	c, rest, ok := value.Pop(s)
	if !ok {
		return nil, nil, nil, nil, arityErr(name, 3)
	}
	b, rest, ok = value.Pop(rest)
	if !ok {
		return nil, nil, nil, nil, arityErr(name, 3)
	}
	a, rest, ok = value.Pop(rest)
	if !ok {
		return nil, nil, nil, nil, arityErr(name, 3)
	}
	return c, b, a, rest, nil
}

func asBool(name string, v value.Value) (bool, error) {
	b, ok := v.(value.Bool)
	if !ok {
		return false, typeErr(name, v)
	}
	return bool(b), nil
}

func asList(name string, v value.Value) (value.List, error) {
	l, ok := v.(value.List)
	if !ok {
		return value.List{}, typeErr(name, v)
	}
	return l, nil
}

func asString(name string, v value.Value) (string, error) {
	switch t := v.(type) {
	case value.String:
		return string(t), nil
	case value.Symbol:
		return string(t), nil
	}
	return "", typeErr(name, v)
}

func asInt(name string, v value.Value) (int, error) {
	i, ok := v.(value.Int)
	if !ok {
		return 0, typeErr(name, v)
	}
	return int(i.V.Int64()), nil
}

func isFloatValue(v value.Value) bool {
	_, ok := v.(value.Float)
	return ok
}

func toRat(v value.Value) (*big.Rat, bool) {
	switch t := v.(type) {
	case value.Int:
		return new(big.Rat).SetInt(t.V), true
	case value.Rational:
		return new(big.Rat).Set(t.V), true
	}
	return nil, false
}

func toFloat(v value.Value) (float64, bool) {
	switch t := v.(type) {
	case value.Int:
		f := new(big.Float).SetInt(t.V)
		r, _ := f.Float64()
		return r, true
	case value.Float:
		return float64(t), true
	case value.Rational:
		r, _ := t.V.Float64()
		return r, true
	}
	return 0, false
}
