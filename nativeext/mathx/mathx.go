package mathx

import (
	"math"
	"math/big"

	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/joyerr"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/module"
	"github.com/alexjc/joyfl/value"
)

func init() {
	module.RegisterNative("mathx", module.Registry{
		"op_sqrt":  {Fn: opSqrt, Signature: unarySig},
		"op_pow":   {Fn: opPow, Signature: binarySig},
		"op_hypot": {Fn: opHypot, Signature: binarySig},
	}, install)
}

var unarySig = effect.Fixed(
	[]effect.ElemType{effect.Any},
	[]effect.ElemType{effect.Of(value.KindFloat)},
)

var binarySig = effect.Fixed(
	[]effect.ElemType{effect.Any, effect.Any},
	[]effect.ElemType{effect.Of(value.KindFloat)},
)

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

func opSqrt(s value.Stack) (value.Stack, error) {
	v, rest, ok := value.Pop(s)
	if !ok {
		return nil, joyerr.New(joyerr.StackError, "mathx.sqrt: needs 1 argument")
	}
	f, ok := toFloat(v)
	if !ok {
		return nil, joyerr.New(joyerr.TypeError, "mathx.sqrt: unexpected argument of kind %s", v.Kind())
	}
	if f < 0 {
		return nil, joyerr.New(joyerr.StackError, "mathx.sqrt: negative argument")
	}
	return value.Push(rest, value.Float(math.Sqrt(f))), nil
}

// opPow computes base ** exponent, with the exponent on top of the stack
// and the base below it.
func opPow(s value.Stack) (value.Stack, error) {
	bv, rest1, ok := value.Pop(s)
	if !ok {
		return nil, joyerr.New(joyerr.StackError, "mathx.pow: needs 2 arguments")
	}
	av, rest2, ok := value.Pop(rest1)
	if !ok {
		return nil, joyerr.New(joyerr.StackError, "mathx.pow: needs 2 arguments")
	}
	bf, ok1 := toFloat(bv)
	af, ok2 := toFloat(av)
	if !ok1 || !ok2 {
		return nil, joyerr.New(joyerr.TypeError, "mathx.pow: expected numeric arguments")
	}
	return value.Push(rest2, value.Float(math.Pow(af, bf))), nil
}

func opHypot(s value.Stack) (value.Stack, error) {
	bv, rest1, ok := value.Pop(s)
	if !ok {
		return nil, joyerr.New(joyerr.StackError, "mathx.hypot: needs 2 arguments")
	}
	av, rest2, ok := value.Pop(rest1)
	if !ok {
		return nil, joyerr.New(joyerr.StackError, "mathx.hypot: needs 2 arguments")
	}
	bf, ok1 := toFloat(bv)
	af, ok2 := toFloat(av)
	if !ok1 || !ok2 {
		return nil, joyerr.New(joyerr.TypeError, "mathx.hypot: expected numeric arguments")
	}
	return value.Push(rest2, value.Float(math.Hypot(af, bf))), nil
}

// install registers mathx.pi as a factory: a fresh Float produced each
// time it is referenced.
func install(lib *library.Library, ns string) error {
	lib.AddFactory(ns+".pi", func() value.Value { return value.Float(math.Pi) })
	return nil
}
