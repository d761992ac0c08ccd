package builtin

import (
	"math"
	"math/big"

	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/joyerr"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/value"
)

// numSig is the common (num, num -- num) shape most arithmetic binary
// operators share.
var numSig = effect.Fixed(
	[]effect.ElemType{effect.Any, effect.Any},
	[]effect.ElemType{effect.Any},
)

// numSig1 is the (num -- num) shape for unary arithmetic operators.
var numSig1 = effect.Fixed(
	[]effect.ElemType{effect.Any},
	[]effect.ElemType{effect.Any},
)

// arith2 builds a binary numeric operator. The ratOp/floatOp closures
// are written as b OP a with b the deeper stack item and a the one on
// top, so "5 3 sub" computes 5 - 3. alwaysRational forces a Rational
// result even when the arithmetic happens to reduce to an integer (used
// by div, since integer division always yields a Rational).
func arith2(name string, ratOp func(b, a *big.Rat) *big.Rat, floatOp func(b, a float64) float64, alwaysRational bool) library.NativeFunc {
	return func(s value.Stack) (value.Stack, error) {
		bv, av, rest, err := pop2(name, s)
		if err != nil {
			return nil, err
		}
		// pop2 hands back bv = top of stack, av = the item below it; the
		// ratOp/floatOp closures take the DEEPER operand first, hence the
		// swapped call below.
		if isFloatValue(bv) || isFloatValue(av) {
			bf, ok1 := toFloat(bv)
			af, ok2 := toFloat(av)
			if !ok1 || !ok2 {
				return nil, typeErr(name, pickNonNumeric(bv, av))
			}
			return value.Push(rest, value.Float(floatOp(af, bf))), nil
		}
		br, ok1 := toRat(bv)
		ar, ok2 := toRat(av)
		if !ok1 || !ok2 {
			return nil, typeErr(name, pickNonNumeric(bv, av))
		}
		res := ratOp(ar, br)
		if !alwaysRational && res.IsInt() {
			return value.Push(rest, value.Int{V: new(big.Int).Set(res.Num())}), nil
		}
		return value.Push(rest, value.Rational{V: res}), nil
	}
}

func pickNonNumeric(b, a value.Value) value.Value {
	if _, ok := toFloat(b); !ok {
		return b
	}
	return a
}

func arith1(name string, ratOp func(x *big.Rat) *big.Rat, floatOp func(x float64) float64) library.NativeFunc {
	return func(s value.Stack) (value.Stack, error) {
		xv, rest, err := pop1(name, s)
		if err != nil {
			return nil, err
		}
		if isFloatValue(xv) {
			xf, ok := toFloat(xv)
			if !ok {
				return nil, typeErr(name, xv)
			}
			return value.Push(rest, value.Float(floatOp(xf))), nil
		}
		xr, ok := toRat(xv)
		if !ok {
			return nil, typeErr(name, xv)
		}
		res := ratOp(xr)
		if res.IsInt() {
			return value.Push(rest, value.Int{V: new(big.Int).Set(res.Num())}), nil
		}
		return value.Push(rest, value.Rational{V: res}), nil
	}
}

func registerArith(lib *library.Library) {
	lib.AddFunction("add", arith2("add", func(b, a *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) },
		func(b, a float64) float64 { return a + b }, false), numSig)
	lib.AddFunction("sub", arith2("sub", func(b, a *big.Rat) *big.Rat { return new(big.Rat).Sub(b, a) },
		func(b, a float64) float64 { return b - a }, false), numSig)
	lib.AddFunction("mul", arith2("mul", func(b, a *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) },
		func(b, a float64) float64 { return a * b }, false), numSig)
	lib.AddFunction("div", divFunc(), numSig)
	lib.AddFunction("//", floorDivFunc(), numSig)
	lib.AddFunction("rem", remFunc(), numSig)
	lib.AddFunction("min", arith2("min", ratMin, math.Min, false), numSig)
	lib.AddFunction("max", arith2("max", ratMax, math.Max, false), numSig)

	lib.AddFunction("neg", arith1("neg", func(x *big.Rat) *big.Rat { return new(big.Rat).Neg(x) }, func(x float64) float64 { return -x }), numSig1)
	lib.AddFunction("abs", arith1("abs", func(x *big.Rat) *big.Rat { return new(big.Rat).Abs(x) }, math.Abs), numSig1)
	lib.AddFunction("sign", signFunc(), numSig1)
}

func ratMin(b, a *big.Rat) *big.Rat {
	if b.Cmp(a) < 0 {
		return b
	}
	return a
}

func ratMax(b, a *big.Rat) *big.Rat {
	if b.Cmp(a) > 0 {
		return b
	}
	return a
}

// divFunc implements `div`: always a Rational for Int/Rational operands,
// a Float when either operand is Float.
func divFunc() library.NativeFunc {
	return func(s value.Stack) (value.Stack, error) {
		bv, av, rest, err := pop2("div", s)
		if err != nil {
			return nil, err
		}
		if isFloatValue(bv) || isFloatValue(av) {
			bf, ok1 := toFloat(bv)
			af, ok2 := toFloat(av)
			if !ok1 || !ok2 {
				return nil, typeErr("div", pickNonNumeric(bv, av))
			}
			if bf == 0 {
				return nil, joyerr.New(joyerr.StackError, "div: division by zero")
			}
			return value.Push(rest, value.Float(af/bf)), nil
		}
		br, ok1 := toRat(bv)
		ar, ok2 := toRat(av)
		if !ok1 || !ok2 {
			return nil, typeErr("div", pickNonNumeric(bv, av))
		}
		if br.Sign() == 0 {
			return nil, joyerr.New(joyerr.StackError, "div: division by zero")
		}
		return value.Push(rest, value.Rational{V: new(big.Rat).Quo(ar, br)}), nil
	}
}

// floorDivFunc implements `//`, the flooring form of division.
func floorDivFunc() library.NativeFunc {
	return func(s value.Stack) (value.Stack, error) {
		bv, av, rest, err := pop2("//", s)
		if err != nil {
			return nil, err
		}
		br, ok1 := toRat(bv)
		ar, ok2 := toRat(av)
		if !ok1 || !ok2 {
			return nil, typeErr("//", pickNonNumeric(bv, av))
		}
		if br.Sign() == 0 {
			return nil, joyerr.New(joyerr.StackError, "//: division by zero")
		}
		q := new(big.Rat).Quo(ar, br)
		num, den := q.Num(), q.Denom()
		fd := new(big.Int).Div(num, den)
		return value.Push(rest, value.Int{V: fd}), nil
	}
}

func remFunc() library.NativeFunc {
	return func(s value.Stack) (value.Stack, error) {
		bv, av, rest, err := pop2("rem", s)
		if err != nil {
			return nil, err
		}
		if isFloatValue(bv) || isFloatValue(av) {
			bf, _ := toFloat(bv)
			af, _ := toFloat(av)
			if bf == 0 {
				return nil, joyerr.New(joyerr.StackError, "rem: division by zero")
			}
			return value.Push(rest, value.Float(math.Mod(af, bf))), nil
		}
		bi, ok1 := bv.(value.Int)
		ai, ok2 := av.(value.Int)
		if !ok1 || !ok2 {
			return nil, typeErr("rem", pickNonNumeric(bv, av))
		}
		if bi.V.Sign() == 0 {
			return nil, joyerr.New(joyerr.StackError, "rem: division by zero")
		}
		return value.Push(rest, value.Int{V: new(big.Int).Mod(ai.V, bi.V)}), nil
	}
}

func signFunc() library.NativeFunc {
	return func(s value.Stack) (value.Stack, error) {
		xv, rest, err := pop1("sign", s)
		if err != nil {
			return nil, err
		}
		if isFloatValue(xv) {
			f, _ := toFloat(xv)
			switch {
			case f > 0:
				return value.Push(rest, value.NewInt(1)), nil
			case f < 0:
				return value.Push(rest, value.NewInt(-1)), nil
			default:
				return value.Push(rest, value.NewInt(0)), nil
			}
		}
		r, ok := toRat(xv)
		if !ok {
			return nil, typeErr("sign", xv)
		}
		return value.Push(rest, value.NewInt(int64(r.Sign()))), nil
	}
}
