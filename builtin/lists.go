package builtin

import (
	"math/big"

	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/joyerr"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/value"
)

// consSig covers both cons and append: (item list -- list), with the list
// on top of stack (index 0 in top-down signature order).
var consSig = effect.Fixed(
	[]effect.ElemType{effect.Of(value.KindList), effect.Any},
	[]effect.ElemType{effect.Of(value.KindList)},
)

var unconsSig = effect.Fixed(
	[]effect.ElemType{effect.Of(value.KindList)},
	[]effect.ElemType{effect.Any, effect.Of(value.KindList)},
)

var list1Sig = effect.Fixed(
	[]effect.ElemType{effect.Of(value.KindList)},
	[]effect.ElemType{effect.Any},
)

var listListSig = effect.Fixed(
	[]effect.ElemType{effect.Of(value.KindList)},
	[]effect.ElemType{effect.Of(value.KindList)},
)

// registerLists wires the list operators. cons and append raise a
// TypeError when their second argument is not a list; there is no
// coercion to a singleton list.
func registerLists(lib *library.Library) {
	// cons: the list is the item on top of stack; the prepended item
	// sits below it.
	lib.AddFunction("cons", func(s value.Stack) (value.Stack, error) {
		topv, itemv, rest, err := pop2("cons", s)
		if err != nil {
			return nil, err
		}
		al, err := asList("cons", topv)
		if err != nil {
			return nil, err
		}
		return value.Push(rest, al.Cons(itemv)), nil
	}, consSig)

	lib.AddFunction("uncons", func(s value.Stack) (value.Stack, error) {
		bv, rest, err := pop1("uncons", s)
		if err != nil {
			return nil, err
		}
		bl, err := asList("uncons", bv)
		if err != nil {
			return nil, err
		}
		head, tail, ok := bl.Uncons()
		if !ok {
			return nil, joyerr.New(joyerr.StackError, "uncons: empty list")
		}
		return value.Push(value.Push(rest, tail), head), nil
	}, unconsSig)

	// append: like cons, the list is on top of stack; the appended item
	// sits below it, and lands at the end.
	lib.AddFunction("append", func(s value.Stack) (value.Stack, error) {
		topv, itemv, rest, err := pop2("append", s)
		if err != nil {
			return nil, err
		}
		al, err := asList("append", topv)
		if err != nil {
			return nil, err
		}
		items := append(append([]value.Value{}, al.Items()...), itemv)
		return value.Push(rest, value.NewList(items...)), nil
	}, consSig)

	lib.AddFunction("concat", func(s value.Stack) (value.Stack, error) {
		bv, av, rest, err := pop2("concat", s)
		if err != nil {
			return nil, err
		}
		bl, err := asList("concat", bv)
		if err != nil {
			return nil, err
		}
		al, err := asList("concat", av)
		if err != nil {
			return nil, err
		}
		items := append(append([]value.Value{}, al.Items()...), bl.Items()...)
		return value.Push(rest, value.NewList(items...)), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Of(value.KindList), effect.Of(value.KindList)},
		[]effect.ElemType{effect.Of(value.KindList)},
	))

	lib.AddFunction("reverse", func(s value.Stack) (value.Stack, error) {
		bv, rest, err := pop1("reverse", s)
		if err != nil {
			return nil, err
		}
		bl, err := asList("reverse", bv)
		if err != nil {
			return nil, err
		}
		items := bl.Items()
		out := make([]value.Value, len(items))
		for i, v := range items {
			out[len(items)-1-i] = v
		}
		return value.Push(rest, value.NewList(out...)), nil
	}, listListSig)

	lib.AddFunction("first", func(s value.Stack) (value.Stack, error) {
		bv, rest, err := pop1("first", s)
		if err != nil {
			return nil, err
		}
		bl, err := asList("first", bv)
		if err != nil {
			return nil, err
		}
		head, _, ok := bl.Uncons()
		if !ok {
			return nil, joyerr.New(joyerr.StackError, "first: empty list")
		}
		return value.Push(rest, head), nil
	}, list1Sig)

	lib.AddFunction("rest", func(s value.Stack) (value.Stack, error) {
		bv, rest, err := pop1("rest", s)
		if err != nil {
			return nil, err
		}
		bl, err := asList("rest", bv)
		if err != nil {
			return nil, err
		}
		_, tail, ok := bl.Uncons()
		if !ok {
			return nil, joyerr.New(joyerr.StackError, "rest: empty list")
		}
		return value.Push(rest, tail), nil
	}, listListSig)

	lib.AddFunction("last", func(s value.Stack) (value.Stack, error) {
		bv, rest, err := pop1("last", s)
		if err != nil {
			return nil, err
		}
		bl, err := asList("last", bv)
		if err != nil {
			return nil, err
		}
		items := bl.Items()
		if len(items) == 0 {
			return nil, joyerr.New(joyerr.StackError, "last: empty list")
		}
		return value.Push(rest, items[len(items)-1]), nil
	}, list1Sig)

	lib.AddFunction("length", func(s value.Stack) (value.Stack, error) {
		bv, rest, err := pop1("length", s)
		if err != nil {
			return nil, err
		}
		bl, err := asList("length", bv)
		if err != nil {
			return nil, err
		}
		return value.Push(rest, value.NewInt(int64(len(bl.Items())))), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Of(value.KindList)},
		[]effect.ElemType{effect.Of(value.KindInt)},
	))

	lib.AddFunction("take", func(s value.Stack) (value.Stack, error) {
		nv, lv, rest, err := pop2("take", s)
		if err != nil {
			return nil, err
		}
		n, err := asInt("take", nv)
		if err != nil {
			return nil, err
		}
		bl, err := asList("take", lv)
		if err != nil {
			return nil, err
		}
		items := bl.Items()
		if n < 0 || n > len(items) {
			return nil, joyerr.New(joyerr.StackError, "take: count out of range")
		}
		return value.Push(rest, value.NewList(items[:n]...)), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Of(value.KindInt), effect.Of(value.KindList)},
		[]effect.ElemType{effect.Of(value.KindList)},
	))

	lib.AddFunction("drop", func(s value.Stack) (value.Stack, error) {
		nv, lv, rest, err := pop2("drop", s)
		if err != nil {
			return nil, err
		}
		n, err := asInt("drop", nv)
		if err != nil {
			return nil, err
		}
		bl, err := asList("drop", lv)
		if err != nil {
			return nil, err
		}
		items := bl.Items()
		if n < 0 || n > len(items) {
			return nil, joyerr.New(joyerr.StackError, "drop: count out of range")
		}
		return value.Push(rest, value.NewList(items[n:]...)), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Of(value.KindInt), effect.Of(value.KindList)},
		[]effect.ElemType{effect.Of(value.KindList)},
	))

	// index: the list is on top of stack; the index sits below it
	// (unlike take/drop, where the roles of list and int are swapped).
	lib.AddFunction("index", func(s value.Stack) (value.Stack, error) {
		lv, nv, rest, err := pop2("index", s)
		if err != nil {
			return nil, err
		}
		bl, err := asList("index", lv)
		if err != nil {
			return nil, err
		}
		n, err := asInt("index", nv)
		if err != nil {
			return nil, err
		}
		items := bl.Items()
		if n < 0 || n >= len(items) {
			return nil, joyerr.New(joyerr.StackError, "index: out of range")
		}
		return value.Push(rest, items[n]), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Of(value.KindList), effect.Of(value.KindInt)},
		[]effect.ElemType{effect.Any},
	))

	// member?: the container is on top of stack; the probed item sits
	// below it.
	lib.AddFunction("member?", func(s value.Stack) (value.Stack, error) {
		topv, itemv, rest, err := pop2("member?", s)
		if err != nil {
			return nil, err
		}
		al, err := asList("member?", topv)
		if err != nil {
			return nil, err
		}
		found := false
		for _, v := range al.Items() {
			if value.Equal(v, itemv) {
				found = true
				break
			}
		}
		return value.Push(rest, value.Bool(found)), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Of(value.KindList), effect.Any},
		[]effect.ElemType{effect.Of(value.KindBool)},
	))

	// remove: the item to remove is on top of stack; the list sits below
	// it. Every equal element is filtered out.
	lib.AddFunction("remove", func(s value.Stack) (value.Stack, error) {
		itemv, lv, rest, err := pop2("remove", s)
		if err != nil {
			return nil, err
		}
		bl, err := asList("remove", lv)
		if err != nil {
			return nil, err
		}
		items := bl.Items()
		out := make([]value.Value, 0, len(items))
		for _, v := range items {
			if !value.Equal(v, itemv) {
				out = append(out, v)
			}
		}
		return value.Push(rest, value.NewList(out...)), nil
	}, effect.Fixed(
		[]effect.ElemType{effect.Any, effect.Of(value.KindList)},
		[]effect.ElemType{effect.Of(value.KindList)},
	))

	lib.AddFunction("sum", numericReduce("sum", ratZero, func(acc, x *big.Rat) *big.Rat { return new(big.Rat).Add(acc, x) }), list1Sig)
	lib.AddFunction("product", numericReduce("product", ratOne, func(acc, x *big.Rat) *big.Rat { return new(big.Rat).Mul(acc, x) }), list1Sig)
}

var ratZero = big.NewRat(0, 1)
var ratOne = big.NewRat(1, 1)

// numericReduce folds a list of numeric values left-to-right.
func numericReduce(name string, seed *big.Rat, step func(acc, x *big.Rat) *big.Rat) library.NativeFunc {
	return func(s value.Stack) (value.Stack, error) {
		lv, rest, err := pop1(name, s)
		if err != nil {
			return nil, err
		}
		l, err := asList(name, lv)
		if err != nil {
			return nil, err
		}
		acc := new(big.Rat).Set(seed)
		for _, v := range l.Items() {
			r, ok := toRat(v)
			if !ok {
				return nil, typeErr(name, v)
			}
			acc = step(acc, r)
		}
		if acc.IsInt() {
			return value.Push(rest, value.Int{V: new(big.Int).Set(acc.Num())}), nil
		}
		return value.Push(rest, value.Rational{V: acc}), nil
	}
}
