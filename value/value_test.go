package value

import (
	"math/big"
	"testing"
)

func TestEqualStructural(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"ints", NewInt(5), NewInt(5), true},
		{"ints differ", NewInt(5), NewInt(6), false},
		{"strings byte-exact", String("abc"), String("abc"), true},
		{"strings differ", String("abc"), String("abd"), false},
		{"bools", Bool(true), Bool(true), true},
		{"lists", NewList(NewInt(1), NewInt(2)), NewList(NewInt(1), NewInt(2)), true},
		{"lists differ length", NewList(NewInt(1)), NewList(NewInt(1), NewInt(2)), false},
		{"different kinds", NewInt(1), String("1"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Equal(c.a, c.b); got != c.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestOperationEqualityIsIdentity(t *testing.T) {
	q1 := &Quotation{Name: "p"}
	q2 := &Quotation{Name: "p"}
	op1 := &Operation{Tag: Execute, Target: q1, Name: "p"}
	op2 := &Operation{Tag: Execute, Target: q1, Name: "p"}
	op3 := &Operation{Tag: Execute, Target: q2, Name: "p"}

	if !op1.Equal(op2) {
		t.Error("operations sharing the same target should be equal")
	}
	if op1.Equal(op3) {
		t.Error("operations over distinct (even identically-shaped) targets must not be equal")
	}
	if !Equal(op1, op2) {
		t.Error("value.Equal should defer to Operation.Equal for *Operation")
	}
}

func TestRationalReducesDisplay(t *testing.T) {
	r := NewRational(big.NewInt(2), big.NewInt(4))
	if r.String() != "1⁄2" {
		t.Errorf("rational should auto-reduce: got %q", r.String())
	}
}
