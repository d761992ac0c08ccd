package effect

import (
	"github.com/pkg/errors"

	"github.com/alexjc/joyfl/value"
)

// Arity sentinels.
const (
	// ArityWholeStack means the operation receives the entire stack
	// (stack-passing form, e.g. `unstack`).
	ArityWholeStack = -1
	// ArityVariadic means the operation receives the stack as a
	// variadic expansion; depth is not checked in advance.
	ArityVariadic = -2
)

// Valency sentinel.
const (
	// ValencyReplace means the function replaces the entire stack with
	// its return value.
	ValencyReplace = -1
)

// ElemType describes one element-type slot of a signature. A slot with
// Open set matches any value; a slot with a non-empty Var name is a
// parameterized type variable that must match the same Kind consistently
// within one validation pass.
type ElemType struct {
	Kind value.Kind
	Open bool
	Var  string
}

// Any is the open-type placeholder: matches any value, no questions asked.
var Any = ElemType{Open: true}

// Of returns a concrete, non-variable element type for k.
func Of(k value.Kind) ElemType { return ElemType{Kind: k} }

// Var returns a type-variable slot named name.
func Var(name string) ElemType { return ElemType{Var: name} }

// Signature is the recorded input/output shape of one operation. Inputs
// and Outputs are in top-down order (index 0 is the top of stack) and
// have length equal to Arity/Valency when those are non-negative fixed
// counts.
type Signature struct {
	Arity   int
	Valency int
	Inputs  []ElemType
	Outputs []ElemType
}

// Fixed builds a Signature for the common case: a fixed number of inputs
// and outputs, in top-down order.
func Fixed(inputs, outputs []ElemType) Signature {
	return Signature{Arity: len(inputs), Valency: len(outputs), Inputs: inputs, Outputs: outputs}
}

// Validate checks that s has enough depth for sig and that each consumed
// argument's Kind matches sig.Inputs. It never looks past the declared
// arity and does nothing for the whole-stack/variadic sentinels, which
// opt out of arity/type checking by definition.
func Validate(sig Signature, s value.Stack) error {
	if sig.Arity == ArityWholeStack || sig.Arity == ArityVariadic {
		return nil
	}
	if value.Depth(s) < sig.Arity {
		return errors.Errorf("stack depth %d below required arity %d", value.Depth(s), sig.Arity)
	}
	bound := map[string]value.Kind{}
	cur := s
	for i := 0; i < sig.Arity; i++ {
		et := sig.Inputs[i]
		v := cur.Head
		if !et.Open {
			if et.Var != "" {
				if bk, ok := bound[et.Var]; ok {
					if bk != v.Kind() {
						return errors.Errorf("argument %d: type variable %q bound to %s, got %s", i, et.Var, bk, v.Kind())
					}
				} else {
					bound[et.Var] = v.Kind()
				}
			} else if et.Kind != v.Kind() {
				return errors.Errorf("argument %d: expected %s, got %s", i, et.Kind, v.Kind())
			}
		}
		cur = cur.Tail
	}
	return nil
}
