// Package effect implements the stack-effect type system: per-operation
// arity/valency/element-type signatures, derived from native bindings or
// declared in Joy surface syntax, and the pre-step validation the
// interpreter runs against them when validation is enabled.
package effect
