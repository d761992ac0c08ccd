// Package interp implements the cooperative, single-threaded interpreter
// loop: drain a program queue against a stack, dispatching each
// Operation by its Tag, with an opt-in pre-step validation pass and
// panic-to-joyerr.Error recovery so a misbehaving native function or
// host-level fault never escapes as a raw Go panic.
//
// The step function is recover()-wrapped and annotates any captured
// panic with the dispatching value.Operation and a snapshot of the stack
// before re-raising it as the runtime's own error type.
package interp
