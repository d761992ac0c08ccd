// Package combinator implements the privileged operations that mutate
// the program queue as well as the stack: i, dip, step, exec!, struct,
// unstruct, and the interactive-continuation combinator ",,,". Each
// works by prepending further items onto the very queue the interpreter
// is draining (queue.Queue.Prepend), which is how deferred execution is
// expressed throughout the runtime.
package combinator
