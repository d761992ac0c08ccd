// Package builtin implements the core native operator set the linker's
// function and factory lookups ultimately dispatch to: arithmetic,
// comparison, boolean logic, type predicates, list manipulation, stack
// shuffling, string and Dict operators, plus assert!/raise! and the
// error-kind/error-message/error-data accessors.
//
// Symbolic names like `+` are aliases redirecting to the long-form
// operator (`add`); binary operators take their second operand from the
// top of the stack, so "5 3 sub" computes 5 - 3.
package builtin
