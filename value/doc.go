// Package value implements the Joy data model: the tagged Value union, the
// persistent Stack (and the identical-shaped List value kind), struct types
// and instances, and the Operation record that the interpreter dispatches.
//
// A Value is never mutated in place, with the narrow exception of Dict and
// of the mutable collaborators a Dict may hold; everything else is built,
// shared, and discarded by reference.
package value
