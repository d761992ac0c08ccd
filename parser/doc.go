// Package parser is a concrete, minimal implementation of the external
// parser contract declared by package token. The execution core treats
// the surface grammar as a pluggable collaborator; this package exists
// so the runtime can be driven end-to-end from literal Joy source in
// tests and in the façade, producing the term/library Entry stream the
// linker consumes.
//
// The scanner is hand-rolled rune-at-a-time (the token alphabet, with
// bracket-delimited quotations, 'symbol and fraction-slash rational
// literals, doesn't fit text/scanner's ident-rune model) and aggregates
// lexical errors with positions rather than stopping at the first.
package parser
