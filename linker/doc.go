// Package linker implements the Joy linker: it transforms a flat token
// list for one body into an executable Program by resolving names and
// literals against a library.Library in a fixed priority order, and runs
// the three-pass body-population protocol (register placeholders, link
// bodies, patch forward Execute targets) that makes mutual recursion
// work without any runtime late-binding machinery. Forward references
// are resolved once the whole block has been linked, the same way an
// assembler patches forward labels after scanning the unit.
package linker
