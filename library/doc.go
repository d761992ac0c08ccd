// Package library implements the Joy library registry: the disjoint
// function/combinator/constant/factory/alias/quotation/struct-type
// tables the linker and interpreter operate over, plus the write-on-top
// overlay view used to scope a module's own private/local definitions
// during linking.
//
// Package library never imports the module-loading packages that know how
// to actually fetch a native extension or a .joy source file. Lazy
// loading is wired in by the runtime package at construction time via
// SetNativeLoader/SetJoyLoader, so this package has no import cycle on
// module resolution.
package library
