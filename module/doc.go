// Package module implements the module system: resolving a dotted name
// `ns.op` by lazily loading either a native-extension module (a declared
// Go-side registry of operator callables, imported via RegisterNative at
// program-init time, since Go has no dynamic shared-object loading) or a
// Joy-source module (`ns.joy` text, located on JOYFL_PATH and
// parsed/linked like any other library block).
package module
