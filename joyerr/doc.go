// Package joyerr implements the runtime's error taxonomy: typed error
// kinds that the linker, module loader, and interpreter raise, each
// carrying the offending token, operation, stack snapshot, and source
// meta when those are known, and chainable with github.com/pkg/errors so
// underlying causes stay inspectable.
package joyerr
