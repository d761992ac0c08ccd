// Package runtime assembles the other packages into the single public
// embedding façade: one object owning a seeded Library and the default
// module loaders, with load/run/apply entry points a host embeds. New
// takes functional options returning errors, applied after the library's
// builtins, combinators, and loaders are wired up so an option can still
// override any of them.
package runtime
