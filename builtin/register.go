package builtin

import (
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/value"
)

// Register installs every builtin constant, function, and alias into
// lib. The wiring is split one register* call per file, called from this
// single entry point so runtime.New has one thing to call.
func Register(lib *library.Library) {
	registerArith(lib)
	registerCompare(lib)
	registerLogic(lib)
	registerPredicates(lib)
	registerStack(lib)
	registerLists(lib)
	registerDict(lib)
	registerStrings(lib)
	registerErrors(lib)
	registerConstants(lib)
	registerAliases(lib)
}

func registerConstants(lib *library.Library) {
	lib.AddConstant("true", value.Bool(true))
	lib.AddConstant("false", value.Bool(false))
}

// registerAliases wires the fixed symbol-to-name redirects. Aliases are
// resolved at most one level deep (library.Library.resolveAlias), so
// none of these may point at another alias.
func registerAliases(lib *library.Library) {
	lib.AddAlias("+", "add")
	lib.AddAlias("-", "sub")
	lib.AddAlias("*", "mul")
	lib.AddAlias("/", "div")
	lib.AddAlias("%", "rem")
	lib.AddAlias(">", "gt")
	lib.AddAlias(">=", "gte")
	lib.AddAlias("<", "lt")
	lib.AddAlias("<=", "lte")
	lib.AddAlias("=", "equal?")
	lib.AddAlias("!=", "differ?")
	lib.AddAlias("size", "length")
}
