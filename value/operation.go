package value

// Meta carries source attribution for a token, body, or quotation: the
// originating filename and the line/column span it was parsed from.
type Meta struct {
	Filename   string
	StartLine  int
	EndLine    int
	StartCol   int
	EndCol     int
}

// Span returns a meta covering both m and other.
func (m Meta) Span(other Meta) Meta {
	out := m
	if other.EndLine > out.EndLine || (other.EndLine == out.EndLine && other.EndCol > out.EndCol) {
		out.EndLine = other.EndLine
		out.EndCol = other.EndCol
	}
	return out
}

// OpTag discriminates the three kinds of runnable Operation.
type OpTag int

const (
	// Function wraps a native callable with a declared stack effect.
	Function OpTag = iota
	// Combinator mutates the program queue as well as the stack.
	Combinator
	// Execute calls a named, already-linked quotation's program.
	Execute
)

func (t OpTag) String() string {
	switch t {
	case Function:
		return "function"
	case Combinator:
		return "combinator"
	case Execute:
		return "execute"
	default:
		return "unknown"
	}
}

// Item is one element of a linked Program: either a literal Value (pushed
// verbatim) or an *Operation (dispatched by the interpreter).
type Item interface{}

// Program is a linked, ordered sequence of Items produced by the linker.
type Program []Item

// Operation is a tagged reference to a runnable thing. Target's concrete
// type depends on Tag:
//
//	Function    -> a library-package native-function binding
//	Combinator  -> a library.CombinatorFunc
//	Execute     -> *Quotation (possibly still being linked: Program is nil)
//
// Operation deliberately stores Target as interface{} so that this
// low-level package never has to import the library/combinator packages
// that define those concrete types. Only the packages that dispatch on
// Tag need to know the concrete shape.
type Operation struct {
	Tag    OpTag
	Target interface{}
	Name   string
	Meta   Meta
}

// Equal compares by Tag and Target identity. This is also how
// first-class quotation values compare: identity, never deep structural
// equality.
func (o *Operation) Equal(other *Operation) bool {
	if o == nil || other == nil {
		return o == other
	}
	return o.Tag == other.Tag && o.Target == other.Target
}

func (*Operation) Kind() Kind { return KindOperation }

func (o *Operation) String() string {
	if o == nil {
		return "<nil-op>"
	}
	return o.Name
}

// Visibility controls whether a Quotation name is callable from outside
// its declaring module.
type Visibility int

const (
	// Public quotations are callable as ns.name from anywhere.
	Public Visibility = iota
	// Private quotations are exported to the global library under their
	// ns.name but are not resolvable by the linker outside the module's
	// own link pass.
	Private
	// Local quotations exist only during one module's own link pass (the
	// overlay's write layer) and are never exported to the global table.
	Local
)

// Quotation is a library-registered named program: a linked (or, during
// linking, temporarily unlinked) Program, its source Meta, an optional
// stack-effect signature in surface-type-name form, its Visibility, and
// the module that declared it (empty for the global scope).
type Quotation struct {
	Name       string
	Program    Program // nil while still being linked (forward reference)
	Meta       Meta
	Signature  *DeclaredSignature
	Visibility Visibility
	Module     string
}

// DeclaredSignature is a surface-syntax stack-effect annotation attached to
// a Joy definition, in terms of surface type names (resolved against
// struct types by the linker/effect packages).
type DeclaredSignature struct {
	Inputs  []string
	Outputs []string
}
