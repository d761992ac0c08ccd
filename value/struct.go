package value

import "strings"

// FieldDecl describes one field of a declared struct type: a label and an
// optional declared element type (empty string means an open/untyped
// slot that matches any value).
type FieldDecl struct {
	Label string
	Type  string
}

// StructType is a user-defined product type: a Symbol name (the type key),
// an arity, and a declaration-order list of fields. Two struct types with
// the same Name must agree in shape (library.Library.AddStructType
// enforces this at load time).
type StructType struct {
	Name   string
	Fields []FieldDecl
}

// Arity is the number of fields the type carries.
func (t *StructType) Arity() int { return len(t.Fields) }

// SameShape reports whether t and other declare the same fields in the
// same order with the same declared types.
func (t *StructType) SameShape(other *StructType) bool {
	if t.Name != other.Name || len(t.Fields) != len(other.Fields) {
		return false
	}
	for i := range t.Fields {
		if t.Fields[i] != other.Fields[i] {
			return false
		}
	}
	return true
}

// New constructs an Instance of t from field values given in declaration
// order. It does not validate arity or element types; the struct
// combinator checks fields against their declared types before it ever
// calls New.
func (t *StructType) New(fields ...Value) *Instance {
	cp := make([]Value, len(fields))
	copy(cp, fields)
	return &Instance{Type: t, Fields: cp}
}

// Instance is an immutable record produced by a StructType. Field order
// matches StructType.Fields.
type Instance struct {
	Type   *StructType
	Fields []Value
}

func (*Instance) Kind() Kind { return KindStruct }

func (s *Instance) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = s.Type.Fields[i].Label + "=" + f.String()
	}
	return s.Type.Name + "{" + strings.Join(parts, " ") + "}"
}

// Field returns the value bound to the named field.
func (s *Instance) Field(label string) (Value, bool) {
	for i, f := range s.Type.Fields {
		if f.Label == label {
			return s.Fields[i], true
		}
	}
	return nil, false
}
