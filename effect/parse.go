package effect

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/alexjc/joyfl/value"
)

var builtinTypeNames = map[string]value.Kind{
	"int":       value.KindInt,
	"float":     value.KindFloat,
	"rational":  value.KindRational,
	"bool":      value.KindBool,
	"string":    value.KindString,
	"symbol":    value.KindSymbol,
	"list":      value.KindList,
	"dict":      value.KindDict,
	"struct":    value.KindStruct,
	"operation": value.KindOperation,
	"error":     value.KindError,
}

// KindForName resolves a surface builtin type name (as used in a field
// declaration's `label:Type`) to a value.Kind. Struct field type
// checking (combinator.Struct) uses this rather than the unexported
// parseElem/StructLookup machinery, since a field's declared type is
// always a builtin name, never another struct type.
func KindForName(name string) (value.Kind, bool) {
	k, ok := builtinTypeNames[name]
	return k, ok
}

// StructLookup resolves a surface type name to a declared struct type.
type StructLookup func(name string) (*value.StructType, bool)

// parseElem classifies one surface stack-effect token into an ElemType.
// A token is a lowercase label, a label:Type pair, a bare TypeName, a
// single-slot bracket [slot], or a brace group {slot ...}; the bracket
// and brace forms each count as exactly one list-typed slot.
func parseElem(tok string, lookup StructLookup) (ElemType, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return Any, nil
	}
	if strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") {
		return Of(value.KindList), nil
	}
	if strings.HasPrefix(tok, "{") && strings.HasSuffix(tok, "}") {
		return Of(value.KindList), nil
	}
	if idx := strings.IndexByte(tok, ':'); idx >= 0 {
		typeName := tok[idx+1:]
		return resolveTypeName(typeName, lookup)
	}
	// A bare token: either a known builtin type name, a declared struct
	// type, or (when it starts with a lowercase letter and resolves to
	// neither) an open type-variable named by the token itself.
	if k, ok := builtinTypeNames[tok]; ok {
		return Of(k), nil
	}
	if st, ok := lookup(tok); ok {
		_ = st
		return Of(value.KindStruct), nil
	}
	if isLowerIdent(tok) {
		return Var(tok), nil
	}
	return ElemType{}, errors.Errorf("unknown struct type %q", tok)
}

func resolveTypeName(name string, lookup StructLookup) (ElemType, error) {
	if k, ok := builtinTypeNames[name]; ok {
		return Of(k), nil
	}
	if _, ok := lookup(name); ok {
		return Of(value.KindStruct), nil
	}
	return ElemType{}, errors.Errorf("unknown struct type %q", name)
}

func isLowerIdent(s string) bool {
	for i, r := range s {
		if i == 0 && !unicode.IsLower(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return false
		}
	}
	return len(s) > 0
}

// Parse resolves a surface DeclaredSignature into a validated Signature,
// top-down (index 0 is the top of stack, matching the Inputs/Outputs
// field order already used by value.DeclaredSignature).
func Parse(decl *value.DeclaredSignature, lookup StructLookup) (Signature, error) {
	if decl == nil {
		return Signature{Arity: ArityVariadic, Valency: 1}, nil
	}
	ins := make([]ElemType, len(decl.Inputs))
	for i, tok := range decl.Inputs {
		et, err := parseElem(tok, lookup)
		if err != nil {
			return Signature{}, err
		}
		ins[i] = et
	}
	outs := make([]ElemType, len(decl.Outputs))
	for i, tok := range decl.Outputs {
		et, err := parseElem(tok, lookup)
		if err != nil {
			return Signature{}, err
		}
		outs[i] = et
	}
	return Fixed(ins, outs), nil
}
