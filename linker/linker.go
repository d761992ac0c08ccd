package linker

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/alexjc/joyfl/effect"
	"github.com/alexjc/joyfl/joyerr"
	"github.com/alexjc/joyfl/library"
	"github.com/alexjc/joyfl/token"
	"github.com/alexjc/joyfl/value"
)

// LinkBody links a flat token list for one body against lib, resolving
// each token in a fixed priority order. module identifies the vantage
// point the link is happening from (it makes a module's own Private
// quotations visible, see library.Library.GetQuotation), or the empty
// string for the global scope. The returned Meta spans the body's actual
// token range.
func LinkBody(toks []token.Token, meta value.Meta, lib *library.Library, module string) (value.Program, value.Meta, error) {
	type frame struct{ items value.Program }
	stack := []frame{{}}
	out := meta

	for _, tok := range toks {
		out = out.Span(tok.Meta)
		switch tok.Kind {
		case token.BracketOpen:
			stack = append(stack, frame{})
			continue
		case token.BracketClose:
			if len(stack) < 2 {
				return nil, out, joyerr.New(joyerr.ParseError, "unmatched ']'").WithMeta(tok.Meta)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			items := make([]value.Value, len(top.items))
			for i, it := range top.items {
				items[i] = it.(value.Value)
			}
			lst := value.NewList(items...)
			stack[len(stack)-1].items = append(stack[len(stack)-1].items, lst)
			continue
		}

		item, err := resolveToken(tok, lib, module)
		if err != nil {
			return nil, out, err
		}
		stack[len(stack)-1].items = append(stack[len(stack)-1].items, item)
	}
	if len(stack) != 1 {
		return nil, out, joyerr.New(joyerr.ParseError, "unmatched '['").WithMeta(out)
	}
	return stack[0].items, out, nil
}

// resolveToken resolves one non-bracket token (bracket handling lives in
// LinkBody). Literal tokens become values directly; a name is tried as a
// combinator, a constant, a factory, a quotation, and finally a native
// function, in that order, and raises a NameError when nothing matches.
func resolveToken(tok token.Token, lib *library.Library, module string) (value.Value, error) {
	switch tok.Kind {
	case token.StringLit:
		return value.String(tok.Text), nil
	case token.SymbolLit:
		return value.Symbol(tok.Text), nil
	case token.RationalLit:
		return parseRational(tok)
	case token.IntLit:
		return parseInt(tok)
	case token.FloatLit:
		return parseFloat(tok)
	}

	name := tok.Text

	if fn, ok := lib.GetCombinator(name); ok {
		return &value.Operation{Tag: value.Combinator, Target: fn, Name: name, Meta: tok.Meta}, nil
	}
	if v, ok := lib.GetConstant(name); ok {
		return v, nil
	}
	factoryName := strings.TrimPrefix(name, "@")
	f, err := lib.GetFactory(factoryName, false)
	if err != nil {
		return nil, err
	}
	if f != nil {
		return f(), nil
	}
	q, err := lib.GetQuotation(name, module)
	if err != nil {
		return nil, err
	}
	if q != nil {
		return &value.Operation{Tag: value.Execute, Target: q, Name: name, Meta: tok.Meta}, nil
	}
	fb, err := lib.GetFunction(name)
	if err != nil {
		return nil, err
	}
	if fb != nil {
		return &value.Operation{Tag: value.Function, Target: fb, Name: name, Meta: tok.Meta}, nil
	}
	return nil, joyerr.New(joyerr.NameError, "unknown name %q", name).WithToken(name).WithMeta(tok.Meta)
}

func parseInt(tok token.Token) (value.Value, error) {
	n, ok := new(big.Int).SetString(tok.Text, 10)
	if !ok {
		return nil, joyerr.New(joyerr.ParseError, "malformed integer literal %q", tok.Text).WithMeta(tok.Meta)
	}
	return value.Int{V: n}, nil
}

func parseFloat(tok token.Token) (value.Value, error) {
	f, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		return nil, joyerr.Wrap(err, joyerr.ParseError, "malformed float literal %q", tok.Text).WithMeta(tok.Meta)
	}
	return value.Float(f), nil
}

func parseRational(tok token.Token) (value.Value, error) {
	idx := strings.IndexRune(tok.Text, '⁄')
	if idx < 0 {
		return nil, joyerr.New(joyerr.ParseError, "malformed rational literal %q", tok.Text).WithMeta(tok.Meta)
	}
	numTxt, denTxt := tok.Text[:idx], tok.Text[idx+len("⁄"):]
	num, ok := new(big.Int).SetString(numTxt, 10)
	if !ok {
		return nil, joyerr.New(joyerr.ParseError, "malformed rational numerator %q", numTxt).WithMeta(tok.Meta)
	}
	den, ok := new(big.Int).SetString(denTxt, 10)
	if !ok || den.Sign() == 0 {
		return nil, joyerr.New(joyerr.ParseError, "malformed rational denominator %q", denTxt).WithMeta(tok.Meta)
	}
	return value.NewRational(num, den), nil
}

// InstallBlock installs one parsed library block (its struct types,
// PRIVATE section, and PUBLIC section) into lib, in three passes that
// support mutual recursion both within and across the two sections:
//
//  1. register every struct type, then register every definition's name
//     (private and public alike) as a placeholder Quotation with
//     Visibility Local in a fresh overlay keyed by its unqualified name,
//     which is what lets one private definition forward-reference
//     another (or a public one) by its bare name;
//  2. link each body against the overlay (so sibling names resolve to
//     their placeholders, and names already in lib's parent chain still
//     resolve through the overlay's read-through);
//  3. assign each placeholder's Program exactly once. Every Execute
//     operation created in pass 2 points at the shared placeholder
//     object (not a copy), so this single assignment is the patch step:
//     resolved once, then immutable. Each quotation is then published
//     into lib under its qualified `ns.name` key with its real export
//     Visibility (Private or Public), so the outside world sees only
//     the qualified, visibility-checked name, never the bare overlay
//     one.
//
// ns is the empty string for a module-less top-level library block (no
// MODULE clause): in that case names are published unqualified and
// Private has no externally-observable effect, since nothing outside the
// global scope could reference them dotted anyway.
//
// On any body failing to link, no quotation is published to lib (the
// overlay is simply discarded) and the error is returned, so a failing
// sibling rolls back the whole batch of definitions. Struct types
// registered in pass 1 stay registered.
func InstallBlock(lib *library.Library, ns string, types []token.TypeDecl, private, public []token.Def) error {
	for _, t := range types {
		st := &value.StructType{Name: t.Name, Fields: t.Fields}
		if err := lib.AddStructType(st); err != nil {
			return joyerr.Wrap(err, joyerr.TypeDuplicate, "struct type %q", t.Name).WithMeta(t.Meta)
		}
	}

	overlay := lib.WithOverlay()

	type pending struct {
		qualified string
		vis       value.Visibility
		q         *value.Quotation
	}
	all := make([]pending, 0, len(private)+len(public))
	defs := make([]token.Def, 0, len(private)+len(public))

	register := func(ds []token.Def, vis value.Visibility) {
		for _, d := range ds {
			q := &value.Quotation{
				Name:       d.Name,
				Meta:       d.Meta,
				Signature:  d.Signature,
				Visibility: value.Local,
				Module:     ns,
			}
			overlay.AddQuotation(d.Name, q)
			all = append(all, pending{qualified: Qualify(ns, d.Name), vis: vis, q: q})
			defs = append(defs, d)
		}
	}
	register(private, value.Private)
	register(public, value.Public)

	programs := make([]value.Program, len(defs))
	for i, d := range defs {
		if d.Signature != nil {
			if _, err := effect.Parse(d.Signature, overlay.GetStructType); err != nil {
				return joyerr.Wrap(err, joyerr.UnknownStruct, "signature of %q", d.Name).WithMeta(d.Meta)
			}
		}
		prog, _, err := LinkBody(d.Body, d.Meta, overlay, ns)
		if err != nil {
			if _, ok := joyerr.AsError(err); ok {
				return err
			}
			return joyerr.Wrap(err, joyerr.NameError, "linking %q", d.Name).WithMeta(d.Meta)
		}
		programs[i] = prog
	}

	for i, p := range all {
		p.q.Program = programs[i]
		p.q.Visibility = p.vis
		p.q.Name = p.qualified
		lib.AddQuotation(p.qualified, p.q)
	}
	lib.MarkJoyLoaded(ns)
	return nil
}

// Qualify returns the library key for a definition named name declared in
// module (or name itself, unqualified, for the global scope / module ==
// "").
func Qualify(module, name string) string {
	if module == "" {
		return name
	}
	return module + "." + name
}
