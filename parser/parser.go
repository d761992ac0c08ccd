package parser

import (
	"github.com/pkg/errors"

	"github.com/alexjc/joyfl/token"
	"github.com/alexjc/joyfl/value"
)

var sectionKeywords = map[string]bool{
	"PRIVATE": true, "HIDDEN": true,
	"PUBLIC": true, "DEFINE": true, "LIBRA": true,
}

func isPrivateKeyword(w string) bool { return w == "PRIVATE" || w == "HIDDEN" }
func isPublicKeyword(w string) bool  { return w == "PUBLIC" || w == "DEFINE" || w == "LIBRA" }

// Parse tokenizes and groups src (from filename) into the top-level
// Entry stream: a sequence of free-standing terms and library blocks.
// Lexical errors are aggregated rather than stopping the scan; a non-nil
// error is only returned once the whole input has been scanned.
func Parse(src, filename string) ([]token.Entry, error) {
	l := newLexer(src, filename)
	p := &parserState{lex: l}
	entries := p.parseAll()
	if len(l.errs) > 0 {
		return entries, l.errs
	}
	return entries, nil
}

type parserState struct {
	lex  *lexer
	peek *token.Token
}

func (p *parserState) nextTok() (token.Token, bool) {
	if p.peek != nil {
		t := *p.peek
		p.peek = nil
		return t, true
	}
	return p.lex.next()
}

func (p *parserState) peekTok() (token.Token, bool) {
	if p.peek == nil {
		t, ok := p.lex.next()
		if !ok {
			return token.Token{}, false
		}
		p.peek = &t
	}
	return *p.peek, true
}

func (p *parserState) parseAll() []token.Entry {
	var entries []token.Entry
	for {
		tok, ok := p.peekTok()
		if !ok {
			return entries
		}
		if tok.Kind == token.Ident && tok.Text == "MODULE" {
			blk, err := p.parseLibrary()
			if err != nil {
				p.lex.errf(tok.Meta, "%s", err.Error())
				continue
			}
			entries = append(entries, token.Entry{Library: blk})
			continue
		}
		if tok.Kind == token.Ident && sectionKeywords[tok.Text] {
			blk, err := p.parseLibrary()
			if err != nil {
				p.lex.errf(tok.Meta, "%s", err.Error())
				continue
			}
			entries = append(entries, token.Entry{Library: blk})
			continue
		}
		term, err := p.parseTerm()
		if err != nil {
			p.lex.errf(tok.Meta, "%s", err.Error())
			continue
		}
		entries = append(entries, token.Entry{Term: term})
	}
}

// parseTerm reads a flat token list up to (and excluding) a top-level `.`
// terminator. Bracket nesting is tracked so a quotation's own contents
// never falsely end the term.
func (p *parserState) parseTerm() (*token.Term, error) {
	var toks []token.Token
	depth := 0
	first, ok := p.peekTok()
	if !ok {
		return nil, errors.New("unexpected end of input")
	}
	meta := first.Meta
	for {
		tok, ok := p.nextTok()
		if !ok {
			return nil, errors.New("unterminated term: expected '.'")
		}
		switch tok.Kind {
		case token.BracketOpen:
			depth++
		case token.BracketClose:
			depth--
		}
		if depth == 0 && tok.Kind == token.Ident && tok.Text == "." {
			meta = meta.Span(tok.Meta)
			return &token.Term{Tokens: toks, Meta: meta}, nil
		}
		meta = meta.Span(tok.Meta)
		toks = append(toks, tok)
	}
}

// parseLibrary reads one `MODULE name? PRIVATE ... PUBLIC ... END.`
// block.
func (p *parserState) parseLibrary() (*token.LibraryBlock, error) {
	blk := &token.LibraryBlock{}
	tok, _ := p.peekTok()
	blk.Meta = tok.Meta

	if tok.Kind == token.Ident && tok.Text == "MODULE" {
		p.nextTok()
		nameTok, ok := p.peekTok()
		if !ok {
			return nil, errors.New("MODULE: expected name or section keyword")
		}
		if nameTok.Kind == token.Ident && !sectionKeywords[nameTok.Text] {
			p.nextTok()
			blk.Module = nameTok.Text
		}
	}

	for {
		tok, ok := p.peekTok()
		if !ok {
			return nil, errors.New("unterminated library block: expected END.")
		}
		if tok.Kind == token.Ident && tok.Text == "END." {
			p.nextTok()
			return blk, nil
		}
		if tok.Kind == token.Ident && tok.Text == "END" {
			p.nextTok()
			dot, ok := p.nextTok()
			if !ok || dot.Text != "." {
				return nil, errors.New("expected '.' after END")
			}
			return blk, nil
		}
		if tok.Kind == token.Ident && isPrivateKeyword(tok.Text) {
			p.nextTok()
			defs, types, err := p.parseDefs()
			if err != nil {
				return nil, err
			}
			blk.Private = append(blk.Private, defs...)
			blk.Types = append(blk.Types, types...)
			continue
		}
		if tok.Kind == token.Ident && isPublicKeyword(tok.Text) {
			p.nextTok()
			defs, types, err := p.parseDefs()
			if err != nil {
				return nil, err
			}
			blk.Public = append(blk.Public, defs...)
			blk.Types = append(blk.Types, types...)
			continue
		}
		return nil, errors.Errorf("unexpected token %q in library block", tok.Text)
	}
}

// parseDefs reads a sequence of definitions/type declarations until the
// next section keyword or END./END, per `name [ : (sig) ] == body ;` and
// `TypeName :: field ...  ;`.
func (p *parserState) parseDefs() ([]token.Def, []token.TypeDecl, error) {
	var defs []token.Def
	var types []token.TypeDecl
	for {
		tok, ok := p.peekTok()
		if !ok {
			return nil, nil, errors.New("unterminated section: expected END.")
		}
		if tok.Kind == token.Ident && (tok.Text == "END." || tok.Text == "END" || sectionKeywords[tok.Text]) {
			return defs, types, nil
		}
		nameTok, _ := p.nextTok()
		after, ok := p.peekTok()
		if !ok {
			return nil, nil, errors.New("unterminated definition")
		}
		if after.Kind == token.Ident && after.Text == "::" {
			p.nextTok()
			td, err := p.parseTypeDecl(nameTok)
			if err != nil {
				return nil, nil, err
			}
			types = append(types, *td)
			continue
		}
		def, err := p.parseDef(nameTok)
		if err != nil {
			return nil, nil, err
		}
		defs = append(defs, *def)
	}
}

func (p *parserState) parseTypeDecl(nameTok token.Token) (*token.TypeDecl, error) {
	td := &token.TypeDecl{Name: nameTok.Text, Meta: nameTok.Meta}
	for {
		tok, ok := p.nextTok()
		if !ok {
			return nil, errors.New("unterminated type declaration: expected ';'")
		}
		if tok.Text == ";" {
			td.Meta = td.Meta.Span(tok.Meta)
			return td, nil
		}
		label, typ := tok.Text, ""
		if idx := indexByte(label, ':'); idx >= 0 {
			typ = label[idx+1:]
			label = label[:idx]
		}
		td.Fields = append(td.Fields, value.FieldDecl{Label: label, Type: typ})
	}
}

func (p *parserState) parseDef(nameTok token.Token) (*token.Def, error) {
	def := &token.Def{Name: nameTok.Text, Meta: nameTok.Meta}
	tok, ok := p.peekTok()
	if !ok {
		return nil, errors.New("unterminated definition: expected '=='")
	}
	if tok.Text == ":" {
		p.nextTok()
		sig, err := p.parseSignature()
		if err != nil {
			return nil, err
		}
		def.Signature = sig
	}
	eq, ok := p.nextTok()
	if !ok || eq.Text != "==" {
		return nil, errors.Errorf("definition %q: expected '==', got %q", nameTok.Text, eq.Text)
	}
	for {
		tok, ok := p.nextTok()
		if !ok {
			return nil, errors.Errorf("definition %q: unterminated body: expected ';'", nameTok.Text)
		}
		if tok.Text == ";" {
			def.Meta = def.Meta.Span(tok.Meta)
			return def, nil
		}
		def.Body = append(def.Body, tok)
		def.Meta = def.Meta.Span(tok.Meta)
	}
}

// parseSignature reads `( inputs -- outputs )`. Tokens are written
// bottom-to-top in the surface syntax (Forth-style stack-comment
// convention); DeclaredSignature stores top-down, so each side is
// reversed once collected.
func (p *parserState) parseSignature() (*value.DeclaredSignature, error) {
	open, ok := p.nextTok()
	if !ok || open.Text != "(" {
		return nil, errors.New("expected '(' to open stack-effect signature")
	}
	var inputs, outputs []string
	cur := &inputs
	for {
		tok, ok := p.nextTok()
		if !ok {
			return nil, errors.New("unterminated stack-effect signature: expected ')'")
		}
		switch tok.Text {
		case "--":
			cur = &outputs
		case ")":
			reverse(inputs)
			reverse(outputs)
			return &value.DeclaredSignature{Inputs: inputs, Outputs: outputs}, nil
		default:
			*cur = append(*cur, tok.Text)
		}
	}
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
