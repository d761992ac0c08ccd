package parser

import (
	"testing"

	"github.com/alexjc/joyfl/token"
)

func parseOne(t *testing.T, src string) token.Entry {
	t.Helper()
	entries, err := Parse(src, "<test>")
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	if len(entries) != 1 {
		t.Fatalf("Parse(%q): got %d entries, want 1", src, len(entries))
	}
	return entries[0]
}

func TestClassifyLiterals(t *testing.T) {
	cases := []struct {
		word string
		want token.Kind
	}{
		{"5", token.IntLit},
		{"-12", token.IntLit},
		{"2.5", token.FloatLit},
		{"1.0e3", token.FloatLit},
		{"-1.5e-2", token.FloatLit},
		{"1⁄2", token.RationalLit},
		{"-3⁄4", token.RationalLit},
		{"add", token.Ident},
		{"-", token.Ident},
		{".", token.Ident},
		{"==", token.Ident},
		{"5.", token.Ident},
		{"1e3", token.Ident},
		{"⁄2", token.Ident},
	}
	for _, c := range cases {
		if got := classify(c.word); got != c.want {
			t.Errorf("classify(%q) = %v, want %v", c.word, got, c.want)
		}
	}
}

func TestTermTokensAndMeta(t *testing.T) {
	e := parseOne(t, "2 3 add .")
	if e.Term == nil {
		t.Fatal("expected a term entry")
	}
	if len(e.Term.Tokens) != 3 {
		t.Fatalf("got %d tokens, want 3 (the '.' is consumed)", len(e.Term.Tokens))
	}
	if e.Term.Tokens[0].Kind != token.IntLit || e.Term.Tokens[2].Kind != token.Ident {
		t.Errorf("unexpected token kinds: %v", e.Term.Tokens)
	}
	if e.Term.Meta.Filename != "<test>" || e.Term.Meta.StartLine != 1 {
		t.Errorf("meta = %+v, want <test>:1", e.Term.Meta)
	}
}

func TestBracketsDoNotTerminateTerm(t *testing.T) {
	e := parseOne(t, "[ 1 . 2 ] .")
	if e.Term == nil {
		t.Fatal("expected a term entry")
	}
	// The '.' inside the brackets belongs to the quotation body.
	if len(e.Term.Tokens) != 5 {
		t.Errorf("got %d tokens, want 5", len(e.Term.Tokens))
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	src := "# a line comment\n(* a block\ncomment *) 1 2 add ."
	e := parseOne(t, src)
	if e.Term == nil || len(e.Term.Tokens) != 3 {
		t.Fatalf("comments should be invisible to the token stream: %#v", e)
	}
	if e.Term.Tokens[0].Meta.StartLine != 3 {
		t.Errorf("first token line = %d, want 3", e.Term.Tokens[0].Meta.StartLine)
	}
}

func TestStringEscapes(t *testing.T) {
	e := parseOne(t, `"a\nb\"c" .`)
	if e.Term == nil || len(e.Term.Tokens) != 1 {
		t.Fatalf("expected one string token: %#v", e)
	}
	tok := e.Term.Tokens[0]
	if tok.Kind != token.StringLit || tok.Text != "a\nb\"c" {
		t.Errorf("string token = %q, want escape-decoded text", tok.Text)
	}
}

func TestSymbolLiteral(t *testing.T) {
	e := parseOne(t, "'MyPair .")
	tok := e.Term.Tokens[0]
	if tok.Kind != token.SymbolLit || tok.Text != "MyPair" {
		t.Errorf("symbol token = %v %q", tok.Kind, tok.Text)
	}
}

func TestUnterminatedStringReported(t *testing.T) {
	_, err := Parse(`"never closed .`, "<test>")
	if err == nil {
		t.Fatal("an unterminated string should surface a lexical error")
	}
}

func TestUnterminatedBlockCommentReported(t *testing.T) {
	_, err := Parse("(* open forever 1 .", "<test>")
	if err == nil {
		t.Fatal("an unterminated block comment should surface a lexical error")
	}
}

func TestLibraryBlockSections(t *testing.T) {
	src := `
MODULE demo
PRIVATE
	helper == 1 2 add ;
PUBLIC
	main == helper dup ;
END.
`
	e := parseOne(t, src)
	if e.Library == nil {
		t.Fatal("expected a library entry")
	}
	blk := e.Library
	if blk.Module != "demo" {
		t.Errorf("module = %q, want demo", blk.Module)
	}
	if len(blk.Private) != 1 || blk.Private[0].Name != "helper" {
		t.Errorf("private defs = %+v", blk.Private)
	}
	if len(blk.Public) != 1 || blk.Public[0].Name != "main" {
		t.Errorf("public defs = %+v", blk.Public)
	}
	if len(blk.Public[0].Body) != 2 {
		t.Errorf("main's body should hold 2 tokens, got %d", len(blk.Public[0].Body))
	}
}

func TestSectionKeywordSynonyms(t *testing.T) {
	for _, kw := range []string{"PUBLIC", "DEFINE", "LIBRA"} {
		src := "MODULE x\n" + kw + "\n\tone == 1 ;\nEND.\n"
		e := parseOne(t, src)
		if e.Library == nil || len(e.Library.Public) != 1 {
			t.Errorf("%s should open a public section: %#v", kw, e)
		}
	}
	for _, kw := range []string{"PRIVATE", "HIDDEN"} {
		src := "MODULE x\n" + kw + "\n\tone == 1 ;\nEND.\n"
		e := parseOne(t, src)
		if e.Library == nil || len(e.Library.Private) != 1 {
			t.Errorf("%s should open a private section: %#v", kw, e)
		}
	}
}

func TestModulelessLibraryBlock(t *testing.T) {
	e := parseOne(t, "PUBLIC\n\tone == 1 ;\nEND.\n")
	if e.Library == nil {
		t.Fatal("a bare PUBLIC section should still parse as a library block")
	}
	if e.Library.Module != "" {
		t.Errorf("module = %q, want empty (global scope)", e.Library.Module)
	}
}

func TestStackEffectSignatureParsed(t *testing.T) {
	src := "MODULE s\nPUBLIC\n\tplus : ( x:int y:int -- sum:int ) == add ;\nEND.\n"
	e := parseOne(t, src)
	def := e.Library.Public[0]
	if def.Signature == nil {
		t.Fatal("the stack-effect annotation should be captured")
	}
	// Surface order is bottom-to-top; DeclaredSignature stores top-down.
	if len(def.Signature.Inputs) != 2 || def.Signature.Inputs[0] != "y:int" {
		t.Errorf("inputs = %v, want top-down order [y:int x:int]", def.Signature.Inputs)
	}
	if len(def.Signature.Outputs) != 1 || def.Signature.Outputs[0] != "sum:int" {
		t.Errorf("outputs = %v", def.Signature.Outputs)
	}
}

func TestTypeDeclaration(t *testing.T) {
	src := "MODULE t\nPUBLIC\n\tPoint :: x:int y:int ;\nEND.\n"
	e := parseOne(t, src)
	if len(e.Library.Types) != 1 {
		t.Fatalf("types = %+v, want one declaration", e.Library.Types)
	}
	td := e.Library.Types[0]
	if td.Name != "Point" || len(td.Fields) != 2 {
		t.Fatalf("decl = %+v", td)
	}
	if td.Fields[0].Label != "x" || td.Fields[0].Type != "int" {
		t.Errorf("field 0 = %+v, want x:int", td.Fields[0])
	}
}

func TestUntypedTypeFields(t *testing.T) {
	src := "MODULE t\nPUBLIC\n\tBox :: contents ;\nEND.\n"
	e := parseOne(t, src)
	td := e.Library.Types[0]
	if td.Fields[0].Label != "contents" || td.Fields[0].Type != "" {
		t.Errorf("an unannotated field should have an open type: %+v", td.Fields[0])
	}
}

func TestMixedTermsAndLibraries(t *testing.T) {
	src := "1 2 add .\nMODULE m\nPUBLIC\n\tone == 1 ;\nEND.\n3 4 add .\n"
	entries, err := Parse(src, "<test>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want term, library, term", len(entries))
	}
	if entries[0].Term == nil || entries[1].Library == nil || entries[2].Term == nil {
		t.Errorf("entry shapes wrong: %#v", entries)
	}
}
