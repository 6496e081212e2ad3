package dp

import (
	"reflect"
	"testing"
)

func scanKinds(t *testing.T, src string) []Kind {
	t.Helper()
	sink := NewSink()
	toks := NewLexer(src, sink).Scan()
	out := make([]Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func wantKinds(t *testing.T, src string, want []Kind) {
	t.Helper()
	got := scanKinds(t, src)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("\nsource:\n%s\nwant:\n%v\ngot:\n%v\n", src, want, got)
	}
}

func TestLexer_LabelAndJump(t *testing.T) {
	src := "label start:\n    jump other\n"
	wantKinds(t, src, []Kind{
		KwLabel, Identifier, Colon, Linebreak,
		Indent,
		KwJump, Identifier, Linebreak,
		Dedent, EOF,
	})
}

func TestLexer_Dialogue(t *testing.T) {
	src := "label a:\n    Alice \"hello\"\n"
	wantKinds(t, src, []Kind{
		KwLabel, Identifier, Colon, Linebreak,
		Indent,
		Identifier, FstringQuote, FstringContent, FstringQuote, Linebreak,
		Dedent, EOF,
	})
}

func TestLexer_FstringWithEmbedCall(t *testing.T) {
	src := "label a:\n    Alice \"score: {call add($x, 1)}\"\n"
	got := scanKinds(t, src)
	want := []Kind{
		KwLabel, Identifier, Colon, Linebreak,
		Indent,
		Identifier, FstringQuote, FstringContent, LBrace,
		KwCall, Identifier, LParen, VariableTok, Comma, Number, RParen,
		RBrace, FstringQuote, Linebreak,
		Dedent, EOF,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("\nwant:\n%v\ngot:\n%v\n", want, got)
	}
}

func TestLexer_DoubledBraceEscapesInFstring(t *testing.T) {
	src := "label a:\n    Alice \"{{literal}}\"\n"
	sink := NewSink()
	toks := NewLexer(src, sink).Scan()
	var escapes []string
	for _, tok := range toks {
		if tok.Kind == FstringEscape {
			escapes = append(escapes, tok.Literal.(string))
		}
	}
	if want := []string{"{", "}"}; !reflect.DeepEqual(escapes, want) {
		t.Fatalf("escapes = %v, want %v", escapes, want)
	}
}

func TestLexer_ImportPath(t *testing.T) {
	src := "import lib/common.dp\nlabel a:\n    jump a\n"
	toks := scanKinds(t, src)
	want := []Kind{
		KwImport, Path, Linebreak,
		KwLabel, Identifier, Colon, Linebreak,
		Indent, KwJump, Identifier, Linebreak,
		Dedent, EOF,
	}
	if !reflect.DeepEqual(toks, want) {
		t.Fatalf("got %v want %v", toks, want)
	}
}

func TestLexer_IndentDedentNesting(t *testing.T) {
	src := "label a:\n    if $x == 1:\n        jump a\n    jump a\n"
	got := scanKinds(t, src)
	indents, dedents := 0, 0
	for _, k := range got {
		if k == Indent {
			indents++
		}
		if k == Dedent {
			dedents++
		}
	}
	if indents != 2 || dedents != 2 {
		t.Fatalf("indents=%d dedents=%d, want 2 and 2", indents, dedents)
	}
	if got[len(got)-1] != EOF {
		t.Fatalf("last token = %v, want EOF", got[len(got)-1])
	}
}

func TestLexer_InconsistentIndentationIsFatalForTheFile(t *testing.T) {
	// Jump straight to level 5, then dedent to level 3 — 3 was never
	// pushed, so popping 5 lands on 0 and 0 != 3 (spec §4.1, §9).
	src := "label a:\n                    jump a\n            jump a\n"
	sink := NewSink()
	toks := NewLexer(src, sink).Scan()
	if sink.ErrorCount() == 0 {
		t.Fatalf("expected an inconsistent-indentation error diagnostic")
	}
	if toks[len(toks)-1].Kind != EOF {
		t.Fatalf("lexer must still terminate with EOF even after a fatal stop")
	}
}

func TestLexer_CommentOnlyLineProducesNoTokens(t *testing.T) {
	src := "label a:\n    # just a comment\n    jump a\n"
	got := scanKinds(t, src)
	want := []Kind{
		KwLabel, Identifier, Colon, Linebreak,
		Indent, KwJump, Identifier, Linebreak,
		Dedent, EOF,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestLexer_IllegalCharacterReported(t *testing.T) {
	src := "label a:\n    @nope\n"
	sink := NewSink()
	NewLexer(src, sink).Scan()
	if sink.ErrorCount() == 0 {
		t.Fatalf("expected a diagnostic for the illegal character")
	}
}
