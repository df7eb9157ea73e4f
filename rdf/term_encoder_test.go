package rdf

import (
	"errors"
	"testing"
)

func TestEncodeTerm(t *testing.T) {
	tests := []struct {
		name    string
		term    Term
		digest  string
		display string
	}{
		{"iri", iri("s"), "<http://example.org/s>", "<http://example.org/s>"},
		{"blank", blank("b0"), "", "_:b0"},
		{"plain", lit("hello"), `"hello"`, `"hello"`},
		{"double quote", lit(`say "hi"`), `'say "hi"'`, `'say "hi"'`},
		{"both quotes", lit(`it's "x"`), `'''it's "x"'''`, `'''it's "x"'''`},
		{"newline", lit("a\nb"), "'''a\nb'''", "'''a\nb'''"},
		{"triple single quote", lit("a'''b\"c"), `"""a'''b"c"""`, `"""a'''b"c"""`},
		{"lang", Literal{Lexical: "chat", Lang: "fr"}, `"chat"@fr`, `"chat"@fr`},
		{"datatype", Literal{Lexical: "1", Datatype: iri("int")}, `"1"^^<http://example.org/int>`, `"1"^^<http://example.org/int>`},
		{"xsd string", Literal{Lexical: "s", Datatype: IRI{Value: XSDString}}, `"s"`, `"s"`},
		{"backslash", lit(`a\b`), `"a\b"`, `"a\\b"`},
		{"iri with space", IRI{Value: ex + "a b"}, "<http://example.org/a b>", `<http://example.org/a\u0020b>`},
		{"datatype with quote", Literal{Lexical: "1", Datatype: IRI{Value: ex + `t"1`}}, `"1"^^<http://example.org/t"1>`, `"1"^^<http://example.org/t\u00221>`},
		{"trailing quote", lit("x\n'"), "'''x\n''''", "'''x\n\\''''"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeTerm(tt.term, EncodeDigest)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.digest {
				t.Fatalf("digest mode: got %q, want %q", got, tt.digest)
			}
			got, err = EncodeTerm(tt.term, EncodeDisplay)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.display {
				t.Fatalf("display mode: got %q, want %q", got, tt.display)
			}
		})
	}
}

func TestEncodeTermUnquotable(t *testing.T) {
	_, err := EncodeTerm(lit("'''\"\"\""), EncodeDigest)
	if !errors.Is(err, ErrUnquotableLiteral) {
		t.Fatalf("expected ErrUnquotableLiteral, got %v", err)
	}
	var encErr *TermEncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected *TermEncodingError, got %T", err)
	}
	if encErr.Lexical != "'''\"\"\"" {
		t.Fatalf("unexpected lexical in error: %q", encErr.Lexical)
	}
	if Code(err) != ErrCodeTermEncoding {
		t.Fatalf("unexpected code: %s", Code(err))
	}
}

func TestEncodeTermUnsupported(t *testing.T) {
	if _, err := EncodeTerm(nil, EncodeDisplay); !errors.Is(err, ErrInvalidTriple) {
		t.Fatalf("expected ErrInvalidTriple, got %v", err)
	}
}
