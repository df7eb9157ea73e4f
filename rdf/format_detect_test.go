package rdf

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
		ok    bool
	}{
		{`{"@id": "http://example.org/s"}`, FormatJSONLD, true},
		{"  [ ]", FormatJSONLD, true},
		{"<http://example.org/s> <http://example.org/p> <http://example.org/o> .", FormatNTriples, true},
		{"_:a <http://example.org/p> \"x\" .", FormatNTriples, true},
		{"# only a comment\n", FormatNTriples, true},
		{"@prefix ex: <http://example.org/> .", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := DetectFormat([]byte(tt.input))
		if got != tt.want || ok != tt.ok {
			t.Errorf("DetectFormat(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseGraphAutoDetect(t *testing.T) {
	nt := "<http://example.org/s> <http://example.org/p> _:a .\n_:a <http://example.org/q> \"1\" .\n_:a <http://example.org/r> \"2\" .\n"
	fromNT, err := ParseGraph(context.Background(), strings.NewReader(nt), FormatAuto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fromJSON, err := ParseGraph(context.Background(), strings.NewReader(personJSONLD), FormatAuto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, _ := Digest(fromNT)
	b, _ := Digest(fromJSON)
	if a != b || fromNT.Len() != 3 {
		t.Fatalf("auto-detected graphs differ: %s != %s", a, b)
	}

	empty, err := ParseGraph(context.Background(), strings.NewReader("  \n"), FormatAuto)
	if err != nil || empty.Len() != 0 {
		t.Fatalf("blank input should parse as empty graph: %v", err)
	}
	if _, err := ParseGraph(context.Background(), strings.NewReader("@prefix x: <y> ."), FormatAuto); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
