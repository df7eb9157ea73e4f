package rdf

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMaxTriplesLimit(t *testing.T) {
	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, "<http://example.org/s> <http://example.org/p> _:b"+strings.Repeat("x", i)+" .\n")
	}
	input := strings.Join(lines, "")

	_, err := ParseNTriples(context.Background(), strings.NewReader(input), OptMaxTriples(5))
	if err == nil {
		t.Fatal("expected error for exceeding MaxTriples limit")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	if !errors.Is(parseErr.Err, ErrTripleLimitExceeded) {
		t.Fatalf("expected ErrTripleLimitExceeded, got: %v", parseErr.Err)
	}
	if parseErr.Line != 6 {
		t.Errorf("expected line 6 in error, got %d", parseErr.Line)
	}

	g, err := ParseNTriples(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewCanonicalizer(OptMaxTriples(5)).Digest(g); !errors.Is(err, ErrTripleLimitExceeded) {
		t.Fatalf("expected ErrTripleLimitExceeded from canonicalizer, got %v", err)
	}
}

func TestSafeLimitsRejectDeepNesting(t *testing.T) {
	g := chainGraph(safeMaxDepth + 1)
	_, err := NewCanonicalizer(OptSafeLimits()).Digest(g)
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}
	if Code(err) != ErrCodeDepthExceeded {
		t.Fatalf("unexpected code %s", Code(err))
	}
	if _, err := NewCanonicalizer(OptSafeLimits()).Digest(chainGraph(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	input := strings.Repeat("<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n", 100)
	_, err := ParseGraph(ctx, strings.NewReader(input), FormatNTriples)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestJSONLDMaxInputBytes(t *testing.T) {
	doc := `{"@id": "http://example.org/s", "http://example.org/p": "` + strings.Repeat("v", 1024) + `"}`
	_, err := ParseJSONLD(context.Background(), strings.NewReader(doc), JSONLDOptions{MaxInputBytes: 512})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if _, err := ParseJSONLD(context.Background(), strings.NewReader(doc), JSONLDOptions{MaxInputBytes: 4096}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
