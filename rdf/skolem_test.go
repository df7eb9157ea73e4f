package rdf

import (
	"strings"
	"testing"
)

const skolemBase = "http://example.org"

func TestSkolemize(t *testing.T) {
	g := MustGraph(
		tr(iri("s"), "p", blank("a")),
		tr(blank("a"), "q", lit("x")),
	)
	out := Skolemize(g, skolemBase)
	if out.Len() != 2 {
		t.Fatalf("expected 2 triples, got %d", out.Len())
	}
	genid := IRI{Value: "http://example.org/.well-known/genid/a"}
	if !out.Contains(tr(iri("s"), "p", genid)) || !out.Contains(tr(genid, "q", lit("x"))) {
		t.Fatalf("unexpected skolemized graph: %v", out.Triples())
	}
	if len(out.BlankNodes()) != 0 {
		t.Fatalf("skolemized graph still has blank nodes")
	}
	if g.Len() != 2 || !g.Contains(tr(blank("a"), "q", lit("x"))) {
		t.Fatalf("input graph must not change")
	}
}

func TestDeskolemize(t *testing.T) {
	genid := IRI{Value: SkolemPrefix(skolemBase) + "n1"}
	other := IRI{Value: "http://other.org/.well-known/genid/n1"}
	g := MustGraph(
		tr(iri("s"), "p", genid),
		tr(genid, "q", lit("x")),
		tr(iri("s"), "p", other),
	)
	out := Deskolemize(g, skolemBase)
	ids := out.BlankNodes()
	if len(ids) != 1 {
		t.Fatalf("expected one blank node, got %v", ids)
	}
	if !strings.HasPrefix(ids[0], "b") || strings.Contains(ids[0], "-") {
		t.Fatalf("unexpected minted id %q", ids[0])
	}
	if !out.Contains(tr(iri("s"), "p", other)) {
		t.Fatalf("IRIs under other bases must be kept")
	}
}

func TestSkolemRoundTripPreservesDigest(t *testing.T) {
	g := MustGraph(
		tr(iri("s"), "p", blank("a")),
		tr(blank("a"), "q", blank("b")),
		tr(blank("b"), "r", Literal{Lexical: "v", Lang: "en"}),
		tr(blank("c"), "r", lit("w")),
	)
	want, err := Digest(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	round := Deskolemize(Skolemize(g, skolemBase), skolemBase)
	got, err := Digest(round)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("round trip changed digest: %s != %s", got, want)
	}
}

func TestSkolemizeWithoutBlankNodes(t *testing.T) {
	g := MustGraph(tr(iri("s"), "p", iri("o")))
	out := Skolemize(g, skolemBase)
	if out.Len() != 1 || !out.Contains(tr(iri("s"), "p", iri("o"))) {
		t.Fatalf("ground graph must pass through unchanged")
	}
}
