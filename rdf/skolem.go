package rdf

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

const genidPath = "/.well-known/genid/"

// SkolemPrefix returns the IRI prefix that marks skolemized blank nodes under baseURI.
func SkolemPrefix(baseURI string) string {
	return baseURI + genidPath
}

// Skolemize replaces every blank node in g with baseURI + "/.well-known/genid/" + id.
// The mapping lives for this call only.
func Skolemize(g *Graph, baseURI string) *Graph {
	prefix := SkolemPrefix(baseURI)
	mapping := make(map[string]IRI)
	skolem := func(term Term) Term {
		b, ok := term.(BlankNode)
		if !ok {
			return term
		}
		iri, ok := mapping[b.ID]
		if !ok {
			iri = IRI{Value: prefix + b.ID}
			mapping[b.ID] = iri
		}
		return iri
	}

	out := &Graph{index: make(map[Triple]struct{}, g.Len())}
	for _, t := range displaySorted(g.Triples()) {
		out.addTrusted(Triple{S: skolem(t.S), P: t.P, O: skolem(t.O)})
	}
	return out
}

// Deskolemize replaces every subject or object IRI under SkolemPrefix(baseURI)
// with a freshly minted blank node. Repeated IRIs map to the same blank node
// within one call.
func Deskolemize(g *Graph, baseURI string) *Graph {
	prefix := SkolemPrefix(baseURI)
	mapping := make(map[string]BlankNode)
	deskolem := func(term Term) Term {
		iri, ok := term.(IRI)
		if !ok || !strings.HasPrefix(iri.Value, prefix) {
			return term
		}
		b, ok := mapping[iri.Value]
		if !ok {
			b = BlankNode{ID: "b" + strings.ReplaceAll(uuid.NewString(), "-", "")}
			mapping[iri.Value] = b
		}
		return b
	}

	out := &Graph{index: make(map[Triple]struct{}, g.Len())}
	for _, t := range displaySorted(g.Triples()) {
		out.addTrusted(Triple{S: deskolem(t.S), P: t.P, O: deskolem(t.O)})
	}
	return out
}

// displaySorted orders triples by their N-Triples rendering. Unlike
// CanonicalOrder it accepts any graph.
func displaySorted(triples []Triple) []Triple {
	keys := make([]string, len(triples))
	for i, t := range triples {
		keys[i] = t.String()
	}
	idx := make([]int, len(triples))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return keys[idx[a]] < keys[idx[b]] })
	out := make([]Triple, len(triples))
	for i, j := range idx {
		out[i] = triples[j]
	}
	return out
}

// addTrusted adds a triple derived from an already validated one.
func (g *Graph) addTrusted(t Triple) {
	if _, ok := g.index[t]; ok {
		return
	}
	g.index[t] = struct{}{}
	g.triples = append(g.triples, t)
}
