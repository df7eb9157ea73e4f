// Package rdf computes canonical forms of RDF graphs.
//
// The package builds a forest of canonical blocks from a graph. A block is a
// triple plus the blocks hanging off its blank node object. From the forest it derives:
//   - Digest: a SHA-256 digest that ignores blank node labels and triple order.
//   - CanonicalOrder: every triple, blank nodes relabeled to digest-derived ids,
//     in a single total order.
//   - Render: canonical Turtle text grouped by subject and predicate.
//
// Skolemize and Deskolemize map blank nodes to well-known genid IRIs and back,
// for stores that cannot hold blank nodes.
//
// Graphs in which a blank node is the object of more than one triple are
// rejected with an *IllegalGraphError; use NormalizeURDNA2015 for those.
//
// Example:
//
//	g, err := rdf.ParseNTriples(ctx, strings.NewReader(input))
//	if err != nil {
//	    // handle error
//	}
//	sum, err := rdf.Digest(g)
//	if err != nil {
//	    // handle error
//	}
//	triples, err := rdf.CanonicalOrder(g)
//	if err != nil {
//	    // handle error
//	}
//	text, err := rdf.Render(triples, rdf.PrinterConfig{IndentWidth: 4})
//
// All functions are pure and safe for concurrent use. NewCanonicalizer accepts
// options to bound nesting depth and graph size for untrusted input, and to
// digest independent subtrees in parallel.
package rdf
