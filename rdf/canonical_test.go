package rdf

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func nestedGraph(a string) *Graph {
	return MustGraph(
		tr(iri("s"), "p", blank(a)),
		tr(blank(a), "q", lit("1")),
		tr(blank(a), "r", lit("2")),
	)
}

func TestDigestEmptyGraph(t *testing.T) {
	sum, err := Digest(MustGraph())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Fatalf("unexpected empty graph digest: %s", sum)
	}
}

func TestDigestSingleTriple(t *testing.T) {
	sum, err := Digest(MustGraph(tr(iri("s"), "p", iri("o"))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != "70ca544fc3774f29470521b592f4418d5e7f841c6b24c6a990c725c7f1078875" {
		t.Fatalf("unexpected digest: %s", sum)
	}
}

func TestDigestKeepsIRIsVerbatim(t *testing.T) {
	g := MustGraph(Triple{S: IRI{Value: ex + "a b"}, P: IRI{Value: ex + "p<1>"}, O: iri("o")})
	sum, err := Digest(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := sha(sha("<http://example.org/a b> <http://example.org/p<1>> <http://example.org/o>"))
	if sum != want {
		t.Fatalf("unexpected digest: %s, want %s", sum, want)
	}
}

func TestDigestNestedBlock(t *testing.T) {
	leafQ := sha(` <http://example.org/q> "1"`)
	leafR := sha(` <http://example.org/r> "2"`)
	if leafR >= leafQ {
		t.Fatalf("test expects r leaf to sort first")
	}
	top := sha(leafR + leafQ + `<http://example.org/s> <http://example.org/p> `)
	if top != "61213ecab023bf9adf4c8ab884f1fd166b8458a8ecf870202b2ce70fa1e1026e" {
		t.Fatalf("unexpected top block digest: %s", top)
	}

	root, err := NewCanonicalizer().Forest(nestedGraph("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 1 || root.Children[0].Digest != top {
		t.Fatalf("unexpected forest: %+v", root.Children)
	}
	if root.Digest != "6dcd5a5e9046286981b14493f1991f74910c2490abe14d108d04b6eb7e08cca9" {
		t.Fatalf("unexpected graph digest: %s", root.Digest)
	}
	if got := root.Children[0].Children; len(got) != 2 || got[0].Digest != leafR || got[1].Digest != leafQ {
		t.Fatalf("children must be sorted by digest")
	}
}

func TestDigestIsomorphicSubtrees(t *testing.T) {
	g := MustGraph(
		tr(iri("s1"), "hasChild", blank("x")),
		tr(iri("s2"), "hasChild", blank("y")),
		tr(blank("x"), "value", lit("v")),
		tr(blank("y"), "value", lit("v")),
	)
	root, err := NewCanonicalizer().Forest(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	leaf := sha(` <http://example.org/value> "v"`)
	for _, b := range root.Children {
		if len(b.Children) != 1 || b.Children[0].Digest != leaf {
			t.Fatalf("blank node subtrees must share a digest")
		}
	}
	if root.Digest != "fa15e97f1122f5c6a977a9abd7632f2398d725b470dcda47bdfec4e37ac04803" {
		t.Fatalf("unexpected graph digest: %s", root.Digest)
	}
}

func TestDigestIgnoresLabelsAndOrder(t *testing.T) {
	a := nestedGraph("a")
	b := MustGraph(
		tr(blank("zz"), "r", lit("2")),
		tr(blank("zz"), "q", lit("1")),
		tr(iri("s"), "p", blank("zz")),
	)
	da, err := Digest(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	db, err := Digest(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if da != db {
		t.Fatalf("digests differ: %s != %s", da, db)
	}
}

func TestDigestDistinguishesGraphs(t *testing.T) {
	a, _ := Digest(nestedGraph("a"))
	b, _ := Digest(MustGraph(
		tr(iri("s"), "p", blank("a")),
		tr(blank("a"), "q", lit("1")),
		tr(blank("a"), "r", lit("3")),
	))
	c, _ := Digest(MustGraph(
		tr(iri("s"), "p", blank("a")),
		tr(blank("a"), "q", lit("1")),
		tr(blank("b"), "r", lit("2")),
	))
	if a == b || a == c || b == c {
		t.Fatalf("distinct graphs must have distinct digests: %s %s %s", a, b, c)
	}
}

func TestDigestDeterministic(t *testing.T) {
	g := nestedGraph("a")
	first, err := Digest(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		next, err := Digest(g)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next != first {
			t.Fatalf("digest changed between calls")
		}
	}
}

func TestDigestRejectsSharedBlankNode(t *testing.T) {
	g := MustGraph(
		tr(iri("s"), "p", blank("m")),
		tr(iri("t"), "p", blank("m")),
		tr(iri("s"), "p", blank("k")),
		tr(iri("t"), "p", blank("k")),
	)
	_, err := Digest(g)
	var illegal *IllegalGraphError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected *IllegalGraphError, got %v", err)
	}
	if illegal.BlankNode != "k" {
		t.Fatalf("expected smallest offender k, got %s", illegal.BlankNode)
	}
	if !errors.Is(err, ErrIllegalGraph) || Code(err) != ErrCodeIllegalGraph {
		t.Fatalf("unexpected error classification: %v", err)
	}
}

func TestDigestRejectsUnreachableCycle(t *testing.T) {
	tests := []struct {
		name  string
		graph *Graph
		node  string
	}{
		{"self loop", MustGraph(tr(blank("a"), "p", blank("a"))), "a"},
		{"two cycle", MustGraph(
			tr(iri("s"), "p", lit("x")),
			tr(blank("c"), "p", blank("b")),
			tr(blank("b"), "p", blank("c")),
		), "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Digest(tt.graph)
			var illegal *IllegalGraphError
			if !errors.As(err, &illegal) {
				t.Fatalf("expected *IllegalGraphError, got %v", err)
			}
			if illegal.BlankNode != tt.node {
				t.Fatalf("expected blank node %s, got %s", tt.node, illegal.BlankNode)
			}
			if !strings.Contains(err.Error(), "cycle") {
				t.Fatalf("unexpected message: %v", err)
			}
		})
	}
}

func chainGraph(depth int) *Graph {
	g := MustGraph(tr(iri("s"), "p", blank("b0")))
	for i := 0; i < depth; i++ {
		_ = g.Add(tr(blank(fmt.Sprintf("b%d", i)), "p", blank(fmt.Sprintf("b%d", i+1))))
	}
	_ = g.Add(tr(blank(fmt.Sprintf("b%d", depth)), "p", lit("end")))
	return g
}

func TestDigestDepthLimit(t *testing.T) {
	g := chainGraph(5)
	if _, err := NewCanonicalizer(OptMaxDepth(3)).Digest(g); !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}
	if _, err := NewCanonicalizer(OptMaxDepth(7)).Digest(g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDigestDeepChain(t *testing.T) {
	if _, err := NewCanonicalizer(OptMaxDepth(0)).Digest(chainGraph(50000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDigestTripleLimit(t *testing.T) {
	_, err := NewCanonicalizer(OptMaxTriples(2)).Digest(nestedGraph("a"))
	if !errors.Is(err, ErrTripleLimitExceeded) {
		t.Fatalf("expected ErrTripleLimitExceeded, got %v", err)
	}
}

func TestDigestWorkersMatchSequential(t *testing.T) {
	g := MustGraph()
	for i := 0; i < 40; i++ {
		node := fmt.Sprintf("n%d", i)
		_ = g.Add(tr(iri(fmt.Sprintf("s%d", i%7)), "p", blank(node)))
		_ = g.Add(tr(blank(node), "v", lit(fmt.Sprintf("%d", i%5))))
	}
	want, err := Digest(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := NewCanonicalizer(OptWorkers(4)).Digest(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("parallel digest differs: %s != %s", got, want)
	}
}

func TestDigestLogsStatistics(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	if _, err := NewCanonicalizer(OptLogger(logger)).Digest(nestedGraph("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry := hook.LastEntry()
	if entry == nil {
		t.Fatalf("expected a log entry")
	}
	if entry.Level != logrus.DebugLevel {
		t.Fatalf("unexpected level: %s", entry.Level)
	}
	if entry.Data["triples"] != 3 || entry.Data["roots"] != 1 || entry.Data["depth"] != 2 {
		t.Fatalf("unexpected fields: %v", entry.Data)
	}
}
