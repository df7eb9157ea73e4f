package rdf

// Graph is an unordered set of triples. Adding a triple twice keeps one copy.
// Iteration order follows insertion and carries no meaning.
type Graph struct {
	triples []Triple
	index   map[Triple]struct{}
}

// NewGraph returns a graph holding the given triples.
// It returns an error if any triple is malformed.
func NewGraph(triples ...Triple) (*Graph, error) {
	g := &Graph{index: make(map[Triple]struct{}, len(triples))}
	for _, t := range triples {
		if err := g.Add(t); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// MustGraph is like NewGraph but panics on malformed triples.
func MustGraph(triples ...Triple) *Graph {
	g, err := NewGraph(triples...)
	if err != nil {
		panic(err)
	}
	return g
}

// Add inserts t into the graph. Duplicates are ignored.
// Literals typed xsd:string are stored as plain literals.
func (g *Graph) Add(t Triple) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if l, ok := t.O.(Literal); ok && l.Datatype.Value == XSDString {
		l.Datatype = IRI{}
		t.O = l
	}
	if g.index == nil {
		g.index = make(map[Triple]struct{})
	}
	if _, ok := g.index[t]; ok {
		return nil
	}
	g.index[t] = struct{}{}
	g.triples = append(g.triples, t)
	return nil
}

// Contains reports whether t is in the graph.
func (g *Graph) Contains(t Triple) bool {
	if g == nil {
		return false
	}
	_, ok := g.index[t]
	return ok
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.triples)
}

// Triples returns a copy of the triples in insertion order.
func (g *Graph) Triples() []Triple {
	if g == nil {
		return nil
	}
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// BlankNodes returns the distinct blank node ids used in subject or object position.
func (g *Graph) BlankNodes() []string {
	if g == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var ids []string
	add := func(term Term) {
		if b, ok := term.(BlankNode); ok {
			if _, dup := seen[b.ID]; !dup {
				seen[b.ID] = struct{}{}
				ids = append(ids, b.ID)
			}
		}
	}
	for _, t := range g.triples {
		add(t.S)
		add(t.O)
	}
	return ids
}
