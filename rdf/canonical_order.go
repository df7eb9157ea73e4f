package rdf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CanonicalOrder returns the triples of g relabeled and sorted with default options.
func CanonicalOrder(g *Graph) ([]Triple, error) {
	return defaultCanonicalizer.CanonicalOrder(g)
}

// CanonicalOrder returns every triple of g with blank nodes relabeled to
// digest-derived ids, sorted in the canonical total order.
func (c *Canonicalizer) CanonicalOrder(g *Graph) ([]Triple, error) {
	root, err := c.Forest(g)
	if err != nil {
		return nil, err
	}
	labels := labelBlankNodes(root)

	out := make([]Triple, 0, g.Len())
	walkBlocks(root, func(b *Block) {
		if b.Triple == nil {
			return
		}
		out = append(out, Triple{
			S: relabel(b.Triple.S, labels),
			P: b.Triple.P,
			O: relabel(b.Triple.O, labels),
		})
	})

	var unresolved error
	sort.SliceStable(out, func(i, j int) bool {
		if i == j {
			return false
		}
		cmp := compareTriples(out[i], out[j])
		if cmp == 0 && unresolved == nil {
			unresolved = fmt.Errorf("%w: %s", ErrUnresolvedOrder, out[i])
		}
		return cmp < 0
	})
	if unresolved != nil {
		return nil, unresolved
	}
	return out, nil
}

func relabel(term Term, labels map[string]string) Term {
	if b, ok := term.(BlankNode); ok {
		return BlankNode{ID: labels[b.ID]}
	}
	return term
}

// labelBlankNodes assigns every blank node the digest of the block rooted at it.
//
// Blank node identity is erased inside digests, so two distinct blank nodes can
// share a digest. Those are relabeled with the hash of their parent's label and
// the digest. Nodes that still collide are siblings with identical subtrees;
// they get ordinal suffixes, and swapping them does not change the sorted output.
func labelBlankNodes(root *Block) map[string]string {
	candidates := make(map[string]string)
	rootBlocks := make(map[string][]string)
	for _, b := range root.Children {
		if s, ok := b.Triple.subjectBlank(); ok {
			rootBlocks[s.ID] = append(rootBlocks[s.ID], b.Digest)
		}
	}
	for id, digests := range rootBlocks {
		sort.Strings(digests)
		candidates[id] = hashString(strings.Join(digests, ""))
	}
	walkBlocks(root, func(b *Block) {
		if b.Triple == nil {
			return
		}
		if o, ok := b.Triple.objectBlank(); ok {
			candidates[o.ID] = b.Digest
		}
	})

	owners := make(map[string]int, len(candidates))
	for _, cand := range candidates {
		owners[cand]++
	}

	labels := make(map[string]string, len(candidates))
	subjectOnly := make([]string, 0, len(rootBlocks))
	for id := range rootBlocks {
		subjectOnly = append(subjectOnly, id)
	}
	sort.Strings(subjectOnly)
	suffixes := make(map[string]int)
	for _, id := range subjectOnly {
		cand := candidates[id]
		if owners[cand] == 1 {
			labels[id] = cand
			continue
		}
		suffixes[cand]++
		labels[id] = cand + "-" + strconv.Itoa(suffixes[cand])
	}

	// Group blocks by subject, parents before children, so every subject
	// label exists before its objects are labeled.
	type group struct {
		subject string
		blocks  []*Block
	}
	var queue []group
	bySubject := make(map[string]int)
	for _, b := range root.Children {
		key := subjectLabel(b.Triple.S, labels)
		idx, ok := bySubject[key]
		if !ok {
			idx = len(queue)
			bySubject[key] = idx
			queue = append(queue, group{subject: key})
		}
		queue[idx].blocks = append(queue[idx].blocks, b)
	}

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		contextual := make(map[string]int)
		for _, b := range next.blocks {
			o, ok := b.Triple.objectBlank()
			if !ok {
				continue
			}
			cand := candidates[o.ID]
			if owners[cand] == 1 {
				labels[o.ID] = cand
			} else {
				scoped := hashString(next.subject + " " + cand)
				contextual[scoped]++
				labels[o.ID] = scoped + "-" + strconv.Itoa(contextual[scoped])
			}
			if len(b.Children) > 0 {
				queue = append(queue, group{subject: subjectLabel(o, labels), blocks: b.Children})
			}
		}
	}
	return labels
}

func subjectLabel(term Term, labels map[string]string) string {
	if b, ok := term.(BlankNode); ok {
		return "_:" + labels[b.ID]
	}
	return renderTerm(term)
}

// compareTriples implements the canonical total order. Zero means the order
// could not separate the triples.
func compareTriples(a, b Triple) int {
	if cmp := compareSubjects(a.S, b.S); cmp != 0 {
		return cmp
	}
	if cmp := strings.Compare(a.P.Value, b.P.Value); cmp != 0 {
		return cmp
	}
	return compareObjects(a.O, b.O)
}

// compareSubjects orders IRIs before blank nodes.
func compareSubjects(a, b Term) int {
	ra, rb := subjectRank(a), subjectRank(b)
	if ra != rb {
		return ra - rb
	}
	return strings.Compare(termKey(a), termKey(b))
}

func subjectRank(t Term) int {
	if _, ok := t.(BlankNode); ok {
		return 1
	}
	return 0
}

// compareObjects orders IRIs, then literals, then blank nodes.
func compareObjects(a, b Term) int {
	ra, rb := objectRank(a), objectRank(b)
	if ra != rb {
		return ra - rb
	}
	la, aLit := a.(Literal)
	lb, bLit := b.(Literal)
	if !aLit || !bLit {
		return strings.Compare(termKey(a), termKey(b))
	}
	aLang, bLang := la.Lang != "", lb.Lang != ""
	switch {
	case aLang && !bLang:
		return -1
	case !aLang && bLang:
		return 1
	case aLang:
		if cmp := strings.Compare(la.Lang, lb.Lang); cmp != 0 {
			return cmp
		}
	default:
		if cmp := strings.Compare(literalDatatype(la), literalDatatype(lb)); cmp != 0 {
			return cmp
		}
	}
	return strings.Compare(la.Lexical, lb.Lexical)
}

func objectRank(t Term) int {
	switch t.(type) {
	case IRI:
		return 0
	case Literal:
		return 1
	default:
		return 2
	}
}

func literalDatatype(l Literal) string {
	if l.Datatype.Value == "" {
		return XSDString
	}
	return l.Datatype.Value
}

func termKey(t Term) string {
	switch v := t.(type) {
	case IRI:
		return v.Value
	case BlankNode:
		return v.ID
	default:
		return t.String()
	}
}
