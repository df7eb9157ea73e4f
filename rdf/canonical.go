package rdf

import (
	_ "crypto/sha256" // registers SHA-256 for go-digest
	"fmt"
	"sort"
	"strings"

	"github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Block is one unit of canonicalization: a triple plus, when its object is a
// blank node, the blocks for every triple whose subject is that blank node.
// The synthetic root block has a nil Triple and one child per root triple.
type Block struct {
	Triple   *Triple
	Children []*Block
	// Digest is the hex SHA-256 of the block, filled in bottom-up.
	Digest string

	depth int
}

// Canonicalizer computes digests and canonical orderings of graphs.
// It holds no state between calls and is safe for concurrent use.
type Canonicalizer struct {
	opts Options
}

// NewCanonicalizer returns a canonicalizer configured with opts.
func NewCanonicalizer(opts ...Option) *Canonicalizer {
	return &Canonicalizer{opts: buildOptions(opts)}
}

var defaultCanonicalizer = NewCanonicalizer()

// Digest returns the graph digest with default options.
func Digest(g *Graph) (string, error) {
	return defaultCanonicalizer.Digest(g)
}

// Digest returns a hex SHA-256 digest of g that is invariant to blank node
// labels and triple order.
func (c *Canonicalizer) Digest(g *Graph) (string, error) {
	root, err := c.Forest(g)
	if err != nil {
		return "", err
	}
	return root.Digest, nil
}

// Forest builds and digests the block forest of g and returns its synthetic root.
func (c *Canonicalizer) Forest(g *Graph) (*Block, error) {
	triples := g.Triples()
	if c.opts.MaxTriples > 0 && int64(len(triples)) > c.opts.MaxTriples {
		return nil, fmt.Errorf("%w: %d triples, limit %d", ErrTripleLimitExceeded, len(triples), c.opts.MaxTriples)
	}
	objectRefs, err := validateSingleReference(triples)
	if err != nil {
		return nil, err
	}

	outgoing := make(map[string][]Triple)
	var roots []Triple
	for _, t := range triples {
		b, ok := t.subjectBlank()
		if !ok {
			roots = append(roots, t)
			continue
		}
		outgoing[b.ID] = append(outgoing[b.ID], t)
		if _, referenced := objectRefs[b.ID]; !referenced {
			roots = append(roots, t)
		}
	}

	root, stats, err := c.buildForest(roots, outgoing)
	if err != nil {
		return nil, err
	}
	if stats.blocks != len(triples) {
		return nil, unreachableCycle(triples, root)
	}
	if err := c.digestForest(root); err != nil {
		return nil, err
	}

	c.opts.Logger.WithFields(logrus.Fields{
		"triples": len(triples),
		"roots":   len(root.Children),
		"blocks":  stats.blocks,
		"depth":   stats.depth,
	}).Debug("rdf: canonical forest digested")
	return root, nil
}

// validateSingleReference returns the set of blank nodes used as objects, or an
// IllegalGraphError if one of them is the object of more than one triple.
func validateSingleReference(triples []Triple) (map[string]struct{}, error) {
	counts := make(map[string]int)
	for _, t := range triples {
		if b, ok := t.objectBlank(); ok {
			counts[b.ID]++
		}
	}
	var offenders []string
	refs := make(map[string]struct{}, len(counts))
	for id, n := range counts {
		refs[id] = struct{}{}
		if n > 1 {
			offenders = append(offenders, id)
		}
	}
	if len(offenders) > 0 {
		sort.Strings(offenders)
		return nil, &IllegalGraphError{BlankNode: offenders[0], Reason: "blank node referenced more than once"}
	}
	return refs, nil
}

// unreachableCycle reports the smallest blank node left outside the forest.
// Only blank nodes that reference each other in a cycle, with no root leading
// into them, can be missed by the forest walk.
func unreachableCycle(triples []Triple, root *Block) error {
	covered := make(map[Triple]struct{}, len(triples))
	walkBlocks(root, func(b *Block) {
		if b.Triple != nil {
			covered[*b.Triple] = struct{}{}
		}
	})
	var ids []string
	for _, t := range triples {
		if _, ok := covered[t]; ok {
			continue
		}
		if b, ok := t.subjectBlank(); ok {
			ids = append(ids, b.ID)
		}
	}
	sort.Strings(ids)
	id := ""
	if len(ids) > 0 {
		id = ids[0]
	}
	return &IllegalGraphError{BlankNode: id, Reason: "unreachable blank-node cycle"}
}

type forestStats struct {
	blocks int
	depth  int
}

// buildForest attaches children with an explicit stack so that deep blank
// node chains cannot exhaust the goroutine stack.
func (c *Canonicalizer) buildForest(roots []Triple, outgoing map[string][]Triple) (*Block, forestStats, error) {
	var stats forestStats
	root := &Block{Children: make([]*Block, 0, len(roots))}
	stack := make([]*Block, 0, len(roots))
	for i := range roots {
		b := &Block{Triple: &roots[i], depth: 1}
		root.Children = append(root.Children, b)
		stack = append(stack, b)
	}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stats.blocks++
		stats.depth = max(stats.depth, b.depth)
		if c.opts.MaxDepth > 0 && b.depth > c.opts.MaxDepth {
			return nil, stats, fmt.Errorf("%w: blank node nesting deeper than %d", ErrDepthExceeded, c.opts.MaxDepth)
		}
		obj, ok := b.Triple.objectBlank()
		if !ok {
			continue
		}
		children := outgoing[obj.ID]
		b.Children = make([]*Block, 0, len(children))
		for i := range children {
			child := &Block{Triple: &children[i], depth: b.depth + 1}
			b.Children = append(b.Children, child)
			stack = append(stack, child)
		}
	}
	return root, stats, nil
}

// digestForest digests every root subtree, optionally in parallel, then the root.
func (c *Canonicalizer) digestForest(root *Block) error {
	if c.opts.Workers < 2 || len(root.Children) < 2 {
		for _, b := range root.Children {
			if err := digestTree(b); err != nil {
				return err
			}
		}
		return root.computeDigest()
	}
	var group errgroup.Group
	group.SetLimit(c.opts.Workers)
	for _, b := range root.Children {
		group.Go(func() error { return digestTree(b) })
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return root.computeDigest()
}

// digestTree computes digests in post-order. Reversed breadth-first order
// visits every child before its parent.
func digestTree(top *Block) error {
	order := []*Block{top}
	for i := 0; i < len(order); i++ {
		order = append(order, order[i].Children...)
	}
	for i := len(order) - 1; i >= 0; i-- {
		if err := order[i].computeDigest(); err != nil {
			return err
		}
	}
	return nil
}

// computeDigest hashes the sorted child digests followed by the block's own
// triple encoding. Children must already be digested.
func (b *Block) computeDigest() error {
	var buf strings.Builder
	if len(b.Children) > 0 {
		sort.SliceStable(b.Children, func(i, j int) bool {
			return b.Children[i].Digest < b.Children[j].Digest
		})
		for _, child := range b.Children {
			buf.WriteString(child.Digest)
		}
	}
	if b.Triple != nil {
		enc, err := encodeTripleForDigest(*b.Triple)
		if err != nil {
			return err
		}
		buf.WriteString(enc)
	}
	b.Digest = hashString(buf.String())
	return nil
}

// walkBlocks visits b and its descendants breadth-first.
func walkBlocks(b *Block, fn func(*Block)) {
	queue := []*Block{b}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		fn(next)
		queue = append(queue, next.Children...)
	}
}

func hashString(s string) string {
	return digest.SHA256.FromString(s).Encoded()
}
