package rdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

const (
	rdfLangString  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
	jsonldDefault  = "@default"
	blankIDPrefix  = "_:"
	nquadsMimeType = "application/n-quads"
)

// JSONLDOptions configures JSON-LD ingestion.
type JSONLDOptions struct {
	// Base resolves relative IRIs in the document.
	Base string
	// ProcessingMode is "json-ld-1.0" or "json-ld-1.1". Empty uses the processor default.
	ProcessingMode string
	// ExpandContext provides an external context for expansion.
	ExpandContext interface{}
	// SafeMode makes json-gold fail on lossy constructs instead of dropping them.
	SafeMode bool
	// MaxInputBytes limits the document size. Zero means unlimited.
	MaxInputBytes int64
	// DocumentLoader resolves remote contexts. Nil uses json-gold's HTTP loader.
	DocumentLoader DocumentLoader
}

// DocumentLoader resolves remote JSON-LD contexts and documents.
type DocumentLoader interface {
	LoadDocument(ctx context.Context, iri string) (RemoteDocument, error)
}

// RemoteDocument is a fetched JSON-LD document.
type RemoteDocument struct {
	DocumentURL string
	Document    interface{}
	ContextURL  string
}

// jsonGoldDocumentLoader adapts a DocumentLoader to json-gold, carrying the
// caller's context into each load.
type jsonGoldDocumentLoader struct {
	ctx   context.Context
	inner DocumentLoader
}

func (l jsonGoldDocumentLoader) LoadDocument(iri string) (*ld.RemoteDocument, error) {
	if err := l.ctx.Err(); err != nil {
		return nil, err
	}
	remote, err := l.inner.LoadDocument(l.ctx, iri)
	if err != nil {
		return nil, err
	}
	document := remote.Document
	// A bare context object is accepted and wrapped for json-gold.
	if m, ok := document.(map[string]interface{}); ok {
		if _, hasContext := m["@context"]; !hasContext {
			document = map[string]interface{}{"@context": m}
		}
	}
	return &ld.RemoteDocument{
		DocumentURL: remote.DocumentURL,
		Document:    document,
		ContextURL:  remote.ContextURL,
	}, nil
}

// ParseJSONLD converts a JSON-LD document to a graph. Only the default graph
// is kept; named graphs are ignored.
func ParseJSONLD(ctx context.Context, r io.Reader, opts JSONLDOptions) (*Graph, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.MaxInputBytes > 0 {
		r = io.LimitReader(r, opts.MaxInputBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if opts.MaxInputBytes > 0 && int64(len(data)) > opts.MaxInputBytes {
		return nil, wrapParseError("jsonld", "", 0, 0, fmt.Errorf("document exceeds %d bytes", opts.MaxInputBytes))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, wrapParseError("jsonld", "", 0, 0, err)
	}
	result, err := ld.NewJsonLdProcessor().ToRDF(doc, newJSONGoldOptions(ctx, opts))
	if err != nil {
		return nil, wrapParseError("jsonld", "", 0, 0, err)
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected ToRDF result %T", result)
	}

	g := &Graph{index: make(map[Triple]struct{})}
	for _, quad := range dataset.Graphs[jsonldDefault] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := tripleFromGold(quad)
		if err != nil {
			return nil, wrapParseError("jsonld", "", 0, 0, err)
		}
		if err := g.Add(t); err != nil {
			return nil, wrapParseError("jsonld", "", 0, 0, err)
		}
	}
	return g, nil
}

// NormalizeURDNA2015 returns the canonical N-Quads of g computed by json-gold's
// URDNA2015 implementation. Unlike Digest it accepts graphs where a blank node
// is referenced more than once.
func NormalizeURDNA2015(ctx context.Context, g *Graph) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var buf bytes.Buffer
	if err := WriteNTriples(&buf, g.Triples()); err != nil {
		return "", err
	}
	dataset, err := (&ld.NQuadRDFSerializer{}).Parse(buf.String())
	if err != nil {
		return "", fmt.Errorf("jsonld: parse n-quads: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	opts := ld.NewJsonLdOptions("")
	opts.Format = nquadsMimeType
	opts.Algorithm = ld.AlgorithmURDNA2015
	normalized, err := ld.NewJsonLdApi().Normalize(dataset, opts)
	if err != nil {
		return "", fmt.Errorf("jsonld: normalize: %w", err)
	}
	value, ok := normalized.(string)
	if !ok {
		return "", fmt.Errorf("jsonld: unexpected normalization result %T", normalized)
	}
	return value, nil
}

func newJSONGoldOptions(ctx context.Context, opts JSONLDOptions) *ld.JsonLdOptions {
	goldOpts := ld.NewJsonLdOptions(opts.Base)
	if opts.ProcessingMode != "" {
		goldOpts.ProcessingMode = opts.ProcessingMode
	}
	if opts.ExpandContext != nil {
		goldOpts.ExpandContext = opts.ExpandContext
	}
	goldOpts.SafeMode = opts.SafeMode
	if opts.DocumentLoader != nil {
		goldOpts.DocumentLoader = jsonGoldDocumentLoader{ctx: ctx, inner: opts.DocumentLoader}
	}
	return goldOpts
}

func tripleFromGold(quad *ld.Quad) (Triple, error) {
	if quad == nil {
		return Triple{}, fmt.Errorf("%w: nil quad", ErrInvalidTriple)
	}
	s, err := termFromGold(quad.Subject)
	if err != nil {
		return Triple{}, err
	}
	p, err := termFromGold(quad.Predicate)
	if err != nil {
		return Triple{}, err
	}
	predicate, ok := p.(IRI)
	if !ok {
		return Triple{}, fmt.Errorf("%w: predicate %s is not an IRI", ErrInvalidTriple, p)
	}
	o, err := termFromGold(quad.Object)
	if err != nil {
		return Triple{}, err
	}
	return Triple{S: s, P: predicate, O: o}, nil
}

func termFromGold(node ld.Node) (Term, error) {
	switch n := node.(type) {
	case *ld.IRI:
		return IRI{Value: n.Value}, nil
	case ld.IRI:
		return IRI{Value: n.Value}, nil
	case *ld.BlankNode:
		return BlankNode{ID: strings.TrimPrefix(n.Attribute, blankIDPrefix)}, nil
	case ld.BlankNode:
		return BlankNode{ID: strings.TrimPrefix(n.Attribute, blankIDPrefix)}, nil
	case *ld.Literal:
		return literalFromGold(n.Value, n.Datatype, n.Language), nil
	case ld.Literal:
		return literalFromGold(n.Value, n.Datatype, n.Language), nil
	default:
		return nil, fmt.Errorf("%w: unsupported JSON-LD node %T", ErrInvalidTriple, node)
	}
}

func literalFromGold(value, datatype, language string) Literal {
	if language != "" {
		return Literal{Lexical: value, Lang: language}
	}
	if datatype == rdfLangString {
		datatype = ""
	}
	return Literal{Lexical: value, Datatype: IRI{Value: datatype}}
}
