package rdf

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format names an input syntax ParseGraph understands.
type Format string

const (
	// FormatAuto detects the format from the first bytes of the input.
	FormatAuto Format = "auto"
	// FormatNTriples is the N-Triples line format.
	FormatNTriples Format = "ntriples"
	// FormatJSONLD is JSON-LD, converted through json-gold.
	FormatJSONLD Format = "jsonld"
)

// ResolveFormat resolves a format name, accepting common aliases.
// The empty name selects FormatAuto.
func ResolveFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatAuto, nil
	case "ntriples", "nt", "n-triples":
		return FormatNTriples, nil
	case "jsonld", "json-ld":
		return FormatJSONLD, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// ResolveFormatFromPath infers the format from a filename extension.
func ResolveFormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nt":
		return FormatNTriples, nil
	case ".jsonld", ".json":
		return FormatJSONLD, nil
	default:
		return "", fmt.Errorf("%w: cannot infer format for %q", ErrUnsupportedFormat, path)
	}
}

// ParseGraph reads a graph in the given format.
func ParseGraph(ctx context.Context, r io.Reader, format Format, opts ...Option) (*Graph, error) {
	if format == FormatAuto {
		detected, buffered, ok := detectReader(r)
		if !ok {
			return nil, fmt.Errorf("%w: cannot detect input format", ErrUnsupportedFormat)
		}
		format, r = detected, buffered
	}
	switch format {
	case FormatNTriples:
		return ParseNTriples(ctx, r, opts...)
	case FormatJSONLD:
		g, err := ParseJSONLD(ctx, r, JSONLDOptions{})
		if err != nil {
			return nil, err
		}
		options := buildOptions(opts)
		if options.MaxTriples > 0 && int64(g.Len()) > options.MaxTriples {
			return nil, fmt.Errorf("%w: %d triples, limit %d", ErrTripleLimitExceeded, g.Len(), options.MaxTriples)
		}
		return g, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
