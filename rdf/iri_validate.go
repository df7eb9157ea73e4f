package rdf

import (
	"fmt"
	"net/url"
)

// ValidateIRI reports whether iri is an absolute IRI usable as a base or
// namespace. It checks for a scheme that starts with a letter and rejects
// characters that N-Triples would have to escape.
func ValidateIRI(iri string) error {
	if iri == "" {
		return fmt.Errorf("empty IRI")
	}
	parsed, err := url.Parse(iri)
	if err != nil {
		return fmt.Errorf("invalid IRI syntax: %w", err)
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("IRI %q has no scheme", iri)
	}
	if first := parsed.Scheme[0]; !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return fmt.Errorf("scheme must start with a letter: %s", iri)
	}
	for i, r := range iri {
		if r <= 0x20 {
			return fmt.Errorf("invalid character %U at position %d in IRI %q", r, i, iri)
		}
		switch r {
		case '<', '>', '"', '{', '}', '|', '^', '`', '\\':
			return fmt.Errorf("invalid character '%c' at position %d in IRI %q", r, i, iri)
		}
	}
	return nil
}
