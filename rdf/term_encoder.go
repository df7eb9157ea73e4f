package rdf

import (
	"fmt"
	"strings"
)

// EncodeMode selects how EncodeTerm renders terms.
type EncodeMode uint8

const (
	// EncodeDigest erases blank node identity so that digests do not depend on labels.
	EncodeDigest EncodeMode = iota
	// EncodeDisplay renders valid, escaped Turtle term text.
	EncodeDisplay
)

// EncodeTerm converts a single term into its canonical text in the given mode.
func EncodeTerm(term Term, mode EncodeMode) (string, error) {
	switch value := term.(type) {
	case IRI:
		return encodeIRI(value, mode), nil
	case BlankNode:
		if mode == EncodeDigest {
			return "", nil
		}
		return value.String(), nil
	case Literal:
		return encodeLiteral(value, mode, func(dt IRI) string { return encodeIRI(dt, mode) })
	default:
		return "", fmt.Errorf("%w: unsupported term %T", ErrInvalidTriple, term)
	}
}

// encodeTripleForDigest returns "s p o" with blank nodes erased.
func encodeTripleForDigest(t Triple) (string, error) {
	s, err := EncodeTerm(t.S, EncodeDigest)
	if err != nil {
		return "", err
	}
	o, err := EncodeTerm(t.O, EncodeDigest)
	if err != nil {
		return "", err
	}
	return s + " " + encodeIRI(t.P, EncodeDigest) + " " + o, nil
}

// encodeIRI writes the IRI between angle brackets. Digest mode keeps the value
// as is; display mode escapes what N-Triples does not allow inside an IRI.
func encodeIRI(iri IRI, mode EncodeMode) string {
	if mode == EncodeDigest {
		return "<" + iri.Value + ">"
	}
	return renderIRI(iri)
}

// encodeLiteral quotes the lexical form and appends the language or datatype suffix.
// renderDatatype lets the printer shorten datatype IRIs.
func encodeLiteral(l Literal, mode EncodeMode, renderDatatype func(IRI) string) (string, error) {
	quoted, err := quoteLexical(l.Lexical, mode == EncodeDisplay)
	if err != nil {
		return "", err
	}
	switch {
	case l.Lang != "":
		return quoted + "@" + l.Lang, nil
	case l.Datatype.Value != "" && l.Datatype.Value != XSDString:
		return quoted + "^^" + renderDatatype(l.Datatype), nil
	default:
		return quoted, nil
	}
}

// quoteLexical applies the first quoting strategy that fits the lexical form.
// The delimiters are tried in this order:
//
//	"x"  'x'  '''x'''  """x"""
func quoteLexical(lexical string, escape bool) (string, error) {
	raw := lexical
	newline := strings.Contains(lexical, "\n") || (escape && strings.Contains(lexical, "\r"))
	if escape {
		lexical = strings.ReplaceAll(lexical, `\`, `\\`)
	}
	switch {
	case !newline && !strings.Contains(lexical, `"`):
		return `"` + lexical + `"`, nil
	case !newline && !strings.Contains(lexical, `'`):
		return `'` + lexical + `'`, nil
	case !strings.Contains(lexical, `'''`):
		return `'''` + escapeTrailingQuote(lexical, '\'', escape) + `'''`, nil
	case !strings.Contains(lexical, `"""`):
		return `"""` + escapeTrailingQuote(lexical, '"', escape) + `"""`, nil
	default:
		return "", &TermEncodingError{Lexical: raw}
	}
}

// escapeTrailingQuote keeps a long string from merging its last character into the
// closing delimiter, which a Turtle parser would otherwise misread.
func escapeTrailingQuote(lexical string, quote byte, escape bool) string {
	if !escape || lexical == "" || lexical[len(lexical)-1] != quote {
		return lexical
	}
	return lexical[:len(lexical)-1] + `\` + string(quote)
}
