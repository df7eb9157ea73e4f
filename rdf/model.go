package rdf

import "fmt"

// XSDString is the datatype of plain string literals.
const XSDString = "http://www.w3.org/2001/XMLSchema#string"

// RDFType is the rdf:type predicate.
const RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

// Term is a value that can appear in RDF statements.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI (a named node).
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode represents an RDF blank node.
type BlankNode struct {
	// ID is the graph-local blank node identifier.
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal represents an RDF literal.
// At most one of Lang and Datatype is set.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI, if any.
	Datatype IRI
	// Lang is the language tag, if any.
	Lang string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype.Value != "" {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype.Value)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// IsPlain reports whether the literal carries plain string semantics.
func (l Literal) IsPlain() bool {
	return l.Lang == "" && (l.Datatype.Value == "" || l.Datatype.Value == XSDString)
}

// Triple is an RDF triple.
type Triple struct {
	// S is the subject, an IRI or a BlankNode.
	S Term
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
}

// NewTriple builds a triple from its parts.
func NewTriple(s Term, p IRI, o Term) Triple {
	return Triple{S: s, P: p, O: o}
}

// String returns the triple in N-Triples-like notation.
func (t Triple) String() string {
	s, o := "<nil>", "<nil>"
	if t.S != nil {
		s = renderTerm(t.S)
	}
	if t.O != nil {
		o = renderTerm(t.O)
	}
	return s + " " + renderIRI(t.P) + " " + o + " ."
}

// Validate reports whether the triple is well formed.
func (t Triple) Validate() error {
	switch t.S.(type) {
	case IRI, BlankNode:
	case nil:
		return fmt.Errorf("%w: missing subject", ErrInvalidTriple)
	default:
		return fmt.Errorf("%w: subject must be an IRI or blank node, got %s", ErrInvalidTriple, t.S.String())
	}
	if t.P.Value == "" {
		return fmt.Errorf("%w: missing predicate", ErrInvalidTriple)
	}
	switch o := t.O.(type) {
	case IRI, BlankNode:
	case Literal:
		if o.Lang != "" && o.Datatype.Value != "" {
			return fmt.Errorf("%w: literal %q has both language and datatype", ErrInvalidTriple, o.Lexical)
		}
	case nil:
		return fmt.Errorf("%w: missing object", ErrInvalidTriple)
	default:
		return fmt.Errorf("%w: unsupported object term %T", ErrInvalidTriple, t.O)
	}
	return nil
}

// subjectBlank returns the blank node in subject position, if any.
func (t Triple) subjectBlank() (BlankNode, bool) {
	b, ok := t.S.(BlankNode)
	return b, ok
}

// objectBlank returns the blank node in object position, if any.
func (t Triple) objectBlank() (BlankNode, bool) {
	b, ok := t.O.(BlankNode)
	return b, ok
}
