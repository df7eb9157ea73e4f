package rdf

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultIndentWidth is the predicate indentation used by the CLI.
const DefaultIndentWidth = 4

// PrinterConfig configures canonical text output.
type PrinterConfig struct {
	// Base, when set, shortens IRIs under it to relative references.
	Base string
	// Prefixes maps prefix labels to namespace IRIs.
	Prefixes map[string]string
	// IndentWidth is the number of spaces before each predicate. Must be positive.
	IndentWidth int
}

// Printer renders canonical triple sequences as Turtle text.
type Printer struct {
	cfg    PrinterConfig
	indent string
}

// NewPrinter validates cfg and returns a printer.
func NewPrinter(cfg PrinterConfig) (*Printer, error) {
	if cfg.IndentWidth <= 0 {
		return nil, &ConfigurationError{Field: "indent", Reason: fmt.Sprintf("must be positive, got %d", cfg.IndentWidth)}
	}
	if cfg.Base != "" {
		if err := ValidateIRI(cfg.Base); err != nil {
			return nil, &ConfigurationError{Field: "base", Reason: err.Error()}
		}
	}
	prefixes := make(map[string]string, len(cfg.Prefixes))
	for label, ns := range cfg.Prefixes {
		if !isPrefixLabel(label) {
			return nil, &ConfigurationError{Field: "prefixes", Reason: fmt.Sprintf("invalid prefix label %q", label)}
		}
		if ns == "" {
			return nil, &ConfigurationError{Field: "prefixes", Reason: fmt.Sprintf("empty namespace for prefix %q", label)}
		}
		if err := ValidateIRI(ns); err != nil {
			return nil, &ConfigurationError{Field: "prefixes", Reason: err.Error()}
		}
		prefixes[label] = ns
	}
	cfg.Prefixes = prefixes
	return &Printer{cfg: cfg, indent: strings.Repeat(" ", cfg.IndentWidth)}, nil
}

// Render renders triples with a printer built from cfg.
func Render(triples []Triple, cfg PrinterConfig) (string, error) {
	p, err := NewPrinter(cfg)
	if err != nil {
		return "", err
	}
	return p.Render(triples)
}

// Render groups consecutive triples by subject, then by predicate, keeping
// the order of the input. Pass the output of CanonicalOrder for canonical text.
func (p *Printer) Render(triples []Triple) (string, error) {
	var out strings.Builder
	p.writeHeader(&out)
	if out.Len() > 0 && len(triples) > 0 {
		out.WriteByte('\n')
	}

	for i := 0; i < len(triples); {
		subject := triples[i].S
		end := i
		for end < len(triples) && triples[end].S == subject {
			end++
		}
		if i > 0 {
			out.WriteByte('\n')
		}
		if err := p.writeSubject(&out, triples[i:end]); err != nil {
			return "", err
		}
		i = end
	}
	return out.String(), nil
}

func (p *Printer) writeHeader(out *strings.Builder) {
	if p.cfg.Base != "" {
		out.WriteString("@base " + renderIRI(IRI{Value: p.cfg.Base}) + " .\n")
	}
	labels := make([]string, 0, len(p.cfg.Prefixes))
	for label := range p.cfg.Prefixes {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		out.WriteString("@prefix " + label + ": " + renderIRI(IRI{Value: p.cfg.Prefixes[label]}) + " .\n")
	}
}

// writeSubject writes one subject group; every triple shares the subject.
func (p *Printer) writeSubject(out *strings.Builder, triples []Triple) error {
	subject, err := p.term(triples[0].S)
	if err != nil {
		return err
	}
	out.WriteString(subject)
	out.WriteByte('\n')

	for i := 0; i < len(triples); {
		predicate := triples[i].P
		end := i
		objects := make([]string, 0, 1)
		for end < len(triples) && triples[end].P == predicate {
			obj, err := p.term(triples[end].O)
			if err != nil {
				return err
			}
			objects = append(objects, obj)
			end++
		}
		out.WriteString(p.indent)
		out.WriteString(p.predicate(predicate))
		out.WriteByte(' ')
		out.WriteString(strings.Join(objects, ", "))
		if end == len(triples) {
			out.WriteString(" .\n")
		} else {
			out.WriteString(" ;\n")
		}
		i = end
	}
	return nil
}

func (p *Printer) predicate(iri IRI) string {
	if iri.Value == RDFType {
		return "a"
	}
	return p.iri(iri)
}

func (p *Printer) term(term Term) (string, error) {
	switch value := term.(type) {
	case IRI:
		return p.iri(value), nil
	case Literal:
		return encodeLiteral(value, EncodeDisplay, p.iri)
	default:
		return EncodeTerm(term, EncodeDisplay)
	}
}

// iri shortens against the base first, then against the namespace map.
func (p *Printer) iri(iri IRI) string {
	if base := p.cfg.Base; base != "" && strings.HasPrefix(iri.Value, base) {
		if rest := iri.Value[len(base):]; !strings.ContainsAny(rest, "/#:") {
			return renderIRI(IRI{Value: rest})
		}
	}
	if qname, ok := abbreviateQName(iri.Value, p.cfg.Prefixes); ok {
		return qname
	}
	return renderIRI(iri)
}
