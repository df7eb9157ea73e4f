package rdf

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseNTriples reads an N-Triples document into a graph.
// MaxTriples and Context from opts are honored.
func ParseNTriples(ctx context.Context, r io.Reader, opts ...Option) (*Graph, error) {
	options := buildOptions(append([]Option{OptContext(ctx)}, opts...))
	dec := newNTriplesDecoder(r)
	g := &Graph{index: make(map[Triple]struct{})}
	for {
		if err := options.Context.Err(); err != nil {
			return nil, err
		}
		t, err := dec.Next()
		if err == io.EOF {
			return g, nil
		}
		if err != nil {
			return nil, err
		}
		if options.MaxTriples > 0 && int64(dec.count) > options.MaxTriples {
			return nil, wrapParseError("ntriples", "", dec.line, 0, ErrTripleLimitExceeded)
		}
		if err := g.Add(t); err != nil {
			return nil, wrapParseError("ntriples", "", dec.line, 0, err)
		}
	}
}

type ntDecoder struct {
	reader *bufio.Reader
	line   int
	count  int
}

func newNTriplesDecoder(r io.Reader) *ntDecoder {
	return &ntDecoder{reader: bufio.NewReader(r)}
}

// Next returns the next triple, or io.EOF at end of input.
func (d *ntDecoder) Next() (Triple, error) {
	for {
		line, err := d.readLine()
		if err != nil {
			return Triple{}, err
		}
		d.line++
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cursor := &ntCursor{input: line}
		t, err := cursor.parseTriple()
		if err != nil {
			return Triple{}, wrapParseError("ntriples", line, d.line, cursor.pos+1, err)
		}
		d.count++
		return t, nil
	}
}

func (d *ntDecoder) readLine() (string, error) {
	line, err := d.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return line, nil
		}
		return "", err
	}
	return line, nil
}

type ntCursor struct {
	input string
	pos   int
}

var errNTSyntax = errors.New("syntax error")

func (c *ntCursor) parseTriple() (Triple, error) {
	subject, err := c.parseTerm(false)
	if err != nil {
		return Triple{}, err
	}
	predicate, err := c.parseIRI()
	if err != nil {
		return Triple{}, err
	}
	object, err := c.parseTerm(true)
	if err != nil {
		return Triple{}, err
	}
	if !c.consume('.') {
		return Triple{}, c.errorf("expected '.' at end of statement")
	}
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] != '#' {
		return Triple{}, c.errorf("unexpected content after '.'")
	}
	return Triple{S: subject, P: predicate, O: object}, nil
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorf("unexpected end of line")
	}
	switch {
	case c.input[c.pos] == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		if !allowLiteral {
			return nil, c.errorf("literal not allowed here")
		}
		return c.parseLiteral()
	default:
		return nil, c.errorf("unexpected token")
	}
}

func (c *ntCursor) parseIRI() (IRI, error) {
	if !c.consume('<') {
		return IRI{}, c.errorf("expected IRI")
	}
	var builder strings.Builder
	for c.pos < len(c.input) && c.input[c.pos] != '>' {
		if c.input[c.pos] == '\\' {
			r, err := c.parseUnicodeEscape()
			if err != nil {
				return IRI{}, err
			}
			builder.WriteRune(r)
			continue
		}
		builder.WriteByte(c.input[c.pos])
		c.pos++
	}
	if c.pos >= len(c.input) {
		return IRI{}, c.errorf("unterminated IRI")
	}
	c.pos++
	return IRI{Value: builder.String()}, nil
}

func (c *ntCursor) parseBlankNode() (BlankNode, error) {
	c.pos += 2
	start := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	// A label may not end with '.', which belongs to the statement terminator.
	for c.pos > start && c.input[c.pos-1] == '.' {
		c.pos--
	}
	if start == c.pos {
		return BlankNode{}, c.errorf("blank node id missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *ntCursor) parseLiteral() (Literal, error) {
	if !c.consume('"') {
		return Literal{}, c.errorf("expected literal")
	}
	var builder strings.Builder
	closed := false
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		if ch == '"' {
			c.pos++
			closed = true
			break
		}
		if ch != '\\' {
			builder.WriteByte(ch)
			c.pos++
			continue
		}
		if c.pos+1 >= len(c.input) {
			return Literal{}, c.errorf("unterminated escape")
		}
		switch next := c.input[c.pos+1]; next {
		case 'u', 'U':
			r, err := c.parseUnicodeEscape()
			if err != nil {
				return Literal{}, err
			}
			builder.WriteRune(r)
			continue
		case 'n':
			builder.WriteByte('\n')
		case 't':
			builder.WriteByte('\t')
		case 'r':
			builder.WriteByte('\r')
		case 'b':
			builder.WriteByte('\b')
		case 'f':
			builder.WriteByte('\f')
		case '"', '\'', '\\':
			builder.WriteByte(next)
		default:
			return Literal{}, c.errorf("invalid escape \\%c", next)
		}
		c.pos += 2
	}
	if !closed {
		return Literal{}, c.errorf("unterminated literal")
	}
	lexical := builder.String()
	if strings.HasPrefix(c.input[c.pos:], "@") {
		c.pos++
		start := c.pos
		for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) && c.input[c.pos] != '.' {
			c.pos++
		}
		if start == c.pos {
			return Literal{}, c.errorf("language tag missing")
		}
		return Literal{Lexical: lexical, Lang: c.input[start:c.pos]}, nil
	}
	if strings.HasPrefix(c.input[c.pos:], "^^") {
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return Literal{}, err
		}
		return Literal{Lexical: lexical, Datatype: dt}, nil
	}
	return Literal{Lexical: lexical}, nil
}

// parseUnicodeEscape decodes \uXXXX or \UXXXXXXXX at the cursor.
func (c *ntCursor) parseUnicodeEscape() (rune, error) {
	if c.pos+1 >= len(c.input) {
		return 0, c.errorf("unterminated escape")
	}
	width := 0
	switch c.input[c.pos+1] {
	case 'u':
		width = 4
	case 'U':
		width = 8
	default:
		return 0, c.errorf("invalid escape \\%c", c.input[c.pos+1])
	}
	start := c.pos + 2
	if start+width > len(c.input) {
		return 0, c.errorf("truncated unicode escape")
	}
	code, err := strconv.ParseUint(c.input[start:start+width], 16, 32)
	if err != nil || !utf8.ValidRune(rune(code)) {
		return 0, c.errorf("invalid unicode escape %q", c.input[c.pos:start+width])
	}
	c.pos = start + width
	return rune(code), nil
}

func (c *ntCursor) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{errNTSyntax}, args...)...)
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}

// WriteNTriples writes triples as N-Triples lines in the given order.
func WriteNTriples(w io.Writer, triples []Triple) error {
	bw := bufio.NewWriter(w)
	for _, t := range triples {
		if err := t.Validate(); err != nil {
			return err
		}
		if _, err := bw.WriteString(t.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func renderIRI(iri IRI) string {
	var buf strings.Builder
	buf.Grow(len(iri.Value) + 2)
	buf.WriteByte('<')
	for _, r := range iri.Value {
		if r <= 0x20 || strings.ContainsRune(`<>"{}|^`+"`\\", r) {
			fmt.Fprintf(&buf, "\\u%04X", r)
			continue
		}
		buf.WriteRune(r)
	}
	buf.WriteByte('>')
	return buf.String()
}

// renderTerm renders a term in N-Triples syntax.
func renderTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		return renderIRI(value)
	case BlankNode:
		return value.String()
	case Literal:
		quoted := quoteNTriples(value.Lexical)
		if value.Lang != "" {
			return quoted + "@" + value.Lang
		}
		if value.Datatype.Value != "" && value.Datatype.Value != XSDString {
			return quoted + "^^" + renderIRI(value.Datatype)
		}
		return quoted
	default:
		return ""
	}
}

// ntEscapes gives shortcut escape sequences for common control characters.
var ntEscapes = map[rune]string{
	'\t': `\t`,
	'\b': `\b`,
	'\n': `\n`,
	'\r': `\r`,
	'\f': `\f`,
	'"':  `\"`,
	'\\': `\\`,
}

// quoteNTriples produces a double-quoted N-Triples string literal.
func quoteNTriples(s string) string {
	var buf strings.Builder
	buf.Grow(len(s) + 2)
	buf.WriteByte('"')
	for _, r := range s {
		if esc, ok := ntEscapes[r]; ok {
			buf.WriteString(esc)
			continue
		}
		switch {
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&buf, "\\u%04X", r)
		case r == utf8.RuneError:
			buf.WriteString(`\uFFFD`)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}
