package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeIllegalGraph indicates a graph that cannot be canonicalized.
	ErrCodeIllegalGraph ErrorCode = "ILLEGAL_GRAPH"
	// ErrCodeTermEncoding indicates a literal that no quoting strategy can represent.
	ErrCodeTermEncoding ErrorCode = "TERM_ENCODING"
	// ErrCodeConfiguration indicates an invalid printer or canonicalizer configuration.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"
	// ErrCodeInvalidTriple indicates a malformed triple.
	ErrCodeInvalidTriple ErrorCode = "INVALID_TRIPLE"
	// ErrCodeUnresolvedOrder indicates two distinct triples that compare equal.
	ErrCodeUnresolvedOrder ErrorCode = "UNRESOLVED_ORDER"
	// ErrCodeDepthExceeded indicates that nesting depth exceeded the configured limit.
	ErrCodeDepthExceeded ErrorCode = "DEPTH_EXCEEDED"
	// ErrCodeTripleLimitExceeded indicates that the maximum number of triples was exceeded.
	ErrCodeTripleLimitExceeded ErrorCode = "TRIPLE_LIMIT_EXCEEDED"
	// ErrCodeUnsupportedFormat indicates an unsupported input format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeParseError indicates a general parse error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeUnknown indicates an error this package did not produce.
	ErrCodeUnknown ErrorCode = "UNKNOWN"
)

var (
	// ErrIllegalGraph indicates a graph outside the canonicalizable class.
	ErrIllegalGraph = errors.New("rdf: illegal graph")
	// ErrUnquotableLiteral indicates a literal containing every quoting delimiter.
	ErrUnquotableLiteral = errors.New("rdf: literal cannot be quoted")
	// ErrInvalidConfiguration indicates a rejected configuration value.
	ErrInvalidConfiguration = errors.New("rdf: invalid configuration")
	// ErrInvalidTriple indicates a malformed triple.
	ErrInvalidTriple = errors.New("rdf: invalid triple")
	// ErrUnresolvedOrder indicates two distinct triples the canonical order cannot separate.
	ErrUnresolvedOrder = errors.New("rdf: canonical order left two triples unresolved")
	// ErrDepthExceeded indicates that blank node nesting exceeded the configured limit.
	ErrDepthExceeded = errors.New("rdf: nesting depth exceeded configured limit")
	// ErrTripleLimitExceeded indicates that the maximum number of triples was exceeded.
	ErrTripleLimitExceeded = errors.New("rdf: maximum number of triples exceeded")
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("rdf: unsupported format")
)

// Code returns the error code for an error.
// Returns empty string for nil errors or io.EOF (which is not an error condition).
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrIllegalGraph):
		return ErrCodeIllegalGraph
	case errors.Is(err, ErrUnquotableLiteral):
		return ErrCodeTermEncoding
	case errors.Is(err, ErrInvalidConfiguration):
		return ErrCodeConfiguration
	case errors.Is(err, ErrInvalidTriple):
		return ErrCodeInvalidTriple
	case errors.Is(err, ErrUnresolvedOrder):
		return ErrCodeUnresolvedOrder
	case errors.Is(err, ErrDepthExceeded):
		return ErrCodeDepthExceeded
	case errors.Is(err, ErrTripleLimitExceeded):
		return ErrCodeTripleLimitExceeded
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return ErrCodeParseError
	}
	return ErrCodeUnknown
}

// IllegalGraphError reports a graph the canonicalizer refuses to process.
type IllegalGraphError struct {
	BlankNode string // Offending blank node id, without the "_:" prefix
	Reason    string
}

func (e *IllegalGraphError) Error() string {
	if e.BlankNode == "" {
		return "rdf: illegal graph: " + e.Reason
	}
	return fmt.Sprintf("rdf: illegal graph: %s (_:%s)", e.Reason, e.BlankNode)
}

func (e *IllegalGraphError) Unwrap() error { return ErrIllegalGraph }

// TermEncodingError reports a literal that cannot be quoted.
type TermEncodingError struct {
	Lexical string
}

func (e *TermEncodingError) Error() string {
	return fmt.Sprintf("rdf: literal %s contains every quoting delimiter", excerpt(e.Lexical, 40))
}

func (e *TermEncodingError) Unwrap() error { return ErrUnquotableLiteral }

// ConfigurationError reports an invalid configuration value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rdf: invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrInvalidConfiguration }

// ParseError provides structured context for parse failures.
type ParseError struct {
	Format    string // Format name (e.g., "ntriples", "jsonld")
	Statement string // Offending statement or input excerpt
	Line      int    // 1-based line number (0 if unknown)
	Column    int    // 1-based column number (0 if unknown)
	Err       error  // Underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Format)
	if e.Line > 0 {
		if e.Column > 0 {
			fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
		} else {
			fmt.Fprintf(&msg, ":%d", e.Line)
		}
	}
	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())
	if e.Statement != "" {
		msg.WriteString("\n  ")
		msg.WriteString(e.formatExcerpt())
	}
	return msg.String()
}

// formatExcerpt shows the statement around the error column with a caret.
func (e *ParseError) formatExcerpt() string {
	const contextLen = 40

	if e.Column <= 0 {
		return excerpt(e.Statement, 2*contextLen)
	}
	start := e.Column - 1
	if start > len(e.Statement) {
		start = len(e.Statement)
	}
	from := max(start-contextLen, 0)
	to := min(start+contextLen, len(e.Statement))

	out := e.Statement[from:to]
	caret := start - from
	if from > 0 {
		out = "..." + out
		caret += 3
	}
	if to < len(e.Statement) {
		out += "..."
	}
	return out + "\n  " + strings.Repeat(" ", caret) + "^"
}

func (e *ParseError) Unwrap() error { return e.Err }

// wrapParseError adds format/position context to a parse error.
func wrapParseError(format, statement string, line, column int, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if line == 0 {
			line = parseErr.Line
		}
		if column == 0 {
			column = parseErr.Column
		}
	}
	return &ParseError{
		Format:    format,
		Statement: statement,
		Line:      line,
		Column:    column,
		Err:       err,
	}
}

func excerpt(s string, limit int) string {
	if len(s) > limit {
		return fmt.Sprintf("%q...", s[:limit])
	}
	return fmt.Sprintf("%q", s)
}
