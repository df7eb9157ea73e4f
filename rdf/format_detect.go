package rdf

import (
	"bufio"
	"bytes"
	"io"
)

const detectSampleBytes = 512

// DetectFormat guesses the format of an input from its first bytes.
// JSON-LD starts with '{' or '['; N-Triples starts with an IRI, a blank
// node or a comment.
func DetectFormat(sample []byte) (Format, bool) {
	sample = bytes.TrimSpace(sample)
	if len(sample) == 0 {
		return "", false
	}
	switch {
	case sample[0] == '{' || sample[0] == '[':
		return FormatJSONLD, true
	case sample[0] == '<' || sample[0] == '#' || bytes.HasPrefix(sample, []byte("_:")):
		return FormatNTriples, true
	default:
		return "", false
	}
}

// detectReader peeks at r and returns the detected format together with a
// reader that still yields the full input.
func detectReader(r io.Reader) (Format, io.Reader, bool) {
	br := bufio.NewReaderSize(r, detectSampleBytes)
	sample, _ := br.Peek(detectSampleBytes)
	if len(bytes.TrimSpace(sample)) == 0 {
		// Blank input is an empty N-Triples document.
		return FormatNTriples, br, true
	}
	format, ok := DetectFormat(sample)
	return format, br, ok
}
