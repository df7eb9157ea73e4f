package rdf

import "strings"

// isPrefixLabel reports whether value is a usable prefix label. The empty
// label is allowed and renders as ":local".
func isPrefixLabel(value string) bool {
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 && !isNameStartChar(ch) {
			return false
		}
		if !isNameChar(ch) {
			return false
		}
	}
	return value == "" || value[len(value)-1] != '.'
}

// isQNameLocal reports whether value can follow "prefix:" without escaping.
// Slashes and hashes are excluded so that shortened names never hide a path.
func isQNameLocal(value string) bool {
	if value == "" || strings.ContainsAny(value, "/#") {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 {
			if !isNameStartChar(ch) && !isDigit(ch) {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return value[len(value)-1] != '.'
}

func isNameStartChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStartChar(ch) || isDigit(ch) || ch == '-' || ch == '.'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// abbreviateQName shortens iri against the longest matching namespace.
func abbreviateQName(iri string, prefixes map[string]string) (string, bool) {
	bestNS := ""
	bestPrefix := ""
	found := false
	for prefix, ns := range prefixes {
		if !strings.HasPrefix(iri, ns) || !isQNameLocal(iri[len(ns):]) {
			continue
		}
		// Ties on namespace length go to the smaller label so output is stable.
		if !found || len(ns) > len(bestNS) || (len(ns) == len(bestNS) && prefix < bestPrefix) {
			bestNS = ns
			bestPrefix = prefix
			found = true
		}
	}
	if !found {
		return "", false
	}
	return bestPrefix + ":" + iri[len(bestNS):], true
}
