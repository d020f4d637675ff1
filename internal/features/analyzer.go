// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes s (NFKD) and drops every non-ASCII rune, so
// "Señor Café" becomes "Senor Cafe".
func stripAccents(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r < unicode.MaxASCII+1 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// analyze turns text into the term sequence used by the TF-IDF vectorizers:
// accents stripped, lowercased, runs of two or more word characters,
// English stop words removed. Repeated terms are kept.
func analyze(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(stripAccents(text)), func(r rune) bool {
		return !isWordRune(r)
	})
	terms := words[:0]
	for _, w := range words {
		if len(w) < 2 || englishStopWords[w] {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}

// splitTags splits a comma-separated subject field into trimmed, lowercased
// tags. Empty tags are dropped.
func splitTags(subject string) []string {
	parts := strings.Split(subject, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tag := strings.ToLower(strings.TrimSpace(p))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
