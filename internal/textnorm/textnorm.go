// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm normalises tool names, titles, URLs and person
// identifiers so that values from publications and from the catalog can be
// compared.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var notAlphanum = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Fold decomposes s (NFKD), drops combining marks and lowercases the result.
func Fold(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Process returns the lowercase alphanumeric tokens of s.
func Process(s string) []string {
	return strings.Fields(notAlphanum.ReplaceAllString(Fold(s), " "))
}

// ProcessString returns the tokens of Process joined by single spaces.
func ProcessString(s string) string {
	return strings.Join(Process(s), " ")
}

// AlphanumOnly removes everything but letters and digits.
func AlphanumOnly(s string) string {
	return notAlphanum.ReplaceAllString(s, "")
}

// SplitNotAlphanum splits s on runs of characters that are not letters or digits.
func SplitNotAlphanum(s string) []string {
	return notAlphanum.Split(s, -1)
}

// Words splits s on single spaces, as first-pass names are space-joined.
func Words(s string) []string {
	return strings.Split(s, " ")
}
