// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textnorm

import "strings"

var orcidPrefixes = []string{"https://orcid.org/", "http://orcid.org/", "orcid.org/"}

// SameName reports whether two person names are equal after folding case,
// diacritics and punctuation. Empty names never match.
func SameName(a, b string) bool {
	pa, pb := ProcessString(a), ProcessString(b)
	return pa != "" && pa == pb
}

// SameORCID reports whether two ORCID iDs are equal, ignoring resolver prefixes.
func SameORCID(a, b string) bool {
	na, nb := normalizeORCID(a), normalizeORCID(b)
	return na != "" && na == nb
}

// SameEmail reports whether two e-mail addresses are equal ignoring case.
func SameEmail(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

// SamePerson reports whether the name, ORCID or e-mail of two people agree.
func SamePerson(nameA, orcidA, emailA, nameB, orcidB, emailB string) bool {
	return SameName(nameA, nameB) || SameORCID(orcidA, orcidB) || SameEmail(emailA, emailB)
}

func normalizeORCID(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, p := range orcidPrefixes {
		if strings.HasPrefix(lower, p) {
			return strings.ToUpper(s[len(p):])
		}
	}
	return strings.ToUpper(s)
}
