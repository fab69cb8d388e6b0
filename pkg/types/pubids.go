// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// PubIDs identifies one publication by any of its three identifiers.
// Any field may be empty.
type PubIDs struct {
	// PMID is the PubMed identifier (e.g. "31307532").
	PMID string `json:"pmid,omitempty" yaml:"pmid,omitempty"`

	// PMCID is the PubMed Central identifier (e.g. "PMC6669914").
	PMCID string `json:"pmcid,omitempty" yaml:"pmcid,omitempty"`

	// DOI is the normalised Digital Object Identifier (e.g. "10.1093/nar/gkz383").
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`
}

const (
	pmidLinkBase  = "https://pubmed.ncbi.nlm.nih.gov/"
	pmcidLinkBase = "https://www.ncbi.nlm.nih.gov/pmc/articles/"
	doiLinkBase   = "https://doi.org/"
)

// IsEmpty reports whether all three identifiers are empty.
func (p PubIDs) IsEmpty() bool {
	return p.PMID == "" && p.PMCID == "" && p.DOI == ""
}

// SamePublication reports whether p and o share at least one non-empty
// identifier. It is not full-tuple equality: {pmid: 1} and {pmid: 1, doi: x}
// describe the same publication.
func (p PubIDs) SamePublication(o PubIDs) bool {
	if p.PMID != "" && p.PMID == o.PMID {
		return true
	}
	if p.PMCID != "" && p.PMCID == o.PMCID {
		return true
	}
	return p.DOI != "" && NormalizeDOI(p.DOI) == NormalizeDOI(o.DOI)
}

// DOIOnly reports whether the publication is known only by its DOI.
func (p PubIDs) DOIOnly() bool {
	return p.PMID == "" && p.PMCID == "" && p.DOI != ""
}

// LandingURL returns the landing page of the publication, preferring PubMed,
// then PubMed Central, then the DOI resolver. It returns "" for empty ids.
func (p PubIDs) LandingURL() string {
	switch {
	case p.PMID != "":
		return pmidLinkBase + p.PMID + "/"
	case p.PMCID != "":
		return pmcidLinkBase + p.PMCID + "/"
	case p.DOI != "":
		return doiLinkBase + p.DOI
	}
	return ""
}

// String renders the non-empty identifiers in brackets, e.g. "[123, PMC4, 10.1/x]".
func (p PubIDs) String() string {
	parts := make([]string, 0, 3)
	for _, v := range []string{p.PMID, p.PMCID, p.DOI} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Trimmed returns a copy with surrounding whitespace removed and the DOI normalised.
func (p PubIDs) Trimmed() PubIDs {
	return PubIDs{
		PMID:  strings.TrimSpace(p.PMID),
		PMCID: strings.TrimSpace(p.PMCID),
		DOI:   NormalizeDOI(p.DOI),
	}
}

var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi.org/",
	"doi:",
}

// NormalizeDOI strips resolver prefixes and lowercases a DOI. DOIs are
// case-insensitive by definition.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	lower := strings.ToLower(doi)
	for _, prefix := range doiPrefixes {
		if strings.HasPrefix(lower, prefix) {
			lower = strings.TrimSpace(lower[len(prefix):])
			break
		}
	}
	return lower
}

// ContainsPublication reports whether ids holds an identical PubIDs value.
func ContainsPublication(ids []PubIDs, p PubIDs) bool {
	for _, id := range ids {
		if id == p {
			return true
		}
	}
	return false
}
