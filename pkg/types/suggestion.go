// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"sort"
)

// ScoreUnset marks a secondary score that has not been computed.
const ScoreUnset = -1.0

// ScoreParts is the breakdown of the additions that produced a secondary
// score. Each field is written by exactly one scoring pass.
type ScoreParts struct {
	// LinkEvidence is the bonus for the first live link found for the suggestion.
	LinkEvidence float64 `json:"link_evidence" yaml:"link_evidence"`

	// TitleMatch is the bonus for agreement with the publication's tool title.
	TitleMatch float64 `json:"title_match" yaml:"title_match"`

	// Casing is the casing-heuristic bonus plus any rarity bonus copy.
	Casing float64 `json:"casing" yaml:"casing"`

	// Rarity is the averaged term-rarity contribution.
	Rarity float64 `json:"rarity" yaml:"rarity"`
}

// String renders the parts as "[1000.0, 900.0, 400.0, 120.5]".
func (p ScoreParts) String() string {
	return fmt.Sprintf("[%.1f, %.1f, %.1f, %.1f]", p.LinkEvidence, p.TitleMatch, p.Casing, p.Rarity)
}

// MatchKind tags how a catalog entry relates to a suggestion.
type MatchKind int

const (
	MatchNone MatchKind = iota
	// MatchPublicationAndName: equal name, every result publication is on the entry.
	MatchPublicationAndName
	// MatchNameSomePublicationDifferent: equal name, some publications shared.
	MatchNameSomePublicationDifferent
	// MatchSomePublicationNameDifferent: different name, some publications shared.
	MatchSomePublicationNameDifferent
	// MatchNamePublicationDifferent: equal name, no publication shared.
	MatchNamePublicationDifferent
)

func (k MatchKind) String() string {
	switch k {
	case MatchPublicationAndName:
		return "publication_and_name_existing"
	case MatchNameSomePublicationDifferent:
		return "name_existing_some_publication_different"
	case MatchSomePublicationNameDifferent:
		return "some_publication_existing_name_different"
	case MatchNamePublicationDifferent:
		return "name_existing_publication_different"
	}
	return "none"
}

// CatalogMatch records one catalog entry matched by a suggestion. Entry is an
// index into the catalog snapshot. Unmatched holds the result publications
// the entry does not carry; it is empty for MatchPublicationAndName.
type CatalogMatch struct {
	Kind      MatchKind `json:"kind" yaml:"kind"`
	Entry     int       `json:"entry" yaml:"entry"`
	Unmatched []PubIDs  `json:"unmatched,omitempty" yaml:"unmatched,omitempty"`
}

// LinkKind is the bucket a classified link belongs to.
type LinkKind int

const (
	KindLink LinkKind = iota
	KindDownload
	KindDocumentation
)

// Link types used by the classifier and the catalog.
const (
	LinkOther        = "Other"
	LinkRepository   = "Repository"
	LinkIssueTracker = "Issue tracker"
	LinkMailingList  = "Mailing list"
	LinkRegistry     = "Software catalogue"
	LinkHelpdesk     = "Helpdesk"

	DownloadSourcePackage = "Source package"
	DownloadBinaries      = "Binaries"
	DownloadContainer     = "Container file"
	DownloadPackage       = "Software package"

	DocGeneral      = "General"
	DocUserManual   = "User manual"
	DocInstallation = "Installation instructions"
	DocTraining     = "Training material"
	DocAPI          = "API documentation"
	DocFAQ          = "FAQ"
	DocQuickStart   = "Quick start guide"
)

// ClassifiedLink is a link URL with its bucket and type. Two classified links
// are the same when their trimmed URL and type are equal.
type ClassifiedLink struct {
	URL     string   `json:"url" yaml:"url"`
	Trimmed string   `json:"-" yaml:"-"`
	Kind    LinkKind `json:"-" yaml:"-"`
	Type    string   `json:"type" yaml:"type"`
}

// String renders "url (Type)".
func (l ClassifiedLink) String() string {
	return l.URL + " (" + l.Type + ")"
}

// Suggestion is one ranked tool-name candidate within a Result.
type Suggestion struct {
	// Original is the candidate as it appeared in the source text.
	Original string `json:"original" yaml:"original"`

	// Extracted is the cleaned candidate name.
	Extracted string `json:"extracted" yaml:"extracted"`

	// Processed is the normalised, space-joined token form of Extracted.
	Processed string `json:"processed" yaml:"processed"`

	// Score is the first-pass score.
	Score float64 `json:"score" yaml:"score"`

	// Score2 is the secondary score, ScoreUnset when not computed.
	Score2 float64 `json:"score2" yaml:"score2"`

	// Parts records which scoring pass contributed what to Score2.
	Parts ScoreParts `json:"score2_parts" yaml:"score2_parts"`

	// Rank is the position of the suggestion in first-pass order. Ties on
	// score are broken by lower Rank.
	Rank int `json:"rank" yaml:"rank"`

	// FromAbstractLink is set when the name was derived from a link in the abstract.
	FromAbstractLink bool `json:"from_abstract_link" yaml:"from_abstract_link"`

	// LinksAbstract and LinksFulltext are raw candidate links.
	LinksAbstract []string `json:"links_abstract" yaml:"links_abstract"`
	LinksFulltext []string `json:"links_fulltext" yaml:"links_fulltext"`

	// Homepage is the chosen homepage URL, set by the link classifier.
	Homepage        string `json:"homepage" yaml:"homepage"`
	HomepageBroken  bool   `json:"homepage_broken" yaml:"homepage_broken"`
	HomepageMissing bool   `json:"homepage_missing" yaml:"homepage_missing"`

	// Classified link buckets, homepage excluded.
	Links         []ClassifiedLink `json:"links,omitempty" yaml:"links,omitempty"`
	Downloads     []ClassifiedLink `json:"downloads,omitempty" yaml:"downloads,omitempty"`
	Documentation []ClassifiedLink `json:"documentation,omitempty" yaml:"documentation,omitempty"`

	// Broken holds links dropped because the cache reports them missing or broken.
	Broken []ClassifiedLink `json:"broken_links,omitempty" yaml:"broken_links,omitempty"`

	// Matches holds at most one CatalogMatch per catalog entry.
	Matches []CatalogMatch `json:"matches,omitempty" yaml:"matches,omitempty"`
}

// HasScore2 reports whether the secondary score was computed.
func (s *Suggestion) HasScore2() bool {
	return s.Score2 > ScoreUnset
}

// Effective returns Score2 when computed and Score otherwise.
func (s *Suggestion) Effective() float64 {
	if s.HasScore2() {
		return s.Score2
	}
	return s.Score
}

// Outranks reports whether s sorts before o: higher effective score first,
// then lower first-pass rank.
func (s *Suggestion) Outranks(o *Suggestion) bool {
	if s.Effective() != o.Effective() {
		return s.Effective() > o.Effective()
	}
	return s.Rank < o.Rank
}

// MatchesOf returns the matches of one kind in catalog order.
func (s *Suggestion) MatchesOf(kind MatchKind) []CatalogMatch {
	var out []CatalogMatch
	for _, m := range s.Matches {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// MatchOf returns the kind under which entry is matched, or MatchNone.
func (s *Suggestion) MatchOf(entry int) MatchKind {
	for _, m := range s.Matches {
		if m.Entry == entry {
			return m.Kind
		}
	}
	return MatchNone
}

// AddLinksAbstract appends links not already present.
func (s *Suggestion) AddLinksAbstract(links []string) {
	s.LinksAbstract = appendUnique(s.LinksAbstract, links...)
}

// AddLinksFulltext appends links not already present.
func (s *Suggestion) AddLinksFulltext(links []string) {
	s.LinksFulltext = appendUnique(s.LinksFulltext, links...)
}

// SortSuggestions orders suggestions by Outranks. The order is total, so the
// result does not depend on the input order.
func SortSuggestions(suggestions []*Suggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Outranks(suggestions[j])
	})
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
