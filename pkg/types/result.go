// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// CorrespAuthor is a corresponding-author record from a publication.
type CorrespAuthor struct {
	Name  string `json:"name" yaml:"name"`
	ORCID string `json:"orcid" yaml:"orcid"`
	Email string `json:"email" yaml:"email"`
	Phone string `json:"phone" yaml:"phone"`
	URI   string `json:"uri" yaml:"uri"`
}

// IsEmpty reports whether the record carries no name, ORCID, e-mail or URI.
func (c CorrespAuthor) IsEmpty() bool {
	return c.Name == "" && c.ORCID == "" && c.Email == "" && c.URI == ""
}

// String renders the non-empty name, ORCID, e-mail and URI separated by ", ".
func (c CorrespAuthor) String() string {
	parts := make([]string, 0, 4)
	for _, v := range []string{c.Name, c.ORCID, c.Email, c.URI} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// Publication is the metadata one source publication contributes to a Result.
type Publication struct {
	IDs PubIDs `json:"ids" yaml:"ids"`

	Title string `json:"title" yaml:"title"`

	// ToolTitleOthers lists other tool names found in the title.
	ToolTitleOthers []string `json:"tool_title_others" yaml:"tool_title_others"`

	// ToolTitleExtractedOriginal is the tool-name part of the title as written.
	ToolTitleExtractedOriginal string `json:"tool_title_extracted_original" yaml:"tool_title_extracted_original"`

	// ToolTitle is the tool-name part of the title after cleanup.
	ToolTitle string `json:"tool_title" yaml:"tool_title"`

	// ToolTitlePruned is ToolTitle with generic prefix and suffix words removed.
	ToolTitlePruned string `json:"tool_title_pruned" yaml:"tool_title_pruned"`

	// ToolTitleAcronym is an acronym given for the tool in the title, if any.
	ToolTitleAcronym string `json:"tool_title_acronym" yaml:"tool_title_acronym"`

	AbstractSentences []string `json:"abstract_sentences" yaml:"abstract_sentences"`

	// OA is set for open-access publications.
	OA bool `json:"oa" yaml:"oa"`

	JournalTitle string `json:"journal_title" yaml:"journal_title"`

	// PubDate is milliseconds since the epoch, -1 when unknown.
	PubDate      int64  `json:"pub_date" yaml:"pub_date"`
	PubDateHuman string `json:"pub_date_human" yaml:"pub_date_human"`

	// CitationsCount is -1 when unknown.
	CitationsCount int64 `json:"citations_count" yaml:"citations_count"`

	// CitationsTimestamp is when CitationsCount was read, -1 when unknown.
	CitationsTimestamp      int64  `json:"citations_timestamp" yaml:"citations_timestamp"`
	CitationsTimestampHuman string `json:"citations_timestamp_human" yaml:"citations_timestamp_human"`

	CorrespAuthors []CorrespAuthor `json:"corresp_author" yaml:"corresp_author"`

	// Leftover links were found in the publication but attached to no suggestion.
	LeftoverLinksAbstract []string `json:"leftover_links_abstract" yaml:"leftover_links_abstract"`
	LeftoverLinksFulltext []string `json:"leftover_links_fulltext" yaml:"leftover_links_fulltext"`
}

// NormalisedCitations returns citations per unit of time since publication
// (count / (timestamp - pubdate) * 1e9), or -1 when any input is unknown.
func (p Publication) NormalisedCitations() float64 {
	if p.CitationsCount < 0 || p.CitationsTimestamp < 0 || p.PubDate < 0 {
		return -1
	}
	elapsed := p.CitationsTimestamp - p.PubDate
	if elapsed <= 0 {
		return -1
	}
	return float64(p.CitationsCount) / float64(elapsed) * 1e9
}

// LinkMatch records the catalog entry matched by link and the link strings
// that matched.
type LinkMatch struct {
	Entry int      `json:"entry" yaml:"entry"`
	Links []string `json:"links" yaml:"links"`
}

// Result aggregates everything known about one publication, or about a group
// of publications merged because they describe the same tool.
type Result struct {
	// Publications grows on merge; the first entry is the original publication.
	Publications []Publication `json:"publications" yaml:"publications"`

	// Suggestions is kept sorted by Suggestion.Outranks.
	Suggestions []*Suggestion `json:"suggestions" yaml:"suggestions"`

	// SameSuggestions lists the first publication of other results whose top
	// suggestion has the same extracted text. Informational only.
	SameSuggestions []PubIDs `json:"same_suggestions,omitempty" yaml:"same_suggestions,omitempty"`

	// Top-suggestion matches that are not publication based.
	NameMatch     []int       `json:"name_match,omitempty" yaml:"name_match,omitempty"`
	LinkMatch     []LinkMatch `json:"link_match,omitempty" yaml:"link_match,omitempty"`
	NameWordMatch []int       `json:"name_word_match,omitempty" yaml:"name_word_match,omitempty"`
}

// Top returns the highest ranked suggestion or nil.
func (r *Result) Top() *Suggestion {
	if len(r.Suggestions) == 0 {
		return nil
	}
	return r.Suggestions[0]
}

// PubIDs returns the identifiers of all source publications in order.
func (r *Result) PubIDs() []PubIDs {
	ids := make([]PubIDs, len(r.Publications))
	for i, p := range r.Publications {
		ids[i] = p.IDs
	}
	return ids
}

// FirstPubIDs returns the identifiers of the original publication.
func (r *Result) FirstPubIDs() PubIDs {
	if len(r.Publications) == 0 {
		return PubIDs{}
	}
	return r.Publications[0].IDs
}

// SortSuggestions restores the suggestion order invariant.
func (r *Result) SortSuggestions() {
	SortSuggestions(r.Suggestions)
}

// InLinkMatch reports whether entry is among the link matches.
func (r *Result) InLinkMatch(entry int) bool {
	for _, m := range r.LinkMatch {
		if m.Entry == entry {
			return true
		}
	}
	return false
}

// AddSameSuggestion records ids unless already present.
func (r *Result) AddSameSuggestion(ids PubIDs) {
	if !ContainsPublication(r.SameSuggestions, ids) {
		r.SameSuggestions = append(r.SameSuggestions, ids)
	}
}
