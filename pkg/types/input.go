// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FirstPassSuggestion is a suggestion as written by the first-pass stage.
type FirstPassSuggestion struct {
	Original         string   `json:"original"`
	Extracted        string   `json:"extracted"`
	Processed        string   `json:"processed"`
	Score            float64  `json:"score"`
	LinksAbstract    []string `json:"links_abstract"`
	LinksFulltext    []string `json:"links_fulltext"`
	FromAbstractLink bool     `json:"from_abstract_link"`
}

// FirstPassRecord is one publication as written by the first-pass stage.
type FirstPassRecord struct {
	PMID                       string                `json:"pmid"`
	PMCID                      string                `json:"pmcid"`
	DOI                        string                `json:"doi"`
	Title                      string                `json:"title"`
	ToolTitleOthers            []string              `json:"tool_title_others"`
	ToolTitleExtractedOriginal string                `json:"tool_title_extracted_original"`
	ToolTitle                  string                `json:"tool_title"`
	ToolTitlePruned            string                `json:"tool_title_pruned"`
	ToolTitleAcronym           string                `json:"tool_title_acronym"`
	AbstractSentences          []string              `json:"abstract_sentences"`
	OA                         bool                  `json:"oa"`
	JournalTitle               string                `json:"journal_title"`
	PubDate                    *int64                `json:"pub_date"`
	PubDateHuman               string                `json:"pub_date_human"`
	CitationsCount             *int64                `json:"citations_count"`
	CitationsTimestamp         *int64                `json:"citations_timestamp"`
	CitationsTimestampHuman    string                `json:"citations_timestamp_human"`
	CorrespAuthor              []CorrespAuthor       `json:"corresp_author"`
	Suggestions                []FirstPassSuggestion `json:"suggestions"`
	LeftoverLinksAbstract      []string              `json:"leftover_links_abstract"`
	LeftoverLinksFulltext      []string              `json:"leftover_links_fulltext"`
}

// ToResult converts the record into a single-publication Result. Secondary
// scores start unset, suggestions keep first-pass order as their rank and
// are sorted by first-pass score.
func (rec FirstPassRecord) ToResult() *Result {
	pub := Publication{
		IDs:                        PubIDs{PMID: rec.PMID, PMCID: rec.PMCID, DOI: rec.DOI}.Trimmed(),
		Title:                      rec.Title,
		ToolTitleOthers:            rec.ToolTitleOthers,
		ToolTitleExtractedOriginal: rec.ToolTitleExtractedOriginal,
		ToolTitle:                  rec.ToolTitle,
		ToolTitlePruned:            rec.ToolTitlePruned,
		ToolTitleAcronym:           rec.ToolTitleAcronym,
		AbstractSentences:          rec.AbstractSentences,
		OA:                         rec.OA,
		JournalTitle:               rec.JournalTitle,
		PubDate:                    orUnknown(rec.PubDate),
		PubDateHuman:               rec.PubDateHuman,
		CitationsCount:             orUnknown(rec.CitationsCount),
		CitationsTimestamp:         orUnknown(rec.CitationsTimestamp),
		CitationsTimestampHuman:    rec.CitationsTimestampHuman,
		CorrespAuthors:             rec.CorrespAuthor,
		LeftoverLinksAbstract:      rec.LeftoverLinksAbstract,
		LeftoverLinksFulltext:      rec.LeftoverLinksFulltext,
	}

	r := &Result{Publications: []Publication{pub}}
	for i, s := range rec.Suggestions {
		r.Suggestions = append(r.Suggestions, &Suggestion{
			Original:         s.Original,
			Extracted:        s.Extracted,
			Processed:        s.Processed,
			Score:            s.Score,
			Score2:           ScoreUnset,
			Rank:             i,
			FromAbstractLink: s.FromAbstractLink,
			LinksAbstract:    appendUnique(nil, s.LinksAbstract...),
			LinksFulltext:    appendUnique(nil, s.LinksFulltext...),
		})
	}
	r.SortSuggestions()
	return r
}

func orUnknown(v *int64) int64 {
	if v == nil {
		return -1
	}
	return *v
}
