// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Diff is a proposed field-level update to one existing catalog entry.
type Diff struct {
	// Existing is the catalog index the diff applies to.
	Existing int `json:"existing" yaml:"existing"`

	// ScoreScore2 is the suggestion's secondary score, or primary score + 10000
	// when no secondary score was computed.
	ScoreScore2 float64 `json:"score_score2" yaml:"score_score2"`

	// Confident is set when the matching suggestion was confident.
	Confident bool `json:"confident" yaml:"confident"`

	// PossiblyRelated lists other catalog indices that may describe the same tool.
	PossiblyRelated []int `json:"possibly_related,omitempty" yaml:"possibly_related,omitempty"`

	// ModifyPublications are entry publications that gain identifiers.
	ModifyPublications []PubIDs `json:"modify_publications,omitempty" yaml:"modify_publications,omitempty"`

	// AddPublications are result publications missing from the entry.
	AddPublications []PubIDs `json:"add_publications,omitempty" yaml:"add_publications,omitempty"`

	ModifyName     string `json:"modify_name,omitempty" yaml:"modify_name,omitempty"`
	ModifyHomepage string `json:"modify_homepage,omitempty" yaml:"modify_homepage,omitempty"`

	AddLinks         []ClassifiedLink `json:"add_links,omitempty" yaml:"add_links,omitempty"`
	AddDownloads     []ClassifiedLink `json:"add_downloads,omitempty" yaml:"add_downloads,omitempty"`
	AddDocumentation []ClassifiedLink `json:"add_documentation,omitempty" yaml:"add_documentation,omitempty"`

	ModifyLicense *Provenance  `json:"modify_license,omitempty" yaml:"modify_license,omitempty"`
	AddLanguages  []Provenance `json:"add_languages,omitempty" yaml:"add_languages,omitempty"`

	// ModifyCredits are entry credits that gain fields; AddCredits are new.
	ModifyCredits []CorrespAuthor `json:"modify_credits,omitempty" yaml:"modify_credits,omitempty"`
	AddCredits    []CorrespAuthor `json:"add_credits,omitempty" yaml:"add_credits,omitempty"`
}

// HasChanges reports whether the diff proposes anything.
func (d *Diff) HasChanges() bool {
	return len(d.ModifyPublications) > 0 || len(d.AddPublications) > 0 ||
		d.ModifyName != "" || d.ModifyHomepage != "" ||
		len(d.AddLinks) > 0 || len(d.AddDownloads) > 0 || len(d.AddDocumentation) > 0 ||
		d.ModifyLicense != nil || len(d.AddLanguages) > 0 ||
		len(d.ModifyCredits) > 0 || len(d.AddCredits) > 0
}

// Include reports whether the diff is emitted: the entry was matched under a
// confident suggestion and there is something to change.
func (d *Diff) Include() bool {
	return d.Confident && d.HasChanges()
}

// ToolStatus is the diagnostic payload attached to new records in
// include-all mode.
type ToolStatus struct {
	Score                                float64     `json:"score"`
	Score2                               *float64    `json:"score2"`
	Score2Parts                          *ScoreParts `json:"score2Parts"`
	Include                              bool        `json:"include"`
	Existing                             []string    `json:"existing"`
	PublicationAndNameExisting           []string    `json:"publicationAndNameExisting"`
	NameExistingSomePublicationDifferent []string    `json:"nameExistingSomePublicationDifferent"`
	SomePublicationExistingNameDifferent []string    `json:"somePublicationExistingNameDifferent"`
	NameExistingPublicationDifferent     []string    `json:"nameExistingPublicationDifferent"`
	NameMatch                            []string    `json:"nameMatch"`
	LinkMatch                            []string    `json:"linkMatch"`
	NameWordMatch                        []string    `json:"nameWordMatch"`
	HomepageBroken                       bool        `json:"homepageBroken"`
	HomepageMissing                      bool        `json:"homepageMissing"`
}

// NewToolRecord is a fully assembled candidate catalog entry.
type NewToolRecord struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Homepage       string            `json:"homepage"`
	Links          []CatalogLink     `json:"link"`
	Downloads      []CatalogDownload `json:"download"`
	Documentation  []CatalogLink     `json:"documentation"`
	Publications   []PubIDs          `json:"publication"`
	Credits        []Credit          `json:"credit"`
	Languages      []string          `json:"language"`
	License        string            `json:"license,omitempty"`
	ConfidenceFlag Confidence        `json:"confidence_flag"`
	Status         *ToolStatus       `json:"status,omitempty"`
}

// SharesPublication reports whether r and o list at least one identical publication.
func (r *NewToolRecord) SharesPublication(o *NewToolRecord) bool {
	for _, p := range r.Publications {
		if ContainsPublication(o.Publications, p) {
			return true
		}
	}
	return false
}
