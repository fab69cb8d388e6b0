// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes the outputs of a run: the results table, the diff
// table and the list of new entries. Rows are written in the order given.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pdiddy/toolscout/internal/assemble"
	"github.com/pdiddy/toolscout/internal/catalog"
	"github.com/pdiddy/toolscout/internal/evidence"
	"github.com/pdiddy/toolscout/internal/fetchcache"
	"github.com/pdiddy/toolscout/pkg/types"
)

// ResultsHeader names the columns of the results table.
var ResultsHeader = []string{
	"pmid", "pmcid", "doi", "same_suggestions",
	"score", "score2", "score2_parts", "confidence", "include", "existing", "suggestion_original", "suggestion", "suggestion_processed",
	"publication_and_name_existing", "name_existing_some_publication_different", "some_publication_existing_name_different", "name_existing_publication_different",
	"name_match", "link_match", "name_word_match",
	"links_abstract", "links_fulltext", "from_abstract_link",
	"homepage", "homepage_broken", "homepage_missing", "homepage_catalog", "link", "link_catalog", "download", "download_catalog", "documentation", "documentation_catalog", "broken_links",
	"other_scores", "other_scores2", "other_scores2_parts", "other_suggestions_original", "other_suggestions", "other_suggestions_processed",
	"other_publication_and_name_existing", "other_name_existing_some_publication_different", "other_some_publication_existing_name_different", "other_name_existing_publication_different",
	"other_links_abstract", "other_links_fulltext",
	"leftover_links_abstract", "leftover_links_fulltext",
	"title", "tool_title_others", "tool_title_extracted_original", "tool_title", "tool_title_pruned", "tool_title_acronym",
	"description", "description_catalog",
	"license_homepage", "license_link", "license_download", "license_documentation", "license_abstract", "license", "license_catalog",
	"language_homepage", "language_link", "language_download", "language_documentation", "language_abstract", "language", "language_catalog",
	"oa", "journal_title", "pub_date", "citations_count", "citations_timestamp", "citations_count_normalised",
	"corresp_author_name", "credit_name_catalog", "corresp_author_orcid", "credit_orcidid_catalog", "corresp_author_email", "credit_email_catalog", "corresp_author_phone", "corresp_author_uri", "credit_url_catalog", "credit",
}

// DiffHeader names the columns of the diff table.
var DiffHeader = []string{
	"catalog_id", "score_score2", "current_publications", "modify_publications", "add_publications", "current_name", "modify_name", "possibly_related",
	"current_homepage", "modify_homepage", "current_links", "add_links", "current_downloads", "add_downloads", "current_documentations", "add_documentations",
	"current_license", "modify_license", "current_languages", "add_languages", "current_credits", "modify_credits", "add_credits",
}

// Row is one result together with what the later stages decided for it.
type Row struct {
	Result   *types.Result
	Include  bool
	Evidence *evidence.Evidence
	Outcome  assemble.Outcome
}

// Writer renders rows against a catalog snapshot and the fetch cache.
type Writer struct {
	Catalog *catalog.Catalog
	Cache   fetchcache.Lookup
	Bands   types.ConfidenceBands

	// DocsBaseURL prefixes the second header row; empty omits it.
	DocsBaseURL string
}

// WriteResults writes the results table.
func (w *Writer) WriteResults(out io.Writer, rows []Row) error {
	t := newTSV(out)
	t.header(ResultsHeader, w.DocsBaseURL)
	for _, row := range rows {
		t.row(w.resultFields(row))
	}
	if err := t.flush(); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}

// WriteDiffs writes the diff table, one row per diff.
func (w *Writer) WriteDiffs(out io.Writer, diffs []*types.Diff) error {
	t := newTSV(out)
	t.header(DiffHeader, w.DocsBaseURL)
	for _, d := range diffs {
		t.row(w.diffFields(d))
	}
	if err := t.flush(); err != nil {
		return fmt.Errorf("writing diffs: %w", err)
	}
	return nil
}

// newEntries is the layout of the new-entries file.
type newEntries struct {
	Count int                    `json:"count"`
	List  []*types.NewToolRecord `json:"list"`
}

// WriteNew writes the new entries as {"count": n, "list": [...]}.
func WriteNew(out io.Writer, records []*types.NewToolRecord) error {
	if records == nil {
		records = []*types.NewToolRecord{}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(newEntries{Count: len(records), List: records}); err != nil {
		return fmt.Errorf("writing new entries: %w", err)
	}
	return nil
}

// CurrentHomepage renders an entry's homepage with the catalog's link
// checker status and the cache's broken flag.
func CurrentHomepage(e *types.CatalogEntry, cache fetchcache.Lookup) string {
	homepage := e.Homepage
	if e.HomepageStatus != 0 {
		homepage += " (homepage_status: " + strconv.Itoa(e.HomepageStatus) + ")"
	}
	if cache != nil {
		if wp := cache.Webpage(e.Homepage, false); wp != nil && wp.Broken {
			homepage += " (broken)"
		}
	}
	return homepage
}

func (w *Writer) entries(indices []int) []*types.CatalogEntry {
	out := make([]*types.CatalogEntry, len(indices))
	for i, idx := range indices {
		out[i] = w.Catalog.Entry(idx)
	}
	return out
}
