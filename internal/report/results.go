// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"strconv"
	"strings"

	"github.com/pdiddy/toolscout/internal/evidence"
	"github.com/pdiddy/toolscout/pkg/types"
)

var matchKinds = []types.MatchKind{
	types.MatchPublicationAndName,
	types.MatchNameSomePublicationDifferent,
	types.MatchSomePublicationNameDifferent,
	types.MatchNamePublicationDifferent,
}

// resultFields renders one row of the results table in ResultsHeader order.
func (w *Writer) resultFields(row Row) []string {
	r := row.Result
	sg := r.Top()
	ev := row.Evidence
	if ev == nil {
		ev = &evidence.Evidence{}
	}
	pubs := r.Publications
	existing := w.entries(row.Outcome.Existing)
	var others []*types.Suggestion
	if len(r.Suggestions) > 1 {
		others = r.Suggestions[1:]
	}

	f := make([]string, 0, len(ResultsHeader))
	add := func(values ...string) { f = append(f, values...) }

	add(
		join(pubs, sepOuter, func(p types.Publication) string { return p.IDs.PMID }),
		join(pubs, sepOuter, func(p types.Publication) string { return p.IDs.PMCID }),
		join(pubs, sepOuter, func(p types.Publication) string { return p.IDs.DOI }),
		join(r.SameSuggestions, sepOuter, stringer[types.PubIDs]),
	)

	if sg != nil {
		add(formatFloat(sg.Score))
		if sg.HasScore2() {
			add(formatFloat(sg.Score2), sg.Parts.String())
		} else {
			add("", "")
		}
		add(string(w.Bands.WithDefaults().Of(sg)))
	} else {
		add("", "", "", "")
	}
	add(strconv.FormatBool(row.Include))
	add(strings.Join(w.Catalog.IDs(row.Outcome.Existing), sepOuter))
	if sg != nil {
		add(sg.Original, sg.Extracted, sg.Processed)
	} else {
		add("", "", "")
	}

	for _, kind := range matchKinds {
		add(strings.Join(w.Catalog.MatchLabels(sg, kind), sepOuter))
	}
	add(
		strings.Join(w.Catalog.NameMatchLabels(r), sepOuter),
		strings.Join(w.Catalog.LinkMatchLabels(r), sepOuter),
		strings.Join(w.Catalog.NameWordMatchLabels(r), sepOuter),
	)

	if sg != nil {
		add(strings.Join(sg.LinksAbstract, sepOuter), strings.Join(sg.LinksFulltext, sepOuter))
	} else {
		add("", "")
	}
	add(join(r.Suggestions, sepOuter, func(s *types.Suggestion) string { return strconv.FormatBool(s.FromAbstractLink) }))

	var sgLinks, sgDownloads, sgDocs, sgBroken []types.ClassifiedLink
	homepage, broken, missing := "", false, true
	if sg != nil {
		homepage, broken, missing = sg.Homepage, sg.HomepageBroken, sg.HomepageMissing
		sgLinks, sgDownloads, sgDocs, sgBroken = sg.Links, sg.Downloads, sg.Documentation, sg.Broken
	}
	add(homepage, strconv.FormatBool(broken), strconv.FormatBool(missing))
	add(join(existing, sepOuter, func(e *types.CatalogEntry) string { return CurrentHomepage(e, w.Cache) }))
	add(
		join(sgLinks, sepOuter, stringer[types.ClassifiedLink]),
		join(existing, sepOuter, func(e *types.CatalogEntry) string { return join(e.Links, sepInner, stringer[types.CatalogLink]) }),
		join(sgDownloads, sepOuter, stringer[types.ClassifiedLink]),
		join(existing, sepOuter, func(e *types.CatalogEntry) string {
			return join(e.Downloads, sepInner, stringer[types.CatalogDownload])
		}),
		join(sgDocs, sepOuter, stringer[types.ClassifiedLink]),
		join(existing, sepOuter, func(e *types.CatalogEntry) string {
			return join(e.Documentation, sepInner, stringer[types.CatalogLink])
		}),
	)
	if sg != nil {
		add(join(sgBroken, sepOuter, stringer[types.ClassifiedLink]))
	} else {
		add("")
	}

	add(
		join(others, sepOuter, func(s *types.Suggestion) string { return strconv.FormatFloat(s.Score, 'f', 1, 64) }),
		join(others, sepOuter, func(s *types.Suggestion) string {
			if !s.HasScore2() {
				return ""
			}
			return strconv.FormatFloat(s.Score2, 'f', 1, 64)
		}),
		join(others, sepOuter, func(s *types.Suggestion) string {
			if !s.HasScore2() {
				return ""
			}
			return s.Parts.String()
		}),
		join(others, sepOuter, func(s *types.Suggestion) string { return s.Original }),
		join(others, sepOuter, func(s *types.Suggestion) string { return s.Extracted }),
		join(others, sepOuter, func(s *types.Suggestion) string { return s.Processed }),
	)
	for _, kind := range matchKinds {
		add(join(others, sepOuter, func(s *types.Suggestion) string {
			return strings.Join(w.Catalog.MatchLabels(s, kind), sepInner)
		}))
	}
	add(
		otherLinks(others, func(s *types.Suggestion) []string { return s.LinksAbstract }),
		otherLinks(others, func(s *types.Suggestion) []string { return s.LinksFulltext }),
	)

	add(
		join(pubs, sepOuter, func(p types.Publication) string { return strings.Join(p.LeftoverLinksAbstract, sepInner) }),
		join(pubs, sepOuter, func(p types.Publication) string { return strings.Join(p.LeftoverLinksFulltext, sepInner) }),
	)

	add(
		join(pubs, sepOuter, func(p types.Publication) string { return p.Title }),
		join(pubs, sepOuter, func(p types.Publication) string { return strings.Join(p.ToolTitleOthers, sepInner) }),
		join(pubs, sepOuter, func(p types.Publication) string { return p.ToolTitleExtractedOriginal }),
		join(pubs, sepOuter, func(p types.Publication) string {
			if p.ToolTitle == p.ToolTitleExtractedOriginal {
				return ""
			}
			return p.ToolTitle
		}),
		join(pubs, sepOuter, func(p types.Publication) string {
			if p.ToolTitlePruned == p.ToolTitle {
				return ""
			}
			return p.ToolTitlePruned
		}),
		join(pubs, sepOuter, func(p types.Publication) string { return p.ToolTitleAcronym }),
	)

	add(
		escapeNewlines(row.Outcome.Description),
		join(existing, sepOuter, func(e *types.CatalogEntry) string { return controlEscaper.Replace(e.Description) }),
	)

	best := ""
	if ev.BestLicense != nil {
		best = ev.BestLicense.String()
	}
	add(
		ev.HomepageLicense,
		join(ev.LinkLicenses, sepOuter, stringer[types.Provenance]),
		join(ev.DownloadLicenses, sepOuter, stringer[types.Provenance]),
		join(ev.DocumentationLicenses, sepOuter, stringer[types.Provenance]),
		join(ev.AbstractLicenses, sepOuter, provenanceList),
		best,
		join(existing, sepOuter, func(e *types.CatalogEntry) string { return e.License }),
	)
	add(
		ev.HomepageLanguage,
		join(ev.LinkLanguages, sepOuter, stringer[types.Provenance]),
		join(ev.DownloadLanguages, sepOuter, stringer[types.Provenance]),
		join(ev.DocumentationLanguages, sepOuter, stringer[types.Provenance]),
		join(ev.AbstractLanguages, sepOuter, provenanceList),
		provenanceList(ev.AllLanguages),
		join(existing, sepOuter, func(e *types.CatalogEntry) string { return strings.Join(e.Languages, sepInner) }),
	)

	add(
		join(pubs, sepOuter, func(p types.Publication) string { return strconv.FormatBool(p.OA) }),
		join(pubs, sepOuter, func(p types.Publication) string { return p.JournalTitle }),
		join(pubs, sepOuter, func(p types.Publication) string { return withMillis(p.PubDateHuman, p.PubDate) }),
		join(pubs, sepOuter, func(p types.Publication) string { return strconv.FormatInt(p.CitationsCount, 10) }),
		join(pubs, sepOuter, func(p types.Publication) string {
			return withMillis(p.CitationsTimestampHuman, p.CitationsTimestamp)
		}),
		join(pubs, sepOuter, func(p types.Publication) string { return formatFloat(p.NormalisedCitations()) }),
	)

	authors := func(field func(types.CorrespAuthor) string) string {
		return join(pubs, sepOuter, func(p types.Publication) string { return join(p.CorrespAuthors, sepInner, field) })
	}
	credits := func(field func(types.Credit) string) string {
		return join(existing, sepOuter, func(e *types.CatalogEntry) string { return join(e.Credits, sepInner, field) })
	}
	add(
		authors(func(c types.CorrespAuthor) string { return c.Name }),
		credits(func(c types.Credit) string { return c.Name }),
		authors(func(c types.CorrespAuthor) string { return c.ORCID }),
		credits(func(c types.Credit) string { return c.ORCID }),
		authors(func(c types.CorrespAuthor) string { return c.Email }),
		credits(func(c types.Credit) string { return c.Email }),
		authors(func(c types.CorrespAuthor) string { return c.Phone }),
		authors(func(c types.CorrespAuthor) string { return c.URI }),
		credits(func(c types.Credit) string { return c.URL }),
		join(ev.Credits, sepOuter, stringer[types.CorrespAuthor]),
	)
	return f
}

// otherLinks renders the links of the non-top suggestions, or "" when none
// of them has any.
func otherLinks(others []*types.Suggestion, links func(*types.Suggestion) []string) string {
	for _, s := range others {
		if len(links(s)) > 0 {
			return join(others, sepOuter, func(s *types.Suggestion) string { return strings.Join(links(s), sepInner) })
		}
	}
	return ""
}

func provenanceList(ps []types.Provenance) string {
	return join(ps, sepInner, stringer[types.Provenance])
}

func withMillis(human string, ms int64) string {
	return human + " (" + strconv.FormatInt(ms, 10) + ")"
}
