// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"slices"
	"strings"

	"github.com/pdiddy/toolscout/internal/textnorm"
	"github.com/pdiddy/toolscout/pkg/types"
)

// proposal is what a suggestion offers to every entry it matched.
type proposal struct {
	scoreScore2     float64
	confident       bool
	possiblyRelated []int
	ids             []types.PubIDs
	homepage        string
	links           []types.ClassifiedLink
	downloads       []types.ClassifiedLink
	documentation   []types.ClassifiedLink
	license         *types.Provenance
	languages       []types.Provenance
	credits         []types.CorrespAuthor
}

// makeDiff compares p with entry e (at catalog index idx). name is the
// proposed name, empty when the match was by name.
func makeDiff(p *proposal, idx int, e *types.CatalogEntry, name string) *types.Diff {
	d := &types.Diff{
		Existing:    idx,
		ScoreScore2: p.scoreScore2,
		Confident:   p.confident,
	}
	for _, r := range p.possiblyRelated {
		if r != idx {
			d.PossiblyRelated = append(d.PossiblyRelated, r)
		}
	}

	for _, id := range p.ids {
		if id.IsEmpty() {
			continue
		}
		j := slices.IndexFunc(e.Publications, func(q types.PubIDs) bool { return id.SamePublication(q.Trimmed()) })
		if j < 0 {
			if !types.ContainsPublication(d.AddPublications, id) {
				d.AddPublications = append(d.AddPublications, id)
			}
			continue
		}
		if filled, changed := fillIDs(e.Publications[j].Trimmed(), id); changed && !types.ContainsPublication(d.ModifyPublications, filled) {
			d.ModifyPublications = append(d.ModifyPublications, filled)
		}
	}

	if name != "" && name != e.Name {
		d.ModifyName = name
	}

	existing := make(map[string]bool)
	for _, l := range e.AllLinks() {
		if t := textnorm.TrimURL(l); t != "" {
			existing[t] = true
		}
	}
	if p.homepage != "" && !existing[textnorm.TrimURL(p.homepage)] {
		d.ModifyHomepage = p.homepage
	}
	d.AddLinks = newLinks(p.links, existing)
	d.AddDownloads = newLinks(p.downloads, existing)
	d.AddDocumentation = newLinks(p.documentation, existing)

	if p.license != nil && !strings.EqualFold(p.license.Value, strings.TrimSpace(e.License)) {
		l := types.NewProvenance(p.license.Value, p.license.Sources...)
		d.ModifyLicense = &l
	}
	for _, l := range p.languages {
		if !slices.ContainsFunc(e.Languages, func(v string) bool { return strings.EqualFold(v, l.Value) }) {
			d.AddLanguages = types.MergeProvenance(d.AddLanguages, l)
		}
	}

	for _, ca := range p.credits {
		j := slices.IndexFunc(e.Credits, func(c types.Credit) bool {
			return textnorm.SamePerson(ca.Name, ca.ORCID, ca.Email, c.Name, c.ORCID, c.Email)
		})
		if j < 0 {
			d.AddCredits = appendCredit(d.AddCredits, ca)
			continue
		}
		if filled, changed := fillCredit(e.Credits[j], ca); changed {
			d.ModifyCredits = appendCredit(d.ModifyCredits, filled)
		}
	}
	return d
}

// fillIDs returns q with its empty identifiers taken from id.
func fillIDs(q, id types.PubIDs) (types.PubIDs, bool) {
	changed := false
	if q.PMID == "" && id.PMID != "" {
		q.PMID, changed = id.PMID, true
	}
	if q.PMCID == "" && id.PMCID != "" {
		q.PMCID, changed = id.PMCID, true
	}
	if q.DOI == "" && id.DOI != "" {
		q.DOI, changed = id.DOI, true
	}
	return q, changed
}

// fillCredit returns the entry credit c with its empty fields taken from ca.
func fillCredit(c types.Credit, ca types.CorrespAuthor) (types.CorrespAuthor, bool) {
	out := types.CorrespAuthor{Name: c.Name, ORCID: c.ORCID, Email: c.Email, URI: c.URL}
	changed := false
	if out.Name == "" && ca.Name != "" {
		out.Name, changed = ca.Name, true
	}
	if out.ORCID == "" && ca.ORCID != "" {
		out.ORCID, changed = ca.ORCID, true
	}
	if out.Email == "" && ca.Email != "" {
		out.Email, changed = ca.Email, true
	}
	if out.URI == "" && ca.URI != "" {
		out.URI, changed = ca.URI, true
	}
	return out, changed
}

func newLinks(links []types.ClassifiedLink, existing map[string]bool) []types.ClassifiedLink {
	var out []types.ClassifiedLink
	for _, l := range links {
		if !existing[trimmed(l)] {
			out = appendLink(out, l)
		}
	}
	return out
}

func trimmed(l types.ClassifiedLink) string {
	if l.Trimmed != "" {
		return l.Trimmed
	}
	return textnorm.TrimURL(l.URL)
}

func appendLink(dst []types.ClassifiedLink, links ...types.ClassifiedLink) []types.ClassifiedLink {
	for _, l := range links {
		if !slices.ContainsFunc(dst, func(d types.ClassifiedLink) bool { return trimmed(d) == trimmed(l) && d.Type == l.Type }) {
			dst = append(dst, l)
		}
	}
	return dst
}

func appendCredit(dst []types.CorrespAuthor, credits ...types.CorrespAuthor) []types.CorrespAuthor {
	for _, c := range credits {
		if !slices.Contains(dst, c) {
			dst = append(dst, c)
		}
	}
	return dst
}

// mergeDiff folds src into dst; both target the same entry.
func mergeDiff(dst, src *types.Diff) {
	dst.ScoreScore2 = max(dst.ScoreScore2, src.ScoreScore2)
	dst.Confident = dst.Confident || src.Confident
	for _, r := range src.PossiblyRelated {
		if r != dst.Existing && !slices.Contains(dst.PossiblyRelated, r) {
			dst.PossiblyRelated = append(dst.PossiblyRelated, r)
		}
	}
	for _, id := range src.ModifyPublications {
		if !types.ContainsPublication(dst.ModifyPublications, id) {
			dst.ModifyPublications = append(dst.ModifyPublications, id)
		}
	}
	for _, id := range src.AddPublications {
		if !types.ContainsPublication(dst.AddPublications, id) {
			dst.AddPublications = append(dst.AddPublications, id)
		}
	}
	if dst.ModifyName == "" {
		dst.ModifyName = src.ModifyName
	}
	if dst.ModifyHomepage == "" {
		dst.ModifyHomepage = src.ModifyHomepage
	}
	dst.AddLinks = appendLink(dst.AddLinks, src.AddLinks...)
	dst.AddDownloads = appendLink(dst.AddDownloads, src.AddDownloads...)
	dst.AddDocumentation = appendLink(dst.AddDocumentation, src.AddDocumentation...)
	if dst.ModifyLicense == nil {
		dst.ModifyLicense = src.ModifyLicense
	}
	dst.AddLanguages = types.MergeProvenance(dst.AddLanguages, src.AddLanguages...)
	dst.ModifyCredits = appendCredit(dst.ModifyCredits, src.ModifyCredits...)
	dst.AddCredits = appendCredit(dst.AddCredits, src.AddCredits...)
}
