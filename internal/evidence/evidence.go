// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evidence collects the license, language and credit evidence for
// a result's top suggestion. Webpage evidence comes from the fetch cache;
// abstract evidence comes from the recognizers in package terms. Every
// value keeps the sources it was observed at.
package evidence

import (
	"github.com/pdiddy/toolscout/internal/fetchcache"
	"github.com/pdiddy/toolscout/internal/terms"
	"github.com/pdiddy/toolscout/internal/textnorm"
	"github.com/pdiddy/toolscout/pkg/types"
)

// Evidence is what was found for one suggestion. The per-source lists are
// aligned with the suggestion's link buckets; entries for links without a
// cached value are empty.
type Evidence struct {
	// Homepage is the homepage evidence was read from, empty when the
	// suggestion's homepage is broken or missing.
	Homepage string

	HomepageLicense       string
	LinkLicenses          []types.Provenance
	DownloadLicenses      []types.Provenance
	DocumentationLicenses []types.Provenance

	// AbstractLicenses holds one list per publication.
	AbstractLicenses [][]types.Provenance

	// BestLicense is the most frequent canonical license over all sources.
	BestLicense *types.Provenance

	// BestAbstractLicense is the most frequent license over abstracts only.
	BestAbstractLicense *types.Provenance

	HomepageLanguage       string
	LinkLanguages          []types.Provenance
	DownloadLanguages      []types.Provenance
	DocumentationLanguages []types.Provenance
	AbstractLanguages      [][]types.Provenance

	// AbstractLanguagesUnique merges AbstractLanguages by value.
	AbstractLanguagesUnique []types.Provenance

	// AllLanguages merges webpage and abstract languages by value.
	AllLanguages []types.Provenance

	// Credits are the corresponding authors of all publications, merged.
	Credits []types.CorrespAuthor
}

// Gatherer reads evidence from the cache and the text recognizers.
type Gatherer struct {
	Cache fetchcache.Lookup
	Terms *terms.Set
}

// Gather collects the evidence for sg, the top suggestion of r. sg may be
// nil, in which case only credits are collected.
func (g *Gatherer) Gather(r *types.Result, sg *types.Suggestion) *Evidence {
	ev := &Evidence{Credits: MergeCredits(r)}
	if sg == nil {
		return ev
	}
	if !sg.HomepageBroken && !sg.HomepageMissing {
		ev.Homepage = sg.Homepage
	}
	g.licenses(ev, r, sg)
	g.languages(ev, r, sg)
	return ev
}

func (g *Gatherer) webpage(url string, required bool) *fetchcache.Entry {
	if g.Cache == nil {
		return nil
	}
	return g.Cache.Webpage(url, required)
}

func (g *Gatherer) doc(url string, required bool) *fetchcache.Entry {
	if g.Cache == nil {
		return nil
	}
	return g.Cache.Doc(url, required)
}

// homepageEntry returns the webpage entry of the homepage, else its doc entry.
func (g *Gatherer) homepageEntry(url string) *fetchcache.Entry {
	if url == "" {
		return nil
	}
	if e := g.webpage(url, false); e != nil {
		return e
	}
	return g.doc(url, false)
}

// field reads one value per link: webpage entries for links and downloads,
// doc entries for documentation.
func (g *Gatherer) field(links []types.ClassifiedLink, doc bool, value func(*fetchcache.Entry) string) []types.Provenance {
	out := make([]types.Provenance, 0, len(links))
	for _, l := range links {
		var e *fetchcache.Entry
		if doc {
			e = g.doc(l.URL, true)
		} else {
			e = g.webpage(l.URL, true)
		}
		if e == nil || value(e) == "" {
			out = append(out, types.Provenance{})
			continue
		}
		out = append(out, types.NewProvenance(value(e), l.URL))
	}
	return out
}

func nonEmpty(lists ...[]types.Provenance) []types.Provenance {
	var out []types.Provenance
	for _, l := range lists {
		for _, p := range l {
			if !p.IsEmpty() {
				out = append(out, p)
			}
		}
	}
	return out
}

func license(e *fetchcache.Entry) string  { return e.License }
func language(e *fetchcache.Entry) string { return e.Language }

func (g *Gatherer) licenses(ev *Evidence, r *types.Result, sg *types.Suggestion) {
	var webpage []types.Provenance
	if e := g.homepageEntry(ev.Homepage); e != nil && e.License != "" {
		ev.HomepageLicense = e.License
		webpage = append(webpage, types.NewProvenance(e.License, ev.Homepage))
	}
	ev.LinkLicenses = g.field(sg.Links, false, license)
	ev.DownloadLicenses = g.field(sg.Downloads, false, license)
	ev.DocumentationLicenses = g.field(sg.Documentation, true, license)
	webpage = append(webpage, nonEmpty(ev.LinkLicenses, ev.DownloadLicenses, ev.DocumentationLicenses)...)

	var recognizer *terms.Recognizer
	if g.Terms != nil {
		recognizer = g.Terms.Licenses
	}
	for _, pub := range r.Publications {
		source := pub.IDs.String()
		var found []types.Provenance
		for _, sentence := range pub.AbstractSentences {
			if l, ok := recognizer.BestMatch(sentence, false); ok {
				found = append(found, types.NewProvenance(l, source))
			}
		}
		ev.AbstractLicenses = append(ev.AbstractLicenses, found)
	}

	var all []types.Provenance
	for _, p := range webpage {
		if l, ok := recognizer.BestMatch(p.Value, true); ok {
			all = append(all, types.NewProvenance(l, p.Sources...))
		}
	}
	var abstract []types.Provenance
	for _, found := range ev.AbstractLicenses {
		abstract = append(abstract, found...)
	}
	all = append(all, abstract...)

	ev.BestLicense = MostFrequent(all)
	ev.BestAbstractLicense = MostFrequent(abstract)
}

// MostFrequent returns the value seen most often, with the sources of all
// its occurrences. Ties go to the value that reached the count first. It
// returns nil for an empty list.
func MostFrequent(values []types.Provenance) *types.Provenance {
	counts := make(map[string]int)
	merged := make(map[string]*types.Provenance)
	var best *types.Provenance
	bestCount := 0
	for _, v := range values {
		counts[v.Value]++
		p, ok := merged[v.Value]
		if ok {
			p.AddSources(v.Sources...)
		} else {
			p = &types.Provenance{Value: v.Value}
			p.AddSources(v.Sources...)
			merged[v.Value] = p
		}
		if counts[v.Value] > bestCount {
			best, bestCount = p, counts[v.Value]
		}
	}
	return best
}

func (g *Gatherer) languages(ev *Evidence, r *types.Result, sg *types.Suggestion) {
	var webpage []types.Provenance
	if e := g.homepageEntry(ev.Homepage); e != nil && e.Language != "" {
		ev.HomepageLanguage = e.Language
		webpage = append(webpage, types.NewProvenance(e.Language, ev.Homepage))
	}
	ev.LinkLanguages = g.field(sg.Links, false, language)
	ev.DownloadLanguages = g.field(sg.Downloads, false, language)
	ev.DocumentationLanguages = g.field(sg.Documentation, true, language)
	webpage = append(webpage, nonEmpty(ev.LinkLanguages, ev.DownloadLanguages, ev.DocumentationLanguages)...)

	var recognizer *terms.Recognizer
	if g.Terms != nil {
		recognizer = g.Terms.Languages
	}
	for _, pub := range r.Publications {
		source := pub.IDs.String()
		var found []types.Provenance
		for _, sentence := range pub.AbstractSentences {
			for _, l := range recognizer.Matches(sentence, false) {
				found = append(found, types.NewProvenance(l, source))
			}
		}
		ev.AbstractLanguages = append(ev.AbstractLanguages, found)
		ev.AbstractLanguagesUnique = types.MergeProvenance(ev.AbstractLanguagesUnique, found...)
	}

	for _, p := range webpage {
		for _, l := range recognizer.Matches(p.Value, true) {
			ev.AllLanguages = types.MergeProvenance(ev.AllLanguages, types.NewProvenance(l, p.Sources...))
		}
	}
	for _, found := range ev.AbstractLanguages {
		ev.AllLanguages = types.MergeProvenance(ev.AllLanguages, found...)
	}
}

// MergeCredits folds the corresponding authors of all publications of r
// into one list. Authors equal by name, ORCID or e-mail are merged, with
// empty fields filled from later records. Phone numbers are not kept.
func MergeCredits(r *types.Result) []types.CorrespAuthor {
	var credits []types.CorrespAuthor
	for _, pub := range r.Publications {
		for _, ca := range pub.CorrespAuthors {
			i := indexOfPerson(credits, ca)
			if i < 0 {
				credits = append(credits, types.CorrespAuthor{Name: ca.Name, ORCID: ca.ORCID, Email: ca.Email, URI: ca.URI})
				continue
			}
			c := &credits[i]
			if c.Name == "" {
				c.Name = ca.Name
			}
			if c.ORCID == "" {
				c.ORCID = ca.ORCID
			}
			if c.Email == "" {
				c.Email = ca.Email
			}
			if c.URI == "" {
				c.URI = ca.URI
			}
		}
	}
	return credits
}

func indexOfPerson(credits []types.CorrespAuthor, ca types.CorrespAuthor) int {
	for i, c := range credits {
		if textnorm.SamePerson(ca.Name, ca.ORCID, ca.Email, c.Name, c.ORCID, c.Email) {
			return i
		}
	}
	return -1
}
