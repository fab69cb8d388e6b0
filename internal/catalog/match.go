// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/toolscout/internal/textnorm"
	"github.com/pdiddy/toolscout/pkg/types"
)

// NameWordMatchLimit is the largest number of entries one word of a name
// may match and still be recorded.
const NameWordMatchLimit = 5

// linkDeny are shared hosts under which a common prefix says nothing.
var linkDeny = []string{"github.io", "sourceforge.net", "readthedocs.io", "r-project.org"}

// pubMatch is how a result's publications relate to one entry.
type pubMatch struct {
	one       bool
	all       bool
	unmatched []types.PubIDs
}

// MatchAll matches every result in parallel. done, if non-nil, is called
// once per result and must be safe for concurrent use.
func (c *Catalog) MatchAll(ctx context.Context, results []*types.Result, workers int, done func()) error {
	if workers <= 0 {
		workers = 4
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, r := range results {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c.Match(r)
			if done != nil {
				done()
			}
			return nil
		})
	}
	return g.Wait()
}

// Match fills the match categories of every suggestion of r and the name,
// link and name-word matches of its top suggestion. Previous matches are
// replaced.
func (c *Catalog) Match(r *types.Result) {
	r.NameMatch, r.LinkMatch, r.NameWordMatch = nil, nil, nil

	ids := r.PubIDs()
	pm := make([]pubMatch, len(c.entries))
	for j := range c.entries {
		pm[j] = c.publicationMatch(j, ids)
	}

	for i, sg := range r.Suggestions {
		sg.Matches = nil
		for j := range c.entries {
			m := pm[j]
			switch {
			case sg.Extracted == c.entries[j].Name && m.all:
				sg.Matches = append(sg.Matches, types.CatalogMatch{Kind: types.MatchPublicationAndName, Entry: j})
			case sg.Extracted == c.entries[j].Name && m.one:
				sg.Matches = append(sg.Matches, types.CatalogMatch{Kind: types.MatchNameSomePublicationDifferent, Entry: j, Unmatched: m.unmatched})
			case sg.Extracted == c.entries[j].Name:
				sg.Matches = append(sg.Matches, types.CatalogMatch{Kind: types.MatchNamePublicationDifferent, Entry: j, Unmatched: m.unmatched})
			case m.one:
				sg.Matches = append(sg.Matches, types.CatalogMatch{Kind: types.MatchSomePublicationNameDifferent, Entry: j, Unmatched: m.unmatched})
			}
		}
		if i == 0 {
			c.nameMatch(r, sg)
			c.linkMatch(r, sg)
			c.nameWordMatch(r, sg)
		}
	}
}

// publicationMatch compares the result's publications with entry j's.
func (c *Catalog) publicationMatch(j int, ids []types.PubIDs) pubMatch {
	m := pubMatch{all: true}
	for _, id := range ids {
		found := false
		for _, p := range c.publications[j] {
			if id.SamePublication(p) {
				found = true
				break
			}
		}
		if found {
			m.one = true
			continue
		}
		m.all = false
		if !types.ContainsPublication(m.unmatched, id) {
			m.unmatched = append(m.unmatched, id)
		}
	}
	return m
}

// nameMatch records entries whose processed name, or alphanumeric id,
// equals the suggestion's version-trimmed processed name.
func (c *Catalog) nameMatch(r *types.Result, sg *types.Suggestion) {
	processed := textnorm.TrimProcessedVersion(sg.Processed)
	if processed == "" {
		return
	}
	compare := textnorm.AlphanumOnly(processed)
	for j := range c.entries {
		if processed != c.namesProcessed[j] && compare != c.idsCompare[j] {
			continue
		}
		if sg.MatchOf(j) == types.MatchNone {
			r.NameMatch = append(r.NameMatch, j)
		}
	}
}

// linkMatch records entries sharing a link with the suggestion. Links
// match when equal ignoring case, or when, with the lowest subdomain
// stripped, one is a prefix of the other and the remainder is at most one
// path segment. Entries matched by publication are skipped.
func (c *Catalog) linkMatch(r *types.Result, sg *types.Suggestion) {
	index := make(map[int]int)
	add := func(j int, links []string) {
		k, ok := index[j]
		if !ok {
			k = len(r.LinkMatch)
			index[j] = k
			r.LinkMatch = append(r.LinkMatch, types.LinkMatch{Entry: j})
		}
		r.LinkMatch[k].Links = append(r.LinkMatch[k].Links, links...)
	}

	raw := append(append([]string(nil), sg.LinksAbstract...), sg.LinksFulltext...)
	for _, l := range raw {
		link := textnorm.TrimURL(l)
		if link == "" {
			continue
		}
		for j := range c.entries {
			switch sg.MatchOf(j) {
			case types.MatchPublicationAndName, types.MatchNameSomePublicationDifferent, types.MatchSomePublicationNameDifferent:
				continue
			}
			var matched []string
			for _, q := range c.links[j] {
				if m, ok := LinksMatch(link, q); ok {
					matched = append(matched, m)
				}
			}
			if len(matched) > 0 {
				add(j, matched)
			}
		}
	}
}

// LinksMatch compares a trimmed suggestion link with a trimmed entry link
// and returns the link string to record.
func LinksMatch(link, query string) (string, bool) {
	if strings.EqualFold(link, query) {
		return link, true
	}
	a := textnorm.RemoveLowestSubdomain(link)
	b := textnorm.RemoveLowestSubdomain(query)

	var rest, matched string
	switch {
	case strings.HasPrefix(a, b):
		rest, matched = a[len(b):], b
	case strings.HasPrefix(b, a):
		rest, matched = b[len(a):], a
	default:
		return "", false
	}
	if rest != "" && !strings.HasPrefix(rest, "/") {
		return "", false
	}
	if strings.Count(rest, "/") > 1 {
		return "", false
	}
	for _, deny := range linkDeny {
		if strings.HasPrefix(strings.ToLower(a), deny) || strings.HasPrefix(strings.ToLower(b), deny) {
			return "", false
		}
	}
	return matched, true
}

// nameWordMatch records entries whose name contains a word of the
// suggestion's name, for words that match few enough entries.
func (c *Catalog) nameWordMatch(r *types.Result, sg *types.Suggestion) {
	extracted := textnorm.TrimExtractedVersion(sg.Extracted)
	if extracted == "" {
		return
	}
	for _, word := range strings.Split(extracted, " ") {
		if word == "" {
			continue
		}
		var part []int
		for j := range c.entries {
			if !slices.Contains(c.namesExtracted[j], word) {
				continue
			}
			if sg.MatchOf(j) != types.MatchNone || slices.Contains(r.NameMatch, j) ||
				r.InLinkMatch(j) || slices.Contains(r.NameWordMatch, j) {
				continue
			}
			part = append(part, j)
		}
		if len(part) >= 1 && len(part) <= NameWordMatchLimit {
			r.NameWordMatch = append(r.NameWordMatch, part...)
		}
	}
}
