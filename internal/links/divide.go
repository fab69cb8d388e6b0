// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package links

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/toolscout/internal/fetchcache"
	"github.com/pdiddy/toolscout/internal/textnorm"
	"github.com/pdiddy/toolscout/pkg/types"
)

// FallbackHomepage is used when neither a link nor a publication landing
// page is available.
const FallbackHomepage = "https://bio.tools"

// homepageDocTypes are the documentation types, after General, that may
// serve as a homepage.
var homepageDocTypes = map[string]bool{
	types.DocUserManual:   true,
	types.DocInstallation: true,
	types.DocTraining:     true,
	types.DocAPI:          true,
	types.DocFAQ:          true,
	types.DocQuickStart:   true,
}

// Divider fills the homepage and link buckets of suggestions.
type Divider struct {
	Cache  fetchcache.Lookup
	Logger *zap.Logger

	// Workers bounds DivideAll's parallelism (default 4).
	Workers int
}

func (d *Divider) log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// DivideAll divides the links of every result in parallel.
func (d *Divider) DivideAll(ctx context.Context, results []*types.Result) error {
	workers := d.Workers
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
			d.Divide(r)
			return nil
		})
	}
	return g.Wait()
}

// Divide processes every suggestion of r.
func (d *Divider) Divide(r *types.Result) {
	name := ""
	if top := r.Top(); top != nil {
		name = top.Extracted
	}
	for _, sg := range r.Suggestions {
		d.divide(r, sg, name)
	}
}

func (d *Divider) divide(r *types.Result, sg *types.Suggestion, name string) {
	sg.Homepage, sg.HomepageBroken, sg.HomepageMissing = "", false, false
	sg.Links, sg.Downloads, sg.Documentation, sg.Broken = nil, nil, nil, nil

	absLinks, absDownloads, absDocs := Bucket(sg.LinksAbstract)
	absLinks = d.removeBroken(sg, absLinks, false, name)
	absDownloads = d.removeBroken(sg, absDownloads, false, name)
	absDocs = d.removeBroken(sg, absDocs, true, name)
	homepage, absLinks, absDocs := d.chooseHomepage(sg.LinksAbstract, absLinks, absDocs)

	fullLinks, fullDownloads, fullDocs := Bucket(sg.LinksFulltext)
	fullLinks = d.removeBroken(sg, fullLinks, false, name)
	fullDownloads = d.removeBroken(sg, fullDownloads, false, name)
	fullDocs = d.removeBroken(sg, fullDocs, true, name)
	if homepage == "" {
		homepage, fullLinks, fullDocs = d.chooseHomepage(sg.LinksFulltext, fullLinks, fullDocs)
	}

	if homepage == "" {
		homepage = firstPlausible(sg.LinksAbstract)
		if homepage == "" {
			homepage = firstPlausible(sg.LinksFulltext)
		}
		sg.HomepageBroken = homepage != ""
	}
	if homepage == "" {
		for _, ids := range r.PubIDs() {
			if homepage = ids.LandingURL(); homepage != "" {
				break
			}
		}
		if homepage == "" {
			homepage = FallbackHomepage
		}
		sg.HomepageMissing = true
	}
	sg.Homepage = homepage

	trimmed := textnorm.TrimURL(homepage)
	sg.Links = withoutURL(appendUnique(appendUnique(nil, absLinks...), fullLinks...), trimmed)
	sg.Downloads = withoutURL(appendUnique(appendUnique(nil, absDownloads...), fullDownloads...), trimmed)
	sg.Documentation = withoutURL(appendUnique(appendUnique(nil, absDocs...), fullDocs...), trimmed)
}

// withoutURL drops every link whose trimmed URL is trimmed.
func withoutURL(links []types.ClassifiedLink, trimmed string) []types.ClassifiedLink {
	out := links[:0]
	for _, l := range links {
		if l.Trimmed != trimmed {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// removeBroken keeps the links the cache holds as alive. Missing or broken
// links go to the suggestion's Broken list; links that are alive but not a
// plausible URL are dropped with a warning.
func (d *Divider) removeBroken(sg *types.Suggestion, links []types.ClassifiedLink, doc bool, name string) []types.ClassifiedLink {
	var kept []types.ClassifiedLink
	for _, l := range links {
		var e *fetchcache.Entry
		if d.Cache != nil {
			if doc {
				e = d.Cache.Doc(l.URL, true)
			} else {
				e = d.Cache.Webpage(l.URL, true)
			}
		}
		if e == nil || e.Broken {
			sg.Broken = appendUnique(sg.Broken, l)
			continue
		}
		if !textnorm.ValidURL(l.URL) {
			d.log().Warn("links: discarded invalid link url", zap.String("url", l.URL), zap.String("name", name))
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

// chooseHomepage picks the homepage by priority: an Other link, a
// Repository link, General documentation, other documentation fit for a
// homepage, and finally the first live raw link that is a plausible
// non-download URL. A homepage taken from a bucket is removed from it;
// divide drops its copies from the other buckets.
func (d *Divider) chooseHomepage(raw []string, links, docs []types.ClassifiedLink) (string, []types.ClassifiedLink, []types.ClassifiedLink) {
	if i := indexOf(links, func(l types.ClassifiedLink) bool { return l.Type == types.LinkOther }); i >= 0 {
		return links[i].URL, without(links, i), docs
	}
	if i := indexOf(links, func(l types.ClassifiedLink) bool { return l.Type == types.LinkRepository }); i >= 0 {
		return links[i].URL, without(links, i), docs
	}
	if i := indexOf(docs, func(l types.ClassifiedLink) bool { return l.Type == types.DocGeneral }); i >= 0 {
		return docs[i].URL, links, without(docs, i)
	}
	if i := indexOf(docs, func(l types.ClassifiedLink) bool { return homepageDocTypes[l.Type] }); i >= 0 {
		return docs[i].URL, links, without(docs, i)
	}
	for _, u := range raw {
		u = textnorm.PrependHTTP(u)
		if d.Cache != nil && fetchcache.Alive(d.Cache, u) && plausible(u) {
			return u, links, docs
		}
	}
	return "", links, docs
}

func plausible(u string) bool {
	return !textnorm.IsDownload(u) && textnorm.ValidURL(u)
}

// firstPlausible returns the first raw link that is a plausible
// non-download URL, alive or not.
func firstPlausible(raw []string) string {
	for _, u := range raw {
		if u = textnorm.PrependHTTP(u); plausible(u) {
			return u
		}
	}
	return ""
}

func indexOf(links []types.ClassifiedLink, pred func(types.ClassifiedLink) bool) int {
	for i, l := range links {
		if pred(l) {
			return i
		}
	}
	return -1
}

func without(links []types.ClassifiedLink, i int) []types.ClassifiedLink {
	out := make([]types.ClassifiedLink, 0, len(links)-1)
	out = append(out, links[:i]...)
	return append(out, links[i+1:]...)
}
