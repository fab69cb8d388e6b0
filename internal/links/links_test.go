// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package links

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/toolscout/internal/fetchcache"
	"github.com/pdiddy/toolscout/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind types.LinkKind
		typ  string
	}{
		{name: "plain site", raw: "https://tool.org", kind: types.KindLink, typ: types.LinkOther},
		{name: "ftp site", raw: "ftp://example.org/tool", kind: types.KindLink, typ: types.LinkOther},
		{name: "repository", raw: "github.com/user/tool", kind: types.KindLink, typ: types.LinkRepository},
		{name: "issue tracker", raw: "https://github.com/user/tool/issues", kind: types.KindLink, typ: types.LinkIssueTracker},
		{name: "repository wiki", raw: "https://github.com/user/tool/wiki/Home", kind: types.KindDocumentation, typ: types.DocGeneral},
		{name: "mailing list", raw: "https://groups.google.com/forum/#!forum/tool", kind: types.KindLink, typ: types.LinkMailingList},
		{name: "registry", raw: "https://pypi.org/project/tool/", kind: types.KindLink, typ: types.LinkRegistry},
		{name: "helpdesk", raw: "https://www.biostars.org/t/tool", kind: types.KindLink, typ: types.LinkHelpdesk},
		{name: "source archive", raw: "http://tool.org/dl/tool-1.0.tar.gz", kind: types.KindDownload, typ: types.DownloadSourcePackage},
		{name: "binary", raw: "http://tool.org/dl/setup.exe", kind: types.KindDownload, typ: types.DownloadBinaries},
		{name: "container", raw: "https://hub.docker.com/r/lab/tool", kind: types.KindDownload, typ: types.DownloadContainer},
		{name: "read the docs", raw: "https://tool.readthedocs.io/en/latest/", kind: types.KindDocumentation, typ: types.DocGeneral},
		{name: "installation", raw: "https://tool.org/docs/install", kind: types.KindDocumentation, typ: types.DocInstallation},
		{name: "tutorial", raw: "https://tool.org/tutorial.html", kind: types.KindDocumentation, typ: types.DocTraining},
		{name: "manual pdf", raw: "https://tool.org/manual.pdf", kind: types.KindDocumentation, typ: types.DocUserManual},
		{name: "faq", raw: "https://tool.org/faq", kind: types.KindDocumentation, typ: types.DocFAQ},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.typ, got.Type)
		})
	}
}

func TestClassify_PrependsScheme(t *testing.T) {
	l := Classify("tool.org/x/")
	assert.Equal(t, "http://tool.org/x/", l.URL)
	assert.Equal(t, "tool.org/x", l.Trimmed)
}

func TestBucket(t *testing.T) {
	links, downloads, docs := Bucket([]string{"https://tool.org", " ", "https://tool.org/a.zip", "https://tool.org/docs"})
	assert.Len(t, links, 1)
	assert.Len(t, downloads, 1)
	assert.Len(t, docs, 1)
}

func newCache() *fetchcache.Memory {
	c := fetchcache.NewMemory()
	c.Put(fetchcache.KindWebpage, fetchcache.Entry{URL: "https://tool.org"})
	c.Put(fetchcache.KindWebpage, fetchcache.Entry{URL: "https://github.com/u/t"})
	c.Put(fetchcache.KindWebpage, fetchcache.Entry{URL: "https://dead.org", Broken: true})
	c.Put(fetchcache.KindDoc, fetchcache.Entry{URL: "https://tool.org/docs"})
	c.Put(fetchcache.KindWebpage, fetchcache.Entry{URL: "ftp://example.org/tool"})
	c.Put(fetchcache.KindDoc, fetchcache.Entry{URL: "https://doc-only.org/x"})
	return c
}

func divided(t *testing.T, d *Divider, abstract, fulltext []string, ids ...types.PubIDs) *types.Suggestion {
	t.Helper()
	sg := &types.Suggestion{Extracted: "Tool", LinksAbstract: abstract, LinksFulltext: fulltext}
	r := &types.Result{Suggestions: []*types.Suggestion{sg}}
	for _, id := range ids {
		r.Publications = append(r.Publications, types.Publication{IDs: id})
	}
	d.Divide(r)
	return sg
}

func TestDivide_OtherLinkWins(t *testing.T) {
	d := &Divider{Cache: newCache()}
	sg := divided(t, d, []string{"https://github.com/u/t", "https://tool.org", "https://dead.org", "https://tool.org/docs"}, nil)

	assert.Equal(t, "https://tool.org", sg.Homepage)
	assert.False(t, sg.HomepageBroken)
	assert.False(t, sg.HomepageMissing)

	require.Len(t, sg.Links, 1)
	assert.Equal(t, types.LinkRepository, sg.Links[0].Type)
	require.Len(t, sg.Documentation, 1)
	assert.Equal(t, "https://tool.org/docs", sg.Documentation[0].URL)
	require.Len(t, sg.Broken, 1)
	assert.Equal(t, "https://dead.org", sg.Broken[0].URL)
}

func TestDivide_RepositoryThenDocs(t *testing.T) {
	d := &Divider{Cache: newCache()}

	sg := divided(t, d, []string{"https://tool.org/docs", "https://github.com/u/t"}, nil)
	assert.Equal(t, "https://github.com/u/t", sg.Homepage)
	assert.Empty(t, sg.Links)
	assert.Len(t, sg.Documentation, 1)

	sg = divided(t, d, []string{"https://tool.org/docs"}, nil)
	assert.Equal(t, "https://tool.org/docs", sg.Homepage)
	assert.Empty(t, sg.Documentation)
}

func TestDivide_FulltextFTP(t *testing.T) {
	d := &Divider{Cache: newCache()}
	sg := divided(t, d, nil, []string{"ftp://example.org/tool"})

	assert.Equal(t, "ftp://example.org/tool", sg.Homepage)
	assert.False(t, sg.HomepageBroken)
	assert.False(t, sg.HomepageMissing)
	assert.Empty(t, sg.Links)
}

func TestDivide_AliveOnlyAsDoc(t *testing.T) {
	d := &Divider{Cache: newCache()}
	sg := divided(t, d, []string{"https://doc-only.org/x"}, nil)

	assert.Equal(t, "https://doc-only.org/x", sg.Homepage)
	assert.False(t, sg.HomepageBroken)
	assert.Len(t, sg.Broken, 1, "the webpage lookup misses, so the link itself counts as broken")
}

func TestDivide_BrokenFallback(t *testing.T) {
	d := &Divider{Cache: newCache()}
	sg := divided(t, d, []string{"https://tool.org/pkg.zip", "https://dead.org"}, []string{"https://other.org"})

	assert.Equal(t, "https://dead.org", sg.Homepage)
	assert.True(t, sg.HomepageBroken)
	assert.False(t, sg.HomepageMissing)
}

func TestDivide_MissingFallback(t *testing.T) {
	d := &Divider{Cache: newCache()}

	sg := divided(t, d, nil, nil, types.PubIDs{}, types.PubIDs{PMCID: "PMC7"})
	assert.Equal(t, "https://www.ncbi.nlm.nih.gov/pmc/articles/PMC7/", sg.Homepage)
	assert.True(t, sg.HomepageMissing)
	assert.False(t, sg.HomepageBroken)

	sg = divided(t, d, nil, nil)
	assert.Equal(t, FallbackHomepage, sg.Homepage)
	assert.True(t, sg.HomepageMissing)
}

func TestDivide_HomepageLeavesLinkLists(t *testing.T) {
	cache := newCache()
	cache.Put(fetchcache.KindWebpage, fetchcache.Entry{URL: "https://github.com/u/t/issues"})
	cache.Put(fetchcache.KindWebpage, fetchcache.Entry{URL: "http://www.tool.org/"})
	d := &Divider{Cache: cache}

	tests := []struct {
		name     string
		abstract []string
		fulltext []string
		homepage string
		links    []string
	}{
		{
			name:     "same link in abstract and fulltext",
			abstract: []string{"https://tool.org"},
			fulltext: []string{"https://tool.org", "https://github.com/u/t"},
			homepage: "https://tool.org",
			links:    []string{"https://github.com/u/t"},
		},
		{
			name:     "fulltext copy differs in scheme and slash",
			abstract: []string{"https://tool.org"},
			fulltext: []string{"http://www.tool.org/"},
			homepage: "https://tool.org",
		},
		{
			name:     "raw issue tracker chosen",
			abstract: []string{"https://github.com/u/t/issues"},
			homepage: "https://github.com/u/t/issues",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sg := divided(t, d, tt.abstract, tt.fulltext)
			assert.Equal(t, tt.homepage, sg.Homepage)
			var got []string
			for _, l := range sg.Links {
				got = append(got, l.URL)
			}
			assert.Equal(t, tt.links, got)
			assert.Empty(t, sg.Documentation)
			assert.Empty(t, sg.Downloads)
		})
	}
}

func TestDivide_InvalidURLWarns(t *testing.T) {
	cache := newCache()
	cache.Put(fetchcache.KindWebpage, fetchcache.Entry{URL: "http://bad url"})

	core, logs := observer.New(zap.WarnLevel)
	d := &Divider{Cache: cache, Logger: zap.New(core)}
	sg := divided(t, d, []string{"http://bad url"}, nil, types.PubIDs{PMID: "9"})

	assert.Empty(t, sg.Links)
	assert.Empty(t, sg.Broken)
	assert.True(t, sg.HomepageMissing)
	assert.Equal(t, 1, logs.FilterMessage("links: discarded invalid link url").Len())
}

func TestDivideAll(t *testing.T) {
	d := &Divider{Cache: newCache(), Workers: 2}
	var results []*types.Result
	for i := 0; i < 20; i++ {
		results = append(results, &types.Result{Suggestions: []*types.Suggestion{
			{Extracted: "a", LinksAbstract: []string{"https://tool.org"}},
			{Extracted: "b", LinksFulltext: []string{"https://github.com/u/t"}},
		}})
	}
	require.NoError(t, d.DivideAll(context.Background(), results))
	for _, r := range results {
		assert.Equal(t, "https://tool.org", r.Suggestions[0].Homepage)
		assert.Equal(t, "https://github.com/u/t", r.Suggestions[1].Homepage)
	}
}
