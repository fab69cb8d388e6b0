// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/toolscout/pkg/types"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "array", input: `[{"biotoolsID":"a","name":"A"},{"biotoolsID":"b","name":"B"}]`, want: 2},
		{name: "listing", input: `{"count":1,"list":[{"biotoolsID":"a","name":"A","extra":1}]}`, want: 1},
		{name: "empty array", input: ` [] `, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Read(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Len())
		})
	}
}

func TestRead_Errors(t *testing.T) {
	for _, input := range []string{"", "   ", "[{", `{"list": 3}`} {
		_, err := Read(strings.NewReader(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"biotoolsID":"toolx","name":"ToolX","homepage":"https://toolx.org","publication":[{"pmid":" 100 "},{"type":"Primary"}],"link":[{"url":"https://github.com/x/toolx","type":["Repository"]}]}]`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	e := c.Entry(0)
	assert.Equal(t, "toolx", e.ID)
	assert.Equal(t, []string{"Repository"}, e.Links[0].Types)
	assert.Equal(t, 1, c.UnusablePublications())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func entry(id, name string, pmids ...string) types.CatalogEntry {
	e := types.CatalogEntry{ID: id, Name: name}
	for _, p := range pmids {
		e.Publications = append(e.Publications, types.PubIDs{PMID: p})
	}
	return e
}

func result(extracted string, pmids ...string) *types.Result {
	r := &types.Result{}
	for _, p := range pmids {
		r.Publications = append(r.Publications, types.Publication{IDs: types.PubIDs{PMID: p}})
	}
	r.Suggestions = []*types.Suggestion{{Extracted: extracted, Processed: strings.ToLower(extracted)}}
	return r
}

func TestMatch_Categories(t *testing.T) {
	tests := []struct {
		name      string
		entry     types.CatalogEntry
		pmids     []string
		kind      types.MatchKind
		unmatched []types.PubIDs
	}{
		{name: "name and publication", entry: entry("toolx", "ToolX", "100"), pmids: []string{"100"}, kind: types.MatchPublicationAndName},
		{name: "name, publication differs", entry: entry("toolx", "ToolX", "999"), pmids: []string{"100"}, kind: types.MatchNamePublicationDifferent, unmatched: []types.PubIDs{{PMID: "100"}}},
		{name: "name, some publication differs", entry: entry("toolx", "ToolX", "100"), pmids: []string{"100", "200"}, kind: types.MatchNameSomePublicationDifferent, unmatched: []types.PubIDs{{PMID: "200"}}},
		{name: "publication, name differs", entry: entry("other", "Other", "100"), pmids: []string{"100", "200"}, kind: types.MatchSomePublicationNameDifferent, unmatched: []types.PubIDs{{PMID: "200"}}},
		{name: "nothing shared", entry: entry("other", "Other", "999"), pmids: []string{"100"}, kind: types.MatchNone},
		{name: "case matters for names", entry: entry("toolx", "toolx", "999"), pmids: []string{"100"}, kind: types.MatchNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New([]types.CatalogEntry{tt.entry})
			r := result("ToolX", tt.pmids...)
			c.Match(r)

			sg := r.Top()
			assert.Equal(t, tt.kind, sg.MatchOf(0))
			if tt.kind != types.MatchNone {
				require.Len(t, sg.Matches, 1)
				assert.Equal(t, tt.unmatched, sg.Matches[0].Unmatched)
			}
		})
	}
}

func TestMatch_DOIAndPMCID(t *testing.T) {
	c := New([]types.CatalogEntry{{ID: "a", Name: "A", Publications: []types.PubIDs{{DOI: "https://doi.org/10.1/ABC"}, {PMCID: " PMC5 "}}}})
	r := &types.Result{
		Publications: []types.Publication{{IDs: types.PubIDs{DOI: "10.1/abc"}}, {IDs: types.PubIDs{PMCID: "PMC5"}}},
		Suggestions:  []*types.Suggestion{{Extracted: "A", Processed: "a"}},
	}
	c.Match(r)
	assert.Equal(t, types.MatchPublicationAndName, r.Top().MatchOf(0))
}

func TestMatch_Exclusive(t *testing.T) {
	var entries []types.CatalogEntry
	for i := 0; i < 10; i++ {
		name := "ToolX"
		if i%2 == 0 {
			name = fmt.Sprintf("Other%d", i)
		}
		entries = append(entries, entry(fmt.Sprint(i), name, fmt.Sprint(100+i%3)))
	}
	c := New(entries)
	r := result("ToolX", "100", "101")
	r.Suggestions = append(r.Suggestions, &types.Suggestion{Extracted: "Other4", Processed: "other4"})
	c.Match(r)

	for _, sg := range r.Suggestions {
		seen := map[int]bool{}
		for _, m := range sg.Matches {
			assert.False(t, seen[m.Entry], "entry %d listed twice", m.Entry)
			seen[m.Entry] = true
		}
	}
}

func TestMatch_NameMatch(t *testing.T) {
	c := New([]types.CatalogEntry{
		entry("toolx", "ToolX 2"),
		entry("tool_x", "Something Else"),
		entry("unrelated", "Unrelated"),
		entry("toolx3", "ToolX 3", "100"),
	})
	r := result("ToolX 3", "100")
	r.Top().Processed = "toolx 3"
	c.Match(r)

	assert.Equal(t, []int{0, 1}, r.NameMatch)
	assert.Equal(t, types.MatchPublicationAndName, r.Top().MatchOf(3))
}

func TestMatch_OnlyTopGetsExtraMatches(t *testing.T) {
	c := New([]types.CatalogEntry{entry("beta", "Beta")})
	r := result("Alpha", "1")
	r.Suggestions = append(r.Suggestions, &types.Suggestion{Extracted: "Other", Processed: "beta"})
	c.Match(r)
	assert.Empty(t, r.NameMatch)
}

func TestLinksMatch(t *testing.T) {
	tests := []struct {
		name    string
		link    string
		query   string
		matched string
		ok      bool
	}{
		{name: "equal ignoring case", link: "tool.io/Docs", query: "tool.io/docs", matched: "tool.io/Docs", ok: true},
		{name: "two segments too many", link: "sub.tool.io/docs/page", query: "tool.io", ok: false},
		{name: "one segment", link: "tool.io/docs", query: "tool.io", matched: "tool.io", ok: true},
		{name: "subdomain stripped", link: "sub.tool.io", query: "tool.io/docs", matched: "tool.io", ok: true},
		{name: "not a path boundary", link: "tool.iox", query: "tool.io", ok: false},
		{name: "host sharing a prefix", link: "tool.org", query: "tool.organics/x", ok: false},
		{name: "shared host itself", link: "github.io", query: "github.io/tool", ok: false},
		{name: "shared host denied", link: "alice.github.io/x", query: "bob.github.io", ok: false},
		{name: "unrelated", link: "a.org", query: "b.org", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LinksMatch(tt.link, tt.query)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.matched, got)
			}
		})
	}
}

func TestMatch_LinkMatch(t *testing.T) {
	pan := entry("pan", "ToolX", "1")
	pan.Homepage = "https://tool.io"
	npd := entry("npd", "ToolX", "9")
	npd.Homepage = "https://www.tool.io/"
	other := entry("other", "Other")
	other.Links = []types.CatalogLink{{URL: "http://sub.tool.io/docs"}}
	far := entry("far", "Far")
	far.Homepage = "https://far.org"

	c := New([]types.CatalogEntry{pan, npd, other, far})
	r := result("ToolX", "1")
	r.Top().LinksAbstract = []string{"https://tool.io/docs/page"}
	r.Top().LinksFulltext = []string{"https://tool.io/docs"}
	c.Match(r)

	require.Len(t, r.LinkMatch, 2)
	assert.Equal(t, types.LinkMatch{Entry: 2, Links: []string{"tool.io/docs", "tool.io/docs"}}, r.LinkMatch[0])
	assert.Equal(t, types.LinkMatch{Entry: 1, Links: []string{"tool.io"}}, r.LinkMatch[1])
	assert.False(t, r.InLinkMatch(0))
}

func TestMatch_NameWordMatch(t *testing.T) {
	entries := []types.CatalogEntry{entry("alignkit", "Align Kit")}
	for _, s := range []string{"A", "B", "C", "D", "E", "F"} {
		entries = append(entries, entry("deep"+s, "Deep "+s))
	}
	c := New(entries)
	r := result("Deep Align 2.0", "1")
	r.Top().Processed = "deep align 2 0"
	c.Match(r)

	assert.Equal(t, []int{0}, r.NameWordMatch)
}

func TestMatchAll(t *testing.T) {
	c := New([]types.CatalogEntry{entry("toolx", "ToolX", "100")})
	var results []*types.Result
	for i := 0; i < 30; i++ {
		results = append(results, result("ToolX", "100"))
	}
	calls := make(chan struct{}, len(results))
	require.NoError(t, c.MatchAll(context.Background(), results, 3, func() { calls <- struct{}{} }))
	assert.Len(t, calls, len(results))
	for _, r := range results {
		assert.Equal(t, types.MatchPublicationAndName, r.Top().MatchOf(0))
	}
}

func TestMatchLabels(t *testing.T) {
	c := New([]types.CatalogEntry{
		entry("toolx", "ToolX", "100"),
		entry("other", "Other", "100"),
		entry("toolx2", "ToolX", "999"),
	})
	r := result("ToolX", "100", "200")
	c.Match(r)
	r.LinkMatch = []types.LinkMatch{{Entry: 1, Links: []string{"a.org", "a.org/x"}}}
	r.NameWordMatch = []int{1}
	sg := r.Top()

	assert.Empty(t, c.MatchLabels(sg, types.MatchPublicationAndName))
	assert.Equal(t, []string{"toolx ([200])"}, c.MatchLabels(sg, types.MatchNameSomePublicationDifferent))
	assert.Equal(t, []string{"other (Other) ([200])"}, c.MatchLabels(sg, types.MatchSomePublicationNameDifferent))
	assert.Equal(t, []string{"toolx2 ([100] ; [200])"}, c.MatchLabels(sg, types.MatchNamePublicationDifferent))
	assert.Equal(t, []string{"other (a.org ; a.org/x)"}, c.LinkMatchLabels(r))
	assert.Equal(t, []string{"other (Other)"}, c.NameWordMatchLabels(r))
	assert.Empty(t, c.NameMatchLabels(r))
	assert.Equal(t, []string{"toolx", "toolx2"}, c.IDs([]int{0, 2}))
	assert.Nil(t, c.MatchLabels(nil, types.MatchPublicationAndName))
}
