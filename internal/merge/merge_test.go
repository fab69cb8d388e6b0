// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/toolscout/pkg/types"
)

var bands = types.DefaultConfidenceBands()

func result(pmid string, suggestions ...*types.Suggestion) *types.Result {
	r := &types.Result{
		Publications: []types.Publication{{IDs: types.PubIDs{PMID: pmid}, Title: "title " + pmid}},
		Suggestions:  suggestions,
	}
	r.SortSuggestions()
	return r
}

func sg(extracted string, score2 float64, rank int, abstract ...string) *types.Suggestion {
	return &types.Suggestion{
		Extracted:     extracted,
		Processed:     extracted,
		Score:         1,
		Score2:        score2,
		Rank:          rank,
		LinksAbstract: abstract,
	}
}

func TestMerge_SameConfidentTop(t *testing.T) {
	a := result("1", sg("toolx", 2500, 0, "https://a.org"), sg("other", 100, 1))
	b := result("2", sg("unrelated", 50, 0))
	c := result("3", sg("toolx", 1500, 0, "https://c.org"), sg("extra", 700, 1))

	out := Merge([]*types.Result{a, b, c}, bands)

	require.Len(t, out, 2)
	assert.Same(t, a, out[0])
	assert.Same(t, b, out[1])

	assert.Equal(t, []types.PubIDs{{PMID: "1"}, {PMID: "3"}}, a.PubIDs())
	assert.Equal(t, "title 3", a.Publications[1].Title)

	require.Len(t, a.Suggestions, 3)
	top := a.Top()
	assert.Equal(t, "toolx", top.Extracted)
	assert.Equal(t, 2500.0, top.Score2)
	assert.Equal(t, []string{"https://a.org", "https://c.org"}, top.LinksAbstract)
	assert.Equal(t, "extra", a.Suggestions[1].Extracted)
	assert.Equal(t, "other", a.Suggestions[2].Extracted)
}

func TestMerge_LaterPairWins(t *testing.T) {
	a := result("1", sg("toolx", 600, 0, "https://a.org"), sg("beta", 550, 1, "https://b1.org"))
	b := result("2", sg("toolx", 800, 0), sg("beta", 560, 1, "https://b2.org"))

	out := Merge([]*types.Result{a, b}, bands)
	require.Len(t, out, 1)

	top := out[0].Top()
	assert.Same(t, b.Suggestions[0], top)
	assert.Equal(t, []string{"https://a.org"}, top.LinksAbstract)

	beta := out[0].Suggestions[1]
	assert.Equal(t, 560.0, beta.Score2)
	assert.ElementsMatch(t, []string{"https://b1.org", "https://b2.org"}, beta.LinksAbstract)
}

func TestMerge_NotConfidentSkipped(t *testing.T) {
	a := result("1", sg("toolx", 100, 0))
	b := result("2", sg("toolx", 2000, 0))
	c := result("3", sg("toolx", 3000, 0))

	out := Merge([]*types.Result{a, b, c}, bands)

	require.Len(t, out, 2, "a non-confident result neither absorbs nor stops later merges")
	assert.Same(t, a, out[0])
	assert.Same(t, b, out[1])
	assert.Equal(t, []types.PubIDs{{PMID: "2"}, {PMID: "3"}}, b.PubIDs())
}

func TestMerge_EmptyTopSkipped(t *testing.T) {
	a := &types.Result{Publications: []types.Publication{{IDs: types.PubIDs{PMID: "1"}}}}
	b := result("2", sg("", 5000, 0))
	c := result("3", sg("", 5000, 0))

	out := Merge([]*types.Result{a, b, c}, bands)
	assert.Len(t, out, 3)
}

func TestMerge_Idempotent(t *testing.T) {
	a := result("1", sg("toolx", 2500, 0, "https://a.org"))
	b := result("2", sg("toolx", 1500, 0, "https://b.org"))
	c := result("3", sg("other", 900, 0))

	once := Merge([]*types.Result{a, b, c}, bands)
	snapshot := make([]types.Result, len(once))
	for i, r := range once {
		snapshot[i] = *r
	}

	twice := Merge(once, bands)
	require.Len(t, twice, len(once))
	for i, r := range twice {
		assert.Equal(t, snapshot[i].Publications, r.Publications)
		assert.Equal(t, snapshot[i].Suggestions, r.Suggestions)
	}
}

func TestAbsorb_Self(t *testing.T) {
	a := result("1", sg("toolx", 2500, 0, "https://a.org"), sg("other", 10, 1))
	Absorb(a, a)

	assert.Len(t, a.Publications, 1)
	assert.Len(t, a.Suggestions, 2)
	assert.Equal(t, []string{"https://a.org"}, a.Top().LinksAbstract)
}

func TestFillSameSuggestions(t *testing.T) {
	a := result("1", sg("toolx", 10, 0))
	b := result("2", sg("other", 10, 0))
	c := result("3", sg("toolx", 20, 0))
	empty := result("4", sg("", 10, 0))
	blank := result("5", sg("", 10, 0))
	before := *c.Top()

	FillSameSuggestions([]*types.Result{a, b, c, empty, blank})

	assert.Equal(t, []types.PubIDs{{PMID: "3"}}, a.SameSuggestions)
	assert.Equal(t, []types.PubIDs{{PMID: "1"}}, c.SameSuggestions)
	assert.Empty(t, b.SameSuggestions)
	assert.Empty(t, empty.SameSuggestions)
	assert.Equal(t, before, *c.Top())
}

func TestApplySeed(t *testing.T) {
	first := result("1", sg("toolx", 900, 0), sg("helper", 100, 1, "toolx.org"))
	other := result("2", sg("whatever", 50, 0))
	seededPub := result("3", sg("seeded", 40, 0))
	seededPub.Publications[0].IDs.DOI = "10.1/x"
	seededPub.Publications[0].IDs.PMID = ""

	seed := types.Seed{
		Publications: []types.PubIDs{{DOI: "https://doi.org/10.1/X"}},
		Name:         "Helper",
		WebpageURLs:  []string{"https://www.toolx.org", "helper.io/docs", " "},
	}
	out := ApplySeed([]*types.Result{first, other, seededPub}, seed)

	require.Len(t, out, 2)
	assert.Same(t, first, out[0])
	assert.Same(t, other, out[1])
	assert.Equal(t, []types.PubIDs{{PMID: "1"}, {DOI: "10.1/x"}}, first.PubIDs())

	require.Len(t, first.Suggestions, 3)
	assert.Equal(t, "helper", first.Suggestions[0].Extracted)
	assert.Equal(t, "toolx", first.Suggestions[1].Extracted)
	assert.Equal(t, "seeded", first.Suggestions[2].Extracted)

	assert.Equal(t, []string{"toolx.org", "http://helper.io/docs"}, first.Top().LinksAbstract)
}

func TestApplySeed_Empty(t *testing.T) {
	a := result("1", sg("toolx", 900, 0))
	b := result("1", sg("toolx", 900, 0))
	out := ApplySeed([]*types.Result{a, b}, types.Seed{})
	assert.Len(t, out, 2)
	assert.Empty(t, ApplySeed(nil, types.Seed{Name: "x"}))
}
