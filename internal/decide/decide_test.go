// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/toolscout/internal/evidence"
	"github.com/pdiddy/toolscout/internal/terms"
	"github.com/pdiddy/toolscout/pkg/types"
)

func decider(t *testing.T) *Decider {
	t.Helper()
	set, err := terms.Default()
	require.NoError(t, err)
	return New(types.ConfidenceBands{}, types.InclusionConfig{}, set)
}

func result(ids ...types.PubIDs) *types.Result {
	r := &types.Result{}
	for _, id := range ids {
		r.Publications = append(r.Publications, types.Publication{IDs: id, Title: "ToolX: fast alignment"})
	}
	return r
}

func TestInclude_Tiers(t *testing.T) {
	license := types.NewProvenance("MIT", "https://tool.org")
	pmid := types.PubIDs{PMID: "1"}
	doi := types.PubIDs{DOI: "10.1/x"}

	tests := []struct {
		name     string
		score    float64
		score2   float64
		missing  bool
		ev       *evidence.Evidence
		ids      []types.PubIDs
		included bool
	}{
		{name: "high confidence", score: 1, score2: 2500, missing: true, ids: []types.PubIDs{pmid}, included: true},
		{name: "medium at mid with homepage", score: 12, score2: 1500, ids: []types.PubIDs{pmid}, included: true},
		{name: "medium at mid without homepage", score: 12, score2: 1500, missing: true, ids: []types.PubIDs{pmid}, included: false},
		{name: "medium at high", score: 24, score2: 1500, missing: true, ids: []types.PubIDs{pmid}, included: true},
		{name: "medium below mid, two conditions", score: 5, score2: 1500, ev: &evidence.Evidence{BestLicense: &license}, ids: []types.PubIDs{pmid}, included: true},
		{name: "medium below mid, one condition", score: 5, score2: 1500, ids: []types.PubIDs{pmid}, included: false},
		{name: "doi-only publications count", score: 5, score2: 1500, ids: []types.PubIDs{doi}, included: true},
		{name: "low at mid with language", score: 24, score2: 600, missing: true, ev: &evidence.Evidence{AllLanguages: []types.Provenance{types.NewProvenance("R", "[1]")}}, ids: []types.PubIDs{pmid}, included: true},
		{name: "low below mid", score: 23, score2: 600, ids: []types.PubIDs{pmid}, included: false},
		{name: "very low at high", score: 288, ids: []types.PubIDs{pmid}, score2: types.ScoreUnset, missing: true, included: true},
		{name: "very low at mid with homepage", score: 144, score2: types.ScoreUnset, ids: []types.PubIDs{pmid}, included: true},
		{name: "very low below mid, doi mixed", score: 100, score2: types.ScoreUnset, ids: []types.PubIDs{doi, pmid}, included: false},
	}
	d := decider(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sg := &types.Suggestion{Score: tt.score, Score2: tt.score2, Homepage: "https://tool.org", HomepageMissing: tt.missing}
			r := result(tt.ids...)
			r.Suggestions = []*types.Suggestion{sg}
			ev := tt.ev
			if ev == nil {
				ev = &evidence.Evidence{}
			}
			assert.Equal(t, tt.included, d.Include(r, sg, ev))
		})
	}
}

func TestInclude_Nil(t *testing.T) {
	assert.False(t, decider(t).Include(result(), nil, nil))
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		name     string
		homepage string
		journal  string
		title    string
		abstract string
		excluded bool
	}{
		{name: "plain", homepage: "https://tool.org", title: "ToolX: fast alignment", abstract: "We present ToolX."},
		{name: "trial registry", homepage: "https://www.clinicaltrials.gov/ct2/show/NCT1", excluded: true},
		{name: "geo series", homepage: "https://www.ncbi.nlm.nih.gov/geo/query/acc.cgi?acc=GSE12345", excluded: true},
		{name: "similar host allowed", homepage: "https://osf.iotools.org", title: "ToolX"},
		{name: "review journal", homepage: "https://tool.org", journal: "Annual review of genomics", excluded: true},
		{name: "deny phrase in abstract", homepage: "https://tool.org", abstract: "We performed a systematic review of aligners.", excluded: true},
		{name: "deny phrase in title", homepage: "https://tool.org", title: "Aligners: a review", excluded: true},
	}
	d := decider(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &types.Result{Publications: []types.Publication{{
				Title:             tt.title,
				JournalTitle:      tt.journal,
				AbstractSentences: []string{tt.abstract},
			}}}
			assert.Equal(t, tt.excluded, d.Excluded(r, &types.Suggestion{Homepage: tt.homepage}))
		})
	}
}

func TestInclude_PostFilterOverridesHighConfidence(t *testing.T) {
	sg := &types.Suggestion{Score: 500, Score2: 3000, Homepage: "https://osf.io/abcd"}
	r := result(types.PubIDs{PMID: "1"})
	r.Suggestions = []*types.Suggestion{sg}
	assert.False(t, decider(t).Include(r, sg, &evidence.Evidence{}))
}

func TestConditions(t *testing.T) {
	assert.Equal(t, 0, Conditions(true, nil, nil, nil))
	assert.Equal(t, 1, Conditions(false, nil, nil, []types.PubIDs{{PMID: "1", DOI: "10.1/x"}}))
	assert.Equal(t, 4, Conditions(false, &types.Provenance{Value: "MIT"}, []types.Provenance{{Value: "R"}}, []types.PubIDs{{DOI: "10.1/x"}}))
}
