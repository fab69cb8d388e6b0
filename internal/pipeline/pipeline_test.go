// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/toolscout/internal/catalog"
	"github.com/pdiddy/toolscout/internal/fetchcache"
	"github.com/pdiddy/toolscout/internal/rarity"
	"github.com/pdiddy/toolscout/internal/report"
	"github.com/pdiddy/toolscout/internal/terms"
	"github.com/pdiddy/toolscout/pkg/types"
)

func testRecords() []types.FirstPassRecord {
	return []types.FirstPassRecord{
		{
			PMID:              "100",
			DOI:               "10.1000/toolx",
			Title:             "ToolX: fast alignment of short reads",
			AbstractSentences: []string{"We present ToolX, a fast aligner.", "ToolX is written in Python and released under the MIT license."},
			JournalTitle:      "Bioinformatics",
			Suggestions: []types.FirstPassSuggestion{
				{Original: "ToolX", Extracted: "ToolX", Processed: "toolx", Score: 900, LinksAbstract: []string{"https://toolx.org"}},
			},
		},
		{
			PMID:              "200",
			Title:             "NewSuite: a workbench for proteomics",
			AbstractSentences: []string{"NewSuite is available at https://newsuite.org."},
			CorrespAuthor:     []types.CorrespAuthor{{Name: "Ada Lovelace", Email: "ada@example.org"}},
			Suggestions: []types.FirstPassSuggestion{
				{Original: "NewSuite", Extracted: "NewSuite", Processed: "newsuite", Score: 1200, LinksAbstract: []string{"https://newsuite.org", "https://github.com/lab/newsuite"}},
				{Original: "workbench", Extracted: "workbench", Processed: "workbench", Score: 3},
			},
		},
		{
			PMID:  "300",
			Title: "A review of everything",
		},
	}
}

func testCatalogEntries() []types.CatalogEntry {
	return []types.CatalogEntry{
		{
			ID:           "toolx",
			Name:         "ToolX",
			Homepage:     "https://toolx.org",
			Publications: []types.PubIDs{{PMID: "100"}},
		},
	}
}

func testInputs(t *testing.T) Inputs {
	t.Helper()
	set, err := terms.Default()
	require.NoError(t, err)
	cache := fetchcache.NewMemory()
	cache.Put(fetchcache.KindWebpage, fetchcache.Entry{URL: "https://toolx.org", StatusCode: 200, Title: "ToolX"})
	cache.Put(fetchcache.KindWebpage, fetchcache.Entry{URL: "https://newsuite.org", StatusCode: 200, Title: "NewSuite proteomics workbench", License: "Apache-2.0"})
	cache.Put(fetchcache.KindWebpage, fetchcache.Entry{URL: "https://github.com/lab/newsuite", StatusCode: 200, Language: "Java"})
	return Inputs{
		Records: testRecords(),
		Catalog: catalog.New(testCatalogEntries()),
		Rarity:  rarity.New(1000, map[string]int{"toolx": 2, "newsuite": 1, "workbench": 40}),
		Cache:   cache,
		Terms:   set,
	}
}

// writeFixtures lays out a run directory with every input, including a
// SQLite cache.
func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	data, err := json.Marshal(testRecords())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultPass1File), data, 0o644))

	data, err = json.Marshal(map[string]any{"count": 1, "list": testCatalogEntries()})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultCatalogFile), data, 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultIDFFile), []byte("1000\ntoolx\t2\nnewsuite\t1\nworkbench\t40\n"), 0o644))

	store, err := fetchcache.Open(types.CacheConfig{Path: filepath.Join(dir, DefaultCacheFile)})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, fetchcache.KindWebpage,
		fetchcache.Entry{URL: "https://toolx.org", StatusCode: 200, Title: "ToolX"},
		fetchcache.Entry{URL: "https://newsuite.org", StatusCode: 200, Title: "NewSuite proteomics workbench"},
	))
	require.NoError(t, store.Close())
	return dir
}

func TestWithDefaults(t *testing.T) {
	cfg := WithDefaults(types.RunConfig{Dir: "work", NewFile: "/abs/new.json"})
	assert.Equal(t, filepath.Join("work", "pass1.json"), cfg.Pass1File)
	assert.Equal(t, filepath.Join("work", "catalog.json"), cfg.CatalogFile)
	assert.Equal(t, filepath.Join("work", "tool.idf"), cfg.IDFFile)
	assert.Equal(t, filepath.Join("work", "db.sqlite"), cfg.Cache.Path)
	assert.Equal(t, filepath.Join("work", "results.tsv"), cfg.ResultsFile)
	assert.Equal(t, filepath.Join("work", "diff.tsv"), cfg.DiffFile)
	assert.Equal(t, "/abs/new.json", cfg.NewFile)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, types.DefaultInclusionConfig(), cfg.Inclusion)

	assert.Equal(t, "pass1.json", WithDefaults(types.RunConfig{}).Pass1File)
}

func TestReadPass1(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "records", input: `[{"pmid":"1","suggestions":[{"processed":"a","score":1}]},{"doi":"10.1/x"}]`, want: 2},
		{name: "empty array", input: `[]`, want: 0},
		{name: "unknown field", input: `[{"pmid":"1","abstract":"x"}]`, wantErr: true},
		{name: "unknown suggestion field", input: `[{"suggestions":[{"name":"a"}]}]`, wantErr: true},
		{name: "not an array", input: `{"pmid":"1"}`, wantErr: true},
		{name: "truncated", input: `[{"pmid":`, wantErr: true},
		{name: "null document", input: `null`, wantErr: true},
		{name: "trailing whitespace", input: "[{\"pmid\":\"1\"}]\n\n", want: 1},
		{name: "concatenated arrays", input: `[{"pmid":"1"}][{"pmid":"2"}]`, wantErr: true},
		{name: "trailing garbage", input: `[] x`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadPass1(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestProcess(t *testing.T) {
	var out bytes.Buffer
	p := New(types.RunConfig{}, &out, nil)

	res, err := p.Process(context.Background(), testInputs(t))
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)

	assert.Equal(t, "toolx", res.Rows[0].Result.Top().Processed)
	assert.Contains(t, res.Rows[0].Outcome.Existing, 0)
	assert.Nil(t, res.Rows[0].Outcome.Record)

	assert.Equal(t, "newsuite", res.Rows[1].Result.Top().Processed)
	assert.Empty(t, res.Rows[1].Outcome.Existing)

	assert.Nil(t, res.Rows[2].Result.Top())
	assert.False(t, res.Rows[2].Include)
	assert.Nil(t, res.Rows[2].Outcome.Record)

	for _, rec := range res.Records {
		assert.NotEqual(t, "ToolX", rec.Name)
	}
	assert.Contains(t, out.String(), "score: 3/3")
	assert.Contains(t, out.String(), "match: 3/3")
	assert.Contains(t, out.String(), "Merged 3 results into 3")
}

func TestProcess_IncludeAll(t *testing.T) {
	p := New(types.RunConfig{IncludeAll: true}, nil, nil)

	res, err := p.Process(context.Background(), testInputs(t))
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	for _, rec := range res.Records {
		require.NotNil(t, rec.Status)
	}
	assert.Equal(t, "ToolX", res.Records[0].Name)
	assert.Equal(t, "NewSuite", res.Records[1].Name)
}

func TestProcess_Deterministic(t *testing.T) {
	in := testInputs(t)
	render := func() string {
		p := New(types.RunConfig{Workers: 8, DocsBaseURL: "https://docs.example.org/"}, nil, nil)
		res, err := p.Process(context.Background(), in)
		require.NoError(t, err)
		w := &report.Writer{Catalog: in.Catalog, Cache: in.Cache, Bands: p.Config.Confidence, DocsBaseURL: p.Config.DocsBaseURL}
		var buf bytes.Buffer
		require.NoError(t, w.WriteResults(&buf, res.Rows))
		require.NoError(t, w.WriteDiffs(&buf, res.Diffs))
		require.NoError(t, report.WriteNew(&buf, res.Records))
		return buf.String()
	}

	first := render()
	for range 5 {
		assert.Equal(t, first, render())
	}
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(types.RunConfig{}, nil, nil).Process(ctx, testInputs(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcess_Seed(t *testing.T) {
	in := testInputs(t)
	cfg := types.RunConfig{Seed: types.Seed{
		Publications: []types.PubIDs{{PMID: "200"}},
		WebpageURLs:  []string{"toolx.example.net"},
	}}

	res, err := New(cfg, nil, nil).Process(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	first := res.Rows[0].Result
	assert.Len(t, first.Publications, 2)
	assert.Contains(t, first.Top().LinksAbstract, "http://toolx.example.net")
}

func TestRun(t *testing.T) {
	dir := writeFixtures(t)
	core, logs := observer.New(zap.InfoLevel)
	var out bytes.Buffer

	p := New(types.RunConfig{Dir: dir, DocsBaseURL: "https://docs.example.org/"}, &out, zap.New(core))
	sum, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Input)
	assert.Equal(t, 3, sum.Results)
	assert.GreaterOrEqual(t, sum.Existing, 1)
	assert.Positive(t, sum.Duration)
	assert.Equal(t, 1, logs.FilterMessage("pipeline: run complete").Len())

	results, err := os.ReadFile(filepath.Join(dir, DefaultResultsFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(results), "\n"), "\n")
	require.Len(t, lines, 2+3)
	assert.Equal(t, report.ResultsHeader, strings.Split(lines[0], "\t"))
	assert.True(t, strings.HasPrefix(lines[1], "https://docs.example.org/pmid\t"))

	diffs, err := os.ReadFile(filepath.Join(dir, DefaultDiffFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(diffs), "catalog_id\t"))

	data, err := os.ReadFile(filepath.Join(dir, DefaultNewFile))
	require.NoError(t, err)
	var listing struct {
		Count int               `json:"count"`
		List  []json.RawMessage `json:"list"`
	}
	require.NoError(t, json.Unmarshal(data, &listing))
	assert.Equal(t, sum.New, listing.Count)
	assert.Len(t, listing.List, listing.Count)

	tmp, err := filepath.Glob(filepath.Join(dir, ".toolscout-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, tmp)
}

func TestRun_FatalInputsLeaveOutputsAlone(t *testing.T) {
	tests := []struct {
		name  string
		corrupt func(t *testing.T, dir string)
	}{
		{
			name: "schema mismatch",
			corrupt: func(t *testing.T, dir string) {
				writeFile(t, dir, DefaultPass1File, `[{"pmid":"1","unexpected":true}]`)
			},
		},
		{
			name: "unreadable catalog",
			corrupt: func(t *testing.T, dir string) {
				writeFile(t, dir, DefaultCatalogFile, `{"list": 3}`)
			},
		},
		{
			name: "bad idf",
			corrupt: func(t *testing.T, dir string) {
				writeFile(t, dir, DefaultIDFFile, "many\n")
			},
		},
		{
			name: "missing cache",
			corrupt: func(t *testing.T, dir string) {
				require.NoError(t, os.Remove(filepath.Join(dir, DefaultCacheFile)))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFixtures(t)
			writeFile(t, dir, DefaultResultsFile, "previous\n")
			tt.corrupt(t, dir)

			_, err := New(types.RunConfig{Dir: dir}, nil, nil).Run(context.Background())
			require.Error(t, err)

			prev, err := os.ReadFile(filepath.Join(dir, DefaultResultsFile))
			require.NoError(t, err)
			assert.Equal(t, "previous\n", string(prev))
			_, err = os.Stat(filepath.Join(dir, DefaultNewFile))
			assert.True(t, os.IsNotExist(err))
			tmp, _ := filepath.Glob(filepath.Join(dir, ".toolscout-*.tmp"))
			assert.Empty(t, tmp)
		})
	}
}

func TestRun_UnwritableOutput(t *testing.T) {
	dir := writeFixtures(t)
	cfg := types.RunConfig{Dir: dir, DiffFile: filepath.Join(dir, "missing", "diff.tsv")}

	_, err := New(cfg, nil, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating output")
	_, err = os.Stat(filepath.Join(dir, DefaultResultsFile))
	assert.True(t, os.IsNotExist(err))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
