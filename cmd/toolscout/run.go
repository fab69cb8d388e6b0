// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/toolscout/internal/pipeline"
	"github.com/pdiddy/toolscout/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Score, merge and match first-pass results and write the outputs",
	Long: `Run reads pass1.json, catalog.json and tool.idf from the run directory,
looks up fetched pages in the cache written by prefetch, and writes
results.tsv (one row per merged result), diff.tsv (proposed changes to
existing catalog entries) and new.json (proposed new entries).

Thresholds and confidence bands can be set in the config file under
run.confidence and run.inclusion.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("dir", ".", "run directory holding inputs and receiving outputs")
	runCmd.Flags().String("pass1", "", "first-pass input (default <dir>/pass1.json)")
	runCmd.Flags().String("catalog", "", "catalog snapshot (default <dir>/catalog.json)")
	runCmd.Flags().String("idf", "", "term rarity table (default <dir>/tool.idf)")
	runCmd.Flags().String("cache", "", "fetch cache database (default <dir>/db.sqlite)")
	runCmd.Flags().String("results", "", "results table (default <dir>/results.tsv)")
	runCmd.Flags().String("diff", "", "diff table (default <dir>/diff.tsv)")
	runCmd.Flags().String("new", "", "new entries (default <dir>/new.json)")
	runCmd.Flags().Int("workers", 0, "parallel workers for scoring and matching (default 4)")
	runCmd.Flags().Bool("include-all", false, "propose a new entry with a status payload for every result")
	runCmd.Flags().String("docs-base-url", "", "prefix for the column documentation row of the TSV outputs")
	runCmd.Flags().StringSlice("seed-pub", nil, "seed publication (PMID, PMCID or DOI); repeatable")
	runCmd.Flags().String("seed-name", "", "seed tool name, moved to the front of the first result")
	runCmd.Flags().StringSlice("seed-url", nil, "seed webpage URL added to the first result; repeatable")

	bindFlags(runCmd, "run", "dir", "pass1", "catalog", "idf", "cache", "results", "diff", "new", "workers", "include-all", "docs-base-url")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := runConfig(cmd)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg, os.Stdout, logger)
	sum, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("\nRun complete: %d records, %d results, %d included, %d matched existing entries\n",
		sum.Input, sum.Results, sum.Included, sum.Existing)
	fmt.Printf("Wrote %d diffs to %s and %d new entries to %s (%s)\n",
		sum.Diffs, p.Config.DiffFile, sum.New, p.Config.NewFile, sum.Duration.Round(time.Millisecond))
	return nil
}

// runConfig assembles the run settings from flags, the config file and
// the environment, in that order of precedence.
func runConfig(cmd *cobra.Command) (types.RunConfig, error) {
	cfg := types.RunConfig{
		Dir:         viper.GetString("run.dir"),
		Pass1File:   viper.GetString("run.pass1"),
		CatalogFile: viper.GetString("run.catalog"),
		IDFFile:     viper.GetString("run.idf"),
		Cache:       types.CacheConfig{Path: viper.GetString("run.cache"), ReadOnly: true},
		ResultsFile: viper.GetString("run.results"),
		DiffFile:    viper.GetString("run.diff"),
		NewFile:     viper.GetString("run.new"),
		Workers:     viper.GetInt("run.workers"),
		IncludeAll:  viper.GetBool("run.include_all"),
		DocsBaseURL: viper.GetString("run.docs_base_url"),
	}
	if err := unmarshalKey("run.confidence", &cfg.Confidence); err != nil {
		return cfg, fmt.Errorf("reading run.confidence: %w", err)
	}
	if err := unmarshalKey("run.inclusion", &cfg.Inclusion); err != nil {
		return cfg, fmt.Errorf("reading run.inclusion: %w", err)
	}
	if err := unmarshalKey("run.seed", &cfg.Seed); err != nil {
		return cfg, fmt.Errorf("reading run.seed: %w", err)
	}

	pubs, _ := cmd.Flags().GetStringSlice("seed-pub")
	for _, p := range pubs {
		id, err := parsePubID(p)
		if err != nil {
			return cfg, err
		}
		cfg.Seed.Publications = append(cfg.Seed.Publications, id)
	}
	if name, _ := cmd.Flags().GetString("seed-name"); name != "" {
		cfg.Seed.Name = name
	}
	urls, _ := cmd.Flags().GetStringSlice("seed-url")
	cfg.Seed.WebpageURLs = append(cfg.Seed.WebpageURLs, urls...)
	return cfg, nil
}

var (
	pmidPattern  = regexp.MustCompile(`^[0-9]+$`)
	pmcidPattern = regexp.MustCompile(`^(?i)PMC[0-9]+$`)
)

// parsePubID reads a publication identifier: digits are a PMID, "PMC"
// followed by digits a PMCID, anything starting with "10." a DOI.
func parsePubID(s string) (types.PubIDs, error) {
	s = strings.TrimSpace(s)
	switch {
	case pmidPattern.MatchString(s):
		return types.PubIDs{PMID: s}, nil
	case pmcidPattern.MatchString(s):
		return types.PubIDs{PMCID: strings.ToUpper(s)}, nil
	case strings.HasPrefix(types.NormalizeDOI(s), "10."):
		return types.PubIDs{DOI: types.NormalizeDOI(s)}, nil
	}
	return types.PubIDs{}, fmt.Errorf("unrecognised publication identifier %q", s)
}
