// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/toolscout/internal/fetch"
	"github.com/pdiddy/toolscout/internal/fetchcache"
	"github.com/pdiddy/toolscout/internal/pipeline"
	"github.com/pdiddy/toolscout/internal/secrets"
	"github.com/pdiddy/toolscout/internal/terms"
	"github.com/pdiddy/toolscout/pkg/types"
)

const defaultUserAgent = "toolscout/0.1"

var prefetchCmd = &cobra.Command{
	Use:   "prefetch",
	Short: "Fetch every candidate link of the first-pass input into the cache",
	Long: `Prefetch requests each link of every first-pass suggestion once and
stores its status, title and any license or programming language the page
names in the fetch cache. Documentation links go to the docs table, all
others to webpages. URLs already cached are skipped unless --refresh is
given.

Set a contact address in .secrets/contact-email to have it added to the
User-Agent.`,
	RunE: runPrefetch,
}

func init() {
	prefetchCmd.Flags().String("dir", ".", "run directory holding the first-pass input")
	prefetchCmd.Flags().String("pass1", "", "first-pass input (default <dir>/pass1.json)")
	prefetchCmd.Flags().String("cache", "", "fetch cache database (default <dir>/db.sqlite)")
	prefetchCmd.Flags().Float64("rps", 0, "requests per second (default 2)")
	prefetchCmd.Flags().Int("burst", 0, "rate limiter burst (default 1)")
	prefetchCmd.Flags().Int("workers", 0, "concurrent fetches (default 4)")
	prefetchCmd.Flags().Int("retries", 0, "retries on HTTP 429 (default 3)")
	prefetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	prefetchCmd.Flags().Int64("max-body-bytes", 0, "largest page body read (default 2 MiB)")
	prefetchCmd.Flags().String("user-agent", "", "User-Agent header (default toolscout/0.1 plus contact e-mail)")
	prefetchCmd.Flags().Bool("refresh", false, "refetch URLs that are already cached")

	bindFlags(prefetchCmd, "prefetch", "dir", "pass1", "cache", "rps", "burst", "workers", "retries", "timeout", "max-body-bytes", "user-agent", "refresh")

	rootCmd.AddCommand(prefetchCmd)
}

func runPrefetch(cmd *cobra.Command, args []string) error {
	dir := viper.GetString("prefetch.dir")
	pass1 := pathInDir(dir, viper.GetString("prefetch.pass1"), pipeline.DefaultPass1File)

	userAgent := viper.GetString("prefetch.user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	cfg := types.PrefetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("prefetch.timeout"),
			UserAgent: secrets.UserAgent(userAgent, loadedSecrets),
		},
		Cache:             types.CacheConfig{Path: pathInDir(dir, viper.GetString("prefetch.cache"), pipeline.DefaultCacheFile)},
		RequestsPerSecond: viper.GetFloat64("prefetch.rps"),
		Burst:             viper.GetInt("prefetch.burst"),
		Workers:           viper.GetInt("prefetch.workers"),
		MaxRetries:        viper.GetInt("prefetch.retries"),
		MaxBodyBytes:      viper.GetInt64("prefetch.max_body_bytes"),
		Refresh:           viper.GetBool("prefetch.refresh"),
	}

	records, err := pipeline.LoadPass1(pass1)
	if err != nil {
		return err
	}
	targets := fetch.Targets(records)
	fmt.Printf("Found %d links in %d first-pass records\n", len(targets), len(records))

	store, err := fetchcache.Open(cfg.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	set, err := terms.Default()
	if err != nil {
		return err
	}

	f := fetch.New(cfg, store, set, logger)
	sum, err := f.Run(cmd.Context(), targets, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("\nPrefetch complete: %d fetched (%d broken), %d skipped, %d unsupported, %d failed\n",
		sum.Fetched, sum.Broken, sum.Skipped, sum.Unsupported, sum.Failed)
	return nil
}

func pathInDir(dir, name, fallback string) string {
	if name == "" {
		name = fallback
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
