// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/toolscout/internal/fetchcache"
	"github.com/pdiddy/toolscout/internal/pipeline"
	"github.com/pdiddy/toolscout/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the fetch cache",
	Long: `Cache reports on the fetch cache written by prefetch: how many webpages
and documentation pages it holds and what it knows about a single URL.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count cached webpages and documentation pages",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheGetCmd = &cobra.Command{
	Use:   "get URL",
	Short: "Show the cached entries for a URL",
	Long: `Get prints the webpage and documentation entries cached for URL as JSON,
or as YAML with --yaml. The URL is looked up with its scheme prepended, the
same way runs look it up.`,
	Args: cobra.ExactArgs(1),
	RunE: runCacheGet,
}

func init() {
	cacheCmd.PersistentFlags().String("dir", ".", "run directory holding the cache")
	cacheCmd.PersistentFlags().String("cache", "", "fetch cache database (default <dir>/db.sqlite)")
	cacheGetCmd.Flags().Bool("yaml", false, "print YAML instead of JSON")

	bindFlags(cacheCmd, "cache", "dir", "cache")

	cacheCmd.AddCommand(cacheStatsCmd, cacheGetCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openCache() (*fetchcache.Store, error) {
	path := pathInDir(viper.GetString("cache.dir"), viper.GetString("cache.cache"), pipeline.DefaultCacheFile)
	return fetchcache.Open(types.CacheConfig{Path: path, ReadOnly: true})
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	st, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("webpages: %d (%d broken)\n", st.Webpages, st.WebpagesBroken)
	fmt.Printf("docs:     %d (%d broken)\n", st.Docs, st.DocsBroken)
	return nil
}

// cachedURL is what the cache holds for one URL.
type cachedURL struct {
	URL     string            `json:"url" yaml:"url"`
	Webpage *fetchcache.Entry `json:"webpage" yaml:"webpage"`
	Doc     *fetchcache.Entry `json:"doc" yaml:"doc"`
}

func runCacheGet(cmd *cobra.Command, args []string) error {
	store, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cachedURL{URL: fetchcache.Key(args[0])}
	if out.Webpage, err = store.Get(ctx, fetchcache.KindWebpage, args[0]); err != nil {
		return err
	}
	if out.Doc, err = store.Get(ctx, fetchcache.KindDoc, args[0]); err != nil {
		return err
	}
	if out.Webpage == nil && out.Doc == nil {
		return fmt.Errorf("%s is not cached", out.URL)
	}

	asYAML, _ := cmd.Flags().GetBool("yaml")
	return printEntry(os.Stdout, out, asYAML)
}

func printEntry(w io.Writer, v cachedURL, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
