// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the toolscout CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/toolscout/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is the diagnostics logger, tagged with the run id.
var logger = zap.NewNop()

// rootCmd is the base command for the toolscout CLI.
var rootCmd = &cobra.Command{
	Use:   "toolscout",
	Short: "Second-pass curation of tool mentions found in publications",
	Long: `toolscout takes the candidate tool names a first pass found in
publications, rescores them against fetched webpages and term rarity,
merges publications about the same tool, matches them against a catalog
snapshot and decides which are new tools worth proposing.

Run "toolscout prefetch" first to fill the fetch cache, then "toolscout run"
to write results.tsv, diff.tsv and new.json.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = l

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./toolscout.yaml or ~/.config/toolscout/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug diagnostics in development format")
}

func newLogger(verbose bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return l.With(zap.String("run_id", uuid.NewString())), nil
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "Ignoring .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("toolscout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "toolscout"))
		}
	}

	viper.SetEnvPrefix("TOOLSCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags makes each named flag of cmd readable from viper under
// prefix.name, so the config file and TOOLSCOUT_ variables supply values
// the command line leaves unset.
func bindFlags(cmd *cobra.Command, prefix string, names ...string) {
	for _, name := range names {
		key := prefix + "." + strings.ReplaceAll(name, "-", "_")
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(name)
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

// unmarshalKey decodes a config section using the yaml field names of the
// target type.
func unmarshalKey(key string, target any) error {
	if !viper.IsSet(key) {
		return nil
	}
	return viper.UnmarshalKey(key, target, func(c *mapstructure.DecoderConfig) {
		c.TagName = "yaml"
		c.Squash = true
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
