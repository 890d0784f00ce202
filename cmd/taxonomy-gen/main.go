// Package main implements the taxonomy-gen CLI: it turns a flat or shallow
// label vocabulary into a hierarchical taxonomy by walking a lexical
// resolver, pruning insignificant nodes, arranging the leftovers by
// embedding similarity, and shaping the result into a clean, presentable
// tree.
//
// # File Index
//
//   - main.go      - entry point, rootCmd, global flags
//   - cmd_run.go   - run command: generate a taxonomy from a root term
//   - cmd_batch.go - batch command: generate several taxonomies concurrently
//   - cmd_cache.go - cache command: inspect/clear the embedding cache
//   - cmd_config.go - config command: validate/print the effective SmartConfig
//   - pipeline.go  - shared pipeline wiring used by run and batch
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	workspace  string
	configPath string
	cachePath  string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "taxonomy-gen",
	Short: "Shape flat label vocabularies into hierarchical taxonomies",
	Long: `taxonomy-gen turns a flat or shallow ML label vocabulary into a
hierarchical taxonomy: it resolves each label against a lexical hierarchy,
prunes nodes that aren't significant enough to earn their own category,
arranges whatever's left by embedding similarity when the lexicon runs out,
and shapes the result into a clean, presentable tree.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if workspace != "" {
			if err := os.Chdir(workspace); err != nil {
				return fmt.Errorf("change to workspace %s: %w", workspace, err)
			}
		}
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "working directory (default: current)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a SmartConfig YAML file (default: built-in thresholds)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache-db", "taxonomy-cache.sqlite", "path to the persistent embedding cache database")

	rootCmd.AddCommand(runCmd, batchCmd, cacheCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
