package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taxonomyshaper/internal/cache"
	"taxonomyshaper/internal/embedding"
)

// cacheCmd groups operations on the persistent embedding cache database.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the embedding cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many term sets are cached in each tier",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the embedding cache",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
}

// openCacheOnly opens the embedding cache without standing up an embedding
// engine, since these subcommands never need to compute a fresh embedding.
func openCacheOnly(log *zap.Logger) (*cache.EmbeddingCache, error) {
	var embedder embedding.Engine
	return cache.NewEmbeddingCache(cachePath, embedder, log)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	c, err := openCacheOnly(logger)
	if err != nil {
		return fmt.Errorf("open cache %s: %w", cachePath, err)
	}
	defer c.Close()

	stats, err := c.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("Embedding cache: %s\n  In-memory term sets: %d\n  Persisted term sets: %d\n", cachePath, stats.MemoryEntries, stats.PersistentEntries)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	c, err := openCacheOnly(logger)
	if err != nil {
		return fmt.Errorf("open cache %s: %w", cachePath, err)
	}
	defer c.Close()

	if err := c.Clear(); err != nil {
		return err
	}
	fmt.Printf("cleared %s\n", cachePath)
	return nil
}
