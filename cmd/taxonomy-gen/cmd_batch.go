package main

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var (
	batchOutputDir    string
	batchBudget       int
	batchConcurrency  int
	batchCleanSemantics bool
)

// batchCmd generates several taxonomies concurrently, one per root term. The
// collaborators a run needs (lexical resolver, embedding cache, UMAP cache)
// are built once and shared across every root term; only the external
// fan-out across root terms is parallelized, since the embedding cache
// already deduplicates concurrent misses for the same term set internally.
var batchCmd = &cobra.Command{
	Use:   "batch <root-term>...",
	Short: "Generate several taxonomies concurrently, one per root term",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "o", ".", "directory to write one YAML file per root term into")
	batchCmd.Flags().IntVarP(&batchBudget, "budget", "b", 500, "maximum number of nodes each root term's traversal may create")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "maximum number of root terms to generate at once")
	batchCmd.Flags().BoolVar(&batchCleanSemantics, "clean-semantics", false, "flag and drop semantic outliers from leaf lists during traversal")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := buildPipeline(ctx, logger, batchCleanSemantics)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer p.Close()

	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", batchOutputDir, err)
	}

	concurrency := batchConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	var mu sync.Mutex
	var succeeded, failed []string

	for _, rootTerm := range args {
		rootTerm := rootTerm
		group.Go(func() error {
			node, err := p.Generate(gctx, rootTerm, batchBudget)
			if err != nil {
				logger.Warn("batch: generation failed", zap.String("root_term", rootTerm), zap.Error(err))
				mu.Lock()
				failed = append(failed, rootTerm)
				mu.Unlock()
				return nil
			}

			data, err := yaml.Marshal(map[string]any{rootTerm: node.ToYAMLValue()})
			if err != nil {
				return fmt.Errorf("marshal %q: %w", rootTerm, err)
			}

			outPath := batchOutputDir + "/" + sanitizeFilename(rootTerm) + ".yaml"
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}

			mu.Lock()
			succeeded = append(succeeded, rootTerm)
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	sort.Strings(succeeded)
	sort.Strings(failed)
	fmt.Printf("generated %d taxonomies in %s\n", len(succeeded), batchOutputDir)
	if len(failed) > 0 {
		fmt.Printf("failed: %v\n", failed)
	}
	return nil
}

func sanitizeFilename(term string) string {
	out := make([]rune, 0, len(term))
	for _, r := range term {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		case r == ' ':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "root"
	}
	return string(out)
}
