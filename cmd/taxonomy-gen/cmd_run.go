package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taxonomyshaper/internal/taxonomy"
)

var (
	runOutput         string
	runBudget         int
	runCleanSemantics bool
	runPreview        bool
)

// runCmd generates a single taxonomy from a root term.
var runCmd = &cobra.Command{
	Use:   "run <root-term>",
	Short: "Generate a taxonomy rooted at a single term",
	Long: `run walks the lexical hierarchy under root-term, prunes nodes that
aren't significant enough to earn their own category, arranges whatever's
left by embedding similarity when the lexicon runs out, and shapes the
result into a clean, presentable tree written as YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "output YAML path (default: stdout)")
	runCmd.Flags().IntVarP(&runBudget, "budget", "b", 500, "maximum number of nodes the traversal may create")
	runCmd.Flags().BoolVar(&runCleanSemantics, "clean-semantics", false, "flag and drop semantic outliers from leaf lists during traversal")
	runCmd.Flags().BoolVar(&runPreview, "preview", false, "truncate each leaf list to the config's preview_limit before writing (no effect when preview_limit is unset)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	rootTerm := args[0]
	ctx := cmd.Context()

	p, err := buildPipeline(ctx, logger, runCleanSemantics)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer p.Close()

	node, err := p.Generate(ctx, rootTerm, runBudget)
	if err != nil {
		return err
	}

	if runPreview {
		node = truncateForPreview(node, p.smartCfg.PreviewLimit)
	}

	data, err := yaml.Marshal(map[string]any{rootTerm: node.ToYAMLValue()})
	if err != nil {
		return fmt.Errorf("marshal taxonomy: %w", err)
	}

	if runOutput == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(runOutput, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", runOutput, err)
	}
	fmt.Printf("wrote %s (%d leaves)\n", runOutput, countLeaves(node))
	return nil
}

// truncateForPreview caps every leaf list in node's subtree at limit terms,
// appending a "... N more" marker so a quick --preview run stays readable on
// a large taxonomy. A nil limit leaves node unchanged.
func truncateForPreview(node taxonomy.StructureNode, limit *int) taxonomy.StructureNode {
	if limit == nil {
		return node
	}
	n := *limit

	if node.IsLeafList() {
		if n >= 0 && len(node.Leaves) > n {
			node.Leaves = append(append([]string(nil), node.Leaves[:n]...),
				fmt.Sprintf("... %d more", len(node.Leaves)-n))
		}
		return node
	}

	for k, v := range node.Children {
		node.Children[k] = truncateForPreview(v, limit)
	}
	return node
}

func countLeaves(node taxonomy.StructureNode) int {
	total := 0
	_ = node.Walk(func(path []string, n taxonomy.StructureNode) error {
		total += n.LeafCount()
		return nil
	})
	return total
}
