package taxonomy

import "strings"

// CategoryOverride adjusts SmartConfig's pruning and arrangement thresholds
// for one named or WNID-keyed subtree. Zero-value fields are "not overridden"
// and fall back to the enclosing SmartConfig.
type CategoryOverride struct {
	MinDepth    *int  `yaml:"min_depth,omitempty" json:"min_depth,omitempty"`
	MinHyponyms *int  `yaml:"min_hyponyms,omitempty" json:"min_hyponyms,omitempty"`
	MinLeafSize *int  `yaml:"min_leaf_size,omitempty" json:"min_leaf_size,omitempty"`
	MergeOrphans *bool `yaml:"merge_orphans,omitempty" json:"merge_orphans,omitempty"`

	SemanticCleanup          *bool    `yaml:"semantic_cleanup,omitempty" json:"semantic_cleanup,omitempty"`
	SemanticModel            *string  `yaml:"semantic_model,omitempty" json:"semantic_model,omitempty"`
	SemanticThreshold        *float64 `yaml:"semantic_threshold,omitempty" json:"semantic_threshold,omitempty"`
	SemanticArrangement      *bool    `yaml:"semantic_arrangement,omitempty" json:"semantic_arrangement,omitempty"`
	SemanticArrangementThreshold  *float64 `yaml:"semantic_arrangement_threshold,omitempty" json:"semantic_arrangement_threshold,omitempty"`
	SemanticArrangementMinCluster *int     `yaml:"semantic_arrangement_min_cluster,omitempty" json:"semantic_arrangement_min_cluster,omitempty"`
	SemanticArrangementMethod     *string  `yaml:"semantic_arrangement_method,omitempty" json:"semantic_arrangement_method,omitempty"`

	OrphansLabelTemplate *string `yaml:"orphans_label_template,omitempty" json:"orphans_label_template,omitempty"`

	UMAPNeighbors  *int     `yaml:"umap_n_neighbors,omitempty" json:"umap_n_neighbors,omitempty"`
	UMAPMinDist    *float64 `yaml:"umap_min_dist,omitempty" json:"umap_min_dist,omitempty"`
	UMAPComponents *int     `yaml:"umap_n_components,omitempty" json:"umap_n_components,omitempty"`
	HDBSCANMinSamples *int  `yaml:"hdbscan_min_samples,omitempty" json:"hdbscan_min_samples,omitempty"`
}

// SmartConfig holds the thresholds the Pruner and Arranger use to decide
// whether a node earns its own category or gets flattened into its parent's
// leaf list, plus per-category overrides of those thresholds. The zero value
// is inert (Enabled is false), matching Go's zero-value convention; callers
// that want the pipeline's pruning behavior must opt in explicitly.
type SmartConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	MinDepth     int  `yaml:"min_depth" json:"min_depth"`
	MinHyponyms  int  `yaml:"min_hyponyms" json:"min_hyponyms"`
	MinLeafSize  int  `yaml:"min_leaf_size" json:"min_leaf_size"`
	MergeOrphans bool `yaml:"merge_orphans" json:"merge_orphans"`

	// SkipNodes lists node identifiers or names that should never become a
	// category of their own: the Pruner always flattens them, and the
	// Traversal Engine splices their children directly into their parent's
	// child list (structural elision) instead of nesting under them.
	SkipNodes []string `yaml:"skip_nodes" json:"skip_nodes"`

	// CategoryOverrides maps a node's WNID or name (matched case-sensitively,
	// then case-insensitively) to threshold overrides for that subtree.
	CategoryOverrides map[string]CategoryOverride `yaml:"category_overrides" json:"category_overrides"`

	SemanticCleanup   bool    `yaml:"semantic_cleanup" json:"semantic_cleanup"`
	SemanticModel     string  `yaml:"semantic_model" json:"semantic_model"`
	SemanticThreshold float64 `yaml:"semantic_threshold" json:"semantic_threshold"`

	SemanticArrangement           bool    `yaml:"semantic_arrangement" json:"semantic_arrangement"`
	SemanticArrangementThreshold  float64 `yaml:"semantic_arrangement_threshold" json:"semantic_arrangement_threshold"`
	SemanticArrangementMinCluster int    `yaml:"semantic_arrangement_min_cluster" json:"semantic_arrangement_min_cluster"`
	// SemanticArrangementMethod is the density clusterer's cluster
	// selection method ("eom" or "leaf") for the Arranger's first pass.
	SemanticArrangementMethod string `yaml:"semantic_arrangement_method" json:"semantic_arrangement_method"`

	// OrphansLabelTemplate names the bucket the Shaper merges small and
	// generic sibling leaf lists into. Defaults to "Other" when empty.
	OrphansLabelTemplate string `yaml:"orphans_label_template" json:"orphans_label_template"`

	// PreviewLimit caps how many leaf terms a CLI preview command prints
	// per category. Nil means unlimited.
	PreviewLimit *int `yaml:"preview_limit,omitempty" json:"preview_limit,omitempty"`

	// UMAPNeighbors, UMAPMinDist, and UMAPComponents configure the
	// Arranger's dimensionality-reduction pass before clustering.
	UMAPNeighbors  int     `yaml:"umap_n_neighbors" json:"umap_n_neighbors"`
	UMAPMinDist    float64 `yaml:"umap_min_dist" json:"umap_min_dist"`
	UMAPComponents int     `yaml:"umap_n_components" json:"umap_n_components"`

	// HDBSCANMinSamples overrides the clusterer's MinSamples independently
	// of SemanticArrangementMinCluster when set. Nil defers to
	// SemanticArrangementMinCluster.
	HDBSCANMinSamples *int `yaml:"hdbscan_min_samples,omitempty" json:"hdbscan_min_samples,omitempty"`
}

// DefaultSmartConfig returns the thresholds the CLI uses when the user does
// not supply a config file: smart pruning enabled with the thresholds that
// produced well-balanced taxonomies in practice.
func DefaultSmartConfig() SmartConfig {
	return SmartConfig{
		Enabled:                        true,
		MinDepth:                       6,
		MinHyponyms:                    10,
		MinLeafSize:                    3,
		MergeOrphans:                   true,
		CategoryOverrides:              map[string]CategoryOverride{},
		SemanticModel:                  "minilm",
		SemanticThreshold:              0.5,
		SemanticArrangementThreshold:   0.1,
		SemanticArrangementMinCluster:  5,
		SemanticArrangementMethod:      "eom",
		OrphansLabelTemplate:           "Other",
		UMAPNeighbors:                  15,
		UMAPMinDist:                    0.1,
		UMAPComponents:                 5,
	}
}

// Validate reports a non-nil error if the configuration contains values the
// Pruner and Arranger cannot act on sensibly.
func (c SmartConfig) Validate() error {
	if c.MinDepth < 0 {
		return errConfig("min_depth must be >= 0")
	}
	if c.MinHyponyms < 0 {
		return errConfig("min_hyponyms must be >= 0")
	}
	if c.MinLeafSize < 0 {
		return errConfig("min_leaf_size must be >= 0")
	}
	if c.SemanticThreshold < 0 || c.SemanticThreshold > 1 {
		return errConfig("semantic_threshold must be in [0, 1]")
	}
	if c.SemanticArrangementMinCluster < 0 {
		return errConfig("semantic_arrangement_min_cluster must be >= 0")
	}
	if m := c.SemanticArrangementMethod; m != "" && m != "eom" && m != "leaf" {
		return errConfig("semantic_arrangement_method must be \"eom\" or \"leaf\"")
	}
	if c.UMAPNeighbors < 0 {
		return errConfig("umap_n_neighbors must be >= 0")
	}
	if c.UMAPComponents < 0 {
		return errConfig("umap_n_components must be >= 0")
	}
	if c.HDBSCANMinSamples != nil && *c.HDBSCANMinSamples < 0 {
		return errConfig("hdbscan_min_samples must be >= 0")
	}
	return nil
}

// IsSkipped reports whether a node, identified by its WNID or name, appears
// in SkipNodes. Name matching is case-insensitive; WNID matching is exact.
func (c SmartConfig) IsSkipped(nodeWNID, nodeName string) bool {
	if len(c.SkipNodes) == 0 {
		return false
	}
	name := strings.ToLower(strings.TrimSpace(nodeName))
	for _, skip := range c.SkipNodes {
		if skip == nodeWNID {
			return true
		}
		if name != "" && strings.ToLower(strings.TrimSpace(skip)) == name {
			return true
		}
	}
	return false
}

type configError string

func (e configError) Error() string { return string(e) }

func errConfig(msg string) error { return configError(msg) }

// GetChildConfig resolves the SmartConfig a child node should use, applying
// any override that matches its WNID or name. WNID matches take precedence
// over name matches; name matches try an exact match before a
// case-insensitive one. Overrides become the new base for that subtree's own
// descendants (they propagate recursively), and the full override map is
// carried forward so deeper descendants can still match their own entries.
// If nothing matches, GetChildConfig returns c unchanged.
func (c SmartConfig) GetChildConfig(nodeName, nodeWNID string) SmartConfig {
	if !c.Enabled || len(c.CategoryOverrides) == 0 {
		return c
	}

	var override CategoryOverride
	var matched bool

	if nodeWNID != "" {
		if o, ok := c.CategoryOverrides[nodeWNID]; ok {
			override, matched = o, true
		}
	}
	if !matched && nodeName != "" {
		if o, ok := c.CategoryOverrides[nodeName]; ok {
			override, matched = o, true
		} else if o, ok := c.CategoryOverrides[strings.ToLower(nodeName)]; ok {
			override, matched = o, true
		} else {
			for k, o := range c.CategoryOverrides {
				if strings.EqualFold(k, nodeName) {
					override, matched = o, true
					break
				}
			}
		}
	}
	if !matched {
		return c
	}

	next := c
	next.CategoryOverrides = c.CategoryOverrides
	if override.MinDepth != nil {
		next.MinDepth = *override.MinDepth
	}
	if override.MinHyponyms != nil {
		next.MinHyponyms = *override.MinHyponyms
	}
	if override.MinLeafSize != nil {
		next.MinLeafSize = *override.MinLeafSize
	}
	if override.MergeOrphans != nil {
		next.MergeOrphans = *override.MergeOrphans
	}
	if override.SemanticCleanup != nil {
		next.SemanticCleanup = *override.SemanticCleanup
	}
	if override.SemanticModel != nil {
		next.SemanticModel = *override.SemanticModel
	}
	if override.SemanticThreshold != nil {
		next.SemanticThreshold = *override.SemanticThreshold
	}
	if override.SemanticArrangement != nil {
		next.SemanticArrangement = *override.SemanticArrangement
	}
	if override.SemanticArrangementThreshold != nil {
		next.SemanticArrangementThreshold = *override.SemanticArrangementThreshold
	}
	if override.SemanticArrangementMinCluster != nil {
		next.SemanticArrangementMinCluster = *override.SemanticArrangementMinCluster
	}
	if override.SemanticArrangementMethod != nil {
		next.SemanticArrangementMethod = *override.SemanticArrangementMethod
	}
	if override.OrphansLabelTemplate != nil {
		next.OrphansLabelTemplate = *override.OrphansLabelTemplate
	}
	if override.UMAPNeighbors != nil {
		next.UMAPNeighbors = *override.UMAPNeighbors
	}
	if override.UMAPMinDist != nil {
		next.UMAPMinDist = *override.UMAPMinDist
	}
	if override.UMAPComponents != nil {
		next.UMAPComponents = *override.UMAPComponents
	}
	if override.HDBSCANMinSamples != nil {
		next.HDBSCANMinSamples = override.HDBSCANMinSamples
	}
	return next
}
