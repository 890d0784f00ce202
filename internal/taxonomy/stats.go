package taxonomy

// Stats summarizes the shape of a finished StructureNode tree: how deep it
// goes, how wide categories branch, and how big leaf lists are. ComputeStats
// feeds SuggestThresholds, which recommends SmartConfig values tuned to the
// dataset actually produced, instead of one-size-fits-all defaults.
type Stats struct {
	MaxDepth        int
	TotalNodes      int
	TotalLeaves     int
	LeafListCount   int
	BranchingFactors []int
	LeafSizes       []int
}

// AvgBranching returns the mean number of children per category, or 0 if
// there were no categories with children.
func (s Stats) AvgBranching() float64 {
	return mean(s.BranchingFactors)
}

// AvgLeafSize returns the mean size of leaf lists, or 0 if there were none.
func (s Stats) AvgLeafSize() float64 {
	return mean(s.LeafSizes)
}

func mean(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum int
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

// ComputeStats walks a StructureNode tree and tallies depth, branching, and
// leaf-size statistics.
func ComputeStats(root StructureNode) Stats {
	var s Stats
	var walk func(node StructureNode, depth int)
	walk = func(node StructureNode, depth int) {
		s.TotalNodes++
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}

		switch node.Kind {
		case KindCategory:
			if len(node.Children) > 0 {
				s.BranchingFactors = append(s.BranchingFactors, len(node.Children))
			}
			for _, child := range node.Children {
				walk(child, depth+1)
			}
		case KindLeafList:
			s.TotalLeaves += len(node.Leaves)
			s.LeafListCount++
			s.LeafSizes = append(s.LeafSizes, len(node.Leaves))
		}
	}
	walk(root, 0)
	return s
}

// SuggestThresholds recommends SmartConfig thresholds from a dataset's
// computed statistics:
//
//   - min_depth floors at 2 and otherwise tracks max_depth - 2, capped at 4,
//     so deep trees get pruned more aggressively and shallow trees are left
//     mostly intact.
//   - min_hyponyms scales with total leaf count (one extra unit of tolerance
//     per 100 leaves) with a floor of 50, so larger datasets flatten more.
//   - min_leaf_size ties to average branching factor, with a floor of 3, so
//     denser trees are allowed larger leaf lists before they're considered
//     too small to stand alone.
func SuggestThresholds(s Stats) (minDepth, minHyponyms, minLeafSize int) {
	minDepth = s.MaxDepth - 2
	if minDepth > 4 {
		minDepth = 4
	}
	if minDepth < 2 {
		minDepth = 2
	}

	minHyponyms = s.TotalLeaves / 100
	if minHyponyms < 50 {
		minHyponyms = 50
	}

	minLeafSize = int(s.AvgBranching()) / 5
	if minLeafSize < 3 {
		minLeafSize = 3
	}

	return minDepth, minHyponyms, minLeafSize
}
