package clusterer

import (
	"math"
	"sort"
)

// DensityClusterer is an HDBSCAN*-flavored clusterer: mutual-reachability
// distance, a single-linkage merge tree built from a minimum spanning tree,
// stability-based flat cluster extraction (excess-of-mass or leaf), and
// per-point membership probabilities. Grounded on the original project's use
// of hdbscan.HDBSCAN with min_cluster_size/min_samples/
// cluster_selection_method and its probabilities_/outlier_scores_ outputs;
// no Go HDBSCAN port exists in the corpus this pipeline was grounded on, so
// the algorithm is reimplemented directly rather than faked behind a
// dependency that doesn't exist.
type DensityClusterer struct{}

// NewDensityClusterer creates a DensityClusterer.
func NewDensityClusterer() *DensityClusterer { return &DensityClusterer{} }

// Name implements Clusterer.
func (c *DensityClusterer) Name() string { return "hdbscan" }

// Cluster implements Clusterer.
func (c *DensityClusterer) Cluster(rows [][]float64, opts Options) (Result, error) {
	n := len(rows)
	minClusterSize := opts.MinClusterSize
	if minClusterSize < 2 {
		minClusterSize = 2
	}
	minSamples := opts.MinSamples
	if minSamples <= 0 {
		minSamples = minClusterSize
	}

	noise := func() Result {
		labels := make([]int, n)
		probs := make([]float64, n)
		scores := make([]float64, n)
		for i := range labels {
			labels[i] = -1
			scores[i] = 1
		}
		return Result{Labels: labels, Probabilities: probs, OutlierScores: scores}
	}

	if n <= minClusterSize {
		return noise(), nil
	}

	dist := pairwiseDistances(rows)
	core := coreDistances(dist, minSamples)
	mrd := mutualReachability(dist, core)
	edges := minimumSpanningTree(mrd, n)

	sort.Slice(edges, func(i, j int) bool { return edges[i].weight < edges[j].weight })

	tree := buildCondensedTree(edges, n, minClusterSize)
	method := opts.SelectionMethod
	if method == "" {
		method = SelectionEOM
	}
	selected := tree.selectClusters(method)

	return tree.assignResult(n, selected), nil
}

// --- distances -------------------------------------------------------------

func pairwiseDistances(rows [][]float64) [][]float64 {
	n := len(rows)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := euclidean(rows[i], rows[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// coreDistances returns, for each point, the distance to its minSamples-th
// nearest neighbor (itself excluded), clamped to the available neighbor
// count.
func coreDistances(dist [][]float64, minSamples int) []float64 {
	n := len(dist)
	core := make([]float64, n)
	for i := 0; i < n; i++ {
		neighbors := make([]float64, 0, n-1)
		for j := 0; j < n; j++ {
			if j != i {
				neighbors = append(neighbors, dist[i][j])
			}
		}
		sort.Float64s(neighbors)
		k := minSamples - 1
		if k < 0 {
			k = 0
		}
		if k >= len(neighbors) {
			k = len(neighbors) - 1
		}
		if k < 0 {
			core[i] = 0
		} else {
			core[i] = neighbors[k]
		}
	}
	return core
}

func mutualReachability(dist [][]float64, core []float64) [][]float64 {
	n := len(dist)
	mrd := make([][]float64, n)
	for i := range mrd {
		mrd[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			mrd[i][j] = math.Max(core[i], math.Max(core[j], dist[i][j]))
		}
	}
	return mrd
}

// --- minimum spanning tree (Prim's, O(n^2)) ---------------------------------

type edge struct {
	u, v   int
	weight float64
}

func minimumSpanningTree(mrd [][]float64, n int) []edge {
	inTree := make([]bool, n)
	minEdge := make([]float64, n)
	minFrom := make([]int, n)
	for i := range minEdge {
		minEdge[i] = math.Inf(1)
		minFrom[i] = -1
	}

	inTree[0] = true
	for j := 1; j < n; j++ {
		minEdge[j] = mrd[0][j]
		minFrom[j] = 0
	}

	edges := make([]edge, 0, n-1)
	for k := 1; k < n; k++ {
		next := -1
		best := math.Inf(1)
		for j := 0; j < n; j++ {
			if !inTree[j] && minEdge[j] < best {
				best = minEdge[j]
				next = j
			}
		}
		if next == -1 {
			break
		}
		inTree[next] = true
		edges = append(edges, edge{u: minFrom[next], v: next, weight: minEdge[next]})

		for j := 0; j < n; j++ {
			if !inTree[j] && mrd[next][j] < minEdge[j] {
				minEdge[j] = mrd[next][j]
				minFrom[j] = next
			}
		}
	}
	return edges
}

// --- condensed tree ----------------------------------------------------------

// fallout records a point leaving a cluster node's active membership, either
// because it was absorbed into an unqualified sibling that merged in, or
// because the node itself died (split into children, or ran out of merges).
type fallout struct {
	point  int
	lambda float64
}

type clusterNode struct {
	id       int
	qualifies bool // true once size has ever reached minClusterSize
	birth    float64
	death    float64
	children []*clusterNode
	active   []int // point indices currently still directly in this node
	falls    []fallout
	stability float64
	selected  bool
}

func lambdaOf(weight float64) float64 {
	if weight <= 0 {
		return math.Inf(1)
	}
	return 1 / weight
}

// finalize closes out a node at deathLambda: every point still active in it
// leaves at that lambda, contributing to stability.
func (node *clusterNode) finalize(deathLambda float64) {
	if !node.qualifies {
		return
	}
	node.death = deathLambda
	for _, p := range node.active {
		node.stability += node.birth - deathLambda
		node.falls = append(node.falls, fallout{point: p, lambda: deathLambda})
	}
	node.active = nil
}

type condensedTree struct {
	nodes []*clusterNode // every cluster node ever created, in creation order
	root  *clusterNode
}

func buildCondensedTree(edges []edge, n int, minClusterSize int) *condensedTree {
	parent := make([]int, n)
	size := make([]int, n)
	rep := make([]*clusterNode, n)
	for i := 0; i < n; i++ {
		parent[i] = i
		size[i] = 1
	}

	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	tree := &condensedTree{}
	nextID := 0
	newNode := func(qualifies bool, birth float64, active []int, children []*clusterNode) *clusterNode {
		node := &clusterNode{id: nextID, qualifies: qualifies, birth: birth, active: active, children: children}
		nextID++
		tree.nodes = append(tree.nodes, node)
		return node
	}

	// Every raw point starts as its own non-qualifying node (unless
	// minClusterSize is 1, an edge case we don't support: the guard in
	// DensityClusterer.Cluster forces minClusterSize >= 2).
	for i := 0; i < n; i++ {
		rep[i] = newNode(false, math.Inf(1), []int{i}, nil)
	}

	var lastLambda float64
	for _, e := range edges {
		lambda := lambdaOf(e.weight)
		lastLambda = lambda

		ru, rv := find(e.u), find(e.v)
		if ru == rv {
			continue
		}
		nodeU, nodeV := rep[ru], rep[rv]
		sizeU, sizeV := size[ru], size[rv]
		qualifiesU := sizeU >= minClusterSize
		qualifiesV := sizeV >= minClusterSize

		var merged *clusterNode
		switch {
		case qualifiesU && qualifiesV:
			nodeU.finalize(lambda)
			nodeV.finalize(lambda)
			active := append(append([]int{}, pointsOf(nodeU)...), pointsOf(nodeV)...)
			merged = newNode(true, lambda, active, []*clusterNode{nodeU, nodeV})

		case qualifiesU && !qualifiesV:
			nodeU.active = append(nodeU.active, pointsOf(nodeV)...)
			merged = nodeU

		case qualifiesV && !qualifiesU:
			nodeV.active = append(nodeV.active, pointsOf(nodeU)...)
			merged = nodeV

		default:
			combinedActive := append(append([]int{}, pointsOf(nodeU)...), pointsOf(nodeV)...)
			if sizeU+sizeV >= minClusterSize {
				merged = newNode(true, lambda, combinedActive, nil)
			} else {
				merged = newNode(false, math.Inf(1), combinedActive, nil)
			}
		}

		if size[ru] < size[rv] {
			ru, rv = rv, ru
		}
		parent[rv] = ru
		size[ru] = sizeU + sizeV
		rep[ru] = merged
	}

	root := rep[find(0)]
	if root.qualifies && root.death == 0 {
		root.finalize(lastLambda)
	}
	tree.root = root
	return tree
}

func pointsOf(node *clusterNode) []int {
	if len(node.active) > 0 {
		return node.active
	}
	pts := make([]int, 0, len(node.falls))
	for _, f := range node.falls {
		pts = append(pts, f.point)
	}
	return pts
}

// qualifyingNodes returns every node that ever became a cluster (qualifies
// == true), which is the candidate set flat-cluster selection chooses from.
func (t *condensedTree) qualifyingNodes() []*clusterNode {
	var out []*clusterNode
	for _, node := range t.nodes {
		if node.qualifies {
			out = append(out, node)
		}
	}
	return out
}

// selectClusters implements excess-of-mass or leaf flat-cluster extraction
// over the qualifying subtree (non-qualifying nodes are plumbing only and
// never selected).
func (t *condensedTree) selectClusters(method string) []*clusterNode {
	qualifying := t.qualifyingNodes()
	if len(qualifying) == 0 {
		return nil
	}

	qualifyingChildren := func(node *clusterNode) []*clusterNode {
		var out []*clusterNode
		for _, ch := range node.children {
			if ch.qualifies {
				out = append(out, ch)
			}
		}
		return out
	}

	if method == SelectionLeaf {
		var leaves []*clusterNode
		for _, node := range qualifying {
			if len(qualifyingChildren(node)) == 0 {
				node.selected = true
				leaves = append(leaves, node)
			}
		}
		return leaves
	}

	// Post-order excess-of-mass: a node is selected over its qualifying
	// descendants when its own stability is at least their combined
	// stability, matching the original project's use of
	// cluster_selection_method="eom".
	var visit func(node *clusterNode) float64
	visit = func(node *clusterNode) float64 {
		children := qualifyingChildren(node)
		if len(children) == 0 {
			node.selected = true
			return node.stability
		}
		var childSum float64
		for _, ch := range children {
			childSum += visit(ch)
		}
		if node.stability >= childSum {
			for _, ch := range children {
				unselectSubtree(ch)
			}
			node.selected = true
			return node.stability
		}
		node.selected = false
		return childSum
	}
	if t.root.qualifies {
		visit(t.root)
	}
	return collectSelected(t.root)
}

func unselectSubtree(node *clusterNode) {
	node.selected = false
	for _, ch := range node.children {
		unselectSubtree(ch)
	}
}

func collectSelected(node *clusterNode) []*clusterNode {
	var out []*clusterNode
	if node.selected {
		out = append(out, node)
		return out
	}
	for _, ch := range node.children {
		out = append(out, collectSelected(ch)...)
	}
	return out
}

// assignResult turns the selected cluster set into per-point labels,
// probabilities, and outlier scores.
func (t *condensedTree) assignResult(n int, selected []*clusterNode) Result {
	labels := make([]int, n)
	probs := make([]float64, n)
	scores := make([]float64, n)
	for i := range labels {
		labels[i] = -1
	}

	sort.Slice(selected, func(i, j int) bool {
		return firstPoint(selected[i]) < firstPoint(selected[j])
	})

	for label, node := range selected {
		span := node.birth - node.death
		for _, f := range allFalls(node) {
			labels[f.point] = label
			prob := 1.0
			if span > 0 {
				prob = (node.birth - f.lambda) / span
			}
			if prob < 0 {
				prob = 0
			}
			if prob > 1 {
				prob = 1
			}
			probs[f.point] = prob
			scores[f.point] = 1 - prob
		}
	}
	for i := range labels {
		if labels[i] == -1 {
			scores[i] = 1
		}
	}
	return Result{Labels: labels, Probabilities: probs, OutlierScores: scores}
}

func firstPoint(node *clusterNode) int {
	falls := allFalls(node)
	if len(falls) == 0 {
		return 1 << 30
	}
	min := falls[0].point
	for _, f := range falls[1:] {
		if f.point < min {
			min = f.point
		}
	}
	return min
}

// allFalls returns every point ever attributed to node: its own recorded
// fallouts plus, transitively, those of any unselected qualifying
// descendants (whose points are reattributed to the nearest selected
// ancestor).
func allFalls(node *clusterNode) []fallout {
	out := append([]fallout{}, node.falls...)
	for _, ch := range node.children {
		if ch.qualifies && !ch.selected {
			out = append(out, allFalls(ch)...)
		}
	}
	return out
}
