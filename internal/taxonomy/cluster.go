package taxonomy

// Cluster is one density-cluster produced by the Arranger's clustering step:
// a set of member terms plus the metadata the Cluster Namer needs to name it
// and the Arranger needs to decide whether it survives into the final
// structure.
type Cluster struct {
	// Label is -1 for noise (HDBSCAN's convention), otherwise a 0-based
	// cluster index assigned by the clusterer.
	Label int

	// Members holds the indices of this cluster's terms into the input slice
	// the clusterer was given.
	Members []int

	// Probabilities holds each member's cluster-membership probability,
	// aligned index-for-index with Members.
	Probabilities []float64

	Metadata ClusterMetadata
}

// IsNoise reports whether this cluster is HDBSCAN's noise bucket.
func (c Cluster) IsNoise() bool { return c.Label < 0 }

// MeanProbability returns the mean membership probability across members, or
// 0 for an empty cluster.
func (c Cluster) MeanProbability() float64 {
	if len(c.Probabilities) == 0 {
		return 0
	}
	var sum float64
	for _, p := range c.Probabilities {
		sum += p
	}
	return sum / float64(len(c.Probabilities))
}

// ClusterMetadata carries the naming-relevant facts about a cluster: the name
// assigned by the Cluster Namer cascade, which tier of the cascade produced
// it, and the medoid used as a fallback naming anchor.
type ClusterMetadata struct {
	// Name is the cluster's assigned display name, once named.
	Name string

	// NamingSource records which tier of the naming cascade produced Name:
	// "lca", "medoid_hypernym", "tfidf", "fallback", or "" if not yet named.
	NamingSource string

	// MedoidIndex is the index (into Members) of the term closest to the
	// cluster centroid, used as the fallback naming anchor.
	MedoidIndex int
}
