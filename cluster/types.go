// Package cluster defines size specifications, resolved design
// descriptions, and sentinel errors for the cluster subpackage of
// github.com/romainfrancois/simglm.
package cluster

import "errors"

// Sentinel errors for cluster-structure resolution.
var (
	// ErrCount indicates a non-positive cluster count.
	ErrCount = errors.New("cluster: cluster count must be at least one")
	// ErrSize indicates a non-positive balanced cluster size.
	ErrSize = errors.New("cluster: balanced cluster size must be at least one")
	// ErrSizeCount indicates an explicit size vector whose length differs from the cluster count.
	ErrSizeCount = errors.New("cluster: explicit size vector length must equal cluster count")
	// ErrSizeValue indicates an explicit size vector containing a non-positive entry.
	ErrSizeValue = errors.New("cluster: explicit sizes must all be at least one")
	// ErrSizeRange indicates an unusable [MinSize, MaxSize] range.
	ErrSizeRange = errors.New("cluster: unbalanced size range requires 1 <= MinSize <= MaxSize")
	// ErrUnbalancedSpec indicates an unbalance directive with neither explicit sizes nor a usable range.
	ErrUnbalancedSpec = errors.New("cluster: unbalanced design requires explicit sizes or a size range")
	// ErrLevel3Mismatch indicates level-3 counts that do not partition the level-2 clusters.
	ErrLevel3Mismatch = errors.New("cluster: level-3 counts must sum to the number of level-2 clusters")
	// ErrReplicateLength indicates a value slice whose length differs from the cluster count.
	ErrReplicateLength = errors.New("cluster: one value per cluster required for replication")
)

// SizeSpec describes how per-cluster sample sizes are obtained.
//
// Balanced (Unbalanced=false): every one of Count clusters receives
// exactly Size observations.
//
// Unbalanced with explicit sizes: Sizes supplies one count per cluster
// and must have length Count.
//
// Unbalanced with a range: each cluster's size is drawn independently
// from Uniform[MinSize, MaxSize] and rounded to the nearest integer.
type SizeSpec struct {
	Count      int   // number of clusters
	Size       int   // balanced per-cluster size
	Unbalanced bool  // select one of the unbalanced paths below
	Sizes      []int // explicit per-cluster sizes (wins over the range)
	MinSize    int   // lower bound of the uniform range
	MaxSize    int   // upper bound of the uniform range
}

// Design is a fully resolved hierarchy. Exactly one of the following
// shapes holds:
//
//   - single level: Level2 == nil, N > 0
//   - two levels:   Level2 holds level-1 counts per level-2 cluster
//   - three levels: additionally Level3 holds the number of level-2
//     clusters per level-3 cluster, with sum(Level3) == len(Level2)
//
// A Design is immutable once constructed.
type Design struct {
	N      int   // total observations (single-level designs only)
	Level2 []int // level-1 observations per level-2 cluster
	Level3 []int // level-2 clusters per level-3 cluster
}
