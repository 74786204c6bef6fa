// Package cluster resolves the sample-size structure of a nested design
// and provides the index arithmetic every other simglm package leans on.
//
// A multilevel design is described by how many level-1 observations each
// level-2 cluster holds and, for three-level designs, how many level-2
// clusters each level-3 cluster holds. The resolver turns a SizeSpec —
// balanced, explicitly unbalanced, or range-unbalanced — into a concrete
// size vector; Design then answers every replication and identifier
// question off that vector:
//
//   - Replicate: repeat one value per cluster across that cluster's
//     level-1 rows, preserving row order exactly
//   - WithinIndex / ClusterIDs / Cluster3IDs: hierarchical id columns
//   - Level3Rows: per-level-3 observation totals recovered by
//     partitioning the level-2 size vector with cumulative-sum ranges
//
// Range-unbalanced resolution draws each size from a continuous uniform
// distribution and rounds; it is reproducible only when the caller seeds
// the supplied *rand.Rand.
package cluster
