package cluster

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Resolve turns the specification into a concrete per-cluster size
// vector of length s.Count.
//
// Balanced designs repeat s.Size. Unbalanced designs either validate
// the explicit s.Sizes vector or draw each size independently from
// Uniform[MinSize, MaxSize], rounding to the nearest integer. Range
// draws consume rng; fix the seed before calling when reproducibility
// matters.
func (s SizeSpec) Resolve(rng *rand.Rand) ([]int, error) {
	if s.Count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrCount, s.Count)
	}
	if !s.Unbalanced {
		if s.Size < 1 {
			return nil, fmt.Errorf("%w: got %d", ErrSize, s.Size)
		}
		sizes := make([]int, s.Count)
		for i := range sizes {
			sizes[i] = s.Size
		}
		return sizes, nil
	}
	if s.Sizes != nil {
		if len(s.Sizes) != s.Count {
			return nil, fmt.Errorf("%w: got %d sizes for %d clusters", ErrSizeCount, len(s.Sizes), s.Count)
		}
		sizes := make([]int, s.Count)
		for i, p := range s.Sizes {
			if p < 1 {
				return nil, fmt.Errorf("%w: size[%d] = %d", ErrSizeValue, i, p)
			}
			sizes[i] = p
		}
		return sizes, nil
	}
	if s.MinSize < 1 || s.MaxSize < s.MinSize {
		if s.MinSize == 0 && s.MaxSize == 0 {
			return nil, ErrUnbalancedSpec
		}
		return nil, fmt.Errorf("%w: got [%d, %d]", ErrSizeRange, s.MinSize, s.MaxSize)
	}
	u := distuv.Uniform{Min: float64(s.MinSize), Max: float64(s.MaxSize), Src: rng}
	sizes := make([]int, s.Count)
	for i := range sizes {
		sizes[i] = int(math.Round(u.Rand()))
	}
	return sizes, nil
}

// SingleLevel builds a Design for n independent observations.
func SingleLevel(n int) Design {
	return Design{N: n}
}

// TwoLevel builds a Design from a resolved level-2 size vector.
func TwoLevel(sizes []int) Design {
	return Design{Level2: sizes}
}

// ThreeLevel builds a Design from a resolved level-2 size vector and the
// level-3 count vector (level-2 clusters per level-3 cluster). The
// counts must partition the level-2 clusters exactly.
func ThreeLevel(sizes, counts []int) (Design, error) {
	if Total(counts) != len(sizes) {
		return Design{}, fmt.Errorf("%w: counts sum to %d, have %d level-2 clusters",
			ErrLevel3Mismatch, Total(counts), len(sizes))
	}
	return Design{Level2: sizes, Level3: counts}, nil
}

// Depth reports the nesting depth of the design: 1, 2 or 3.
func (d Design) Depth() int {
	switch {
	case d.Level3 != nil:
		return 3
	case d.Level2 != nil:
		return 2
	default:
		return 1
	}
}

// Rows reports the total number of level-1 observations.
func (d Design) Rows() int {
	if d.Level2 == nil {
		return d.N
	}
	return Total(d.Level2)
}

// Clusters2 reports the number of level-2 clusters (0 for single level).
func (d Design) Clusters2() int { return len(d.Level2) }

// Clusters3 reports the number of level-3 clusters (0 below three levels).
func (d Design) Clusters3() int { return len(d.Level3) }

// Level3Rows recovers each level-3 cluster's total level-1 size by
// summing the level-2 sizes inside its boundary range.
func (d Design) Level3Rows() []int {
	b := Boundaries(d.Level3)
	rows := make([]int, len(d.Level3))
	for k := range d.Level3 {
		rows[k] = Total(d.Level2[b[k]:b[k+1]])
	}
	return rows
}

// WithinIndex returns the within-cluster index column: 1..p_i restarting
// inside each level-2 cluster (1..N for single-level designs).
func (d Design) WithinIndex() []int {
	if d.Level2 == nil {
		ids := make([]int, d.N)
		for i := range ids {
			ids[i] = i + 1
		}
		return ids
	}
	ids := make([]int, 0, d.Rows())
	for _, p := range d.Level2 {
		for j := 1; j <= p; j++ {
			ids = append(ids, j)
		}
	}
	return ids
}

// ClusterIDs returns the level-2 cluster id column: cluster i+1 occupies
// Level2[i] consecutive rows.
func (d Design) ClusterIDs() []int {
	ids := make([]int, 0, d.Rows())
	for i, p := range d.Level2 {
		for j := 0; j < p; j++ {
			ids = append(ids, i+1)
		}
	}
	return ids
}

// Cluster3IDs returns the level-3 cluster id column, aligned with
// ClusterIDs through the level-3 partition of the level-2 clusters.
func (d Design) Cluster3IDs() []int {
	b := Boundaries(d.Level3)
	ids := make([]int, 0, d.Rows())
	for k := range d.Level3 {
		for _, p := range d.Level2[b[k]:b[k+1]] {
			for r := 0; r < p; r++ {
				ids = append(ids, k+1)
			}
		}
	}
	return ids
}

// Total sums a size vector.
func Total(sizes []int) int {
	t := 0
	for _, p := range sizes {
		t += p
	}
	return t
}

// Boundaries returns cumulative row offsets: Boundaries(s)[i] is the
// first row of cluster i, and the final entry equals Total(s).
func Boundaries(sizes []int) []int {
	b := make([]int, len(sizes)+1)
	for i, p := range sizes {
		b[i+1] = b[i] + p
	}
	return b
}

// Replicate repeats vals[i] exactly sizes[i] times, in cluster order.
// This is the row-alignment primitive behind every higher-level value:
// a value generated once per cluster lands on precisely that cluster's
// rows.
func Replicate[T any](vals []T, sizes []int) ([]T, error) {
	if len(vals) != len(sizes) {
		return nil, fmt.Errorf("%w: got %d values for %d clusters", ErrReplicateLength, len(vals), len(sizes))
	}
	out := make([]T, 0, Total(sizes))
	for i, v := range vals {
		for j := 0; j < sizes[i]; j++ {
			out = append(out, v)
		}
	}
	return out, nil
}
