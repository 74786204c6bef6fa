package variate

import (
	"fmt"
	"math/rand/v2"
)

// Generate returns a column of n unique values for the given spec.
//
// n is the number of unique values at the term's declared level: the
// total observation count for level-1 variables, the cluster count for
// level-2/level-3 variables, or the per-cluster level-1 size for Time.
//
// Recipes:
//   - Time: 0, 1, ..., n-1, or the explicit TimePoints (whose length
//     must equal n; ErrTimeLength reports both lengths otherwise).
//   - Continuous: n iid draws from the named distribution.
//   - Ordinal: n samples from Levels, with or without replacement,
//     optionally weighted by Prob.
//   - Factor: same mechanics against Labels; Values carry 1-based level
//     codes and Labels the sampled category text.
//   - Knot: fails with ErrDerivedKind — knot columns are derived from a
//     base column by the design-matrix builder.
func Generate(spec Spec, n int, rng *rand.Rand) (Column, error) {
	switch spec.Kind {
	case Time:
		vals, err := timeValues(spec, n)
		if err != nil {
			return Column{}, err
		}
		return Column{Name: spec.Name, Values: vals}, nil

	case Continuous:
		s, err := NewSampler(spec.Dist, rng)
		if err != nil {
			return Column{}, err
		}
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = s.Rand()
		}
		return Column{Name: spec.Name, Values: vals}, nil

	case Ordinal:
		if len(spec.Levels) == 0 {
			return Column{}, fmt.Errorf("%w: %q", ErrNoLevels, spec.Name)
		}
		idx, err := sampleIndices(len(spec.Levels), n, spec.Prob, spec.NoReplace, rng)
		if err != nil {
			return Column{}, fmt.Errorf("%q: %w", spec.Name, err)
		}
		vals := make([]float64, n)
		for i, j := range idx {
			vals[i] = float64(spec.Levels[j])
		}
		return Column{Name: spec.Name, Values: vals}, nil

	case Factor:
		if len(spec.Labels) == 0 {
			return Column{}, fmt.Errorf("%w: %q", ErrNoLevels, spec.Name)
		}
		idx, err := sampleIndices(len(spec.Labels), n, spec.Prob, spec.NoReplace, rng)
		if err != nil {
			return Column{}, fmt.Errorf("%q: %w", spec.Name, err)
		}
		vals := make([]float64, n)
		labels := make([]string, n)
		for i, j := range idx {
			vals[i] = float64(j + 1)
			labels[i] = spec.Labels[j]
		}
		return Column{Name: spec.Name, Values: vals, Labels: labels}, nil

	case Knot:
		return Column{}, fmt.Errorf("%w: %q", ErrDerivedKind, spec.Name)

	default:
		return Column{}, fmt.Errorf("%w: %d", ErrBadKind, spec.Kind)
	}
}

// timeValues builds the default 0..n-1 sequence or validates and copies
// the explicit points.
func timeValues(spec Spec, n int) ([]float64, error) {
	if spec.TimePoints == nil {
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = float64(i)
		}
		return vals, nil
	}
	if len(spec.TimePoints) != n {
		return nil, fmt.Errorf("%w: got %d points for level-1 size %d", ErrTimeLength, len(spec.TimePoints), n)
	}
	out := make([]float64, n)
	copy(out, spec.TimePoints)
	return out, nil
}

// sampleIndices draws n indices from {0..k-1}.
//
// With replacement: uniform draws, or inverse-CDF draws under prob.
// Without replacement: a truncated permutation, or successive weighted
// draws with removal; n beyond the number of drawable levels fails with
// ErrSampleExhausted. A zero probability makes its level undrawable, so
// the weighted no-replacement budget is the positive-weight count, not k.
func sampleIndices(k, n int, prob []float64, noReplace bool, rng *rand.Rand) ([]int, error) {
	positive := k
	if prob != nil {
		if len(prob) != k {
			return nil, fmt.Errorf("%w: got %d probabilities for %d levels", ErrProbLength, len(prob), k)
		}
		positive = 0
		for _, p := range prob {
			if p < 0 {
				return nil, fmt.Errorf("%w: negative probability %g", ErrBadProb, p)
			}
			if p > 0 {
				positive++
			}
		}
		if positive == 0 {
			return nil, ErrBadProb
		}
	}
	if noReplace && n > positive {
		return nil, fmt.Errorf("%w: %d draws from %d drawable levels", ErrSampleExhausted, n, positive)
	}

	idx := make([]int, n)
	switch {
	case !noReplace && prob == nil:
		for i := range idx {
			idx[i] = rng.IntN(k)
		}
	case !noReplace:
		for i := range idx {
			idx[i] = weightedIndex(prob, rng)
		}
	case prob == nil:
		copy(idx, rng.Perm(k)[:n])
	default:
		// successive weighted sampling with removal
		w := make([]float64, k)
		copy(w, prob)
		for i := range idx {
			j := weightedIndex(w, rng)
			idx[i] = j
			w[j] = 0
		}
	}
	return idx, nil
}

// weightedIndex draws one index proportionally to w (not all zero).
func weightedIndex(w []float64, rng *rand.Rand) int {
	total := 0.0
	for _, v := range w {
		total += v
	}
	u := rng.Float64() * total
	acc := 0.0
	for i, v := range w {
		acc += v
		if u < acc {
			return i
		}
	}
	// floating-point slack: fall back to the last positive weight
	for i := len(w) - 1; i >= 0; i-- {
		if w[i] > 0 {
			return i
		}
	}
	return len(w) - 1
}
