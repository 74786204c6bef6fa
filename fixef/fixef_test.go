package fixef_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/romainfrancois/simglm/cluster"
	"github.com/romainfrancois/simglm/fixef"
	"github.com/romainfrancois/simglm/variate"
)

func newRNG(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, 0)) }

func balanced(count, size int) cluster.Design {
	sizes := make([]int, count)
	for i := range sizes {
		sizes[i] = size
	}
	return cluster.TwoLevel(sizes)
}

// TestBuild_TwoLevelReplication verifies level-2 values repeat across
// exactly their cluster's rows, in cluster order.
func TestBuild_TwoLevelReplication(t *testing.T) {
	terms := []fixef.Term{
		{Name: "time", Var: variate.Spec{Name: "time", Kind: variate.Time}},
		{Name: "weight", Var: variate.Spec{Name: "weight", Kind: variate.Continuous, Level: 2}},
	}
	design := balanced(20, 10)
	fx, err := fixef.Build(terms, design, fixef.DefaultOptions(), newRNG(42))
	require.NoError(t, err)

	assert.Equal(t, 200, fx.Rows())
	assert.Equal(t, []string{"Intercept", "time", "weight"}, fx.Names)

	weight, ok := fx.Column("weight")
	require.True(t, ok)
	distinct := make(map[float64]bool)
	for c := 0; c < 20; c++ {
		v := weight[c*10]
		distinct[v] = true
		for r := 1; r < 10; r++ {
			assert.Equal(t, v, weight[c*10+r], "level-2 value must be constant within its cluster")
		}
	}
	assert.Len(t, distinct, 20, "one unique draw per level-2 cluster")

	tm, ok := fx.Column("time")
	require.True(t, ok)
	assert.Equal(t, 0.0, tm[0])
	assert.Equal(t, 9.0, tm[9])
	assert.Equal(t, 0.0, tm[10], "time restarts inside each cluster")
}

// TestBuild_FactorExpansion verifies treatment and sum contrasts.
func TestBuild_FactorExpansion(t *testing.T) {
	terms := []fixef.Term{
		{Name: "treat", Var: variate.Spec{Name: "treat", Kind: variate.Factor, Labels: []string{"Treatment", "Control"}}},
	}
	design := balanced(10, 5)

	fx, err := fixef.Build(terms, design, fixef.DefaultOptions(), newRNG(3))
	require.NoError(t, err)
	assert.Equal(t, []string{"Intercept", "treat_Control"}, fx.Names)
	ind, _ := fx.Column("treat_Control")
	for _, v := range ind {
		assert.Contains(t, []float64{0, 1}, v, "treatment coding is a 0/1 indicator")
	}
	require.NotNil(t, fx.Original, "categorical terms must produce the original-value frame")
	labels := fx.Original.Labels["treat"]
	require.Len(t, labels, 50)

	opts := fixef.DefaultOptions()
	opts.Contrasts = map[string]fixef.Contrast{"treat": fixef.Sum}
	fx, err = fixef.Build(terms, design, opts, newRNG(3))
	require.NoError(t, err)
	ind, _ = fx.Column("treat_Control")
	for _, v := range ind {
		assert.Contains(t, []float64{-1, 1}, v, "sum coding scores the reference level -1")
	}
}

// TestBuild_InteractionProduct verifies interaction columns are
// elementwise products of their (expanded) bases.
func TestBuild_InteractionProduct(t *testing.T) {
	terms := []fixef.Term{
		{Name: "time", Var: variate.Spec{Name: "time", Kind: variate.Time}},
		{Name: "treat", Var: variate.Spec{Name: "treat", Kind: variate.Factor, Level: 2, Labels: []string{"Treatment", "Control"}}},
		{Name: "time:treat", Bases: []string{"time", "treat"}},
	}
	fx, err := fixef.Build(terms, balanced(8, 6), fixef.DefaultOptions(), newRNG(17))
	require.NoError(t, err)
	assert.Equal(t, []string{"Intercept", "time", "treat_Control", "time:treat_Control"}, fx.Names)

	tm, _ := fx.Column("time")
	ind, _ := fx.Column("treat_Control")
	prod, _ := fx.Column("time:treat_Control")
	for i := range prod {
		assert.Equal(t, tm[i]*ind[i], prod[i], "interaction must be the elementwise product")
	}
}

// TestBuild_UnknownBase ensures interactions over undeclared terms fail.
func TestBuild_UnknownBase(t *testing.T) {
	terms := []fixef.Term{
		{Name: "time", Var: variate.Spec{Name: "time", Kind: variate.Time}},
		{Name: "time:dose", Bases: []string{"time", "dose"}},
	}
	_, err := fixef.Build(terms, balanced(4, 3), fixef.DefaultOptions(), newRNG(1))
	assert.ErrorIs(t, err, fixef.ErrUnknownBase)
	assert.ErrorContains(t, err, "dose")
}

// TestBuild_Correlation verifies the Cholesky transform induces the
// requested pairwise correlation while keeping marginal moments.
func TestBuild_Correlation(t *testing.T) {
	terms := []fixef.Term{
		{Name: "x1", Var: variate.Spec{Name: "x1", Kind: variate.Continuous}},
		{Name: "x2", Var: variate.Spec{Name: "x2", Kind: variate.Continuous,
			Dist: variate.DistSpec{Name: "normal", Params: map[string]float64{"mean": 50, "sd": 5}}}},
	}
	opts := fixef.DefaultOptions()
	opts.Correlations = []fixef.Correlation{{A: "x1", B: "x2", R: 0.6}}

	fx, err := fixef.Build(terms, balanced(1, 4000), fixef.DefaultOptions(), newRNG(99))
	require.NoError(t, err)
	x1, _ := fx.Column("x1")
	x2, _ := fx.Column("x2")
	assert.InDelta(t, 0, stat.Correlation(x1, x2, nil), 0.08, "independent covariates stay uncorrelated")

	fx, err = fixef.Build(terms, balanced(1, 4000), opts, newRNG(99))
	require.NoError(t, err)
	x1, _ = fx.Column("x1")
	x2, _ = fx.Column("x2")
	assert.InDelta(t, 0.6, stat.Correlation(x1, x2, nil), 0.08, "requested correlation must be induced")
	assert.InDelta(t, 50, stat.Mean(x2, nil), 1, "marginal mean preserved")
	assert.InDelta(t, 5, stat.StdDev(x2, nil), 0.5, "marginal sd preserved")
}

// TestBuild_CorrelationErrors covers non-continuous targets and
// non-positive-definite assemblies.
func TestBuild_CorrelationErrors(t *testing.T) {
	terms := []fixef.Term{
		{Name: "time", Var: variate.Spec{Name: "time", Kind: variate.Time}},
		{Name: "x1", Var: variate.Spec{Name: "x1", Kind: variate.Continuous}},
		{Name: "x2", Var: variate.Spec{Name: "x2", Kind: variate.Continuous}},
		{Name: "x3", Var: variate.Spec{Name: "x3", Kind: variate.Continuous}},
	}

	opts := fixef.DefaultOptions()
	opts.Correlations = []fixef.Correlation{{A: "time", B: "x1", R: 0.5}}
	_, err := fixef.Build(terms, balanced(4, 5), opts, newRNG(1))
	assert.ErrorIs(t, err, fixef.ErrCorrTerm, "time is not a continuous covariate")

	opts = fixef.DefaultOptions()
	opts.Correlations = []fixef.Correlation{
		{A: "x1", B: "x2", R: 0.9},
		{A: "x2", B: "x3", R: 0.9},
		{A: "x1", B: "x3", R: -0.9},
	}
	_, err = fixef.Build(terms, balanced(4, 5), opts, newRNG(1))
	assert.ErrorIs(t, err, fixef.ErrCorrNotPD, "inconsistent pairwise targets cannot be factored")
}

// TestBuild_Knot verifies the pluggable derived-variable path and its
// guards.
func TestBuild_Knot(t *testing.T) {
	terms := []fixef.Term{
		{Name: "time", Var: variate.Spec{Name: "time", Kind: variate.Time}},
		{Name: "time_k", Var: variate.Spec{Name: "time_k", Kind: variate.Knot, Base: "time", Knots: []float64{4}}},
	}

	_, err := fixef.Build(terms, balanced(3, 8), fixef.DefaultOptions(), newRNG(1))
	assert.ErrorIs(t, err, fixef.ErrKnotTransform, "knot without a transform must error, not guess")

	opts := fixef.DefaultOptions()
	opts.Knot = func(base, knots []float64) []float64 {
		out := make([]float64, len(base))
		for i, v := range base {
			out[i] = math.Max(0, v-knots[0])
		}
		return out
	}
	fx, err := fixef.Build(terms, balanced(3, 8), opts, newRNG(1))
	require.NoError(t, err)
	k, _ := fx.Column("time_k")
	tm, _ := fx.Column("time")
	for i := range k {
		assert.Equal(t, math.Max(0, tm[i]-4), k[i], "knot column must follow the supplied transform")
	}
}

// TestBuild_LevelExceedsDepth ensures a level-3 variable in a two-level
// design errors.
func TestBuild_LevelExceedsDepth(t *testing.T) {
	terms := []fixef.Term{
		{Name: "region", Var: variate.Spec{Name: "region", Kind: variate.Continuous, Level: 3}},
	}
	_, err := fixef.Build(terms, balanced(4, 5), fixef.DefaultOptions(), newRNG(1))
	assert.ErrorIs(t, err, fixef.ErrBadLevel)
}

// TestBuild_DupTerm ensures duplicate term names are rejected.
func TestBuild_DupTerm(t *testing.T) {
	terms := []fixef.Term{
		{Name: "x", Var: variate.Spec{Name: "x", Kind: variate.Continuous}},
		{Name: "x", Var: variate.Spec{Name: "x", Kind: variate.Continuous}},
	}
	_, err := fixef.Build(terms, balanced(4, 5), fixef.DefaultOptions(), newRNG(1))
	assert.ErrorIs(t, err, fixef.ErrDupTerm)
}

// TestBuild_ThreeLevelReplication verifies level-3 values are constant
// across their whole level-3 cluster.
func TestBuild_ThreeLevelReplication(t *testing.T) {
	sizes := []int{2, 3, 4, 5}
	design, err := cluster.ThreeLevel(sizes, []int{2, 2})
	require.NoError(t, err)
	terms := []fixef.Term{
		{Name: "region", Var: variate.Spec{Name: "region", Kind: variate.Continuous, Level: 3}},
	}
	fx, err := fixef.Build(terms, design, fixef.DefaultOptions(), newRNG(8))
	require.NoError(t, err)

	region, _ := fx.Column("region")
	ids := design.Cluster3IDs()
	byID := make(map[int]float64)
	for i, v := range region {
		if prev, ok := byID[ids[i]]; ok {
			assert.Equal(t, prev, v, "level-3 value must be constant within its level-3 cluster")
		}
		byID[ids[i]] = v
	}
	assert.Len(t, byID, 2)
}
