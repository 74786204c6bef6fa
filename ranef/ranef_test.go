package ranef_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/romainfrancois/simglm/ranef"
	"github.com/romainfrancois/simglm/variate"
)

func newRNG(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, 0)) }

func column(m *mat.Dense, j int) []float64 {
	r, _ := m.Dims()
	out := make([]float64, r)
	mat.Col(out, j, m)
	return out
}

// TestDraw_Dims verifies one row per cluster and one column per
// declared variance.
func TestDraw_Dims(t *testing.T) {
	m, err := ranef.Draw(ranef.Spec{Variances: []float64{8, 3}}, 20, newRNG(1))
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 20, r)
	assert.Equal(t, 2, c)
}

// TestDraw_VarianceScaling checks each column's sample variance is near
// its target.
func TestDraw_VarianceScaling(t *testing.T) {
	m, err := ranef.Draw(ranef.Spec{Variances: []float64{8, 3}}, 4000, newRNG(7))
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(8), stat.StdDev(column(m, 0), nil), 0.3)
	assert.InDelta(t, math.Sqrt(3), stat.StdDev(column(m, 1), nil), 0.2)
}

// TestDraw_Theoretical verifies the exact-moment re-standardisation.
func TestDraw_Theoretical(t *testing.T) {
	m, err := ranef.Draw(ranef.Spec{Variances: []float64{8}, Theoretical: true}, 50, newRNG(3))
	require.NoError(t, err)
	col := column(m, 0)
	assert.InDelta(t, 0, stat.Mean(col, nil), 1e-9, "theoretical simulate pins the sample mean")
	assert.InDelta(t, math.Sqrt(8), stat.StdDev(col, nil), 1e-9, "theoretical simulate pins the sample sd")
}

// TestDraw_Correlated verifies the joint transform realizes the target
// correlation while preserving marginal variances.
func TestDraw_Correlated(t *testing.T) {
	spec := ranef.Spec{Variances: []float64{8, 3}, Corr: []float64{0.5}}
	m, err := ranef.Draw(spec, 4000, newRNG(11))
	require.NoError(t, err)
	b0, b1 := column(m, 0), column(m, 1)
	assert.InDelta(t, 0.5, stat.Correlation(b0, b1, nil), 0.08)
	assert.InDelta(t, math.Sqrt(8), stat.StdDev(b0, nil), 0.3, "marginal variance preserved under correlation")
	assert.InDelta(t, math.Sqrt(3), stat.StdDev(b1, nil), 0.2)
}

// TestDraw_Errors covers the specification guards.
func TestDraw_Errors(t *testing.T) {
	_, err := ranef.Draw(ranef.Spec{}, 10, newRNG(1))
	assert.ErrorIs(t, err, ranef.ErrNoVariance)

	_, err = ranef.Draw(ranef.Spec{Variances: []float64{1}}, 0, newRNG(1))
	assert.ErrorIs(t, err, ranef.ErrBadCount)

	_, err = ranef.Draw(ranef.Spec{Variances: []float64{-1}}, 10, newRNG(1))
	assert.ErrorIs(t, err, ranef.ErrBadVariance)

	_, err = ranef.Draw(ranef.Spec{Variances: []float64{1, 1, 1}, Corr: []float64{0.5}}, 10, newRNG(1))
	assert.ErrorIs(t, err, ranef.ErrCorrLength, "3 terms need 3 pairwise entries")
	assert.ErrorContains(t, err, "1 entries for 3 terms")

	_, err = ranef.Draw(ranef.Spec{
		Variances: []float64{1, 1, 1},
		Corr:      []float64{0.9, -0.9, 0.9},
	}, 10, newRNG(1))
	assert.ErrorIs(t, err, ranef.ErrCorrNotPD)
}

// TestDraw_NonNormal verifies non-normal generators still hit the
// target variance through theoretical standardisation.
func TestDraw_NonNormal(t *testing.T) {
	spec := ranef.Spec{
		Variances: []float64{4},
		Dist:      variate.DistSpec{Name: "chisquared", Params: map[string]float64{"df": 3}},
	}
	m, err := ranef.Draw(spec, 4000, newRNG(13))
	require.NoError(t, err)
	assert.InDelta(t, 2, stat.StdDev(column(m, 0), nil), 0.3)
}

// TestDrawCrossClass verifies the independently sized pool.
func TestDrawCrossClass(t *testing.T) {
	draws, err := ranef.DrawCrossClass(ranef.CrossClass{NumIDs: 15, Variance: 2}, newRNG(5))
	require.NoError(t, err)
	assert.Len(t, draws, 15, "one effect per pool member")

	_, err = ranef.DrawCrossClass(ranef.CrossClass{NumIDs: 0, Variance: 2}, newRNG(5))
	assert.ErrorIs(t, err, ranef.ErrNumIDs)
}
