package ranef

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/romainfrancois/simglm/variate"
)

// Draw returns the random-effect matrix: clusters rows × one column per
// declared variance, jointly drawn per row.
//
// Each column starts as iid draws from the generating distribution,
// standardized by the distribution's theoretical mean and standard
// deviation (or, under Theoretical, by the empirical moments of the
// realized column, which pins the sample mean to 0 and the sample
// variance to the target exactly). When Corr is supplied the
// standardized draws are transformed through the Cholesky factor of the
// correlation matrix; columns are then scaled by the square root of
// their variances, preserving the marginal targets.
func Draw(spec Spec, clusters int, rng *rand.Rand) (*mat.Dense, error) {
	k := len(spec.Variances)
	if k == 0 {
		return nil, ErrNoVariance
	}
	if clusters < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadCount, clusters)
	}
	for j, v := range spec.Variances {
		if v < 0 {
			return nil, fmt.Errorf("%w: variance[%d] = %g", ErrBadVariance, j, v)
		}
	}
	s, err := variate.NewSampler(spec.Dist, rng)
	if err != nil {
		return nil, err
	}

	// standardized draws
	Z := mat.NewDense(clusters, k, nil)
	mean, sd := s.Mean(), s.StdDev()
	col := make([]float64, clusters)
	for j := 0; j < k; j++ {
		for i := range col {
			col[i] = s.Rand()
		}
		m, scale := mean, sd
		if spec.Theoretical && clusters > 1 {
			m = stat.Mean(col, nil)
			scale = stat.StdDev(col, nil)
			if scale == 0 || math.IsNaN(scale) {
				scale = 1
			}
		}
		for i, v := range col {
			Z.Set(i, j, (v-m)/scale)
		}
	}

	if spec.Corr != nil {
		if len(spec.Corr) != k*(k-1)/2 {
			return nil, fmt.Errorf("%w: got %d entries for %d terms", ErrCorrLength, len(spec.Corr), k)
		}
		data := make([]float64, k*k)
		idx := 0
		for i := 0; i < k; i++ {
			data[i*k+i] = 1
			for j := i + 1; j < k; j++ {
				data[i*k+j] = spec.Corr[idx]
				data[j*k+i] = spec.Corr[idx]
				idx++
			}
		}
		var chol mat.Cholesky
		if ok := chol.Factorize(mat.NewSymDense(k, data)); !ok {
			return nil, ErrCorrNotPD
		}
		L := mat.NewTriDense(k, mat.Lower, nil)
		chol.LTo(L)
		var W mat.Dense
		W.Mul(Z, L.T())
		Z.Copy(&W)
	}

	// scale columns to their target variances
	for j := 0; j < k; j++ {
		scale := math.Sqrt(spec.Variances[j])
		for i := 0; i < clusters; i++ {
			Z.Set(i, j, Z.At(i, j)*scale)
		}
	}
	return Z, nil
}

// DrawCrossClass draws one effect per member of the cross-classified
// pool, using the same generator against the pool's own size.
func DrawCrossClass(cc CrossClass, rng *rand.Rand) ([]float64, error) {
	if cc.NumIDs < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNumIDs, cc.NumIDs)
	}
	m, err := Draw(Spec{Variances: []float64{cc.Variance}, Dist: cc.Dist}, cc.NumIDs, rng)
	if err != nil {
		return nil, err
	}
	out := make([]float64, cc.NumIDs)
	mat.Col(out, 0, m)
	return out, nil
}
