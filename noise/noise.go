package noise

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/romainfrancois/simglm/variate"
)

// Generate produces n residuals for a single sequence of observations
// (a single-level design, or one cluster of a nested one). Options with
// AR/MA coefficients yield one ARMA series; otherwise draws are iid.
// Heteroscedastic options must go through GenerateWeighted instead.
func Generate(n int, opts Options, rng *rand.Rand) ([]float64, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	if opts.Hetero != nil {
		return nil, fmt.Errorf("%w: %q", ErrWeightsRequired, opts.Hetero.Variable)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadSize, n)
	}
	s, err := variate.NewSampler(opts.Dist, rng)
	if err != nil {
		return nil, err
	}
	if opts.serial() {
		return armaSeries(n, opts, s), nil
	}
	return iid(n, opts.Variance, s), nil
}

// GenerateNested produces residuals for a nested design: one series per
// cluster, generated independently and concatenated in cluster order.
// With iid options the result is indistinguishable from one flat
// Generate call of the total size; with AR/MA options the serial
// process restarts inside each cluster.
func GenerateNested(sizes []int, opts Options, rng *rand.Rand) ([]float64, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	if opts.Hetero != nil {
		return nil, fmt.Errorf("%w: %q", ErrWeightsRequired, opts.Hetero.Variable)
	}
	s, err := variate.NewSampler(opts.Dist, rng)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, p := range sizes {
		total += p
	}
	out := make([]float64, 0, total)
	for _, p := range sizes {
		if p < 1 {
			return nil, fmt.Errorf("%w: got cluster size %d", ErrBadSize, p)
		}
		if opts.serial() {
			out = append(out, armaSeries(p, opts, s)...)
		} else {
			out = append(out, iid(p, opts.Variance, s)...)
		}
	}
	return out, nil
}

// GenerateWeighted produces heteroscedastic residuals: observation i
// receives variance opts.Variance × |weights[i]|. The caller must have
// disabled homogeneity explicitly; weights come from the named design
// covariate and are supplied by the assembler.
func GenerateWeighted(weights []float64, opts Options, rng *rand.Rand) ([]float64, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	if opts.Homogeneous {
		return nil, ErrHomogeneity
	}
	if opts.serial() {
		return nil, ErrHeteroARMA
	}
	if len(weights) < 1 {
		return nil, fmt.Errorf("%w: got %d weights", ErrBadSize, len(weights))
	}
	s, err := variate.NewSampler(opts.Dist, rng)
	if err != nil {
		return nil, err
	}
	mean, sd := s.Mean(), s.StdDev()
	out := make([]float64, len(weights))
	for i, w := range weights {
		z := (s.Rand() - mean) / sd
		out[i] = z * math.Sqrt(opts.Variance*math.Abs(w))
	}
	return out, nil
}

// validate checks the option invariants shared by every mode.
func validate(opts Options) error {
	if opts.Variance < 0 {
		return fmt.Errorf("%w: got %g", ErrBadVariance, opts.Variance)
	}
	sum := 0.0
	for _, phi := range opts.AR {
		sum += math.Abs(phi)
	}
	if sum >= 1 {
		return fmt.Errorf("%w: sum(|phi|) = %g", ErrNonStationary, sum)
	}
	return nil
}

// iid draws n standardized values scaled to the target variance.
func iid(n int, variance float64, s variate.Sampler) []float64 {
	mean, sd := s.Mean(), s.StdDev()
	scale := math.Sqrt(variance)
	out := make([]float64, n)
	for i := range out {
		out[i] = (s.Rand() - mean) / sd * scale
	}
	return out
}

// armaSeries runs the ARMA(p, q) recursion
//
//	y_t = sum_i phi_i y_{t-i} + e_t + sum_j theta_j e_{t-j}
//
// with standardized innovations scaled to the target variance, and
// returns the last n values after the burn-in prefix.
func armaSeries(n int, opts Options, s variate.Sampler) []float64 {
	mean, sd := s.Mean(), s.StdDev()
	scale := math.Sqrt(opts.Variance)
	total := n + burnIn
	y := make([]float64, total)
	e := make([]float64, total)
	for t := 0; t < total; t++ {
		e[t] = (s.Rand() - mean) / sd * scale
		v := e[t]
		for i, phi := range opts.AR {
			if t-i-1 >= 0 {
				v += phi * y[t-i-1]
			}
		}
		for j, theta := range opts.MA {
			if t-j-1 >= 0 {
				v += theta * e[t-j-1]
			}
		}
		y[t] = v
	}
	return y[burnIn:]
}
