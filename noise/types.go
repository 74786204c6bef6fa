// Package noise defines error-generation options and sentinel errors
// for the noise subpackage of github.com/romainfrancois/simglm.
package noise

import (
	"errors"

	"github.com/romainfrancois/simglm/variate"
)

// Sentinel errors for residual generation.
var (
	// ErrBadVariance indicates a negative error variance.
	ErrBadVariance = errors.New("noise: error variance must be non-negative")
	// ErrBadSize indicates a non-positive observation count.
	ErrBadSize = errors.New("noise: observation count must be at least one")
	// ErrNonStationary indicates AR coefficients violating the stationarity bound.
	ErrNonStationary = errors.New("noise: AR coefficients must satisfy sum(|phi|) < 1")
	// ErrHomogeneity indicates heteroscedastic options with homogeneity still enabled.
	ErrHomogeneity = errors.New("noise: heteroscedastic errors require Homogeneous=false")
	// ErrWeightsRequired indicates heteroscedastic options routed through the homogeneous generator.
	ErrWeightsRequired = errors.New("noise: heteroscedastic errors require a per-observation weight vector")
	// ErrHeteroARMA indicates an attempt to combine heteroscedastic and ARMA errors.
	ErrHeteroARMA = errors.New("noise: heteroscedastic and ARMA errors cannot be combined")
)

// burnIn is the discarded prefix length of each per-cluster ARMA series.
const burnIn = 50

// Hetero names the design covariate whose per-observation value scales
// the error variance.
type Hetero struct {
	Variable string
}

// Options configures residual generation.
type Options struct {
	// Variance is the target error variance (per observation).
	Variance float64
	// Dist selects the generating distribution (default normal).
	Dist variate.DistSpec
	// AR and MA hold the autoregressive and moving-average coefficients
	// of the within-cluster serial-correlation process.
	AR []float64
	MA []float64
	// Hetero switches to heteroscedastic errors weighted by a covariate.
	Hetero *Hetero
	// Homogeneous guards against accidental heteroscedasticity: it must
	// be set to false explicitly before Hetero takes effect.
	Homogeneous bool
}

// DefaultOptions returns homogeneous normal errors with unit variance.
func DefaultOptions() Options {
	return Options{Variance: 1, Dist: variate.DefaultDist(), Homogeneous: true}
}

// serial reports whether an ARMA process was requested.
func (o Options) serial() bool { return len(o.AR) > 0 || len(o.MA) > 0 }
