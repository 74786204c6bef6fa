// Package ranef defines random-effect specifications and sentinel
// errors for the ranef subpackage of github.com/romainfrancois/simglm.
package ranef

import (
	"errors"

	"github.com/romainfrancois/simglm/variate"
)

// Sentinel errors for random-effect generation.
var (
	// ErrNoVariance indicates an empty variance vector.
	ErrNoVariance = errors.New("ranef: at least one random-effect variance is required")
	// ErrBadVariance indicates a negative variance.
	ErrBadVariance = errors.New("ranef: variances must be non-negative")
	// ErrBadCount indicates a non-positive cluster count.
	ErrBadCount = errors.New("ranef: cluster count must be at least one")
	// ErrCorrLength indicates a correlation vector whose length is not k(k-1)/2.
	ErrCorrLength = errors.New("ranef: correlation vector length must be k(k-1)/2 for k random terms")
	// ErrCorrNotPD indicates a correlation target that is not positive definite.
	ErrCorrNotPD = errors.New("ranef: correlation matrix is not positive definite")
	// ErrNumIDs indicates a cross-classified pool without a positive size.
	ErrNumIDs = errors.New("ranef: cross-classified pool requires a positive number of ids")
)

// Spec declares one level's random effects: one variance per random
// term (intercept included), a generating distribution, an optional
// pairwise correlation vector, and the theoretical-simulate flag.
//
// Corr lists the upper triangle of the correlation matrix row by row:
// for terms (b0, b1, b2) that is (r01, r02, r12).
type Spec struct {
	Variances   []float64
	Dist        variate.DistSpec
	Corr        []float64
	Theoretical bool
}

// CrossClass declares a cross-classified random-effect pool: NumIDs
// clusters with their own variance and generating distribution, joined
// to observations by an independently sampled membership column.
type CrossClass struct {
	NumIDs   int
	Variance float64
	Dist     variate.DistSpec
}
