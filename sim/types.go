// Package sim defines run configurations, the reserved output schema,
// and sentinel errors for the sim subpackage of
// github.com/romainfrancois/simglm.
package sim

import (
	"errors"
	"fmt"

	"github.com/romainfrancois/simglm/fixef"
	"github.com/romainfrancois/simglm/noise"
	"github.com/romainfrancois/simglm/ranef"
)

// Sentinel errors for dataset assembly.
var (
	// ErrBadRows indicates a non-positive single-level observation count.
	ErrBadRows = errors.New("sim: observation count must be at least one")
	// ErrParamLength indicates a fixed-parameter vector inconsistent with the design columns.
	ErrParamLength = errors.New("sim: fixed parameter vector length must equal design matrix columns")
	// ErrRandomTerm indicates a random term absent from the design matrix columns.
	ErrRandomTerm = errors.New("sim: random term not found among fixed design columns")
	// ErrRandomCount indicates a random-variance vector inconsistent with the random terms.
	ErrRandomCount = errors.New("sim: random variance count must equal random term count")
	// ErrRandomSingle indicates random effects configured for a single-level design.
	ErrRandomSingle = errors.New("sim: single-level designs carry no random effects")
	// ErrRandom3Depth indicates level-3 random effects below a three-level design.
	ErrRandom3Depth = errors.New("sim: level-3 random effects require a three-level design")
	// ErrReservedName indicates a user term colliding with a reserved output column.
	ErrReservedName = errors.New("sim: term name collides with a reserved output column")
	// ErrHeteroVariable indicates a heteroscedasticity covariate absent from the design.
	ErrHeteroVariable = errors.New("sim: heteroscedasticity variable not found in design")
	// ErrDuplicateColumn indicates two output columns sharing one name.
	ErrDuplicateColumn = errors.New("sim: duplicate output column")
)

// Reserved output column names.
const (
	ColWithinID = "withinID" // within-cluster index, restarting at 1 per level-2 cluster
	ColClustID  = "clustID"  // level-2 cluster id
	ColClust3ID = "clust3ID" // level-3 cluster id
	ColCrossID  = "crossID"  // cross-classified membership id
	ColCrossEff = "crossEff" // cross-classified random-effect value
	ColError    = "err"      // level-1 residual
	ColResponse = "sim_data" // simulated response
)

// RandEffName names random-effect columns by ordinal position per
// level: b0, b1, ... at level 2 and b0_3, b1_3, ... at level 3.
func RandEffName(j, level int) string {
	if level == 3 {
		return fmt.Sprintf("b%d_3", j)
	}
	return fmt.Sprintf("b%d", j)
}

// Config is one simulation run's specification. Zero values are not
// meaningful for the intercept flags; start from DefaultConfig.
type Config struct {
	// Fixed is the ordered fixed-effect term list (parsed externally).
	Fixed []fixef.Term
	// FixedParams holds one coefficient per design column, intercept
	// included; its length is validated against the design width.
	FixedParams []float64
	// FixedOpts configures design-matrix construction.
	FixedOpts fixef.Options

	// Random names the level-2 random-slope terms; each must match a
	// design column. RandomIntercept adds the random intercept column.
	Random          []string
	RandomIntercept bool
	// RandomSpec declares the level-2 random-effect variances.
	RandomSpec *ranef.Spec

	// Random3 / Random3Intercept / Random3Spec mirror the above at
	// level 3 of a three-level design.
	Random3          []string
	Random3Intercept bool
	Random3Spec      *ranef.Spec

	// CrossClass optionally adds a cross-classified random-effect pool.
	CrossClass *ranef.CrossClass

	// Error configures the level-1 residuals.
	Error noise.Options
}

// DefaultConfig returns a configuration with intercepts on (fixed and
// random) and homogeneous standard-normal errors.
func DefaultConfig() Config {
	return Config{
		FixedOpts:        fixef.DefaultOptions(),
		RandomIntercept:  true,
		Random3Intercept: true,
		Error:            noise.DefaultOptions(),
	}
}
