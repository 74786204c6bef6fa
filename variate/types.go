// Package variate defines variable-type variants, distribution
// specifications, and sentinel errors for the variate subpackage of
// github.com/romainfrancois/simglm.
package variate

import "errors"

// Sentinel errors for variable and distribution specifications.
var (
	// ErrUnknownDist indicates an unrecognised generating-distribution name.
	ErrUnknownDist = errors.New("variate: unknown generating distribution")
	// ErrBadDistParam indicates an unrecognised or out-of-domain distribution parameter.
	ErrBadDistParam = errors.New("variate: bad distribution parameter")
	// ErrTimeLength indicates explicit time points whose length differs from the level-1 size.
	ErrTimeLength = errors.New("variate: time points length must equal level-1 sample size")
	// ErrProbLength indicates a probability vector whose length differs from the levels vector.
	ErrProbLength = errors.New("variate: probability vector length must equal levels vector length")
	// ErrBadProb indicates a probability vector with a negative entry or zero total mass.
	ErrBadProb = errors.New("variate: probabilities must be non-negative with positive sum")
	// ErrNoLevels indicates an ordinal/factor spec without levels.
	ErrNoLevels = errors.New("variate: ordinal and factor variables require a non-empty level set")
	// ErrSampleExhausted indicates a without-replacement request for more draws than distinct levels.
	ErrSampleExhausted = errors.New("variate: cannot sample without replacement beyond the number of levels")
	// ErrDerivedKind indicates an attempt to generate a knot variable in isolation;
	// knot columns are derived from a base column by the design-matrix builder.
	ErrDerivedKind = errors.New("variate: knot variables are derived from a base column, not generated directly")
	// ErrBadKind indicates an unrecognised Kind value.
	ErrBadKind = errors.New("variate: unrecognised variable kind")
)

// Kind tags the generation recipe of one fixed-effect term.
// Interactions are the sixth variant; they are expressed structurally
// on the design-matrix side (fixef.Term.Bases) because they own no
// generation recipe of their own.
type Kind int

const (
	// Time is the integer sequence 0..p-1 per cluster, or explicit points.
	Time Kind = iota
	// Continuous draws from a named continuous distribution.
	Continuous
	// Ordinal samples integer values from an explicit level set.
	Ordinal
	// Factor samples category labels from an explicit label set.
	Factor
	// Knot is a derived variable: a caller-supplied piecewise transform
	// of an already-generated base column at a set of breakpoints.
	Knot
)

// String implements fmt.Stringer for diagnostics.
func (k Kind) String() string {
	switch k {
	case Time:
		return "time"
	case Continuous:
		return "continuous"
	case Ordinal:
		return "ordinal"
	case Factor:
		return "factor"
	case Knot:
		return "knot"
	default:
		return "unknown"
	}
}

// DistSpec names a generating distribution and its parameters.
// Recognised names and parameter keys (all keys optional):
//
//	normal      — mean (0), sd (1)
//	uniform     — min (0), max (1)
//	lognormal   — meanlog (0), sdlog (1)
//	gamma       — shape (1), rate (1)
//	exponential — rate (1)
//	t           — df (5, must exceed 2), mean (0), sd (1)
//	chisquared  — df (1)
//
// The zero value means normal(0, 1).
type DistSpec struct {
	Name   string
	Params map[string]float64
}

// DefaultDist returns the default generating distribution, normal(0, 1).
func DefaultDist() DistSpec {
	return DistSpec{Name: "normal"}
}

// Spec is one fixed-effect term's generation recipe.
//
// Level declares how values repeat across clusters: 1 generates one
// value per observation, 2 one per level-2 cluster, 3 one per level-3
// cluster (0 is treated as 1). Replication down to rows happens in the
// design-matrix builder via the cluster package.
type Spec struct {
	Name string
	Kind Kind
	// Level is the replication level (1, 2 or 3; 0 means 1).
	Level int
	// Dist selects the generating distribution for Continuous variables.
	Dist DistSpec
	// TimePoints optionally fixes the per-cluster time sequence; its
	// length must equal the level-1 sample size of every cluster.
	TimePoints []float64
	// Levels is the ordinal value set.
	Levels []int
	// Labels is the factor category set (arbitrary text labels).
	Labels []string
	// Prob optionally weights Levels/Labels; must match their length.
	Prob []float64
	// NoReplace samples without replacement (default is with replacement).
	NoReplace bool
	// Base and Knots configure Knot variables: the base term's name and
	// the breakpoints handed to the caller-supplied transform.
	Base  string
	Knots []float64
}

// EffectiveLevel normalises the zero value to level 1.
func (s Spec) EffectiveLevel() int {
	if s.Level == 0 {
		return 1
	}
	return s.Level
}

// Column is one generated column of unique (pre-replication) values.
// For Factor variables, Values holds 1-based level codes and Labels the
// corresponding category text; Labels is nil otherwise.
type Column struct {
	Name   string
	Values []float64
	Labels []string
}
