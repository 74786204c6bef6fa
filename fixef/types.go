// Package fixef defines term descriptors, builder options, and sentinel
// errors for the fixef subpackage of github.com/romainfrancois/simglm.
package fixef

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/romainfrancois/simglm/variate"
)

// Sentinel errors for design-matrix construction.
var (
	// ErrNoTerms indicates neither terms nor an intercept were requested.
	ErrNoTerms = errors.New("fixef: design requires at least one term or an intercept")
	// ErrDupTerm indicates two terms sharing one name.
	ErrDupTerm = errors.New("fixef: duplicate term name")
	// ErrBadLevel indicates a variable level exceeding the design's nesting depth.
	ErrBadLevel = errors.New("fixef: variable level exceeds design nesting depth")
	// ErrUnknownBase indicates an interaction naming an undeclared base term.
	ErrUnknownBase = errors.New("fixef: interaction references unknown base term")
	// ErrCorrTerm indicates a correlation directive naming a term that is not a continuous covariate.
	ErrCorrTerm = errors.New("fixef: correlation directives may only name continuous terms")
	// ErrCorrLevel indicates correlated covariates declared at differing levels.
	ErrCorrLevel = errors.New("fixef: correlated covariates must share one variable level")
	// ErrCorrNotPD indicates a correlation target that is not positive definite.
	ErrCorrNotPD = errors.New("fixef: correlation matrix is not positive definite")
	// ErrKnotTransform indicates a knot term without a caller-supplied transform.
	ErrKnotTransform = errors.New("fixef: knot variables require a transform via Options.Knot")
	// ErrKnotBase indicates a knot term whose base column does not exist.
	ErrKnotBase = errors.New("fixef: knot base variable not found")
	// ErrKnotLength indicates a knot transform returning the wrong number of rows.
	ErrKnotLength = errors.New("fixef: knot transform must return one value per observation")
)

// Term is one ordered entry of the fixed-effect list. Exactly one of
// the two shapes holds:
//
//   - variable term: Bases empty, Var carries the generation recipe;
//   - interaction:   Bases names two or more previously declared terms,
//     and the columns are elementwise products of the bases' (expanded)
//     columns. By convention interaction names join the base names with
//     ":" (e.g. "time:treat"), matching the parsed-formula labels.
type Term struct {
	Name  string
	Var   Spec
	Bases []string
}

// Spec aliases the variate recipe to keep Term literals compact.
type Spec = variate.Spec

// Contrast selects the coding scheme for one factor's indicator columns.
type Contrast int

const (
	// Treatment coding: one indicator per non-reference level,
	// the first declared label being the reference (the default).
	Treatment Contrast = iota
	// Sum coding: non-reference levels score +1 on their own column and
	// the reference level scores -1 on every column.
	Sum
)

// Correlation requests a pairwise correlation R between the continuous
// terms named A and B.
type Correlation struct {
	A, B string
	R    float64
}

// KnotFunc derives a column from a base column at a set of breakpoints.
// It must return exactly one value per element of base.
type KnotFunc func(base []float64, knots []float64) []float64

// Options configures design-matrix construction.
type Options struct {
	// Intercept prepends a column of ones (default true).
	Intercept bool
	// Correlations holds pairwise directives between continuous terms.
	Correlations []Correlation
	// Contrasts overrides the coding per factor term name.
	Contrasts map[string]Contrast
	// Knot supplies the derived-variable transform for Knot terms.
	Knot KnotFunc
}

// DefaultOptions returns the default builder configuration:
// intercept on, treatment contrasts, no correlations, no knot transform.
func DefaultOptions() Options {
	return Options{Intercept: true}
}

// Matrix is the built design: X with one named column per fixed effect,
// plus the original-value frame when any categorical term is present.
type Matrix struct {
	X        *mat.Dense
	Names    []string
	Original *Frame
}

// Cols reports the number of design columns.
func (m *Matrix) Cols() int { return len(m.Names) }

// Rows reports the number of level-1 observations.
func (m *Matrix) Rows() int {
	r, _ := m.X.Dims()
	return r
}

// Column returns the named design column's values.
func (m *Matrix) Column(name string) ([]float64, bool) {
	for j, n := range m.Names {
		if n == name {
			col := make([]float64, m.Rows())
			mat.Col(col, j, m.X)
			return col, true
		}
	}
	return nil, false
}

// Frame carries pre-expansion term values at level-1 granularity:
// ordinal codes, factor level codes with their labels, and continuous
// values, for reporting and heteroscedasticity weighting.
type Frame struct {
	Names   []string
	Columns [][]float64
	Labels  map[string][]string
}

// Column returns the named original-value column.
func (f *Frame) Column(name string) ([]float64, bool) {
	for i, n := range f.Names {
		if n == name {
			return f.Columns[i], true
		}
	}
	return nil, false
}
