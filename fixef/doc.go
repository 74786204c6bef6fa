// Package fixef builds fixed-effect design matrices for simulated
// multilevel datasets.
//
// Build consumes an ordered list of terms (variable terms carrying a
// variate.Spec, or interactions naming previously declared base terms),
// the resolved cluster design, and functional options, and produces:
//
//   - the design matrix X (gonum mat.Dense): intercept unless
//     suppressed, one column per continuous/time/ordinal/knot term,
//     contrast-expanded indicator columns per factor term, and
//     elementwise products for interactions
//   - a parallel original-value frame (pre-expansion values, factor
//     labels included) whenever any categorical term is present, kept
//     for reporting and heteroscedasticity weighting
//
// Value replication honors each term's level: level-2/level-3 values
// are drawn once per cluster and repeated across that cluster's rows in
// resolver order, so every row of a cluster carries the identical value.
//
// Pairwise correlation directives between continuous covariates of the
// same level are realized before replication: the directives are
// assembled into one correlation matrix, Cholesky-factored, and applied
// to the standardized unique draws, restoring each column's marginal
// mean and standard deviation afterwards.
package fixef
