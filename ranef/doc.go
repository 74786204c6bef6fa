// Package ranef draws cluster-level random effects for simulated
// multilevel models.
//
// Draw returns one row per cluster and one column per random term
// (random intercept included), each column scaled to its declared
// variance. Draws come from a named generating distribution
// standardized by its theoretical moments; the Theoretical flag
// re-standardizes by the empirical moments instead, so the realized
// columns match the target mean and variance exactly.
//
// A pairwise correlation vector transforms the standardized draws
// through the Cholesky factor of the implied correlation matrix before
// variance scaling, preserving each column's marginal variance.
//
// Cross-classified effects reuse the same generator against an
// independently sized pool of clusters (CrossClass); observation
// membership in that pool is sampled independently by the assembler,
// deliberately cutting across the primary nesting hierarchy.
package ranef
