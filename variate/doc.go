// Package variate produces single columns of simulated covariate data.
//
// Each fixed-effect term carries a Spec: a tagged variant (Time,
// Continuous, Ordinal, Factor, Knot) resolved once at configuration
// time — generation never inspects name patterns. Ordinal and factor
// variables sample from an explicit level set, with or without
// replacement and with optional weights; continuous variables draw from
// a named generating distribution.
//
// Generating distributions live behind a registry keyed by name
// ("normal", "uniform", "lognormal", "gamma", "exponential", "t",
// "chisquared") with per-family recognised parameter keys and defaults;
// unknown names or keys fail with sentinel errors. All samplers are
// gonum distuv distributions fed by the caller's random source.
//
// A Spec also declares its replication level (1, 2 or 3): the number of
// unique values to draw. Replicating those values down to level-1 rows
// is the cluster package's job; variate only generates the uniques.
package variate
