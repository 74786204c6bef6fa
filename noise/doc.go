// Package noise generates level-1 residuals for simulated multilevel
// datasets.
//
// Three modes:
//
//   - iid (default): independent draws from a named generating
//     distribution, standardized and scaled to the target variance.
//   - ARMA: within each cluster the residual series follows a
//     stationary ARMA(p, q) recursion with standardized innovations
//     scaled to the target variance; clusters are generated
//     independently and concatenated in resolver order. A burn-in
//     prefix is generated and discarded so the series starts near its
//     stationary regime.
//   - heteroscedastic: each observation's variance is the base variance
//     multiplied by the absolute value of a weighting covariate taken
//     from the design; enabling it requires homogeneity to be disabled
//     explicitly.
//
// Serial correlation and heteroscedasticity are alternative shapes of
// the level-1 error and are not combined.
package noise
