// Package sim assembles complete simulated datasets at one, two or
// three nesting levels.
//
// Each assembler is a straight-line pipeline: resolve the cluster-size
// structure, build the fixed-effect design matrix, draw random effects
// at the appropriate levels and replicate them to observations, build
// the random-effect application matrix from the design's columns,
// generate level-1 error, combine everything into the response, and
// attach hierarchical id columns — all against one explicit *rand.Rand,
// so a fixed seed reproduces the dataset bit for bit.
//
// The output schema is declared up front: reserved names for the id
// columns (withinID, clustID, clust3ID, crossID), the random-effect
// columns (b0, b1, ... per level, with a _3 suffix at level 3), the
// residual (err) and the response (sim_data). User terms that collide
// with a reserved name are rejected before anything is drawn, so no
// post-hoc column deduplication ever happens.
//
// Configuration mistakes — a fixed-parameter vector that does not match
// the design's column count, a random-variance vector inconsistent with
// the random terms, an unusable unbalance directive — abort with
// sentinel errors carrying both conflicting counts before any drawing.
package sim
