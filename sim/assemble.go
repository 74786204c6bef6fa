package sim

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/romainfrancois/simglm/cluster"
	"github.com/romainfrancois/simglm/fixef"
	"github.com/romainfrancois/simglm/noise"
	"github.com/romainfrancois/simglm/ranef"
	"github.com/romainfrancois/simglm/variate"
)

// Single simulates a single-level dataset of n independent
// observations: design matrix, residual, response, and the withinID
// index 1..n. Random-effect configuration is rejected — a single
// level has no clusters to attach effects to.
func Single(cfg Config, n int, rng *rand.Rand) (*Dataset, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadRows, n)
	}
	return assemble(cfg, cluster.SingleLevel(n), rng)
}

// TwoLevel simulates a two-level dataset: spec resolves the level-2
// size vector (balanced, explicit, or range-unbalanced), and every
// level-2 value and random effect is replicated across its cluster's
// rows in resolver order.
func TwoLevel(cfg Config, spec cluster.SizeSpec, rng *rand.Rand) (*Dataset, error) {
	sizes, err := spec.Resolve(rng)
	if err != nil {
		return nil, err
	}
	return assemble(cfg, cluster.TwoLevel(sizes), rng)
}

// ThreeLevel simulates a three-level dataset. The resolver is applied
// twice: l3 yields the number of level-2 clusters per level-3 cluster,
// then l2 yields the level-1 counts across all level-2 clusters —
// l2.Count is taken from the resolved level-3 counts, so only its size
// fields matter (an explicit l2.Sizes vector must cover the resolved
// level-2 cluster total).
func ThreeLevel(cfg Config, l2, l3 cluster.SizeSpec, rng *rand.Rand) (*Dataset, error) {
	counts, err := l3.Resolve(rng)
	if err != nil {
		return nil, err
	}
	l2.Count = cluster.Total(counts)
	sizes, err := l2.Resolve(rng)
	if err != nil {
		return nil, err
	}
	design, err := cluster.ThreeLevel(sizes, counts)
	if err != nil {
		return nil, err
	}
	return assemble(cfg, design, rng)
}

// assemble runs the shared straight-line pipeline against a resolved
// design. All count validations happen before anything is drawn.
func assemble(cfg Config, design cluster.Design, rng *rand.Rand) (*Dataset, error) {
	depth := design.Depth()
	if depth == 1 && (cfg.RandomSpec != nil || len(cfg.Random) > 0) {
		return nil, ErrRandomSingle
	}
	if depth < 3 && (cfg.Random3Spec != nil || len(cfg.Random3) > 0) {
		return nil, ErrRandom3Depth
	}
	if cfg.RandomSpec != nil || len(cfg.Random) > 0 {
		if err := checkRandomCount(cfg.RandomSpec, len(cfg.Random), cfg.RandomIntercept); err != nil {
			return nil, err
		}
	}
	if cfg.Random3Spec != nil || len(cfg.Random3) > 0 {
		if err := checkRandomCount(cfg.Random3Spec, len(cfg.Random3), cfg.Random3Intercept); err != nil {
			return nil, err
		}
	}
	if err := checkReserved(cfg); err != nil {
		return nil, err
	}
	if want := designWidth(cfg.Fixed, cfg.FixedOpts); len(cfg.FixedParams) != want {
		return nil, fmt.Errorf("%w: %d parameters for %d columns", ErrParamLength, len(cfg.FixedParams), want)
	}

	fx, err := fixef.Build(cfg.Fixed, design, cfg.FixedOpts, rng)
	if err != nil {
		return nil, err
	}
	rows := design.Rows()

	// linear predictor
	beta := mat.NewVecDense(len(cfg.FixedParams), cfg.FixedParams)
	var xb mat.VecDense
	xb.MulVec(fx.X, beta)
	resp := make([]float64, rows)
	for i := range resp {
		resp[i] = xb.AtVec(i)
	}

	ds := newDataset(rows)
	for j, name := range fx.Names {
		col := make([]float64, rows)
		mat.Col(col, j, fx.X)
		if err := ds.addFloat(name, col); err != nil {
			return nil, err
		}
	}
	// factor originals: level codes plus labels, under the base term name
	if fx.Original != nil {
		for i, name := range fx.Original.Names {
			labels, ok := fx.Original.Labels[name]
			if !ok || ds.Has(name) {
				continue
			}
			if err := ds.addLabeled(name, fx.Original.Columns[i], labels); err != nil {
				return nil, err
			}
		}
	}

	// random effects, replicated to rows and folded into the response
	if cfg.RandomSpec != nil {
		if err := applyRandom(ds, resp, fx, design, *cfg.RandomSpec, cfg.Random, cfg.RandomIntercept, 2, rng); err != nil {
			return nil, err
		}
	}
	if cfg.Random3Spec != nil {
		if err := applyRandom(ds, resp, fx, design, *cfg.Random3Spec, cfg.Random3, cfg.Random3Intercept, 3, rng); err != nil {
			return nil, err
		}
	}

	// level-1 error
	errs, err := residuals(cfg, fx, design, rng)
	if err != nil {
		return nil, err
	}
	for i := range resp {
		resp[i] += errs[i]
	}
	if err := ds.addFloat(ColError, errs); err != nil {
		return nil, err
	}

	// cross-classified effect: membership sampled independently of the
	// primary hierarchy
	var crossIDs []int
	var crossEff []float64
	if cfg.CrossClass != nil {
		draws, err := ranef.DrawCrossClass(*cfg.CrossClass, rng)
		if err != nil {
			return nil, err
		}
		crossIDs = make([]int, rows)
		crossEff = make([]float64, rows)
		for i := range crossIDs {
			m := rng.IntN(cfg.CrossClass.NumIDs)
			crossIDs[i] = m + 1
			crossEff[i] = draws[m]
			resp[i] += draws[m]
		}
	}

	if err := ds.addFloat(ColResponse, resp); err != nil {
		return nil, err
	}

	// hierarchical ids, computed purely from the resolved size vectors
	if err := ds.addInt(ColWithinID, design.WithinIndex()); err != nil {
		return nil, err
	}
	if depth >= 2 {
		if err := ds.addInt(ColClustID, design.ClusterIDs()); err != nil {
			return nil, err
		}
	}
	if depth == 3 {
		if err := ds.addInt(ColClust3ID, design.Cluster3IDs()); err != nil {
			return nil, err
		}
	}
	if crossIDs != nil {
		if err := ds.addInt(ColCrossID, crossIDs); err != nil {
			return nil, err
		}
		if err := ds.addFloat(ColCrossEff, crossEff); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// applyRandom draws one level's random effects, replicates them to rows
// through the level's size vector, folds Z ∘ b into the response, and
// attaches the effect columns.
func applyRandom(ds *Dataset, resp []float64, fx *fixef.Matrix, design cluster.Design,
	spec ranef.Spec, terms []string, intercept bool, level int, rng *rand.Rand) error {

	zCols, err := zColumns(fx, terms, intercept)
	if err != nil {
		return err
	}
	clusters := design.Clusters2()
	sizes := design.Level2
	if level == 3 {
		clusters = design.Clusters3()
		sizes = design.Level3Rows()
	}
	draw, err := ranef.Draw(spec, clusters, rng)
	if err != nil {
		return err
	}
	for j := range zCols {
		perCluster := make([]float64, clusters)
		mat.Col(perCluster, j, draw)
		full, err := cluster.Replicate(perCluster, sizes)
		if err != nil {
			return err
		}
		for i := range resp {
			resp[i] += zCols[j][i] * full[i]
		}
		if err := ds.addFloat(RandEffName(j, level), full); err != nil {
			return err
		}
	}
	return nil
}

// zColumns evaluates the random-effect formula against the fixed
// design's columns: a column of ones for the random intercept, then one
// design column per random term.
func zColumns(fx *fixef.Matrix, terms []string, intercept bool) ([][]float64, error) {
	var cols [][]float64
	if intercept {
		ones := make([]float64, fx.Rows())
		for i := range ones {
			ones[i] = 1
		}
		cols = append(cols, ones)
	}
	for _, name := range terms {
		col, ok := fx.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrRandomTerm, name)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// residuals generates the level-1 error for the run.
func residuals(cfg Config, fx *fixef.Matrix, design cluster.Design, rng *rand.Rand) ([]float64, error) {
	if cfg.Error.Hetero != nil {
		weights, err := heteroWeights(cfg.Error.Hetero.Variable, fx)
		if err != nil {
			return nil, err
		}
		return noise.GenerateWeighted(weights, cfg.Error, rng)
	}
	if design.Level2 == nil {
		return noise.Generate(design.Rows(), cfg.Error, rng)
	}
	return noise.GenerateNested(design.Level2, cfg.Error, rng)
}

// heteroWeights resolves the weighting covariate, preferring the
// original-value frame (factor level codes, pre-expansion values) and
// falling back to the design column.
func heteroWeights(name string, fx *fixef.Matrix) ([]float64, error) {
	if fx.Original != nil {
		if col, ok := fx.Original.Column(name); ok {
			return col, nil
		}
	}
	if col, ok := fx.Column(name); ok {
		return col, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrHeteroVariable, name)
}

// checkRandomCount enforces the variance/term count invariant.
func checkRandomCount(spec *ranef.Spec, terms int, intercept bool) error {
	want := terms
	if intercept {
		want++
	}
	got := 0
	if spec != nil {
		got = len(spec.Variances)
	}
	if got != want {
		return fmt.Errorf("%w: %d variances for %d random terms", ErrRandomCount, got, want)
	}
	return nil
}

// checkReserved rejects user terms colliding with the output schema.
func checkReserved(cfg Config) error {
	reserved := map[string]bool{
		ColWithinID: true, ColClustID: true, ColClust3ID: true,
		ColCrossID: true, ColCrossEff: true, ColError: true, ColResponse: true,
	}
	k2 := len(cfg.Random) + 1
	k3 := len(cfg.Random3) + 1
	for j := 0; j < k2; j++ {
		reserved[RandEffName(j, 2)] = true
	}
	for j := 0; j < k3; j++ {
		reserved[RandEffName(j, 3)] = true
	}
	for _, t := range cfg.Fixed {
		if reserved[t.Name] {
			return fmt.Errorf("%w: %q", ErrReservedName, t.Name)
		}
		if t.Var.Kind == variate.Factor {
			for _, label := range t.Var.Labels[1:] {
				if reserved[t.Name+"_"+label] {
					return fmt.Errorf("%w: %q", ErrReservedName, t.Name+"_"+label)
				}
			}
		}
	}
	return nil
}

// designWidth computes the design-matrix column count without drawing:
// intercept, one column per non-factor term, len(labels)-1 per factor,
// products of base widths per interaction.
func designWidth(terms []fixef.Term, opts fixef.Options) int {
	width := make(map[string]int, len(terms))
	total := 0
	if opts.Intercept {
		total++
	}
	for _, t := range terms {
		w := 1
		switch {
		case len(t.Bases) > 0:
			for _, b := range t.Bases {
				if bw, ok := width[b]; ok {
					w *= bw
				}
			}
		case t.Var.Kind == variate.Factor:
			w = len(t.Var.Labels) - 1
		}
		width[t.Name] = w
		total += w
	}
	return total
}
