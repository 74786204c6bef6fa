package fixef

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/romainfrancois/simglm/cluster"
	"github.com/romainfrancois/simglm/variate"
)

// baseColumn carries one variable term through the build pipeline:
// unique draws at the term's level, then full-length replicated values.
type baseColumn struct {
	term   Term
	unique variate.Column
	values []float64
	labels []string
}

// colRef is one expanded design column.
type colRef struct {
	name string
	vals []float64
}

// Build produces the fixed-effect design matrix for the given ordered
// term list and resolved cluster design.
//
// Pipeline:
//  1. Draw unique values per variable term at its declared level
//     (time variables are laid out per cluster directly).
//  2. Induce pairwise correlations between continuous covariates on the
//     unique draws (Cholesky transform, marginal moments restored).
//  3. Replicate level-2/level-3 values down to level-1 rows in resolver
//     order.
//  4. Derive knot columns from their base columns via Options.Knot.
//  5. Expand factors into contrast columns, compute interaction
//     products, and assemble X (intercept first unless suppressed).
//
// The original-value frame is returned whenever any ordinal or factor
// term is present.
func Build(terms []Term, design cluster.Design, opts Options, rng *rand.Rand) (*Matrix, error) {
	if len(terms) == 0 && !opts.Intercept {
		return nil, ErrNoTerms
	}
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		if seen[t.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDupTerm, t.Name)
		}
		seen[t.Name] = true
	}

	rows := design.Rows()
	bases := make([]*baseColumn, 0, len(terms))
	baseByName := make(map[string]*baseColumn, len(terms))

	// 1. unique draws per variable term (knots and interactions deferred)
	for _, t := range terms {
		if len(t.Bases) > 0 || t.Var.Kind == variate.Knot {
			continue
		}
		b := &baseColumn{term: t}
		if t.Var.Kind == variate.Time {
			vals, err := timeColumn(t.Var, design, rng)
			if err != nil {
				return nil, err
			}
			b.values = vals
		} else {
			n, err := drawCount(t.Var, design)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", t.Name, err)
			}
			col, err := variate.Generate(t.Var, n, rng)
			if err != nil {
				return nil, err
			}
			b.unique = col
		}
		bases = append(bases, b)
		baseByName[t.Name] = b
	}

	// 2. correlation induction on the unique draws
	if err := induceCorrelation(opts.Correlations, baseByName); err != nil {
		return nil, err
	}

	// 3. replicate to level-1 rows
	for _, b := range bases {
		if b.values != nil {
			continue // time columns are already full length
		}
		vals, labels, err := replicate(b, design)
		if err != nil {
			return nil, err
		}
		b.values, b.labels = vals, labels
	}

	// 4. knot columns, now that every base is full length
	for _, t := range terms {
		if len(t.Bases) > 0 || t.Var.Kind != variate.Knot {
			continue
		}
		if opts.Knot == nil {
			return nil, fmt.Errorf("%w: %q", ErrKnotTransform, t.Name)
		}
		base, ok := baseByName[t.Var.Base]
		if !ok {
			return nil, fmt.Errorf("%w: %q wants base %q", ErrKnotBase, t.Name, t.Var.Base)
		}
		derived := opts.Knot(base.values, t.Var.Knots)
		if len(derived) != rows {
			return nil, fmt.Errorf("%w: got %d values for %d rows", ErrKnotLength, len(derived), rows)
		}
		b := &baseColumn{term: t, values: derived}
		bases = append(bases, b)
		baseByName[t.Name] = b
	}

	// 5. expansion and assembly
	expanded := make(map[string][]colRef, len(terms))
	var cols []colRef
	if opts.Intercept {
		ones := make([]float64, rows)
		for i := range ones {
			ones[i] = 1
		}
		cols = append(cols, colRef{name: "Intercept", vals: ones})
	}
	for _, t := range terms {
		var refs []colRef
		switch {
		case len(t.Bases) > 0:
			var err error
			refs, err = interactionCols(t, expanded)
			if err != nil {
				return nil, err
			}
		case t.Var.Kind == variate.Factor:
			refs = contrastCols(t, baseByName[t.Name], contrastFor(opts, t.Name))
		default:
			refs = []colRef{{name: t.Name, vals: baseByName[t.Name].values}}
		}
		expanded[t.Name] = refs
		cols = append(cols, refs...)
	}

	X := mat.NewDense(rows, len(cols), nil)
	names := make([]string, len(cols))
	for j, c := range cols {
		names[j] = c.name
		X.SetCol(j, c.vals)
	}

	return &Matrix{X: X, Names: names, Original: originalFrame(terms, baseByName)}, nil
}

// drawCount maps a variable level onto the number of unique draws.
func drawCount(spec variate.Spec, design cluster.Design) (int, error) {
	level := spec.EffectiveLevel()
	if level > design.Depth() {
		return 0, fmt.Errorf("%w: level %d in a %d-level design", ErrBadLevel, level, design.Depth())
	}
	switch level {
	case 1:
		return design.Rows(), nil
	case 2:
		return design.Clusters2(), nil
	default:
		return design.Clusters3(), nil
	}
}

// timeColumn lays the time sequence into every cluster: 0..p_i-1 by
// default, or the explicit points validated against each cluster's
// level-1 size.
func timeColumn(spec variate.Spec, design cluster.Design, rng *rand.Rand) ([]float64, error) {
	if design.Level2 == nil {
		col, err := variate.Generate(spec, design.Rows(), rng)
		if err != nil {
			return nil, err
		}
		return col.Values, nil
	}
	out := make([]float64, 0, design.Rows())
	for _, p := range design.Level2 {
		col, err := variate.Generate(spec, p, rng)
		if err != nil {
			return nil, err
		}
		out = append(out, col.Values...)
	}
	return out, nil
}

// replicate expands a term's unique draws down to level-1 rows.
func replicate(b *baseColumn, design cluster.Design) ([]float64, []string, error) {
	switch b.term.Var.EffectiveLevel() {
	case 1:
		return b.unique.Values, b.unique.Labels, nil
	case 2:
		vals, err := cluster.Replicate(b.unique.Values, design.Level2)
		if err != nil {
			return nil, nil, err
		}
		var labels []string
		if b.unique.Labels != nil {
			if labels, err = cluster.Replicate(b.unique.Labels, design.Level2); err != nil {
				return nil, nil, err
			}
		}
		return vals, labels, nil
	default:
		rows3 := design.Level3Rows()
		vals, err := cluster.Replicate(b.unique.Values, rows3)
		if err != nil {
			return nil, nil, err
		}
		var labels []string
		if b.unique.Labels != nil {
			if labels, err = cluster.Replicate(b.unique.Labels, rows3); err != nil {
				return nil, nil, err
			}
		}
		return vals, labels, nil
	}
}

// induceCorrelation realizes pairwise correlation directives on the
// involved terms' unique draws. All directives are assembled into one
// correlation matrix and factored jointly; unmentioned pairs stay
// independent.
func induceCorrelation(cors []Correlation, baseByName map[string]*baseColumn) error {
	if len(cors) == 0 {
		return nil
	}
	var names []string
	index := make(map[string]int)
	resolve := func(name string) (*baseColumn, error) {
		b, ok := baseByName[name]
		if !ok || b.term.Var.Kind != variate.Continuous {
			return nil, fmt.Errorf("%w: %q", ErrCorrTerm, name)
		}
		if _, ok := index[name]; !ok {
			index[name] = len(names)
			names = append(names, name)
		}
		return b, nil
	}
	level := 0
	for _, c := range cors {
		a, err := resolve(c.A)
		if err != nil {
			return err
		}
		b, err := resolve(c.B)
		if err != nil {
			return err
		}
		if level == 0 {
			level = a.term.Var.EffectiveLevel()
		}
		if a.term.Var.EffectiveLevel() != level || b.term.Var.EffectiveLevel() != level {
			return fmt.Errorf("%w: %q and %q", ErrCorrLevel, c.A, c.B)
		}
	}

	k := len(names)
	data := make([]float64, k*k)
	for i := 0; i < k; i++ {
		data[i*k+i] = 1
	}
	for _, c := range cors {
		i, j := index[c.A], index[c.B]
		data[i*k+j] = c.R
		data[j*k+i] = c.R
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(mat.NewSymDense(k, data)); !ok {
		return ErrCorrNotPD
	}

	n := len(baseByName[names[0]].unique.Values)
	Z := mat.NewDense(n, k, nil)
	means := make([]float64, k)
	sds := make([]float64, k)
	for j, name := range names {
		x := baseByName[name].unique.Values
		m := stat.Mean(x, nil)
		sd := stat.StdDev(x, nil)
		if sd == 0 || math.IsNaN(sd) {
			sd = 1
		}
		means[j], sds[j] = m, sd
		for i, v := range x {
			Z.Set(i, j, (v-m)/sd)
		}
	}
	L := mat.NewTriDense(k, mat.Lower, nil)
	chol.LTo(L)
	var W mat.Dense
	W.Mul(Z, L.T())
	for j, name := range names {
		x := baseByName[name].unique.Values
		for i := range x {
			x[i] = means[j] + sds[j]*W.At(i, j)
		}
	}
	return nil
}

// contrastFor picks the coding for one factor term.
func contrastFor(opts Options, name string) Contrast {
	if opts.Contrasts == nil {
		return Treatment
	}
	return opts.Contrasts[name]
}

// contrastCols expands a factor term into k-1 coded columns against the
// first declared label as reference.
func contrastCols(t Term, b *baseColumn, coding Contrast) []colRef {
	labels := t.Var.Labels
	refs := make([]colRef, 0, len(labels)-1)
	for j := 1; j < len(labels); j++ {
		code := float64(j + 1)
		vals := make([]float64, len(b.values))
		for i, v := range b.values {
			switch {
			case v == code:
				vals[i] = 1
			case coding == Sum && v == 1:
				vals[i] = -1
			}
		}
		refs = append(refs, colRef{name: t.Name + "_" + labels[j], vals: vals})
	}
	return refs
}

// interactionCols crosses the expanded column sets of the base terms
// into elementwise products.
func interactionCols(t Term, expanded map[string][]colRef) ([]colRef, error) {
	var acc []colRef
	for _, baseName := range t.Bases {
		baseCols, ok := expanded[baseName]
		if !ok {
			return nil, fmt.Errorf("%w: %q wants %q", ErrUnknownBase, t.Name, baseName)
		}
		if acc == nil {
			acc = make([]colRef, len(baseCols))
			for i, c := range baseCols {
				vals := make([]float64, len(c.vals))
				copy(vals, c.vals)
				acc[i] = colRef{name: c.name, vals: vals}
			}
			continue
		}
		next := make([]colRef, 0, len(acc)*len(baseCols))
		for _, a := range acc {
			for _, c := range baseCols {
				vals := make([]float64, len(a.vals))
				for i := range vals {
					vals[i] = a.vals[i] * c.vals[i]
				}
				next = append(next, colRef{name: a.name + ":" + c.name, vals: vals})
			}
		}
		acc = next
	}
	return acc, nil
}

// originalFrame collects every variable term's pre-expansion column when
// any categorical term is present.
func originalFrame(terms []Term, baseByName map[string]*baseColumn) *Frame {
	categorical := false
	for _, t := range terms {
		if t.Var.Kind == variate.Ordinal || t.Var.Kind == variate.Factor {
			categorical = true
			break
		}
	}
	if !categorical {
		return nil
	}
	f := &Frame{Labels: make(map[string][]string)}
	for _, t := range terms {
		b, ok := baseByName[t.Name]
		if !ok {
			continue // interactions carry no original values
		}
		f.Names = append(f.Names, t.Name)
		f.Columns = append(f.Columns, b.values)
		if b.labels != nil {
			f.Labels[t.Name] = b.labels
		}
	}
	return f
}
