package sim

import "fmt"

// Dataset is the assembled row-per-observation table: named columns in
// attachment order, never mutated after return. Numeric columns hold
// float64 values; id columns hold ints; factor columns carry a parallel
// label slice next to their numeric level codes.
type Dataset struct {
	rows   int
	names  []string
	index  map[string]int
	floats [][]float64
	ints   [][]int
	labels [][]string
}

func newDataset(rows int) *Dataset {
	return &Dataset{rows: rows, index: make(map[string]int)}
}

// Rows reports the number of observations.
func (d *Dataset) Rows() int { return d.rows }

// Columns lists the column names in attachment order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Has reports whether the named column exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Float returns the named numeric column.
func (d *Dataset) Float(name string) ([]float64, bool) {
	i, ok := d.index[name]
	if !ok || d.floats[i] == nil {
		return nil, false
	}
	return d.floats[i], true
}

// Int returns the named id column.
func (d *Dataset) Int(name string) ([]int, bool) {
	i, ok := d.index[name]
	if !ok || d.ints[i] == nil {
		return nil, false
	}
	return d.ints[i], true
}

// Labels returns the named column's factor labels.
func (d *Dataset) Labels(name string) ([]string, bool) {
	i, ok := d.index[name]
	if !ok || d.labels[i] == nil {
		return nil, false
	}
	return d.labels[i], true
}

// Response returns the simulated response column.
func (d *Dataset) Response() []float64 {
	v, _ := d.Float(ColResponse)
	return v
}

func (d *Dataset) add(name string, f []float64, n []int, l []string) error {
	if _, ok := d.index[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	d.index[name] = len(d.names)
	d.names = append(d.names, name)
	d.floats = append(d.floats, f)
	d.ints = append(d.ints, n)
	d.labels = append(d.labels, l)
	return nil
}

func (d *Dataset) addFloat(name string, vals []float64) error {
	return d.add(name, vals, nil, nil)
}

func (d *Dataset) addInt(name string, vals []int) error {
	return d.add(name, nil, vals, nil)
}

func (d *Dataset) addLabeled(name string, codes []float64, labels []string) error {
	return d.add(name, codes, nil, labels)
}
