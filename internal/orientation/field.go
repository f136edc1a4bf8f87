// Package orientation accumulates Gaussian-weighted gradient orientation
// histograms around keypoints of a difference-of-Gaussian pyramid.
package orientation

// Field is a per-pixel scalar map evaluated on first access and cached.
// The image the evaluator reads must outlive the Field.
type Field struct {
	rows, cols int
	eval       func(row, col int) float64
	values     []float64
	computed   []bool
}

// NewField creates an empty cache of rows x cols values produced by eval.
func NewField(rows, cols int, eval func(row, col int) float64) *Field {
	return &Field{
		rows:     rows,
		cols:     cols,
		eval:     eval,
		values:   make([]float64, rows*cols),
		computed: make([]bool, rows*cols),
	}
}

// Rows returns the field height.
func (f *Field) Rows() int { return f.rows }

// Cols returns the field width.
func (f *Field) Cols() int { return f.cols }

// At returns the value at (row, col), evaluating it once.
func (f *Field) At(row, col int) float64 {
	i := row*f.cols + col
	if !f.computed[i] {
		f.values[i] = f.eval(row, col)
		f.computed[i] = true
	}
	return f.values[i]
}

// Cached returns how many values have been evaluated so far.
func (f *Field) Cached() int {
	n := 0
	for _, ok := range f.computed {
		if ok {
			n++
		}
	}
	return n
}
