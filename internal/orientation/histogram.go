package orientation

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"sift-scalespace/internal/image"
	"sift-scalespace/internal/keypoint"
	"sift-scalespace/internal/scalespace"
)

const (
	// Bins is the number of orientation bins.
	Bins = 36
	// BinWidth is the angular width of a bin in degrees.
	BinWidth = 360.0 / Bins
)

// Histogram accumulates smoothed gradient magnitude by gradient angle.
type Histogram [Bins]float64

// BinIndex maps an angle in [0, 359] to its bin.
func BinIndex(angle float64) int {
	return int(angle / BinWidth)
}

// BinCenter returns the centre angle of a bin in degrees.
func BinCenter(bin int) float64 {
	return (float64(bin) + 0.5) * BinWidth
}

// Total returns the sum of all bins.
func (h Histogram) Total() float64 {
	return floats.Sum(h[:])
}

// Dominant returns the fullest bin. ok is false for an empty histogram.
func (h Histogram) Dominant() (bin int, ok bool) {
	if h.Total() == 0 {
		return 0, false
	}
	return floats.MaxIdx(h[:]), true
}

// Params configures histogram accumulation.
type Params struct {
	// MinWindow is the smallest neighbourhood side length.
	MinWindow float64 `json:"min_window"`
	// Gradient selects the finite-difference boundary rule.
	Gradient GradientRule `json:"gradient"`
}

// DefaultParams returns a 5-pixel minimum window with the fixed-origin
// gradient rule.
func DefaultParams() Params {
	return Params{
		MinWindow: 5,
		Gradient:  GradientFixedOrigin,
	}
}

// WithGradient returns a copy of params using a different gradient rule.
func (p Params) WithGradient(rule GradientRule) Params {
	p.Gradient = rule
	return p
}

// Builder computes one orientation histogram per keypoint.
type Builder struct {
	params Params
	log    zerolog.Logger
}

// NewBuilder creates a histogram builder.
func NewBuilder(params Params, log zerolog.Logger) *Builder {
	return &Builder{params: params, log: log}
}

type levelKey struct{ octave, level int }

// Build returns one histogram per keypoint, in input order. Gradient fields
// are cached per DoG level for the duration of the call only. A keypoint
// that does not lie inside an existing level fails the whole call with
// image.ErrOutOfBounds.
func (b *Builder) Build(dogs scalespace.Pyramid, kps []keypoint.KeyPoint) ([]Histogram, error) {
	cache := make(map[levelKey]*Gradients)
	hists := make([]Histogram, 0, len(kps))
	for i, kp := range kps {
		dog, err := dogs.Level(kp.Octave, kp.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "keypoint %d", i)
		}
		if !dog.InBounds(kp.Row, kp.Col) {
			return nil, errors.Wrapf(image.ErrOutOfBounds, "keypoint %d at (%d,%d) in %dx%d level",
				i, kp.Row, kp.Col, dog.Rows(), dog.Cols())
		}

		key := levelKey{kp.Octave, kp.Level}
		grads, ok := cache[key]
		if !ok {
			grads = NewGradients(dog, b.params.Gradient)
			cache[key] = grads
		}

		h, err := b.histogram(grads, kp)
		if err != nil {
			return nil, errors.Wrapf(err, "keypoint %d", i)
		}
		hists = append(hists, h)
	}
	b.log.Debug().Int("keypoints", len(kps)).Int("levels", len(cache)).Msg("built orientation histograms")
	return hists, nil
}

func (b *Builder) histogram(g *Gradients, kp keypoint.KeyPoint) (Histogram, error) {
	rows, cols := g.Magnitude.Rows(), g.Magnitude.Cols()
	area := NewNeighbourhood(rows, cols, kp.Row, kp.Col, kp.Scale, b.params.MinWindow)
	weights, err := WeightKernel(area.KernelSize, kp.Scale)
	if err != nil {
		return Histogram{}, err
	}

	var h Histogram
	for i := area.RowStart; i < area.RowEnd; i++ {
		for j := area.ColStart; j < area.ColEnd; j++ {
			h[BinIndex(g.Angle.At(i, j))] += b.smoothedMagnitude(g.Magnitude, weights, i, j, kp.Scale)
		}
	}
	return h, nil
}

// smoothedMagnitude weights the magnitudes of the window re-centred on
// (row, col) by the kernel, anchored at the window's clamped top-left.
func (b *Builder) smoothedMagnitude(mags *Field, weights *mat.Dense, row, col int, scale float64) float64 {
	area := NewNeighbourhood(mags.Rows(), mags.Cols(), row, col, scale, b.params.MinWindow)
	var v float64
	for i := area.RowStart; i < area.RowEnd; i++ {
		for j := area.ColStart; j < area.ColEnd; j++ {
			v += mags.At(i, j) * weights.At(i-area.RowStart, j-area.ColStart)
		}
	}
	return v
}

// WeightKernel returns the size x size outer product of a 1-D Gaussian
// kernel of standard deviation sigma with itself.
func WeightKernel(size int, sigma float64) (*mat.Dense, error) {
	k, err := image.GaussianKernel(size, sigma)
	if err != nil {
		return nil, err
	}
	v := mat.NewVecDense(size, k)
	w := mat.NewDense(size, size, nil)
	w.Outer(1, v, v)
	return w, nil
}
