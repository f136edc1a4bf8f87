package keypoint

import (
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"sift-scalespace/internal/image"
	"sift-scalespace/internal/scalespace"
)

// PruneParams configures candidate rejection.
type PruneParams struct {
	// CurvatureThreshold is the largest accepted trace^2/det of the Hessian.
	CurvatureThreshold float64 `json:"curvature_threshold"`
	// RejectLowContrast enables the |response| contrast test. Off by default.
	RejectLowContrast bool `json:"reject_low_contrast"`
	// ContrastThreshold is the smallest accepted |response| when enabled.
	ContrastThreshold float64 `json:"contrast_threshold"`
}

// DefaultPruneParams returns the edge-ratio threshold (r+1)^2/r for r=10
// with the contrast test disabled.
func DefaultPruneParams() PruneParams {
	const r = 10.0
	return PruneParams{
		CurvatureThreshold: (r + 1) * (r + 1) / r,
		RejectLowContrast:  false,
		ContrastThreshold:  0.03,
	}
}

// WithContrast returns a copy of params with the contrast test set.
func (p PruneParams) WithContrast(enabled bool, threshold float64) PruneParams {
	p.RejectLowContrast = enabled
	p.ContrastThreshold = threshold
	return p
}

// WithEdgeRatio returns a copy of params whose curvature threshold
// corresponds to a principal-curvature ratio r.
func (p PruneParams) WithEdgeRatio(r float64) PruneParams {
	p.CurvatureThreshold = (r + 1) * (r + 1) / r
	return p
}

// PruneStats counts rejected candidates by reason.
type PruneStats struct {
	Edge        int `json:"edge"`
	LowContrast int `json:"low_contrast"`
	Malformed   int `json:"malformed"`
}

// Rejected returns the total number of dropped candidates.
func (s PruneStats) Rejected() int {
	return s.Edge + s.LowContrast + s.Malformed
}

// Pruner drops edge-like and, optionally, low-contrast candidates.
type Pruner struct {
	params PruneParams
	log    zerolog.Logger
}

// NewPruner creates a pruner.
func NewPruner(params PruneParams, log zerolog.Logger) *Pruner {
	return &Pruner{params: params, log: log}
}

// Prune returns the subsequence of kps that pass the tests, in input order.
// Candidates that do not address an interior pixel of an existing DoG level
// are skipped and counted as malformed.
func (p *Pruner) Prune(dogs scalespace.Pyramid, kps []KeyPoint) ([]KeyPoint, PruneStats) {
	var stats PruneStats
	kept := make([]KeyPoint, 0, len(kps))
	for _, kp := range kps {
		dog, err := dogs.Level(kp.Octave, kp.Level)
		if err != nil || !interior(dog, kp.Row, kp.Col) {
			stats.Malformed++
			p.log.Warn().
				Int("octave", kp.Octave).
				Int("level", kp.Level).
				Int("row", kp.Row).
				Int("col", kp.Col).
				Msg("skipping malformed keypoint")
			continue
		}
		if p.params.RejectLowContrast && math.Abs(kp.Response) < p.params.ContrastThreshold {
			stats.LowContrast++
			continue
		}
		if CurvatureRatio(dog, kp.Row, kp.Col) > p.params.CurvatureThreshold {
			stats.Edge++
			continue
		}
		kept = append(kept, kp)
	}
	return kept, stats
}

// CurvatureRatio returns trace^2/det of the 2x2 finite-difference Hessian of
// dog at (row, col), which must be an interior pixel. A non-positive
// determinant (curvatures of opposite sign) yields +Inf.
func CurvatureRatio(dog *image.Image, row, col int) float64 {
	v := dog.At(row, col)
	dxx := dog.At(row, col+1) + dog.At(row, col-1) - 2*v
	dyy := dog.At(row+1, col) + dog.At(row-1, col) - 2*v
	dxy := (dog.At(row+1, col+1) - dog.At(row+1, col-1) -
		dog.At(row-1, col+1) + dog.At(row-1, col-1)) / 4

	h := mat.NewSymDense(2, []float64{dxx, dxy, dxy, dyy})
	det := mat.Det(h)
	if det <= 0 {
		return math.Inf(1)
	}
	tr := mat.Trace(h)
	return tr * tr / det
}

func interior(img *image.Image, row, col int) bool {
	return row >= 1 && row < img.Rows()-1 && col >= 1 && col < img.Cols()-1
}
