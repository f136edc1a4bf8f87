package keypoint

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"sift-scalespace/internal/image"
	"sift-scalespace/internal/scalespace"
)

// Detector scans a DoG pyramid for strict 3x3x3 space-scale extrema.
type Detector struct {
	params scalespace.Params
	log    zerolog.Logger
}

// NewDetector creates a detector. The params supply the per-octave keypoint scale.
func NewDetector(params scalespace.Params, log zerolog.Logger) *Detector {
	return &Detector{params: params, log: log}
}

// Detect returns every pixel of every interior DoG level that is strictly
// greater or strictly less than all 26 of its neighbours. Border pixels and
// the first and last level of each octave are never candidates.
func (d *Detector) Detect(dogs scalespace.Pyramid) ([]KeyPoint, error) {
	var kps []KeyPoint
	for o, octave := range dogs {
		scale := d.params.OctaveSigma(o)
		found := 0
		for i := 1; i+1 < len(octave); i++ {
			below, cur, above := octave[i-1], octave[i], octave[i+1]
			if !cur.SameSize(below) || !cur.SameSize(above) {
				return nil, errors.Wrapf(image.ErrDimension, "octave %d levels %d..%d differ in size", o, i-1, i+1)
			}
			for r := 1; r < cur.Rows()-1; r++ {
				for c := 1; c < cur.Cols()-1; c++ {
					if !IsExtremum(below, cur, above, r, c) {
						continue
					}
					kps = append(kps, KeyPoint{
						Row:      r,
						Col:      c,
						Scale:    scale,
						Octave:   o,
						Level:    i,
						Response: cur.At(r, c),
					})
					found++
				}
			}
		}
		d.log.Debug().Int("octave", o).Int("extrema", found).Msg("scanned octave")
	}
	return kps, nil
}

// IsExtremum reports whether cur(row, col) is strictly above or strictly
// below all 26 neighbours in the 3x3 windows of below, cur and above.
// Any tie disqualifies the point. (row, col) must not be a border pixel.
func IsExtremum(below, cur, above *image.Image, row, col int) bool {
	v := cur.At(row, col)
	isMax, isMin := true, true
	for _, level := range [3]*image.Image{below, cur, above} {
		for r := row - 1; r <= row+1; r++ {
			for c := col - 1; c <= col+1; c++ {
				if level == cur && r == row && c == col {
					continue
				}
				n := level.At(r, c)
				if v <= n {
					isMax = false
				}
				if v >= n {
					isMin = false
				}
				if !isMax && !isMin {
					return false
				}
			}
		}
	}
	return isMax || isMin
}
