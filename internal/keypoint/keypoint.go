// Package keypoint finds scale-space extrema in a difference-of-Gaussian
// pyramid and prunes unstable candidates.
package keypoint

import (
	"math"

	"sift-scalespace/pkg/geometry"
)

// KeyPoint is a scale-space extremum. Row and Col are in the pixel grid of
// its own octave; Level indexes the DoG level it was found on.
type KeyPoint struct {
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	Scale    float64 `json:"scale"`
	Octave   int     `json:"octave"`
	Level    int     `json:"level"`
	Response float64 `json:"response"`
}

// Position returns the keypoint location in its octave (X is the column).
func (kp KeyPoint) Position() geometry.PointInt {
	return geometry.PointInt{X: kp.Col, Y: kp.Row}
}

// BasePosition maps the keypoint location to octave 0 coordinates.
func (kp KeyPoint) BasePosition() geometry.Point2D {
	return kp.Position().ToFloat().Scale(math.Ldexp(1, kp.Octave))
}
