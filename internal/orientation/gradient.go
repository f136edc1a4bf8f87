package orientation

import (
	"math"

	"github.com/pkg/errors"

	"sift-scalespace/internal/image"
)

// GradientRule selects how finite differences treat their "before" sample.
type GradientRule int

const (
	// GradientFixedOrigin takes the difference between the next pixel and
	// pixel 0 of the row (or column), or pixel 1 when at index 0. At the
	// last index the current pixel is the "after" sample.
	GradientFixedOrigin GradientRule = iota
	// GradientCentral takes the clamped central difference f(i+1) - f(i-1).
	GradientCentral
)

func (r GradientRule) String() string {
	switch r {
	case GradientFixedOrigin:
		return "fixed-origin"
	case GradientCentral:
		return "central"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r GradientRule) MarshalText() ([]byte, error) {
	if r != GradientFixedOrigin && r != GradientCentral {
		return nil, errors.Errorf("unknown gradient rule %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *GradientRule) UnmarshalText(text []byte) error {
	switch string(text) {
	case "fixed-origin":
		*r = GradientFixedOrigin
	case "central":
		*r = GradientCentral
	default:
		return errors.Errorf("unknown gradient rule %q", text)
	}
	return nil
}

// neighbours returns the (before, after) indices for position i on an axis of length n.
func (r GradientRule) neighbours(i, n int) (before, after int) {
	if r == GradientCentral {
		return image.Clamp(i-1, n), image.Clamp(i+1, n)
	}
	after = i
	if i < n-1 {
		after = i + 1
	}
	before = 1
	if i > 0 {
		before = 0
	}
	return image.Clamp(before, n), after
}

// DeltaX is the column-direction difference at (row, col).
func DeltaX(img *image.Image, row, col int, rule GradientRule) float64 {
	before, after := rule.neighbours(col, img.Cols())
	return img.At(row, after) - img.At(row, before)
}

// DeltaY is the row-direction difference at (row, col).
func DeltaY(img *image.Image, row, col int, rule GradientRule) float64 {
	before, after := rule.neighbours(row, img.Rows())
	return img.At(after, col) - img.At(before, col)
}

// Angle converts a gradient to degrees in [0, 359].
//
// With dx == 0 the angle is 90 for dy >= 0 and 270 otherwise. Else
// atan(dy/dx) in degrees is shifted from [-90, 90] to [0, 180], moved a
// further 180 when dy/dx is negative, and clamped to [0, 359].
func Angle(dx, dy float64) float64 {
	if dx == 0 {
		if dy >= 0 {
			return 90
		}
		return 270
	}
	ratio := dy / dx
	angle := math.Atan(ratio) * 180 / math.Pi
	angle = math.Max(-90, math.Min(angle, 90)) + 90
	if ratio < 0 {
		angle += 180
	}
	return math.Max(0, math.Min(angle, 359))
}

// Gradients holds the lazily evaluated derivative fields of one DoG level.
type Gradients struct {
	Dx        *Field
	Dy        *Field
	Magnitude *Field
	Angle     *Field
}

// NewGradients prepares the fields of img. Nothing is computed until read.
func NewGradients(img *image.Image, rule GradientRule) *Gradients {
	rows, cols := img.Rows(), img.Cols()
	g := &Gradients{}
	g.Dx = NewField(rows, cols, func(r, c int) float64 { return DeltaX(img, r, c, rule) })
	g.Dy = NewField(rows, cols, func(r, c int) float64 { return DeltaY(img, r, c, rule) })
	g.Magnitude = NewField(rows, cols, func(r, c int) float64 {
		return math.Hypot(g.Dx.At(r, c), g.Dy.At(r, c))
	})
	g.Angle = NewField(rows, cols, func(r, c int) float64 {
		return Angle(g.Dx.At(r, c), g.Dy.At(r, c))
	})
	return g
}
