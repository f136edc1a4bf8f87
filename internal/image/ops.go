package image

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Sub returns a - b pointwise.
func Sub(a, b *Image) (*Image, error) {
	if !a.SameSize(b) {
		return nil, errors.Wrapf(ErrDimension, "subtract %dx%d from %dx%d", b.Rows(), b.Cols(), a.Rows(), a.Cols())
	}
	var out mat.Dense
	out.Sub(a.m, b.m)
	return fromDense(&out), nil
}

// Downsample halves an image by keeping every second row and column,
// starting at (0,0). The result has floor(rows/2) x floor(cols/2) pixels.
func Downsample(img *Image) (*Image, error) {
	rows, cols := img.Rows()/2, img.Cols()/2
	if rows == 0 || cols == 0 {
		return nil, errors.Wrapf(ErrDimension, "downsample %dx%d", img.Rows(), img.Cols())
	}
	out := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out.Set(r, c, img.m.At(2*r, 2*c))
		}
	}
	return fromDense(out), nil
}

// Reflect101 maps an out-of-range index back into [0, size) by mirroring
// around the edge pixels without repeating them (gfedcb|abcdefgh|gfedcba).
func Reflect101(index, size int) int {
	if size <= 1 {
		return 0
	}
	period := 2 * (size - 1)
	index %= period
	if index < 0 {
		index += period
	}
	if index >= size {
		index = period - index
	}
	return index
}

// Clamp returns index clamped to [0, size-1].
func Clamp(index, size int) int {
	if index < 0 {
		return 0
	}
	if index >= size {
		return size - 1
	}
	return index
}
