// Package image provides the floating-point image type the scale-space
// pipeline works on, its primitive operations, and file decoding.
package image

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Image is an immutable 2-D grid of float64 intensity samples.
// Rows and columns are zero-based with the origin at the top-left pixel.
type Image struct {
	m *mat.Dense
}

// New creates an image from row-major data. The data is copied.
func New(rows, cols int, data []float64) (*Image, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrDimension, "new image %dx%d", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, errors.Wrapf(ErrDimension, "new image %dx%d: have %d samples", rows, cols, len(data))
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return &Image{m: mat.NewDense(rows, cols, buf)}, nil
}

// Generate creates an image whose pixel (row, col) is f(row, col).
func Generate(rows, cols int, f func(row, col int) float64) (*Image, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrDimension, "generate image %dx%d", rows, cols)
	}
	buf := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			buf[r*cols+c] = f(r, c)
		}
	}
	return &Image{m: mat.NewDense(rows, cols, buf)}, nil
}

// Constant creates an image filled with v.
func Constant(rows, cols int, v float64) (*Image, error) {
	return Generate(rows, cols, func(int, int) float64 { return v })
}

// fromDense wraps a matrix the caller will no longer mutate.
func fromDense(m *mat.Dense) *Image {
	return &Image{m: m}
}

// Rows returns the number of rows.
func (img *Image) Rows() int {
	r, _ := img.m.Dims()
	return r
}

// Cols returns the number of columns.
func (img *Image) Cols() int {
	_, c := img.m.Dims()
	return c
}

// At returns the sample at (row, col). It panics when the position is
// outside the image; use Sample for a checked read.
func (img *Image) At(row, col int) float64 {
	return img.m.At(row, col)
}

// Sample returns the sample at (row, col) or ErrOutOfBounds.
func (img *Image) Sample(row, col int) (float64, error) {
	if !img.InBounds(row, col) {
		return 0, errors.Wrapf(ErrOutOfBounds, "sample (%d,%d) in %dx%d image", row, col, img.Rows(), img.Cols())
	}
	return img.m.At(row, col), nil
}

// InBounds reports whether (row, col) addresses a pixel of the image.
func (img *Image) InBounds(row, col int) bool {
	r, c := img.m.Dims()
	return row >= 0 && row < r && col >= 0 && col < c
}

// SameSize reports whether both images have identical dimensions.
func (img *Image) SameSize(other *Image) bool {
	r1, c1 := img.m.Dims()
	r2, c2 := other.m.Dims()
	return r1 == r2 && c1 == c2
}

// Row returns a copy of one image row.
func (img *Image) Row(row int) []float64 {
	return mat.Row(nil, row, img.m)
}

// Bounds returns the minimum and maximum sample values.
func (img *Image) Bounds() (lo, hi float64) {
	return mat.Min(img.m), mat.Max(img.m)
}
