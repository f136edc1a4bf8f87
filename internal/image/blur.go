package image

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// GaussianKernel returns a normalized 1-D Gaussian kernel of the given odd
// size. A non-positive sigma is derived from the size as
// 0.3*((size-1)*0.5-1)+0.8, matching the usual OpenCV convention.
func GaussianKernel(size int, sigma float64) ([]float64, error) {
	if size <= 0 || size%2 == 0 {
		return nil, errors.Errorf("gaussian kernel size must be positive and odd, got %d", size)
	}
	if sigma <= 0 {
		sigma = 0.3*(float64(size-1)*0.5-1) + 0.8
	}
	half := size / 2
	kernel := make([]float64, size)
	for i := range kernel {
		x := float64(i - half)
		kernel[i] = math.Exp(-x * x / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)
	return kernel, nil
}

// GaussianBlur convolves the image with a separable size x size Gaussian
// of standard deviation sigma. Borders are handled with Reflect101.
func GaussianBlur(img *Image, size int, sigma float64) (*Image, error) {
	kernel, err := GaussianKernel(size, sigma)
	if err != nil {
		return nil, err
	}
	rows, cols := img.Rows(), img.Cols()
	half := size / 2

	// Horizontal pass.
	tmp := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		src := img.m.RawRowView(r)
		dst := tmp.RawRowView(r)
		for c := 0; c < cols; c++ {
			var sum float64
			for t, w := range kernel {
				sum += w * src[Reflect101(c+t-half, cols)]
			}
			dst[c] = sum
		}
	}

	// Vertical pass.
	out := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		dst := out.RawRowView(r)
		for t, w := range kernel {
			src := tmp.RawRowView(Reflect101(r+t-half, rows))
			for c := 0; c < cols; c++ {
				dst[c] += w * src[c]
			}
		}
	}
	return fromDense(out), nil
}
