// Package scalespace builds the Gaussian and difference-of-Gaussian
// pyramids that keypoint detection searches.
package scalespace

import (
	"github.com/pkg/errors"

	"sift-scalespace/internal/image"
)

// Octave is an ordered set of same-resolution levels, index 0 least blurred.
type Octave []*image.Image

// Pyramid is an ordered set of octaves, each half the resolution of the previous.
type Pyramid []Octave

// Level returns level l of octave o, or image.ErrOutOfBounds.
func (p Pyramid) Level(o, l int) (*image.Image, error) {
	if o < 0 || o >= len(p) {
		return nil, errors.Wrapf(image.ErrOutOfBounds, "octave %d of %d", o, len(p))
	}
	if l < 0 || l >= len(p[o]) {
		return nil, errors.Wrapf(image.ErrOutOfBounds, "level %d of %d in octave %d", l, len(p[o]), o)
	}
	return p[o][l], nil
}

// Blurrer applies a size x size Gaussian blur of the given sigma.
type Blurrer interface {
	Blur(src *image.Image, size int, sigma float64) (*image.Image, error)
}

// BlurFunc adapts a function to the Blurrer interface.
type BlurFunc func(src *image.Image, size int, sigma float64) (*image.Image, error)

// Blur calls f(src, size, sigma).
func (f BlurFunc) Blur(src *image.Image, size int, sigma float64) (*image.Image, error) {
	return f(src, size, sigma)
}

// DefaultBlurrer is the pure Go separable Gaussian blur.
var DefaultBlurrer Blurrer = BlurFunc(image.GaussianBlur)

// BuildGaussianPyramid builds nOctaves octaves of params.OctaveSize levels.
//
// Every level of an octave is blurred directly from the octave base with
// sigma Sigma0*K^i. The base of octave k+1 is level S-3 of octave k with
// every second row and column kept. The caller must pass an image large
// enough for nOctaves-1 halvings; image.ErrDimension is returned otherwise.
func BuildGaussianPyramid(img *image.Image, nOctaves int, params Params, blurrer Blurrer) (Pyramid, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if nOctaves < 1 {
		return nil, errors.Wrapf(ErrInvalidParams, "octave count %d", nOctaves)
	}
	if blurrer == nil {
		blurrer = DefaultBlurrer
	}

	pyr := make(Pyramid, nOctaves)
	base := img
	for o := 0; o < nOctaves; o++ {
		octave := make(Octave, params.OctaveSize)
		for s := range octave {
			level, err := blurrer.Blur(base, params.KernelSize, params.LevelSigma(s))
			if err != nil {
				return nil, errors.Wrapf(err, "blur octave %d level %d", o, s)
			}
			octave[s] = level
		}
		pyr[o] = octave

		if o == nOctaves-1 {
			break
		}
		next, err := image.Downsample(octave[params.OctaveSize-3])
		if err != nil {
			return nil, errors.Wrapf(err, "base of octave %d", o+1)
		}
		base = next
	}
	return pyr, nil
}
