package scalespace

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sift-scalespace/internal/image"
)

func checkerboard(t *testing.T, rows, cols int) *image.Image {
	t.Helper()
	img, err := image.Generate(rows, cols, func(r, c int) float64 {
		return math.Sin(float64(r)*0.3) * math.Cos(float64(c)*0.2)
	})
	require.NoError(t, err)
	return img
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
	assert.Equal(t, 5, p.OctaveSize)
	assert.InDelta(t, 1/math.Sqrt2, p.Sigma0, 1e-15)
	assert.InDelta(t, 2*p.Sigma0, p.LevelSigma(2), 1e-12)
	assert.InDelta(t, 4*p.Sigma0, p.OctaveSigma(2), 1e-15)
}

func TestParamsValidate(t *testing.T) {
	base := DefaultParams()
	bad := []Params{
		base.WithOctaveSize(2),
		base.WithSigma(0, 2),
		base.WithSigma(1, 1),
		base.WithKernelSize(8),
		base.WithKernelSize(0),
	}
	for _, p := range bad {
		assert.True(t, errors.Is(p.Validate(), ErrInvalidParams), "%+v", p)
	}
}

func TestMaxOctaves(t *testing.T) {
	assert.Equal(t, 7, MaxOctaves(64, 64))
	assert.Equal(t, 3, MaxOctaves(4, 100))
	assert.Equal(t, 1, MaxOctaves(1, 1))
	assert.Equal(t, 0, MaxOctaves(0, 10))
}

func TestBuildGaussianPyramidShape(t *testing.T) {
	params := DefaultParams()
	img := checkerboard(t, 65, 50)

	pyr, err := BuildGaussianPyramid(img, 3, params, nil)
	require.NoError(t, err)
	require.Len(t, pyr, 3)

	wantRows := []int{65, 32, 16}
	wantCols := []int{50, 25, 12}
	for o, octave := range pyr {
		require.Len(t, octave, params.OctaveSize, "octave %d", o)
		for _, level := range octave {
			assert.Equal(t, wantRows[o], level.Rows(), "octave %d rows", o)
			assert.Equal(t, wantCols[o], level.Cols(), "octave %d cols", o)
		}
	}
}

func TestBuildGaussianPyramidLevels(t *testing.T) {
	params := DefaultParams()
	img := checkerboard(t, 32, 32)

	pyr, err := BuildGaussianPyramid(img, 2, params, nil)
	require.NoError(t, err)

	// Each level is blurred from the octave base, not from the previous level.
	for s := 0; s < params.OctaveSize; s++ {
		want, err := image.GaussianBlur(img, params.KernelSize, params.LevelSigma(s))
		require.NoError(t, err)
		assert.Equal(t, want.At(7, 9), pyr[0][s].At(7, 9), "level %d", s)
	}

	// Octave 1 starts from level S-3 of octave 0, halved.
	base, err := image.Downsample(pyr[0][params.OctaveSize-3])
	require.NoError(t, err)
	want, err := image.GaussianBlur(base, params.KernelSize, params.Sigma0)
	require.NoError(t, err)
	assert.Equal(t, want.At(3, 5), pyr[1][0].At(3, 5))
}

func TestBuildGaussianPyramidUsesBlurrer(t *testing.T) {
	params := DefaultParams()
	img := checkerboard(t, 16, 16)

	var sigmas []float64
	blurrer := BlurFunc(func(src *image.Image, size int, sigma float64) (*image.Image, error) {
		assert.Equal(t, params.KernelSize, size)
		sigmas = append(sigmas, sigma)
		return src, nil
	})

	_, err := BuildGaussianPyramid(img, 2, params, blurrer)
	require.NoError(t, err)
	require.Len(t, sigmas, 2*params.OctaveSize)
	for i := 1; i < params.OctaveSize; i++ {
		assert.Greater(t, sigmas[i], sigmas[i-1])
	}
	assert.Equal(t, sigmas[:params.OctaveSize], sigmas[params.OctaveSize:])
}

func TestBuildGaussianPyramidTooSmall(t *testing.T) {
	img := checkerboard(t, 4, 4)

	_, err := BuildGaussianPyramid(img, 3, DefaultParams(), nil)
	require.NoError(t, err)

	_, err = BuildGaussianPyramid(img, 4, DefaultParams(), nil)
	assert.True(t, errors.Is(err, image.ErrDimension))

	_, err = BuildGaussianPyramid(img, 0, DefaultParams(), nil)
	assert.True(t, errors.Is(err, ErrInvalidParams))
}

func TestBuildDoGPyramid(t *testing.T) {
	params := DefaultParams()
	gauss, err := BuildGaussianPyramid(checkerboard(t, 40, 30), 3, params, nil)
	require.NoError(t, err)

	dogs, err := BuildDoGPyramid(gauss)
	require.NoError(t, err)
	require.Len(t, dogs, len(gauss))

	for o := range dogs {
		require.Len(t, dogs[o], params.OctaveSize-1)
		for i, d := range dogs[o] {
			lower, upper := gauss[o][i], gauss[o][i+1]
			require.True(t, d.SameSize(lower))
			for r := 0; r < d.Rows(); r++ {
				for c := 0; c < d.Cols(); c++ {
					assert.InDelta(t, upper.At(r, c)-lower.At(r, c), d.At(r, c), 1e-12)
				}
			}
		}
	}
}

func TestPyramidLevel(t *testing.T) {
	gauss, err := BuildGaussianPyramid(checkerboard(t, 16, 16), 2, DefaultParams(), nil)
	require.NoError(t, err)

	lvl, err := gauss.Level(1, 4)
	require.NoError(t, err)
	assert.Equal(t, 8, lvl.Rows())

	_, err = gauss.Level(2, 0)
	assert.True(t, errors.Is(err, image.ErrOutOfBounds))
	_, err = gauss.Level(0, 5)
	assert.True(t, errors.Is(err, image.ErrOutOfBounds))
}
