package keypoint

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sift-scalespace/internal/image"
	"sift-scalespace/internal/scalespace"
)

func randomOctave(t *testing.T, rng *rand.Rand, levels, rows, cols int) scalespace.Octave {
	t.Helper()
	octave := make(scalespace.Octave, levels)
	for i := range octave {
		img, err := image.Generate(rows, cols, func(int, int) float64 { return rng.Float64()*2 - 1 })
		require.NoError(t, err)
		octave[i] = img
	}
	return octave
}

func constantOctave(t *testing.T, levels, rows, cols int, v float64) scalespace.Octave {
	t.Helper()
	octave := make(scalespace.Octave, levels)
	for i := range octave {
		img, err := image.Constant(rows, cols, v)
		require.NoError(t, err)
		octave[i] = img
	}
	return octave
}

// bruteForceExtremum compares against all 26 neighbours without shortcuts.
func bruteForceExtremum(octave scalespace.Octave, level, row, col int) bool {
	v := octave[level].At(row, col)
	greater, less := 0, 0
	for l := level - 1; l <= level+1; l++ {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if l == level && dr == 0 && dc == 0 {
					continue
				}
				n := octave[l].At(row+dr, col+dc)
				if v > n {
					greater++
				}
				if v < n {
					less++
				}
			}
		}
	}
	return greater == 26 || less == 26
}

func TestDetectMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	dogs := scalespace.Pyramid{
		randomOctave(t, rng, 4, 20, 17),
		randomOctave(t, rng, 4, 10, 8),
	}
	params := scalespace.DefaultParams()

	kps, err := NewDetector(params, zerolog.Nop()).Detect(dogs)
	require.NoError(t, err)
	require.NotEmpty(t, kps)

	reported := map[KeyPoint]bool{}
	for _, kp := range kps {
		reported[kp] = true
		dog := dogs[kp.Octave][kp.Level]

		assert.GreaterOrEqual(t, kp.Level, 1)
		assert.LessOrEqual(t, kp.Level, len(dogs[kp.Octave])-2)
		assert.True(t, kp.Row >= 1 && kp.Row <= dog.Rows()-2, "border row %d", kp.Row)
		assert.True(t, kp.Col >= 1 && kp.Col <= dog.Cols()-2, "border col %d", kp.Col)
		assert.True(t, bruteForceExtremum(dogs[kp.Octave], kp.Level, kp.Row, kp.Col))
		assert.Equal(t, dog.At(kp.Row, kp.Col), kp.Response)
		assert.Equal(t, params.OctaveSigma(kp.Octave), kp.Scale)
	}

	// Nothing missed.
	missed := 0
	for o, octave := range dogs {
		for l := 1; l < len(octave)-1; l++ {
			for r := 1; r < octave[l].Rows()-1; r++ {
				for c := 1; c < octave[l].Cols()-1; c++ {
					if !bruteForceExtremum(octave, l, r, c) {
						continue
					}
					kp := KeyPoint{Row: r, Col: c, Scale: params.OctaveSigma(o), Octave: o, Level: l, Response: octave[l].At(r, c)}
					if !reported[kp] {
						missed++
					}
				}
			}
		}
	}
	assert.Zero(t, missed)
}

func TestDetectOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	dogs := scalespace.Pyramid{randomOctave(t, rng, 5, 12, 12)}

	kps, err := NewDetector(scalespace.DefaultParams(), zerolog.Nop()).Detect(dogs)
	require.NoError(t, err)
	for i := 1; i < len(kps); i++ {
		prev, cur := kps[i-1], kps[i]
		key := func(k KeyPoint) int { return (k.Octave*100+k.Level)*10000 + k.Row*100 + k.Col }
		assert.Less(t, key(prev), key(cur))
	}
}

func TestDetectConstantHasNoExtrema(t *testing.T) {
	dogs := scalespace.Pyramid{constantOctave(t, 4, 9, 9, 0.5)}
	kps, err := NewDetector(scalespace.DefaultParams(), zerolog.Nop()).Detect(dogs)
	require.NoError(t, err)
	assert.Empty(t, kps)
}

func TestIsExtremumTies(t *testing.T) {
	octave := constantOctave(t, 3, 3, 3, 0)
	peak, err := image.Generate(3, 3, func(r, c int) float64 {
		if r == 1 && c == 1 {
			return 1
		}
		return 0
	})
	require.NoError(t, err)

	assert.True(t, IsExtremum(octave[0], peak, octave[2], 1, 1))

	// A single equal neighbour in an adjacent level breaks strictness.
	tie, err := image.Generate(3, 3, func(r, c int) float64 {
		if r == 0 && c == 2 {
			return 1
		}
		return 0
	})
	require.NoError(t, err)
	assert.False(t, IsExtremum(octave[0], peak, tie, 1, 1))

	// Strict minimum.
	pit, err := image.Generate(3, 3, func(r, c int) float64 {
		if r == 1 && c == 1 {
			return -1
		}
		return 0
	})
	require.NoError(t, err)
	assert.True(t, IsExtremum(octave[0], pit, octave[2], 1, 1))
}

func TestDetectTooFewLevels(t *testing.T) {
	dogs := scalespace.Pyramid{constantOctave(t, 2, 5, 5, 0)}
	kps, err := NewDetector(scalespace.DefaultParams(), zerolog.Nop()).Detect(dogs)
	require.NoError(t, err)
	assert.Empty(t, kps)
}

func TestDetectSizeMismatch(t *testing.T) {
	octave := constantOctave(t, 3, 5, 5, 0)
	small, err := image.Constant(4, 5, 0)
	require.NoError(t, err)
	octave[2] = small

	_, err = NewDetector(scalespace.DefaultParams(), zerolog.Nop()).Detect(scalespace.Pyramid{octave})
	assert.ErrorIs(t, err, image.ErrDimension)
}

func paraboloid(t *testing.T, a, b float64) *image.Image {
	t.Helper()
	img, err := image.Generate(5, 5, func(r, c int) float64 {
		y, x := float64(r-2), float64(c-2)
		return a*x*x + b*y*y
	})
	require.NoError(t, err)
	return img
}

func TestCurvatureRatio(t *testing.T) {
	// dxx = 2a, dyy = 2b, dxy = 0 -> (2a+2b)^2 / (4ab).
	assert.InDelta(t, 4.0, CurvatureRatio(paraboloid(t, 1, 1), 2, 2), 1e-9)
	assert.InDelta(t, 121.0/10, CurvatureRatio(paraboloid(t, 10, 1), 2, 2), 1e-9)
	assert.True(t, math.IsInf(CurvatureRatio(paraboloid(t, 1, -1), 2, 2), 1))
	assert.True(t, math.IsInf(CurvatureRatio(paraboloid(t, 0, 0), 2, 2), 1))
}

func TestPrune(t *testing.T) {
	round := paraboloid(t, -1, -1)
	edge := paraboloid(t, -20, -1)
	dogs := scalespace.Pyramid{{round, round, edge, round}}

	kps := []KeyPoint{
		{Row: 2, Col: 2, Level: 1, Response: -0.5},
		{Row: 2, Col: 2, Level: 2, Response: 0.9},
		{Row: 2, Col: 2, Level: 1, Response: 0.01},
		{Row: 0, Col: 2, Level: 1},
		{Row: 2, Col: 2, Level: 7},
		{Row: 2, Col: 2, Octave: 3, Level: 1},
		{Row: 2, Col: 2, Level: 1, Response: 0.2},
	}

	params := DefaultPruneParams()
	kept, stats := NewPruner(params, zerolog.Nop()).Prune(dogs, kps)
	assert.Equal(t, []KeyPoint{kps[0], kps[2], kps[6]}, kept)
	assert.Equal(t, PruneStats{Edge: 1, Malformed: 3}, stats)
	assert.Equal(t, 4, stats.Rejected())

	for _, kp := range kept {
		assert.LessOrEqual(t, CurvatureRatio(dogs[kp.Octave][kp.Level], kp.Row, kp.Col), params.CurvatureThreshold)
	}

	// Input is not modified.
	assert.Equal(t, 0.9, kps[1].Response)
	assert.Len(t, kps, 7)
}

func TestPruneContrast(t *testing.T) {
	round := paraboloid(t, -1, -1)
	dogs := scalespace.Pyramid{{round, round, round}}
	kps := []KeyPoint{
		{Row: 2, Col: 2, Level: 1, Response: 0.01},
		{Row: 2, Col: 2, Level: 1, Response: -0.05},
	}

	kept, stats := NewPruner(DefaultPruneParams(), zerolog.Nop()).Prune(dogs, kps)
	assert.Len(t, kept, 2, "contrast test is off by default")
	assert.Zero(t, stats.Rejected())

	params := DefaultPruneParams().WithContrast(true, 0.03)
	kept, stats = NewPruner(params, zerolog.Nop()).Prune(dogs, kps)
	assert.Equal(t, []KeyPoint{kps[1]}, kept)
	assert.Equal(t, 1, stats.LowContrast)
}

func TestWithEdgeRatio(t *testing.T) {
	assert.InDelta(t, DefaultPruneParams().CurvatureThreshold, PruneParams{}.WithEdgeRatio(10).CurvatureThreshold, 1e-12)
	assert.InDelta(t, 4.0, PruneParams{}.WithEdgeRatio(1).CurvatureThreshold, 1e-12)
}

func TestBasePosition(t *testing.T) {
	kp := KeyPoint{Row: 3, Col: 5, Octave: 2}
	assert.Equal(t, 5, kp.Position().X)
	assert.Equal(t, 3, kp.Position().Y)
	p := kp.BasePosition()
	assert.Equal(t, 20.0, p.X)
	assert.Equal(t, 12.0, p.Y)
}
