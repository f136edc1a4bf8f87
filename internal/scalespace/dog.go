package scalespace

import (
	"github.com/pkg/errors"

	"sift-scalespace/internal/image"
)

// BuildDoGPyramid derives the difference-of-Gaussian pyramid: per octave,
// DoG[i] = level[i+1] - level[i], giving one level fewer than the input octave.
func BuildDoGPyramid(gauss Pyramid) (Pyramid, error) {
	dogs := make(Pyramid, len(gauss))
	for o, octave := range gauss {
		if len(octave) < 2 {
			return nil, errors.Wrapf(ErrInvalidParams, "octave %d has %d levels", o, len(octave))
		}
		dogs[o] = make(Octave, len(octave)-1)
		for i := 0; i+1 < len(octave); i++ {
			d, err := image.Sub(octave[i+1], octave[i])
			if err != nil {
				return nil, errors.Wrapf(err, "dog octave %d level %d", o, i)
			}
			dogs[o][i] = d
		}
	}
	return dogs, nil
}
