package scalespace

import (
	"math"

	"github.com/pkg/errors"
)

// ErrInvalidParams reports scale-space parameters that cannot build a pyramid.
var ErrInvalidParams = errors.New("invalid scale-space parameters")

// Params configures Gaussian pyramid construction.
type Params struct {
	// OctaveSize is the number of blur levels per octave (S).
	OctaveSize int `json:"octave_size"`
	// Sigma0 is the blur of level 0 in every octave.
	Sigma0 float64 `json:"sigma0"`
	// K is the geometric sigma step between adjacent levels.
	K float64 `json:"k"`
	// KernelSize is the side length of the blur kernel; must be odd.
	KernelSize int `json:"kernel_size"`
}

// DefaultParams returns the default pyramid parameters: five levels per
// octave starting at sigma 1/sqrt(2) with a sqrt(2) step and a 9-tap kernel.
func DefaultParams() Params {
	return Params{
		OctaveSize: 5,
		Sigma0:     1 / math.Sqrt2,
		K:          math.Sqrt2,
		KernelSize: 9,
	}
}

// WithOctaveSize returns a copy of params with a different level count.
func (p Params) WithOctaveSize(levels int) Params {
	p.OctaveSize = levels
	return p
}

// WithSigma returns a copy of params with a different base sigma and step.
func (p Params) WithSigma(sigma0, k float64) Params {
	p.Sigma0 = sigma0
	p.K = k
	return p
}

// WithKernelSize returns a copy of params with a different blur kernel size.
func (p Params) WithKernelSize(size int) Params {
	p.KernelSize = size
	return p
}

// Validate checks that the parameters describe a buildable pyramid.
func (p Params) Validate() error {
	// Level S-3 seeds the next octave.
	if p.OctaveSize < 3 {
		return errors.Wrapf(ErrInvalidParams, "octave size %d, need at least 3", p.OctaveSize)
	}
	if p.Sigma0 <= 0 || math.IsNaN(p.Sigma0) {
		return errors.Wrapf(ErrInvalidParams, "sigma0 %v", p.Sigma0)
	}
	if p.K <= 1 || math.IsNaN(p.K) {
		return errors.Wrapf(ErrInvalidParams, "k %v, need > 1", p.K)
	}
	if p.KernelSize <= 0 || p.KernelSize%2 == 0 {
		return errors.Wrapf(ErrInvalidParams, "kernel size %d, need positive odd", p.KernelSize)
	}
	return nil
}

// LevelSigma returns the blur applied to level i of an octave: Sigma0 * K^i.
func (p Params) LevelSigma(level int) float64 {
	return p.Sigma0 * math.Pow(p.K, float64(level))
}

// OctaveSigma returns the keypoint scale used for octave o: Sigma0 * 2^o.
func (p Params) OctaveSigma(octave int) float64 {
	return p.Sigma0 * math.Ldexp(1, octave)
}

// MaxOctaves returns the largest octave count for which every downsample
// keeps at least one row and one column.
func MaxOctaves(rows, cols int) int {
	n := 0
	for rows > 0 && cols > 0 {
		n++
		rows /= 2
		cols /= 2
	}
	return n
}
