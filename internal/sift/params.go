package sift

import (
	"github.com/pkg/errors"

	"sift-scalespace/internal/keypoint"
	"sift-scalespace/internal/orientation"
	"sift-scalespace/internal/scalespace"
)

// Params aggregates the settings of every pipeline stage.
type Params struct {
	// Octaves is the number of octaves to build. Zero picks the largest
	// count the input supports.
	Octaves     int                  `json:"octaves"`
	Scale       scalespace.Params    `json:"scale"`
	Prune       keypoint.PruneParams `json:"prune"`
	Orientation orientation.Params   `json:"orientation"`
}

// DefaultParams returns four octaves with the default stage settings.
func DefaultParams() Params {
	return Params{
		Octaves:     4,
		Scale:       scalespace.DefaultParams(),
		Prune:       keypoint.DefaultPruneParams(),
		Orientation: orientation.DefaultParams(),
	}
}

// Validate checks the settings that every run depends on.
func (p Params) Validate() error {
	if p.Octaves < 0 {
		return errors.Wrapf(scalespace.ErrInvalidParams, "octave count %d", p.Octaves)
	}
	if err := p.Scale.Validate(); err != nil {
		return err
	}
	if p.Prune.CurvatureThreshold <= 0 {
		return errors.Wrapf(scalespace.ErrInvalidParams, "curvature threshold %g", p.Prune.CurvatureThreshold)
	}
	if p.Orientation.MinWindow < 1 {
		return errors.Wrapf(scalespace.ErrInvalidParams, "minimum window %g", p.Orientation.MinWindow)
	}
	return nil
}
