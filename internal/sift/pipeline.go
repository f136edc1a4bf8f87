// Package sift runs the scale-space keypoint pipeline: Gaussian pyramid,
// difference-of-Gaussian pyramid, extrema detection, edge pruning and
// orientation histograms.
package sift

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"sift-scalespace/internal/image"
	"sift-scalespace/internal/keypoint"
	"sift-scalespace/internal/orientation"
	"sift-scalespace/internal/scalespace"
)

// Options configures a Pipeline.
type Options struct {
	Params Params
	// Blurrer overrides the Gaussian blur. Nil uses scalespace.DefaultBlurrer.
	Blurrer scalespace.Blurrer
	Logger  zerolog.Logger
}

// DefaultOptions returns default parameters, the pure Go blur and a
// disabled logger.
func DefaultOptions() Options {
	return Options{
		Params: DefaultParams(),
		Logger: zerolog.Nop(),
	}
}

// Result holds every intermediate product of a run.
type Result struct {
	Gaussian   scalespace.Pyramid
	DoG        scalespace.Pyramid
	Candidates []keypoint.KeyPoint
	KeyPoints  []keypoint.KeyPoint
	// Histograms[i] belongs to KeyPoints[i].
	Histograms []orientation.Histogram
	Stats      keypoint.PruneStats
	Octaves    int
}

// Pipeline is a configured keypoint detector. It holds no per-run state
// and may be shared between goroutines.
type Pipeline struct {
	params  Params
	blurrer scalespace.Blurrer
	log     zerolog.Logger
}

// New validates opts and creates a pipeline.
func New(opts Options) (*Pipeline, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, errors.Wrap(err, "pipeline parameters")
	}
	return &Pipeline{
		params:  opts.Params,
		blurrer: opts.Blurrer,
		log:     opts.Logger,
	}, nil
}

// Params returns the pipeline settings.
func (p *Pipeline) Params() Params {
	return p.params
}

// Octaves returns the octave count a run on a rows x cols input would use.
func (p *Pipeline) Octaves(rows, cols int) int {
	if p.params.Octaves > 0 {
		return p.params.Octaves
	}
	return scalespace.MaxOctaves(rows, cols)
}

// Run executes every stage on img.
func (p *Pipeline) Run(img *image.Image) (*Result, error) {
	start := time.Now()
	n := p.Octaves(img.Rows(), img.Cols())
	if n < 1 {
		return nil, errors.Wrapf(image.ErrDimension, "%dx%d input supports no octave", img.Rows(), img.Cols())
	}

	gauss, err := scalespace.BuildGaussianPyramid(img, n, p.params.Scale, p.blurrer)
	if err != nil {
		return nil, errors.Wrap(err, "gaussian pyramid")
	}
	p.log.Debug().Int("octaves", n).Int("levels", p.params.Scale.OctaveSize).Msg("built gaussian pyramid")

	dogs, err := scalespace.BuildDoGPyramid(gauss)
	if err != nil {
		return nil, errors.Wrap(err, "dog pyramid")
	}
	p.log.Debug().Int("levels", len(dogs[0])).Msg("built dog pyramid")

	candidates, err := keypoint.NewDetector(p.params.Scale, p.log).Detect(dogs)
	if err != nil {
		return nil, errors.Wrap(err, "extrema")
	}

	kept, stats := keypoint.NewPruner(p.params.Prune, p.log).Prune(dogs, candidates)
	p.log.Debug().
		Int("candidates", len(candidates)).
		Int("edge", stats.Edge).
		Int("low_contrast", stats.LowContrast).
		Msg("pruned candidates")

	hists, err := orientation.NewBuilder(p.params.Orientation, p.log).Build(dogs, kept)
	if err != nil {
		return nil, errors.Wrap(err, "orientation")
	}

	p.log.Info().
		Int("rows", img.Rows()).
		Int("cols", img.Cols()).
		Int("octaves", n).
		Int("keypoints", len(kept)).
		Dur("elapsed", time.Since(start)).
		Msg("scale-space detection complete")

	return &Result{
		Gaussian:   gauss,
		DoG:        dogs,
		Candidates: candidates,
		KeyPoints:  kept,
		Histograms: hists,
		Stats:      stats,
		Octaves:    n,
	}, nil
}
