// Package report persists detection results as JSON.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"sift-scalespace/internal/keypoint"
	"sift-scalespace/internal/orientation"
	"sift-scalespace/internal/sift"
)

// CurrentVersion is the report format version.
const CurrentVersion = 1

// Entry is one keypoint with its orientation histogram.
type Entry struct {
	keypoint.KeyPoint
	// X and Y locate the keypoint in base image pixels.
	X         float64               `json:"x"`
	Y         float64               `json:"y"`
	Histogram orientation.Histogram `json:"histogram"`
	// Dominant is the fullest bin, or -1 for an empty histogram.
	Dominant int `json:"dominant"`
	// Orientation is the centre of the dominant bin in degrees.
	Orientation float64 `json:"orientation,omitempty"`
}

// File is a saved detection run.
type File struct {
	Version int       `json:"version"`
	Created time.Time `json:"created"`
	// ImagePath is relative to the report file when possible.
	ImagePath string              `json:"image,omitempty"`
	Rows      int                 `json:"rows"`
	Cols      int                 `json:"cols"`
	Octaves   int                 `json:"octaves"`
	Params    sift.Params         `json:"params"`
	Stats     keypoint.PruneStats `json:"stats"`
	// Candidates counts extrema before pruning.
	Candidates int     `json:"candidates"`
	Entries    []Entry `json:"keypoints"`
}

// New builds a report from a pipeline result on a rows x cols input.
func New(rows, cols int, params sift.Params, res *sift.Result) *File {
	f := &File{
		Version:    CurrentVersion,
		Created:    time.Now().UTC(),
		Rows:       rows,
		Cols:       cols,
		Octaves:    res.Octaves,
		Params:     params,
		Stats:      res.Stats,
		Candidates: len(res.Candidates),
		Entries:    make([]Entry, len(res.KeyPoints)),
	}
	for i, kp := range res.KeyPoints {
		p := kp.BasePosition()
		e := Entry{KeyPoint: kp, X: p.X, Y: p.Y, Dominant: -1}
		if i < len(res.Histograms) {
			e.Histogram = res.Histograms[i]
			if bin, ok := e.Histogram.Dominant(); ok {
				e.Dominant = bin
				e.Orientation = orientation.BinCenter(bin)
			}
		}
		f.Entries[i] = e
	}
	return f
}

// KeyPoints returns the keypoints and histograms of the report.
func (f *File) KeyPoints() ([]keypoint.KeyPoint, []orientation.Histogram) {
	kps := make([]keypoint.KeyPoint, len(f.Entries))
	hists := make([]orientation.Histogram, len(f.Entries))
	for i, e := range f.Entries {
		kps[i] = e.KeyPoint
		hists[i] = e.Histogram
	}
	return kps, hists
}

// SetImage records imagePath relative to the report at reportPath.
func (f *File) SetImage(reportPath, imagePath string) {
	rel, err := filepath.Rel(filepath.Dir(reportPath), imagePath)
	if err != nil {
		f.ImagePath = imagePath
		return
	}
	f.ImagePath = rel
}

// Image returns the absolute path of the source image.
func (f *File) Image(reportPath string) string {
	if f.ImagePath == "" || filepath.IsAbs(f.ImagePath) {
		return f.ImagePath
	}
	return filepath.Join(filepath.Dir(reportPath), f.ImagePath)
}

// Load reads a report.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read report")
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "parse report %s", path)
	}
	if f.Version > CurrentVersion {
		return nil, errors.Errorf("report %s has version %d, newest supported is %d", path, f.Version, CurrentVersion)
	}
	return &f, nil
}

// Save writes the report as indented JSON.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode report")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write report")
}
