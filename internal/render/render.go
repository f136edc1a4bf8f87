// Package render draws detected keypoints over their source image.
package render

import (
	goimage "image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"sift-scalespace/internal/image"
	"sift-scalespace/internal/keypoint"
	"sift-scalespace/internal/orientation"
	"sift-scalespace/pkg/colorutil"
	"sift-scalespace/pkg/geometry"
)

// Options configures how keypoints are drawn.
type Options struct {
	// Magnify scales the base image by an integer factor before drawing.
	Magnify int
	// Levels is the number of distinct level colours. Zero derives it
	// from the keypoints.
	Levels int
	// ShowWindow outlines the orientation window of each keypoint.
	ShowWindow bool
	// MinWindow must match the histogram builder for the outline to agree.
	MinWindow float64
	// TickColor draws the dominant orientation.
	TickColor color.RGBA
}

// DefaultOptions returns 2x magnification with windows shown.
func DefaultOptions() Options {
	return Options{
		Magnify:    2,
		ShowWindow: true,
		MinWindow:  orientation.DefaultParams().MinWindow,
		TickColor:  colorutil.Yellow,
	}
}

// Overlay renders base in grey with one marker per keypoint. Markers are
// coloured by DoG level and keypoints mapping outside base are skipped.
// hists may be nil; otherwise it must parallel kps and each marker gets a
// tick toward its dominant orientation.
func Overlay(base *image.Image, kps []keypoint.KeyPoint, hists []orientation.Histogram, opts Options) (*goimage.RGBA, error) {
	if hists != nil && len(hists) != len(kps) {
		return nil, errors.Errorf("%d histograms for %d keypoints", len(hists), len(kps))
	}
	m := opts.Magnify
	if m < 1 {
		m = 1
	}
	levels := opts.Levels
	if levels < 1 {
		for _, kp := range kps {
			if kp.Level+1 > levels {
				levels = kp.Level + 1
			}
		}
	}

	gray := image.ToGray(base)
	dst := goimage.NewRGBA(goimage.Rect(0, 0, base.Cols()*m, base.Rows()*m))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), gray, gray.Bounds(), draw.Src, nil)

	frame := geometry.RectInt{Width: base.Cols(), Height: base.Rows()}
	for i, kp := range kps {
		p := kp.BasePosition()
		if !frame.Contains(geometry.PointInt{X: int(p.X), Y: int(p.Y)}) {
			continue
		}
		cx := int(p.X*float64(m)) + m/2
		cy := int(p.Y*float64(m)) + m/2
		r := int(math.Max(2, math.Round(2*kp.Scale*float64(m))))
		c := colorutil.Spread(kp.Level, levels)

		drawCircle(dst, cx, cy, r, c)
		fillCircle(dst, cx, cy, m/2, c)

		if opts.ShowWindow {
			drawWindow(dst, base, kp, m, opts.MinWindow, colorutil.Darken(c, 0.4))
		}
		if hists == nil {
			continue
		}
		if bin, ok := hists[i].Dominant(); ok {
			theta := orientation.BinCenter(bin) * math.Pi / 180
			length := float64(2 * r)
			drawLine(dst, cx, cy, cx+int(length*math.Cos(theta)), cy+int(length*math.Sin(theta)), opts.TickColor)
		}
	}
	return dst, nil
}

// drawWindow outlines the orientation window of kp, mapped from its octave
// back to base coordinates.
func drawWindow(img *goimage.RGBA, base *image.Image, kp keypoint.KeyPoint, m int, minWindow float64, c color.RGBA) {
	rows, cols := base.Rows()>>kp.Octave, base.Cols()>>kp.Octave
	if rows < 1 || cols < 1 {
		return
	}
	rect := orientation.NewNeighbourhood(rows, cols, kp.Row, kp.Col, kp.Scale, minWindow).Rect()
	f := m << kp.Octave
	drawRect(img, rect.X*f, rect.Y*f, (rect.X+rect.Width)*f-1, (rect.Y+rect.Height)*f-1, c)
}

// Encode writes img as PNG.
func Encode(w io.Writer, img goimage.Image) error {
	return errors.Wrap(png.Encode(w, img), "encode png")
}

// Save writes img to path as PNG.
func Save(path string, img goimage.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create overlay")
	}
	if err := Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close overlay")
}
