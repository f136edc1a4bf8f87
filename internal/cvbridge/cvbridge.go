// Package cvbridge connects the scale-space pipeline to OpenCV through gocv.
// It converts between gocv.Mat and image.Image, loads files with imread and
// offers an OpenCV Gaussian blur that plugs into pyramid construction.
package cvbridge

import (
	goimage "image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"sift-scalespace/internal/image"
	"sift-scalespace/internal/scalespace"
)

// ErrEmpty is returned for a Mat with no pixels.
var ErrEmpty = errors.New("empty mat")

// FromMat converts a 1, 3 or 4 channel Mat to a single-channel image.
// Colour input is converted to grey first. 8-bit samples are scaled to
// [0, 1]; other depths are taken as-is.
func FromMat(src gocv.Mat) (*image.Image, error) {
	if src.Empty() {
		return nil, ErrEmpty
	}

	gray := src
	switch src.Channels() {
	case 1:
	case 3, 4:
		gray = gocv.NewMat()
		defer gray.Close()
		code := gocv.ColorBGRToGray
		if src.Channels() == 4 {
			code = gocv.ColorBGRAToGray
		}
		gocv.CvtColor(src, &gray, code)
	default:
		return nil, errors.Errorf("unsupported channel count %d", src.Channels())
	}

	scale := 1.0
	if gray.Type() == gocv.MatTypeCV8U {
		scale = 1.0 / 255
	}

	f64 := gocv.NewMat()
	defer f64.Close()
	gray.ConvertTo(&f64, gocv.MatTypeCV64F)

	return image.Generate(f64.Rows(), f64.Cols(), func(r, c int) float64 {
		return f64.GetDoubleAt(r, c) * scale
	})
}

// ToMat copies img into a new single-channel CV_64F Mat. The caller must
// Close the result.
func ToMat(img *image.Image) gocv.Mat {
	m := gocv.NewMatWithSize(img.Rows(), img.Cols(), gocv.MatTypeCV64F)
	for r := 0; r < img.Rows(); r++ {
		for c, v := range img.Row(r) {
			m.SetDoubleAt(r, c, v)
		}
	}
	return m
}

// Load reads an image file as greyscale through OpenCV.
func Load(path string) (*image.Image, error) {
	m := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer m.Close()
	if m.Empty() {
		return nil, errors.Errorf("imread %s: no image decoded", path)
	}
	img, err := FromMat(m)
	if err != nil {
		return nil, errors.Wrapf(err, "convert %s", path)
	}
	return img, nil
}

// Blurrer runs gocv.GaussianBlur with reflect-101 borders, matching the
// pure Go blur in image.GaussianBlur.
type Blurrer struct{}

var _ scalespace.Blurrer = Blurrer{}

// Blur implements scalespace.Blurrer.
func (Blurrer) Blur(src *image.Image, size int, sigma float64) (*image.Image, error) {
	if size <= 0 || size%2 == 0 {
		return nil, errors.Wrapf(image.ErrDimension, "kernel size %d", size)
	}
	in := ToMat(src)
	defer in.Close()
	out := gocv.NewMat()
	defer out.Close()

	gocv.GaussianBlur(in, &out, goimage.Pt(size, size), sigma, sigma, gocv.BorderReflect101)
	return FromMat(out)
}
