package image

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load decodes an image file and converts it to grayscale intensities in [0,1].
func Load(path string) (*Image, error) {
	if !IsSupportedFormat(path) {
		return nil, errors.Errorf("unsupported image format: %s", filepath.Ext(path))
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}
	defer file.Close()

	return Decode(file)
}

// Decode reads any registered image format from r and converts it to grayscale.
func Decode(r io.Reader) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}
	return FromImage(src)
}

// FromImage converts a standard library image to grayscale intensities in [0,1].
func FromImage(src image.Image) (*Image, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, errors.Wrapf(ErrDimension, "decoded image %dx%d", h, w)
	}

	out := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		row := out.RawRowView(y)
		for x := 0; x < w; x++ {
			g := color.Gray16Model.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
			row[x] = float64(g.Y) / 0xffff
		}
	}
	return fromDense(out), nil
}

// ToGray converts intensities to an 8-bit grayscale image, stretching the
// sample range [lo, hi] to [0, 255]. A flat image maps to mid-gray.
func ToGray(img *Image) *image.Gray {
	rows, cols := img.Rows(), img.Cols()
	lo, hi := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, cols, rows))
	span := hi - lo
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := 0.5
			if span > 0 {
				v = (img.At(r, c) - lo) / span
			}
			out.SetGray(c, r, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return out
}

// SupportedFormats returns the list of supported image file extensions.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
