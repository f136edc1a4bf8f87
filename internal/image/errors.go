package image

import "github.com/pkg/errors"

var (
	// ErrDimension reports an image whose size is zero, mismatched with
	// another operand, or too small to be halved again.
	ErrDimension = errors.New("invalid image dimensions")

	// ErrOutOfBounds reports a sample position outside the image.
	ErrOutOfBounds = errors.New("position out of image bounds")
)
