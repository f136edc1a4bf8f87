package orientation

import (
	"math"

	"sift-scalespace/pkg/geometry"
)

// Neighbourhood is a square window around a pixel clamped to the image.
// KernelSize is the unclamped odd side length; the window covers rows
// [RowStart, RowEnd) and columns [ColStart, ColEnd).
type Neighbourhood struct {
	KernelSize int
	RowStart   int
	RowEnd     int
	ColStart   int
	ColEnd     int
}

// NewNeighbourhood sizes the window as max(3*scale, minSize) truncated to
// an integer and bumped to the next odd value, centred on (row, col).
func NewNeighbourhood(rows, cols, row, col int, scale, minSize float64) Neighbourhood {
	size := int(math.Max(3*scale, minSize))
	if size%2 == 0 {
		size++
	}
	half := size / 2

	n := Neighbourhood{KernelSize: size}
	n.RowStart, n.RowEnd = span(row, half, rows)
	n.ColStart, n.ColEnd = span(col, half, cols)
	return n
}

func span(center, half, n int) (start, end int) {
	if center > half {
		start = center - half
	}
	end = n
	if center+half < n-1 {
		end = center + half + 1
	}
	return start, end
}

// Rect returns the window as a geometry rectangle (X is the column).
func (n Neighbourhood) Rect() geometry.RectInt {
	return geometry.RectInt{
		X:      n.ColStart,
		Y:      n.RowStart,
		Width:  n.ColEnd - n.ColStart,
		Height: n.RowEnd - n.RowStart,
	}
}
