package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint2D(t *testing.T) {
	p := Point2D{X: 3, Y: 4}
	assert.Equal(t, Point2D{X: 6, Y: 8}, p.Scale(2))
}

func TestPointInt(t *testing.T) {
	p := PointInt{X: 2, Y: -1}
	assert.Equal(t, Point2D{X: 2, Y: -1}, p.ToFloat())
	assert.Equal(t, 3, p.ChebyshevDistance(PointInt{X: 0, Y: 2}))
	assert.Zero(t, p.ChebyshevDistance(p))
}

func TestRectInt(t *testing.T) {
	r := RectInt{X: 1, Y: 2, Width: 3, Height: 2}
	assert.Equal(t, 6, r.Area())
	assert.True(t, r.Contains(PointInt{X: 1, Y: 2}))
	assert.True(t, r.Contains(PointInt{X: 3, Y: 3}))
	assert.False(t, r.Contains(PointInt{X: 4, Y: 3}))
	assert.False(t, r.Contains(PointInt{X: 1, Y: 4}))

	none := RectInt{X: 1, Y: 2, Width: 0, Height: 2}
	assert.True(t, none.Empty())
	assert.Zero(t, none.Area())
}
