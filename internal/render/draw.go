package render

import (
	goimage "image"
	"image/color"
)

func inside(img *goimage.RGBA, x, y int) bool {
	return goimage.Pt(x, y).In(img.Bounds())
}

// fillCircle fills a disc of radius r.
func fillCircle(img *goimage.RGBA, cx, cy, r int, c color.RGBA) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r && inside(img, x, y) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawCircle draws a circle outline using Bresenham's algorithm.
func drawCircle(img *goimage.RGBA, cx, cy, r int, c color.RGBA) {
	set := func(x, y int) {
		if inside(img, x, y) {
			img.SetRGBA(x, y, c)
		}
	}

	x, y, err := r, 0, 0
	for x >= y {
		set(cx+x, cy+y)
		set(cx+y, cy+x)
		set(cx-y, cy+x)
		set(cx-x, cy+y)
		set(cx-x, cy-y)
		set(cx-y, cy-x)
		set(cx+y, cy-x)
		set(cx+x, cy-y)

		y++
		if err <= 0 {
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

// drawLine draws a 1-pixel line using Bresenham's algorithm.
func drawLine(img *goimage.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}

	err := dx - dy
	for {
		if inside(img, x1, y1) {
			img.SetRGBA(x1, y1, c)
		}
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawRect outlines the rectangle with corners (x1, y1) and (x2, y2) inclusive.
func drawRect(img *goimage.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	drawLine(img, x1, y1, x2, y1, c)
	drawLine(img, x1, y2, x2, y2, c)
	drawLine(img, x1, y1, x1, y2, c)
	drawLine(img, x2, y1, x2, y2, c)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
