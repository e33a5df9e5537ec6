package core

// DrawLine sets the background of every cell on the line from (x1, y1) to
// (x2, y2), both endpoints included. Axis-aligned lines fill their full
// span; every other line is rasterized with integer Bresenham. Swapping the
// endpoints touches the same set of cells.
func (b *Buffer) DrawLine(x1, y1, x2, y2 int, color uint8) error {
	if err := b.check("draw line", x1, y1); err != nil {
		return err
	}
	if err := b.check("draw line", x2, y2); err != nil {
		return err
	}

	// Every rasterized cell lies inside the endpoints' bounding box,
	// so validating the endpoints covers the whole line.
	walkLine(x1, y1, x2, y2, func(x, y int) {
		b.cells[b.index(x, y)].Bg = color
	})
	return nil
}

// LinePoints returns the cells DrawLine would touch, in drawing order.
func LinePoints(x1, y1, x2, y2 int) []Point {
	var pts []Point
	walkLine(x1, y1, x2, y2, func(x, y int) {
		pts = append(pts, Point{X: x, Y: y})
	})
	return pts
}

// walkLine visits each cell of the line exactly once.
func walkLine(x1, y1, x2, y2 int, visit func(x, y int)) {
	switch {
	case x1 == x2:
		if y2 < y1 {
			y1, y2 = y2, y1
		}
		for y := y1; y <= y2; y++ {
			visit(x1, y)
		}
	case y1 == y2:
		if x2 < x1 {
			x1, x2 = x2, x1
		}
		for x := x1; x <= x2; x++ {
			visit(x, y1)
		}
	default:
		bresenham(x1, y1, x2, y2, visit)
	}
}

// bresenham walks a non-axis-aligned line. It always starts from the
// endpoint with the lower major coordinate so both directions agree. The
// shallow branch advances the minor axis when its error term is not negative,
// the steep branch only when it is positive.
func bresenham(x1, y1, x2, y2 int, visit func(x, y int)) {
	dx := x2 - x1
	dy := y2 - y1
	adx := abs(dx)
	ady := abs(dy)

	// Minor axis moves up when both deltas share a sign.
	step := -1
	if (dx < 0 && dy < 0) || (dx > 0 && dy > 0) {
		step = 1
	}

	if ady <= adx {
		x, y, xe := x1, y1, x2
		if dx < 0 {
			x, y, xe = x2, y2, x1
		}
		p := 2*ady - adx
		visit(x, y)
		for x < xe {
			x++
			if p < 0 {
				p += 2 * ady
			} else {
				y += step
				p += 2 * (ady - adx)
			}
			visit(x, y)
		}
		return
	}

	x, y, ye := x1, y1, y2
	if dy < 0 {
		x, y, ye = x2, y2, y1
	}
	q := 2*adx - ady
	visit(x, y)
	for y < ye {
		y++
		if q <= 0 {
			q += 2 * adx
		} else {
			x += step
			q += 2 * (adx - ady)
		}
		visit(x, y)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
