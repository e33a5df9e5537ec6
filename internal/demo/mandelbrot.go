// Package demo draws the built-in Mandelbrot picture.
package demo

import (
	"context"
	"math/cmplx"

	"github.com/dshills/gterm/internal/renderer/core"
	"github.com/dshills/gterm/internal/renderer/palette"
)

// View is the region of the complex plane mapped onto the buffer.
type View struct {
	XMin, XMax float64
	YMin, YMax float64
	// MaxIter bounds the escape-time loop.
	MaxIter int
}

// The picture's own geometry, used when nothing else sizes the buffer.
const (
	Width  = 100
	Height = 75
	Square = true
)

// DefaultView returns the classic framing of the set.
func DefaultView() View {
	return View{
		XMin:    -1.5,
		XMax:    0.75,
		YMin:    -1,
		YMax:    1,
		MaxIter: 1000,
	}
}

var (
	escapedColor = palette.FromRGB(255, 0, 0)
	insideColor  = palette.FromRGB(0, 0, 0)
)

// Escapes reports whether the orbit of c leaves the radius-2 disc within
// maxIter-1 steps.
func Escapes(c complex128, maxIter int) bool {
	var z complex128
	for i := 1; i < maxIter; i++ {
		if cmplx.Abs(z) > 2 {
			return true
		}
		z = z*z + c
	}
	return false
}

// Mandelbrot paints every cell of b red when its point escapes and black
// otherwise. The first and last columns and rows land exactly on the view
// edges.
func Mandelbrot(ctx context.Context, b *core.Buffer, v View) error {
	w, h := b.Size()
	for x := 0; x < w; x++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		re := v.XMin + scale(x, w)*(v.XMax-v.XMin)
		for y := 0; y < h; y++ {
			im := v.YMin + scale(y, h)*(v.YMax-v.YMin)
			color := insideColor
			if Escapes(complex(re, im), v.MaxIter) {
				color = escapedColor
			}
			if err := b.SetBackground(x, y, color); err != nil {
				return err
			}
		}
	}
	return nil
}

// scale maps i in [0, n) onto [0, 1].
func scale(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
