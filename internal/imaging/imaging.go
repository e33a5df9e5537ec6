// Package imaging converts raster images into buffer backgrounds.
package imaging

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/dshills/gterm/internal/renderer/core"
	"github.com/dshills/gterm/internal/renderer/palette"
)

// Load decodes a PNG, JPEG, GIF, BMP, TIFF or WebP file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}
	return img, nil
}

// Draw scales img to the buffer and quantizes every pixel into the cell
// background. Transparent pixels come out black.
func Draw(b *core.Buffer, img image.Image) error {
	if b.Destroyed() {
		return core.ErrDestroyed
	}
	w, h := b.Size()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := dst.PixOffset(x, y)
			p := dst.Pix[off : off+3 : off+3]
			if err := b.SetBackground(x, y, palette.FromRGB(p[0], p[1], p[2])); err != nil {
				return err
			}
		}
	}
	return nil
}

// Fit returns the largest size within maxW x maxH that keeps the aspect
// ratio of an imgW x imgH image. Square cells are as wide as they are tall;
// plain cells are treated as twice as tall as wide.
func Fit(imgW, imgH, maxW, maxH int, square bool) (w, h int) {
	if imgW <= 0 || imgH <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	cellAspect := 2.0
	if square {
		cellAspect = 1.0
	}
	// Height in cells needed for a given width in cells.
	ratio := float64(imgH) / float64(imgW) / cellAspect

	w = maxW
	h = int(float64(w)*ratio + 0.5)
	if h > maxH {
		h = maxH
		w = int(float64(h)/ratio + 0.5)
	}
	return max(w, 1), max(h, 1)
}
