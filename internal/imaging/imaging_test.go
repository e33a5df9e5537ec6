package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/gterm/internal/renderer/core"
	"github.com/dshills/gterm/internal/renderer/palette"
)

// halves returns a w x h image that is red on the left and blue on the right.
func halves(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 255, A: 255}
			if x >= w/2 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestDraw(t *testing.T) {
	b, err := core.New(4, 2, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := Draw(b, halves(40, 20)); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	red := palette.FromRGB(255, 0, 0)
	blue := palette.FromRGB(0, 0, 255)
	for y := 0; y < 2; y++ {
		if got, _ := b.Background(0, y); got != red {
			t.Errorf("Background(0,%d) = %d, want %d", y, got, red)
		}
		if got, _ := b.Background(3, y); got != blue {
			t.Errorf("Background(3,%d) = %d, want %d", y, got, blue)
		}
	}
}

func TestDraw_Upscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 0, G: 255, B: 0, A: 255})

	b, err := core.New(3, 3, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := Draw(b, src); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	for _, c := range b.Cells() {
		if c.Bg != 46 {
			t.Fatalf("cell bg = %d, want 46", c.Bg)
		}
	}
}

func TestDraw_Transparent(t *testing.T) {
	b, err := core.New(2, 2, false)
	if err != nil {
		t.Fatal(err)
	}
	_ = b.Fill(palette.White)
	if err := Draw(b, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	for _, c := range b.Cells() {
		if c.Bg != 16 {
			t.Fatalf("cell bg = %d, want 16", c.Bg)
		}
	}
}

func TestDraw_Destroyed(t *testing.T) {
	b, err := core.New(2, 2, false)
	if err != nil {
		t.Fatal(err)
	}
	b.Destroy()
	if err := Draw(b, halves(2, 2)); !errors.Is(err, core.ErrDestroyed) {
		t.Errorf("Draw() error = %v, want ErrDestroyed", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "halves.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, halves(6, 3)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(6, 3) {
		t.Errorf("Bounds().Size() = %v, want (6,3)", got)
	}

	if _, err := Load(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want ErrNotExist", err)
	}

	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(junk); !errors.Is(err, image.ErrFormat) {
		t.Errorf("Load(junk) error = %v, want image.ErrFormat", err)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name         string
		imgW, imgH   int
		maxW, maxH   int
		square       bool
		wantW, wantH int
	}{
		{"square cells wide image", 200, 100, 80, 80, true, 80, 40},
		{"square cells tall image", 100, 200, 80, 80, true, 40, 80},
		{"plain cells", 100, 100, 80, 80, false, 80, 40},
		{"plain cells height bound", 100, 100, 80, 20, false, 40, 20},
		{"tiny", 1000, 1, 10, 10, true, 10, 1},
		{"empty image", 0, 10, 10, 10, true, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Fit(tt.imgW, tt.imgH, tt.maxW, tt.maxH, tt.square)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Fit() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
