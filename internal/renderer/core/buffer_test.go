package core

import (
	"errors"
	"math"
	"testing"

	"github.com/dshills/gterm/internal/renderer/palette"
)

func mustNew(t *testing.T, w, h int, square bool) *Buffer {
	t.Helper()
	b, err := New(w, h, square)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", w, h, err)
	}
	return b
}

func TestNew(t *testing.T) {
	b := mustNew(t, 80, 24, true)

	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected size (80, 24), got (%d, %d)", w, h)
	}
	if !b.Square() {
		t.Error("expected square buffer")
	}

	for i, c := range b.Cells() {
		if !c.IsDefault() {
			t.Fatalf("cell %d not default: %+v", i, c)
		}
	}
}

func TestNewInvalidDimension(t *testing.T) {
	tests := []struct{ w, h int }{
		{0, 10},
		{10, 0},
		{0, 0},
		{-1, 5},
	}

	for _, tt := range tests {
		b, err := New(tt.w, tt.h, false)
		if !errors.Is(err, ErrInvalidDimension) {
			t.Errorf("New(%d, %d): expected ErrInvalidDimension, got %v", tt.w, tt.h, err)
		}
		if b != nil {
			t.Errorf("New(%d, %d): expected nil buffer", tt.w, tt.h)
		}
	}
}

func TestNewAllocationFailure(t *testing.T) {
	if _, err := New(MaxCells, 2, false); !errors.Is(err, ErrAllocation) {
		t.Errorf("expected ErrAllocation, got %v", err)
	}
	if _, err := New(math.MaxInt/2, 4, false); !errors.Is(err, ErrAllocation) {
		t.Errorf("expected ErrAllocation on overflow, got %v", err)
	}
}

func TestDefaultCell(t *testing.T) {
	c := DefaultCell()
	if c.Rune != ' ' || c.Fg != palette.White || c.Bg != palette.Black {
		t.Errorf("unexpected default cell %+v", c)
	}
}

func TestSetGetBackground(t *testing.T) {
	b := mustNew(t, 10, 5, false)

	if err := b.SetBackground(3, 4, 196); err != nil {
		t.Fatalf("SetBackground: %v", err)
	}
	got, err := b.Background(3, 4)
	if err != nil {
		t.Fatalf("Background: %v", err)
	}
	if got != 196 {
		t.Errorf("expected 196, got %d", got)
	}

	c, _ := b.Cell(3, 4)
	if c.Fg != palette.White || c.Rune != ' ' {
		t.Errorf("SetBackground touched other fields: %+v", c)
	}
}

func TestSetBackgroundRGB(t *testing.T) {
	b := mustNew(t, 2, 2, false)
	if err := b.SetBackgroundRGB(1, 1, 255, 0, 0); err != nil {
		t.Fatalf("SetBackgroundRGB: %v", err)
	}
	if got, _ := b.Background(1, 1); got != 196 {
		t.Errorf("expected 196, got %d", got)
	}
}

func TestBoundsRejection(t *testing.T) {
	b := mustNew(t, 4, 3, false)
	_ = b.Fill(21)
	before := b.Cells()

	coords := []struct{ x, y int }{
		{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {4, 3}, {100, 100},
	}

	for _, c := range coords {
		err := b.SetBackground(c.x, c.y, 196)
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("SetBackground(%d, %d): expected ErrOutOfBounds, got %v", c.x, c.y, err)
		}
		var be *BoundsError
		if !errors.As(err, &be) {
			t.Errorf("SetBackground(%d, %d): expected *BoundsError", c.x, c.y)
		} else if be.X != c.x || be.Y != c.y {
			t.Errorf("BoundsError reports (%d, %d), want (%d, %d)", be.X, be.Y, c.x, c.y)
		}
		if _, err := b.Background(c.x, c.y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Background(%d, %d): expected ErrOutOfBounds, got %v", c.x, c.y, err)
		}
		if _, err := b.Cell(c.x, c.y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Cell(%d, %d): expected ErrOutOfBounds, got %v", c.x, c.y, err)
		}
	}

	after := b.Cells()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("cell %d changed after rejected calls", i)
		}
	}
}

func TestFillLeavesForeground(t *testing.T) {
	b := mustNew(t, 5, 2, false)
	if err := b.DrawText(0, 0, "hi", 46); err != nil {
		t.Fatalf("DrawText: %v", err)
	}
	if err := b.Fill(88); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	for _, c := range b.Cells() {
		if c.Bg != 88 {
			t.Fatalf("expected bg 88, got %d", c.Bg)
		}
	}
	c, _ := b.Cell(0, 0)
	if c.Rune != 'h' || c.Fg != 46 {
		t.Errorf("Fill changed glyph or foreground: %+v", c)
	}
}

func TestClearIdempotent(t *testing.T) {
	b := mustNew(t, 6, 4, true)
	fresh := mustNew(t, 6, 4, true)

	_ = b.Fill(200)
	_ = b.DrawText(1, 1, "abc", 9)
	_ = b.DrawLine(0, 0, 5, 3, 1)

	if err := b.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	once, _ := b.Clone()

	if err := b.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}

	if !b.Equal(once) {
		t.Error("second Clear changed the buffer")
	}
	if !b.Equal(fresh) {
		t.Error("cleared buffer differs from a fresh buffer")
	}
}

func TestDestroy(t *testing.T) {
	b := mustNew(t, 3, 3, false)
	b.Destroy()
	b.Destroy()

	if !b.Destroyed() {
		t.Error("expected destroyed buffer")
	}
	if err := b.SetBackground(0, 0, 1); !errors.Is(err, ErrDestroyed) {
		t.Errorf("SetBackground after Destroy: expected ErrDestroyed, got %v", err)
	}
	if err := b.Clear(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Clear after Destroy: expected ErrDestroyed, got %v", err)
	}
	if err := b.Fill(1); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Fill after Destroy: expected ErrDestroyed, got %v", err)
	}
	if err := b.DrawRect(0, 0, 1, 1, 1); !errors.Is(err, ErrDestroyed) {
		t.Errorf("DrawRect after Destroy: expected ErrDestroyed, got %v", err)
	}
	if b.Cells() != nil {
		t.Error("expected nil cells after Destroy")
	}
	if _, err := b.Clone(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Clone after Destroy: expected ErrDestroyed, got %v", err)
	}
}

func TestRow(t *testing.T) {
	b := mustNew(t, 3, 2, false)
	_ = b.SetBackground(2, 1, 7)

	row, err := b.Row(1)
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	if len(row) != 3 || row[2].Bg != 7 {
		t.Errorf("unexpected row %+v", row)
	}

	row[0].Bg = 99
	if got, _ := b.Background(0, 1); got == 99 {
		t.Error("Row returned shared storage")
	}

	if _, err := b.Row(2); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Row(2): expected ErrOutOfBounds, got %v", err)
	}
}

func TestCloneIndependent(t *testing.T) {
	b := mustNew(t, 2, 2, false)
	c, err := b.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	_ = c.SetBackground(0, 0, 50)

	if got, _ := b.Background(0, 0); got != palette.Black {
		t.Error("mutating a clone changed the original")
	}
	if b.Equal(c) {
		t.Error("expected buffers to differ")
	}
}
