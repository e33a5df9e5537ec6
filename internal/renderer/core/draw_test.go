package core

import (
	"errors"
	"testing"
)

func TestDrawRect(t *testing.T) {
	b := mustNew(t, 10, 8, false)
	if err := b.DrawRect(2, 3, 4, 2, 46); err != nil {
		t.Fatalf("DrawRect: %v", err)
	}

	for y := 0; y < 8; y++ {
		for x := 0; x < 10; x++ {
			inside := x >= 2 && x < 6 && y >= 3 && y < 5
			c, _ := b.Background(x, y)
			if inside && c != 46 {
				t.Errorf("(%d,%d) inside rect not filled", x, y)
			}
			if !inside && c == 46 {
				t.Errorf("(%d,%d) outside rect was filled", x, y)
			}
		}
	}
}

func TestDrawRectFullBuffer(t *testing.T) {
	b := mustNew(t, 4, 3, false)
	if err := b.DrawRect(0, 0, 4, 3, 5); err != nil {
		t.Fatalf("DrawRect: %v", err)
	}
	if set := touched(b, 5); len(set) != 12 {
		t.Errorf("expected 12 filled cells, got %d", len(set))
	}
}

func TestDrawRectZeroExtent(t *testing.T) {
	b := mustNew(t, 4, 4, false)
	if err := b.DrawRect(1, 1, 0, 3, 7); err != nil {
		t.Fatalf("DrawRect w=0: %v", err)
	}
	if err := b.DrawRect(1, 1, 3, 0, 7); err != nil {
		t.Fatalf("DrawRect h=0: %v", err)
	}
	if set := touched(b, 7); len(set) != 0 {
		t.Errorf("expected no cells touched, got %v", set)
	}
}

func TestDrawRectOutOfBounds(t *testing.T) {
	b := mustNew(t, 4, 4, false)
	_ = b.Fill(3)
	before := b.Cells()

	tests := []struct{ x, y, w, h int }{
		{0, 0, 5, 1},
		{0, 0, 1, 5},
		{3, 3, 2, 1},
		{-1, 0, 2, 2},
		{0, -1, 2, 2},
		{1, 1, -1, 2},
		{5, 0, 0, 0},
		{4, 0, 0, 1},
		{0, 4, 1, 0},
		{4, 4, 0, 0},
	}

	for _, tt := range tests {
		err := b.DrawRect(tt.x, tt.y, tt.w, tt.h, 9)
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("DrawRect(%v): expected ErrOutOfBounds, got %v", tt, err)
		}
	}

	after := b.Cells()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("rejected rect modified cell %d", i)
		}
	}
}

func TestDrawText(t *testing.T) {
	b := mustNew(t, 10, 2, false)
	_ = b.SetBackground(1, 1, 33)

	if err := b.DrawText(0, 1, "Hey", 11); err != nil {
		t.Fatalf("DrawText: %v", err)
	}

	for i, want := range "Hey" {
		c, _ := b.Cell(i, 1)
		if c.Rune != want || c.Fg != 11 {
			t.Errorf("cell %d: expected %q fg 11, got %+v", i, want, c)
		}
	}

	c, _ := b.Cell(1, 1)
	if c.Bg != 33 {
		t.Error("DrawText changed a background")
	}
	c, _ = b.Cell(3, 1)
	if !c.IsDefault() {
		t.Error("DrawText wrote past the text")
	}
}

func TestDrawTextFitsRowExactly(t *testing.T) {
	b := mustNew(t, 5, 2, false)
	if err := b.DrawText(2, 0, "abc", 1); err != nil {
		t.Fatalf("text ending at the last column should fit: %v", err)
	}
	c, _ := b.Cell(4, 0)
	if c.Rune != 'c' {
		t.Errorf("expected 'c' in last column, got %q", c.Rune)
	}
}

func TestDrawTextNoWrap(t *testing.T) {
	b := mustNew(t, 5, 2, false)
	before := b.Cells()

	err := b.DrawText(3, 0, "abc", 1)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}

	after := b.Cells()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("rejected text modified cell %d", i)
		}
	}
}

func TestDrawTextGraphemes(t *testing.T) {
	b := mustNew(t, 4, 1, false)
	// "e" + combining acute accent is one cluster.
	if err := b.DrawText(0, 0, "e\u0301x", 2); err != nil {
		t.Fatalf("DrawText: %v", err)
	}
	c0, _ := b.Cell(0, 0)
	c1, _ := b.Cell(1, 0)
	if c0.Rune != 'e' || c1.Rune != 'x' {
		t.Errorf("expected 'e','x', got %q,%q", c0.Rune, c1.Rune)
	}
}

func TestDrawTextEmpty(t *testing.T) {
	b := mustNew(t, 3, 3, false)
	if err := b.DrawText(1, 1, "", 2); err != nil {
		t.Errorf("empty text: %v", err)
	}
	if err := b.DrawText(3, 1, "", 2); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("empty text at invalid origin: expected ErrOutOfBounds, got %v", err)
	}
}
