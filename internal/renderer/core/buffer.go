package core

import (
	"fmt"
	"math"

	"github.com/dshills/gterm/internal/renderer/palette"
)

// MaxCells caps the number of cells a single Buffer may hold.
const MaxCells = 1 << 26

// Buffer is a fixed-size grid of cells with exclusive ownership of its storage.
type Buffer struct {
	width, height int
	square        bool
	cells         []Cell
}

// New allocates a width x height buffer with every cell in the default state.
// When square is set the renderer doubles each cell horizontally.
func New(width, height int, square bool) (b *Buffer, err error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	if width > math.MaxInt/height || width*height > MaxCells {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d cells", ErrAllocation, width, height, MaxCells)
	}

	defer func() {
		if r := recover(); r != nil {
			b = nil
			err = fmt.Errorf("%w: %v", ErrAllocation, r)
		}
	}()

	b = &Buffer{
		width:  width,
		height: height,
		square: square,
		cells:  make([]Cell, width*height),
	}
	b.reset()
	return b, nil
}

// Destroy releases the cell storage. The buffer must not be used afterwards;
// every later operation returns ErrDestroyed. Safe to call more than once.
func (b *Buffer) Destroy() {
	b.cells = nil
}

// Destroyed returns true once Destroy has been called.
func (b *Buffer) Destroyed() bool {
	return b.cells == nil
}

// Width returns the number of columns.
func (b *Buffer) Width() int { return b.width }

// Height returns the number of rows.
func (b *Buffer) Height() int { return b.height }

// Square returns true if cells are rendered double width.
func (b *Buffer) Square() bool { return b.square }

// Size returns the buffer dimensions.
func (b *Buffer) Size() (width, height int) {
	return b.width, b.height
}

// Contains returns true if (x, y) addresses a cell.
func (b *Buffer) Contains(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Buffer) index(x, y int) int {
	return y*b.width + x
}

func (b *Buffer) reset() {
	def := DefaultCell()
	for i := range b.cells {
		b.cells[i] = def
	}
}

// check validates the buffer and one coordinate.
func (b *Buffer) check(op string, x, y int) error {
	if b.cells == nil {
		return ErrDestroyed
	}
	if !b.Contains(x, y) {
		return &BoundsError{Op: op, X: x, Y: y, Width: b.width, Height: b.height}
	}
	return nil
}

// Clear resets every cell to the default state.
func (b *Buffer) Clear() error {
	if b.cells == nil {
		return ErrDestroyed
	}
	b.reset()
	return nil
}

// Fill sets every cell's background, leaving glyphs and foregrounds alone.
func (b *Buffer) Fill(color uint8) error {
	if b.cells == nil {
		return ErrDestroyed
	}
	for i := range b.cells {
		b.cells[i].Bg = color
	}
	return nil
}

// Background returns the background index at (x, y).
func (b *Buffer) Background(x, y int) (uint8, error) {
	if err := b.check("background", x, y); err != nil {
		return 0, err
	}
	return b.cells[b.index(x, y)].Bg, nil
}

// SetBackground sets the background of the cell at (x, y).
func (b *Buffer) SetBackground(x, y int, color uint8) error {
	if err := b.check("set background", x, y); err != nil {
		return err
	}
	b.cells[b.index(x, y)].Bg = color
	return nil
}

// SetBackgroundRGB quantizes (r, g, b) and sets the background at (x, y).
func (b *Buffer) SetBackgroundRGB(x, y int, r, g, bl uint8) error {
	return b.SetBackground(x, y, palette.FromRGB(r, g, bl))
}

// Cell returns the cell at (x, y).
func (b *Buffer) Cell(x, y int) (Cell, error) {
	if err := b.check("cell", x, y); err != nil {
		return Cell{}, err
	}
	return b.cells[b.index(x, y)], nil
}

// Row returns a copy of row y.
func (b *Buffer) Row(y int) ([]Cell, error) {
	if err := b.check("row", 0, y); err != nil {
		return nil, err
	}
	start := b.index(0, y)
	row := make([]Cell, b.width)
	copy(row, b.cells[start:start+b.width])
	return row, nil
}

// Cells returns a row-major copy of every cell.
// Returns nil for a destroyed buffer.
func (b *Buffer) Cells() []Cell {
	if b.cells == nil {
		return nil
	}
	out := make([]Cell, len(b.cells))
	copy(out, b.cells)
	return out
}

// Clone returns an independent copy of the buffer.
func (b *Buffer) Clone() (*Buffer, error) {
	if b.cells == nil {
		return nil, ErrDestroyed
	}
	return &Buffer{
		width:  b.width,
		height: b.height,
		square: b.square,
		cells:  b.Cells(),
	}, nil
}

// Equal returns true if both buffers have the same dimensions, square flag
// and cell contents.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil {
		return false
	}
	if b.width != other.width || b.height != other.height || b.square != other.square {
		return false
	}
	if len(b.cells) != len(other.cells) {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}
