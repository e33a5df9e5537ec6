package core

import "github.com/dshills/gterm/internal/renderer/palette"

// Cell is one addressable position in a Buffer.
type Cell struct {
	// Rune is the displayed glyph.
	Rune rune
	// Fg is the foreground palette index.
	Fg uint8
	// Bg is the background palette index.
	Bg uint8
}

// DefaultCell returns a space on black with a white foreground.
func DefaultCell() Cell {
	return Cell{
		Rune: ' ',
		Fg:   palette.DefaultForeground,
		Bg:   palette.DefaultBackground,
	}
}

// IsDefault returns true if the cell is in its cleared state.
func (c Cell) IsDefault() bool {
	return c == DefaultCell()
}

// Point is a cell coordinate.
type Point struct {
	X, Y int
}
