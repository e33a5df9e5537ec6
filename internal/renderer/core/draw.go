package core

import (
	"github.com/rivo/uniseg"
)

// DrawRect sets the background of every cell in [x, x+w) x [y, y+h).
// The origin must be a cell of the buffer and the whole rectangle must lie
// inside it; nothing is clipped. A zero width or height draws nothing.
func (b *Buffer) DrawRect(x, y, w, h int, color uint8) error {
	const op = "draw rect"
	if err := b.check(op, x, y); err != nil {
		return err
	}
	if w < 0 || h < 0 || w > b.width-x || h > b.height-y {
		return &BoundsError{Op: op, X: x + w, Y: y + h, Width: b.width, Height: b.height}
	}

	for row := y; row < y+h; row++ {
		start := b.index(x, row)
		for i := start; i < start+w; i++ {
			b.cells[i].Bg = color
		}
	}
	return nil
}

// DrawText writes text rightward from (x, y), one grapheme cluster per cell.
// Only glyphs and foregrounds change. The text must fit on row y; text that
// would run past the right edge is rejected without writing anything.
//
// Multi-rune clusters keep their base rune. Best suited to buffers without
// square cells, where each glyph is followed by padding.
func (b *Buffer) DrawText(x, y int, text string, color uint8) error {
	const op = "draw text"
	if err := b.check(op, x, y); err != nil {
		return err
	}

	n := uniseg.GraphemeClusterCount(text)
	if n > b.width-x {
		return &BoundsError{Op: op, X: x + n - 1, Y: y, Width: b.width, Height: b.height}
	}

	i := b.index(x, y)
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		b.cells[i].Rune = gr.Runes()[0]
		b.cells[i].Fg = color
		i++
	}
	return nil
}
