// Package core provides the cell buffer and the drawing primitives that
// mutate it.
//
// A Buffer is a fixed-size grid of cells stored row-major. Each cell holds a
// background palette index, a foreground palette index and one glyph.
// Primitives validate every coordinate they would touch before writing, so
// a rejected call leaves the buffer exactly as it was.
//
// A Buffer is not safe for concurrent use. Callers sharing one across
// goroutines must synchronize access themselves.
//
// Usage:
//
//	b, err := core.New(40, 20, true)
//	if err != nil {
//		return err
//	}
//	defer b.Destroy()
//	_ = b.Fill(palette.FromRGB(0, 0, 0))
//	_ = b.DrawLine(0, 0, 39, 19, palette.FromRGB(255, 0, 0))
package core
