package ansi

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"

	"github.com/dshills/gterm/internal/renderer/core"
	"github.com/dshills/gterm/internal/renderer/palette"
)

// ErrClosed is returned when rendering to a released Output.
var ErrClosed = errors.New("output is released")

// Charset selects how glyphs are encoded on the wire.
type Charset uint8

const (
	// CharsetUTF8 writes glyphs as UTF-8. ASCII glyphs are single bytes.
	CharsetUTF8 Charset = iota
	// CharsetCP437 writes glyphs as IBM code page 437 bytes.
	CharsetCP437
)

// ParseCharset maps a configuration name to a Charset.
func ParseCharset(s string) (Charset, error) {
	switch s {
	case "", "utf-8", "utf8", "UTF-8":
		return CharsetUTF8, nil
	case "cp437", "CP437", "ibm437":
		return CharsetCP437, nil
	default:
		return CharsetUTF8, fmt.Errorf("unknown charset %q", s)
	}
}

// String returns the charset name.
func (c Charset) String() string {
	if c == CharsetCP437 {
		return "cp437"
	}
	return "utf-8"
}

// Option configures an Output.
type Option func(*Output)

// WithCharset sets the glyph encoding.
func WithCharset(c Charset) Option {
	return func(o *Output) {
		o.charset = c
	}
}

// Output is a render target. It must be released with Close so the host
// terminal is left with default colours.
type Output struct {
	w       *bufio.Writer
	charset Charset
	scratch []byte
	closed  bool
}

// NewOutput wraps w.
func NewOutput(w io.Writer, opts ...Option) *Output {
	o := &Output{
		w:       bufio.NewWriterSize(w, 64*1024),
		scratch: make([]byte, 0, 32),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Render writes the full buffer and flushes. A write failure aborts the
// frame and is returned; the buffer is only read. A nil or destroyed buffer
// is ErrDestroyed and writes nothing.
func (o *Output) Render(b *core.Buffer) error {
	if o.closed {
		return ErrClosed
	}
	if b == nil || b.Destroyed() {
		return core.ErrDestroyed
	}

	w := o.w
	w.Write(seqClearHome)

	width, height := b.Size()
	cells := b.Cells()
	for y := 0; y < height; y++ {
		row := cells[y*width : (y+1)*width]
		for _, c := range row {
			o.writeCell(c, b.Square())
		}
		if _, err := w.Write(seqRowEnd); err != nil {
			return fmt.Errorf("render row %d: %w", y, err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("render flush: %w", err)
	}
	return nil
}

// writeCell emits one cell. Errors are sticky in the bufio.Writer and
// surface at the row boundary.
func (o *Output) writeCell(c core.Cell, square bool) {
	buf := o.scratch[:0]
	buf = palette.AppendSeq(buf, c.Bg, palette.Background)
	buf = palette.AppendSeq(buf, c.Fg, palette.Foreground)
	o.w.Write(buf)
	o.scratch = buf

	o.writeGlyph(c.Rune)
	if square {
		o.w.WriteByte(' ')
	}
}

func (o *Output) writeGlyph(r rune) {
	if r < 0x80 {
		o.w.WriteByte(byte(r))
		return
	}
	if o.charset == CharsetCP437 {
		b, ok := charmap.CodePage437.EncodeRune(r)
		if !ok {
			b = '?'
		}
		o.w.WriteByte(b)
		return
	}
	o.w.WriteRune(r)
}

// Close emits the colour reset sequence and flushes. Safe to call more
// than once; only the first call writes.
func (o *Output) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	o.w.Write(seqReset)
	if err := o.w.Flush(); err != nil {
		return fmt.Errorf("release: %w", err)
	}
	return nil
}

// Render writes b to w as a single frame.
func Render(w io.Writer, b *core.Buffer, opts ...Option) error {
	return NewOutput(w, opts...).Render(b)
}

// Release writes the colour reset sequence to w.
func Release(w io.Writer) error {
	if _, err := w.Write(seqReset); err != nil {
		return fmt.Errorf("release: %w", err)
	}
	return nil
}

// With runs fn against an Output on w and releases it afterwards, whether
// fn returns an error or panics.
func With(w io.Writer, fn func(*Output) error, opts ...Option) (err error) {
	o := NewOutput(w, opts...)
	defer func() {
		if cerr := o.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(o)
}
