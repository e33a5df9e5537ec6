package backend

import (
	"io"

	"github.com/dshills/gterm/internal/renderer/ansi"
	"github.com/dshills/gterm/internal/renderer/core"
)

// Stream writes frames as ANSI escape sequences to an io.Writer.
type Stream struct {
	w    io.Writer
	opts []ansi.Option
	out  *ansi.Output
}

// NewStream creates a stream backend writing to w.
func NewStream(w io.Writer, opts ...ansi.Option) *Stream {
	return &Stream{w: w, opts: opts}
}

func (s *Stream) Init() error {
	if s.out == nil {
		s.out = ansi.NewOutput(s.w, s.opts...)
	}
	return nil
}

func (s *Stream) Present(b *core.Buffer) error {
	if s.out == nil {
		return ErrNotInitialized
	}
	return s.out.Render(b)
}

// Shutdown writes the colour reset sequence. Safe to call more than once.
func (s *Stream) Shutdown() error {
	if s.out == nil {
		return nil
	}
	return s.out.Close()
}
