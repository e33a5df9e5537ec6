// Package scene describes pictures as data: a buffer size plus an ordered
// list of drawing operations. Scenes load from TOML, YAML or JSON files.
package scene

import (
	"errors"
	"fmt"

	"github.com/dshills/gterm/internal/renderer/core"
	"github.com/dshills/gterm/internal/renderer/palette"
)

// Operation kinds.
const (
	KindPixel = "pixel"
	KindRect  = "rect"
	KindLine  = "line"
	KindText  = "text"
	KindFill  = "fill"
	KindClear = "clear"
)

// Errors returned while resolving operations.
var (
	ErrUnknownOp    = errors.New("unknown operation")
	ErrMissingColor = errors.New("missing color")
	ErrInvalidRGB   = errors.New("rgb needs three channels in 0-255")
)

// Scene is a buffer description and the operations that paint it.
type Scene struct {
	Width      int    `toml:"width" yaml:"width"`
	Height     int    `toml:"height" yaml:"height"`
	Square     bool   `toml:"square" yaml:"square"`
	Background string `toml:"background" yaml:"background"`
	Ops        []Op   `toml:"ops" yaml:"ops"`
}

// Op is one drawing operation. Which fields matter depends on Kind:
//
//	pixel  x y color
//	rect   x y w h color
//	line   x y x2 y2 color
//	text   x y text color
//	fill   color
//	clear
//
// The colour is either Color (palette index, basic name or "#rrggbb") or
// RGB, which is quantized. RGB wins when both are set.
type Op struct {
	Kind  string `toml:"op" yaml:"op"`
	X     int    `toml:"x" yaml:"x"`
	Y     int    `toml:"y" yaml:"y"`
	X2    int    `toml:"x2" yaml:"x2"`
	Y2    int    `toml:"y2" yaml:"y2"`
	W     int    `toml:"w" yaml:"w"`
	H     int    `toml:"h" yaml:"h"`
	Text  string `toml:"text" yaml:"text"`
	Color string `toml:"color" yaml:"color"`
	RGB   []int  `toml:"rgb" yaml:"rgb"`
}

// OpError reports the operation that stopped Apply.
type OpError struct {
	Index int
	Kind  string
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("op %d (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// WithDefaults fills a zero Width, Height or Background from the arguments.
func (s *Scene) WithDefaults(width, height int, background string) {
	if s.Width == 0 {
		s.Width = width
	}
	if s.Height == 0 {
		s.Height = height
	}
	if s.Background == "" {
		s.Background = background
	}
}

// NewBuffer allocates a buffer sized for the scene and fills it with the
// scene background, if any.
func (s *Scene) NewBuffer() (*core.Buffer, error) {
	var bg uint8
	if s.Background != "" {
		var err error
		if bg, err = palette.Parse(s.Background); err != nil {
			return nil, fmt.Errorf("scene background: %w", err)
		}
	}

	b, err := core.New(s.Width, s.Height, s.Square)
	if err != nil {
		return nil, err
	}
	if s.Background != "" {
		if err := b.Fill(bg); err != nil {
			b.Destroy()
			return nil, err
		}
	}
	return b, nil
}

// Apply runs every operation in order and stops at the first failure.
// Operations before the failing one stay applied; the failing one leaves
// the buffer untouched.
func (s *Scene) Apply(b *core.Buffer) error {
	for i := range s.Ops {
		if err := s.Ops[i].Apply(b); err != nil {
			return &OpError{Index: i, Kind: s.Ops[i].Kind, Err: err}
		}
	}
	return nil
}

// Render is NewBuffer followed by Apply. The buffer is destroyed on error.
func (s *Scene) Render() (*core.Buffer, error) {
	b, err := s.NewBuffer()
	if err != nil {
		return nil, err
	}
	if err := s.Apply(b); err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}

// Apply runs the operation against b.
func (op *Op) Apply(b *core.Buffer) error {
	switch op.Kind {
	case KindClear:
		return b.Clear()
	case KindPixel, KindRect, KindLine, KindText, KindFill:
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, op.Kind)
	}

	color, err := op.ResolveColor()
	if err != nil {
		return err
	}

	switch op.Kind {
	case KindPixel:
		return b.SetBackground(op.X, op.Y, color)
	case KindRect:
		return b.DrawRect(op.X, op.Y, op.W, op.H, color)
	case KindLine:
		return b.DrawLine(op.X, op.Y, op.X2, op.Y2, color)
	case KindText:
		return b.DrawText(op.X, op.Y, op.Text, color)
	default:
		return b.Fill(color)
	}
}

// ResolveColor returns the palette index named by RGB or Color.
func (op *Op) ResolveColor() (uint8, error) {
	if len(op.RGB) > 0 {
		if len(op.RGB) != 3 {
			return 0, ErrInvalidRGB
		}
		var ch [3]uint8
		for i, v := range op.RGB {
			if v < 0 || v > 255 {
				return 0, ErrInvalidRGB
			}
			ch[i] = uint8(v)
		}
		return palette.FromRGB(ch[0], ch[1], ch[2]), nil
	}
	if op.Color == "" {
		return 0, ErrMissingColor
	}
	return palette.Parse(op.Color)
}
