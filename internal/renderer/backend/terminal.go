package backend

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gterm/internal/renderer/core"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen      tcell.Screen
	mu          sync.Mutex
	initialized bool
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen creates a terminal backend on an existing screen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.initialized = true
	return nil
}

// Present draws every cell with its palette colours. Square buffers take
// two screen columns per cell. Cells past the screen edge are dropped by tcell.
func (t *Terminal) Present(b *core.Buffer) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized {
		return ErrNotInitialized
	}
	if b == nil || b.Destroyed() {
		return core.ErrDestroyed
	}
	cells := b.Cells()

	cols := 1
	if b.Square() {
		cols = 2
	}

	t.screen.Clear()
	width := b.Width()
	for i, c := range cells {
		x, y := (i%width)*cols, i/width
		style := convertCell(c)
		t.screen.SetContent(x, y, c.Rune, nil, style)
		if cols == 2 {
			t.screen.SetContent(x+1, y, ' ', nil, style)
		}
	}
	t.screen.Show()
	return nil
}

// Wait blocks until a key is pressed or ctx is done.
func (t *Terminal) Wait(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort wakeup
		case <-stop:
		}
	}()

	for {
		switch t.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			return nil
		case *tcell.EventInterrupt:
			return ctx.Err()
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *Terminal) Shutdown() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized {
		return nil
	}
	t.initialized = false
	t.screen.Fini()
	return nil
}

// convertCell converts a cell's palette indices to a tcell.Style.
func convertCell(c core.Cell) tcell.Style {
	return tcell.StyleDefault.
		Background(tcell.PaletteColor(int(c.Bg))).
		Foreground(tcell.PaletteColor(int(c.Fg)))
}
