// Package backend provides presentation targets for a cell buffer.
//
// Stream writes the ANSI protocol to any io.Writer, Terminal draws through a
// tcell screen, and NullBackend records frames for tests.
package backend

import (
	"context"
	"errors"
	"sync"

	"github.com/dshills/gterm/internal/renderer/core"
)

// ErrNotInitialized is returned when presenting before Init.
var ErrNotInitialized = errors.New("backend not initialized")

// Backend defines a presentation target.
type Backend interface {
	// Init prepares the target. Must be called before Present.
	Init() error

	// Present shows the full contents of b. The buffer is only read.
	Present(b *core.Buffer) error

	// Shutdown restores the target to its default state.
	// Must run on every exit path once Init has succeeded.
	Shutdown() error
}

// Waiter is implemented by backends that can hold the picture on screen
// until the user dismisses it.
type Waiter interface {
	// Wait blocks until dismissal or until ctx is done.
	Wait(ctx context.Context) error
}

// NullBackend is a backend that records presented frames for testing.
// It is safe for concurrent use.
type NullBackend struct {
	mu          sync.Mutex
	frames      []*core.Buffer
	initialized bool
	shutdown    bool
	presentErr  error
}

// NewNullBackend creates a null backend.
func NewNullBackend() *NullBackend {
	return &NullBackend{}
}

func (b *NullBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initialized = true
	return nil
}

func (b *NullBackend) Present(buf *core.Buffer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return ErrNotInitialized
	}
	if b.presentErr != nil {
		return b.presentErr
	}
	if buf == nil {
		return core.ErrDestroyed
	}
	frame, err := buf.Clone()
	if err != nil {
		return err
	}
	b.frames = append(b.frames, frame)
	return nil
}

func (b *NullBackend) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shutdown = true
	return nil
}

// Frames returns every presented frame.
func (b *NullBackend) Frames() []*core.Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*core.Buffer(nil), b.frames...)
}

// LastFrame returns the most recent frame, or nil.
func (b *NullBackend) LastFrame() *core.Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.frames) == 0 {
		return nil
	}
	return b.frames[len(b.frames)-1]
}

// IsShutdown returns true once Shutdown has been called.
func (b *NullBackend) IsShutdown() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shutdown
}

// FailPresent makes every later Present return err.
func (b *NullBackend) FailPresent(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentErr = err
}
