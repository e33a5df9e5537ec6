package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gterm/internal/renderer/core"
)

// Default limits for a script run.
const (
	DefaultCallLimit = 10_000_000
	DefaultTimeout   = 10 * time.Second
)

// State wraps a sandboxed gopher-lua state bound to one buffer.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes runs.
type State struct {
	L *lua.LState

	mu     sync.Mutex
	buf    *core.Buffer
	closed bool

	callLimit int64
	calls     int64
	limitHit  bool
	stop      context.CancelFunc
	timeout   time.Duration
	print     func(string)

	errMeta *lua.LTable
}

// Option configures a State.
type Option func(*State)

// WithCallLimit bounds the number of gt calls per run. Zero disables it.
func WithCallLimit(n int64) Option {
	return func(s *State) {
		s.callLimit = n
	}
}

// WithTimeout bounds the wall time of a run. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *State) {
		s.timeout = d
	}
}

// WithPrint receives every line the script prints.
func WithPrint(fn func(string)) Option {
	return func(s *State) {
		s.print = fn
	}
}

// NewState creates a sandboxed state drawing into b.
func NewState(b *core.Buffer, opts ...Option) *State {
	s := &State{
		buf:       b,
		callLimit: DefaultCallLimit,
		timeout:   DefaultTimeout,
		print:     func(string) {},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	openSafeLibraries(s.L)
	s.installSandbox()
	s.installAPI()

	return s
}

// openSafeLibraries opens only the libraries scripts may use.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// installSandbox removes file access and redirects print.
func (s *State) installSandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		s.print(strings.Join(parts, "\t"))
		return 0
	}))

	s.errMeta = s.L.NewTable()
	s.L.SetField(s.errMeta, "__tostring", s.L.NewFunction(func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		if err, ok := ud.Value.(error); ok {
			L.Push(lua.LString(err.Error()))
		} else {
			L.Push(lua.LString("script error"))
		}
		return 1
	}))
}

// raise aborts the current gt call with a Go error. The error travels as
// userdata so Run can hand the original value back to the caller.
func (s *State) raise(L *lua.LState, err error) {
	ud := L.NewUserData()
	ud.Value = err
	L.SetMetatable(ud, s.errMeta)
	L.Error(ud, 1)
}

// Run executes code. chunk names the script in errors.
func (s *State) Run(ctx context.Context, chunk, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	ctx, stop := context.WithCancel(ctx)
	defer stop()
	s.stop = stop
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()
	s.calls = 0
	s.limitHit = false

	fn, err := s.L.Load(strings.NewReader(code), chunk)
	if err != nil {
		return &Error{Chunk: chunk, Err: err}
	}

	s.L.Push(fn)
	if err := s.pcall(); err != nil {
		if s.limitHit {
			return &Error{Chunk: chunk, Err: ErrCallLimit}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &Error{Chunk: chunk, Err: ctxErr}
		}
		return &Error{Chunk: chunk, Err: unwrapLuaError(err)}
	}
	return nil
}

// RunFile reads and executes the script at path.
func (s *State) RunFile(ctx context.Context, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script %s: %w", path, err)
	}
	return s.Run(ctx, path, string(code))
}

// pcall calls the function on top of the stack with panic recovery.
func (s *State) pcall() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return s.L.PCall(0, 0, nil)
}

// unwrapLuaError returns the Go error carried by a raised gt error, or err.
func unwrapLuaError(err error) error {
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		return err
	}
	if ud, ok := apiErr.Object.(*lua.LUserData); ok {
		if goErr, ok := ud.Value.(error); ok {
			return goErr
		}
	}
	return err
}

// Calls returns the number of gt calls made by the last run.
func (s *State) Calls() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Close releases the Lua state. The buffer is not touched.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}

// Run executes code against b in a fresh state.
func Run(ctx context.Context, b *core.Buffer, chunk, code string, opts ...Option) error {
	s := NewState(b, opts...)
	defer s.Close()
	return s.Run(ctx, chunk, code)
}

// RunFile executes the script at path against b in a fresh state.
func RunFile(ctx context.Context, b *core.Buffer, path string, opts ...Option) error {
	s := NewState(b, opts...)
	defer s.Close()
	return s.RunFile(ctx, path)
}
