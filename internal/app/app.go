// Package app wires configuration, logging, a picture source and a
// presentation backend into one run of gterm.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/gterm/internal/config"
	"github.com/dshills/gterm/internal/demo"
	"github.com/dshills/gterm/internal/renderer/ansi"
	"github.com/dshills/gterm/internal/renderer/backend"
	"github.com/dshills/gterm/internal/renderer/core"
	"github.com/dshills/gterm/internal/watcher"
)

// Application renders one source to one backend.
type Application struct {
	opts    Options
	cfg     *config.Config
	logger  *Logger
	logFile io.Closer
	backend backend.Backend
	runID   string

	// Resolved buffer geometry.
	width, height int
	sizeFixed     bool
	background    uint8

	running atomic.Bool
}

// Options configures the application. Flag-level overrides are applied on
// top of the config file and the environment.
type Options struct {
	// ConfigPath is the TOML or YAML configuration file. Empty uses defaults.
	ConfigPath string

	// Source is the picture to draw.
	Source Source

	// Width and Height override the configured size when positive.
	Width, Height int
	// Square overrides the configured cell shape when non-nil.
	Square *bool
	// Backend overrides output.backend when non-empty.
	Backend string
	// Watch re-renders when the source file changes.
	Watch bool
	// LogLevel overrides logging.level when non-empty.
	LogLevel string

	// TermWidth and TermHeight are the terminal size in columns and rows,
	// used when no width or height is configured. Zero means unknown.
	TermWidth, TermHeight int

	// Stdout receives the escape stream. Defaults to os.Stdout.
	Stdout io.Writer
	// LogOutput receives log lines when logging.file is unset. Defaults to
	// os.Stderr.
	LogOutput io.Writer
	// Lookup reads environment overrides. Defaults to os.LookupEnv.
	Lookup config.LookupFunc
	// NewBackend replaces backend construction, mainly for tests.
	NewBackend func(cfg *config.Config) (backend.Backend, error)
}

// New loads configuration, sets up logging and creates the backend. The
// backend is not initialized until Run.
func New(opts Options) (*Application, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Source.Kind == "" {
		opts.Source.Kind = SourceMandelbrot
	}

	app := &Application{
		opts:  opts,
		runID: uuid.NewString(),
	}

	if err := app.loadConfig(); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	if err := app.setupLogging(); err != nil {
		return nil, &InitError{Component: "logging", Err: err}
	}
	app.resolveGeometry()

	newBackend := opts.NewBackend
	if newBackend == nil {
		newBackend = app.defaultBackend
	}
	b, err := newBackend(app.cfg)
	if err != nil {
		app.Close()
		return nil, &InitError{Component: "backend", Err: err}
	}
	app.backend = b

	app.logger.Debug("configured %dx%d square=%v backend=%s source=%s",
		app.width, app.height, app.cfg.Screen.Square, app.cfg.Output.Backend, opts.Source)
	return app, nil
}

func (app *Application) loadConfig() error {
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(cfg, app.opts.Lookup); err != nil {
		return err
	}

	if app.opts.Width > 0 {
		cfg.Screen.Width = app.opts.Width
	}
	if app.opts.Height > 0 {
		cfg.Screen.Height = app.opts.Height
	}
	if app.opts.Square != nil {
		cfg.Screen.Square = *app.opts.Square
	}
	if app.opts.Backend != "" {
		cfg.Output.Backend = app.opts.Backend
	}
	if app.opts.LogLevel != "" {
		cfg.Logging.Level = app.opts.LogLevel
	}
	if app.opts.Watch {
		cfg.Watch.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	app.cfg = cfg
	return nil
}

func (app *Application) setupLogging() error {
	out := app.opts.LogOutput
	if path := app.cfg.Logging.File; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		app.logFile = f
		out = f
	}

	cfg := DefaultLoggerConfig()
	cfg.Level = ParseLogLevel(app.cfg.Logging.Level)
	cfg.Output = out
	app.logger = NewLogger(cfg).WithField("run", app.runID[:8])
	return nil
}

// resolveGeometry picks the buffer size: configured values first, then the
// terminal, then the built-in defaults. Square cells take two columns. The
// Mandelbrot demo with nothing to size it draws at its own 100x75 square
// geometry.
func (app *Application) resolveGeometry() {
	app.background, _ = app.cfg.BackgroundIndex()
	if app.opts.Source.Kind == SourceMandelbrot && app.cfg.Screen.Width == 0 && app.cfg.Screen.Height == 0 &&
		app.opts.TermWidth == 0 && app.opts.TermHeight == 0 {
		app.cfg.Screen.Square = demo.Square
		app.width, app.height = demo.Width, demo.Height
		return
	}

	screen := app.cfg.Screen
	app.sizeFixed = screen.Width > 0 && screen.Height > 0

	app.width = screen.Width
	if app.width == 0 {
		app.width = config.DefaultWidth
		if cols := app.opts.TermWidth; cols > 0 {
			app.width = cols
			if screen.Square {
				app.width = max(cols/2, 1)
			}
		}
	}

	app.height = screen.Height
	if app.height == 0 {
		app.height = config.DefaultHeight
		// Keep one row free for the shell prompt.
		if rows := app.opts.TermHeight; rows > 1 {
			app.height = rows - 1
		}
	}
}

func (app *Application) defaultBackend(cfg *config.Config) (backend.Backend, error) {
	switch cfg.Output.Backend {
	case config.BackendTcell:
		t, err := backend.NewTerminal()
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		charset, err := ansi.ParseCharset(cfg.Output.Charset)
		if err != nil {
			return nil, err
		}
		return backend.NewStream(app.opts.Stdout, ansi.WithCharset(charset)), nil
	}
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	if app.logger == nil {
		return NullLogger
	}
	return app.logger
}

// Size returns the resolved buffer size.
func (app *Application) Size() (width, height int) {
	return app.width, app.height
}

// RunID identifies this run in log lines.
func (app *Application) RunID() string {
	return app.runID
}

// Run draws the source and presents it. With watching enabled it keeps
// re-presenting on every change until ctx is cancelled. The backend is shut
// down on every exit path, including a failed first render.
func (app *Application) Run(ctx context.Context) (err error) {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer func() {
		if shutdownErr := app.backend.Shutdown(); shutdownErr != nil {
			app.logger.Error("backend shutdown: %v", shutdownErr)
			if err == nil {
				err = shutdownErr
			}
		}
	}()

	start := time.Now()
	if err := app.present(ctx); err != nil {
		return err
	}
	app.logger.Info("presented %s in %v", app.opts.Source, time.Since(start).Round(time.Millisecond))

	if app.cfg.Watch.Enabled && app.opts.Source.Watchable() {
		return app.watch(ctx)
	}

	if w, ok := app.backend.(backend.Waiter); ok && app.cfg.Output.Hold {
		if err := w.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	return nil
}

// present renders one frame and hands it to the backend.
func (app *Application) present(ctx context.Context) error {
	b, err := app.render(ctx)
	if err != nil {
		return err
	}
	defer b.Destroy()

	if err := app.backend.Present(b); err != nil {
		return fmt.Errorf("presenting frame: %w", err)
	}
	return nil
}

// watch re-presents the source whenever its file changes. Render failures
// are logged and the previous frame stays on screen.
func (app *Application) watch(ctx context.Context) error {
	log := app.logger.WithComponent("watch")

	w, err := watcher.New(watcher.WithDelay(time.Duration(app.cfg.Watch.DebounceMS) * time.Millisecond))
	if err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	defer w.Close()

	if err := w.Watch(app.opts.Source.Path); err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	log.Info("watching %s", app.opts.Source.Path)

	// An interactive backend owns the keyboard; a key press ends the watch.
	if waiter, ok := app.backend.(backend.Waiter); ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		go func() {
			_ = waiter.Wait(ctx)
			cancel()
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			log.Debug("change %s", ev.Op)
			if ev.Op.Has(watcher.OpRemove) || ev.Op.Has(watcher.OpRename) {
				if _, statErr := os.Stat(ev.Path); statErr != nil {
					log.Warn("%s is gone; waiting for it to return", ev.Path)
					continue
				}
			}
			if err := app.present(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				var renderErr *RenderError
				if !errors.As(err, &renderErr) {
					return err
				}
				log.Error("%v", err)
				continue
			}
			log.Info("re-rendered %s", app.opts.Source)

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			log.Warn("watcher: %v", err)
		}
	}
}

// Close releases the log file, if any.
func (app *Application) Close() error {
	if app.logFile == nil {
		return nil
	}
	err := app.logFile.Close()
	app.logFile = nil
	return err
}

// Frame renders the source without presenting it. The caller owns the
// buffer.
func (app *Application) Frame(ctx context.Context) (*core.Buffer, error) {
	return app.render(ctx)
}
