package config

import (
	"errors"

	"github.com/dshills/gterm/internal/renderer/ansi"
	"github.com/dshills/gterm/internal/renderer/core"
	"github.com/dshills/gterm/internal/renderer/palette"
)

// Backend names accepted by OutputConfig.Backend.
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// Config holds every gterm setting.
type Config struct {
	Screen  ScreenConfig  `toml:"screen" yaml:"screen"`
	Output  OutputConfig  `toml:"output" yaml:"output"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Script  ScriptConfig  `toml:"script" yaml:"script"`
	Watch   WatchConfig   `toml:"watch" yaml:"watch"`
}

// ScreenConfig describes the cell buffer.
type ScreenConfig struct {
	// Width and Height of the buffer in cells. Zero means derive from the
	// terminal, falling back to DefaultWidth x DefaultHeight.
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
	// Square doubles every cell horizontally.
	Square bool `toml:"square" yaml:"square"`
	// Background is the initial fill colour: index, name or "#rrggbb".
	Background string `toml:"background" yaml:"background"`
}

// OutputConfig selects the presentation target.
type OutputConfig struct {
	// Backend is "ansi" (escape stream on stdout) or "tcell".
	Backend string `toml:"backend" yaml:"backend"`
	// Charset is "utf-8" or "cp437"; ansi backend only.
	Charset string `toml:"charset" yaml:"charset"`
	// Hold keeps a tcell screen up until a key is pressed. Without it the
	// picture is torn down as soon as it is drawn.
	Hold bool `toml:"hold" yaml:"hold"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`
	// File receives log lines; empty means stderr.
	File string `toml:"file" yaml:"file"`
}

// ScriptConfig limits Lua scene scripts.
type ScriptConfig struct {
	// CallLimit aborts a script after this many gt calls. Zero disables it.
	CallLimit int64 `toml:"call_limit" yaml:"call_limit"`
	// TimeoutMS aborts a script after this much wall time. Zero disables it.
	TimeoutMS int `toml:"timeout_ms" yaml:"timeout_ms"`
}

// WatchConfig configures live re-rendering.
type WatchConfig struct {
	// Enabled re-renders when the source file changes.
	Enabled bool `toml:"enabled" yaml:"enabled"`
	// DebounceMS coalesces bursts of file events.
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms"`
}

// Default sizes used when neither config nor terminal provide one.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Screen: ScreenConfig{
			Background: "black",
		},
		Output: OutputConfig{
			Backend: BackendANSI,
			Charset: "utf-8",
			Hold:    true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Script: ScriptConfig{
			CallLimit: 10_000_000,
			TimeoutMS: 10_000,
		},
		Watch: WatchConfig{
			DebounceMS: 100,
		},
	}
}

// BackgroundIndex resolves Screen.Background to a palette index.
func (c *Config) BackgroundIndex() (uint8, error) {
	return palette.Parse(c.Screen.Background)
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error

	if c.Screen.Width < 0 {
		errs = append(errs, &ValidationError{Path: "screen.width", Value: c.Screen.Width, Message: "must not be negative"})
	}
	if c.Screen.Height < 0 {
		errs = append(errs, &ValidationError{Path: "screen.height", Value: c.Screen.Height, Message: "must not be negative"})
	}
	if c.Screen.Width > 0 && c.Screen.Height > 0 && c.Screen.Width > core.MaxCells/c.Screen.Height {
		errs = append(errs, &ValidationError{Path: "screen", Value: c.Screen.Width * c.Screen.Height, Message: "too many cells"})
	}
	if _, err := c.BackgroundIndex(); err != nil {
		errs = append(errs, &ValidationError{Path: "screen.background", Value: c.Screen.Background, Message: err.Error()})
	}

	switch c.Output.Backend {
	case BackendANSI, BackendTcell:
	default:
		errs = append(errs, &ValidationError{Path: "output.backend", Value: c.Output.Backend, Message: "must be ansi or tcell"})
	}
	if _, err := ansi.ParseCharset(c.Output.Charset); err != nil {
		errs = append(errs, &ValidationError{Path: "output.charset", Value: c.Output.Charset, Message: err.Error()})
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, &ValidationError{Path: "logging.level", Value: c.Logging.Level, Message: "must be debug, info, warn, or error"})
	}

	if c.Script.CallLimit < 0 {
		errs = append(errs, &ValidationError{Path: "script.call_limit", Value: c.Script.CallLimit, Message: "must not be negative"})
	}
	if c.Script.TimeoutMS < 0 {
		errs = append(errs, &ValidationError{Path: "script.timeout_ms", Value: c.Script.TimeoutMS, Message: "must not be negative"})
	}
	if c.Watch.DebounceMS < 0 {
		errs = append(errs, &ValidationError{Path: "watch.debounce_ms", Value: c.Watch.DebounceMS, Message: "must not be negative"})
	}

	return errors.Join(errs...)
}
