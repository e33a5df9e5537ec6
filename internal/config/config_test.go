package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// memFS is an in-memory FileSystem for tests.
type memFS struct {
	files map[string]string
	err   error
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	content, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(content), nil
}

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if c.Output.Backend != BackendANSI {
		t.Errorf("Backend = %q, want %q", c.Output.Backend, BackendANSI)
	}
	if c.Logging.Level != "info" {
		t.Errorf("Level = %q, want info", c.Logging.Level)
	}
	idx, err := c.BackgroundIndex()
	if err != nil || idx != 0 {
		t.Errorf("BackgroundIndex() = %d, %v; want 0, nil", idx, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"explicit size", func(c *Config) { c.Screen.Width, c.Screen.Height = 100, 75 }, true},
		{"negative width", func(c *Config) { c.Screen.Width = -1 }, false},
		{"negative height", func(c *Config) { c.Screen.Height = -1 }, false},
		{"too many cells", func(c *Config) { c.Screen.Width, c.Screen.Height = 1<<14, 1<<14 }, false},
		{"hex background", func(c *Config) { c.Screen.Background = "#ff0000" }, true},
		{"bad background", func(c *Config) { c.Screen.Background = "mauve-ish" }, false},
		{"tcell backend", func(c *Config) { c.Output.Backend = BackendTcell }, true},
		{"bad backend", func(c *Config) { c.Output.Backend = "sixel" }, false},
		{"cp437", func(c *Config) { c.Output.Charset = "cp437" }, true},
		{"bad charset", func(c *Config) { c.Output.Charset = "ebcdic" }, false},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, false},
		{"negative limit", func(c *Config) { c.Script.CallLimit = -5 }, false},
		{"negative timeout", func(c *Config) { c.Script.TimeoutMS = -1 }, false},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMS = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)
			err := c.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.Is(err, ErrValidationFailed) {
					t.Errorf("error %v does not wrap ErrValidationFailed", err)
				}
			}
		})
	}
}

func TestValidate_JoinsAllFailures(t *testing.T) {
	c := Default()
	c.Screen.Width = -1
	c.Output.Backend = "nope"

	err := c.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error %v is not a ValidationError", err)
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || len(joined.Unwrap()) != 2 {
		t.Errorf("expected 2 joined errors, got %v", err)
	}
}

func TestLoader_TOML(t *testing.T) {
	fsys := &memFS{files: map[string]string{
		"/cfg/gterm.toml": `
[screen]
width = 100
height = 75
square = true

[output]
backend = "tcell"

[logging]
level = "debug"
`,
	}}

	c, err := NewLoaderWithFS(fsys).Load("/cfg/gterm.toml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Screen.Width != 100 || c.Screen.Height != 75 || !c.Screen.Square {
		t.Errorf("Screen = %+v", c.Screen)
	}
	if c.Output.Backend != BackendTcell {
		t.Errorf("Backend = %q, want tcell", c.Output.Backend)
	}
	if c.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", c.Logging.Level)
	}
	// Untouched fields keep their defaults.
	if c.Output.Charset != "utf-8" {
		t.Errorf("Charset = %q, want utf-8", c.Output.Charset)
	}
	if c.Script.CallLimit != Default().Script.CallLimit {
		t.Errorf("CallLimit = %d, want default", c.Script.CallLimit)
	}
}

func TestLoader_YAML(t *testing.T) {
	fsys := &memFS{files: map[string]string{
		"gterm.yaml": `
screen:
  width: 40
  background: blue
watch:
  enabled: true
  debounce_ms: 250
`,
	}}

	c, err := NewLoaderWithFS(fsys).Load("gterm.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Screen.Width != 40 || c.Screen.Background != "blue" {
		t.Errorf("Screen = %+v", c.Screen)
	}
	if !c.Watch.Enabled || c.Watch.DebounceMS != 250 {
		t.Errorf("Watch = %+v", c.Watch)
	}
	if c.Output.Backend != BackendANSI {
		t.Errorf("Backend = %q, want default", c.Output.Backend)
	}
}

func TestLoader_EmptyYAML(t *testing.T) {
	fsys := &memFS{files: map[string]string{"empty.yml": ""}}
	c, err := NewLoaderWithFS(fsys).Load("empty.yml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Output.Backend != BackendANSI {
		t.Errorf("Backend = %q, want default", c.Output.Backend)
	}
}

func TestLoader_MissingFile(t *testing.T) {
	c, err := NewLoaderWithFS(&memFS{}).Load("/nope/gterm.toml")
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for missing file", err)
	}
	if c == nil {
		t.Fatal("Load() returned nil config")
	}
}

func TestLoader_EmptyPath(t *testing.T) {
	c, err := NewLoaderWithFS(&memFS{err: errors.New("should not read")}).Load("")
	if err != nil || c == nil {
		t.Fatalf("Load(\"\") = %v, %v", c, err)
	}
}

func TestLoader_ReadError(t *testing.T) {
	readErr := errors.New("permission denied")
	_, err := NewLoaderWithFS(&memFS{err: readErr}).Load("gterm.toml")
	if !errors.Is(err, readErr) {
		t.Errorf("Load() error = %v, want wrapped %v", err, readErr)
	}
}

func TestLoader_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
	}{
		{"toml syntax", "bad.toml", "[screen\nwidth = 1"},
		{"toml unknown key", "bad.toml", "[screen]\ncolour = 3"},
		{"toml wrong type", "bad.toml", "[screen]\nwidth = \"wide\""},
		{"yaml syntax", "bad.yaml", "screen: [1, 2"},
		{"yaml unknown key", "bad.yaml", "screen:\n  colour: 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := &memFS{files: map[string]string{tt.path: tt.content}}
			_, err := NewLoaderWithFS(fsys).Load(tt.path)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Load() error = %v, want *ParseError", err)
			}
			if pe.Path != tt.path {
				t.Errorf("ParseError.Path = %q, want %q", pe.Path, tt.path)
			}
			if pe.Unwrap() == nil {
				t.Error("ParseError.Unwrap() = nil")
			}
		})
	}
}

func TestLoader_UnsupportedFormat(t *testing.T) {
	fsys := &memFS{files: map[string]string{"gterm.ini": "width=3"}}
	_, err := NewLoaderWithFS(fsys).Load("gterm.ini")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoad_OSFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gterm.toml")
	if err := os.WriteFile(path, []byte("[screen]\nheight = 12\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Screen.Height != 12 {
		t.Errorf("Height = %d, want 12", c.Screen.Height)
	}
}

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Path: "a.toml", Message: "bad"}, "a.toml: bad"},
		{&ParseError{Path: "a.toml", Line: 3, Message: "bad"}, "a.toml:3: bad"},
		{&ParseError{Path: "a.toml", Line: 3, Column: 7, Message: "bad"}, "a.toml:3:7: bad"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
