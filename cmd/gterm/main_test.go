package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/gterm/internal/app"
)

func TestParseFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	opts, _, ok := parseFlags([]string{"-width", "30", "-height", "10", "-square", "-backend", "tcell", "-watch", "scene", "a.toml"}, &stdout, &stderr)
	if !ok {
		t.Fatalf("parseFlags() stopped: %s", stderr.String())
	}
	if opts.Width != 30 || opts.Height != 10 {
		t.Errorf("size = %dx%d, want 30x10", opts.Width, opts.Height)
	}
	if opts.Square == nil || !*opts.Square {
		t.Error("Square not set")
	}
	if opts.Backend != "tcell" || !opts.Watch {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Source != (app.Source{Kind: app.SourceScene, Path: "a.toml"}) {
		t.Errorf("Source = %+v", opts.Source)
	}
}

func TestParseFlags_SquareUnset(t *testing.T) {
	opts, _, ok := parseFlags(nil, &bytes.Buffer{}, &bytes.Buffer{})
	if !ok {
		t.Fatal("parseFlags() stopped")
	}
	if opts.Square != nil {
		t.Error("Square set without flag")
	}
	if opts.Source.Kind != app.SourceMandelbrot {
		t.Errorf("Source = %+v, want mandelbrot", opts.Source)
	}
}

func TestParseFlags_Stops(t *testing.T) {
	tests := []struct {
		name string
		args []string
		exit int
	}{
		{"help", []string{"-h"}, 0},
		{"version", []string{"-version"}, 0},
		{"unknown flag", []string{"-nope"}, 2},
		{"negative width", []string{"-width", "-3"}, 2},
		{"unknown source", []string{"video"}, 2},
		{"missing path", []string{"scene"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, exit, ok := parseFlags(tt.args, &bytes.Buffer{}, &bytes.Buffer{})
			if ok {
				t.Fatal("parseFlags() did not stop")
			}
			if exit != tt.exit {
				t.Errorf("exit = %d, want %d", exit, tt.exit)
			}
		})
	}
}

func TestParseFlags_Version(t *testing.T) {
	var stdout bytes.Buffer
	parseFlags([]string{"-v"}, &stdout, &bytes.Buffer{})
	if !strings.HasPrefix(stdout.String(), "gterm dev\n") {
		t.Errorf("version output = %q", stdout.String())
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(path, []byte(`{"width": 3, "height": 1, "ops": [{"op": "text", "x": 0, "y": 0, "text": "ok", "color": 15}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GTERM_LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"scene", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr = %q", code, stderr.String())
	}
	out := stdout.String()
	if !strings.HasPrefix(out, "\x1b[2J\x1b[H") || !strings.HasSuffix(out, "\x1b[0m") {
		t.Errorf("stdout = %q", out)
	}
	if !strings.Contains(out, "o") || !strings.Contains(out, "k") {
		t.Errorf("text missing from %q", out)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_Error(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"scene", filepath.Join(t.TempDir(), "missing.toml")}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Error:") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if !strings.HasSuffix(stdout.String(), "\x1b[0m") {
		t.Errorf("terminal not reset: %q", stdout.String())
	}
}
