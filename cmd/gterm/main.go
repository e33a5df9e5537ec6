// Package main is the entry point for gterm.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/gterm/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, exit, ok := parseFlags(args, stdout, stderr)
	if !ok {
		return exit
	}
	opts.Stdout = stdout
	opts.LogOutput = stderr

	if f, isFile := stdout.(*os.File); isFile && term.IsTerminal(int(f.Fd())) {
		if cols, rows, err := term.GetSize(int(f.Fd())); err == nil {
			opts.TermWidth, opts.TermHeight = cols, rows
		}
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parseFlags returns the options, or ok=false with the exit code when the
// program should stop (help, version or a usage error).
func parseFlags(args []string, stdout, stderr io.Writer) (opts app.Options, exit int, ok bool) {
	fs := flag.NewFlagSet("gterm", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		showVersion bool
		square      bool
	)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (TOML or YAML)")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.IntVar(&opts.Width, "width", 0, "Buffer width in cells (default: terminal width)")
	fs.IntVar(&opts.Height, "height", 0, "Buffer height in cells (default: terminal height)")
	fs.BoolVar(&square, "square", false, "Draw square cells, two columns each")
	fs.StringVar(&opts.Backend, "backend", "", "Output backend (ansi, tcell)")
	fs.BoolVar(&opts.Watch, "watch", false, "Re-render when the source file changes")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "gterm - draw 256-colour pictures in the terminal\n\n")
		fmt.Fprintf(stderr, "Usage: gterm [options] [source]\n\n")
		fmt.Fprintf(stderr, "Sources:\n")
		fmt.Fprintf(stderr, "  mandelbrot        Built-in fractal (default)\n")
		fmt.Fprintf(stderr, "  scene FILE        TOML, YAML or JSON scene\n")
		fmt.Fprintf(stderr, "  script FILE       Lua script using the gt table\n")
		fmt.Fprintf(stderr, "  image FILE        PNG, JPEG, GIF, BMP, TIFF or WebP image\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  gterm -width 100 -height 75 -square\n")
		fmt.Fprintf(stderr, "  gterm -watch scene picture.toml\n")
		fmt.Fprintf(stderr, "  gterm -backend tcell image photo.png\n")
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return opts, 0, false
		}
		return opts, 2, false
	}

	if showVersion {
		fmt.Fprintf(stdout, "gterm %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, 0, false
	}

	// Only an explicit -square overrides the config file.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "square" {
			opts.Square = &square
		}
	})

	if opts.Width < 0 || opts.Height < 0 {
		fmt.Fprintf(stderr, "Error: width and height must not be negative\n")
		return opts, 2, false
	}

	src, err := app.ParseSource(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fs.Usage()
		return opts, 2, false
	}
	opts.Source = src

	return opts, 0, true
}
