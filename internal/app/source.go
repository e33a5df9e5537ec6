package app

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/dshills/gterm/internal/demo"
	"github.com/dshills/gterm/internal/imaging"
	"github.com/dshills/gterm/internal/renderer/core"
	"github.com/dshills/gterm/internal/scene"
	"github.com/dshills/gterm/internal/script"
)

// SourceKind names where a picture comes from.
type SourceKind string

// Available sources.
const (
	SourceMandelbrot SourceKind = "mandelbrot"
	SourceScene      SourceKind = "scene"
	SourceScript     SourceKind = "script"
	SourceImage      SourceKind = "image"
)

// Source selects the picture to draw.
type Source struct {
	Kind SourceKind
	// Path is the scene, script or image file.
	Path string
}

func (s Source) String() string {
	if s.Path == "" {
		return string(s.Kind)
	}
	return fmt.Sprintf("%s %s", s.Kind, s.Path)
}

// Watchable reports whether the source reads a file that can change.
func (s Source) Watchable() bool {
	return s.Kind != SourceMandelbrot && s.Path != ""
}

// ParseSource reads command line arguments. No arguments selects the
// Mandelbrot demo.
func ParseSource(args []string) (Source, error) {
	if len(args) == 0 {
		return Source{Kind: SourceMandelbrot}, nil
	}

	kind := SourceKind(args[0])
	switch kind {
	case SourceMandelbrot:
		if len(args) > 1 {
			return Source{}, fmt.Errorf("%s takes no arguments", kind)
		}
		return Source{Kind: kind}, nil
	case SourceScene, SourceScript, SourceImage:
		if len(args) != 2 || args[1] == "" {
			return Source{}, fmt.Errorf("%w: %s FILE", ErrMissingPath, kind)
		}
		return Source{Kind: kind, Path: args[1]}, nil
	default:
		return Source{}, fmt.Errorf("%w %q", ErrUnknownSource, args[0])
	}
}

// render builds a new frame from the configured source. The caller owns
// the returned buffer.
func (app *Application) render(ctx context.Context) (*core.Buffer, error) {
	src := app.opts.Source
	var (
		b   *core.Buffer
		err error
	)
	switch src.Kind {
	case SourceMandelbrot:
		b, err = app.renderMandelbrot(ctx)
	case SourceScene:
		b, err = app.renderScene()
	case SourceScript:
		b, err = app.renderScript(ctx)
	case SourceImage:
		b, err = app.renderImage()
	default:
		err = fmt.Errorf("%w %q", ErrUnknownSource, src.Kind)
	}
	if err != nil {
		return nil, &RenderError{Source: src, Err: err}
	}
	return b, nil
}

// newBuffer allocates a screen-sized buffer filled with the configured
// background.
func (app *Application) newBuffer(width, height int) (*core.Buffer, error) {
	b, err := core.New(width, height, app.cfg.Screen.Square)
	if err != nil {
		return nil, err
	}
	if err := b.Fill(app.background); err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}

func (app *Application) renderMandelbrot(ctx context.Context) (*core.Buffer, error) {
	b, err := app.newBuffer(app.width, app.height)
	if err != nil {
		return nil, err
	}
	if err := demo.Mandelbrot(ctx, b, demo.DefaultView()); err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}

func (app *Application) renderScene() (*core.Buffer, error) {
	s, err := scene.Load(app.opts.Source.Path)
	if err != nil {
		return nil, err
	}
	s.WithDefaults(app.width, app.height, app.cfg.Screen.Background)
	s.Square = s.Square || app.cfg.Screen.Square
	app.logger.Debug("scene %dx%d with %d ops", s.Width, s.Height, len(s.Ops))
	return s.Render()
}

func (app *Application) renderScript(ctx context.Context) (*core.Buffer, error) {
	b, err := app.newBuffer(app.width, app.height)
	if err != nil {
		return nil, err
	}
	log := app.logger.WithComponent("script")
	err = script.RunFile(ctx, b, app.opts.Source.Path,
		script.WithCallLimit(app.cfg.Script.CallLimit),
		script.WithTimeout(time.Duration(app.cfg.Script.TimeoutMS)*time.Millisecond),
		script.WithPrint(func(line string) { log.Info("%s", line) }),
	)
	if err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}

func (app *Application) renderImage() (*core.Buffer, error) {
	img, err := imaging.Load(app.opts.Source.Path)
	if err != nil {
		return nil, err
	}

	width, height := app.width, app.height
	if !app.sizeFixed {
		width, height = fitImage(img, width, height, app.cfg.Screen.Square)
	}

	b, err := app.newBuffer(width, height)
	if err != nil {
		return nil, err
	}
	if err := imaging.Draw(b, img); err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}

func fitImage(img image.Image, maxW, maxH int, square bool) (int, int) {
	size := img.Bounds().Size()
	w, h := imaging.Fit(size.X, size.Y, maxW, maxH, square)
	if w == 0 || h == 0 {
		return maxW, maxH
	}
	return w, h
}
