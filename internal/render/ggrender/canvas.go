// Package ggrender draws wafer map scenes with the gg 2D renderer.
package ggrender

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/tiff"

	"wafermap/internal/render"
	"wafermap/pkg/colorutil"
)

// Options tunes the canvas.
type Options struct {
	Background string  // Image background, "none" for transparent
	PointScale float64 // Pixels per typographic point and per line-width unit
	HatchLines float64 // Hatch lines across one die height
}

// DefaultOptions returns a white background at roughly 100 dpi.
func DefaultOptions() Options {
	return Options{
		Background: "white",
		PointScale: 100.0 / 72.0,
		HatchLines: 6,
	}
}

// Canvas implements render.Canvas on a gg context.
type Canvas struct {
	dc     *gg.Context
	view   render.Viewport
	opts   Options
	source *text.FontSource
	faces  map[float64]text.Face
}

// New creates a canvas sized by the viewport.
func New(view render.Viewport, opts Options) (*Canvas, error) {
	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("ggrender: load label font: %w", err)
	}

	dc := gg.NewContext(view.Width, view.Height)
	if bg, ok := colorutil.Resolve(opts.Background); ok && bg.A > 0 {
		dc.ClearWithColor(gg.FromColor(bg))
	}

	render.Logger().Debug("ggrender: canvas created", "width", view.Width, "height", view.Height)
	return &Canvas{
		dc:     dc,
		view:   view,
		opts:   opts,
		source: source,
		faces:  make(map[float64]text.Face),
	}, nil
}

// Close releases the context and font.
func (c *Canvas) Close() error {
	err := c.dc.Close()
	if ferr := c.source.Close(); err == nil {
		err = ferr
	}
	return err
}

// Image returns the rendered image.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// DrawRect fills, hatches and outlines one die.
func (c *Canvas) DrawRect(r render.RectRequest) error {
	px := c.view.RectToPixel(r.Bounds())

	if fill, ok := c.color(r.Face); ok {
		c.dc.SetColor(fill)
		c.dc.DrawRectangle(px.X, px.Y, px.Width, px.Height)
		if err := c.dc.Fill(); err != nil {
			return err
		}
	}

	edge, edgeOK := c.color(r.Edge)
	if r.Hatch != "" && edgeOK {
		if render.HasUnsupportedHatch(r.Hatch) {
			render.Logger().Debug("ggrender: ignoring unsupported hatch characters", "hatch", r.Hatch)
		}
		segs := render.HatchSegments(r.Bounds(), r.Hatch, r.Height/c.opts.HatchLines)
		c.dc.SetColor(edge)
		c.dc.SetLineWidth(c.opts.PointScale)
		for _, s := range segs {
			a, b := c.view.ToPixel(s.A), c.view.ToPixel(s.B)
			c.dc.DrawLine(a.X, a.Y, b.X, b.Y)
			if err := c.dc.Stroke(); err != nil {
				return err
			}
		}
	}

	if edgeOK && r.LineWidth > 0 {
		c.dc.SetColor(edge)
		c.dc.SetLineWidth(r.LineWidth * c.opts.PointScale)
		c.dc.DrawRectangle(px.X, px.Y, px.Width, px.Height)
		if err := c.dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

// DrawPath fills and strokes a closed outline.
func (c *Canvas) DrawPath(p render.PathRequest) error {
	if len(p.Points) == 0 {
		return nil
	}
	trace := func() {
		for i, pt := range p.Points {
			q := c.view.ToPixel(pt)
			if i == 0 {
				c.dc.MoveTo(q.X, q.Y)
				continue
			}
			c.dc.LineTo(q.X, q.Y)
		}
		c.dc.ClosePath()
	}
	return c.fillStroke(trace, p.Face, p.Edge, p.LineWidth)
}

// DrawCircle fills and strokes a circular outline.
func (c *Canvas) DrawCircle(ci render.CircleRequest) error {
	center := c.view.ToPixel(ci.Center)
	radius := c.view.Length(ci.Radius)
	trace := func() {
		c.dc.DrawCircle(center.X, center.Y, radius)
	}
	return c.fillStroke(trace, ci.Face, ci.Edge, ci.LineWidth)
}

// DrawLabel draws text centered on the request point.
func (c *Canvas) DrawLabel(l render.LabelRequest) error {
	col, ok := c.color(l.Color)
	if !ok || l.Text == "" {
		return nil
	}
	size := l.Size * c.opts.PointScale
	face, found := c.faces[size]
	if !found {
		face = c.source.Face(size)
		c.faces[size] = face
	}
	at := c.view.ToPixel(l.Center)
	c.dc.SetFont(face)
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(l.Text, at.X, at.Y, 0.5, 0.5)
	return nil
}

func (c *Canvas) fillStroke(trace func(), face, edge string, lw float64) error {
	if fill, ok := c.color(face); ok {
		c.dc.SetColor(fill)
		trace()
		if err := c.dc.Fill(); err != nil {
			return err
		}
	}
	if stroke, ok := c.color(edge); ok && lw > 0 {
		c.dc.SetColor(stroke)
		c.dc.SetLineWidth(lw * c.opts.PointScale)
		trace()
		if err := c.dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

// color resolves a style string. Invisible and unknown styles report false;
// unknown ones are logged.
func (c *Canvas) color(style string) (color.RGBA, bool) {
	col, ok := colorutil.Resolve(style)
	if !ok {
		render.Logger().Warn("ggrender: unknown color, skipping", "style", style)
		return color.RGBA{}, false
	}
	return col, col.A > 0
}

// Encode writes the image in the given format: "png", "tif"/"tiff" or
// "jpg"/"jpeg".
func (c *Canvas) Encode(w io.Writer, format string) error {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "png":
		return c.dc.EncodePNG(w)
	case "tif", "tiff":
		return tiff.Encode(w, c.dc.Image(), &tiff.Options{Compression: tiff.Deflate})
	case "jpg", "jpeg":
		return c.dc.EncodeJPEG(w, 95)
	}
	return fmt.Errorf("ggrender: unsupported image format %q", format)
}

// Save writes the image to path, picking the format from the extension.
func (c *Canvas) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Encode(f, filepath.Ext(path)); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("ggrender: save %s: %w", path, err)
	}
	return f.Close()
}

// Render plots the scene on a new canvas width pixels wide.
func Render(scene render.Scene, width int, opts Options) (*Canvas, error) {
	view, err := render.NewViewport(scene.Bounds, width)
	if err != nil {
		return nil, err
	}
	c, err := New(view, opts)
	if err != nil {
		return nil, err
	}
	if err := render.Draw(c, scene); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

var _ render.Canvas = (*Canvas)(nil)
