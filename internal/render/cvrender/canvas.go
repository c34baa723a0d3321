// Package cvrender draws wafer map scenes into an OpenCV matrix.
package cvrender

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"wafermap/internal/render"
	"wafermap/pkg/colorutil"
	"wafermap/pkg/geometry"
)

// Canvas implements render.Canvas on a BGR gocv.Mat. Alpha is ignored:
// any visible color is drawn opaque.
type Canvas struct {
	mat  gocv.Mat
	view render.Viewport

	// PointScale converts line widths and font sizes to pixels.
	PointScale float64
	// HatchLines is the number of hatch lines across one die height.
	HatchLines float64
}

// New creates a canvas filled with background.
func New(view render.Viewport, background string) *Canvas {
	bg, ok := colorutil.Resolve(background)
	if !ok || bg.A == 0 {
		bg = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	mat := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(bg.B), float64(bg.G), float64(bg.R), 0),
		view.Height, view.Width, gocv.MatTypeCV8UC3)
	return &Canvas{
		mat:        mat,
		view:       view,
		PointScale: 100.0 / 72.0,
		HatchLines: 6,
	}
}

// Close releases the matrix.
func (c *Canvas) Close() error {
	return c.mat.Close()
}

// Mat returns the underlying matrix. It stays owned by the canvas.
func (c *Canvas) Mat() gocv.Mat {
	return c.mat
}

// Image converts the matrix to an image.
func (c *Canvas) Image() (image.Image, error) {
	return c.mat.ToImage()
}

// DrawRect fills, hatches and outlines one die.
func (c *Canvas) DrawRect(r render.RectRequest) error {
	px := c.view.RectToPixel(r.Bounds())
	rect := image.Rect(
		int(math.Round(px.X)),
		int(math.Round(px.Y)),
		int(math.Round(px.X+px.Width)),
		int(math.Round(px.Y+px.Height)),
	)

	if fill, ok := c.color(r.Face); ok {
		gocv.Rectangle(&c.mat, rect, fill, -1)
	}

	edge, edgeOK := c.color(r.Edge)
	if r.Hatch != "" && edgeOK {
		for _, s := range render.HatchSegments(r.Bounds(), r.Hatch, r.Height/c.HatchLines) {
			gocv.Line(&c.mat, c.point(s.A), c.point(s.B), edge, 1)
		}
	}
	if edgeOK && r.LineWidth > 0 {
		gocv.Rectangle(&c.mat, rect, edge, c.thickness(r.LineWidth))
	}
	return nil
}

// DrawPath fills and strokes a closed outline.
func (c *Canvas) DrawPath(p render.PathRequest) error {
	if len(p.Points) == 0 {
		return nil
	}
	pts := make([]image.Point, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = c.point(pt)
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()

	if fill, ok := c.color(p.Face); ok {
		gocv.FillPoly(&c.mat, pv, fill)
	}
	if edge, ok := c.color(p.Edge); ok && p.LineWidth > 0 {
		gocv.Polylines(&c.mat, pv, true, edge, c.thickness(p.LineWidth))
	}
	return nil
}

// DrawCircle fills and strokes a circular outline.
func (c *Canvas) DrawCircle(ci render.CircleRequest) error {
	center := c.point(ci.Center)
	radius := int(math.Round(c.view.Length(ci.Radius)))
	if fill, ok := c.color(ci.Face); ok {
		gocv.Circle(&c.mat, center, radius, fill, -1)
	}
	if edge, ok := c.color(ci.Edge); ok && ci.LineWidth > 0 {
		gocv.Circle(&c.mat, center, radius, edge, c.thickness(ci.LineWidth))
	}
	return nil
}

// DrawLabel draws text centered on the request point with the Hershey
// simplex font.
func (c *Canvas) DrawLabel(l render.LabelRequest) error {
	col, ok := c.color(l.Color)
	if !ok || l.Text == "" {
		return nil
	}
	// Hershey glyphs are about 22 px tall at scale 1.
	scale := l.Size * c.PointScale / 22
	size := gocv.GetTextSize(l.Text, gocv.FontHersheySimplex, scale, 1)
	at := c.point(l.Center)
	org := image.Pt(at.X-size.X/2, at.Y+size.Y/2)
	gocv.PutText(&c.mat, l.Text, org, gocv.FontHersheySimplex, scale, col, 1)
	return nil
}

// Save writes the matrix to path; OpenCV picks the format from the extension.
func (c *Canvas) Save(path string) error {
	if ok := gocv.IMWrite(path, c.mat); !ok {
		return fmt.Errorf("cvrender: could not write %s", path)
	}
	return nil
}

func (c *Canvas) point(p geometry.Point2D) image.Point {
	q := c.view.ToPixel(p)
	return image.Pt(int(math.Round(q.X)), int(math.Round(q.Y)))
}

func (c *Canvas) thickness(lw float64) int {
	return max(1, int(math.Round(lw*c.PointScale)))
}

func (c *Canvas) color(style string) (color.RGBA, bool) {
	col, ok := colorutil.Resolve(style)
	if !ok {
		render.Logger().Warn("cvrender: unknown color, skipping", "style", style)
		return color.RGBA{}, false
	}
	if col.A == 0 {
		return col, false
	}
	col.A = 255
	return col, true
}

// Render plots the scene on a new canvas width pixels wide.
func Render(scene render.Scene, width int, background string) (*Canvas, error) {
	view, err := render.NewViewport(scene.Bounds, width)
	if err != nil {
		return nil, err
	}
	c := New(view, background)
	if err := render.Draw(c, scene); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

var _ render.Canvas = (*Canvas)(nil)
