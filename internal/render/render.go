// Package render turns a wafer map into drawing requests and hands them to a
// Canvas. Backends live in the ggrender and cvrender sub-packages.
package render

import (
	"fmt"

	"wafermap/internal/outline"
	"wafermap/pkg/geometry"
)

// RectRequest draws one die.
type RectRequest struct {
	Origin    geometry.Point2D
	Width     float64
	Height    float64
	Face      string
	Edge      string
	Hatch     string
	LineWidth float64
}

// Bounds returns the die rectangle.
func (r RectRequest) Bounds() geometry.Rect {
	return geometry.NewRect(r.Origin.X, r.Origin.Y, r.Width, r.Height)
}

// PathRequest draws a closed outline path.
type PathRequest struct {
	Points    []geometry.Point2D
	Commands  []outline.Command
	Face      string
	Edge      string
	LineWidth float64
}

// CircleRequest draws a circular outline.
type CircleRequest struct {
	Center    geometry.Point2D
	Radius    float64
	Face      string
	Edge      string
	LineWidth float64
}

// LabelRequest draws text centered on a point.
type LabelRequest struct {
	Center geometry.Point2D
	Text   string
	Color  string
	Size   float64 // Font size in points
}

// Canvas consumes drawing requests in world coordinates.
type Canvas interface {
	DrawRect(RectRequest) error
	DrawPath(PathRequest) error
	DrawCircle(CircleRequest) error
	DrawLabel(LabelRequest) error
}

// Scene is everything needed to draw one wafer map.
type Scene struct {
	Bounds   geometry.Rect // View bounds in world coordinates
	Circle   *CircleRequest
	Path     *PathRequest
	Rects    []RectRequest
	Labels   []LabelRequest
	Warnings []Warning
}

// Empty reports whether the scene holds no dies.
func (s Scene) Empty() bool {
	return len(s.Rects) == 0
}

// Draw sends the scene to the canvas: the outline first, then the dies,
// then the labels.
func Draw(c Canvas, s Scene) error {
	if s.Circle != nil {
		if err := c.DrawCircle(*s.Circle); err != nil {
			return fmt.Errorf("draw outline: %w", err)
		}
	}
	if s.Path != nil {
		if err := c.DrawPath(*s.Path); err != nil {
			return fmt.Errorf("draw outline: %w", err)
		}
	}
	for _, r := range s.Rects {
		if err := c.DrawRect(r); err != nil {
			return fmt.Errorf("draw die at %v: %w", r.Origin, err)
		}
	}
	for _, l := range s.Labels {
		if err := c.DrawLabel(l); err != nil {
			return fmt.Errorf("draw label %q: %w", l.Text, err)
		}
	}
	return nil
}
