package render

import (
	"errors"
	"fmt"
	"math"

	"wafermap/pkg/geometry"
)

// ErrEmptyBounds indicates view bounds without area.
var ErrEmptyBounds = errors.New("render: empty view bounds")

// Viewport maps world coordinates (y up) onto a pixel grid (y down) with a
// uniform scale.
type Viewport struct {
	World  geometry.Rect
	Width  int
	Height int

	scale     float64
	transform geometry.AffineTransform
	inverse   geometry.AffineTransform
}

// NewViewport fits world into an image widthPx pixels wide. The height
// follows the world aspect ratio.
func NewViewport(world geometry.Rect, widthPx int) (Viewport, error) {
	if !(world.Width > 0) || !(world.Height > 0) {
		return Viewport{}, fmt.Errorf("%w: %vx%v", ErrEmptyBounds, world.Width, world.Height)
	}
	if widthPx <= 0 {
		return Viewport{}, fmt.Errorf("render: image width %d must be positive", widthPx)
	}

	s := float64(widthPx) / world.Width
	h := max(1, int(math.Round(world.Height*s)))
	t := geometry.Scale(s, -s).Compose(geometry.Translation(-world.X, -(world.Y + world.Height)))
	inv, _ := t.Inverse()
	return Viewport{
		World:     world,
		Width:     widthPx,
		Height:    h,
		scale:     s,
		transform: t,
		inverse:   inv,
	}, nil
}

// Scale returns pixels per world unit.
func (v Viewport) Scale() float64 {
	return v.scale
}

// ToPixel maps a world point to pixel coordinates.
func (v Viewport) ToPixel(p geometry.Point2D) geometry.Point2D {
	return v.transform.Apply(p)
}

// ToWorld maps pixel coordinates back to the world.
func (v Viewport) ToWorld(p geometry.Point2D) geometry.Point2D {
	return v.inverse.Apply(p)
}

// RectToPixel maps a world rectangle to a pixel rectangle anchored at its
// top-left corner.
func (v Viewport) RectToPixel(r geometry.Rect) geometry.Rect {
	a := v.ToPixel(r.Min())
	b := v.ToPixel(r.Max())
	return geometry.NewRect(math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Abs(b.X-a.X), math.Abs(b.Y-a.Y))
}

// Length converts a world length to pixels.
func (v Viewport) Length(d float64) float64 {
	return d * v.scale
}
