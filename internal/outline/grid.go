package outline

import (
	"fmt"
	"math"

	"wafermap/pkg/geometry"
)

// Grid is the lattice geometry an outline is fitted to.
type Grid interface {
	Center() geometry.Point2D
	Bounds() geometry.Rect
}

// Params places an outline relative to a grid. All lengths are physical.
type Params struct {
	// Radius of the wafer. Zero fits the circle to the farthest corner of
	// the grid bounds.
	Radius float64

	// Offsets shift the wafer center away from the grid center.
	OffsetX float64
	OffsetY float64

	Notch *Notch
}

// ForGrid builds the outline of a wafer centered on the grid.
func ForGrid(g Grid, p Params) (Outline, error) {
	if p.Radius < 0 || math.IsNaN(p.Radius) {
		return Outline{}, fmt.Errorf("%w: %v", ErrInvalidRadius, p.Radius)
	}

	center := g.Center().Add(geometry.Pt(p.OffsetX, p.OffsetY))
	radius := p.Radius
	if radius == 0 {
		radius = FitRadius(center, g.Bounds())
	}
	return Build(Options{Center: center, Radius: radius, Notch: p.Notch})
}

// FitRadius returns the distance from center to the farthest corner of r.
func FitRadius(center geometry.Point2D, r geometry.Rect) float64 {
	var d float64
	for _, c := range r.Corners() {
		d = math.Max(d, c.Distance(center))
	}
	return d
}
