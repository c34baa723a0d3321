// Package wafer holds the die lattice of a wafer map: the index-to-position
// mapping, the per-die store and radius-based die selection.
package wafer

import (
	"fmt"
	"math"

	"wafermap/pkg/dieid"
	"wafermap/pkg/geometry"
)

// Range is an inclusive integer index range.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Span returns Max - Min.
func (r Range) Span() int {
	return r.Max - r.Min
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Coord identifies a die by its lattice indices.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// C is shorthand for Coord{X: x, Y: y}.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns the die name, e.g. "X-4Y2".
func (c Coord) String() string {
	return dieid.Format(c.X, c.Y)
}

// MaxCells is the largest number of cells a lattice may hold.
const MaxCells = 1 << 24

// Lattice describes the rectangular index range of a wafer map and how
// indices map to physical positions.
type Lattice struct {
	X Range `json:"x_range"`
	Y Range `json:"y_range"`

	// Height is the cell height; the cell width is Height * Aspect.
	Height float64 `json:"height"`
	Aspect float64 `json:"aspect"`

	// Flips mirror the index ordering about the range midpoint.
	VFlip bool `json:"v_flip"`
	HFlip bool `json:"h_flip"`
}

// Validate checks the ranges and cell size.
func (l Lattice) Validate() error {
	if l.X.Min > l.X.Max {
		return fmt.Errorf("%w: x range [%d, %d] is inverted", ErrInvalidRange, l.X.Min, l.X.Max)
	}
	if l.Y.Min > l.Y.Max {
		return fmt.Errorf("%w: y range [%d, %d] is inverted", ErrInvalidRange, l.Y.Min, l.Y.Max)
	}
	if _, ok := l.cells(); !ok {
		return fmt.Errorf("%w: x [%d, %d] y [%d, %d] exceeds %d cells",
			ErrInvalidRange, l.X.Min, l.X.Max, l.Y.Min, l.Y.Max, MaxCells)
	}
	if !(l.Height > 0) || math.IsInf(l.Height, 0) {
		return fmt.Errorf("%w: cell height %v must be positive", ErrInvalidRange, l.Height)
	}
	if !(l.Aspect > 0) || math.IsInf(l.Aspect, 0) {
		return fmt.Errorf("%w: aspect ratio %v must be positive", ErrInvalidRange, l.Aspect)
	}
	return nil
}

// Width returns the cell width.
func (l Lattice) Width() float64 {
	return l.Height * l.Aspect
}

// CellSize returns the larger of the cell width and height.
func (l Lattice) CellSize() float64 {
	return math.Max(l.Width(), l.Height)
}

// Contains reports whether (x, y) lies within the lattice.
func (l Lattice) Contains(x, y int) bool {
	return l.X.Contains(x) && l.Y.Contains(y)
}

// Len returns the number of cells, or 0 for a lattice that fails Validate.
func (l Lattice) Len() int {
	n, _ := l.cells()
	return n
}

// cells counts the cells without overflowing. Inverted ranges, spans that
// wrap around and counts above MaxCells report false.
func (l Lattice) cells() (int, bool) {
	xs, ys := l.X.Span(), l.Y.Span()
	if l.X.Min > l.X.Max || l.Y.Min > l.Y.Max || xs < 0 || ys < 0 {
		return 0, false
	}
	if xs >= MaxCells || ys >= MaxCells {
		return 0, false
	}
	n := (xs + 1) * (ys + 1)
	if n > MaxCells {
		return 0, false
	}
	return n, true
}

// Transform maps lattice indices to the physical origin (minimum corner) of
// the cell. Flips mirror about the range midpoint, so spacing is preserved
// and only the ordering reverses.
func (l Lattice) Transform(x, y int) geometry.Point2D {
	px := float64(x) * l.Width()
	if l.HFlip {
		px = float64(l.X.Max+l.X.Min-x) * l.Width()
	}
	py := float64(y) * l.Height
	if l.VFlip {
		py = float64(l.Y.Max+l.Y.Min-y) * l.Height
	}
	return geometry.Point2D{X: px, Y: py}
}

// Center returns the physical center of the lattice, measured between the
// extreme cell origins.
func (l Lattice) Center() geometry.Point2D {
	return geometry.Point2D{
		X: float64(l.X.Min+l.X.Max) / 2 * l.Width(),
		Y: float64(l.Y.Min+l.Y.Max) / 2 * l.Height,
	}
}

// Bounds returns the rectangle covered by all cells.
func (l Lattice) Bounds() geometry.Rect {
	return geometry.Rect{
		X:      float64(l.X.Min) * l.Width(),
		Y:      float64(l.Y.Min) * l.Height,
		Width:  float64(l.X.Span()+1) * l.Width(),
		Height: float64(l.Y.Span()+1) * l.Height,
	}
}

// Coords returns every lattice coordinate, x-major then y ascending.
func (l Lattice) Coords() []Coord {
	n, ok := l.cells()
	if !ok {
		return nil
	}
	out := make([]Coord, 0, n)
	for x := l.X.Min; x <= l.X.Max; x++ {
		for y := l.Y.Min; y <= l.Y.Max; y++ {
			out = append(out, Coord{X: x, Y: y})
		}
	}
	return out
}
