// Package outline builds the boundary of a wafer: a plain circle, or a
// sampled closed path with a flat, circular or elliptical notch cut into it.
package outline

import (
	"fmt"
	"math"

	"wafermap/pkg/geometry"
)

// Step is the angular sampling step in radians.
const Step = 0.01

// Command tags a path vertex.
type Command int

const (
	MoveTo Command = iota
	LineTo
)

func (c Command) String() string {
	switch c {
	case MoveTo:
		return "MoveTo"
	case LineTo:
		return "LineTo"
	default:
		return "Unknown"
	}
}

// Circle is a circle primitive.
type Circle struct {
	Center geometry.Point2D
	Radius float64
}

// Options configures Build.
type Options struct {
	Center geometry.Point2D
	Radius float64
	Notch  *Notch // nil for a plain circle
}

// Outline is the computed wafer boundary. Exactly one of Circle or Points is
// set. Points are closed by repeating the first two vertices at the end.
type Outline struct {
	Circle   *Circle
	Points   []geometry.Point2D
	Commands []Command
}

// IsCircle reports whether the outline is a circle primitive.
func (o Outline) IsCircle() bool {
	return o.Circle != nil
}

// AsPath returns the outline as a closed path, sampling the circle when the
// outline is a circle primitive.
func (o Outline) AsPath() ([]geometry.Point2D, []Command) {
	if o.Circle == nil {
		return o.Points, o.Commands
	}
	pts := geometry.SampleEllipse(o.Circle.Center, o.Circle.Radius, o.Circle.Radius, geometry.SampleAngles(Step))
	return closePath(pts)
}

// Ring returns the path vertices without the closing repeats.
func (o Outline) Ring() []geometry.Point2D {
	pts, _ := o.AsPath()
	if len(pts) < 2 {
		return pts
	}
	return pts[:len(pts)-2]
}

// Bounds returns the bounding box of the outline.
func (o Outline) Bounds() geometry.Rect {
	if o.Circle != nil {
		c, r := o.Circle.Center, o.Circle.Radius
		return geometry.NewRect(c.X-r, c.Y-r, 2*r, 2*r)
	}
	return geometry.BoundingBox(o.Points)
}

// Contains reports whether p lies inside the outline.
func (o Outline) Contains(p geometry.Point2D) bool {
	if o.Circle != nil {
		return p.Distance(o.Circle.Center) < o.Circle.Radius
	}
	return geometry.PointInPolygon(p, o.Ring())
}

// Build computes the wafer outline. Without a notch the result is a circle
// primitive. With a notch the circle is sampled counter-clockwise from angle
// 0 and the notch is cut where the walk first enters it. Every call returns
// freshly allocated slices.
func Build(opts Options) (Outline, error) {
	r := opts.Radius
	if !(r > 0) || math.IsInf(r, 0) {
		return Outline{}, fmt.Errorf("%w: %v", ErrInvalidRadius, r)
	}
	if opts.Notch == nil {
		return Outline{Circle: &Circle{Center: opts.Center, Radius: r}}, nil
	}

	notch := *opts.Notch
	if err := notch.validate(r); err != nil {
		return Outline{}, err
	}

	angles := geometry.SampleAngles(Step)
	wafer := geometry.SampleEllipse(opts.Center, r, r, angles)

	nc := opts.Center.Add(notch.Orientation.direction().Mul(r))
	rx, ry := notch.semiAxes(r)

	var arc []geometry.Point2D
	if notch.Type != Flat {
		arc = notchArc(geometry.SampleEllipse(nc, rx, ry, angles), notch.Orientation, opts.Center, r)
	}

	pts := make([]geometry.Point2D, 0, len(wafer)+len(arc)+2)
	cut := false
	for _, p := range wafer {
		if geometry.EllipseDistance(p, nc, rx, ry) > 1 {
			pts = append(pts, p)
			continue
		}
		if !cut {
			pts = append(pts, arc...)
			cut = true
		}
	}

	points, commands := closePath(pts)
	return Outline{Points: points, Commands: commands}, nil
}

// notchArc orders the notch samples so they run clockwise from the side the
// wafer walk enters on, and keeps the ones strictly inside the wafer.
func notchArc(samples []geometry.Point2D, o Orientation, center geometry.Point2D, r float64) []geometry.Point2D {
	ordered := reverse(samples)
	if o == West {
		ordered = rotateRight(ordered, len(ordered)/2)
	}

	arc := make([]geometry.Point2D, 0, len(ordered)/2)
	for _, p := range ordered {
		if p.DistanceSq(center) < r*r {
			arc = append(arc, p)
		}
	}
	return arc
}

// closePath repeats the first two vertices so stroked joins at the seam
// render cleanly, and tags the vertices.
func closePath(pts []geometry.Point2D) ([]geometry.Point2D, []Command) {
	if len(pts) < 2 {
		return pts, nil
	}
	out := make([]geometry.Point2D, 0, len(pts)+2)
	out = append(out, pts...)
	out = append(out, pts[0], pts[1])

	cmds := make([]Command, len(out))
	for i := 1; i < len(cmds); i++ {
		cmds[i] = LineTo
	}
	return out, cmds
}

func reverse(pts []geometry.Point2D) []geometry.Point2D {
	out := make([]geometry.Point2D, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// rotateRight shifts elements k places toward the end, wrapping around.
func rotateRight(pts []geometry.Point2D, k int) []geometry.Point2D {
	n := len(pts)
	out := make([]geometry.Point2D, n)
	if n == 0 {
		return out
	}
	for i, p := range pts {
		out[(i+k)%n] = p
	}
	return out
}
