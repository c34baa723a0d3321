package geometry

import "math"

// SignedArea returns the shoelace area of a closed polygon. The result is
// positive for counter-clockwise vertex order and negative for clockwise.
func SignedArea(polygon []Point2D) float64 {
	n := len(polygon)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a, b := polygon[i], polygon[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// SelfIntersects reports whether any two non-adjacent edges of the closed
// polygon cross. Consecutive duplicate vertices are ignored. O(n²).
func SelfIntersects(polygon []Point2D) bool {
	pts := dedupe(polygon)
	n := len(pts)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := pts[i], pts[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // shares vertex 0
			}
			b1, b2 := pts[j], pts[(j+1)%n]
			if segmentsCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// ClipSegment clips the segment a-b to the rectangle (Liang-Barsky).
// Returns false if no part of the segment lies inside.
func ClipSegment(a, b Point2D, r Rect) (Point2D, Point2D, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, a.X - r.X},
		{dx, r.X + r.Width - a.X},
		{-dy, a.Y - r.Y},
		{dy, r.Y + r.Height - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return Point2D{}, Point2D{}, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return Point2D{}, Point2D{}, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return Point2D{}, Point2D{}, false
			}
			t1 = math.Min(t1, t)
		}
	}

	return Point2D{X: a.X + t0*dx, Y: a.Y + t0*dy},
		Point2D{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}

// segmentsCross reports a proper crossing of segments p1-p2 and q1-q2.
// Touching endpoints and collinear overlap do not count.
func segmentsCross(p1, p2, q1, q2 Point2D) bool {
	d1 := crossProduct(q1, q2, p1)
	d2 := crossProduct(q1, q2, p2)
	d3 := crossProduct(p1, p2, q1)
	d4 := crossProduct(p1, p2, q2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// dedupe drops consecutive repeated vertices, including a closing repeat of
// the first vertex.
func dedupe(polygon []Point2D) []Point2D {
	out := make([]Point2D, 0, len(polygon))
	for _, p := range polygon {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
