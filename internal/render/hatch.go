package render

import (
	"math"
	"strings"

	"wafermap/pkg/geometry"
)

// Segment is a line segment.
type Segment struct {
	A, B geometry.Point2D
}

// HatchSegments returns the hatch lines of pattern clipped to r. Each of
// "/", "\", "|" and "-" adds a line family; "+" is "|-" and "x" is "/\".
// Repeating a character raises that family's density. Other characters
// are ignored.
func HatchSegments(r geometry.Rect, pattern string, spacing float64) []Segment {
	if pattern == "" || !(spacing > 0) || r.Width <= 0 || r.Height <= 0 {
		return nil
	}

	counts := map[rune]int{}
	for _, ch := range pattern {
		switch ch {
		case '/', '\\', '|', '-':
			counts[ch]++
		case '+':
			counts['|']++
			counts['-']++
		case 'x', 'X':
			counts['/']++
			counts['\\']++
		}
	}

	var out []Segment
	for _, family := range []rune{'/', '\\', '|', '-'} {
		n := counts[family]
		if n == 0 {
			continue
		}
		out = append(out, lineFamily(r, family, spacing/float64(n))...)
	}
	return out
}

// HasUnsupportedHatch reports whether pattern holds characters HatchSegments
// ignores.
func HasUnsupportedHatch(pattern string) bool {
	return strings.IndexFunc(pattern, func(r rune) bool {
		return !strings.ContainsRune(`/\|-+xX`, r)
	}) >= 0
}

func lineFamily(r geometry.Rect, family rune, step float64) []Segment {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.Width, r.Y+r.Height

	var lo, hi float64
	var line func(k float64) (geometry.Point2D, geometry.Point2D)
	switch family {
	case '/': // x - y = k
		lo, hi = x0-y1, x1-y0
		line = func(k float64) (geometry.Point2D, geometry.Point2D) {
			return geometry.Pt(y0+k, y0), geometry.Pt(y1+k, y1)
		}
	case '\\': // x + y = k
		lo, hi = x0+y0, x1+y1
		line = func(k float64) (geometry.Point2D, geometry.Point2D) {
			return geometry.Pt(k-y0, y0), geometry.Pt(k-y1, y1)
		}
	case '|':
		lo, hi = x0, x1
		line = func(k float64) (geometry.Point2D, geometry.Point2D) {
			return geometry.Pt(k, y0), geometry.Pt(k, y1)
		}
	default:
		lo, hi = y0, y1
		line = func(k float64) (geometry.Point2D, geometry.Point2D) {
			return geometry.Pt(x0, k), geometry.Pt(x1, k)
		}
	}

	n := int(math.Ceil((hi - lo) / step))
	out := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		k := lo + (float64(i)+0.5)*step
		if k >= hi {
			break
		}
		a, b := line(k)
		a, b, ok := geometry.ClipSegment(a, b, r)
		if !ok || a == b {
			continue
		}
		out = append(out, Segment{A: a, B: b})
	}
	return out
}
