// Package colorutil resolves die and wafer style values into colors.
//
// A style value is either a color name ("gray", "#ff8800", "none") or a
// normalized RGBA tuple. Tuples are stored as "#rrggbb" strings so that every
// style the map holds is a plain string.
package colorutil

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// None is the style name for an invisible fill or edge.
const None = "none"

// Transparent is what None resolves to.
var Transparent = color.RGBA{}

// shortNames are the single-letter color codes.
var shortNames = map[string]color.RGBA{
	"b": {R: 0, G: 0, B: 255, A: 255},
	"g": {R: 0, G: 128, B: 0, A: 255},
	"r": {R: 255, G: 0, B: 0, A: 255},
	"c": {R: 0, G: 191, B: 191, A: 255},
	"m": {R: 191, G: 0, B: 191, A: 255},
	"y": {R: 191, G: 191, B: 0, A: 255},
	"k": {R: 0, G: 0, B: 0, A: 255},
	"w": {R: 255, G: 255, B: 255, A: 255},
}

// Color is an explicit style choice: a name, or a normalized RGBA tuple.
type Color struct {
	name       string
	rgba       [4]float64
	normalized bool
}

// Named returns a Color that is stored verbatim.
func Named(name string) Color {
	return Color{name: name}
}

// Normalized returns a Color from components in [0,1]. Out-of-range
// components are clamped.
func Normalized(r, g, b, a float64) Color {
	return Color{rgba: [4]float64{clamp01(r), clamp01(g), clamp01(b), clamp01(a)}, normalized: true}
}

// IsNormalized reports whether the color was built from an RGBA tuple.
func (c Color) IsNormalized() bool {
	return c.normalized
}

// RGBA returns the normalized components; zero for named colors.
func (c Color) RGBA() [4]float64 {
	return c.rgba
}

// String returns the stored style string: the name, or "#rrggbb".
func (c Color) String() string {
	if c.normalized {
		return ToHex(c.rgba[0], c.rgba[1], c.rgba[2])
	}
	return c.name
}

// ToHex converts normalized RGB components to "#rrggbb". Components are
// rounded half-to-even.
func ToHex(r, g, b float64) string {
	return fmt.Sprintf("#%02x%02x%02x", to8(r), to8(g), to8(b))
}

// IsRGBASequence applies the legacy heuristic: at most 4 components, none
// greater than 1.
//
// The heuristic cannot tell a 2- or 3-element numeric array of ordinary data
// from a color; such arrays are silently reinterpreted. Prefer Normalized.
func IsRGBASequence(vals []float64) bool {
	if len(vals) == 0 || len(vals) > 4 {
		return false
	}
	for _, v := range vals {
		if v > 1 {
			return false
		}
	}
	return true
}

// FromSequence turns an RGBA-like sequence into a Color. Missing RGB
// components are zero and a missing alpha is 1.
func FromSequence(vals []float64) Color {
	c := [4]float64{0, 0, 0, 1}
	copy(c[:], vals)
	return Normalized(c[0], c[1], c[2], c[3])
}

// FromValue resolves an untyped style value with the legacy heuristic.
// Strings are names; numeric sequences passing IsRGBASequence are tuples;
// anything else is kept verbatim in its fmt representation.
func FromValue(v any) Color {
	switch val := v.(type) {
	case Color:
		return val
	case string:
		return Named(val)
	case color.Color:
		r, g, b, a := val.RGBA()
		return Normalized(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff, float64(a)/0xffff)
	}

	if vals, ok := numericSlice(v); ok && IsRGBASequence(vals) {
		return FromSequence(vals)
	}
	return Named(fmt.Sprint(v))
}

// Resolve maps a style string to a concrete color. It understands "none",
// "#rgb", "#rrggbb", "#rrggbbaa", single-letter codes and the SVG color
// names. The second result is false for unknown names.
func Resolve(style string) (color.RGBA, bool) {
	s := strings.ToLower(strings.TrimSpace(style))
	switch {
	case s == "" || s == None:
		return Transparent, true
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	}
	if c, ok := shortNames[s]; ok {
		return c, true
	}
	if c, ok := colornames.Map[strings.ReplaceAll(s, " ", "")]; ok {
		return c, true
	}
	return color.RGBA{}, false
}

// IsVisible reports whether a style paints anything.
func IsVisible(style string) bool {
	c, ok := Resolve(style)
	return ok && c.A > 0
}

func parseHex(h string) (color.RGBA, bool) {
	var parts []string
	switch len(h) {
	case 3, 4:
		for _, ch := range h {
			parts = append(parts, strings.Repeat(string(ch), 2))
		}
	case 6, 8:
		for i := 0; i < len(h); i += 2 {
			parts = append(parts, h[i:i+2])
		}
	default:
		return color.RGBA{}, false
	}

	vals := [4]uint8{0, 0, 0, 255}
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return color.RGBA{}, false
		}
		vals[i] = uint8(n)
	}
	return color.RGBA{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, true
}

func numericSlice(v any) ([]float64, bool) {
	switch val := v.(type) {
	case []float64:
		return val, true
	case [2]float64:
		return val[:], true
	case [3]float64:
		return val[:], true
	case [4]float64:
		return val[:], true
	case []float32:
		return toFloats(val), true
	case []int:
		return toFloats(val), true
	case []int32:
		return toFloats(val), true
	case []int64:
		return toFloats(val), true
	case []any:
		out := make([]float64, len(val))
		for i, e := range val {
			switch n := e.(type) {
			case float64:
				out[i] = n
			case float32:
				out[i] = float64(n)
			case int:
				out[i] = float64(n)
			case int64:
				out[i] = float64(n)
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}

func toFloats[T float32 | int | int32 | int64](vals []T) []float64 {
	out := make([]float64, len(vals))
	for i, n := range vals {
		out[i] = float64(n)
	}
	return out
}

func to8(v float64) uint8 {
	return uint8(math.RoundToEven(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
