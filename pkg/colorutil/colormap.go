package colorutil

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Colormap maps a normalized scalar in [0,1] to a color by linear
// interpolation between evenly spaced stops.
type Colormap struct {
	Name  string
	stops []Color
}

// NewColormap builds a colormap from hex stops.
func NewColormap(name string, hexStops ...string) Colormap {
	stops := make([]Color, 0, len(hexStops))
	for _, h := range hexStops {
		c, ok := parseHex(strings.TrimPrefix(h, "#"))
		if !ok {
			panic(fmt.Sprintf("colorutil: bad colormap stop %q", h))
		}
		stops = append(stops, Normalized(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, 1))
	}
	return Colormap{Name: name, stops: stops}
}

// At returns the color at t; t is clamped to [0,1]. NaN maps to 0.
func (m Colormap) At(t float64) Color {
	if len(m.stops) == 0 {
		return Named(None)
	}
	t = clamp01(t)
	if len(m.stops) == 1 {
		return m.stops[0]
	}
	pos := t * float64(len(m.stops)-1)
	i := int(math.Floor(pos))
	if i >= len(m.stops)-1 {
		return m.stops[len(m.stops)-1]
	}
	f := pos - float64(i)
	a, b := m.stops[i].rgba, m.stops[i+1].rgba
	return Normalized(
		a[0]+(b[0]-a[0])*f,
		a[1]+(b[1]-a[1])*f,
		a[2]+(b[2]-a[2])*f,
		1,
	)
}

// Normalize maps v linearly so that vmin → 0 and vmax → 1. A degenerate
// range maps everything to 0.5.
func Normalize(v, vmin, vmax float64) float64 {
	if vmax == vmin {
		return 0.5
	}
	return (v - vmin) / (vmax - vmin)
}

// Built-in colormaps.
var (
	RdYlGn = NewColormap("RdYlGn",
		"a50026", "d73027", "f46d43", "fdae61", "fee08b", "ffffbf",
		"d9ef8b", "a6d96a", "66bd63", "1a9850", "006837")
	Viridis = NewColormap("viridis",
		"440154", "472d7b", "3b528b", "2c728e", "21918c",
		"28ae80", "5ec962", "addc30", "fde725")
	Greys = NewColormap("Greys",
		"ffffff", "f0f0f0", "d9d9d9", "bdbdbd", "969696",
		"737373", "525252", "252525", "000000")
)

var colormaps = map[string]Colormap{
	"rdylgn":  RdYlGn,
	"viridis": Viridis,
	"greys":   Greys,
}

// ColormapByName looks a built-in colormap up case-insensitively.
func ColormapByName(name string) (Colormap, error) {
	if m, ok := colormaps[strings.ToLower(name)]; ok {
		return m, nil
	}
	names := make([]string, 0, len(colormaps))
	for _, m := range colormaps {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return Colormap{}, fmt.Errorf("colorutil: unknown colormap %q (have %s)", name, strings.Join(names, ", "))
}
