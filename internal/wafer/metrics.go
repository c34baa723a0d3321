package wafer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"wafermap/pkg/colorutil"
)

// Leading number of a measured value such as "2.9V" or "-1e-3 A".
var numberPrefix = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)

// Summary describes the numeric values of one attribute across the map.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// NumericAttribute returns the attribute as a float64. Strings are read up to
// the end of their leading number, so unit suffixes are ignored.
func (m *Map) NumericAttribute(x, y int, name string) (float64, error) {
	v, err := m.Attribute(x, y, name)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: %q on %s is %v", ErrNotNumeric, name, Coord{X: x, Y: y}, v)
	}
	return f, nil
}

// Stats summarizes a caller-defined attribute over every die that holds a
// numeric value for it. Dies without the attribute are skipped.
func (m *Map) Stats(name string) (Summary, error) {
	_, values, err := m.numericColumn(name)
	if err != nil {
		return Summary{}, err
	}
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	return Summary{
		Count:  len(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   mean,
		StdDev: std,
	}, nil
}

// ColorByAttribute fills every die holding a numeric value for name with the
// colormap color of that value, normalized to [vmin, vmax]. When vmin equals
// vmax the range is taken from the data.
func (m *Map) ColorByAttribute(name string, cmap colorutil.Colormap, vmin, vmax float64) error {
	coords, values, err := m.numericColumn(name)
	if err != nil {
		return err
	}
	if vmin == vmax {
		vmin, vmax = floats.Min(values), floats.Max(values)
	}
	for i, c := range coords {
		m.dies[c].Face = cmap.At(colorutil.Normalize(values[i], vmin, vmax)).String()
	}
	return nil
}

func (m *Map) numericColumn(name string) ([]Coord, []float64, error) {
	var coords []Coord
	var values []float64
	for _, c := range m.lattice.Coords() {
		v, ok := m.dies[c].attrs[name]
		if !ok {
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q on %s is %v", ErrNotNumeric, name, c, v)
		}
		coords = append(coords, c)
		values = append(values, f)
	}
	if len(values) == 0 {
		return nil, nil, fmt.Errorf("%w: %q", ErrAttributeNotFound, name)
	}
	return coords, values, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case []byte:
		return toFloat(string(n))
	case string:
		s := numberPrefix.FindString(strings.TrimSpace(n))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}
