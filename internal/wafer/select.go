package wafer

import (
	"fmt"
	"math"
)

// EffectiveRadius converts a radius in cell units to a physical radius.
// Zero selects the auto radius, half the dominant span rounded up.
func (l Lattice) EffectiveRadius(radiusInCells float64) (float64, error) {
	if radiusInCells < 0 || math.IsNaN(radiusInCells) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRadius, radiusInCells)
	}
	if radiusInCells == 0 {
		span := max(l.X.Span(), l.Y.Span())
		radiusInCells = math.Ceil(float64(span) / 2)
	}
	return radiusInCells * l.CellSize(), nil
}

// DiesInRadius returns the coordinates whose origin lies strictly closer to
// the lattice center than the effective radius, x-major then y ascending.
// The map is not modified.
func (m *Map) DiesInRadius(radiusInCells float64) ([]Coord, error) {
	r, err := m.lattice.EffectiveRadius(radiusInCells)
	if err != nil {
		return nil, err
	}

	center := m.lattice.Center()
	var out []Coord
	for _, c := range m.lattice.Coords() {
		if m.dies[c].Origin.Distance(center) < r {
			out = append(out, c)
		}
	}
	return out, nil
}
