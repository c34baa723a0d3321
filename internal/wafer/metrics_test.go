package wafer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wafermap/internal/wafer"
	"wafermap/pkg/colorutil"
)

func TestNumericAttribute(t *testing.T) {
	m, err := wafer.New(smallLattice(), nil)
	require.NoError(t, err)

	tests := []struct {
		value any
		want  float64
		ok    bool
	}{
		{"2.9V", 2.9, true},
		{" -1e-3 A", -0.001, true},
		{".5", 0.5, true},
		{int64(7), 7, true},
		{float32(1.5), 1.5, true},
		{"V2", 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		require.NoError(t, m.SetAttribute(0, 0, "v", tt.value))
		got, err := m.NumericAttribute(0, 0, "v")
		if !tt.ok {
			require.ErrorIs(t, err, wafer.ErrNotNumeric, "%v", tt.value)
			continue
		}
		require.NoError(t, err, "%v", tt.value)
		assert.InDelta(t, tt.want, got, 1e-12, "%v", tt.value)
	}
}

func TestStats(t *testing.T) {
	m, err := wafer.New(smallLattice(), nil)
	require.NoError(t, err)

	_, err = m.Stats("vdd")
	require.ErrorIs(t, err, wafer.ErrAttributeNotFound)

	require.NoError(t, m.SetAttribute(0, 0, "vdd", "2.9V"))
	require.NoError(t, m.SetAttribute(1, 0, "vdd", 3.1))
	require.NoError(t, m.SetAttribute(2, 0, "vdd", 3))

	s, err := m.Stats("vdd")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 2.9, s.Min, 1e-12)
	assert.InDelta(t, 3.1, s.Max, 1e-12)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.InDelta(t, 0.1, s.StdDev, 1e-9)

	require.NoError(t, m.SetAttribute(3, 0, "vdd", "open"))
	_, err = m.Stats("vdd")
	require.ErrorIs(t, err, wafer.ErrNotNumeric)
}

func TestColorByAttribute(t *testing.T) {
	m, err := wafer.New(smallLattice(), []wafer.Coord{wafer.C(0, 0), wafer.C(0, 1), wafer.C(0, 2)})
	require.NoError(t, err)
	require.NoError(t, m.SetAttribute(0, 0, "yield", 0))
	require.NoError(t, m.SetAttribute(0, 1, "yield", 10))

	require.NoError(t, m.ColorByAttribute("yield", colorutil.Greys, 0, 0))

	d, err := m.Die(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", d.Face)
	d, err = m.Die(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "#000000", d.Face)
	d, err = m.Die(0, 2)
	require.NoError(t, err)
	assert.Equal(t, "gray", d.Face, "dies without the attribute keep their style")

	require.NoError(t, m.ColorByAttribute("yield", colorutil.Greys, -10, 0))
	d, err = m.Die(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "#000000", d.Face, "values above vmax clip")
}
