package wafer_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wafermap/internal/wafer"
	"wafermap/pkg/geometry"
)

func TestLatticeValidate(t *testing.T) {
	tests := []struct {
		name    string
		lattice wafer.Lattice
		wantErr bool
	}{
		{"default", wafer.DefaultLattice(), false},
		{"single cell", wafer.Lattice{X: wafer.Range{Min: 2, Max: 2}, Y: wafer.Range{Min: 3, Max: 3}, Height: 1, Aspect: 1}, false},
		{"inverted x", wafer.Lattice{X: wafer.Range{Min: 3, Max: 2}, Y: wafer.Range{Min: 0, Max: 1}, Height: 1, Aspect: 1}, true},
		{"inverted y", wafer.Lattice{X: wafer.Range{Min: 0, Max: 1}, Y: wafer.Range{Min: 5, Max: -5}, Height: 1, Aspect: 1}, true},
		{"zero height", wafer.Lattice{X: wafer.Range{Min: 0, Max: 1}, Y: wafer.Range{Min: 0, Max: 1}, Height: 0, Aspect: 1}, true},
		{"negative aspect", wafer.Lattice{X: wafer.Range{Min: 0, Max: 1}, Y: wafer.Range{Min: 0, Max: 1}, Height: 1, Aspect: -2}, true},
		{"span overflows", wafer.Lattice{X: wafer.Range{Min: -(1 << 62), Max: 1 << 62}, Y: wafer.Range{Min: 0, Max: 0}, Height: 1, Aspect: 1}, true},
		{"full int range", wafer.Lattice{X: wafer.Range{Min: math.MinInt, Max: math.MaxInt}, Y: wafer.Range{Min: 0, Max: 0}, Height: 1, Aspect: 1}, true},
		{"too many cells", wafer.Lattice{X: wafer.Range{Min: 0, Max: 1 << 12}, Y: wafer.Range{Min: 0, Max: 1 << 12}, Height: 1, Aspect: 1}, true},
		{"at cell limit", wafer.Lattice{X: wafer.Range{Min: 0, Max: 1<<12 - 1}, Y: wafer.Range{Min: 0, Max: 1<<12 - 1}, Height: 1, Aspect: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lattice.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, wafer.ErrInvalidRange)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestOversizedLatticeFailsCleanly(t *testing.T) {
	l := wafer.Lattice{X: wafer.Range{Min: -(1 << 62), Max: 1 << 62}, Y: wafer.Range{Min: 0, Max: 0}, Height: 1, Aspect: 1}

	assert.Zero(t, l.Len())
	assert.Nil(t, l.Coords())

	_, err := wafer.New(l, nil)
	require.ErrorIs(t, err, wafer.ErrInvalidRange)
}

func TestTransform(t *testing.T) {
	l := wafer.Lattice{X: wafer.Range{Min: -2, Max: 3}, Y: wafer.Range{Min: 0, Max: 4}, Height: 2, Aspect: 1.5}
	assert.Equal(t, geometry.Pt(-6, 0), l.Transform(-2, 0))
	assert.Equal(t, geometry.Pt(9, 8), l.Transform(3, 4))
	assert.Equal(t, 3.0, l.Width())
	assert.Equal(t, 3.0, l.CellSize())

	d := wafer.DefaultLattice()
	assert.Equal(t, geometry.Pt(-36, 45), d.Transform(-4, 2))
	assert.Equal(t, geometry.Pt(22.5, 31.5), d.Center())
}

func TestTransformFlipAntisymmetry(t *testing.T) {
	base := wafer.Lattice{X: wafer.Range{Min: -3, Max: 7}, Y: wafer.Range{Min: 2, Max: 9}, Height: 1.5, Aspect: 2}
	hflip := base
	hflip.HFlip = true
	vflip := base
	vflip.VFlip = true

	for x := base.X.Min; x <= base.X.Max; x++ {
		for y := base.Y.Min; y <= base.Y.Max; y++ {
			assert.Equal(t, base.Transform(base.X.Max+base.X.Min-x, y), hflip.Transform(x, y), "h_flip %d,%d", x, y)
			assert.Equal(t, base.Transform(x, base.Y.Max+base.Y.Min-y), vflip.Transform(x, y), "v_flip %d,%d", x, y)
		}
	}
}

func TestTransformMirroredIndex(t *testing.T) {
	flipped := wafer.Lattice{X: wafer.Range{Min: 1, Max: 6}, Y: wafer.Range{Min: 1, Max: 5}, Height: 1, Aspect: 1, HFlip: true}
	plain := flipped
	plain.HFlip = false

	assert.Equal(t, plain.Transform(6, 1), flipped.Transform(1, 1))
}

func TestLatticeCoordsAndBounds(t *testing.T) {
	l := wafer.Lattice{X: wafer.Range{Min: 0, Max: 2}, Y: wafer.Range{Min: -1, Max: 0}, Height: 2, Aspect: 0.5}
	assert.Equal(t, []wafer.Coord{
		wafer.C(0, -1), wafer.C(0, 0),
		wafer.C(1, -1), wafer.C(1, 0),
		wafer.C(2, -1), wafer.C(2, 0),
	}, l.Coords())
	assert.Equal(t, 6, l.Len())
	assert.Equal(t, geometry.NewRect(0, -2, 3, 4), l.Bounds())
	assert.Equal(t, "X2Y-1", wafer.C(2, -1).String())
}
