package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wafermap/internal/render"
	"wafermap/pkg/geometry"
)

func TestHatchSegments(t *testing.T) {
	r := geometry.NewRect(0, 0, 10, 10)

	tests := []struct {
		pattern string
		want    int
	}{
		{"", 0},
		{"-", 5},
		{"|", 5},
		{"+", 10},
		{"--", 10},
		{"/", 10},
		{"x", 20},
		{".", 0},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := render.HatchSegments(r, tt.pattern, 2)
			assert.Len(t, got, tt.want)
			loose := r.Inset(1e-9)
			for _, s := range got {
				assert.True(t, loose.Contains(s.A), "%v outside", s.A)
				assert.True(t, loose.Contains(s.B), "%v outside", s.B)
			}
		})
	}
}

func TestHatchDirections(t *testing.T) {
	r := geometry.NewRect(-3, 4, 6, 6)

	for _, s := range render.HatchSegments(r, "/", 1) {
		d := s.B.Sub(s.A)
		assert.InDelta(t, d.X, d.Y, 1e-9, "slope +1")
	}
	for _, s := range render.HatchSegments(r, `\`, 1) {
		d := s.B.Sub(s.A)
		assert.InDelta(t, -d.X, d.Y, 1e-9, "slope -1")
	}
	horizontal := render.HatchSegments(r, "-", 3)
	require.Len(t, horizontal, 2)
	assert.Equal(t, render.Segment{A: geometry.Pt(-3, 5.5), B: geometry.Pt(3, 5.5)}, horizontal[0])

	assert.Nil(t, render.HatchSegments(r, "/", 0))
	assert.Nil(t, render.HatchSegments(geometry.Rect{}, "/", 1))
}

func TestHasUnsupportedHatch(t *testing.T) {
	assert.False(t, render.HasUnsupportedHatch(`/\|-+x`))
	assert.True(t, render.HasUnsupportedHatch("o"))
	assert.True(t, render.HasUnsupportedHatch("/*"))
}

func TestViewport(t *testing.T) {
	v, err := render.NewViewport(geometry.NewRect(0, 0, 100, 50), 200)
	require.NoError(t, err)

	assert.Equal(t, 100, v.Height)
	assert.Equal(t, 2.0, v.Scale())
	assert.Equal(t, geometry.Pt(0, 100), v.ToPixel(geometry.Pt(0, 0)))
	assert.Equal(t, geometry.Pt(200, 0), v.ToPixel(geometry.Pt(100, 50)))
	assert.Equal(t, geometry.NewRect(20, 60, 20, 20), v.RectToPixel(geometry.NewRect(10, 10, 10, 10)))
	assert.Equal(t, 3.0, v.Length(1.5))

	w := v.ToWorld(geometry.Pt(20, 80))
	assert.InDelta(t, 10, w.X, 1e-12)
	assert.InDelta(t, 10, w.Y, 1e-12)

	_, err = render.NewViewport(geometry.NewRect(0, 0, 0, 5), 100)
	require.ErrorIs(t, err, render.ErrEmptyBounds)
	_, err = render.NewViewport(geometry.NewRect(0, 0, 1, 1), 0)
	require.Error(t, err)
}
