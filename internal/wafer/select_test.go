package wafer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wafermap/internal/wafer"
)

func TestDiesInRadius(t *testing.T) {
	m, err := wafer.New(smallLattice(), nil)
	require.NoError(t, err)

	got, err := m.DiesInRadius(1)
	require.NoError(t, err)
	assert.Equal(t, []wafer.Coord{wafer.C(2, 2)}, got, "cells exactly on the radius are excluded")

	got, err = m.DiesInRadius(1.5)
	require.NoError(t, err)
	assert.Len(t, got, 9)

	got, err = m.DiesInRadius(0)
	require.NoError(t, err)
	assert.Len(t, got, 9, "auto radius is two cells for a span of four")

	_, err = m.DiesInRadius(-1)
	require.ErrorIs(t, err, wafer.ErrInvalidRadius)

	assert.Empty(t, m.Members(), "selection does not mutate")
}

func TestDiesInRadiusMonotonic(t *testing.T) {
	m, err := wafer.New(wafer.DefaultLattice(), nil)
	require.NoError(t, err)

	prev := map[wafer.Coord]bool{}
	for r := 0.25; r <= 10; r += 0.25 {
		got, err := m.DiesInRadius(r)
		require.NoError(t, err)
		cur := make(map[wafer.Coord]bool, len(got))
		for _, c := range got {
			cur[c] = true
		}
		for c := range prev {
			assert.True(t, cur[c], "%s selected at smaller radius but not at %v", c, r)
		}
		prev = cur
	}
}

func TestEffectiveRadius(t *testing.T) {
	l := wafer.DefaultLattice()
	r, err := l.EffectiveRadius(0)
	require.NoError(t, err)
	assert.Equal(t, 63.0, r)

	r, err = l.EffectiveRadius(2.5)
	require.NoError(t, err)
	assert.Equal(t, 22.5, r)
}
