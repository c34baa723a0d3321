package ggrender_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"

	"wafermap/internal/outline"
	"wafermap/internal/render"
	"wafermap/internal/render/ggrender"
	"wafermap/internal/wafer"
	"wafermap/pkg/colorutil"
)

func renderDefault(t *testing.T, mutate func(*wafer.Map)) *ggrender.Canvas {
	t.Helper()
	m, err := wafer.New(wafer.DefaultLattice(), wafer.DefaultWaferDies())
	require.NoError(t, err)
	if mutate != nil {
		mutate(m)
	}
	scene, err := render.Plot(m, render.DefaultOptions())
	require.NoError(t, err)

	// Bounds are 138 world units wide, so 276 px gives 2 px per unit.
	c, err := ggrender.Render(scene, 276, ggrender.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func assertPixel(t *testing.T, img image.Image, x, y int, want color.RGBA) {
	t.Helper()
	got := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	assert.InDelta(t, want.R, got.R, 3, "R at %d,%d", x, y)
	assert.InDelta(t, want.G, got.G, 3, "G at %d,%d", x, y)
	assert.InDelta(t, want.B, got.B, 3, "B at %d,%d", x, y)
}

func TestRenderDefaultWafer(t *testing.T) {
	c := renderDefault(t, func(m *wafer.Map) {
		require.NoError(t, m.SetColor(1, 0, colorutil.Named("red")))
	})
	img := c.Image()
	require.Equal(t, image.Rect(0, 0, 276, 276), img.Bounds())

	// Die X0Y0 spans world (0, 63)-(9, 72); its center maps to (93, 75).
	assertPixel(t, img, 93, 75, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	// Die X1Y0 is one cell to the right.
	assertPixel(t, img, 111, 75, color.RGBA{R: 255, A: 255})
	// Corner of the margin is background.
	assertPixel(t, img, 1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})
}

func TestRenderWithOutlineAndLabels(t *testing.T) {
	m, err := wafer.New(wafer.DefaultLattice(), wafer.DefaultWaferDies())
	require.NoError(t, err)
	require.NoError(t, m.SetHatch(0, 0, "x"))
	ol, err := outline.ForGrid(m.Lattice(), outline.Params{
		Radius: 70,
		Notch:  &outline.Notch{Orientation: outline.South, Type: outline.Circular},
	})
	require.NoError(t, err)

	opts := render.DefaultOptions().WithOutline(ol).WithLabels("", false)
	opts.WaferFace = "mintcream"
	scene, err := render.Plot(m, opts)
	require.NoError(t, err)

	c, err := ggrender.Render(scene, 400, ggrender.DefaultOptions())
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, 400, c.Image().Bounds().Dx())
}

func TestEncode(t *testing.T) {
	c := renderDefault(t, nil)

	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf, "png"))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 276, img.Bounds().Dx())

	buf.Reset()
	require.NoError(t, c.Encode(&buf, ".TIFF"))
	img, err = tiff.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 276, img.Bounds().Dy())

	require.Error(t, c.Encode(&buf, "bmp"))
}

func TestSave(t *testing.T) {
	c := renderDefault(t, nil)
	dir := t.TempDir()

	path := filepath.Join(dir, "wafer.png")
	require.NoError(t, c.Save(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	bad := filepath.Join(dir, "wafer.gif")
	require.Error(t, c.Save(bad))
	_, err = os.Stat(bad)
	assert.True(t, os.IsNotExist(err), "failed save leaves no file")
}
