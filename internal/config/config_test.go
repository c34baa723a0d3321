package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wafermap/internal/config"
	"wafermap/internal/outline"
	"wafermap/internal/wafer"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultBuilds(t *testing.T) {
	doc := config.Default()
	require.NoError(t, doc.Validate())

	m, err := doc.BuildMap()
	require.NoError(t, err)
	assert.Len(t, m.Members(), 134)

	ol, err := doc.BuildOutline()
	require.NoError(t, err)
	require.NotNil(t, ol)
	assert.True(t, ol.IsCircle())

	opts := doc.RenderOptions(ol)
	assert.Same(t, ol, opts.Outline)
	assert.Equal(t, 6.0, opts.Margin)
	assert.False(t, opts.Labels)
}

func TestSaveLoadJSON(t *testing.T) {
	doc := config.Default()
	doc.Fills = []config.Fill{{Dies: []string{"X0Y0"}, Color: []any{1.0, 0.0, 0.0}, Hatch: "x"}}
	doc.Wafer.Notch = &config.NotchConfig{Orientation: "E", Type: "circular", Size: 9}

	path := filepath.Join(t.TempDir(), "wafer.json")
	require.NoError(t, doc.Save(path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	m, err := loaded.BuildMap()
	require.NoError(t, err)
	d, err := m.Die(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", d.Face)
	assert.Equal(t, "black", d.Edge)
	assert.Equal(t, "x", d.Hatch)

	notch, err := loaded.Notch()
	require.NoError(t, err)
	assert.Equal(t, &outline.Notch{Orientation: outline.East, Type: outline.Circular, Size: 9}, notch)

	ol, err := loaded.BuildOutline()
	require.NoError(t, err)
	assert.False(t, ol.IsCircle())
}

const probeHCL = `
name = "probe"

lattice {
  x_range = [0, 4]
  y_range = [0, 4]
  height  = 1
}

members {
  radius = 1.5
}

fill {
  dies  = ["X2Y2"]
  color = [0, 0, 1]
  hatch = "/"
}

fill {
  dies  = ["X1Y1", "X3Y3"]
  color = "red"
}

wafer {
  radius = 3
  notch {
    orientation = "south"
    type        = "circular"
    size        = 0.5
  }
}

labels {
  column = "value"
  text = {
    X2Y2 = "ref"
  }
}

output {
  width = 400
}
`

func TestLoadHCL(t *testing.T) {
	doc, err := config.Load(writeFile(t, "probe.hcl", probeHCL))
	require.NoError(t, err)

	assert.Equal(t, "probe", doc.Name)
	assert.Equal(t, wafer.Lattice{X: wafer.Range{Min: 0, Max: 4}, Y: wafer.Range{Min: 0, Max: 4}, Height: 1, Aspect: 1}, doc.Lattice)
	assert.False(t, doc.Members.Default)
	require.NotNil(t, doc.Members.Radius)
	assert.Equal(t, 1.5, *doc.Members.Radius)
	assert.Equal(t, 400, doc.Output.Width)
	assert.Equal(t, "gg", doc.Output.Backend)
	assert.Equal(t, "wafer.png", doc.Output.Path)

	m, err := doc.BuildMap()
	require.NoError(t, err)
	assert.Len(t, m.Members(), 9)

	d, err := m.Die(2, 2)
	require.NoError(t, err)
	assert.Equal(t, "#0000ff", d.Face)
	assert.Equal(t, "/", d.Hatch)

	d, err = m.Die(3, 3)
	require.NoError(t, err)
	assert.Equal(t, "red", d.Face)
	assert.Equal(t, "", d.Hatch)

	ol, err := doc.BuildOutline()
	require.NoError(t, err)
	assert.False(t, ol.IsCircle())

	opts := doc.RenderOptions(ol)
	assert.True(t, opts.Labels)
	assert.Equal(t, "value", opts.LabelColumn)
	assert.Equal(t, map[wafer.Coord]string{wafer.C(2, 2): "ref"}, opts.LabelText)
}

func TestJSONAndHCLAgree(t *testing.T) {
	fromJSON, err := config.Load(writeFile(t, "probe.json", `{
  "lattice": {"x_range": {"min": 0, "max": 4}, "y_range": {"min": 0, "max": 4}, "height": 1},
  "members": {"radius": 1.5},
  "style": {"face": "red"}
}`))
	require.NoError(t, err)

	fromHCL, err := config.Load(writeFile(t, "probe.hcl", `
lattice {
  x_range = [0, 4]
  y_range = [0, 4]
  height  = 1
}

members {
  radius = 1.5
}

style {
  face = "red"
}
`))
	require.NoError(t, err)

	assert.Equal(t, 1.0, fromJSON.Lattice.Aspect)
	assert.Equal(t, fromHCL, fromJSON)

	want := wafer.Style{Face: "red", Edge: "black", Blank: "none", LineWidth: 0.5}
	assert.Equal(t, want, fromJSON.MapStyle())

	m, err := fromJSON.BuildMap()
	require.NoError(t, err)
	assert.Equal(t, want, m.Style())
	d, err := m.Die(2, 2)
	require.NoError(t, err)
	assert.Equal(t, "red", d.Face)
	assert.Equal(t, "black", d.Edge)
}

func TestMapStyleFillsEmptyFields(t *testing.T) {
	doc := config.Default()
	doc.Style = wafer.Style{Edge: "blue"}
	assert.Equal(t, wafer.Style{Face: "gray", Edge: "blue", Blank: "none", LineWidth: 0.5}, doc.MapStyle())
}

func TestLoadJSONKeepsDefaults(t *testing.T) {
	doc, err := config.Load(writeFile(t, "partial.json", `{"output": {"width": 320}}`))
	require.NoError(t, err)

	assert.Equal(t, wafer.DefaultLattice(), doc.Lattice)
	assert.True(t, doc.Members.Default)
	assert.Equal(t, 320, doc.Output.Width)
	assert.Equal(t, "gg", doc.Output.Backend)
}

func TestLoadHCLHiddenWafer(t *testing.T) {
	doc, err := config.Load(writeFile(t, "hidden.hcl", `
wafer {
  hidden = true
}
`))
	require.NoError(t, err)
	assert.True(t, doc.Members.Default)

	ol, err := doc.BuildOutline()
	require.NoError(t, err)
	assert.Nil(t, ol)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{
			name: "unknown extension",
			file: "wafer.yaml",
			want: config.ErrUnsupportedFormat,
		},
		{
			name:    "bad backend",
			file:    "wafer.json",
			content: `{"lattice":{"x_range":{"min":0,"max":1},"y_range":{"min":0,"max":1},"height":1,"aspect":1},"output":{"backend":"svg"}}`,
			want:    config.ErrInvalid,
		},
		{
			name:    "flat lattice",
			file:    "wafer.json",
			content: `{"lattice":{"x_range":{"min":0,"max":1},"y_range":{"min":0,"max":1},"height":0,"aspect":1}}`,
			want:    config.ErrInvalid,
		},
		{
			name:    "bad notch",
			file:    "wafer.json",
			content: `{"lattice":{"x_range":{"min":0,"max":1},"y_range":{"min":0,"max":1},"height":1,"aspect":1},"wafer":{"notch":{"orientation":"up","type":"flat"}}}`,
			want:    config.ErrInvalid,
		},
		{
			name:    "bad die name",
			file:    "wafer.hcl",
			content: "members {\n  dies = [\"bogus\"]\n}\n",
			want:    config.ErrInvalid,
		},
		{
			name:    "short range",
			file:    "wafer.hcl",
			content: "lattice {\n  x_range = [1]\n  y_range = [0, 1]\n  height = 1\n}\n",
			want:    config.ErrInvalid,
		},
		{
			name:    "hcl syntax",
			file:    "wafer.hcl",
			content: "lattice {\n",
		},
		{
			name:    "json syntax",
			file:    "wafer.json",
			content: "{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := config.Load(path)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestBuildMapOutOfLattice(t *testing.T) {
	doc := config.Default()
	doc.Members.Dies = []string{"X50Y50"}

	_, err := doc.BuildMap()
	assert.ErrorIs(t, err, wafer.ErrOutOfRange)
}

func TestApplyColoring(t *testing.T) {
	doc := config.Default()
	doc.Coloring = config.Coloring{Attribute: "yield", Colormap: "Greys"}

	m, err := doc.BuildMap()
	require.NoError(t, err)
	require.NoError(t, m.SetAttribute(0, 0, "yield", 10.0))
	require.NoError(t, m.SetAttribute(1, 0, "yield", 20.0))
	require.NoError(t, doc.ApplyColoring(m))

	d, err := m.Die(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", d.Face)
	d, err = m.Die(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "#000000", d.Face)

	doc.Coloring.Colormap = "rainbow"
	assert.ErrorIs(t, doc.Validate(), config.ErrInvalid)
}
