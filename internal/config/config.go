// Package config loads wafer map documents from JSON or HCL files and turns
// them into maps, outlines and render options.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"wafermap/internal/outline"
	"wafermap/internal/render"
	"wafermap/internal/wafer"
	"wafermap/pkg/colorutil"
	"wafermap/pkg/dieid"
)

// CurrentVersion is the document version written by Save.
const CurrentVersion = 1

var (
	// ErrUnsupportedFormat indicates a file extension with no loader.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")
	// ErrInvalid indicates a document that fails validation.
	ErrInvalid = errors.New("config: invalid document")
)

// Document is the format-agnostic description of one wafer map.
type Document struct {
	Version int    `json:"version"`
	Name    string `json:"name,omitempty"`

	Lattice      wafer.Lattice `json:"lattice"`
	Style        wafer.Style   `json:"style"`
	Members      Members       `json:"members"`
	Fills        []Fill        `json:"fills,omitempty"`
	Wafer        Wafer         `json:"wafer"`
	Labels       Labels        `json:"labels"`
	Coloring     Coloring      `json:"coloring"`
	Measurements Measurements  `json:"measurements"`
	Output       Output        `json:"output"`
}

// Members picks the dies initially in the wafer. Dies are added on top of
// the radius selection or the default list.
type Members struct {
	Default bool     `json:"default,omitempty"` // Start from the reference die list
	Radius  *float64 `json:"radius,omitempty"`  // Cells; 0 selects the auto radius
	Dies    []string `json:"dies,omitempty"`    // Die names, "X{x}Y{y}"
}

// Fill colors a group of dies. Color values are a name, a hex string or a
// normalized RGB(A) list.
type Fill struct {
	Dies      []string `json:"dies"`
	Color     any      `json:"color,omitempty"`
	EdgeColor any      `json:"edgecolor,omitempty"`
	Hatch     string   `json:"hatch,omitempty"`
}

// Wafer describes the outline. Lengths are physical.
type Wafer struct {
	Hidden    bool         `json:"hidden,omitempty"`
	Radius    float64      `json:"radius,omitempty"` // 0 fits the lattice
	OffsetX   float64      `json:"x_offset,omitempty"`
	OffsetY   float64      `json:"y_offset,omitempty"`
	Notch     *NotchConfig `json:"notch,omitempty"`
	Face      string       `json:"facecolor,omitempty"`
	Edge      string       `json:"edgecolor,omitempty"`
	LineWidth float64      `json:"line_width,omitempty"`
}

// NotchConfig is the textual form of outline.Notch.
type NotchConfig struct {
	Orientation string  `json:"orientation"`
	Type        string  `json:"type"`
	Size        float64 `json:"size,omitempty"`
}

// Labels controls die labels.
type Labels struct {
	Enabled bool    `json:"enabled,omitempty"`
	Column  string  `json:"column,omitempty"`
	All     bool    `json:"all,omitempty"`
	Size    float64 `json:"size,omitempty"`
	Color   string  `json:"color,omitempty"`

	// Text labels single dies by name, e.g. {"X0Y0": "ref"}.
	Text map[string]string `json:"text,omitempty"`
}

// Coloring fills dies from a numeric attribute through a colormap.
type Coloring struct {
	Attribute string  `json:"attribute,omitempty"`
	Colormap  string  `json:"colormap,omitempty"`
	VMin      float64 `json:"vmin,omitempty"`
	VMax      float64 `json:"vmax,omitempty"`
}

// Measurements points at a table of per-die values.
type Measurements struct {
	Driver string `json:"driver,omitempty"` // "sqlite" or "pgx"
	DSN    string `json:"dsn,omitempty"`
	Table  string `json:"table,omitempty"`
}

// Output controls the rendered image.
type Output struct {
	Path    string  `json:"path,omitempty"`
	Width   int     `json:"width,omitempty"`
	Backend string  `json:"backend,omitempty"` // "gg" or "opencv"
	Margin  float64 `json:"margin,omitempty"`
}

// Default returns the reference wafer: the default lattice and die list
// inside an auto-sized outline, drawn with gg.
func Default() *Document {
	return &Document{
		Version: CurrentVersion,
		Name:    "default",
		Lattice: wafer.DefaultLattice(),
		Style:   wafer.DefaultStyle(),
		Members: Members{Default: true},
		Wafer: Wafer{
			Face:      colorutil.None,
			Edge:      "black",
			LineWidth: 1,
		},
		Labels:   Labels{Size: 6, Color: "black"},
		Coloring: Coloring{Colormap: "RdYlGn"},
		Output: Output{
			Path:    "wafer.png",
			Width:   800,
			Backend: "gg",
			Margin:  6,
		},
	}
}

// Load reads a document, choosing the loader from the file extension.
func Load(path string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".hcl":
		return LoadHCL(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Validate checks the document without building anything.
func (d *Document) Validate() error {
	if err := d.Lattice.Validate(); err != nil {
		return fmt.Errorf("%w: lattice: %w", ErrInvalid, err)
	}
	if r := d.Members.Radius; r != nil && *r < 0 {
		return fmt.Errorf("%w: members radius %v is negative", ErrInvalid, *r)
	}
	if _, err := dieid.ParseList(d.Members.Dies); err != nil {
		return fmt.Errorf("%w: members: %w", ErrInvalid, err)
	}
	for name := range d.Labels.Text {
		if _, _, err := dieid.Parse(name); err != nil {
			return fmt.Errorf("%w: labels: %w", ErrInvalid, err)
		}
	}
	for i, f := range d.Fills {
		if _, err := dieid.ParseList(f.Dies); err != nil {
			return fmt.Errorf("%w: fill %d: %w", ErrInvalid, i, err)
		}
	}
	if d.Wafer.Radius < 0 {
		return fmt.Errorf("%w: wafer radius %v is negative", ErrInvalid, d.Wafer.Radius)
	}
	if _, err := d.Notch(); err != nil {
		return fmt.Errorf("%w: wafer notch: %w", ErrInvalid, err)
	}
	if d.Coloring.Attribute != "" {
		if _, err := d.Colormap(); err != nil {
			return fmt.Errorf("%w: coloring: %w", ErrInvalid, err)
		}
	}
	switch d.Output.Backend {
	case "", "gg", "opencv":
	default:
		return fmt.Errorf("%w: output backend %q (want gg or opencv)", ErrInvalid, d.Output.Backend)
	}
	if d.Output.Width < 0 {
		return fmt.Errorf("%w: output width %d is negative", ErrInvalid, d.Output.Width)
	}
	return nil
}

// MapStyle returns the die style with every unset field taken from
// wafer.DefaultStyle.
func (d *Document) MapStyle() wafer.Style {
	s, def := d.Style, wafer.DefaultStyle()
	if s.Face == "" {
		s.Face = def.Face
	}
	if s.Edge == "" {
		s.Edge = def.Edge
	}
	if s.Blank == "" {
		s.Blank = def.Blank
	}
	if s.LineWidth <= 0 {
		s.LineWidth = def.LineWidth
	}
	return s
}

// normalize fills the lattice aspect, which both formats treat as optional.
func (d *Document) normalize() {
	if d.Lattice.Aspect == 0 {
		d.Lattice.Aspect = 1
	}
}

// Notch returns the outline notch, or nil when none is configured.
func (d *Document) Notch() (*outline.Notch, error) {
	nc := d.Wafer.Notch
	if nc == nil {
		return nil, nil
	}
	o, err := outline.ParseOrientation(nc.Orientation)
	if err != nil {
		return nil, err
	}
	t, err := outline.ParseNotchType(nc.Type)
	if err != nil {
		return nil, err
	}
	return &outline.Notch{Orientation: o, Type: t, Size: nc.Size}, nil
}

// BuildMap creates the map with its members and fills applied.
func (d *Document) BuildMap() (*wafer.Map, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	m, err := wafer.New(d.Lattice, nil, wafer.WithStyle(d.MapStyle()))
	if err != nil {
		return nil, err
	}

	if d.Members.Default {
		if err := m.AddList(wafer.DefaultWaferDies()); err != nil {
			return nil, fmt.Errorf("default members: %w", err)
		}
	}
	if d.Members.Radius != nil {
		dies, err := m.DiesInRadius(*d.Members.Radius)
		if err != nil {
			return nil, err
		}
		if err := m.AddList(dies); err != nil {
			return nil, err
		}
	}
	if err := m.AddList(coords(d.Members.Dies)); err != nil {
		return nil, fmt.Errorf("members: %w", err)
	}

	style := m.Style()
	for i, f := range d.Fills {
		face, edge := colorutil.Named(style.Face), colorutil.Named(style.Edge)
		if f.Color != nil {
			face = colorutil.FromValue(f.Color)
		}
		if f.EdgeColor != nil {
			edge = colorutil.FromValue(f.EdgeColor)
		}
		if err := m.ColorFill(coords(f.Dies), face, edge, f.Hatch); err != nil {
			return nil, fmt.Errorf("fill %d: %w", i, err)
		}
	}
	return m, nil
}

// Colormap returns the coloring colormap, RdYlGn when unset.
func (d *Document) Colormap() (colorutil.Colormap, error) {
	if d.Coloring.Colormap == "" {
		return colorutil.RdYlGn, nil
	}
	return colorutil.ColormapByName(d.Coloring.Colormap)
}

// ApplyColoring fills dies from the coloring attribute. It does nothing when
// no attribute is configured.
func (d *Document) ApplyColoring(m *wafer.Map) error {
	if d.Coloring.Attribute == "" {
		return nil
	}
	cmap, err := d.Colormap()
	if err != nil {
		return err
	}
	return m.ColorByAttribute(d.Coloring.Attribute, cmap, d.Coloring.VMin, d.Coloring.VMax)
}

// BuildOutline fits the configured outline to the lattice. It returns nil
// when the outline is hidden.
func (d *Document) BuildOutline() (*outline.Outline, error) {
	if d.Wafer.Hidden {
		return nil, nil
	}
	notch, err := d.Notch()
	if err != nil {
		return nil, err
	}
	ol, err := outline.ForGrid(d.Lattice, outline.Params{
		Radius:  d.Wafer.Radius,
		OffsetX: d.Wafer.OffsetX,
		OffsetY: d.Wafer.OffsetY,
		Notch:   notch,
	})
	if err != nil {
		return nil, err
	}
	return &ol, nil
}

// RenderOptions converts the drawing settings for render.Plot.
func (d *Document) RenderOptions(ol *outline.Outline) render.Options {
	opts := render.DefaultOptions()
	opts.Outline = ol
	if d.Output.Margin > 0 {
		opts.Margin = d.Output.Margin
	}
	if d.Wafer.Face != "" {
		opts.WaferFace = d.Wafer.Face
	}
	if d.Wafer.Edge != "" {
		opts.WaferEdge = d.Wafer.Edge
	}
	if d.Wafer.LineWidth > 0 {
		opts.WaferLineWidth = d.Wafer.LineWidth
	}

	l := d.Labels
	opts.Labels = l.Enabled || l.Column != ""
	opts.LabelColumn = l.Column
	opts.LabelAll = l.All
	if l.Size > 0 {
		opts.LabelSize = l.Size
	}
	if l.Color != "" {
		opts.LabelColor = l.Color
	}
	for name, text := range l.Text {
		if x, y, err := dieid.Parse(name); err == nil {
			opts = opts.LabelDie(x, y, text)
		}
	}
	return opts
}

// coords converts validated die names.
func coords(names []string) []wafer.Coord {
	out := make([]wafer.Coord, 0, len(names))
	for _, n := range names {
		x, y, err := dieid.Parse(n)
		if err != nil {
			continue
		}
		out = append(out, wafer.C(x, y))
	}
	return out
}
