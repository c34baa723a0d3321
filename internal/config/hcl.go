package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"wafermap/internal/wafer"
)

// hclFile is the top-level shape of an HCL document. Blocks may be omitted;
// omitted blocks keep the values from Default.
type hclFile struct {
	Name         string           `hcl:"name,optional"`
	Lattice      *hclLattice      `hcl:"lattice,block"`
	Style        *hclStyle        `hcl:"style,block"`
	Members      *hclMembers      `hcl:"members,block"`
	Fills        []hclFill        `hcl:"fill,block"`
	Wafer        *hclWafer        `hcl:"wafer,block"`
	Labels       *hclLabels       `hcl:"labels,block"`
	Coloring     *hclColoring     `hcl:"coloring,block"`
	Measurements *hclMeasurements `hcl:"measurements,block"`
	Output       *hclOutput       `hcl:"output,block"`
}

type hclLattice struct {
	XRange []int   `hcl:"x_range"`
	YRange []int   `hcl:"y_range"`
	Height float64 `hcl:"height"`
	Aspect float64 `hcl:"aspect,optional"`
	VFlip  bool    `hcl:"v_flip,optional"`
	HFlip  bool    `hcl:"h_flip,optional"`
}

type hclStyle struct {
	Face      string  `hcl:"face,optional"`
	Edge      string  `hcl:"edge,optional"`
	Blank     string  `hcl:"blank,optional"`
	LineWidth float64 `hcl:"line_width,optional"`
}

type hclMembers struct {
	Default bool     `hcl:"default,optional"`
	Radius  *float64 `hcl:"radius,optional"`
	Dies    []string `hcl:"dies,optional"`
}

// Colors are untyped: a name, a hex string or a list of numbers.
type hclFill struct {
	Dies      []string  `hcl:"dies"`
	Color     cty.Value `hcl:"color,optional"`
	EdgeColor cty.Value `hcl:"edgecolor,optional"`
	Hatch     string    `hcl:"hatch,optional"`
}

type hclWafer struct {
	Hidden    bool      `hcl:"hidden,optional"`
	Radius    float64   `hcl:"radius,optional"`
	OffsetX   float64   `hcl:"x_offset,optional"`
	OffsetY   float64   `hcl:"y_offset,optional"`
	Face      string    `hcl:"facecolor,optional"`
	Edge      string    `hcl:"edgecolor,optional"`
	LineWidth float64   `hcl:"line_width,optional"`
	Notch     *hclNotch `hcl:"notch,block"`
}

type hclNotch struct {
	Orientation string  `hcl:"orientation"`
	Type        string  `hcl:"type"`
	Size        float64 `hcl:"size,optional"`
}

type hclLabels struct {
	Enabled bool              `hcl:"enabled,optional"`
	Column  string            `hcl:"column,optional"`
	All     bool              `hcl:"all,optional"`
	Size    float64           `hcl:"size,optional"`
	Color   string            `hcl:"color,optional"`
	Text    map[string]string `hcl:"text,optional"`
}

type hclColoring struct {
	Attribute string  `hcl:"attribute"`
	Colormap  string  `hcl:"colormap,optional"`
	VMin      float64 `hcl:"vmin,optional"`
	VMax      float64 `hcl:"vmax,optional"`
}

type hclMeasurements struct {
	Driver string `hcl:"driver"`
	DSN    string `hcl:"dsn"`
	Table  string `hcl:"table,optional"`
}

type hclOutput struct {
	Path    string  `hcl:"path,optional"`
	Width   int     `hcl:"width,optional"`
	Backend string  `hcl:"backend,optional"`
	Margin  float64 `hcl:"margin,optional"`
}

// LoadHCL reads and validates an HCL document.
func LoadHCL(path string) (*Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	doc, err := parsed.document()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// document overlays the parsed blocks on Default.
func (f *hclFile) document() (*Document, error) {
	doc := Default()
	if f.Name != "" {
		doc.Name = f.Name
	}

	if l := f.Lattice; l != nil {
		x, err := indexRange("x_range", l.XRange)
		if err != nil {
			return nil, err
		}
		y, err := indexRange("y_range", l.YRange)
		if err != nil {
			return nil, err
		}
		doc.Lattice = wafer.Lattice{X: x, Y: y, Height: l.Height, Aspect: l.Aspect, VFlip: l.VFlip, HFlip: l.HFlip}
		// A custom lattice does not inherit the reference die list.
		doc.Members = Members{}
	}

	if s := f.Style; s != nil {
		overlay(&doc.Style.Face, s.Face)
		overlay(&doc.Style.Edge, s.Edge)
		overlay(&doc.Style.Blank, s.Blank)
		if s.LineWidth > 0 {
			doc.Style.LineWidth = s.LineWidth
		}
	}

	if m := f.Members; m != nil {
		doc.Members = Members{Default: m.Default, Radius: m.Radius, Dies: m.Dies}
	}

	for i, fl := range f.Fills {
		face, err := ctyValueToInterface(fl.Color)
		if err != nil {
			return nil, fmt.Errorf("fill %d color: %w", i, err)
		}
		edge, err := ctyValueToInterface(fl.EdgeColor)
		if err != nil {
			return nil, fmt.Errorf("fill %d edgecolor: %w", i, err)
		}
		doc.Fills = append(doc.Fills, Fill{Dies: fl.Dies, Color: face, EdgeColor: edge, Hatch: fl.Hatch})
	}

	if w := f.Wafer; w != nil {
		doc.Wafer.Hidden = w.Hidden
		doc.Wafer.Radius = w.Radius
		doc.Wafer.OffsetX = w.OffsetX
		doc.Wafer.OffsetY = w.OffsetY
		overlay(&doc.Wafer.Face, w.Face)
		overlay(&doc.Wafer.Edge, w.Edge)
		if w.LineWidth > 0 {
			doc.Wafer.LineWidth = w.LineWidth
		}
		if n := w.Notch; n != nil {
			doc.Wafer.Notch = &NotchConfig{Orientation: n.Orientation, Type: n.Type, Size: n.Size}
		}
	}

	if l := f.Labels; l != nil {
		doc.Labels.Enabled = l.Enabled
		doc.Labels.Column = l.Column
		doc.Labels.All = l.All
		doc.Labels.Text = l.Text
		if l.Size > 0 {
			doc.Labels.Size = l.Size
		}
		overlay(&doc.Labels.Color, l.Color)
	}

	if c := f.Coloring; c != nil {
		doc.Coloring.Attribute = c.Attribute
		overlay(&doc.Coloring.Colormap, c.Colormap)
		doc.Coloring.VMin = c.VMin
		doc.Coloring.VMax = c.VMax
	}

	if m := f.Measurements; m != nil {
		doc.Measurements = Measurements{Driver: m.Driver, DSN: m.DSN, Table: m.Table}
	}

	if o := f.Output; o != nil {
		overlay(&doc.Output.Path, o.Path)
		overlay(&doc.Output.Backend, o.Backend)
		if o.Width != 0 {
			doc.Output.Width = o.Width
		}
		if o.Margin != 0 {
			doc.Output.Margin = o.Margin
		}
	}
	doc.normalize()
	return doc, nil
}

func indexRange(name string, v []int) (wafer.Range, error) {
	if len(v) != 2 {
		return wafer.Range{}, fmt.Errorf("%w: %s needs [min, max], got %d values", ErrInvalid, name, len(v))
	}
	return wafer.Range{Min: v[0], Max: v[1]}, nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ctyValueToInterface converts a cty.Value to a Go interface{}.
func ctyValueToInterface(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	if val.Type().IsPrimitiveType() {
		switch val.Type() {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", val.Type().FriendlyName())
		}
	}
	if val.Type().IsTupleType() || val.Type().IsListType() {
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			valInterface, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out = append(out, valInterface)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty.Type for conversion: %s", val.Type().FriendlyName())
}
