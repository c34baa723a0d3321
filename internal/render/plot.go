package render

import (
	"fmt"
	"slices"
	"sort"
	"strconv"

	"wafermap/internal/outline"
	"wafermap/internal/wafer"
	"wafermap/pkg/colorutil"
	"wafermap/pkg/geometry"
)

// EmptySelection is the warning code for a plot with no dies to draw.
const EmptySelection = "empty_selection"

// Warning is a non-fatal diagnostic attached to a scene.
type Warning struct {
	Code    string
	Message string
}

func (w Warning) String() string {
	return w.Code + ": " + w.Message
}

// Options controls Plot.
type Options struct {
	// Dies to draw. Nil or empty draws the wafer members.
	Dies []wafer.Coord

	// Margin around the lattice in world units.
	Margin float64

	// LineWidth of die edges. Zero uses the map style.
	LineWidth float64

	Outline        *outline.Outline
	WaferFace      string
	WaferEdge      string
	WaferLineWidth float64

	// Labels enables "{x}.{y}" labels. LabelColumn labels with an
	// attribute value instead. LabelAll also labels non-member dies.
	Labels      bool
	LabelColumn string
	LabelAll    bool
	LabelColor  string
	LabelSize   float64

	// LabelText labels individual dies with caller text. It takes precedence
	// over the other label sources and works without Labels.
	LabelText map[wafer.Coord]string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Margin:         6,
		WaferFace:      colorutil.None,
		WaferEdge:      "black",
		WaferLineWidth: 1,
		LabelColor:     "black",
		LabelSize:      6,
	}
}

// WithOutline returns a copy of the options drawing the given outline.
func (o Options) WithOutline(ol outline.Outline) Options {
	o.Outline = &ol
	return o
}

// WithLabels returns a copy of the options labelling dies by column, or by
// coordinates when column is empty.
func (o Options) WithLabels(column string, all bool) Options {
	o.Labels = true
	o.LabelColumn = column
	o.LabelAll = all
	return o
}

// LabelDie returns a copy of the options labelling one die with text.
func (o Options) LabelDie(x, y int, text string) Options {
	texts := make(map[wafer.Coord]string, len(o.LabelText)+1)
	for c, t := range o.LabelText {
		texts[c] = t
	}
	texts[wafer.C(x, y)] = text
	o.LabelText = texts
	return o
}

// Plot builds the scene for a map. An empty die selection is not an error:
// the scene carries an EmptySelection warning and no rectangles.
func Plot(m *wafer.Map, opts Options) (Scene, error) {
	l := m.Lattice()
	scene := Scene{Bounds: l.Bounds().Inset(opts.Margin)}

	if opts.Outline != nil {
		addOutline(&scene, *opts.Outline, opts)
	}

	dies := opts.Dies
	if len(dies) == 0 {
		dies = m.Members()
	}
	lw := opts.LineWidth
	if lw == 0 {
		lw = m.Style().LineWidth
	}
	for _, c := range dies {
		d, err := m.Die(c.X, c.Y)
		if err != nil {
			return Scene{}, err
		}
		scene.Rects = append(scene.Rects, RectRequest{
			Origin:    d.Origin,
			Width:     l.Width(),
			Height:    l.Height,
			Face:      d.Face,
			Edge:      d.Edge,
			Hatch:     d.Hatch,
			LineWidth: lw,
		})
	}

	if len(scene.Rects) == 0 {
		w := Warning{
			Code:    EmptySelection,
			Message: "no dies to plot; add dies to the map or select them by radius",
		}
		scene.Warnings = append(scene.Warnings, w)
		Logger().Warn("render: empty selection", "code", w.Code, "lattice_cells", l.Len())
		return scene, nil
	}

	if opts.Labels || len(opts.LabelText) > 0 {
		labels, err := buildLabels(m, opts)
		if err != nil {
			return Scene{}, err
		}
		scene.Labels = labels
	}

	Logger().Debug("render: scene planned",
		"dies", len(scene.Rects), "labels", len(scene.Labels),
		"bounds_w", scene.Bounds.Width, "bounds_h", scene.Bounds.Height)
	return scene, nil
}

func addOutline(scene *Scene, ol outline.Outline, opts Options) {
	if ol.IsCircle() {
		scene.Circle = &CircleRequest{
			Center:    ol.Circle.Center,
			Radius:    ol.Circle.Radius,
			Face:      opts.WaferFace,
			Edge:      opts.WaferEdge,
			LineWidth: opts.WaferLineWidth,
		}
	} else {
		scene.Path = &PathRequest{
			Points:    slices.Clone(ol.Points),
			Commands:  slices.Clone(ol.Commands),
			Face:      opts.WaferFace,
			Edge:      opts.WaferEdge,
			LineWidth: opts.WaferLineWidth,
		}
	}
	scene.Bounds = scene.Bounds.Union(ol.Bounds())
}

func buildLabels(m *wafer.Map, opts Options) ([]LabelRequest, error) {
	if opts.Labels && opts.LabelColumn != "" && !m.HasAttribute(opts.LabelColumn) {
		return nil, fmt.Errorf("label column: %w: %q", wafer.ErrAttributeNotFound, opts.LabelColumn)
	}

	var coords []wafer.Coord
	switch {
	case !opts.Labels:
		for c := range opts.LabelText {
			coords = append(coords, c)
		}
		sortCoords(coords)
	case opts.LabelAll:
		coords = m.Coords()
	default:
		coords = m.Members()
	}

	l := m.Lattice()
	var out []LabelRequest
	for _, c := range coords {
		text := DefaultLabel(c)
		if t, ok := opts.LabelText[c]; ok {
			text = t
		} else if opts.LabelColumn != "" {
			v, err := m.Attribute(c.X, c.Y, opts.LabelColumn)
			if err != nil {
				continue
			}
			text = formatValue(v)
		}
		origin, err := m.Origin(c.X, c.Y)
		if err != nil {
			return nil, err
		}
		out = append(out, LabelRequest{
			Center: origin.Add(geometry.Pt(l.Width()/2, l.Height/2)),
			Text:   text,
			Color:  opts.LabelColor,
			Size:   opts.LabelSize,
		})
	}
	return out, nil
}

func sortCoords(cs []wafer.Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].X != cs[j].X {
			return cs[i].X < cs[j].X
		}
		return cs[i].Y < cs[j].Y
	})
}

// DefaultLabel is the coordinate label of a die, e.g. "-4.2".
func DefaultLabel(c wafer.Coord) string {
	return strconv.Itoa(c.X) + "." + strconv.Itoa(c.Y)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}
