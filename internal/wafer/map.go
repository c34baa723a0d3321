package wafer

import (
	"fmt"
	"maps"
	"sort"

	"wafermap/pkg/colorutil"
	"wafermap/pkg/geometry"
)

// Reserved attribute names. Style and membership names route to the typed
// fields of a Die; position names are derived and read-only.
const (
	AttrColor     = "color"
	AttrEdgeColor = "edgecolor"
	AttrHatch     = "hatch"
	AttrInWafer   = "in_wafer"
	AttrX         = "x"
	AttrY         = "y"
	AttrPlotX     = "plotx"
	AttrPlotY     = "ploty"
)

// Style holds the default die appearance.
type Style struct {
	Face      string  `json:"face"`       // Fill of member dies
	Edge      string  `json:"edge"`       // Edge of member dies
	Blank     string  `json:"blank"`      // Fill and edge of non-member dies
	LineWidth float64 `json:"line_width"` // Edge width handed to renderers
}

// DefaultStyle returns gray dies with black edges on an invisible background.
func DefaultStyle() Style {
	return Style{
		Face:      "gray",
		Edge:      "black",
		Blank:     colorutil.None,
		LineWidth: 0.5,
	}
}

// Die is one lattice cell.
type Die struct {
	Coord
	Origin  geometry.Point2D // Physical minimum corner
	Face    string           // Fill style
	Edge    string           // Edge style
	Hatch   string           // Hatch pattern, "" for none
	InWafer bool             // Membership

	attrs map[string]any
}

// Attributes returns a copy of the caller-defined attributes.
func (d Die) Attributes() map[string]any {
	return maps.Clone(d.attrs)
}

// Option configures a Map at construction.
type Option func(*Map)

// WithStyle overrides the default die style.
func WithStyle(s Style) Option {
	return func(m *Map) {
		m.style = s
	}
}

// Map owns one Die per lattice cell, keyed by coordinate. A Map belongs to a
// single caller; it does no locking.
type Map struct {
	lattice Lattice
	style   Style
	dies    map[Coord]*Die
}

// New builds a fully populated map. Dies listed in members start in the wafer
// with the default style; all others start blank.
func New(l Lattice, members []Coord, opts ...Option) (*Map, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	for _, c := range members {
		if !l.Contains(c.X, c.Y) {
			return nil, fmt.Errorf("%w: member %s outside x [%d, %d] y [%d, %d]",
				ErrOutOfRange, c, l.X.Min, l.X.Max, l.Y.Min, l.Y.Max)
		}
	}

	m := &Map{
		lattice: l,
		style:   DefaultStyle(),
		dies:    make(map[Coord]*Die, l.Len()),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, c := range l.Coords() {
		d := &Die{
			Coord:  c,
			Origin: l.Transform(c.X, c.Y),
		}
		m.blank(d)
		m.dies[c] = d
	}
	for _, c := range members {
		m.member(m.dies[c])
	}
	return m, nil
}

// Lattice returns the lattice the map was built on.
func (m *Map) Lattice() Lattice {
	return m.lattice
}

// Style returns the default die style.
func (m *Map) Style() Style {
	return m.style
}

// Len returns the number of dies, members or not.
func (m *Map) Len() int {
	return len(m.dies)
}

// Add puts a die in the wafer and resets its fill and edge to the default
// style. The hatch is left as is.
func (m *Map) Add(x, y int) error {
	d, err := m.inRange(x, y)
	if err != nil {
		return err
	}
	m.member(d)
	return nil
}

// AddList adds every die. Nothing changes if any coordinate is out of range.
func (m *Map) AddList(dies []Coord) error {
	for _, c := range dies {
		if _, err := m.inRange(c.X, c.Y); err != nil {
			return err
		}
	}
	for _, c := range dies {
		m.member(m.dies[c])
	}
	return nil
}

// Remove takes a die out of the wafer and blanks its fill, edge and hatch.
func (m *Map) Remove(x, y int) error {
	d, err := m.inRange(x, y)
	if err != nil {
		return err
	}
	m.blank(d)
	return nil
}

// RemoveList removes every die. Nothing changes if any coordinate is out of range.
func (m *Map) RemoveList(dies []Coord) error {
	for _, c := range dies {
		if _, err := m.inRange(c.X, c.Y); err != nil {
			return err
		}
	}
	for _, c := range dies {
		m.blank(m.dies[c])
	}
	return nil
}

// Die returns a copy of the die at (x, y).
func (m *Map) Die(x, y int) (Die, error) {
	d, err := m.lookup(x, y)
	if err != nil {
		return Die{}, err
	}
	out := *d
	out.attrs = maps.Clone(d.attrs)
	return out, nil
}

// IsMember reports whether the die at (x, y) is in the wafer.
func (m *Map) IsMember(x, y int) (bool, error) {
	d, err := m.lookup(x, y)
	if err != nil {
		return false, err
	}
	return d.InWafer, nil
}

// Origin returns the physical origin of the die at (x, y).
func (m *Map) Origin(x, y int) (geometry.Point2D, error) {
	d, err := m.lookup(x, y)
	if err != nil {
		return geometry.Point2D{}, err
	}
	return d.Origin, nil
}

// SetColor sets the fill of the die at (x, y).
func (m *Map) SetColor(x, y int, c colorutil.Color) error {
	d, err := m.lookup(x, y)
	if err != nil {
		return err
	}
	d.Face = c.String()
	return nil
}

// SetEdgeColor sets the edge of the die at (x, y).
func (m *Map) SetEdgeColor(x, y int, c colorutil.Color) error {
	d, err := m.lookup(x, y)
	if err != nil {
		return err
	}
	d.Edge = c.String()
	return nil
}

// SetHatch sets the hatch pattern of the die at (x, y).
func (m *Map) SetHatch(x, y int, hatch string) error {
	d, err := m.lookup(x, y)
	if err != nil {
		return err
	}
	d.Hatch = hatch
	return nil
}

// SetAttribute stores value under name for the die at (x, y). Style names go
// through colorutil.FromValue, so normalized RGBA sequences become hex.
func (m *Map) SetAttribute(x, y int, name string, value any) error {
	d, err := m.lookup(x, y)
	if err != nil {
		return err
	}

	switch name {
	case AttrColor:
		d.Face = colorutil.FromValue(value).String()
	case AttrEdgeColor:
		d.Edge = colorutil.FromValue(value).String()
	case AttrHatch:
		h, ok := value.(string)
		if !ok {
			return fmt.Errorf("wafer: hatch for %s must be a string, got %T", d.Coord, value)
		}
		d.Hatch = h
	case AttrInWafer:
		in, ok := value.(bool)
		if !ok {
			return fmt.Errorf("wafer: in_wafer for %s must be a bool, got %T", d.Coord, value)
		}
		if in {
			m.member(d)
		} else {
			m.blank(d)
		}
	case AttrX, AttrY, AttrPlotX, AttrPlotY:
		return fmt.Errorf("%w: %q", ErrReadOnlyAttribute, name)
	default:
		if d.attrs == nil {
			d.attrs = make(map[string]any)
		}
		d.attrs[name] = value
	}
	return nil
}

// Attribute returns the value stored under name for the die at (x, y).
func (m *Map) Attribute(x, y int, name string) (any, error) {
	d, err := m.lookup(x, y)
	if err != nil {
		return nil, err
	}

	switch name {
	case AttrColor:
		return d.Face, nil
	case AttrEdgeColor:
		return d.Edge, nil
	case AttrHatch:
		return d.Hatch, nil
	case AttrInWafer:
		return d.InWafer, nil
	case AttrX:
		return d.X, nil
	case AttrY:
		return d.Y, nil
	case AttrPlotX:
		return d.Origin.X, nil
	case AttrPlotY:
		return d.Origin.Y, nil
	}
	v, ok := d.attrs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrAttributeNotFound, name, d.Coord)
	}
	return v, nil
}

// HasAttribute reports whether a caller-defined attribute is set on any die.
func (m *Map) HasAttribute(name string) bool {
	for _, d := range m.dies {
		if _, ok := d.attrs[name]; ok {
			return true
		}
	}
	return false
}

// ColorFill applies fill, edge and hatch to every listed die. Nothing changes
// if any coordinate is unknown.
func (m *Map) ColorFill(dies []Coord, face, edge colorutil.Color, hatch string) error {
	for _, c := range dies {
		if _, err := m.lookup(c.X, c.Y); err != nil {
			return err
		}
	}
	for _, c := range dies {
		d := m.dies[c]
		d.Face = face.String()
		d.Edge = edge.String()
		d.Hatch = hatch
	}
	return nil
}

// ResetDie restores the default member style of one die without touching
// its membership.
func (m *Map) ResetDie(x, y int) error {
	d, err := m.lookup(x, y)
	if err != nil {
		return err
	}
	d.Face = m.style.Face
	d.Edge = m.style.Edge
	d.Hatch = ""
	return nil
}

// ResetStyles restores the default member style of every die.
func (m *Map) ResetStyles() {
	for _, d := range m.dies {
		d.Face = m.style.Face
		d.Edge = m.style.Edge
		d.Hatch = ""
	}
}

// Coords returns all lattice coordinates, x-major then y ascending.
func (m *Map) Coords() []Coord {
	return m.lattice.Coords()
}

// Members returns the coordinates of the dies in the wafer, x-major then y
// ascending.
func (m *Map) Members() []Coord {
	out := make([]Coord, 0, len(m.dies))
	for c, d := range m.dies {
		if d.InWafer {
			out = append(out, c)
		}
	}
	sortCoords(out)
	return out
}

func (m *Map) member(d *Die) {
	d.InWafer = true
	d.Face = m.style.Face
	d.Edge = m.style.Edge
}

func (m *Map) blank(d *Die) {
	d.InWafer = false
	d.Face = m.style.Blank
	d.Edge = m.style.Blank
	d.Hatch = ""
}

func (m *Map) inRange(x, y int) (*Die, error) {
	d, ok := m.dies[Coord{X: x, Y: y}]
	if !ok {
		return nil, fmt.Errorf("%w: %s outside x [%d, %d] y [%d, %d]", ErrOutOfRange,
			Coord{X: x, Y: y}, m.lattice.X.Min, m.lattice.X.Max, m.lattice.Y.Min, m.lattice.Y.Max)
	}
	return d, nil
}

func (m *Map) lookup(x, y int) (*Die, error) {
	d, ok := m.dies[Coord{X: x, Y: y}]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDieNotFound, Coord{X: x, Y: y})
	}
	return d, nil
}

func sortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].X != cs[j].X {
			return cs[i].X < cs[j].X
		}
		return cs[i].Y < cs[j].Y
	})
}
