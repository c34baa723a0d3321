package outline

import (
	"encoding/json"
	"fmt"
	"strings"

	"wafermap/pkg/geometry"
)

// Orientation is the compass side of the wafer carrying the notch.
type Orientation int

const (
	North Orientation = iota + 1
	South
	East
	West
)

func (o Orientation) String() string {
	switch o {
	case North:
		return "N"
	case South:
		return "S"
	case East:
		return "E"
	case West:
		return "W"
	default:
		return "Unknown"
	}
}

// Vertical reports whether the notch sits on the N-S axis.
func (o Orientation) Vertical() bool {
	return o == North || o == South
}

func (o Orientation) valid() bool {
	return o >= North && o <= West
}

// direction is the unit vector from the wafer center toward the notch.
func (o Orientation) direction() geometry.Point2D {
	switch o {
	case North:
		return geometry.Pt(0, 1)
	case South:
		return geometry.Pt(0, -1)
	case East:
		return geometry.Pt(1, 0)
	default:
		return geometry.Pt(-1, 0)
	}
}

// ParseOrientation accepts "N", "S", "E", "W" or the full compass names.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, nil
	case "s", "south":
		return South, nil
	case "e", "east":
		return East, nil
	case "w", "west":
		return West, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidNotchOrientation, s)
}

// MarshalJSON implements json.Marshaler.
func (o Orientation) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Orientation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseOrientation(s)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// NotchType selects the shape cut into the wafer edge.
type NotchType int

const (
	Flat       NotchType = iota + 1 // Straight chord
	Circular                        // Round notch
	Elliptical                      // Notch elongated along its orientation
)

func (t NotchType) String() string {
	switch t {
	case Flat:
		return "flat"
	case Circular:
		return "circular"
	case Elliptical:
		return "elliptical"
	default:
		return "unknown"
	}
}

func (t NotchType) valid() bool {
	return t >= Flat && t <= Elliptical
}

// ParseNotchType accepts the full type names or their first letter.
func ParseNotchType(s string) (NotchType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "flat":
		return Flat, nil
	case "c", "circular":
		return Circular, nil
	case "e", "elliptical":
		return Elliptical, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidNotchType, s)
}

// MarshalJSON implements json.Marshaler.
func (t NotchType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *NotchType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseNotchType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Notch describes the orientation mark on the wafer edge.
type Notch struct {
	Orientation Orientation `json:"orientation"`
	Type        NotchType   `json:"type"`

	// Size is the larger notch semi-axis in physical units. Zero picks a
	// tenth of the wafer radius.
	Size float64 `json:"size,omitempty"`
}

func (n Notch) validate(radius float64) error {
	if !n.Orientation.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidNotchOrientation, int(n.Orientation))
	}
	if !n.Type.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidNotchType, int(n.Type))
	}
	if n.Size < 0 {
		return fmt.Errorf("%w: %v is negative", ErrInvalidNotchSize, n.Size)
	}
	rx, ry := n.semiAxes(radius)
	if m := max(rx, ry); m >= radius {
		return fmt.Errorf("%w: %s notch semi-axis %v reaches radius %v", ErrInvalidNotchSize, n.Type, m, radius)
	}
	return nil
}

// semiAxes returns the x and y semi-axes of the notch ellipse.
func (n Notch) semiAxes(radius float64) (rx, ry float64) {
	big, small := radius/10, radius/12
	if n.Size > 0 {
		big, small = n.Size, n.Size*10/12
	}

	switch n.Type {
	case Flat:
		return 2 * big, 2 * big
	case Elliptical:
		if n.Orientation.Vertical() {
			return small, big
		}
		return big, small
	default:
		return big, big
	}
}
