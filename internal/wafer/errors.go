package wafer

import "errors"

var (
	// ErrInvalidRange indicates an inverted index range or a non-positive cell size.
	ErrInvalidRange = errors.New("wafer: invalid lattice range")
	// ErrOutOfRange indicates a coordinate outside the configured lattice.
	ErrOutOfRange = errors.New("wafer: coordinate out of range")
	// ErrDieNotFound indicates a lookup of a coordinate the map does not hold.
	ErrDieNotFound = errors.New("wafer: die not found")
	// ErrAttributeNotFound indicates a lookup of an attribute that was never set.
	ErrAttributeNotFound = errors.New("wafer: attribute not found")
	// ErrReadOnlyAttribute indicates an attempt to overwrite a derived attribute.
	ErrReadOnlyAttribute = errors.New("wafer: attribute is read-only")
	// ErrInvalidRadius indicates a negative selection radius.
	ErrInvalidRadius = errors.New("wafer: invalid radius")
	// ErrNotNumeric indicates an attribute value that cannot be read as a number.
	ErrNotNumeric = errors.New("wafer: attribute is not numeric")
)
