package outline

import "errors"

var (
	// ErrInvalidNotchOrientation indicates an orientation other than N, S, E or W.
	ErrInvalidNotchOrientation = errors.New("outline: invalid notch orientation")
	// ErrInvalidNotchType indicates a notch type other than flat, circular or elliptical.
	ErrInvalidNotchType = errors.New("outline: invalid notch type")
	// ErrInvalidNotchSize indicates a negative notch size or a notch that
	// would reach the wafer center.
	ErrInvalidNotchSize = errors.New("outline: invalid notch size")
	// ErrInvalidRadius indicates a non-positive or non-finite wafer radius.
	ErrInvalidRadius = errors.New("outline: invalid radius")
)
