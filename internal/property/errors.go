package property

import "errors"

// Sentinel errors for draft mutation.
var (
	ErrUnknownAmenity = errors.New("unknown amenity")
	ErrUnknownField   = errors.New("unknown draft field")
)
