package colormath

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidHex = errors.New("invalid hex color")
)
