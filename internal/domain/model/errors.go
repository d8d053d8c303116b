package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidShape      = errors.New("invalid analysis result shape")
	ErrUnknownColorSpace = errors.New("unknown color space")
	ErrUnknownPhase      = errors.New("unknown phase")

	// Session-level kinds shared by the service and its transports.
	ErrSessionNotFound = errors.New("session not found")
	ErrNoResult        = errors.New("no successful analysis yet")
	ErrServiceStopped  = errors.New("service not running")
)

func shapeError(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidShape, detail)
}
