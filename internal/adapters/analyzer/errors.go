package analyzer

import "errors"

// Sentinel kinds for analyzer errors.
var (
	ErrUnexpectedStatus = errors.New("unexpected analyzer status")
	ErrBodyTooLarge     = errors.New("analyzer response too large")
	ErrNoURL            = errors.New("analyzer url not configured")
)
