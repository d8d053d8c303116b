package workflow

import (
	"context"
	"errors"
)

// Sentinel kinds for a failed analysis attempt. All are terminal for the
// attempt; a fresh Submit is the only retry.
var (
	ErrEmptyInput      = errors.New("empty input")
	ErrNetworkFailure  = errors.New("network failure")
	ErrTimeout         = errors.New("request timeout")
	ErrInvalidResponse = errors.New("invalid response format")

	ErrClosed = errors.New("workflow closed")
)

// User-facing messages for the Error phase.
const (
	MsgEmptyInput      = "please enter some text first"
	MsgTimeout         = "request timeout"
	MsgInvalidResponse = "invalid response format"
)

// Classify maps an analyzer error onto one of the sentinel kinds.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrEmptyInput):
		return ErrEmptyInput
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, ErrInvalidResponse):
		return ErrInvalidResponse
	default:
		return ErrNetworkFailure
	}
}

// Message returns the human-readable text shown for err. Network failures
// surface the underlying description.
func Message(err error) string {
	switch Classify(err) {
	case nil:
		return ""
	case ErrEmptyInput:
		return MsgEmptyInput
	case ErrTimeout:
		return MsgTimeout
	case ErrInvalidResponse:
		return MsgInvalidResponse
	default:
		return err.Error()
	}
}

// outcome is the metrics label for a settled attempt.
func outcome(kind error) string {
	switch kind {
	case nil:
		return "success"
	case ErrEmptyInput:
		return "empty_input"
	case ErrTimeout:
		return "timeout"
	case ErrInvalidResponse:
		return "invalid_response"
	default:
		return "network_failure"
	}
}
