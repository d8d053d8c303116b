package smoke

import "errors"

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrUnexpectedState  = errors.New("unexpected session state")
	ErrSettleTimeout    = errors.New("analysis did not settle")
	ErrVerification     = errors.New("visualization verification failed")
	ErrJobsFailed       = errors.New("smoke jobs failed")
	ErrNoJobs           = errors.New("no jobs to run")
)
