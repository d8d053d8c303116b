package workflow

import (
	"time"

	"github.com/okian/remonster/pkg/logger"
)

// DefaultTimeout is the caller-side deadline armed for every analyzer call.
const DefaultTimeout = 10 * time.Second

// Option applies a configuration option to the Machine.
type Option func(*Machine)

// WithTimeout sets the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithLogger sets a custom logger for the machine.
func WithLogger(l logger.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithObserver registers fn to be called with every state the machine
// moves to. fn runs outside the machine's lock and must not block.
func WithObserver(fn func(State)) Option {
	return func(m *Machine) {
		m.observer = fn
	}
}
