// Package repository keeps the live analysis sessions.
package repository

import (
	"context"
	"time"

	"github.com/okian/remonster/internal/domain/workflow"
)

// Session is one client's workflow.
type Session struct {
	ID        string
	CreatedAt time.Time
	Machine   *workflow.Machine
}

// Store provides access to the live sessions.
type Store interface {
	// Add registers machine under a new session ID. When the store is full
	// the least recently used session is evicted and its machine closed.
	Add(ctx context.Context, machine *workflow.Machine) (Session, error)

	// Get returns the session and marks it as recently used.
	// Returns ErrNotFound if the session is unknown.
	Get(ctx context.Context, id string) (Session, error)

	// Delete removes the session and closes its machine.
	// Returns ErrNotFound if the session is unknown.
	Delete(ctx context.Context, id string) error

	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}
