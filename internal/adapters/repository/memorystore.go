package repository

import (
	"context"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/google/uuid"

	"github.com/okian/remonster/internal/domain/workflow"
	"github.com/okian/remonster/pkg/metrics"
)

// defaultMaxSessions bounds the store when no option is given.
const defaultMaxSessions = 1024

// MemoryStore is a bounded, in-memory Store with LRU eviction.
type MemoryStore struct {
	mu     sync.Mutex
	cache  *lru.Cache
	closed bool

	maxSessions int
	now         func() time.Time
	newID       func() string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new session store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		maxSessions: defaultMaxSessions,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cache = lru.New(s.maxSessions)
	s.cache.OnEvicted = func(_ lru.Key, value interface{}) {
		// Runs under s.mu for both eviction and explicit removal.
		value.(Session).Machine.Close()
	}
	return s
}

// Add implements Store.
func (s *MemoryStore) Add(ctx context.Context, machine *workflow.Machine) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Session{}, ErrClosed
	}

	sess := Session{
		ID:        s.newID(),
		CreatedAt: s.now(),
		Machine:   machine,
	}

	evicting := s.cache.Len() >= s.maxSessions
	s.cache.Add(sess.ID, sess)
	if evicting {
		metrics.RecordSessionEvicted()
	}
	metrics.UpdateActiveSessions(s.cache.Len())
	return sess, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(id)
	if !ok {
		return Session{}, ErrNotFound
	}
	return v.(Session), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache.Get(id); !ok {
		return ErrNotFound
	}
	s.cache.Remove(id)
	metrics.UpdateActiveSessions(s.cache.Len())
	return nil
}

// Count implements Store.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

// Close closes every session's machine and rejects further additions.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.cache.Clear()
	metrics.UpdateActiveSessions(0)
	return nil
}
