// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/remonster/internal/adapters/analyzer"
	repository "github.com/okian/remonster/internal/adapters/repository"
	"github.com/okian/remonster/internal/domain/model"
	"github.com/okian/remonster/internal/domain/sampler"
	"github.com/okian/remonster/internal/domain/types"
	"github.com/okian/remonster/internal/domain/workflow"
	"github.com/okian/remonster/pkg/logger"
	"github.com/okian/remonster/pkg/metrics"
)

// Service owns the analysis sessions and serves the HTTP API.
type Service struct {
	mu sync.RWMutex

	// Core components
	sessions *repository.MemoryStore
	analyzer workflow.Analyzer
	sampler  *sampler.Sampler

	// Configuration
	analyzerURL     string
	analyzerTimeout time.Duration
	maxSessions     int
	viewport        sampler.Viewport
	// Offline analyzer latency configuration
	offlineMinLatency time.Duration
	offlineMaxLatency time.Duration

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAnalyzerURL points the service at a remote analysis service. An
// empty URL selects the offline in-memory analyzer.
func WithAnalyzerURL(url string) Option {
	return func(s *Service) {
		s.analyzerURL = url
	}
}

// WithAnalyzer sets the analyzer directly, overriding WithAnalyzerURL.
func WithAnalyzer(a workflow.Analyzer) Option {
	return func(s *Service) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithAnalyzerTimeout sets the per-request deadline.
func WithAnalyzerTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.analyzerTimeout = d
		}
	}
}

// WithMaxSessions bounds the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithViewport sets the drawing surface of the visualizations.
func WithViewport(v sampler.Viewport) Option {
	return func(s *Service) {
		s.viewport = v
	}
}

// WithOfflineLatencyRange sets the simulated latency of the offline analyzer.
func WithOfflineLatencyRange(min, max time.Duration) Option {
	return func(s *Service) {
		if min >= 0 && max >= min {
			s.offlineMinLatency = min
			s.offlineMaxLatency = max
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		analyzerTimeout:   workflow.DefaultTimeout,
		maxSessions:       1024,
		viewport:          sampler.DefaultViewport(),
		offlineMinLatency: 80 * time.Millisecond,
		offlineMaxLatency: 150 * time.Millisecond,
		logger:            nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting remonster service...")

	if s.analyzer == nil {
		if s.analyzerURL != "" {
			s.analyzer = analyzer.NewHTTPAnalyzer(s.analyzerURL,
				analyzer.WithHTTPLogger(s.logger.Named("analyzer")),
			)
			s.logger.Info(ctx, "using remote analyzer", logger.String("url", s.analyzerURL))
		} else {
			s.analyzer = analyzer.NewInMemoryAnalyzer(
				analyzer.WithLatencyRange(s.offlineMinLatency, s.offlineMaxLatency),
			)
			s.logger.Info(ctx, "no analyzer_url configured; using offline analyzer")
		}
	}

	s.sessions = repository.NewMemoryStore(repository.WithMaxSessions(s.maxSessions))
	s.sampler = sampler.New(sampler.WithViewport(s.viewport))

	s.started = true
	s.logger.Info(ctx, "remonster service started",
		logger.Int("maxSessions", s.maxSessions),
		logger.Duration("analyzerTimeout", s.analyzerTimeout),
	)

	return nil
}

// Stop ends every session and shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping remonster service...")

	if s.sessions != nil {
		_ = s.sessions.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "remonster service stopped")
}

// CreateSession starts a new workflow in the initial state.
func (s *Service) CreateSession(ctx context.Context) (types.SessionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return types.SessionView{}, model.ErrServiceStopped
	}

	m := workflow.New(s.analyzer,
		workflow.WithTimeout(s.analyzerTimeout),
		workflow.WithLogger(s.logger.Named("workflow")),
	)
	sess, err := s.sessions.Add(ctx, m)
	if err != nil {
		m.Close()
		return types.SessionView{}, mapErr(err, "")
	}

	s.logger.Debug(ctx, "session created", logger.String("sessionID", sess.ID))
	return types.SessionView{SessionID: sess.ID, State: types.NewStateView(m.State())}, nil
}

// Session returns the current state of a session.
func (s *Service) Session(ctx context.Context, id string) (types.StateView, error) {
	m, err := s.machine(ctx, id)
	if err != nil {
		return types.StateView{}, err
	}
	return types.NewStateView(m.State()), nil
}

// EndSession removes a session, cancelling any call in flight.
func (s *Service) EndSession(ctx context.Context, id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.ErrServiceStopped
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return mapErr(err, id)
	}
	s.logger.Debug(ctx, "session ended", logger.String("sessionID", id))
	return nil
}

// Submit starts an analysis of text in the session. The returned state is
// Loading, or Error for blank text.
func (s *Service) Submit(ctx context.Context, id, text string) (types.StateView, error) {
	m, err := s.machine(ctx, id)
	if err != nil {
		return types.StateView{}, err
	}
	st, err := m.Submit(ctx, text)
	if err != nil {
		// The session was evicted between lookup and submit.
		if errors.Is(err, workflow.ErrClosed) {
			return types.StateView{}, fmt.Errorf("%w: %s", model.ErrSessionNotFound, id)
		}
		return types.StateView{}, err
	}
	return types.NewStateView(st), nil
}

// Toggle flips the session's color space.
func (s *Service) Toggle(ctx context.Context, id string) (types.StateView, error) {
	m, err := s.machine(ctx, id)
	if err != nil {
		return types.StateView{}, err
	}
	return types.NewStateView(m.Toggle()), nil
}

// Visualization samples the session's active color space around its
// current result.
func (s *Service) Visualization(ctx context.Context, id string) (types.Visualization, error) {
	m, err := s.machine(ctx, id)
	if err != nil {
		return types.Visualization{}, err
	}
	st := m.State()
	if st.Result == nil {
		return types.Visualization{}, fmt.Errorf("%w: session is %s", model.ErrNoResult, st.Phase)
	}

	vis := s.sampler.Sample(st.ColorSpace, st.Result)
	metrics.RecordSamplerCells(st.ColorSpace.String(), len(vis.Cells))
	return vis, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":           s.started,
		"maxSessions":       s.maxSessions,
		"analyzerTimeoutMs": s.analyzerTimeout.Milliseconds(),
		"analyzer":          s.analyzerKind(),
	}

	if s.started {
		active := s.sessions.Count(ctx)
		stats["activeSessions"] = active
		metrics.UpdateActiveSessions(active)
	}

	return stats
}

func (s *Service) analyzerKind() string {
	switch s.analyzer.(type) {
	case nil:
		return "none"
	case *analyzer.HTTPAnalyzer:
		return "http"
	case *analyzer.InMemoryAnalyzer:
		return "offline"
	default:
		return "custom"
	}
}

func (s *Service) machine(ctx context.Context, id string) (*workflow.Machine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, model.ErrServiceStopped
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, mapErr(err, id)
	}
	return sess.Machine, nil
}

func mapErr(err error, id string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", model.ErrSessionNotFound, id)
	case errors.Is(err, repository.ErrClosed):
		return model.ErrServiceStopped
	default:
		return err
	}
}
