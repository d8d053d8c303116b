package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/remonster/internal/domain/model"
	"github.com/okian/remonster/pkg/logger"
	"github.com/okian/remonster/pkg/metrics"
)

// Analyzer performs the remote analysis and returns the raw response body.
// Implementations should honour ctx, but the Machine enforces its deadline
// even when they do not.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]byte, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, text string) ([]byte, error)

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, text string) ([]byte, error) {
	return f(ctx, text)
}

// Machine owns a single workflow State.
type Machine struct {
	mu       sync.Mutex
	state    State
	cancel   context.CancelFunc
	closed   bool
	inflight sync.WaitGroup

	analyzer Analyzer
	timeout  time.Duration
	observer func(State)
	logger   logger.Logger
}

// New creates a Machine in the initial state.
func New(analyzer Analyzer, opts ...Option) *Machine {
	m := &Machine{
		state:    Initial(),
		analyzer: analyzer,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logger.Get()
	}
	return m
}

// State returns the current snapshot. The Result it points to is never
// mutated after it is stored and must be treated as read-only.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Submit starts a new analysis of text, superseding any call in flight.
// The returned state is Loading, or Error for blank text. ctx supplies
// values for the call; its cancellation does not abort the call.
func (m *Machine) Submit(ctx context.Context, text string) (State, error) {
	m.mu.Lock()
	if m.closed {
		s := m.state
		m.mu.Unlock()
		return s, ErrClosed
	}

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	prev := m.state
	next := Reduce(prev, Submit{Text: text})
	m.state = next

	if next.Phase != model.PhaseLoading {
		m.mu.Unlock()
		m.transitioned(ctx, prev, next)
		metrics.RecordAnalysis(outcome(next.Err), 0)
		return next, nil
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	m.cancel = cancel
	m.inflight.Add(1)
	m.mu.Unlock()

	m.transitioned(ctx, prev, next)

	requestID := uuid.NewString()
	m.logger.Debug(ctx, "analysis submitted",
		logger.String("requestID", requestID),
		logger.Any("generation", next.Generation),
		logger.Int("textLength", len(text)),
	)

	go m.run(callCtx, cancel, next.Generation, requestID, text)
	return next, nil
}

// Toggle flips the color space. It is valid in every phase.
func (m *Machine) Toggle() State {
	m.mu.Lock()
	prev := m.state
	next := Reduce(prev, Toggle{})
	m.state = next
	m.mu.Unlock()

	metrics.RecordColorSpaceToggle(next.ColorSpace.String())
	m.notify(next)
	return next
}

// Wait blocks until no analyzer call is being awaited.
func (m *Machine) Wait() {
	m.inflight.Wait()
}

// Close cancels the call in flight and rejects further submissions.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

type reply struct {
	body []byte
	err  error
}

func (m *Machine) run(ctx context.Context, cancel context.CancelFunc, generation uint64, requestID, text string) {
	defer m.inflight.Done()
	defer cancel()

	start := time.Now()

	// Buffered so the analyzer goroutine can always finish, even after we
	// have stopped listening.
	replies := make(chan reply, 1)
	go func() {
		body, err := m.analyzer.Analyze(ctx, text)
		replies <- reply{body: body, err: err}
	}()

	ev := Settled{Generation: generation}
	select {
	case r := <-replies:
		ev.Body, ev.Err = r.body, r.err
	case <-ctx.Done():
		ev.Err = ctx.Err()
	}

	if ev.Err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			ev.Err = ErrTimeout
		case errors.Is(ctx.Err(), context.Canceled):
			// Superseded or closed; nobody is waiting for this reply.
			metrics.RecordStaleReplyDropped()
			m.logger.Debug(ctx, "analysis abandoned",
				logger.String("requestID", requestID),
				logger.Error(ev.Err),
			)
			return
		}
	}

	m.settle(ctx, ev, requestID, time.Since(start))
}

func (m *Machine) settle(ctx context.Context, ev Settled, requestID string, elapsed time.Duration) {
	m.mu.Lock()
	prev := m.state
	if !prev.Accepts(ev) {
		m.mu.Unlock()
		metrics.RecordStaleReplyDropped()
		m.logger.Debug(ctx, "stale analysis reply dropped",
			logger.String("requestID", requestID),
			logger.Any("generation", ev.Generation),
			logger.Any("current", prev.Generation),
		)
		return
	}
	next := Reduce(prev, ev)
	m.state = next
	m.cancel = nil
	m.mu.Unlock()

	m.transitioned(ctx, prev, next)
	metrics.RecordAnalysis(outcome(next.Err), float64(elapsed.Milliseconds()))

	if next.Err != nil {
		m.logger.Warn(ctx, "analysis failed",
			logger.String("requestID", requestID),
			logger.String("message", next.ErrorMessage),
			logger.Error(ev.Err),
		)
		return
	}
	m.logger.Debug(ctx, "analysis settled",
		logger.String("requestID", requestID),
		logger.String("strategy", next.Result.Strategy),
		logger.Duration("elapsed", elapsed),
	)
}

func (m *Machine) transitioned(ctx context.Context, prev, next State) {
	if prev.Phase != next.Phase {
		metrics.RecordPhaseTransition(prev.Phase.String(), next.Phase.String())
		m.logger.Debug(ctx, "workflow transition",
			logger.String("from", prev.Phase.String()),
			logger.String("to", next.Phase.String()),
		)
	}
	m.notify(next)
}

func (m *Machine) notify(s State) {
	if m.observer != nil {
		m.observer(s)
	}
}
