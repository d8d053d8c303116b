package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"sync"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/okian/remonster/internal/domain/colormath"
	"github.com/okian/remonster/internal/domain/model"
)

// Default in-memory analyzer configuration constants.
const (
	defaultMinLatency = 80 * time.Millisecond
	defaultMaxLatency = 150 * time.Millisecond
	defaultRandomSeed = 42
)

// Option applies a configuration option to the InMemoryAnalyzer.
type Option func(*InMemoryAnalyzer)

// WithLatencyRange sets the simulated latency range. A zero range answers
// immediately.
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(a *InMemoryAnalyzer) {
		if minLatency >= 0 && maxLatency >= minLatency {
			a.minLatency = minLatency
			a.maxLatency = maxLatency
		}
	}
}

// InMemoryAnalyzer answers with a deterministic result derived from a hash
// of the text. It stands in for the remote service when none is configured.
type InMemoryAnalyzer struct {
	minLatency time.Duration
	maxLatency time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewInMemoryAnalyzer creates a new in-memory analyzer with configuration options.
func NewInMemoryAnalyzer(opts ...Option) *InMemoryAnalyzer {
	a := &InMemoryAnalyzer{
		minLatency: defaultMinLatency,
		maxLatency: defaultMaxLatency,
		rng:        rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic seed for reproducible latency
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze simulates service latency, then encodes the fixture for text.
func (a *InMemoryAnalyzer) Analyze(ctx context.Context, text string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	case <-time.After(a.latency()):
	}

	res, err := Fixture(text)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

func (a *InMemoryAnalyzer) latency() time.Duration {
	span := int64(a.maxLatency - a.minLatency)
	if span <= 0 {
		return a.minLatency
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.minLatency + time.Duration(a.rng.Int63n(span))
}

// Fixture builds the result for text. Two agents are picked from the hash
// and blended; the same text always yields the same result.
func Fixture(text string) (model.AnalysisResult, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(text))))
	sum := h.Sum64()

	n := uint64(len(palette))
	primary := palette[sum%n]
	secondary := palette[(sum>>8)%n]
	// Primary weight in [0.5, 1].
	w := 0.5 + float64((sum>>16)&0xff)/510

	cmyk := blend(primary.cmyk, secondary.cmyk, w)
	hex := colormath.CMYKToHex(cmyk.C, cmyk.M, cmyk.Y, cmyk.K)

	c, err := colorful.Hex(hex)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("fixture color %s: %w", hex, err)
	}
	l, aa, bb := c.Lab()

	emotions := make(map[string]float64, 3)
	for i, name := range primary.emotions {
		// Spread the primary weight over its emotions, strongest first.
		emotions[name] = round2(w * float64(3-i) / 3)
	}
	if secondary.name != primary.name {
		emotions[secondary.emotions[(sum>>24)%3]] = round2(1 - w)
	}

	return model.AnalysisResult{
		RainbowHex:       hex,
		RainbowLab:       colormath.Lab{L: l * 100, A: aa * 100, B: bb * 100},
		CMYK:             model.CMYKVector{cmyk.C, cmyk.M, cmyk.Y, cmyk.K},
		DominantEmotions: emotions,
		Strategy:         strategyFor(cmyk),
	}, nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
