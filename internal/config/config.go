// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/okian/remonster/internal/domain/sampler"
	"github.com/okian/remonster/pkg/logger"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// AnalyzerURL is the remote analysis endpoint. Empty selects the offline analyzer.
	AnalyzerURL string `koanf:"analyzer_url"`

	// AnalyzerTimeoutMS is the per-request deadline for an analysis.
	AnalyzerTimeoutMS int `koanf:"analyzer_timeout_ms"`

	// MaxSessions bounds the number of live sessions.
	MaxSessions int `koanf:"max_sessions"`

	// OfflineLatencyMinMS and OfflineLatencyMaxMS simulate remote latency in offline mode.
	OfflineLatencyMinMS int `koanf:"offline_latency_min_ms"`
	OfflineLatencyMaxMS int `koanf:"offline_latency_max_ms"`

	// ViewportWidth and ViewportHeight size the visualization surface in pixels.
	ViewportWidth  int `koanf:"viewport_width"`
	ViewportHeight int `koanf:"viewport_height"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           logger.FormatText,
		Addr:                ":9080",
		AnalyzerURL:         "",
		AnalyzerTimeoutMS:   10_000,
		MaxSessions:         1024,
		OfflineLatencyMinMS: 80,
		OfflineLatencyMaxMS: 150,
		ViewportWidth:       300,
		ViewportHeight:      300,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.AnalyzerTimeoutMS <= 0:
		return fmt.Errorf("%w: analyzer_timeout_ms must be positive", ErrInvalidConfig)
	case c.MaxSessions <= 0:
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	case c.OfflineLatencyMinMS < 0 || c.OfflineLatencyMaxMS < c.OfflineLatencyMinMS:
		return fmt.Errorf("%w: offline latency range [%d, %d] is invalid",
			ErrInvalidConfig, c.OfflineLatencyMinMS, c.OfflineLatencyMaxMS)
	}

	v := c.Viewport()
	if v.InnerWidth() <= 0 || v.InnerHeight() <= 0 {
		return fmt.Errorf("%w: viewport %dx%d is smaller than its margins",
			ErrInvalidConfig, c.ViewportWidth, c.ViewportHeight)
	}

	if c.AnalyzerURL != "" {
		u, err := url.Parse(c.AnalyzerURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: analyzer_url %q must be an absolute http(s) URL", ErrInvalidConfig, c.AnalyzerURL)
		}
	}

	switch c.LogFormat {
	case "", logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// AnalyzerTimeout returns the analysis deadline as a duration.
func (c *Config) AnalyzerTimeout() time.Duration {
	return time.Duration(c.AnalyzerTimeoutMS) * time.Millisecond
}

// OfflineLatency returns the simulated latency bounds of the offline analyzer.
func (c *Config) OfflineLatency() (min, max time.Duration) {
	return time.Duration(c.OfflineLatencyMinMS) * time.Millisecond,
		time.Duration(c.OfflineLatencyMaxMS) * time.Millisecond
}

// Viewport returns the visualization surface with the default margins.
func (c *Config) Viewport() sampler.Viewport {
	return sampler.NewViewport(float64(c.ViewportWidth), float64(c.ViewportHeight))
}
