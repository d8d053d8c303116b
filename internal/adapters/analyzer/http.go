// Package analyzer provides the analysis backends a workflow can call:
// an HTTP client for the remote emotion service and a deterministic
// in-memory fixture for offline use.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/remonster/pkg/logger"
	"github.com/okian/remonster/pkg/metrics"
)

// Default HTTP analyzer configuration constants.
const (
	defaultMaxBodyBytes = 1 << 20
	requestIDHeader     = "X-Request-ID"
)

// HTTPOption applies a configuration option to the HTTPAnalyzer.
type HTTPOption func(*HTTPAnalyzer)

// WithHTTPClient sets the client used for requests. Its Timeout should be
// zero or longer than the workflow deadline.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(a *HTTPAnalyzer) {
		if c != nil {
			a.client = c
		}
	}
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(n int64) HTTPOption {
	return func(a *HTTPAnalyzer) {
		if n > 0 {
			a.maxBodyBytes = n
		}
	}
}

// WithHTTPLogger sets a custom logger for the analyzer.
func WithHTTPLogger(l logger.Logger) HTTPOption {
	return func(a *HTTPAnalyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// HTTPAnalyzer POSTs {"text": ...} to the analysis service.
type HTTPAnalyzer struct {
	url          string
	client       *http.Client
	maxBodyBytes int64
	logger       logger.Logger
}

// NewHTTPAnalyzer creates an analyzer for the service at url.
func NewHTTPAnalyzer(url string, opts ...HTTPOption) *HTTPAnalyzer {
	a := &HTTPAnalyzer{
		url:          url,
		client:       &http.Client{},
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Get()
	}
	return a
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// Analyze returns the raw response body. Any non-2xx status is an error.
func (a *HTTPAnalyzer) Analyze(ctx context.Context, text string) ([]byte, error) {
	if a.url == "" {
		return nil, ErrNoURL
	}

	payload, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		metrics.RecordAnalyzerStatus("error")
		metrics.RecordErrorByComponent("analyzer", "network_error")
		return nil, err
	}
	defer resp.Body.Close()

	metrics.RecordAnalyzerStatus(strconv.Itoa(resp.StatusCode))
	a.logger.Debug(ctx, "analyzer responded",
		logger.String("requestID", requestID),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, a.maxBodyBytes))
		metrics.RecordErrorByComponent("analyzer", "unexpected_status")
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, a.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > a.maxBodyBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, a.maxBodyBytes)
	}
	return body, nil
}
