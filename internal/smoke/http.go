package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/remonster/internal/domain/types"
)

// HTTPClient talks to the session API of one service instance.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// do sends a request with an optional JSON body and decodes a 2xx JSON
// response into out when out is non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	if out != nil && resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

// expect returns ErrUnexpectedStatus unless got is one of want.
func expect(op string, got int, want ...int) error {
	for _, w := range want {
		if got == w {
			return nil
		}
	}
	return fmt.Errorf("%s: %w: got %d, want %v", op, ErrUnexpectedStatus, got, want)
}

func sessionPath(id string, suffix string) string {
	return "/sessions/" + url.PathEscape(id) + suffix
}

func (c *HTTPClient) health(ctx context.Context) error {
	code, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil)
	if err != nil {
		return err
	}
	return expect("health", code, http.StatusOK)
}

func (c *HTTPClient) createSession(ctx context.Context) (types.SessionView, error) {
	var sess types.SessionView
	code, err := c.do(ctx, http.MethodPost, "/sessions", nil, &sess)
	if err != nil {
		return sess, err
	}
	return sess, expect("create session", code, http.StatusCreated)
}

func (c *HTTPClient) state(ctx context.Context, id string) (sessionState, int, error) {
	var st sessionState
	code, err := c.do(ctx, http.MethodGet, sessionPath(id, ""), nil, &st)
	return st, code, err
}

// submit returns the state and the status code, 202 while loading and 200
// when the submission settled synchronously.
func (c *HTTPClient) submit(ctx context.Context, id, text string) (sessionState, int, error) {
	var st sessionState
	body := map[string]string{"text": text}
	code, err := c.do(ctx, http.MethodPost, sessionPath(id, "/submit"), body, &st)
	return st, code, err
}

func (c *HTTPClient) toggle(ctx context.Context, id string) (sessionState, error) {
	var st sessionState
	code, err := c.do(ctx, http.MethodPost, sessionPath(id, "/toggle"), nil, &st)
	if err != nil {
		return st, err
	}
	return st, expect("toggle", code, http.StatusOK)
}

func (c *HTTPClient) visualization(ctx context.Context, id string) (types.Visualization, int, error) {
	var vis types.Visualization
	code, err := c.do(ctx, http.MethodGet, sessionPath(id, "/visualization"), nil, &vis)
	return vis, code, err
}

func (c *HTTPClient) endSession(ctx context.Context, id string) error {
	code, err := c.do(ctx, http.MethodDelete, sessionPath(id, ""), nil, nil)
	if err != nil {
		return err
	}
	return expect("end session", code, http.StatusNoContent)
}
