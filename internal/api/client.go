// Package api is the HTTP client for the cogni backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/p-n-ai/cogni/internal/session"
)

const (
	DefaultBaseURL = "http://localhost:3000"
	defaultTimeout = 60 * time.Second
)

// Client calls the backend REST API. The bearer token comes from the
// injected session; there is no ambient credential.
type Client struct {
	baseURL string
	client  *http.Client

	mu      sync.RWMutex
	session *session.Session
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the backend origin, e.g. "https://api.cogni.app".
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithSession authenticates requests with s.
func WithSession(s *session.Session) Option {
	return func(c *Client) {
		c.session = s
	}
}

// New creates a client for the backend.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetSession replaces the credential used for later requests. Nil signs out.
func (c *Client) SetSession(s *session.Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.Token
}

// envelope is the wrapper every backend response uses.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// do sends in as JSON (when non-nil) and returns the envelope's data.
func (c *Client) do(ctx context.Context, method, path string, in any) (json.RawMessage, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrNetwork, err)
	}

	slog.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	var env envelope
	decodeErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(resp.StatusCode, env.Message)
	}
	// 204 and empty 200 replies carry no envelope.
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrServer, decodeErr)
	}
	return env.Data, nil
}

// call is do plus decoding the data into out. A nil out discards the data.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	data, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s %s data: %w", ErrServer, method, path, err)
	}
	return nil
}
