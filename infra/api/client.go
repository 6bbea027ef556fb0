package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/infra/auth"
)

const maxErrorBody = 200

// Client is a thin HTTP wrapper for the duel API.
// It handles base URL construction, bearer token injection, JSON encoding
// and a fixed retry policy for transient failures.
type Client struct {
	baseURL       string
	tokenProvider auth.TokenProvider
	http          *http.Client
	clock         clockwork.Clock
	retries       int
	retryDelay    time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithRetry sets how many extra attempts a transient failure gets and the
// fixed delay between them.
func WithRetry(retries int, delay time.Duration) Option {
	return func(c *Client) {
		c.retries = max(retries, 0)
		c.retryDelay = delay
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithClock replaces the clock used for retry delays.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// NewClient creates an API client.
func NewClient(baseURL string, tp auth.TokenProvider, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		tokenProvider: tp,
		http:          &http.Client{Timeout: 15 * time.Second},
		clock:         clockwork.NewRealClock(),
		retries:       1,
		retryDelay:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	method      string
	path        string
	body        []byte
	contentType string
	public      bool // No bearer token
}

// Get performs an authenticated GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path}, out)
}

// Post performs an authenticated POST with a JSON body (nil for none).
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	r, err := jsonRequest(http.MethodPost, path, in)
	if err != nil {
		return err
	}
	return c.do(ctx, r, out)
}

// Put performs an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	r, err := jsonRequest(http.MethodPut, path, in)
	if err != nil {
		return err
	}
	return c.do(ctx, r, out)
}

// PostPublic performs a POST without a bearer token, for login and register.
func (c *Client) PostPublic(ctx context.Context, path string, in, out any) error {
	r, err := jsonRequest(http.MethodPost, path, in)
	if err != nil {
		return err
	}
	r.public = true
	return c.do(ctx, r, out)
}

// Upload performs an authenticated multipart POST with a single file field.
func (c *Client) Upload(ctx context.Context, path, field, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("reading upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finishing upload body: %w", err)
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        buf.Bytes(),
		contentType: mw.FormDataContentType(),
	}, out)
}

func jsonRequest(method, path string, in any) (request, error) {
	r := request{method: method, path: path}
	if in == nil {
		return r, nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return r, fmt.Errorf("encoding request: %w", err)
	}
	r.body = data
	r.contentType = "application/json"
	return r, nil
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	for attempt := 0; ; attempt++ {
		retry, err := c.once(ctx, r, out)
		if err == nil {
			return nil
		}
		if !retry || attempt >= c.retries || ctx.Err() != nil {
			return err
		}

		log.Warn().
			Err(err).
			Str("method", r.method).
			Str("path", r.path).
			Int("attempt", attempt+1).
			Msg("retrying request")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.clock.After(c.retryDelay):
		}
	}
}

// once performs a single attempt and reports whether a failure is worth retrying.
func (c *Client) once(ctx context.Context, r request, out any) (bool, error) {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if !r.public {
		token, err := c.tokenProvider.AccessToken()
		if err != nil {
			return false, fmt.Errorf("auth: %w", errors.Join(domain.ErrUnauthorized, err))
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return true, fmt.Errorf("request to %s: %w", r.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &domain.APIError{Status: resp.StatusCode, Message: errorMessage(data)}
		log.Debug().
			Str("method", r.method).
			Str("path", r.path).
			Int("status", resp.StatusCode).
			Msg("api error")
		return apiErr.Retryable(), fmt.Errorf("%s %s: %w", r.method, r.path, apiErr)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parsing response from %s: %w", r.path, err)
	}
	return false, nil
}

// errorMessage prefers the body's "error" field and falls back to the raw text.
func errorMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return sanitizeForTerminal(body.Error)
	}
	msg := sanitizeForTerminal(strings.TrimSpace(string(data)))
	return ansi.Truncate(msg, maxErrorBody, "…")
}
