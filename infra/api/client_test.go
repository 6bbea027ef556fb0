package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/jonboulle/clockwork"

	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/infra/auth"
)

type staticToken string

func (s staticToken) AccessToken() (string, error) { return string(s), nil }

type noToken struct{}

func (noToken) AccessToken() (string, error) { return "", auth.ErrNoToken }

type handlerRoundTripper struct {
	h http.Handler
}

func (rt handlerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := newResponseRecorder()
	rt.h.ServeHTTP(rec, req)
	return rec.response(req), nil
}

type responseRecorder struct {
	header http.Header
	body   strings.Builder
	code   int
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{header: make(http.Header), code: http.StatusOK}
}

func (r *responseRecorder) Header() http.Header         { return r.header }
func (r *responseRecorder) Write(p []byte) (int, error) { return r.body.Write(p) }
func (r *responseRecorder) WriteHeader(statusCode int)  { r.code = statusCode }

func (r *responseRecorder) response(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode: r.code,
		Header:     r.header.Clone(),
		Body:       io.NopCloser(strings.NewReader(r.body.String())),
		Request:    req,
	}
}

type failingRoundTripper struct {
	calls atomic.Int32
}

func (rt *failingRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	rt.calls.Add(1)
	return nil, errors.New("connection refused")
}

func newTestClient(h http.Handler, opts ...Option) *Client {
	opts = append([]Option{
		WithHTTPClient(&http.Client{Transport: handlerRoundTripper{h: h}}),
		WithRetry(0, 0),
	}, opts...)
	return NewClient("http://example.test/", staticToken("tok"), opts...)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_GetSendsBearerAndDecodes(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status/p1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("missing auth header: %q", got)
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": "p1"})
	})
	c := newTestClient(h)

	var out struct {
		ID string `json:"id"`
	}
	if err := c.Get(context.Background(), "/status/p1", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.ID != "p1" {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestClient_PostPublicOmitsBearer(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Fatalf("public request carried auth header: %q", got)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type: %q", ct)
		}
		writeJSON(w, http.StatusOK, map[string]string{})
	})
	c := NewClient("http://example.test", noToken{},
		WithHTTPClient(&http.Client{Transport: handlerRoundTripper{h: h}}))

	if err := c.PostPublic(context.Background(), "/login", map[string]string{"username": "a"}, nil); err != nil {
		t.Fatalf("post public: %v", err)
	}
}

func TestClient_MissingTokenIsUnauthorized(t *testing.T) {
	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("request should not be sent without a token")
	})
	c := NewClient("http://example.test", noToken{},
		WithHTTPClient(&http.Client{Transport: handlerRoundTripper{h: h}}))

	err := c.Get(context.Background(), "/profile", nil)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_ErrorBodyBecomesAPIError(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "User 'a' has already voted."})
	})
	c := newTestClient(h)

	err := c.Post(context.Background(), "/vote/p1", voteRequest{Candidate: "b"}, nil)
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Message != "User 'a' has already voted." {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		t.Fatal("403 should not be treated as unauthorized")
	}
}

func TestClient_UnauthorizedMatchesSentinel(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("token expired"))
	})
	c := newTestClient(h)

	err := c.Get(context.Background(), "/profile", nil)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if !strings.Contains(err.Error(), "token expired") {
		t.Fatalf("expected raw body in message: %v", err)
	}
}

func TestClient_RetriesServerErrorAfterDelay(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"text":"hi"}` {
			t.Errorf("body not resent intact: %q", body)
		}
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	clock := clockwork.NewFakeClock()
	c := newTestClient(h, WithRetry(1, 500*time.Millisecond), WithClock(clock))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Post(ctx, "/comment/p1", commentRequest{Text: "hi"}, nil) }()

	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("client never waited for the retry delay: %v", err)
	}
	clock.Advance(500 * time.Millisecond)

	if err := <-done; err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Post not found."})
	})
	c := newTestClient(h, WithRetry(3, 0))

	if err := c.Get(context.Background(), "/status/missing", nil); err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestClient_RetriesTransportErrorsUpToLimit(t *testing.T) {
	rt := &failingRoundTripper{}
	c := NewClient("http://example.test", staticToken("tok"),
		WithHTTPClient(&http.Client{Transport: rt}),
		WithRetry(2, 0))

	if err := c.Get(context.Background(), "/search?q=x", nil); err == nil {
		t.Fatal("expected transport error")
	}
	if got := rt.calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestClient_UploadSendsMultipartField(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, hdr, err := r.FormFile("avatar")
		if err != nil {
			t.Fatalf("missing avatar field: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "me.png" || string(data) != "PNGDATA" {
			t.Fatalf("unexpected upload: %s %q", hdr.Filename, data)
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "avatar_url": "/static/avatars/me.png"})
	})
	svc := NewAccountService(newTestClient(h))

	got, err := svc.UploadAvatar(context.Background(), "me.png", strings.NewReader("PNGDATA"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if got != "/static/avatars/me.png" {
		t.Fatalf("unexpected avatar url: %q", got)
	}
}

func TestSanitizeForTerminal_RemovesEscapesAndControls(t *testing.T) {
	in := "ok\x1b[31mred\x1b[0m\x1b]8;;http://x\x07bad\x01\x02\nnext"
	got := sanitizeForTerminal(in)
	if strings.Contains(got, "\x1b") {
		t.Fatalf("expected ansi removed: %q", got)
	}
	if strings.ContainsRune(got, '\x01') || strings.ContainsRune(got, '\x02') {
		t.Fatalf("expected controls removed: %q", got)
	}
	if !strings.Contains(got, "ok") || !strings.Contains(got, "red") || !strings.Contains(got, "\nnext") {
		t.Fatalf("expected plain text preserved: %q", got)
	}
}

func TestErrorMessage_TruncatesOnRuneBoundary(t *testing.T) {
	body := []byte(strings.Repeat("é", maxErrorBody+50))
	msg := errorMessage(body)
	if !utf8.ValidString(msg) {
		t.Fatalf("truncated message is not valid UTF-8: %q", msg)
	}
	if w := ansi.StringWidth(msg); w > maxErrorBody {
		t.Fatalf("message width %d exceeds %d", w, maxErrorBody)
	}
	if !strings.HasSuffix(msg, "…") {
		t.Fatalf("expected an ellipsis, got %q", msg)
	}

	if got := errorMessage([]byte("short failure")); got != "short failure" {
		t.Fatalf("short bodies must be kept whole, got %q", got)
	}
}
