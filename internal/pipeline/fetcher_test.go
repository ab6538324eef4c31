package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/fakecheck/internal/model"
	"github.com/ppiankov/fakecheck/internal/util"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "fakecheck-test/1.0",
		MaxBodyBytes: 1 << 20,
	}
}

func noSleep(t *testing.T) {
	t.Helper()
	orig := fetchSleepFunc
	fetchSleepFunc = func(time.Duration) {}
	t.Cleanup(func() { fetchSleepFunc = orig })
}

func TestFetchWithRetry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "fakecheck-test/1.0" {
			t.Errorf("Expected user agent fakecheck-test/1.0, got %q", ua)
		}
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("ETag", `"v1"`)
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig())
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(result.Body) != "<html><body>OK</body></html>" {
		t.Errorf("Unexpected body: %s", result.Body)
	}
	if result.ContentType() != "text/html" {
		t.Errorf("Expected content type text/html, got %q", result.ContentType())
	}
	if result.Meta.ETag != `"v1"` || result.Meta.StatusCode != 200 {
		t.Errorf("Unexpected meta: %+v", result.Meta)
	}
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, "OK")
	}))
	defer server.Close()

	result, err := NewFetcher(testHTTPConfig()).FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if string(result.Body) != "OK" {
		t.Errorf("Unexpected body: %s", result.Body)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_PermanentFailure(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewFetcher(testHTTPConfig()).FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusNotFound {
		t.Errorf("Expected StatusError 404, got %v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected 404 not to be retried, got %d attempts", attempts.Load())
	}
}

func TestFetchWithRetry_AllRetriesExhausted(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewFetcher(testHTTPConfig()).FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error after all retries exhausted")
	}
	if attempts.Load() != fetchAttempts {
		t.Errorf("Expected %d attempts, got %d", fetchAttempts, attempts.Load())
	}
}

func TestFetchWithRetry_429Retried(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = fmt.Fprint(w, "OK")
	}))
	defer server.Close()

	if _, err := NewFetcher(testHTTPConfig()).FetchWithRetry(context.Background(), server.URL); err != nil {
		t.Fatalf("Expected success after 429 retry, got %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts.Load())
	}
}

func TestFetch_RobotsDisallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /geheim/\n")
			return
		}
		_, _ = fmt.Fprint(w, "content")
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.RespectRobots = true
	fetcher := NewFetcher(cfg)

	_, err := fetcher.Fetch(context.Background(), server.URL+"/geheim/artikel")
	if !errors.Is(err, ErrRobotsDisallowed) {
		t.Errorf("Expected ErrRobotsDisallowed, got %v", err)
	}

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/offen"); err != nil {
		t.Errorf("Expected allowed path to fetch, got %v", err)
	}
}

func TestFetch_MaxBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "0123456789abcdef")
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 10
	result, err := NewFetcher(cfg).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Body) != 10 {
		t.Errorf("Expected body capped at 10 bytes, got %d", len(result.Body))
	}
}

func TestFetch_InvalidURL(t *testing.T) {
	fetcher := NewFetcher(testHTTPConfig())
	for _, raw := range []string{"", "ftp://example.com", "not a url", "https://"} {
		if _, err := fetcher.Fetch(context.Background(), raw); err == nil {
			t.Errorf("Expected error for %q", raw)
		}
	}
}

func TestFetchWithRetry_PrivateNetworkBlocked(t *testing.T) {
	noSleep(t)

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.RespectRobots = true
	cfg.BlockPrivateNetworks = true

	_, err := NewFetcher(cfg).FetchWithRetry(context.Background(), server.URL)
	if !errors.Is(err, util.ErrBlockedAddress) {
		t.Fatalf("Expected ErrBlockedAddress, got %v", err)
	}
	if strings.HasPrefix(err.Error(), "after ") {
		t.Errorf("Expected blocked address not to be retried, got %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("Expected no request to reach the server, got %d", hits.Load())
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		err       error
		retryable bool
	}{
		{&StatusError{Code: 503}, true},
		{&StatusError{Code: 500}, true},
		{fmt.Errorf("wrapped: %w", &StatusError{Code: 502}), true},
		{&StatusError{Code: 429}, true},
		{&StatusError{Code: 404}, false},
		{&StatusError{Code: 403}, false},
		{errors.New("fetch: connection refused"), true},
		{errors.New("create request: invalid URL"), false},
		{errors.New("read body: unexpected EOF"), false},
		{fmt.Errorf("fetch: dial: %w", util.ErrBlockedAddress), false},
		{context.Canceled, false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := isRetryableFetchError(tt.err); got != tt.retryable {
			t.Errorf("isRetryableFetchError(%v) = %v, want %v", tt.err, got, tt.retryable)
		}
	}
}

func TestSubjectFromURL(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://news.example/politik/die-wahrheit-ueber_alles.html", "die wahrheit ueber alles"},
		{"https://news.example/", "news.example"},
		{"https://news.example/a/gr%C3%B6%C3%9Fte-l%C3%BCge", "größte lüge"},
	}

	for _, tt := range tests {
		if got := subjectFromURL(tt.url); got != tt.expected {
			t.Errorf("subjectFromURL(%q): expected %q, got %q", tt.url, tt.expected, got)
		}
	}
}
