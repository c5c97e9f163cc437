package assethost_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ridgeline/mediavault/pkg/configs"
	"github.com/ridgeline/mediavault/pkg/internal/assethost"
)

// testConfig points the client at a test server with fast pacing.
func testConfig(baseURL string) configs.AssetHostConfig {
	return configs.AssetHostConfig{
		BaseURL:       baseURL,
		CloudName:     "test-cloud",
		APIKey:        "key",
		APISecret:     "secret",
		MinIntervalMS: 1,
		MaxRetries:    3,
		BaseDelayMS:   1,
		Timeout:       5,
	}
}

func TestUploadSuccess(t *testing.T) {
	var calls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		if !strings.HasSuffix(r.URL.Path, "/test-cloud/image/upload") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}

		if r.FormValue("signature") == "" {
			t.Error("missing signature field")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"public_id": "roofing-site/abc123",
			"url": "http://cdn.example.com/abc123.jpg",
			"secure_url": "https://cdn.example.com/abc123.jpg",
			"width": 1920, "height": 1440, "format": "jpg", "bytes": 52100
		}`))
	}))
	defer srv.Close()

	c := assethost.New(testConfig(srv.URL))
	defer c.Close()

	res, err := c.Upload(context.Background(), []byte("fake image"), assethost.UploadOptions{
		Folder: "roofing-site",
		Tags:   []string{"gallery"},
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if res.RemoteID != "roofing-site/abc123" {
		t.Errorf("RemoteID = %q", res.RemoteID)
	}

	if res.Width != 1920 || res.Height != 1440 {
		t.Errorf("dimensions = %dx%d", res.Width, res.Height)
	}

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

// TestUploadRetriesExhausted checks the retry property: a host that always
// answers 429 is called exactly maxRetries+1 times and the final rate-limit
// error is the one surfaced.
func TestUploadRetriesExhausted(t *testing.T) {
	var calls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)

	c := assethost.New(cfg)
	defer c.Close()

	_, err := c.Upload(context.Background(), []byte("img"), assethost.UploadOptions{})
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}

	var rle *assethost.RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}

	want := int32(cfg.MaxRetries + 1)
	if n := atomic.LoadInt32(&calls); n != want {
		t.Errorf("server hit %d times, want %d", n, want)
	}
}

// TestUploadRetryAfterPrecedence checks a server-specified delay overrides
// the computed backoff for the next attempt.
func TestUploadRetryAfterPrecedence(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int32
		times []time.Time
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		times = append(times, time.Now())
		mu.Unlock()

		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"public_id": "x", "url": "http://u", "secure_url": "https://u"}`))
	}))
	defer srv.Close()

	c := assethost.New(testConfig(srv.URL))
	defer c.Close()

	if _, err := c.Upload(context.Background(), []byte("img"), assethost.UploadOptions{}); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if len(times) != 2 {
		t.Fatalf("server hit %d times, want 2", len(times))
	}

	// backoff base is 1ms; a >= 1s gap proves Retry-After won
	if gap := times[1].Sub(times[0]); gap < time.Second {
		t.Errorf("retry gap %s, want >= 1s from Retry-After", gap)
	}
}

// TestUploadNonRateLimitErrorNotRetried checks other HTTP errors propagate
// immediately.
func TestUploadNonRateLimitErrorNotRetried(t *testing.T) {
	var calls int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid image"}}`))
	}))
	defer srv.Close()

	c := assethost.New(testConfig(srv.URL))
	defer c.Close()

	_, err := c.Upload(context.Background(), []byte("img"), assethost.UploadOptions{})

	var serr *assethost.StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StatusError, got %v", err)
	}

	if serr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", serr.Status)
	}

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("server hit %d times, want 1 (no retries)", n)
	}
}

// TestUploadNotConfigured checks the client fails fast without credentials.
func TestUploadNotConfigured(t *testing.T) {
	c := assethost.New(configs.AssetHostConfig{MinIntervalMS: 1, Timeout: 1})
	defer c.Close()

	if _, err := c.Upload(context.Background(), []byte("img"), assethost.UploadOptions{}); !errors.Is(err, assethost.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
