// Package assethost is the HTTP client for the external asset host's image
// ingestion API. All outbound calls are serialized through a FIFO rate
// limiter, and rate-limited responses are retried with exponential backoff.
package assethost

import (
	"bytes"
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/ridgeline/mediavault/pkg/configs"
	nlog "github.com/ridgeline/mediavault/pkg/log"
	"github.com/ridgeline/mediavault/pkg/metrics"
)

// ErrNotConfigured is returned when asset host credentials are absent.
var ErrNotConfigured = errors.New("asset host credentials not configured")

// RateLimitError is a 429 from the asset host. RetryAfter carries the
// server-specified delay when the response included one.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("asset host rate limited, retry after %s", e.RetryAfter)
	}

	return "asset host rate limited"
}

// StatusError is any non-2xx, non-429 response. These are not retried.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("asset host returned %d: %s", e.Status, e.Body)
}

// UploadOptions controls placement and tagging of an uploaded image.
type UploadOptions struct {
	Folder   string
	Tags     []string
	PublicID string
}

// UploadResult is the locator and derived metadata returned by the host.
type UploadResult struct {
	RemoteID  string
	URL       string
	SecureURL string
	Width     int
	Height    int
	Format    string
	Bytes     int64
}

// Client talks to the external asset host. It owns its limiter; construct one
// client per process and share it.
type Client struct {
	cfg     configs.AssetHostConfig
	httpc   *http.Client
	limiter *Limiter
}

// New builds a client from config. The limiter's spacing and the retry policy
// both come from cfg.
func New(cfg configs.AssetHostConfig) *Client {
	return &Client{
		cfg:     cfg,
		httpc:   &http.Client{},
		limiter: NewLimiter(cfg.GetMinInterval()),
	}
}

// Close releases the limiter's drain goroutine.
func (c *Client) Close() {
	c.limiter.Close()
}

// Upload sends one image buffer to the host's upload endpoint. The call is
// serialized through the limiter; 429 responses are retried up to
// cfg.MaxRetries times with exponential backoff, a server-specified
// Retry-After taking precedence over the computed delay. Any other error
// fails immediately.
func (c *Client) Upload(ctx context.Context, data []byte, opts UploadOptions) (*UploadResult, error) {
	if !c.cfg.Configured() {
		return nil, ErrNotConfigured
	}

	var (
		result  *UploadResult
		lastErr error
	)

	delay := c.cfg.GetBaseDelay()

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := delay

			var rle *RateLimitError
			if errors.As(lastErr, &rle) && rle.RetryAfter > 0 {
				wait = rle.RetryAfter
			}

			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}

			delay *= 2
		}

		lastErr = c.limiter.Do(ctx, func(ctx context.Context) error {
			r, err := c.doUpload(ctx, data, opts)
			if err != nil {
				return err
			}

			result = r

			return nil
		})

		if lastErr == nil {
			return result, nil
		}

		var rle *RateLimitError
		if !errors.As(lastErr, &rle) {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

// Destroy asks the host to delete the binary behind remoteID. Shares the
// upload lane so deletes cannot crowd uploads past the spacing guarantee.
func (c *Client) Destroy(ctx context.Context, remoteID string) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}

	return c.limiter.Do(ctx, func(ctx context.Context) error {
		return c.doDestroy(ctx, remoteID)
	})
}

// uploadResponse is the host's JSON response shape.
type uploadResponse struct {
	PublicID  string `json:"public_id"`
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
}

func (c *Client) doUpload(ctx context.Context, data []byte, opts UploadOptions) (*UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.GetTimeout())
	defer cancel()

	params := map[string]string{
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}
	if opts.Folder != "" {
		params["folder"] = opts.Folder
	}

	if len(opts.Tags) > 0 {
		params["tags"] = strings.Join(opts.Tags, ",")
	}

	if opts.PublicID != "" {
		params["public_id"] = opts.PublicID
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	for k, v := range params {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}

	if err := mw.WriteField("api_key", c.cfg.APIKey); err != nil {
		return nil, fmt.Errorf("write api key: %w", err)
	}

	if err := mw.WriteField("signature", c.sign(params)); err != nil {
		return nil, fmt.Errorf("write signature: %w", err)
	}

	fw, err := mw.CreateFormFile("file", "file")
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}

	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("write file part: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.UploadURL(), body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.AssetHostRequests.WithLabelValues("upload", "error").Inc()
		return nil, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	metrics.AssetHostRequests.WithLabelValues("upload", strconv.Itoa(resp.StatusCode)).Inc()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload response: %w", err)
	}

	var ur uploadResponse
	if err := sonic.Unmarshal(raw, &ur); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}

	nlog.Logger().Debug().
		Str("remote_id", ur.PublicID).
		Int("width", ur.Width).
		Int("height", ur.Height).
		Msg("asset host upload done")

	return &UploadResult{
		RemoteID:  ur.PublicID,
		URL:       ur.URL,
		SecureURL: ur.SecureURL,
		Width:     ur.Width,
		Height:    ur.Height,
		Format:    ur.Format,
		Bytes:     ur.Bytes,
	}, nil
}

func (c *Client) doDestroy(ctx context.Context, remoteID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.GetTimeout())
	defer cancel()

	params := map[string]string{
		"public_id": remoteID,
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	for k, v := range params {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}

	if err := mw.WriteField("api_key", c.cfg.APIKey); err != nil {
		return fmt.Errorf("write api key: %w", err)
	}

	if err := mw.WriteField("signature", c.sign(params)); err != nil {
		return fmt.Errorf("write signature: %w", err)
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.DestroyURL(), body)
	if err != nil {
		return fmt.Errorf("build destroy request: %w", err)
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.AssetHostRequests.WithLabelValues("destroy", "error").Inc()
		return fmt.Errorf("destroy request: %w", err)
	}
	defer resp.Body.Close()

	metrics.AssetHostRequests.WithLabelValues("destroy", strconv.Itoa(resp.StatusCode)).Inc()

	return checkStatus(resp)
}

// sign produces the host's expected SHA-1 request signature: parameters
// sorted by name, joined as key=value pairs, with the API secret appended.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.cfg.APISecret))

	return fmt.Sprintf("%x", sum)
}

// checkStatus maps a response status to nil, RateLimitError or StatusError.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
}

// parseRetryAfter handles both forms the header allows: delta-seconds and an
// HTTP-date. Anything else yields zero and the computed backoff applies.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}

	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}

		return time.Duration(secs) * time.Second
	}

	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}

	return 0
}
