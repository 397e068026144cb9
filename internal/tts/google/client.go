// Package google talks to the Cloud Text-to-Speech REST API with a static
// API key.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/cloudspeak/internal/tts"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client implements tts.Provider. Each call is one HTTP round trip; there
// is no retry.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ tts.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at another endpoint, such as a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithLimiter replaces the request pacer. A nil limiter disables pacing.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a client from the provider configuration.
func NewClient(cfg tts.GoogleConfig, opts ...Option) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = tts.DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = tts.DefaultGoogleConfig().Timeout
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    newLimiter(cfg.RequestsPerMinute),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newLimiter paces requests evenly across a minute. Zero means unlimited.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

// ListVoices fetches the full voice catalog.
func (c *Client) ListVoices(ctx context.Context) ([]tts.Voice, error) {
	var resp listVoicesResponse
	if err := c.do(ctx, http.MethodGet, "voices", nil, &resp); err != nil {
		return nil, err
	}

	voices := make([]tts.Voice, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		voices = append(voices, v.toVoice())
	}
	log.Debug("listed voices", "count", len(voices))
	return voices, nil
}

// Synthesize sends one synthesis request and returns the audio still
// base64-encoded.
func (c *Client) Synthesize(ctx context.Context, req tts.SynthesisRequest) (*tts.SynthesisResponse, error) {
	var resp synthResponse
	if err := c.do(ctx, http.MethodPost, "text:synthesize", newSynthRequest(req), &resp); err != nil {
		return nil, err
	}
	return &tts.SynthesisResponse{AudioContent: resp.AudioContent}, nil
}

func (c *Client) endpoint(path string) string {
	q := url.Values{}
	q.Set("key", c.apiKey)
	return c.baseURL + "/" + path + "?" + q.Encode()
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the URL carries the key, so only the path is reported
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	log.Debug("provider response", "method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	// a rejected voice listing is reported as a fetch failure, never as an
	// empty catalog
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(resp.StatusCode, respBody)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
