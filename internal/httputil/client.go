// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/pdiddy/govinfo-table/pkg/types"
)

// maxErrorBody bounds how much of a failed response is kept on HTTPError.
const maxErrorBody = 512

// secretParams are query parameters never written to logs or errors.
var secretParams = []string{"api_key"}

// Cache stores successful response bodies. Implementations derive their own
// key from the URL and parameters and must leave secrets out of it.
type Cache interface {
	Get(ctx context.Context, rawURL string, params url.Values) ([]byte, bool, error)
	Put(ctx context.Context, rawURL string, params url.Values, body []byte) error
}

// HTTPError is returned when the server answers with a non-2xx status
// after retries.
type HTTPError struct {
	StatusCode int
	URL        string // redacted
	Body       string // truncated
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s returned HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s returned HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client is a rate-limited, retrying GET client with an optional response
// cache. It satisfies govinfo.Fetcher.
type Client struct {
	http       *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int
	cache      Cache
	log        io.Writer
}

// NewClient builds a Client from cfg. cache may be nil. Progress lines go to
// log; nil discards them.
func NewClient(cfg types.HTTPConfig, cache Cache, log io.Writer) *Client {
	return NewClientWith(&http.Client{Timeout: cfg.Timeout}, cfg, cache, log)
}

// NewClientWith is NewClient with a caller-supplied *http.Client, e.g. the
// one from an httptest server.
func NewClientWith(hc *http.Client, cfg types.HTTPConfig, cache Cache, log io.Writer) *Client {
	if log == nil {
		log = io.Discard
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		http:       hc,
		limiter:    rate.NewLimiter(limit, burst),
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		cache:      cache,
		log:        log,
	}
}

// Get fetches rawURL with params and returns the body of a 2xx response.
// Cached bodies are served without touching the network or the limiter.
// Cache failures are logged as warnings and never fail the request.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	display := Redact(rawURL, params)

	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, rawURL, params)
		if err != nil {
			fmt.Fprintf(c.log, "warning: cache lookup failed: %v\n", err)
		} else if ok {
			fmt.Fprintf(c.log, "cache hit %s\n", display)
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := rawURL
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", display, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	fmt.Fprintf(c.log, "fetching %s\n", display)
	resp, err := DoWithRetry(ctx, c.http, req, c.maxRetries, c.log)
	if err != nil {
		// url.Error embeds the full request URL, key included.
		return nil, fmt.Errorf("GET %s failed: %w", display, redactError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: display, Body: string(snippet)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", display, err)
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, rawURL, params, body); err != nil {
			fmt.Fprintf(c.log, "warning: cache store failed: %v\n", err)
		}
	}
	return body, nil
}

// Redact renders rawURL with params, replacing secret values with
// REDACTED.
func Redact(rawURL string, params url.Values) string {
	if len(params) == 0 {
		return rawURL
	}
	safe := RedactParams(params)
	return rawURL + "?" + safe.Encode()
}

// RedactParams returns a copy of params with secret values replaced.
func RedactParams(params url.Values) url.Values {
	safe := make(url.Values, len(params))
	for k, v := range params {
		safe[k] = append([]string(nil), v...)
	}
	for _, k := range secretParams {
		if _, ok := safe[k]; ok {
			safe.Set(k, "REDACTED")
		}
	}
	return safe
}

// RedactURI redacts the query string of a complete URI. Unparseable input
// is replaced entirely.
func RedactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<unparseable URI>"
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "<unparseable URI>"
	}
	u.RawQuery = RedactParams(q).Encode()
	return u.String()
}

func redactError(err error) error {
	if ue, ok := err.(*url.Error); ok {
		return ue.Err
	}
	return err
}
