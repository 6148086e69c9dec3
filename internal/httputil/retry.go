// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the outbound HTTP client used by adapters.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// MaxRetryAfter caps how long a server-supplied Retry-After may stall a
// query.
var MaxRetryAfter = 2 * time.Minute

const defaultMaxRetries = 3

// Retryable reports whether a response status is worth retrying: 429 and
// any 5xx.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// DoWithRetry executes an HTTP request and retries on HTTP 429 and 5xx.
// The wait is the response's Retry-After when it carries one, otherwise
// RetryBaseDelay doubled per attempt.
//
// When maxRetries is 0 the default (3) is used. On each retry the body is
// drained and closed before sleeping. If the context is cancelled during a
// wait the function returns ctx.Err(). After exhausting retries the last
// response is returned so the caller can inspect it. Retry notices go to
// log; a nil log discards them.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, log io.Writer) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if log == nil {
		log = io.Discard
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff, ok := retryAfter(resp.Header.Get("Retry-After"), time.Now())
		if !ok {
			backoff = time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		}
		fmt.Fprintf(log, "HTTP %d, retrying in %v (attempt %d/%d)\n", resp.StatusCode, backoff, attempt+1, maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// retryAfter parses a Retry-After header given as delay seconds or an HTTP
// date. The result is capped at MaxRetryAfter.
func retryAfter(header string, now time.Time) (time.Duration, bool) {
	if header == "" {
		return 0, false
	}

	var d time.Duration
	if secs, err := strconv.Atoi(header); err == nil {
		if secs < 0 {
			return 0, false
		}
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(header); err == nil {
		d = at.Sub(now)
		if d < 0 {
			d = 0
		}
	} else {
		return 0, false
	}

	if d > MaxRetryAfter {
		d = MaxRetryAfter
	}
	return d, true
}
