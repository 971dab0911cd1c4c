// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package sync

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kevinlake/menubarr/internal/logging"
)

// httpTimeout bounds every source request end to end.
const httpTimeout = 30 * time.Second

// newHTTPClient builds the HTTP client shared by source clients.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// doRequestWithRateLimit executes an HTTP request with automatic retry on
// rate limiting (HTTP 429):
//   - Max 5 retry attempts
//   - Exponential backoff: 1s, 2s, 4s, 8s, 16s
//   - Respects the Retry-After header (RFC 6585) when present
//   - Only retries on HTTP 429
//
// The caller must close the response body on success.
func doRequestWithRateLimit(client *http.Client, req *http.Request) (*http.Response, error) {
	const maxRetries = 5
	baseDelay := 1 * time.Second

	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("execute request: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		resp.Body.Close()

		if attempt == maxRetries {
			return nil, fmt.Errorf("rate limit exceeded after %d retries", maxRetries)
		}

		retryDelay := baseDelay * (1 << attempt)

		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				retryDelay = seconds
			}
		}

		logging.Warn().
			Dur("retry_delay", retryDelay).
			Int("attempt", attempt+1).
			Int("max_retries", maxRetries).
			Str("url", req.URL.Redacted()).
			Msg("rate limited (HTTP 429), retrying")

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(retryDelay):
		}
	}

	return nil, fmt.Errorf("unreachable code: retry loop should return or error")
}
