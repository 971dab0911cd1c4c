// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

/*
tautulli.go - Tautulli History Client

Fetches recent watch history via the Tautulli v2 API (cmd=get_history).
Tautulli builds disagree on where the record array lives, so the response is
located by trying, in order:

	{ "response": { "data": { "records": [ ... ] } } }
	{ "response": { "data": { "data":    [ ... ] } } }   (older builds)
	{ "response": { "data": [ ... ] } }

When none of these yields records the fetch fails with a decode error that
carries the key sets seen at each level plus a body preview, which is the
only practical way to debug a new Tautulli shape from a user report.

Record mapping lives in tautulli_history.go.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/kevinlake/menubarr/internal/config"
	"github.com/kevinlake/menubarr/internal/models"
)

// tautulliPlaceholderKey ships in template configs. Treated the same as empty.
const tautulliPlaceholderKey = "YOUR_TAUTULLI_API_KEY"

// sourceTautulli names the Tautulli source in errors and metrics.
const sourceTautulli = "tautulli"

// maxHistoryBody caps how much of a history response is read into memory.
const maxHistoryBody = 4 << 20 // 4MB

// TautulliClient fetches watch history from a Tautulli server.
type TautulliClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewTautulliClient creates a Tautulli history client from configuration.
func NewTautulliClient(cfg *config.TautulliConfig) *TautulliClient {
	return &TautulliClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: newHTTPClient(),
	}
}

// configured checks URL and API key for presence and placeholder values.
func (c *TautulliClient) configured() error {
	if c.baseURL == "" {
		return notConfigured(sourceTautulli, "Tautulli URL is not configured")
	}
	if c.apiKey == "" || c.apiKey == tautulliPlaceholderKey {
		return notConfigured(sourceTautulli, "Tautulli API key is not configured")
	}
	return nil
}

// FetchHistory retrieves the most recent watch history items, truncated to
// count after mapping. Upstream order (newest first) is preserved; the
// client does not re-sort.
//
// The returned error, when non-nil, is always a *SourceError.
func (c *TautulliClient) FetchHistory(ctx context.Context, count int) ([]models.HistoryItem, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}

	reqURL, err := url.Parse(c.baseURL + "/api/v2")
	if err != nil {
		return nil, badURL(sourceTautulli, err)
	}
	query := reqURL.Query()
	query.Set("apikey", c.apiKey)
	query.Set("cmd", "get_history")
	query.Set("count", strconv.Itoa(count))
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), http.NoBody)
	if err != nil {
		return nil, badURL(sourceTautulli, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := doRequestWithRateLimit(c.httpClient, req)
	if err != nil {
		return nil, &SourceError{Source: sourceTautulli, Kind: KindHTTPStatus, Detail: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpStatus(sourceTautulli, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHistoryBody))
	if err != nil {
		return nil, decodeFailure(sourceTautulli, "failed to read response body", err)
	}

	records, err := locateHistoryRecords(body)
	if err != nil {
		return nil, err
	}

	items := make([]models.HistoryItem, 0, len(records))
	for _, record := range records {
		items = append(items, mapHistoryRecord(record))
	}

	if len(items) > count {
		items = items[:count]
	}
	return items, nil
}

// Test verifies connectivity by fetching a single history item. Used by the
// settings test-connection endpoint.
func (c *TautulliClient) Test(ctx context.Context) error {
	_, err := c.FetchHistory(ctx, 1)
	return err
}
