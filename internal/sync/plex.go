// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

/*
plex.go - Plex Media Server Session Client

Fetches active playback sessions from /status/sessions with tolerant
response handling:

  - JSON first: requests Accept: application/json and decodes the
    MediaContainer envelope when the server honors it.
  - Markup fallback: older servers and some proxies answer with XML-style
    markup regardless of the Accept header. Bodies that look like markup are
    scanned leniently (see plex_markup.go) instead of failing the poll.
  - Anything else is a decode failure surfaced on the snapshot.

Configuration is checked before any network call: an empty or placeholder
URL/token yields a "not configured" error so a fresh install shows guidance
instead of a connection failure.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/kevinlake/menubarr/internal/config"
	"github.com/kevinlake/menubarr/internal/logging"
	"github.com/kevinlake/menubarr/internal/models"
)

// Placeholder values shipped in template configs. Treated the same as empty.
const (
	plexPlaceholderURL   = "http://YOUR_PLEX_HOST:32400"
	plexPlaceholderToken = "YOUR_PLEX_TOKEN_HERE"
)

// sourcePlex names the Plex source in errors and metrics.
const sourcePlex = "plex"

// maxSessionsBody caps how much of a sessions response is read into memory.
const maxSessionsBody = 8 << 20 // 8MB

// PlexClient fetches active sessions from a Plex Media Server.
type PlexClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewPlexClient creates a Plex session client from configuration.
func NewPlexClient(cfg *config.PlexConfig) *PlexClient {
	return &PlexClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		token:      cfg.Token,
		httpClient: newHTTPClient(),
	}
}

// configured checks URL and token for presence and placeholder values.
func (c *PlexClient) configured() error {
	if c.baseURL == "" || c.baseURL == plexPlaceholderURL {
		return notConfigured(sourcePlex, "Plex URL is not configured")
	}
	if c.token == "" || c.token == plexPlaceholderToken {
		return notConfigured(sourcePlex, "Plex token is not configured")
	}
	return nil
}

// FetchSessions retrieves the currently active playback sessions.
//
// The returned error, when non-nil, is always a *SourceError so the caller
// can classify it for the snapshot. The session slice is never nil on
// success; an idle server yields an empty slice.
func (c *PlexClient) FetchSessions(ctx context.Context) ([]models.Session, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}

	reqURL, err := url.Parse(c.baseURL + "/status/sessions")
	if err != nil {
		return nil, badURL(sourcePlex, err)
	}
	query := reqURL.Query()
	query.Set("X-Plex-Token", c.token)
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), http.NoBody)
	if err != nil {
		return nil, badURL(sourcePlex, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Client-Identifier", "menubarr")

	resp, err := doRequestWithRateLimit(c.httpClient, req)
	if err != nil {
		return nil, &SourceError{Source: sourcePlex, Kind: KindHTTPStatus, Detail: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpStatus(sourcePlex, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSessionsBody))
	if err != nil {
		return nil, decodeFailure(sourcePlex, "failed to read response body", err)
	}

	return decodeSessions(body)
}

// decodeSessions interprets a sessions response body. JSON is authoritative;
// markup-looking bodies fall back to the lenient scanner; anything else is a
// decode failure.
func decodeSessions(body []byte) ([]models.Session, error) {
	var envelope models.PlexSessionsResponse
	if err := json.Unmarshal(body, &envelope); err == nil {
		sessions := make([]models.Session, 0, len(envelope.MediaContainer.Metadata))
		for i := range envelope.MediaContainer.Metadata {
			sessions = append(sessions, envelope.MediaContainer.Metadata[i].ToSession())
		}
		return sessions, nil
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '<' {
		sessions := scanMarkupSessions(string(trimmed))
		logging.Debug().Int("sessions", len(sessions)).Msg("decoded sessions from markup fallback")
		return sessions, nil
	}

	return nil, decodeFailure(sourcePlex, "response is neither JSON nor recognizable markup",
		fmt.Errorf("body starts with %q", preview(trimmed)))
}

// Test verifies connectivity by performing a sessions fetch. Used by the
// settings test-connection endpoint.
func (c *PlexClient) Test(ctx context.Context) error {
	_, err := c.FetchSessions(ctx)
	return err
}

// preview returns a short prefix of a body for diagnostics.
func preview(b []byte) string {
	const n = 32
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
