// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package api

import (
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/kevinlake/menubarr/internal/logging"
	"github.com/kevinlake/menubarr/internal/notify"
	"github.com/kevinlake/menubarr/internal/sync"
	"github.com/kevinlake/menubarr/internal/validation"
)

// testNotification is what the webhook test endpoint delivers.
func testNotification() notify.Request {
	return notify.Request{
		Title: "Menubarr",
		Body:  "Test notification. Your webhook is wired up correctly.",
	}
}

const maxRequestBody = 1 << 20 // 1MB

var startTime = time.Now()

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Clients   int    `json:"websocket_clients"`
	Timestamp string `json:"timestamp"`
}

// TestResponse is the payload for the connection test endpoints.
type TestResponse struct {
	Source string `json:"source"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// WebhookTestRequest is the body for POST /api/v1/test/webhook.
type WebhookTestRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// Health reports liveness along with uptime and WebSocket client count.
func (router *Router) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		Clients:   router.hub.GetClientCount(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Snapshot returns the latest published poll snapshot without triggering a
// new poll.
func (router *Router) Snapshot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, router.store.Latest())
}

// Refresh forces a poll cycle and returns the snapshot it published.
// Concurrent callers coalesce onto a single backend fetch.
func (router *Router) Refresh(w http.ResponseWriter, r *http.Request) {
	snap := router.refresher.Refresh(r.Context(), true)
	respondJSON(w, http.StatusOK, snap)
}

// TestPlex runs a live connectivity check against the configured Plex
// server, bypassing the circuit breaker.
func (router *Router) TestPlex(w http.ResponseWriter, r *http.Request) {
	router.respondTest(w, r, "plex", router.plex)
}

// TestTautulli runs a live connectivity check against Tautulli.
func (router *Router) TestTautulli(w http.ResponseWriter, r *http.Request) {
	router.respondTest(w, r, "tautulli", router.tautulli)
}

func (router *Router) respondTest(w http.ResponseWriter, r *http.Request, source string, tester Tester) {
	err := tester.Test(r.Context())
	if err == nil {
		respondJSON(w, http.StatusOK, TestResponse{Source: source, OK: true})
		return
	}
	respondJSON(w, http.StatusOK, TestResponse{
		Source: source,
		OK:     false,
		Error:  sync.MessageOf(err),
		Kind:   string(sync.KindOf(err)),
	})
}

// TestWebhook validates the submitted URL and sends a test notification to
// it, so users can verify their webhook wiring before enabling alerts.
func (router *Router) TestWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req WebhookTestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, verr.Error())
		return
	}

	notifier := notifierFactory(req.URL)
	if err := notifier.Send(r.Context(), testNotification()); err != nil {
		logging.Warn().Err(err).Str("url", req.URL).Msg("webhook test failed")
		respondJSON(w, http.StatusOK, TestResponse{Source: "webhook", OK: false, Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, TestResponse{Source: "webhook", OK: true})
}
