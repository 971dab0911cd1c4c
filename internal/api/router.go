// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

// Package api provides the HTTP surface menu bar frontends consume: the
// snapshot and refresh endpoints, connection tests, the WebSocket feed,
// health probes, and Prometheus metrics. Routing uses Chi.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kevinlake/menubarr/internal/config"
	"github.com/kevinlake/menubarr/internal/engine"
	"github.com/kevinlake/menubarr/internal/models"
	"github.com/kevinlake/menubarr/internal/notify"
	"github.com/kevinlake/menubarr/internal/websocket"
)

// Tester is the connection-test surface of a source client.
type Tester interface {
	Test(ctx context.Context) error
}

// Refresher triggers a poll cycle and returns the published snapshot.
// Satisfied by *engine.Scheduler.
type Refresher interface {
	Refresh(ctx context.Context, force bool) models.Snapshot
}

// Router wires handlers, middleware, and dependencies into an http.Handler.
type Router struct {
	cfg       *config.Config
	store     *engine.SnapshotStore
	refresher Refresher
	plex      Tester
	tautulli  Tester
	hub       *websocket.Hub
}

// NewRouter creates the API router.
func NewRouter(cfg *config.Config, store *engine.SnapshotStore, refresher Refresher, plex, tautulli Tester, hub *websocket.Hub) *Router {
	return &Router{
		cfg:       cfg,
		store:     store,
		refresher: refresher,
		plex:      plex,
		tautulli:  tautulli,
		hub:       hub,
	}
}

// Handler assembles the route tree.
func (router *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(router.cfg.Server.RateLimitReqs, router.cfg.Server.RateLimitWindow))
		r.Use(MetricsMiddleware)

		r.Get("/health", router.Health)
		r.Get("/snapshot", router.Snapshot)
		r.Post("/refresh", router.Refresh)
		r.Get("/test/plex", router.TestPlex)
		r.Get("/test/tautulli", router.TestTautulli)
		r.Post("/test/webhook", router.TestWebhook)
	})

	r.Get("/ws", router.WebSocket)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// notifierFactory builds webhook notifiers; replaceable in tests.
var notifierFactory = func(url string) notify.Notifier {
	return notify.NewWebhookNotifier(url)
}
