// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

// Package main is the entry point for the menubarr daemon.
//
// Menubarr polls a Plex server for active playback sessions and Tautulli for
// recent watch history, diffs each poll against the previous one, and emits
// notifications for new or state-changed sessions. Menu bar frontends read
// the results over a local HTTP API or a WebSocket push feed.
//
// # Startup Order
//
//  1. Configuration: Koanf v2 layered loading (defaults, YAML file, env)
//  2. Logging: zerolog global logger per the logging config
//  3. Source clients: Plex and Tautulli, wrapped in circuit breakers
//  4. Notification dispatcher: log sink, optional webhook, WebSocket bridge
//  5. Scheduler: poll loop with single-flight refresh coalescing
//  6. HTTP server: REST API, WebSocket upgrades, Prometheus metrics
//  7. Supervisor tree: all long-running services under Suture
//
// # Configuration
//
// All settings have working defaults except the source endpoints:
//
//	export PLEX_URL=http://localhost:32400
//	export PLEX_TOKEN=your-plex-token
//	export TAUTULLI_URL=http://localhost:8181
//	export TAUTULLI_API_KEY=your-api-key
//	./menubarrd
//
// The daemon starts fine with no sources configured; each poll then reports
// a not-configured error in the snapshot until settings arrive. A YAML file
// (menubarr.yaml, or MENUBARR_CONFIG) provides the same keys; environment
// variables win over the file.
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests (10s timeout), the scheduler stops polling, and
// WebSocket clients receive close frames.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kevinlake/menubarr/internal/api"
	"github.com/kevinlake/menubarr/internal/config"
	"github.com/kevinlake/menubarr/internal/engine"
	"github.com/kevinlake/menubarr/internal/logging"
	"github.com/kevinlake/menubarr/internal/notify"
	"github.com/kevinlake/menubarr/internal/supervisor"
	"github.com/kevinlake/menubarr/internal/sync"
	"github.com/kevinlake/menubarr/internal/websocket"
)

// version is set at build time via -ldflags.
var version = "dev"

// hubNotifier bridges dispatched notifications onto the WebSocket feed so
// frontends can render them natively.
type hubNotifier struct {
	hub *websocket.Hub
}

func (n hubNotifier) Send(_ context.Context, req notify.Request) error {
	n.hub.BroadcastNotification(req)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().Str("version", version).Msg("Starting menubarr")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Source clients, wrapped in circuit breakers so a flapping backend
	// backs off instead of being hammered every poll.
	plex := sync.NewBreakerPlexClient(sync.NewPlexClient(&cfg.Plex))
	tautulli := sync.NewBreakerTautulliClient(sync.NewTautulliClient(&cfg.Tautulli))

	// Snapshot store and WebSocket hub. Every published snapshot is pushed
	// to connected clients.
	store := engine.NewSnapshotStore()
	hub := websocket.NewHub()
	store.Subscribe(hub.BroadcastSnapshot)

	// Notification sinks. The log sink always runs; the webhook only when
	// configured.
	notifiers := []notify.Notifier{notify.NewLogNotifier(), hubNotifier{hub: hub}}
	if cfg.Notify.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(cfg.Notify.WebhookURL))
		logging.Info().Msg("Webhook notifications enabled")
	}
	dispatcher := notify.NewDispatcher(notifiers...)

	scheduler := engine.NewScheduler(plex, tautulli, store, dispatcher, engine.Options{
		Interval:       cfg.Poll.Interval,
		HistoryEnabled: cfg.Poll.HistoryEnabled,
		HistoryCount:   cfg.Tautulli.HistoryCount,
		Preferences: engine.Preferences{
			Enabled:     cfg.Notify.Enabled,
			OnPlaying:   cfg.Notify.OnPlaying,
			OnPaused:    cfg.Notify.OnPaused,
			MinInterval: cfg.Notify.MinInterval,
		},
	})

	router := api.NewRouter(cfg, store, scheduler, plex, tautulli, hub)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(supervisor.DefaultTreeConfig())
	tree.Add(supervisor.NewHubService(hub))
	tree.Add(scheduler)
	tree.Add(supervisor.NewHTTPService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for services to stop")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Notification goroutines may still be in flight.
	dispatcher.Wait()

	logging.Info().Msg("Menubarr stopped gracefully")
}
