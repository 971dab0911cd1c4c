// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

// Package supervisor provides Suture-based process supervision for the
// daemon's long-running services: the poll scheduler, the WebSocket hub,
// and the HTTP server. A crashed service is restarted with backoff instead
// of taking the whole process down.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/kevinlake/menubarr/internal/logging"
)

// TreeConfig holds supervisor tree restart parameters.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay, in seconds.
	FailureDecay float64

	// FailureBackoff is how long the supervisor waits once the threshold
	// is hit.
	FailureBackoff time.Duration

	// ShutdownTimeout is how long a service gets to stop before it is
	// abandoned.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns the restart parameters used in production.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree supervises the daemon's services under a single root.
type Tree struct {
	root   *suture.Supervisor
	config TreeConfig
}

// NewTree creates the supervisor tree. Suture events are routed through the
// zerolog-backed slog handler so supervision logs match everything else.
func NewTree(config TreeConfig) *Tree {
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5.0
	}
	if config.FailureDecay == 0 {
		config.FailureDecay = 30.0
	}
	if config.FailureBackoff == 0 {
		config.FailureBackoff = 15 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	// MustHook has a pointer receiver, so the handler must be addressable.
	handler := &sutureslog.Handler{Logger: slog.New(logging.NewSlogHandler())}
	root := suture.New("menubarr", suture.Spec{
		EventHook:        handler.MustHook(),
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	})

	return &Tree{root: root, config: config}
}

// Add registers a service with the root supervisor.
func (t *Tree) Add(svc suture.Service) suture.ServiceToken {
	return t.root.Add(svc)
}

// ServeBackground starts the tree and returns the channel the root's final
// error is delivered on.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}
