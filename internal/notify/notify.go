// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

// Package notify delivers notification requests produced by the policy
// engine. Delivery is fire-and-forget: the poll cycle never waits on a
// notifier, and a failed send only logs and counts, it cannot fail a poll.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/kevinlake/menubarr/internal/logging"
	"github.com/kevinlake/menubarr/internal/metrics"
)

// Request is one notification to display or forward.
type Request struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier delivers a single notification request.
type Notifier interface {
	// Send delivers the request. Implementations must respect ctx.
	Send(ctx context.Context, req Request) error
}

// sendTimeout bounds a single delivery attempt.
const sendTimeout = 10 * time.Second

// Dispatcher fans requests out to a set of notifiers asynchronously.
type Dispatcher struct {
	notifiers []Notifier
	wg        sync.WaitGroup
}

// NewDispatcher creates a dispatcher over the given notifiers.
func NewDispatcher(notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{notifiers: notifiers}
}

// Dispatch sends the request to every notifier without blocking the caller.
// Each delivery gets its own timeout detached from the poll cycle's context.
func (d *Dispatcher) Dispatch(req Request) {
	for _, n := range d.notifiers {
		d.wg.Add(1)
		go func(n Notifier) {
			defer d.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			defer cancel()
			if err := n.Send(ctx, req); err != nil {
				metrics.NotificationsTotal.WithLabelValues("failed").Inc()
				logging.Err(err).Str("title", req.Title).Msg("notification delivery failed")
				return
			}
			metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		}(n)
	}
}

// Wait blocks until all in-flight deliveries finish. Used on shutdown and
// in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
