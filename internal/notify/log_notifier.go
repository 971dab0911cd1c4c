// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kevinlake/menubarr/internal/logging"
)

// LogNotifier writes notifications to the application log. It is always
// wired so every notification is observable even without a webhook; menu
// bar frontends receive the same notifications over the WebSocket feed.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: logging.With().Str("component", "notify").Logger()}
}

// Send implements Notifier.
func (n *LogNotifier) Send(_ context.Context, req Request) error {
	n.logger.Info().Str("title", req.Title).Str("body", req.Body).Msg("notification")
	return nil
}
