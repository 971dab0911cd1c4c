// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

// Package sync contains the source clients that feed the poll engine: the
// Plex session client (/status/sessions, JSON with a lenient markup
// fallback) and the Tautulli history client (api/v2 cmd=get_history with
// shape-tolerant record location). All failures are classified SourceErrors
// so the engine can surface them per source without aborting the poll loop.
// Production wiring goes through the circuit breaker wrappers.
package sync
