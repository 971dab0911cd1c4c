// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

// Package websocket pushes poll snapshots and notification events to
// connected menu bar frontends, so a frontend renders new poll results the
// moment they publish instead of re-polling the HTTP API.
package websocket
