// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

// Package metrics defines the Prometheus metrics exported at /metrics.
// All metrics are registered via promauto at package initialization.
package metrics
