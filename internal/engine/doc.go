// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

// Package engine implements the poll-reconcile-notify core: the scheduler
// that drives timer and forced refreshes with single-flight coalescing, the
// pure reconciler that diffs successive session lists into events, the
// notification policy with preference gates and per-key throttling, and the
// snapshot store the API layer reads from.
package engine
