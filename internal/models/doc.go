// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

// Package models defines the domain types shared across Menubarr: sessions,
// history items, reconciliation events, poll snapshots, and the Plex wire
// structures the session client decodes.
//
// All types are value types owned by a single poll cycle. Nothing in this
// package performs I/O.
package models
