// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package models

import "time"

// Snapshot is the externally observable result of one poll cycle.
//
// The session and history channels fail independently: an error in one never
// blanks the other's data. Presentation layers read snapshots and never
// mutate them.
type Snapshot struct {
	Sessions      []Session `json:"sessions"`
	SessionsError string    `json:"sessions_error,omitempty"`

	History      []HistoryItem `json:"history"`
	HistoryError string        `json:"history_error,omitempty"`

	// UpdatedAt is the completion time of the last poll attempt.
	UpdatedAt time.Time `json:"updated_at"`

	// InProgress reports whether a refresh is currently running.
	InProgress bool `json:"in_progress"`
}
