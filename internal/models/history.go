// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package models

import "time"

// HistoryItem is a completed-or-logged watch event from the history source.
//
// History items carry no identity across polls: the recent list is recreated
// wholesale on every refresh and is never diffed.
type HistoryItem struct {
	// Title is the computed display title. Records that cannot produce even
	// a fallback title get the "Unknown" placeholder rather than being
	// dropped.
	Title string `json:"title"`

	User      string     `json:"user,omitempty"`
	MediaType string     `json:"media_type,omitempty"`
	Status    string     `json:"status,omitempty"`
	PlayedAt  *time.Time `json:"played_at,omitempty"`
}
