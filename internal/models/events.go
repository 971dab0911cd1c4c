// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package models

// EventType classifies a reconciliation event.
type EventType string

const (
	// EventNewSession marks a session not present in the previous poll.
	EventNewSession EventType = "new_session"

	// EventStateChanged marks a tracked session whose normalized playback
	// state differs from the previously observed one.
	EventStateChanged EventType = "state_changed"
)

// SessionEvent is one classified transition produced by the reconciler.
//
// Sessions that disappear between polls drop from tracking silently; no
// ended event is emitted.
type SessionEvent struct {
	Type    EventType `json:"type"`
	Session Session   `json:"session"`

	// PreviousState is set only for EventStateChanged.
	PreviousState string `json:"previous_state,omitempty"`

	// NewState is the session's normalized state after the transition.
	NewState string `json:"new_state"`
}
