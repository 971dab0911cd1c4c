// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package engine

import (
	"github.com/kevinlake/menubarr/internal/models"
)

// State is the reconciliation baseline carried between polls: the identity
// keys seen in the previous successful poll and each key's last observed
// normalized playback state. It advances only on successful session
// fetches, so after an outage every active session is classified as new
// relative to the last good baseline.
type State struct {
	Keys   map[string]struct{}
	States map[string]string
}

// NewState returns an empty baseline.
func NewState() State {
	return State{
		Keys:   map[string]struct{}{},
		States: map[string]string{},
	}
}

// Reconcile classifies the current sessions against the previous baseline
// and returns the events plus the replacement baseline. Pure function: the
// previous state is never mutated, and identical inputs always produce
// identical outputs.
//
// Sessions that disappeared since the previous poll drop from tracking
// silently; no "ended" event is emitted for them.
func Reconcile(prev State, current []models.Session) ([]models.SessionEvent, State) {
	next := State{
		Keys:   make(map[string]struct{}, len(current)),
		States: make(map[string]string, len(current)),
	}

	events := []models.SessionEvent{}
	for i := range current {
		session := current[i]
		key := session.IdentityKey()
		if _, dup := next.Keys[key]; dup {
			// Two records mapping to one identity; first observation wins.
			continue
		}

		state := models.NormalizeState(session.State)
		next.Keys[key] = struct{}{}
		next.States[key] = state

		if _, seen := prev.Keys[key]; !seen {
			events = append(events, models.SessionEvent{
				Type:     models.EventNewSession,
				Session:  session,
				NewState: state,
			})
			continue
		}

		// Multiple transitions between two polls collapse into exactly one
		// observed old-to-new change.
		if prevState, ok := prev.States[key]; ok && prevState != state {
			events = append(events, models.SessionEvent{
				Type:          models.EventStateChanged,
				Session:       session,
				PreviousState: prevState,
				NewState:      state,
			})
		}
	}

	return events, next
}
