// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package engine

import (
	"fmt"
	"time"

	"github.com/kevinlake/menubarr/internal/metrics"
	"github.com/kevinlake/menubarr/internal/models"
	"github.com/kevinlake/menubarr/internal/notify"
)

// minIntervalFloor is enforced when the configured notify interval is
// non-positive, so a broken preference can never disable throttling.
const minIntervalFloor = 10 * time.Second

// Preferences are the notification gates evaluated per event.
type Preferences struct {
	Enabled     bool
	OnPlaying   bool
	OnPaused    bool
	MinInterval time.Duration
}

// ThrottleState maps throttle keys to the timestamp they last produced a
// notification. Owned by the scheduler; only one poll cycle reads and
// mutates it at a time.
type ThrottleState map[string]time.Time

// throttleKey derives the suppression key for an event. New sessions
// throttle per identity; state changes throttle per identity and target
// state, so a pause and a resume of the same session throttle separately.
func throttleKey(event models.SessionEvent) string {
	key := event.Session.IdentityKey()
	if event.Type == models.EventNewSession {
		return "new:" + key
	}
	return "state:" + key + ":" + event.NewState
}

// Decide filters events through the preference gates and the throttle map
// and renders the survivors into notification requests. The throttle map is
// updated in place for every emitted request; suppressed events leave it
// untouched.
func Decide(events []models.SessionEvent, prefs Preferences, throttle ThrottleState, now time.Time) []notify.Request {
	if !prefs.Enabled {
		for range events {
			metrics.NotificationsTotal.WithLabelValues("suppressed").Inc()
		}
		return nil
	}

	minInterval := prefs.MinInterval
	if minInterval <= 0 {
		minInterval = minIntervalFloor
	}

	requests := []notify.Request{}
	for _, event := range events {
		if !stateAllowed(event.NewState, prefs) {
			metrics.NotificationsTotal.WithLabelValues("suppressed").Inc()
			continue
		}

		key := throttleKey(event)
		if last, ok := throttle[key]; ok && now.Sub(last) < minInterval {
			metrics.NotificationsTotal.WithLabelValues("throttled").Inc()
			continue
		}
		throttle[key] = now

		requests = append(requests, renderRequest(event))
	}
	return requests
}

// stateAllowed applies the per-state allow filter. Anything that is not
// playing or paused is never notifiable.
func stateAllowed(state string, prefs Preferences) bool {
	switch state {
	case models.StatePlaying:
		return prefs.OnPlaying
	case models.StatePaused:
		return prefs.OnPaused
	default:
		return false
	}
}

// renderRequest builds the user-facing notification text for an event.
func renderRequest(event models.SessionEvent) notify.Request {
	title := "Now Playing"
	if event.NewState == models.StatePaused {
		title = "Now Paused"
	}

	body := event.Session.DisplayTitle()
	if who := watcherLabel(event.Session); who != "" {
		body += " • " + who
	}
	if event.Type == models.EventStateChanged && event.PreviousState != "" {
		body += fmt.Sprintf(" (was %s)", event.PreviousState)
	}

	return notify.Request{Title: title, Body: body}
}

// watcherLabel renders "user on device" tolerating either field missing.
func watcherLabel(s models.Session) string {
	switch {
	case s.User != "" && s.Device != "":
		return s.User + " on " + s.Device
	case s.User != "":
		return s.User
	case s.Device != "":
		return s.Device
	default:
		return ""
	}
}
