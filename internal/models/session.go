// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package models

import (
	"fmt"
	"strings"
)

// Playback states the notification policy understands. Any other token
// reported by the server is carried verbatim (lowercased) and is never
// eligible for notifications.
const (
	StatePlaying = "playing"
	StatePaused  = "paused"
	StateUnknown = "unknown"
)

// MediaKind classifies what is being played.
type MediaKind string

const (
	MediaKindMovie   MediaKind = "movie"
	MediaKindEpisode MediaKind = "episode"
	MediaKindTrack   MediaKind = "track"
	MediaKindOther   MediaKind = "other"
)

// MediaKindFromType maps a server-reported type string to a MediaKind.
// Unrecognized types map to MediaKindOther rather than failing.
func MediaKindFromType(t string) MediaKind {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "movie":
		return MediaKindMovie
	case "episode":
		return MediaKindEpisode
	case "track":
		return MediaKindTrack
	default:
		return MediaKindOther
	}
}

// NormalizeState normalizes a raw playback state token: whitespace is
// trimmed, the token is lowercased, and an empty result becomes "unknown".
func NormalizeState(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return StateUnknown
	}
	return s
}

// Session is one actively playing media item as reported by the media server.
//
// Sessions are produced fresh on every poll and owned by that poll cycle.
// The reconciler compares sessions by value and never mutates them in place.
type Session struct {
	// Identity sources, in key precedence order.
	RatingKey  string `json:"rating_key,omitempty"`
	SessionKey string `json:"session_key,omitempty"`

	Kind MediaKind `json:"kind"`

	// Display titles. For episodes, GrandparentTitle is the show and
	// ParentTitle the season; SeasonIndex/EpisodeIndex carry numbering.
	Title            string `json:"title,omitempty"`
	ParentTitle      string `json:"parent_title,omitempty"`
	GrandparentTitle string `json:"grandparent_title,omitempty"`
	SeasonIndex      *int   `json:"season_index,omitempty"`
	EpisodeIndex     *int   `json:"episode_index,omitempty"`
	Year             *int   `json:"year,omitempty"`

	// User is the viewing user's display name, Device the player's.
	User   string `json:"user,omitempty"`
	Device string `json:"device,omitempty"`

	// State is the normalized playback state (see NormalizeState).
	State string `json:"state"`

	Library string `json:"library,omitempty"`
}

// IdentityKey derives the stable string used to correlate the same
// real-world playback session across polls.
//
// Precedence: rating key, then session key, then a composite of
// (user, device, display title). Two fetches of the same session map to the
// same key as long as one of the keys is stable or the triple is unchanged.
func (s *Session) IdentityKey() string {
	if s.RatingKey != "" {
		return s.RatingKey
	}
	if s.SessionKey != "" {
		return s.SessionKey
	}
	return s.User + "|" + s.Device + "|" + s.DisplayTitle()
}

// DisplayTitle computes the human-readable title for the session.
//
// Episodes compose show, SxEy numbering, and episode title; everything else
// uses the title plus the release year when known.
func (s *Session) DisplayTitle() string {
	if s.Kind == MediaKindEpisode {
		parts := make([]string, 0, 3)
		if s.GrandparentTitle != "" {
			parts = append(parts, s.GrandparentTitle)
		}
		if se := formatEpisodeNumber(s.SeasonIndex, s.EpisodeIndex); se != "" {
			parts = append(parts, se)
		}
		if s.Title != "" {
			parts = append(parts, s.Title)
		}
		if len(parts) > 0 {
			return strings.Join(parts, " • ")
		}
	}

	title := s.Title
	if title == "" {
		return "Unknown"
	}
	if s.Year != nil {
		return fmt.Sprintf("%s (%d)", title, *s.Year)
	}
	return title
}

// formatEpisodeNumber renders "S1E2" style numbering, omitting absent parts.
func formatEpisodeNumber(season, episode *int) string {
	var b strings.Builder
	if season != nil {
		fmt.Fprintf(&b, "S%d", *season)
	}
	if episode != nil {
		fmt.Fprintf(&b, "E%d", *episode)
	}
	return b.String()
}
