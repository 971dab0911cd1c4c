// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package models

// Plex wire types for GET /status/sessions.
// Based on the Plex Media Server API JSON shape:
//
//	{ "MediaContainer": { "size": N, "Metadata": [ ... ] } }
//
// The same field names appear as attributes in the server's alternate
// attribute-markup responses, which the session client scans leniently.

// PlexSessionsResponse is the top-level response from /status/sessions.
type PlexSessionsResponse struct {
	MediaContainer PlexSessionsContainer `json:"MediaContainer"`
}

// PlexSessionsContainer wraps the active sessions array.
type PlexSessionsContainer struct {
	Size     int                   `json:"size"`
	Metadata []PlexSessionMetadata `json:"Metadata"`
}

// PlexSessionMetadata is a single active session record.
type PlexSessionMetadata struct {
	RatingKey            string `json:"ratingKey,omitempty"`
	SessionKey           string `json:"sessionKey,omitempty"`
	ParentRatingKey      string `json:"parentRatingKey,omitempty"`
	GrandparentRatingKey string `json:"grandparentRatingKey,omitempty"`

	Type             string `json:"type,omitempty"`
	Title            string `json:"title,omitempty"`
	ParentTitle      string `json:"parentTitle,omitempty"`
	GrandparentTitle string `json:"grandparentTitle,omitempty"`

	Index       *int `json:"index,omitempty"`
	ParentIndex *int `json:"parentIndex,omitempty"`
	Year        *int `json:"year,omitempty"`

	LibrarySectionTitle string `json:"librarySectionTitle,omitempty"`

	User   *PlexUser   `json:"User,omitempty"`
	Player *PlexPlayer `json:"Player,omitempty"`
}

// PlexUser carries the viewing user's display name.
type PlexUser struct {
	Title string `json:"title,omitempty"`
}

// PlexPlayer carries the playing device's identity and state.
type PlexPlayer struct {
	Title    string `json:"title,omitempty"`
	Product  string `json:"product,omitempty"`
	Platform string `json:"platform,omitempty"`
	State    string `json:"state,omitempty"`
}

// ToSession converts a wire record into the domain Session, normalizing the
// playback state and resolving the device display name (player title first,
// product as fallback).
func (m *PlexSessionMetadata) ToSession() Session {
	s := Session{
		RatingKey:        m.RatingKey,
		SessionKey:       m.SessionKey,
		Kind:             MediaKindFromType(m.Type),
		Title:            m.Title,
		ParentTitle:      m.ParentTitle,
		GrandparentTitle: m.GrandparentTitle,
		SeasonIndex:      m.ParentIndex,
		EpisodeIndex:     m.Index,
		Year:             m.Year,
		Library:          m.LibrarySectionTitle,
		State:            StateUnknown,
	}
	if m.User != nil {
		s.User = m.User.Title
	}
	if m.Player != nil {
		s.Device = m.Player.Title
		if s.Device == "" {
			s.Device = m.Player.Product
		}
		s.State = NormalizeState(m.Player.State)
	}
	return s
}
