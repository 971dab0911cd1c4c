// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package models

import "testing"

func intPtr(v int) *int { return &v }

func TestNormalizeState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase passthrough", "playing", "playing"},
		{"uppercase", "PAUSED", "paused"},
		{"surrounding whitespace", "  Playing\n", "playing"},
		{"empty becomes unknown", "", "unknown"},
		{"whitespace only becomes unknown", "   ", "unknown"},
		{"verbatim other token", "Buffering", "buffering"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeState(tt.in); got != tt.want {
				t.Errorf("NormalizeState(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMediaKindFromType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want MediaKind
	}{
		{"movie", MediaKindMovie},
		{"Episode", MediaKindEpisode},
		{"track", MediaKindTrack},
		{"clip", MediaKindOther},
		{"", MediaKindOther},
	}

	for _, tt := range tests {
		if got := MediaKindFromType(tt.in); got != tt.want {
			t.Errorf("MediaKindFromType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSessionIdentityKeyPrecedence(t *testing.T) {
	t.Parallel()

	s := Session{RatingKey: "12345", SessionKey: "77", User: "kev", Device: "Living Room"}
	if got := s.IdentityKey(); got != "12345" {
		t.Errorf("rating key should win, got %q", got)
	}

	s.RatingKey = ""
	if got := s.IdentityKey(); got != "77" {
		t.Errorf("session key should be second, got %q", got)
	}

	s.SessionKey = ""
	s.Title = "Heat"
	s.Year = intPtr(1995)
	want := "kev|Living Room|Heat (1995)"
	if got := s.IdentityKey(); got != want {
		t.Errorf("composite fallback = %q, want %q", got, want)
	}
}

func TestSessionIdentityKeyIdempotent(t *testing.T) {
	t.Parallel()

	s := Session{SessionKey: "42", User: "kev", Device: "iPhone", Title: "Dune"}
	if s.IdentityKey() != s.IdentityKey() {
		t.Error("identity key must be stable across calls on identical data")
	}

	// A byte-identical copy must map to the same key.
	clone := s
	if s.IdentityKey() != clone.IdentityKey() {
		t.Error("identical sessions must share an identity key")
	}
}

func TestSessionDisplayTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		session Session
		want    string
	}{
		{
			name: "episode with full hierarchy",
			session: Session{
				Kind:             MediaKindEpisode,
				GrandparentTitle: "Severance",
				SeasonIndex:      intPtr(2),
				EpisodeIndex:     intPtr(5),
				Title:            "Trojan's Horse",
			},
			want: "Severance • S2E5 • Trojan's Horse",
		},
		{
			name: "episode missing numbering",
			session: Session{
				Kind:             MediaKindEpisode,
				GrandparentTitle: "Severance",
				Title:            "Trojan's Horse",
			},
			want: "Severance • Trojan's Horse",
		},
		{
			name:    "movie with year",
			session: Session{Kind: MediaKindMovie, Title: "Heat", Year: intPtr(1995)},
			want:    "Heat (1995)",
		},
		{
			name:    "movie without year",
			session: Session{Kind: MediaKindMovie, Title: "Heat"},
			want:    "Heat",
		},
		{
			name:    "empty falls back to placeholder",
			session: Session{Kind: MediaKindOther},
			want:    "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.session.DisplayTitle(); got != tt.want {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlexSessionMetadataToSession(t *testing.T) {
	t.Parallel()

	m := PlexSessionMetadata{
		RatingKey:           "555",
		SessionKey:          "9",
		Type:                "episode",
		Title:               "Pilot",
		GrandparentTitle:    "The Expanse",
		ParentIndex:         intPtr(1),
		Index:               intPtr(1),
		LibrarySectionTitle: "TV Shows",
		User:                &PlexUser{Title: "kev"},
		Player:              &PlexPlayer{Title: "Apple TV", Product: "Plex for tvOS", State: "Playing"},
	}

	s := m.ToSession()
	if s.IdentityKey() != "555" {
		t.Errorf("identity key = %q, want rating key", s.IdentityKey())
	}
	if s.Kind != MediaKindEpisode {
		t.Errorf("kind = %q, want episode", s.Kind)
	}
	if s.State != StatePlaying {
		t.Errorf("state = %q, want playing (normalized)", s.State)
	}
	if s.User != "kev" || s.Device != "Apple TV" {
		t.Errorf("user/device = %q/%q", s.User, s.Device)
	}
	if s.Library != "TV Shows" {
		t.Errorf("library = %q", s.Library)
	}
}

func TestPlexSessionMetadataToSessionDeviceFallback(t *testing.T) {
	t.Parallel()

	m := PlexSessionMetadata{
		Type:   "movie",
		Title:  "Heat",
		Player: &PlexPlayer{Product: "Plex Web"},
	}

	s := m.ToSession()
	if s.Device != "Plex Web" {
		t.Errorf("device = %q, want product fallback", s.Device)
	}
	if s.State != StateUnknown {
		t.Errorf("state = %q, want unknown for empty player state", s.State)
	}
}

func TestPlexSessionMetadataToSessionNilSubobjects(t *testing.T) {
	t.Parallel()

	m := PlexSessionMetadata{Type: "movie", Title: "Heat"}
	s := m.ToSession()
	if s.User != "" || s.Device != "" {
		t.Errorf("expected empty user/device, got %q/%q", s.User, s.Device)
	}
	if s.State != StateUnknown {
		t.Errorf("state = %q, want unknown", s.State)
	}
}
