// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kevinlake/menubarr/internal/config"
)

func newTautulliTestClient(url string) *TautulliClient {
	return NewTautulliClient(&config.TautulliConfig{URL: url, APIKey: "abc123", HistoryCount: 5})
}

func TestTautulliFetchHistoryNotConfigured(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.TautulliConfig
	}{
		{"empty url", config.TautulliConfig{URL: "", APIKey: "abc"}},
		{"empty key", config.TautulliConfig{URL: "http://tautulli.local:8181", APIKey: ""}},
		{"placeholder key", config.TautulliConfig{URL: "http://tautulli.local:8181", APIKey: tautulliPlaceholderKey}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := NewTautulliClient(&tt.cfg)
			_, err := client.FetchHistory(context.Background(), 5)
			if KindOf(err) != KindNotConfigured {
				t.Errorf("kind = %q, want not_configured (err: %v)", KindOf(err), err)
			}
		})
	}
}

func TestTautulliFetchHistoryShapes(t *testing.T) {
	t.Parallel()

	record := `{"media_type": "movie", "full_title": "Heat", "user": "kev", "date": 1756300000, "action": "play"}`

	tests := []struct {
		name string
		body string
	}{
		{"records nested", `{"response": {"data": {"records": [` + record + `]}}}`},
		{"data nested", `{"response": {"data": {"data": [` + record + `]}}}`},
		{"data array shallow", `{"response": {"data": [` + record + `]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("cmd") != "get_history" || q.Get("apikey") == "" {
					t.Errorf("query = %v", q)
				}
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			items, err := newTautulliTestClient(srv.URL).FetchHistory(context.Background(), 5)
			if err != nil {
				t.Fatalf("FetchHistory: %v", err)
			}
			if len(items) != 1 {
				t.Fatalf("items = %d, want 1", len(items))
			}
			if items[0].Title != "Heat" || items[0].User != "kev" || items[0].Status != "play" {
				t.Errorf("unexpected item: %+v", items[0])
			}
			if items[0].PlayedAt == nil || items[0].PlayedAt.Unix() != 1756300000 {
				t.Errorf("played at: %v", items[0].PlayedAt)
			}
		})
	}
}

func TestTautulliFetchHistoryTruncates(t *testing.T) {
	t.Parallel()

	var records []string
	for i := 0; i < 10; i++ {
		records = append(records, `{"full_title": "Item"}`)
	}
	body := `{"response": {"data": {"records": [` + strings.Join(records, ",") + `]}}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	items, err := newTautulliTestClient(srv.URL).FetchHistory(context.Background(), 3)
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("items = %d, want truncation to 3", len(items))
	}
}

func TestTautulliFetchHistoryDecodeDiagnostic(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"response": {"result": "success", "data": {"draw": 1, "total": 0}}}`))
	}))
	defer srv.Close()

	_, err := newTautulliTestClient(srv.URL).FetchHistory(context.Background(), 5)
	if KindOf(err) != KindDecode {
		t.Fatalf("kind = %q, want decode (err: %v)", KindOf(err), err)
	}
	msg := err.Error()
	// The diagnostic must name the keys seen at each level.
	for _, want := range []string{"response", "draw", "total", "preview"} {
		if !strings.Contains(msg, want) {
			t.Errorf("diagnostic %q missing %q", msg, want)
		}
	}
}

func TestTautulliFetchHistoryHTTPStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTautulliTestClient(srv.URL).FetchHistory(context.Background(), 5)
	if KindOf(err) != KindHTTPStatus {
		t.Errorf("kind = %q, want http_status (err: %v)", KindOf(err), err)
	}
}

func TestMapHistoryRecordEpisode(t *testing.T) {
	t.Parallel()

	r := rawRecord{
		"media_type":        "episode",
		"grandparent_title": "Severance",
		"parent_index":      float64(2),
		"index":             float64(5),
		"title":             "Trojan's Horse",
		"friendly_name":     "kev",
	}

	item := mapHistoryRecord(r)
	if item.Title != "Severance • S2E5 • Trojan's Horse" {
		t.Errorf("title = %q", item.Title)
	}
	if item.User != "kev" || item.MediaType != "episode" {
		t.Errorf("item: %+v", item)
	}
}

func TestMapHistoryRecordAlternateKeys(t *testing.T) {
	t.Parallel()

	r := rawRecord{
		"type":         "episode",
		"series_title": "The Expanse",
		"season":       "1",
		"episode":      "3",
		"username":     "alex",
		"started":      "1756300000",
	}

	item := mapHistoryRecord(r)
	if item.Title != "The Expanse • S1E3" {
		t.Errorf("title = %q", item.Title)
	}
	if item.User != "alex" {
		t.Errorf("user = %q", item.User)
	}
	if item.PlayedAt == nil || item.PlayedAt.Unix() != 1756300000 {
		t.Errorf("played at: %v", item.PlayedAt)
	}
}

func TestMapHistoryRecordWatchedStatus(t *testing.T) {
	t.Parallel()

	watched := mapHistoryRecord(rawRecord{"full_title": "Heat", "watched_status": float64(1)})
	if watched.Status != "Watched" {
		t.Errorf("status = %q, want Watched", watched.Status)
	}
	unwatched := mapHistoryRecord(rawRecord{"full_title": "Heat", "watched_status": float64(0)})
	if unwatched.Status != "Unwatched" {
		t.Errorf("status = %q, want Unwatched", unwatched.Status)
	}
}

func TestMapHistoryRecordPlaceholderTitle(t *testing.T) {
	t.Parallel()

	item := mapHistoryRecord(rawRecord{})
	if item.Title != "Unknown" {
		t.Errorf("title = %q, want placeholder for bare record", item.Title)
	}
	if item.PlayedAt != nil {
		t.Errorf("played at should be nil, got %v", item.PlayedAt)
	}
}

func TestMapHistoryRecordMovieYear(t *testing.T) {
	t.Parallel()

	item := mapHistoryRecord(rawRecord{"media_type": "movie", "full_title": "Heat", "year": float64(1995)})
	if item.Title != "Heat (1995)" {
		t.Errorf("title = %q", item.Title)
	}
}
