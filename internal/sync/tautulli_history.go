// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package sync

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/kevinlake/menubarr/internal/models"
)

// rawRecord is one loosely-typed Tautulli history record.
type rawRecord map[string]interface{}

// locateHistoryRecords finds the record array in a get_history response.
// Pure function over the body so it can be tested without HTTP.
func locateHistoryRecords(body []byte) ([]rawRecord, error) {
	var root map[string]interface{}
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, decodeFailure(sourceTautulli, "top-level not an object", err)
	}

	response, ok := root["response"].(map[string]interface{})
	if !ok {
		response = root
	}
	dataObj, _ := response["data"].(map[string]interface{})

	if records := asRecordSlice(dataObj["records"]); len(records) > 0 {
		return records, nil
	}
	if records := asRecordSlice(dataObj["data"]); len(records) > 0 {
		return records, nil
	}
	// Some builds put the array directly under response.data.
	if records := asRecordSlice(response["data"]); len(records) > 0 {
		return records, nil
	}

	detail := fmt.Sprintf("no records/data array. keys root=%v response=%v data=%v preview=%s",
		sortedKeys(root), sortedKeys(response), sortedKeys(dataObj), preview(body))
	return nil, decodeFailure(sourceTautulli, detail, nil)
}

// asRecordSlice converts a decoded JSON value to a record slice, tolerating
// non-object entries by skipping them.
func asRecordSlice(v interface{}) []rawRecord {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	records := make([]rawRecord, 0, len(arr))
	for _, entry := range arr {
		if obj, ok := entry.(map[string]interface{}); ok {
			records = append(records, rawRecord(obj))
		}
	}
	return records
}

// mapHistoryRecord maps one raw record to a HistoryItem. Every field is
// optional; a record with no usable title still maps to an entry with a
// placeholder title rather than being dropped.
func mapHistoryRecord(r rawRecord) models.HistoryItem {
	mediaType := r.str("media_type", "type")
	user := r.str("user", "friendly_name", "username")

	item := models.HistoryItem{
		Title:     buildHistoryTitle(r, mediaType),
		User:      user,
		MediaType: mediaType,
		Status:    historyStatus(r),
		PlayedAt:  historyDate(r),
	}
	return item
}

// buildHistoryTitle builds a display title in the same shape the session
// view uses: "Show • S1E2 • Episode" for episodes, "Title (Year)" otherwise.
func buildHistoryTitle(r rawRecord, mediaType string) string {
	show := r.str("grandparent_title", "series_title")
	episodeTitle := r.str("title", "episode_title")

	if strings.EqualFold(mediaType, "episode") && (show != "" || episodeTitle != "") {
		var numbering string
		if season, ok := r.intVal("parent_index", "season"); ok {
			numbering = fmt.Sprintf("S%d", season)
		}
		if episode, ok := r.intVal("index", "episode"); ok {
			numbering += fmt.Sprintf("E%d", episode)
		}

		parts := make([]string, 0, 3)
		for _, p := range []string{show, numbering, episodeTitle} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " • ")
		}
	}

	title := r.str("full_title", "title", "search_title")
	if title == "" {
		title = "Unknown"
	}
	if year, ok := r.intVal("year"); ok {
		title += fmt.Sprintf(" (%d)", year)
	}
	return title
}

// historyStatus derives a status label from whichever field the build sends.
func historyStatus(r rawRecord) string {
	if action := r.str("action"); action != "" {
		return action
	}
	if watched, ok := r.intVal("watched_status"); ok {
		if watched == 1 {
			return "Watched"
		}
		return "Unwatched"
	}
	return r.str("event_type")
}

// historyDate extracts an epoch-seconds timestamp. Tautulli sends these as
// numbers or numeric strings depending on build.
func historyDate(r rawRecord) *time.Time {
	for _, key := range []string{"date", "started", "stopped"} {
		if epoch, ok := r.floatVal(key); ok && epoch > 0 {
			t := time.Unix(int64(epoch), 0).UTC()
			return &t
		}
	}
	return nil
}

// str returns the first non-empty string value among the given keys.
func (r rawRecord) str(keys ...string) string {
	for _, key := range keys {
		if s, ok := r[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// intVal returns the first integer-convertible value among the given keys.
// JSON numbers decode as float64; numeric strings are also accepted.
func (r rawRecord) intVal(keys ...string) (int, bool) {
	for _, key := range keys {
		switch v := r[key].(type) {
		case float64:
			return int(v), true
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// floatVal returns the first float-convertible value among the given keys.
func (r rawRecord) floatVal(keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := r[key].(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// sortedKeys lists a map's keys deterministically for diagnostics.
func sortedKeys(m map[string]interface{}) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
