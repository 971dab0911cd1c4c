// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

/*
plex_markup.go - Lenient Session Markup Scanner

Some Plex servers and reverse proxies ignore Accept: application/json and
answer /status/sessions with attribute-based markup. The bodies seen in the
wild are not reliably well-formed, so this scanner deliberately avoids a
strict XML parser: it walks the document left to right looking for blocks
whose tag names a media kind, reads attributes from the opening tag, and
pulls the first nested User and Player elements out of the block body.

Both self-closing blocks (<Video ... />) and blocks with a matching closing
tag are handled. Blocks never overlap; scanning resumes after each match.
Zero matches is not an error, it simply means no active sessions.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"html"
	"strconv"
	"strings"

	"github.com/kevinlake/menubarr/internal/models"
)

// markupSessionTags are the media-kind element names that constitute a
// session block in markup responses.
var markupSessionTags = []string{"Video", "Track", "Episode", "Movie", "Directory"}

// scanMarkupSessions extracts sessions from a markup body. Best effort:
// malformed blocks are skipped, never fatal.
func scanMarkupSessions(body string) []models.Session {
	sessions := []models.Session{}

	pos := 0
	for pos < len(body) {
		tag, start := nextSessionTag(body, pos)
		if start < 0 {
			break
		}

		openEnd := strings.IndexByte(body[start:], '>')
		if openEnd < 0 {
			break
		}
		openEnd += start

		openTag := body[start : openEnd+1]
		selfClosing := strings.HasSuffix(strings.TrimRight(openTag[:len(openTag)-1], " \t\r\n"), "/")

		var inner string
		next := openEnd + 1
		if !selfClosing {
			closing := "</" + tag + ">"
			if closeIdx := strings.Index(body[openEnd+1:], closing); closeIdx >= 0 {
				inner = body[openEnd+1 : openEnd+1+closeIdx]
				next = openEnd + 1 + closeIdx + len(closing)
			}
		}

		meta := metadataFromMarkup(tag, parseMarkupAttrs(openTag), inner)
		sessions = append(sessions, meta.ToSession())
		pos = next
	}

	return sessions
}

// nextSessionTag finds the earliest session block opening tag at or after
// pos. Returns the tag name and the index of its '<', or -1 when none.
func nextSessionTag(body string, pos int) (string, int) {
	bestIdx := -1
	bestTag := ""
	for _, tag := range markupSessionTags {
		idx := indexOfTag(body, "<"+tag, pos)
		if idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			bestIdx = idx
			bestTag = tag
		}
	}
	return bestTag, bestIdx
}

// indexOfTag finds prefix at or after pos where the tag name ends cleanly,
// so "<Video" does not match "<VideoStream".
func indexOfTag(body, prefix string, pos int) int {
	for pos < len(body) {
		idx := strings.Index(body[pos:], prefix)
		if idx < 0 {
			return -1
		}
		idx += pos
		after := idx + len(prefix)
		if after >= len(body) {
			return -1
		}
		switch body[after] {
		case ' ', '\t', '\r', '\n', '/', '>':
			return idx
		}
		pos = after
	}
	return -1
}

// parseMarkupAttrs extracts key="value" pairs from a single tag. Both
// double and single quotes are accepted; entities are unescaped.
func parseMarkupAttrs(tag string) map[string]string {
	attrs := map[string]string{}

	i := 0
	// Skip past the tag name.
	for i < len(tag) && tag[i] != ' ' && tag[i] != '\t' && tag[i] != '\r' && tag[i] != '\n' {
		i++
	}

	for i < len(tag) {
		// Skip whitespace.
		for i < len(tag) && (tag[i] == ' ' || tag[i] == '\t' || tag[i] == '\r' || tag[i] == '\n') {
			i++
		}
		// Read attribute name.
		nameStart := i
		for i < len(tag) && tag[i] != '=' && tag[i] != ' ' && tag[i] != '>' && tag[i] != '/' {
			i++
		}
		if i >= len(tag) || tag[i] != '=' {
			i++
			continue
		}
		name := tag[nameStart:i]
		i++ // consume '='
		if i >= len(tag) || (tag[i] != '"' && tag[i] != '\'') {
			continue
		}
		quote := tag[i]
		i++
		valueStart := i
		for i < len(tag) && tag[i] != quote {
			i++
		}
		if i >= len(tag) {
			break
		}
		attrs[name] = html.UnescapeString(tag[valueStart:i])
		i++ // consume closing quote
	}

	return attrs
}

// metadataFromMarkup assembles a session metadata record from a block's
// opening-tag attributes and the first User/Player sub-elements in its body.
func metadataFromMarkup(tag string, attrs map[string]string, inner string) models.PlexSessionMetadata {
	meta := models.PlexSessionMetadata{
		RatingKey:           attrs["ratingKey"],
		SessionKey:          attrs["sessionKey"],
		Type:                attrs["type"],
		Title:               attrs["title"],
		ParentTitle:         attrs["parentTitle"],
		GrandparentTitle:    attrs["grandparentTitle"],
		Index:               markupInt(attrs["index"]),
		ParentIndex:         markupInt(attrs["parentIndex"]),
		Year:                markupInt(attrs["year"]),
		LibrarySectionTitle: attrs["librarySectionTitle"],
	}
	if meta.Type == "" {
		meta.Type = strings.ToLower(tag)
	}

	if userAttrs := firstSubElement(inner, "User"); userAttrs != nil {
		meta.User = &models.PlexUser{Title: userAttrs["title"]}
	}
	if playerAttrs := firstSubElement(inner, "Player"); playerAttrs != nil {
		meta.Player = &models.PlexPlayer{
			Title:    playerAttrs["title"],
			Product:  playerAttrs["product"],
			Platform: playerAttrs["platform"],
			State:    playerAttrs["state"],
		}
	}

	return meta
}

// firstSubElement parses the attributes of the first <name ...> element in
// the body, or nil when absent.
func firstSubElement(body, name string) map[string]string {
	idx := indexOfTag(body, "<"+name, 0)
	if idx < 0 {
		return nil
	}
	end := strings.IndexByte(body[idx:], '>')
	if end < 0 {
		return nil
	}
	return parseMarkupAttrs(body[idx : idx+end+1])
}

// markupInt converts a numeric attribute to *int, nil when absent or junk.
func markupInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}
