// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package sync

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a source failure for presentation purposes. The
// snapshot carries the rendered message; the kind determines how it reads.
type ErrorKind string

const (
	// KindNotConfigured means the source's URL or credential is missing or
	// still set to an unconfigured placeholder. No network call was made.
	KindNotConfigured ErrorKind = "not_configured"

	// KindBadURL means the configured base URL could not be parsed into a
	// valid request URL.
	KindBadURL ErrorKind = "bad_url"

	// KindHTTPStatus means the source answered with a non-success HTTP
	// status code.
	KindHTTPStatus ErrorKind = "http_status"

	// KindDecode means the response body could not be interpreted in any
	// supported shape.
	KindDecode ErrorKind = "decode"
)

// SourceError is a classified failure from a data source fetch. It wraps the
// underlying cause (when one exists) so callers can still use errors.Is and
// errors.As, while the Kind and message drive the user-facing snapshot.
type SourceError struct {
	// Source names the failing backend: "plex" or "tautulli".
	Source string

	Kind ErrorKind

	// StatusCode is set only for KindHTTPStatus.
	StatusCode int

	// Detail is a short human-readable explanation.
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Source, e.Detail)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Message renders the error for display in a snapshot. Unlike Error() it
// omits the wrapped cause chain, which tends to be noise in a menu bar.
func (e *SourceError) Message() string {
	return e.Detail
}

// notConfigured builds a SourceError for a missing or placeholder setting.
func notConfigured(source, detail string) *SourceError {
	return &SourceError{Source: source, Kind: KindNotConfigured, Detail: detail}
}

// badURL builds a SourceError for an unparseable base URL.
func badURL(source string, err error) *SourceError {
	return &SourceError{Source: source, Kind: KindBadURL, Detail: "invalid base URL", Err: err}
}

// httpStatus builds a SourceError for a non-success response.
func httpStatus(source string, code int) *SourceError {
	return &SourceError{
		Source:     source,
		Kind:       KindHTTPStatus,
		StatusCode: code,
		Detail:     fmt.Sprintf("unexpected HTTP status %d", code),
	}
}

// decodeFailure builds a SourceError for an uninterpretable body.
func decodeFailure(source, detail string, err error) *SourceError {
	return &SourceError{Source: source, Kind: KindDecode, Detail: detail, Err: err}
}

// KindOf extracts the ErrorKind from an error chain. Returns an empty kind
// for nil errors and errors that are not SourceErrors.
func KindOf(err error) ErrorKind {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// MessageOf renders an error for snapshot display. SourceErrors use their
// short message; anything else falls back to Error().
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var se *SourceError
	if errors.As(err, &se) {
		return se.Message()
	}
	return err.Error()
}
