// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kevinlake/menubarr/internal/logging"
	"github.com/kevinlake/menubarr/internal/metrics"
)

// RequestLogger logs one line per request with method, path, status, and
// latency.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Str("remote", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// MetricsMiddleware records request counts and latency per route pattern.
// The Chi route pattern keeps metric cardinality bounded for parameterized
// paths.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		metrics.RecordHTTPRequest(r.Method, path, ww.Status(), time.Since(start))
	})
}
