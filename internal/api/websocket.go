// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package api

import (
	"net/http"

	gorilla "github.com/gorilla/websocket"

	"github.com/kevinlake/menubarr/internal/logging"
	"github.com/kevinlake/menubarr/internal/websocket"
)

const (
	wsReadBufferSize  = 1024
	wsWriteBufferSize = 1024
)

// WebSocket upgrades the connection and attaches it to the hub. The client
// immediately receives the latest snapshot so frontends render without
// waiting for the next poll.
func (router *Router) WebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := gorilla.Upgrader{
		ReadBufferSize:  wsReadBufferSize,
		WriteBufferSize: wsWriteBufferSize,
		CheckOrigin:     router.checkWSOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(router.hub, conn)
	router.hub.Register <- client
	client.Start()
	client.SendSnapshot(router.store.Latest())

	logging.Debug().
		Uint64("client_id", client.ID()).
		Str("remote", r.RemoteAddr).
		Msg("websocket client connected")
}

// checkWSOrigin applies the configured CORS origins to WebSocket upgrades.
// Requests without an Origin header (native menu bar apps, CLI tools) are
// always allowed.
func (router *Router) checkWSOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range router.cfg.Server.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
