// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package supervisor

import (
	"context"

	"github.com/kevinlake/menubarr/internal/websocket"
)

// HubService supervises the WebSocket hub's event loop.
type HubService struct {
	hub *websocket.Hub
}

// NewHubService wraps a hub for supervision.
func NewHubService(hub *websocket.Hub) *HubService {
	return &HubService{hub: hub}
}

// Serve implements suture.Service.
func (s *HubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

// String identifies the service in supervision logs.
func (s *HubService) String() string {
	return "websocket-hub"
}
