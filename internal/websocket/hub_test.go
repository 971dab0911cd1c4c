// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package websocket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kevinlake/menubarr/internal/models"
	"github.com/kevinlake/menubarr/internal/notify"
)

// newHubClient registers a detached client (no real connection) and returns
// it. Only the send channel is exercised in these tests.
func newHubClient(t *testing.T, hub *Hub) *Client {
	t.Helper()
	client := &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, 8)}
	select {
	case hub.Register <- client:
	case <-time.After(time.Second):
		t.Fatal("register timed out")
	}
	return client
}

func TestHubBroadcastSnapshot(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	client := newHubClient(t, hub)

	snap := models.Snapshot{UpdatedAt: time.Now()}
	hub.BroadcastSnapshot(snap)

	select {
	case msg := <-client.send:
		if msg.Type != MessageTypeSnapshot {
			t.Errorf("type = %q", msg.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("RunWithContext returned %v", err)
	}
}

func TestHubBroadcastNotification(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.RunWithContext(ctx) }()

	client := newHubClient(t, hub)
	hub.BroadcastNotification(notify.Request{Title: "Now Playing", Body: "Heat"})

	select {
	case msg := <-client.send:
		if msg.Type != MessageTypeNotification {
			t.Errorf("type = %q", msg.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.RunWithContext(ctx) }()

	client := newHubClient(t, hub)
	hub.Unregister <- client

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected closed send channel")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}

	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("client count = %d", got)
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	client := newHubClient(t, hub)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	if _, ok := <-client.send; ok {
		t.Error("expected closed send channel after shutdown")
	}
	if hub.GetClientCount() != 0 {
		t.Error("clients not cleared on shutdown")
	}
}
