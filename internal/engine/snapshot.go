// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package engine

import (
	"sync"

	"github.com/kevinlake/menubarr/internal/models"
)

// SnapshotStore holds the latest published poll snapshot and fans new
// snapshots out to subscribers (the WebSocket hub, tests). Readers get
// copies; the presentation layer never mutates engine state.
type SnapshotStore struct {
	mu     sync.RWMutex
	latest models.Snapshot
	subs   []func(models.Snapshot)
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Latest returns the most recently published snapshot.
func (s *SnapshotStore) Latest() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Publish stores a snapshot and notifies subscribers. Called exactly once
// per completed refresh.
func (s *SnapshotStore) Publish(snap models.Snapshot) {
	s.mu.Lock()
	s.latest = snap
	subs := make([]func(models.Snapshot), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// SetInProgress flips the in-progress flag on the stored snapshot without
// counting as a publish; subscribers are not notified for flag flips, only
// pollers of Latest observe them.
func (s *SnapshotStore) SetInProgress(v bool) {
	s.mu.Lock()
	s.latest.InProgress = v
	s.mu.Unlock()
}

// Subscribe registers a callback invoked on every publish. Callbacks run on
// the publishing goroutine and must not block.
func (s *SnapshotStore) Subscribe(fn func(models.Snapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}
