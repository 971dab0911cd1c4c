// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/kevinlake/menubarr/internal/models"
)

func TestSnapshotStoreLatest(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore()
	if !store.Latest().UpdatedAt.IsZero() {
		t.Error("fresh store must return zero snapshot")
	}

	snap := models.Snapshot{UpdatedAt: time.Now(), Sessions: []models.Session{{Title: "Heat"}}}
	store.Publish(snap)

	got := store.Latest()
	if len(got.Sessions) != 1 || got.Sessions[0].Title != "Heat" {
		t.Errorf("latest = %+v", got)
	}
}

func TestSnapshotStoreSubscribers(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore()

	var mu sync.Mutex
	var received []models.Snapshot
	store.Subscribe(func(s models.Snapshot) {
		mu.Lock()
		received = append(received, s)
		mu.Unlock()
	})

	store.Publish(models.Snapshot{UpdatedAt: time.Now()})
	store.Publish(models.Snapshot{UpdatedAt: time.Now()})

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 2 {
		t.Errorf("received = %d, want 2", len(received))
	}
}

func TestSnapshotStoreInProgressFlag(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore()

	var publishes int
	var mu sync.Mutex
	store.Subscribe(func(models.Snapshot) {
		mu.Lock()
		publishes++
		mu.Unlock()
	})

	store.SetInProgress(true)
	if !store.Latest().InProgress {
		t.Error("in-progress flag not visible")
	}
	store.SetInProgress(false)
	if store.Latest().InProgress {
		t.Error("in-progress flag not cleared")
	}

	mu.Lock()
	defer mu.Unlock()
	if publishes != 0 {
		t.Errorf("flag flips must not notify subscribers, got %d", publishes)
	}
}

func TestSnapshotStoreConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Publish(models.Snapshot{UpdatedAt: time.Now()})
		}()
		go func() {
			defer wg.Done()
			_ = store.Latest()
		}()
	}
	wg.Wait()
}
