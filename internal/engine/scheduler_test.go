// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kevinlake/menubarr/internal/models"
	"github.com/kevinlake/menubarr/internal/notify"
)

// fakeSessionSource is a scriptable SessionSource.
type fakeSessionSource struct {
	mu       sync.Mutex
	sessions []models.Session
	err      error
	calls    int
	block    chan struct{} // when set, FetchSessions parks until closed
}

func (f *fakeSessionSource) FetchSessions(_ context.Context) ([]models.Session, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	sessions, err := f.sessions, f.err
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return sessions, err
}

func (f *fakeSessionSource) set(sessions []models.Session, err error) {
	f.mu.Lock()
	f.sessions, f.err = sessions, err
	f.mu.Unlock()
}

func (f *fakeSessionSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeHistorySource is a scriptable HistorySource.
type fakeHistorySource struct {
	mu    sync.Mutex
	items []models.HistoryItem
	err   error
	calls int
}

func (f *fakeHistorySource) FetchHistory(_ context.Context, _ int) ([]models.HistoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.items, f.err
}

func (f *fakeHistorySource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// captureNotifier records dispatched requests.
type captureNotifier struct {
	mu   sync.Mutex
	reqs []notify.Request
}

func (c *captureNotifier) Send(_ context.Context, req notify.Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reqs = append(c.reqs, req)
	return nil
}

func (c *captureNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reqs)
}

func newTestScheduler(sessions SessionSource, history HistorySource, opts Options) (*Scheduler, *SnapshotStore, *captureNotifier, *notify.Dispatcher) {
	store := NewSnapshotStore()
	capture := &captureNotifier{}
	dispatcher := notify.NewDispatcher(capture)
	sched := NewScheduler(sessions, history, store, dispatcher, opts)
	return sched, store, capture, dispatcher
}

func defaultOptions() Options {
	return Options{
		Interval:       30 * time.Second,
		HistoryEnabled: true,
		HistoryCount:   5,
		Preferences:    allowAll(),
	}
}

func TestRefreshPublishesSnapshot(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessionSource{sessions: []models.Session{playingSession("A", "playing")}}
	history := &fakeHistorySource{items: []models.HistoryItem{{Title: "Heat (1995)"}}}
	sched, store, _, _ := newTestScheduler(sessions, history, defaultOptions())

	snap := sched.Refresh(context.Background(), true)

	if len(snap.Sessions) != 1 || snap.SessionsError != "" {
		t.Errorf("sessions: %+v err %q", snap.Sessions, snap.SessionsError)
	}
	if len(snap.History) != 1 || snap.HistoryError != "" {
		t.Errorf("history: %+v err %q", snap.History, snap.HistoryError)
	}
	if snap.UpdatedAt.IsZero() {
		t.Error("updated at must be set")
	}
	if snap.InProgress {
		t.Error("published snapshot must not be marked in progress")
	}
	if store.Latest().InProgress {
		t.Error("stored snapshot must clear in-progress after refresh")
	}
}

func TestRefreshIndependentErrorChannels(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessionSource{err: errors.New("plex down")}
	history := &fakeHistorySource{items: []models.HistoryItem{{Title: "Dune (2021)"}}}
	sched, _, _, _ := newTestScheduler(sessions, history, defaultOptions())

	snap := sched.Refresh(context.Background(), true)

	if snap.SessionsError == "" {
		t.Error("session error must surface")
	}
	if snap.HistoryError != "" || len(snap.History) != 1 {
		t.Errorf("history must be unaffected: %+v err %q", snap.History, snap.HistoryError)
	}
}

func TestRefreshHistoryDisabledSkipsAndClears(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.HistoryEnabled = false
	sessions := &fakeSessionSource{sessions: []models.Session{}}
	history := &fakeHistorySource{err: errors.New("should never be called")}
	sched, _, _, _ := newTestScheduler(sessions, history, opts)

	snap := sched.Refresh(context.Background(), true)

	if history.callCount() != 0 {
		t.Error("history fetch must be skipped when disabled")
	}
	if len(snap.History) != 0 || snap.HistoryError != "" {
		t.Errorf("history must be cleared: %+v err %q", snap.History, snap.HistoryError)
	}
}

func TestRefreshFailedSessionFetchDoesNotAdvanceBaseline(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessionSource{sessions: []models.Session{playingSession("A", "playing")}}
	history := &fakeHistorySource{}
	sched, _, capture, dispatcher := newTestScheduler(sessions, history, defaultOptions())

	// First success: A is new, one notification.
	sched.Refresh(context.Background(), true)
	dispatcher.Wait()
	if capture.count() != 1 {
		t.Fatalf("notifications = %d, want 1", capture.count())
	}

	// Fetch failure: pipeline skipped, baseline untouched.
	sessions.set(nil, errors.New("plex down"))
	sched.Refresh(context.Background(), true)
	dispatcher.Wait()
	if capture.count() != 1 {
		t.Fatalf("notifications after error = %d, want unchanged", capture.count())
	}

	// Recovery with the same session: not new relative to the last good
	// baseline, so still no extra notification.
	sessions.set([]models.Session{playingSession("A", "playing")}, nil)
	sched.Refresh(context.Background(), true)
	dispatcher.Wait()
	if capture.count() != 1 {
		t.Errorf("notifications after recovery = %d, want unchanged", capture.count())
	}
}

func TestRefreshCoalescesConcurrentCalls(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	sessions := &fakeSessionSource{sessions: []models.Session{playingSession("A", "playing")}, block: block}
	history := &fakeHistorySource{}
	sched, _, _, _ := newTestScheduler(sessions, history, defaultOptions())

	var wg sync.WaitGroup
	results := make([]models.Snapshot, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = sched.Refresh(context.Background(), i == 0)
		}(i)
	}

	// Give the three calls time to pile up on the single-flight slot.
	time.Sleep(50 * time.Millisecond)
	close(block)
	wg.Wait()

	if got := sessions.callCount(); got != 1 {
		t.Errorf("session fetches = %d, want 1 coalesced cycle", got)
	}
	for i, snap := range results {
		if len(snap.Sessions) != 1 {
			t.Errorf("result %d missing sessions: %+v", i, snap)
		}
	}
}

func TestRefreshPublishesExactlyOnce(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessionSource{sessions: []models.Session{}}
	history := &fakeHistorySource{}
	sched, store, _, _ := newTestScheduler(sessions, history, defaultOptions())

	var publishes int
	var mu sync.Mutex
	store.Subscribe(func(models.Snapshot) {
		mu.Lock()
		publishes++
		mu.Unlock()
	})

	sched.Refresh(context.Background(), true)

	mu.Lock()
	defer mu.Unlock()
	if publishes != 1 {
		t.Errorf("publishes = %d, want exactly 1 per refresh", publishes)
	}
}

func TestServeStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessionSource{sessions: []models.Session{}}
	history := &fakeHistorySource{}
	opts := defaultOptions()
	opts.Interval = 10 * time.Millisecond
	sched, _, _, _ := newTestScheduler(sessions, history, opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Serve(ctx) }()

	// Let at least the startup refresh and one tick run.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not stop on cancel")
	}

	if sessions.callCount() < 2 {
		t.Errorf("session fetches = %d, want startup refresh plus ticks", sessions.callCount())
	}
}
