// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

/*
scheduler.go - Poll Scheduler

Owns the poll loop and the only shared mutable state in the engine: the
reconciliation baseline and the notification throttle map. Both are touched
exclusively by the poll cycle that holds the single-flight slot, so no
separate lock is needed around them.

Refresh semantics:
  - Timer ticks and forced (user-triggered) refreshes enter through the
    same Refresh call.
  - While a refresh is in flight, further calls coalesce: they wait for the
    in-flight result instead of starting a second cycle. Two cycles never
    interleave.
  - Session and history fetches run concurrently within a cycle; the
    reconcile/notify pipeline depends only on the session result.
  - Exactly one snapshot is published per refresh, after both fetches
    settle and the reconciler and policy have run.
  - A failed session fetch skips reconciliation entirely, so the baseline
    only advances on success and the next good poll classifies everything
    still playing as new relative to the last good baseline.
*/

//nolint:staticcheck // File documentation, not package doc
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/kevinlake/menubarr/internal/logging"
	"github.com/kevinlake/menubarr/internal/metrics"
	"github.com/kevinlake/menubarr/internal/models"
	"github.com/kevinlake/menubarr/internal/notify"
	sourcesync "github.com/kevinlake/menubarr/internal/sync"
)

// SessionSource fetches the currently active playback sessions.
type SessionSource interface {
	FetchSessions(ctx context.Context) ([]models.Session, error)
}

// HistorySource fetches recent watch history.
type HistorySource interface {
	FetchHistory(ctx context.Context, count int) ([]models.HistoryItem, error)
}

// Options configures a Scheduler.
type Options struct {
	Interval       time.Duration
	HistoryEnabled bool
	HistoryCount   int
	Preferences    Preferences
}

// Scheduler drives the poll loop. Create with NewScheduler; run via Serve
// (it implements suture.Service) or drive manually with Refresh in tests.
type Scheduler struct {
	sessions   SessionSource
	history    HistorySource
	store      *SnapshotStore
	dispatcher *notify.Dispatcher
	opts       Options

	// now is the clock, injectable for tests.
	now func() time.Time

	// inflight coalesces concurrent refreshes. Guarded by inflightMu.
	inflightMu sync.Mutex
	inflight   *inflightRefresh

	// Reconciliation baseline and throttle map. Only the poll cycle that
	// owns the single-flight slot reads or writes these.
	state    State
	throttle ThrottleState
}

// inflightRefresh is the rendezvous for coalesced callers.
type inflightRefresh struct {
	done chan struct{}
	snap models.Snapshot
}

// NewScheduler wires a scheduler over the given sources.
func NewScheduler(sessions SessionSource, history HistorySource, store *SnapshotStore, dispatcher *notify.Dispatcher, opts Options) *Scheduler {
	if opts.HistoryCount <= 0 {
		opts.HistoryCount = 5
	}
	return &Scheduler{
		sessions:   sessions,
		history:    history,
		store:      store,
		dispatcher: dispatcher,
		opts:       opts,
		now:        time.Now,
		state:      NewState(),
		throttle:   ThrottleState{},
	}
}

// Serve runs the poll loop until the context is canceled. Implements
// suture.Service; the supervisor restarts it if it ever returns early.
func (s *Scheduler) Serve(ctx context.Context) error {
	logging.Info().
		Dur("interval", s.opts.Interval).
		Bool("history", s.opts.HistoryEnabled).
		Msg("poll scheduler started")

	// Populate the snapshot immediately rather than waiting a full tick.
	s.Refresh(ctx, false)

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("poll scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			s.Refresh(ctx, false)
		}
	}
}

// String identifies the scheduler in supervision logs.
func (s *Scheduler) String() string {
	return "poll-scheduler"
}

// Refresh runs one poll cycle and returns the published snapshot. If a
// cycle is already in flight the call coalesces: it waits for that cycle's
// snapshot instead of starting another. force only distinguishes the
// trigger for metrics; a forced refresh is additive, never preemptive.
func (s *Scheduler) Refresh(ctx context.Context, force bool) models.Snapshot {
	trigger := "timer"
	if force {
		trigger = "manual"
	}

	s.inflightMu.Lock()
	if call := s.inflight; call != nil {
		s.inflightMu.Unlock()
		metrics.PollsCoalesced.Inc()
		select {
		case <-call.done:
			return call.snap
		case <-ctx.Done():
			return s.store.Latest()
		}
	}
	call := &inflightRefresh{done: make(chan struct{})}
	s.inflight = call
	s.inflightMu.Unlock()

	snap := s.poll(ctx, trigger)

	call.snap = snap
	s.inflightMu.Lock()
	s.inflight = nil
	s.inflightMu.Unlock()
	close(call.done)

	return snap
}

// poll executes one complete cycle: fetch both sources, reconcile, decide
// notifications, publish. Runs only while holding the single-flight slot.
func (s *Scheduler) poll(ctx context.Context, trigger string) models.Snapshot {
	started := s.now()
	metrics.PollsTotal.WithLabelValues(trigger).Inc()
	s.store.SetInProgress(true)
	defer s.store.SetInProgress(false)

	var (
		wg         sync.WaitGroup
		sessions   []models.Session
		sessionErr error
		items      []models.HistoryItem
		historyErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		fetchStart := time.Now()
		sessions, sessionErr = s.sessions.FetchSessions(ctx)
		metrics.RecordSourceFetch("plex", sessionErr, time.Since(fetchStart))
	}()

	if s.opts.HistoryEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fetchStart := time.Now()
			items, historyErr = s.history.FetchHistory(ctx, s.opts.HistoryCount)
			metrics.RecordSourceFetch("tautulli", historyErr, time.Since(fetchStart))
		}()
	}
	wg.Wait()

	snap := models.Snapshot{UpdatedAt: s.now()}

	if sessionErr != nil {
		recordSourceError("plex", sessionErr)
		snap.SessionsError = sourcesync.MessageOf(sessionErr)
	} else {
		snap.Sessions = sessions
		metrics.ActiveSessions.Set(float64(len(sessions)))
		s.reconcileAndNotify(sessions)
	}

	// A disabled history preference clears prior items and error rather
	// than carrying them stale.
	if s.opts.HistoryEnabled {
		if historyErr != nil {
			recordSourceError("tautulli", historyErr)
			snap.HistoryError = sourcesync.MessageOf(historyErr)
		} else {
			snap.History = items
		}
	}

	s.store.Publish(snap)
	metrics.PollDuration.Observe(time.Since(started).Seconds())

	logging.Debug().
		Str("trigger", trigger).
		Int("sessions", len(snap.Sessions)).
		Int("history", len(snap.History)).
		Bool("session_error", snap.SessionsError != "").
		Bool("history_error", snap.HistoryError != "").
		Msg("poll cycle complete")

	return snap
}

// reconcileAndNotify advances the baseline and dispatches notifications for
// a successful session fetch.
func (s *Scheduler) reconcileAndNotify(sessions []models.Session) {
	events, next := Reconcile(s.state, sessions)
	s.state = next

	for _, event := range events {
		metrics.SessionEventsTotal.WithLabelValues(string(event.Type)).Inc()
	}

	if len(events) == 0 {
		return
	}

	requests := Decide(events, s.opts.Preferences, s.throttle, s.now())
	for _, req := range requests {
		s.dispatcher.Dispatch(req)
	}
}

// recordSourceError counts a classified source failure.
func recordSourceError(source string, err error) {
	kind := string(sourcesync.KindOf(err))
	if kind == "" {
		kind = "other"
	}
	metrics.SourceErrorsTotal.WithLabelValues(source, kind).Inc()
	logging.Warn().Str("source", source).Str("kind", kind).Err(err).Msg("source fetch failed")
}
