// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package sync

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/kevinlake/menubarr/internal/logging"
	"github.com/kevinlake/menubarr/internal/metrics"
	"github.com/kevinlake/menubarr/internal/models"
)

// Circuit breakers keep a dead or struggling backend from being hammered on
// every poll tick. Configuration, shared by both sources:
//   - Max 3 requests in half-open state
//   - 1 minute measurement window while closed
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with a minimum of 10 requests
//
// NOTE: gobreaker uses real time for its interval and timeout bookkeeping.
// Unit tests should exercise the wrapped client directly.

// newBreaker builds a circuit breaker with the shared settings.
func newBreaker[T any](name string) *gobreaker.CircuitBreaker[T] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening circuit")
			}
			return shouldTrip
		},

		// A missing configuration is a local condition, not a backend
		// failure; it must not open the circuit.
		IsSuccessful: func(err error) bool {
			return err == nil || KindOf(err) == KindNotConfigured
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}

// breakerStateValue maps breaker states to the gauge encoding.
func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// recordBreakerResult updates request metrics for a breaker execution.
func recordBreakerResult(name string, err error) {
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(name, "failure").Inc()
	}
}

// BreakerPlexClient wraps PlexClient with a circuit breaker. It satisfies
// the same fetch contract and is what the engine consumes in production.
type BreakerPlexClient struct {
	client *PlexClient
	cb     *gobreaker.CircuitBreaker[[]models.Session]
	name   string
}

// NewBreakerPlexClient wraps a Plex client in a circuit breaker.
func NewBreakerPlexClient(client *PlexClient) *BreakerPlexClient {
	const name = "plex-sessions"
	return &BreakerPlexClient{
		client: client,
		cb:     newBreaker[[]models.Session](name),
		name:   name,
	}
}

// FetchSessions delegates through the breaker.
func (b *BreakerPlexClient) FetchSessions(ctx context.Context) ([]models.Session, error) {
	sessions, err := b.cb.Execute(func() ([]models.Session, error) {
		return b.client.FetchSessions(ctx)
	})
	recordBreakerResult(b.name, err)
	return sessions, err
}

// Test bypasses the breaker so a user-triggered connection test always
// reaches the backend, even while the circuit is open.
func (b *BreakerPlexClient) Test(ctx context.Context) error {
	return b.client.Test(ctx)
}

// BreakerTautulliClient wraps TautulliClient with a circuit breaker.
type BreakerTautulliClient struct {
	client *TautulliClient
	cb     *gobreaker.CircuitBreaker[[]models.HistoryItem]
	name   string
}

// NewBreakerTautulliClient wraps a Tautulli client in a circuit breaker.
func NewBreakerTautulliClient(client *TautulliClient) *BreakerTautulliClient {
	const name = "tautulli-history"
	return &BreakerTautulliClient{
		client: client,
		cb:     newBreaker[[]models.HistoryItem](name),
		name:   name,
	}
}

// FetchHistory delegates through the breaker.
func (b *BreakerTautulliClient) FetchHistory(ctx context.Context, count int) ([]models.HistoryItem, error) {
	items, err := b.cb.Execute(func() ([]models.HistoryItem, error) {
		return b.client.FetchHistory(ctx, count)
	})
	recordBreakerResult(b.name, err)
	return items, err
}

// Test bypasses the breaker, matching BreakerPlexClient.Test.
func (b *BreakerTautulliClient) Test(ctx context.Context) error {
	return b.client.Test(ctx)
}
