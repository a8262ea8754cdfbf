// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

// Package retention bounds idempotency ledger growth with a periodic
// bulk delete of rows older than the retention window.
package retention

import (
	"context"
	"time"

	"github.com/voltpay/reader/internal/logging"
	"github.com/voltpay/reader/internal/metrics"
)

// Ledger is the sweep's view of the idempotency repository.
type Ledger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically deletes ledger rows older than the retention
// window. The window must exceed the stream's redelivery and retention
// horizon: a row deleted while its message can still be redelivered
// silently disables duplicate suppression for that message.
type Sweeper struct {
	ledger    Ledger
	interval  time.Duration
	retention time.Duration
}

// NewSweeper builds a sweeper that runs every interval and keeps rows
// younger than retention.
func NewSweeper(ledger Ledger, interval, retention time.Duration) *Sweeper {
	return &Sweeper{ledger: ledger, interval: interval, retention: retention}
}

// Run blocks until the context is canceled, sweeping on every tick.
// Sweep failures are logged and retried on the next tick; they never
// stop the service.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.retention)

	deleted, err := s.ledger.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		logging.Error().Err(err).Msg("retention sweep failed")
		return
	}

	if deleted > 0 {
		logging.Info().
			Int64("rows", deleted).
			Time("cutoff", cutoff).
			Msg("retention sweep removed old idempotency rows")
		metrics.LedgerRowsSwept.Add(float64(deleted))
	}
}
