// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

package retention

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingLedger struct {
	mu      sync.Mutex
	err     error
	cutoffs []time.Time
}

func (l *recordingLedger) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cutoffs = append(l.cutoffs, cutoff)
	if l.err != nil {
		return 0, l.err
	}
	return 3, nil
}

func (l *recordingLedger) calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cutoffs)
}

// TestSweeper_SweepsOnTick checks the sweep fires periodically with a
// cutoff one retention window in the past.
func TestSweeper_SweepsOnTick(t *testing.T) {
	t.Parallel()

	ledger := &recordingLedger{}
	retention := 24 * time.Hour
	s := NewSweeper(ledger, 10*time.Millisecond, retention)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.After(5 * time.Second)
	for ledger.calls() < 2 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for sweeps")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}

	ledger.mu.Lock()
	cutoff := ledger.cutoffs[0]
	ledger.mu.Unlock()

	want := time.Now().Add(-retention)
	if diff := want.Sub(cutoff); diff < 0 || diff > 10*time.Second {
		t.Errorf("cutoff = %v, want about %v", cutoff, want)
	}
}

// TestSweeper_FailuresDoNotStopTheLoop checks a failing sweep is
// retried on the next tick.
func TestSweeper_FailuresDoNotStopTheLoop(t *testing.T) {
	t.Parallel()

	ledger := &recordingLedger{err: errors.New("deadlock detected")}
	s := NewSweeper(ledger, 10*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.After(5 * time.Second)
	for ledger.calls() < 3 {
		select {
		case <-deadline:
			t.Fatal("sweep loop stopped after a failure")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
