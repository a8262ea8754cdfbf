// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

// Package repository implements the durable stores of the reader: the
// idempotency ledger and the canonical transaction records.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/voltpay/reader/internal/database"
)

// ErrDuplicateMessage marks a ledger insert rejected by the unique
// constraint on message_id. It is the expected duplicate-suppression
// signal: the delivery was already processed and must be acked, not
// retried.
var ErrDuplicateMessage = errors.New("message already processed")

const (
	insertIdempotencySQL = `
		INSERT INTO read.idempotency (message_id, date)
		VALUES ($1, $2)`

	deleteIdempotencySQL = `
		DELETE FROM read.idempotency
		WHERE date <= $1`
)

// IdempotencyRepository persists the duplicate-suppression ledger.
type IdempotencyRepository struct {
	db *database.DB
}

// NewIdempotencyRepository returns a ledger backed by db.
func NewIdempotencyRepository(db *database.DB) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

// InsertNew records a first-seen message identifier. It runs on the
// caller's Querier so it shares the coordinator's unit of work. A
// unique-constraint violation is returned as ErrDuplicateMessage; any
// other failure is a transient persistence error.
func (r *IdempotencyRepository) InsertNew(ctx context.Context, q database.Querier, messageID string, date time.Time) error {
	if _, err := q.Exec(ctx, insertIdempotencySQL, messageID, date); err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateMessage, messageID)
		}
		return fmt.Errorf("insert idempotency %s: %w", messageID, err)
	}
	return nil
}

// DeleteOlderThan removes ledger rows dated at or before the cutoff.
// Returns the number of rows deleted. Used only by the retention
// sweep; the cutoff must exceed the broker's redelivery window or
// duplicate suppression stops working for late redeliveries.
func (r *IdempotencyRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Pool().Exec(ctx, deleteIdempotencySQL, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete idempotency rows: %w", err)
	}
	return tag.RowsAffected(), nil
}
