// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voltpay/reader/internal/database"
	"github.com/voltpay/reader/internal/model"
)

const (
	insertTransactionSQL = `
		INSERT INTO read.transaction
			(id, created_at, updated_at, amount, status, currency, cust_id, type, comment, version)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	selectByCustIDSQL = `
		SELECT id, created_at, updated_at, amount::text, status, currency, cust_id, type, comment, version
		FROM read.transaction
		WHERE cust_id = $1
		ORDER BY created_at`
)

// TransactionRepository persists canonical transaction records.
type TransactionRepository struct {
	db *database.DB
}

// NewTransactionRepository returns a store backed by db.
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Save inserts a transaction record on the caller's Querier so it
// shares the coordinator's unit of work. Records are never updated.
func (r *TransactionRepository) Save(ctx context.Context, q database.Querier, trn *model.Transaction) error {
	var updatedAt *time.Time
	if trn.UpdatedAt != nil {
		updatedAt = &trn.UpdatedAt.Time
	}

	_, err := q.Exec(ctx, insertTransactionSQL,
		trn.ID,
		trn.CreatedAt.Time,
		updatedAt,
		trn.Amount.String(),
		trn.Status,
		trn.Currency,
		trn.CustID,
		trn.Type,
		trn.Comment,
		trn.Version,
	)
	if err != nil {
		return fmt.Errorf("insert transaction %s: %w", trn.ID, err)
	}
	return nil
}

// FindByCustID returns all transaction records for one customer in
// creation order. The read surface exposes this directly; there is no
// pagination in scope.
func (r *TransactionRepository) FindByCustID(ctx context.Context, custID int64) ([]model.Transaction, error) {
	rows, err := r.db.Pool().Query(ctx, selectByCustIDSQL, custID)
	if err != nil {
		return nil, fmt.Errorf("query transactions for customer %d: %w", custID, err)
	}
	defer rows.Close()

	var result []model.Transaction
	for rows.Next() {
		var (
			trn       model.Transaction
			createdAt time.Time
			updatedAt *time.Time
			amount    string
		)
		if err := rows.Scan(
			&trn.ID,
			&createdAt,
			&updatedAt,
			&amount,
			&trn.Status,
			&trn.Currency,
			&trn.CustID,
			&trn.Type,
			&trn.Comment,
			&trn.Version,
		); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}

		trn.CreatedAt = model.NewLocalTime(createdAt)
		if updatedAt != nil {
			t := model.NewLocalTime(*updatedAt)
			trn.UpdatedAt = &t
		}
		trn.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}

		result = append(result, trn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return result, nil
}
