// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

package model

import "github.com/shopspring/decimal"

// Transaction is the canonical persisted form of an accepted event,
// keyed by the business ID. Records are immutable once created.
type Transaction struct {
	ID        string          `json:"id"`
	CreatedAt LocalTime       `json:"createdAt"`
	UpdatedAt *LocalTime      `json:"updatedAt,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Status    int             `json:"status"`
	Currency  string          `json:"currency"`
	CustID    int64           `json:"custId"`
	Type      string          `json:"type"`
	Comment   *string         `json:"comment,omitempty"`
	Version   *int            `json:"version,omitempty"`
}

// Idempotency is one row of the duplicate-suppression ledger.
// MessageID is unique across all time; Date only bounds ledger growth
// by enabling the retention sweep.
type Idempotency struct {
	MessageID string    `json:"messageId"`
	Date      LocalTime `json:"date"`
}

// TransactionFromEvent maps a validated event onto its canonical
// record, field for field. The caller must have validated the event:
// required fields are dereferenced without nil checks.
func TransactionFromEvent(e *ReadEvent) *Transaction {
	return &Transaction{
		ID:        *e.ID,
		CreatedAt: *e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		Amount:    *e.Amount,
		Status:    *e.Status,
		Currency:  *e.Currency,
		CustID:    *e.CustID,
		Type:      *e.Type,
		Comment:   e.Comment,
		Version:   e.Version,
	}
}
