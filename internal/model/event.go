// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

// Package model holds the wire event, the persisted records and the
// closed enumerations shared across the reader pipeline.
package model

import "github.com/shopspring/decimal"

// ReadEvent is the inbound, untrusted transaction event as delivered
// from the read topic. Every field is a pointer so absence on the wire
// is distinguishable from a zero value; the validator decides
// eligibility before any field is dereferenced.
//
// MessageID is the delivery-level identifier used for duplicate
// suppression. It is distinct from the business ID and is absent on
// warmup probes, which are disregarded without error.
type ReadEvent struct {
	MessageID *string          `json:"messageId,omitempty"`
	ID        *string          `json:"id,omitempty"`
	CreatedAt *LocalTime       `json:"createdAt,omitempty"`
	UpdatedAt *LocalTime       `json:"updatedAt,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Status    *int             `json:"status,omitempty"`
	Currency  *string          `json:"currency,omitempty"`
	CustID    *int64           `json:"custId,omitempty"`
	Type      *string          `json:"type,omitempty"`
	Comment   *string          `json:"comment,omitempty"`
	Version   *int             `json:"version,omitempty"`
}
