// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voltpay/reader/internal/model"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func int64Ptr(i int64) *int64 { return &i }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
func timePtr(t time.Time) *model.LocalTime {
	lt := model.NewLocalTime(t)
	return &lt
}

func validEvent() *model.ReadEvent {
	return &model.ReadEvent{
		MessageID: strPtr("msg-001"),
		ID:        strPtr("trn-001"),
		CreatedAt: timePtr(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)),
		Amount:    decPtr("199.99"),
		Status:    intPtr(int(model.TrnStatusSuccess)),
		Currency:  strPtr(string(model.CurrencyEUR)),
		CustID:    int64Ptr(42),
		Type:      strPtr(string(model.TrnTypeBWI)),
	}
}

// TestValidator_Valid covers the eligible event and every way an event
// can fail the eligibility check.
func TestValidator_Valid(t *testing.T) {
	t.Parallel()

	v := New()

	t.Run("valid event", func(t *testing.T) {
		t.Parallel()
		if !v.Valid(validEvent()) {
			t.Error("Valid() = false, want true for a complete event")
		}
	})

	t.Run("optional fields may be absent", func(t *testing.T) {
		t.Parallel()
		e := validEvent()
		e.UpdatedAt = nil
		e.Comment = nil
		e.Version = nil
		if !v.Valid(e) {
			t.Error("Valid() = false, want true without optional fields")
		}
	})

	mutations := []struct {
		name   string
		mutate func(e *model.ReadEvent)
	}{
		{"missing messageId", func(e *model.ReadEvent) { e.MessageID = nil }},
		{"missing id", func(e *model.ReadEvent) { e.ID = nil }},
		{"missing createdAt", func(e *model.ReadEvent) { e.CreatedAt = nil }},
		{"missing amount", func(e *model.ReadEvent) { e.Amount = nil }},
		{"missing status", func(e *model.ReadEvent) { e.Status = nil }},
		{"missing currency", func(e *model.ReadEvent) { e.Currency = nil }},
		{"missing custId", func(e *model.ReadEvent) { e.CustID = nil }},
		{"missing type", func(e *model.ReadEvent) { e.Type = nil }},
		{"unknown status code", func(e *model.ReadEvent) { e.Status = intPtr(-10) }},
		{"unknown type code", func(e *model.ReadEvent) { e.Type = strPtr("DADA") }},
		{"unknown currency code", func(e *model.ReadEvent) { e.Currency = strPtr("ABC") }},
		{"lowercase currency", func(e *model.ReadEvent) { e.Currency = strPtr("eur") }},
	}

	for _, tc := range mutations {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := validEvent()
			tc.mutate(e)
			if v.Valid(e) {
				t.Errorf("Valid() = true, want false for %s", tc.name)
			}
		})
	}

	t.Run("nil event", func(t *testing.T) {
		t.Parallel()
		if v.Valid(nil) {
			t.Error("Valid() = true, want false for nil event")
		}
	})
}

// TestValidator_EnumCoverage checks every published enum member is
// accepted.
func TestValidator_EnumCoverage(t *testing.T) {
	t.Parallel()

	v := New()

	for _, c := range model.Currencies() {
		e := validEvent()
		e.Currency = strPtr(string(c))
		if !v.Valid(e) {
			t.Errorf("Valid() = false for currency %s", c)
		}
	}
	for _, s := range model.TrnStatuses() {
		e := validEvent()
		e.Status = intPtr(int(s))
		if !v.Valid(e) {
			t.Errorf("Valid() = false for status %d", s)
		}
	}
	for _, typ := range model.TrnTypes() {
		e := validEvent()
		e.Type = strPtr(string(typ))
		if !v.Valid(e) {
			t.Errorf("Valid() = false for type %s", typ)
		}
	}
}
