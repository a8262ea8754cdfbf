// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

// Package validation implements the event eligibility check that gates
// the consumption pipeline. Validation is a pure predicate: no side
// effects, no I/O.
package validation

import "github.com/voltpay/reader/internal/model"

// Validator checks decoded events against the closed enumerations.
// The membership sets are built once at construction and never
// mutated, so a single Validator is safe for concurrent use across
// consumer workers.
type Validator struct {
	currencies map[string]struct{}
	statuses   map[int]struct{}
	types      map[string]struct{}
}

// New builds a Validator from the process-wide enumeration tables.
func New() *Validator {
	v := &Validator{
		currencies: make(map[string]struct{}),
		statuses:   make(map[int]struct{}),
		types:      make(map[string]struct{}),
	}
	for _, c := range model.Currencies() {
		v.currencies[string(c)] = struct{}{}
	}
	for _, s := range model.TrnStatuses() {
		v.statuses[int(s)] = struct{}{}
	}
	for _, t := range model.TrnTypes() {
		v.types[string(t)] = struct{}{}
	}
	return v
}

// Valid reports whether the event is eligible for processing.
//
// A nil event or one without a messageId is a warmup probe, not an
// error. Any missing business field or an enumeration mismatch makes
// the event ineligible; such events are dropped by the caller without
// touching the ledger or the store.
func (v *Validator) Valid(e *model.ReadEvent) bool {
	if e == nil || e.MessageID == nil {
		return false
	}

	if e.ID == nil ||
		e.Amount == nil ||
		e.CreatedAt == nil ||
		e.Currency == nil ||
		e.CustID == nil ||
		e.Status == nil ||
		e.Type == nil {
		return false
	}

	if _, ok := v.currencies[*e.Currency]; !ok {
		return false
	}
	if _, ok := v.statuses[*e.Status]; !ok {
		return false
	}
	if _, ok := v.types[*e.Type]; !ok {
		return false
	}

	return true
}
