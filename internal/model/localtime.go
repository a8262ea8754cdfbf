// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// LocalTimeLayout is the canonical wire encoding for timestamps.
// The writer side emits local date-times with no timezone component,
// so both producer and consumer are held to this exact layout.
const LocalTimeLayout = "2006-01-02T15:04:05"

// localTimeLayoutFrac accepts optional fractional seconds on input.
const localTimeLayoutFrac = "2006-01-02T15:04:05.999999999"

// LocalTime is a timezone-less timestamp as carried on the wire.
// It marshals to LocalTimeLayout and accepts optional fractional
// seconds when unmarshaling.
type LocalTime struct {
	time.Time
}

// NewLocalTime builds a LocalTime from a time.Time, dropping the
// sub-second component so round trips through the wire encoding
// compare equal.
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t.Truncate(time.Second)}
}

// MarshalJSON encodes the timestamp in the canonical layout.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(LocalTimeLayout))
}

// UnmarshalJSON decodes a timestamp in the canonical layout,
// tolerating fractional seconds.
func (t *LocalTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("local time must be a string: %w", err)
	}

	parsed, err := time.Parse(LocalTimeLayout, s)
	if err != nil {
		parsed, err = time.Parse(localTimeLayoutFrac, s)
		if err != nil {
			return fmt.Errorf("parse local time %q: %w", s, err)
		}
	}

	t.Time = parsed
	return nil
}

// DateOnly returns the calendar date of the timestamp with the time
// component zeroed. The idempotency ledger keys its retention on this.
func (t LocalTime) DateOnly() time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
