// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

// TestLocalTime_MarshalJSON checks the canonical wire layout: no
// timezone, no fractional seconds.
func TestLocalTime_MarshalJSON(t *testing.T) {
	t.Parallel()

	lt := NewLocalTime(time.Date(2026, 1, 5, 23, 59, 59, 123456789, time.UTC))

	data, err := json.Marshal(lt)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got, want := string(data), `"2026-01-05T23:59:59"`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}

// TestLocalTime_UnmarshalJSON covers the canonical layout, tolerated
// fractional seconds and rejected forms.
func TestLocalTime_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "canonical layout",
			input: `"2026-03-14T09:30:00"`,
			want:  time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		},
		{
			name:  "fractional seconds tolerated",
			input: `"2026-03-14T09:30:00.123456"`,
			want:  time.Date(2026, 3, 14, 9, 30, 0, 123456000, time.UTC),
		},
		{
			name:    "timezone suffix rejected",
			input:   `"2026-03-14T09:30:00Z"`,
			wantErr: true,
		},
		{
			name:    "date only rejected",
			input:   `"2026-03-14"`,
			wantErr: true,
		},
		{
			name:    "numeric timestamp rejected",
			input:   `1773480600`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var lt LocalTime
			err := json.Unmarshal([]byte(tc.input), &lt)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal(%s) error = nil, want error", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tc.input, err)
			}
			if !lt.Time.Equal(tc.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tc.input, lt.Time, tc.want)
			}
		})
	}
}

// TestLocalTime_RoundTrip checks marshal then unmarshal preserves the
// second-precision value.
func TestLocalTime_RoundTrip(t *testing.T) {
	t.Parallel()

	orig := NewLocalTime(time.Date(2026, 7, 1, 12, 0, 30, 0, time.UTC))

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var back LocalTime
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !back.Time.Equal(orig.Time) {
		t.Errorf("round trip = %v, want %v", back.Time, orig.Time)
	}
}

// TestLocalTime_DateOnly checks the time component is zeroed.
func TestLocalTime_DateOnly(t *testing.T) {
	t.Parallel()

	lt := NewLocalTime(time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC))
	got := lt.DateOnly()
	want := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOnly() = %v, want %v", got, want)
	}
}
