// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
)

// TestInit_LevelFiltering checks messages below the configured level
// are suppressed.
func TestInit_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer Init(Config{Level: "info", Format: "json"})

	Info().Msg("below threshold")
	Warn().Msg("at threshold")

	out := buf.String()
	if strings.Contains(out, "below threshold") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(out, "at threshold") {
		t.Error("warn message missing at warn level")
	}
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("output is not structured JSON: %s", out)
	}
}

// TestInit_UnknownLevelFallsBack checks a bad level degrades to info
// instead of failing.
func TestInit_UnknownLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "shouty", Format: "json", Output: &buf})
	defer Init(Config{Level: "info", Format: "json"})

	Info().Msg("still visible")
	if !strings.Contains(buf.String(), "still visible") {
		t.Error("info message missing after unknown level fallback")
	}
}

// TestWatermillAdapter checks transport log lines carry their fields
// through the structured logger.
func TestWatermillAdapter(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(Config{Level: "info", Format: "json"})

	adapter := NewWatermillAdapter()
	adapter.Info("message published", watermill.LogFields{"topic": "read"})

	out := buf.String()
	if !strings.Contains(out, "message published") {
		t.Errorf("adapter message missing: %s", out)
	}
	if !strings.Contains(out, `"topic":"read"`) {
		t.Errorf("adapter fields missing: %s", out)
	}

	scoped := adapter.With(watermill.LogFields{"handler": "read-consumer"})
	buf.Reset()
	scoped.Debug("handler started", nil)
	if !strings.Contains(buf.String(), `"handler":"read-consumer"`) {
		t.Errorf("scoped fields missing: %s", buf.String())
	}
}
