// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes Prometheus instrumentation for the
// consumption pipeline. All collectors are registered on the default
// registry and served from the /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsProcessed counts events persisted successfully.
	EventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reader_events_processed_total",
		Help: "Total number of events validated and persisted",
	})

	// EventsRejected counts deliveries dropped before any side effect.
	EventsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reader_events_rejected_total",
		Help: "Total number of deliveries dropped without processing",
	}, []string{"reason"}) // "undecodable", "invalid"

	// EventsDuplicate counts redeliveries suppressed by the ledger.
	EventsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reader_events_duplicate_total",
		Help: "Total number of duplicate deliveries suppressed by the idempotency ledger",
	})

	// EventsFailed counts persistence failures handed back to the
	// transport for retry or dead-lettering.
	EventsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reader_events_failed_total",
		Help: "Total number of events whose persistence failed and rolled back",
	})

	// EventsRequeued counts dead-letter events republished to the
	// primary topic.
	EventsRequeued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reader_requeue_republished_total",
		Help: "Total number of dead-letter events republished for reprocessing",
	})

	// PersistDuration observes the ledger-insert-plus-save unit of work.
	PersistDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reader_persist_duration_seconds",
		Help:    "Duration of the persistence unit of work in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// LedgerRowsSwept counts idempotency rows removed by retention.
	LedgerRowsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reader_ledger_rows_swept_total",
		Help: "Total number of idempotency rows deleted by the retention sweep",
	})
)

// RecordRejected increments the rejection counter for a reason.
func RecordRejected(reason string) {
	EventsRejected.WithLabelValues(reason).Inc()
}

// ObservePersist records the duration of one persistence attempt.
func ObservePersist(start time.Time) {
	PersistDuration.Observe(time.Since(start).Seconds())
}
