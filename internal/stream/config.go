// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

package stream

import "time"

// Config holds the broker-facing settings shared by the publisher,
// the subscribers and stream provisioning.
type Config struct {
	// URL is the NATS server connection URL.
	URL string

	// StreamName is the JetStream stream holding both topics.
	StreamName string

	// ReadTopic is the primary input subject.
	ReadTopic string

	// DeadLetterTopic receives events after retry exhaustion.
	DeadLetterTopic string

	// QueueGroup load-balances deliveries across instances.
	QueueGroup string

	// DurableName is the prefix for durable consumer names.
	DurableName string

	// SubscriberCount is the concurrency degree: the number of workers
	// pulling deliveries in parallel.
	SubscriberCount int

	// AckWait is how long the broker waits for an ack before
	// redelivering.
	AckWait time.Duration

	// MaxDeliver bounds broker-side redeliveries of an unacked message.
	MaxDeliver int

	// MaxAge bounds stream retention. The ledger retention window must
	// exceed it, or late redeliveries escape duplicate suppression.
	MaxAge time.Duration

	// CloseTimeout is how long to wait for in-flight handlers on close.
	CloseTimeout time.Duration

	// MaxReconnects and ReconnectWait govern connection recovery.
	MaxReconnects int
	ReconnectWait time.Duration
}
