// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

package consumer

import (
	"context"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/voltpay/reader/internal/logging"
	"github.com/voltpay/reader/internal/metrics"
	"github.com/voltpay/reader/internal/stream"
)

// Publisher republished events go through. Satisfied by
// *stream.Publisher.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg *message.Message) error
}

// DeadLetterConsumer drains the dead-letter topic back onto the
// primary input once an operator has fixed the root cause. It is
// disabled by default: while it runs, the primary consumer must be
// off, or a still-failing event cycles between the two paths until
// resources run out. Configuration enforces that exclusion at
// startup.
type DeadLetterConsumer struct {
	publisher Publisher
	readTopic string
}

// NewDeadLetterConsumer wires the requeue handler.
func NewDeadLetterConsumer(publisher Publisher, readTopic string) *DeadLetterConsumer {
	return &DeadLetterConsumer{publisher: publisher, readTopic: readTopic}
}

// HandleMessage republishes one dead-lettered event to the read topic,
// keyed by its customer identifier. A publish failure is returned, not
// swallowed: the surrounding router retries once and then drops the
// delivery rather than dead-lettering it a second time.
func (c *DeadLetterConsumer) HandleMessage(msg *message.Message) error {
	event, err := stream.DecodeEvent(msg.Payload)
	if err != nil {
		logging.Error().Err(err).Str("message_uuid", msg.UUID).Msg("undecodable dead-letter event, dropping")
		return nil
	}

	out := message.NewMessage(watermill.NewUUID(), msg.Payload)
	if event.CustID != nil {
		stream.SetPartitionKey(out, strconv.FormatInt(*event.CustID, 10))
	}

	messageID := ""
	if event.MessageID != nil {
		messageID = *event.MessageID
	}

	if err := c.publisher.Publish(msg.Context(), c.readTopic, out); err != nil {
		logging.Error().Err(err).Str("message_id", messageID).Msg("failed to produce message for reprocessing")
		return err
	}

	logging.Info().Str("message_id", messageID).Msg("successfully republished message")
	metrics.EventsRequeued.Inc()
	return nil
}
