// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

// Package stream wires the reader to NATS JetStream through Watermill:
// serialization, publisher and subscriber construction, stream
// provisioning and the consumer routers with their retry and
// dead-letter middleware.
package stream

import (
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/voltpay/reader/internal/model"
)

// MetadataPartitionKey carries the customer identifier on every
// message so republishing preserves per-customer ordering. The poison
// queue middleware copies metadata onto the dead-letter entry, so the
// key survives retry exhaustion.
const MetadataPartitionKey = "partition_key"

// EncodeEvent marshals an event to its JSON wire form.
func EncodeEvent(event *model.ReadEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// DecodeEvent unmarshals the JSON wire form. A payload that is not
// valid JSON is undecodable; callers drop it rather than retry, since
// reprocessing cannot fix a malformed payload.
func DecodeEvent(data []byte) (*model.ReadEvent, error) {
	var event model.ReadEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &event, nil
}

// NewEventMessage builds a publishable message for an event. The
// partition key is set from the event's customer identifier when
// present.
func NewEventMessage(event *model.ReadEvent) (*message.Message, error) {
	payload, err := EncodeEvent(event)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if event.CustID != nil {
		SetPartitionKey(msg, strconv.FormatInt(*event.CustID, 10))
	}
	return msg, nil
}

// SetPartitionKey stamps the customer key onto a message.
func SetPartitionKey(msg *message.Message, key string) {
	msg.Metadata.Set(MetadataPartitionKey, key)
}

// PartitionKey reads the customer key off a message, empty when unset.
func PartitionKey(msg *message.Message) string {
	return msg.Metadata.Get(MetadataPartitionKey)
}
