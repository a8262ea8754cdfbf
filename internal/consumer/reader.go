// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

// Package consumer holds the two message handlers of the reader: the
// primary consumption coordinator and the dead-letter requeue handler.
package consumer

import (
	"context"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/voltpay/reader/internal/database"
	"github.com/voltpay/reader/internal/logging"
	"github.com/voltpay/reader/internal/metrics"
	"github.com/voltpay/reader/internal/model"
	"github.com/voltpay/reader/internal/repository"
	"github.com/voltpay/reader/internal/stream"
	"github.com/voltpay/reader/internal/validation"
)

// UnitOfWork runs a function inside one atomic transaction. The ledger
// insert and the record save must share a single transactional
// context; splitting them across stores would break the atomicity
// guarantee and require an outbox instead.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(q database.Querier) error) error
}

// Ledger is the duplicate-suppression gate.
type Ledger interface {
	InsertNew(ctx context.Context, q database.Querier, messageID string, date time.Time) error
}

// TransactionStore persists canonical records.
type TransactionStore interface {
	Save(ctx context.Context, q database.Querier, trn *model.Transaction) error
}

// ReadConsumer coordinates the consumption of one delivered event:
// validate, then atomically ledger-insert and save, then ack or nack.
//
// Returning nil acks the delivery and advances the offset; returning
// an error hands the failure to the transport, whose retry middleware
// owns the dead-letter decision. The handler itself never publishes to
// the dead-letter topic: doing so alongside the transport would race
// into a double publish.
type ReadConsumer struct {
	validator    *validation.Validator
	uow          UnitOfWork
	ledger       Ledger
	transactions TransactionStore
}

// NewReadConsumer wires the coordinator.
func NewReadConsumer(validator *validation.Validator, uow UnitOfWork, ledger Ledger, transactions TransactionStore) *ReadConsumer {
	return &ReadConsumer{
		validator:    validator,
		uow:          uow,
		ledger:       ledger,
		transactions: transactions,
	}
}

// HandleMessage processes one delivery from the read topic.
//
// Ineligible deliveries (undecodable payloads, warmup probes, events
// failing validation) are logged and acked with no side effect:
// redelivering them cannot make them valid. A redelivery of an
// already-processed messageId rolls back against the ledger's unique
// constraint and is acked as already done, without consuming the
// retry or dead-letter budget. Only genuine persistence failures are
// nacked.
func (c *ReadConsumer) HandleMessage(msg *message.Message) error {
	ctx := msg.Context()

	event, err := stream.DecodeEvent(msg.Payload)
	if err != nil {
		logging.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("undecodable event, won't process")
		metrics.RecordRejected("undecodable")
		return nil
	}

	if !c.validator.Valid(event) {
		if event != nil && event.MessageID == nil {
			logging.Debug().Str("message_uuid", msg.UUID).Msg("warmup event, disregarded")
		} else {
			logging.Warn().Str("message_uuid", msg.UUID).Msg("invalid event, won't process")
		}
		metrics.RecordRejected("invalid")
		return nil
	}

	messageID := *event.MessageID
	start := time.Now()

	err = c.uow.WithinTx(ctx, func(q database.Querier) error {
		if err := c.ledger.InsertNew(ctx, q, messageID, event.CreatedAt.DateOnly()); err != nil {
			return err
		}
		return c.transactions.Save(ctx, q, model.TransactionFromEvent(event))
	})
	metrics.ObservePersist(start)

	switch {
	case err == nil:
		logging.Info().Str("id", *event.ID).Msg("successfully persisted transaction")
		metrics.EventsProcessed.Inc()
		return nil

	case errors.Is(err, repository.ErrDuplicateMessage):
		logging.Info().
			Str("id", *event.ID).
			Str("message_id", messageID).
			Msg("duplicate delivery suppressed")
		metrics.EventsDuplicate.Inc()
		return nil

	default:
		logging.Warn().Err(err).Str("id", *event.ID).Msg("error while trying to persist transaction")
		metrics.EventsFailed.Inc()
		return err
	}
}
