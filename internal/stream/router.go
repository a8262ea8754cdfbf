// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// RouterConfig holds the retry and dead-letter policy of one consuming
// path.
type RouterConfig struct {
	// HandlerName identifies the handler in logs and metrics.
	HandlerName string

	// Topic is the subject this path consumes.
	Topic string

	// RetryCount is the number of in-place retries after the first
	// failure before the failure escalates.
	RetryCount int

	// RetryInterval is the fixed delay between attempts.
	RetryInterval time.Duration

	// PoisonTopic, when non-empty, receives the message after retry
	// exhaustion. Empty means failures are dropped after retries (the
	// requeue path never re-dead-letters).
	PoisonTopic string

	// CloseTimeout bounds the wait for in-flight handlers on close.
	CloseTimeout time.Duration
}

// NewRouter assembles a Watermill router for one consuming path.
//
// Middleware order matters: the first middleware added is the
// outermost. The poison queue must sit outside the retry middleware so
// it only sees failures that already exhausted their retries;
// the recoverer sits innermost so panics become retryable errors.
func NewRouter(
	cfg RouterConfig,
	subscriber message.Subscriber,
	poisonPublisher message.Publisher,
	handler message.NoPublishHandlerFunc,
	logger watermill.LoggerAdapter,
) (*message.Router, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	if cfg.PoisonTopic != "" && poisonPublisher != nil {
		poison, err := middleware.PoisonQueue(poisonPublisher, cfg.PoisonTopic)
		if err != nil {
			return nil, fmt.Errorf("create poison queue middleware: %w", err)
		}
		router.AddMiddleware(poison)
	}

	retry := middleware.Retry{
		MaxRetries:      cfg.RetryCount,
		InitialInterval: cfg.RetryInterval,
		MaxInterval:     cfg.RetryInterval,
		Multiplier:      1.0,
		Logger:          logger,
	}
	router.AddMiddleware(retry.Middleware)
	router.AddMiddleware(middleware.Recoverer)

	router.AddNoPublisherHandler(cfg.HandlerName, cfg.Topic, subscriber, handler)

	return router, nil
}
