// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

// Package main is the entry point for the Voltpay reader service.
//
// The reader consumes financial transaction events from a JetStream
// subject, validates them, and persists each exactly once: a ledger
// insert keyed by the event's message id and the transaction row are
// written in a single database transaction, so a redelivered event is
// detected by the ledger's primary key and acknowledged without a
// second write.
//
// # Processing paths
//
// A process runs in exactly one of two roles:
//
//   - Consumer (default): reads the primary topic, persists events,
//     retries transient failures in place, and dead-letters events
//     that keep failing.
//   - Requeue: reads the dead-letter topic and republishes events to
//     the primary topic for reprocessing. Enabled by an operator after
//     the root cause of the failures is fixed.
//
// The two roles are mutually exclusive within a process; configuration
// validation rejects both being enabled at once.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, an optional config.yaml, and
// built-in defaults. DATABASE_URL is the only setting without a
// usable default. See internal/config for the full surface.
//
// # Signal handling
//
// SIGINT and SIGTERM trigger a graceful shutdown: the routers stop
// pulling deliveries and drain in-flight handlers, the HTTP server
// drains in-flight requests, and the database pool closes.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"github.com/voltpay/reader/internal/api"
	"github.com/voltpay/reader/internal/config"
	"github.com/voltpay/reader/internal/consumer"
	"github.com/voltpay/reader/internal/database"
	"github.com/voltpay/reader/internal/logging"
	"github.com/voltpay/reader/internal/repository"
	"github.com/voltpay/reader/internal/retention"
	"github.com/voltpay/reader/internal/stream"
	"github.com/voltpay/reader/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Default logger; logging config is not available yet.
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Bool("consumer_enabled", cfg.Consumer.Enabled).
		Bool("requeue_enabled", cfg.Requeue.Enabled).
		Str("read_topic", cfg.NATS.ReadTopic).
		Str("dead_letter_topic", cfg.NATS.DeadLetterTopic).
		Msg("starting voltpay reader")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("reader terminated")
	}

	logging.Info().Msg("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.Open(ctx, cfg.Database.URL, cfg.Database.ConnectTimeout)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	logging.Info().Msg("database ready")

	streamCfg := streamConfig(cfg)
	if err := stream.EnsureStream(ctx, streamCfg); err != nil {
		return fmt.Errorf("provision stream: %w", err)
	}
	logging.Info().Str("stream", streamCfg.StreamName).Msg("stream ready")

	wmLogger := logging.NewWatermillAdapter()

	ledger := repository.NewIdempotencyRepository(db)
	transactions := repository.NewTransactionRepository(db)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Consumer.Enabled {
		sub, err := stream.NewSubscriber(streamCfg, streamCfg.DurableName, wmLogger)
		if err != nil {
			return fmt.Errorf("create subscriber: %w", err)
		}

		poison, err := stream.NewPublisher(streamCfg, wmLogger)
		if err != nil {
			return fmt.Errorf("create dead-letter publisher: %w", err)
		}
		defer closeQuiet(poison, "dead-letter publisher")

		read := consumer.NewReadConsumer(validation.New(), db, ledger, transactions)

		router, err := stream.NewRouter(stream.RouterConfig{
			HandlerName:   "read-consumer",
			Topic:         streamCfg.ReadTopic,
			RetryCount:    cfg.Consumer.RetryCount,
			RetryInterval: cfg.Consumer.RetryInterval,
			PoisonTopic:   streamCfg.DeadLetterTopic,
			CloseTimeout:  streamCfg.CloseTimeout,
		}, sub, poison.Raw(), read.HandleMessage, wmLogger)
		if err != nil {
			return fmt.Errorf("create consumer router: %w", err)
		}

		g.Go(func() error {
			logging.Info().Str("topic", streamCfg.ReadTopic).Msg("consumer running")
			return router.Run(ctx)
		})
	}

	if cfg.Requeue.Enabled {
		// Distinct durable so requeue progress is tracked separately
		// from the primary consumer's.
		sub, err := stream.NewSubscriber(streamCfg, streamCfg.DurableName+"-requeue", wmLogger)
		if err != nil {
			return fmt.Errorf("create requeue subscriber: %w", err)
		}

		pub, err := stream.NewPublisher(streamCfg, wmLogger)
		if err != nil {
			return fmt.Errorf("create requeue publisher: %w", err)
		}
		pub.SetCircuitBreaker(gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
			Name:        "requeue-publisher",
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("publisher circuit breaker state changed")
			},
		}))
		defer closeQuiet(pub, "requeue publisher")

		requeue := consumer.NewDeadLetterConsumer(pub, streamCfg.ReadTopic)

		// No poison topic here: a publish that still fails after the
		// retry is dropped, never dead-lettered a second time.
		router, err := stream.NewRouter(stream.RouterConfig{
			HandlerName:   "dead-letter-requeue",
			Topic:         streamCfg.DeadLetterTopic,
			RetryCount:    cfg.Requeue.RetryCount,
			RetryInterval: cfg.Requeue.RetryInterval,
			CloseTimeout:  streamCfg.CloseTimeout,
		}, sub, nil, requeue.HandleMessage, wmLogger)
		if err != nil {
			return fmt.Errorf("create requeue router: %w", err)
		}

		g.Go(func() error {
			logging.Info().Str("topic", streamCfg.DeadLetterTopic).Msg("dead-letter requeue running")
			return router.Run(ctx)
		})
	}

	if cfg.Retention.Enabled {
		sweeper := retention.NewSweeper(ledger, cfg.Retention.SweepInterval, cfg.Retention.Window)
		g.Go(func() error {
			return sweeper.Run(ctx)
		})
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      api.Handler(transactions, db),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g.Go(func() error {
		logging.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("http server shutdown failed")
		}
		return ctx.Err()
	})

	return g.Wait()
}

func streamConfig(cfg *config.Config) stream.Config {
	return stream.Config{
		URL:             cfg.NATS.URL,
		StreamName:      cfg.NATS.StreamName,
		ReadTopic:       cfg.NATS.ReadTopic,
		DeadLetterTopic: cfg.NATS.DeadLetterTopic,
		QueueGroup:      cfg.NATS.QueueGroup,
		DurableName:     cfg.NATS.DurableName,
		SubscriberCount: cfg.NATS.SubscriberCount,
		AckWait:         cfg.NATS.AckWait,
		MaxDeliver:      cfg.NATS.MaxDeliver,
		MaxAge:          cfg.NATS.MaxAge,
		CloseTimeout:    cfg.NATS.CloseTimeout,
		MaxReconnects:   cfg.NATS.MaxReconnects,
		ReconnectWait:   cfg.NATS.ReconnectWait,
	}
}

func closeQuiet(c interface{ Close() error }, name string) {
	if err := c.Close(); err != nil {
		logging.Error().Err(err).Str("component", name).Msg("close failed")
	}
}
