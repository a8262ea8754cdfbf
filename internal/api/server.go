// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

// Package api exposes the read surface over persisted transactions
// plus health and metrics endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voltpay/reader/internal/logging"
	"github.com/voltpay/reader/internal/model"
)

// TransactionFinder is the read surface's view of the transaction
// repository.
type TransactionFinder interface {
	FindByCustID(ctx context.Context, custID int64) ([]model.Transaction, error)
}

// Pinger reports database connectivity for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler builds the HTTP routes.
func Handler(finder TransactionFinder, db Pinger) http.Handler {
	h := &handlers{finder: finder, db: db}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", h.Live)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/transactions", h.TransactionsByCustomer)
	})

	return r
}

// requestLogger emits one structured log line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logging.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
