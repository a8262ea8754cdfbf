// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/voltpay/reader/internal/logging"
	"github.com/voltpay/reader/internal/model"
)

type handlers struct {
	finder TransactionFinder
	db     Pinger
}

type errorResponse struct {
	Error string `json:"error"`
}

type transactionsResponse struct {
	Transactions []model.Transaction `json:"transactions"`
}

// Live always reports the process as up.
func (h *handlers) Live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness based on database connectivity.
func (h *handlers) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "database unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// TransactionsByCustomer returns every transaction record for one
// customer. Exact match on cust_id only; no pagination.
func (h *handlers) TransactionsByCustomer(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("cust_id")
	custID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "cust_id must be an integer"})
		return
	}

	transactions, err := h.finder.FindByCustID(r.Context(), custID)
	if err != nil {
		logging.Error().Err(err).Int64("cust_id", custID).Msg("transaction lookup failed")
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "lookup failed"})
		return
	}

	if transactions == nil {
		transactions = []model.Transaction{}
	}
	respondJSON(w, http.StatusOK, transactionsResponse{Transactions: transactions})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("encode response failed")
	}
}
