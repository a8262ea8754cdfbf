// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

package model

// Currency is an ISO 4217 code from the closed set the writer side emits.
type Currency string

// Supported currencies.
const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyCHF Currency = "CHF"
	CurrencyPLN Currency = "PLN"
)

// Currencies returns all supported currency codes.
func Currencies() []Currency {
	return []Currency{CurrencyEUR, CurrencyUSD, CurrencyGBP, CurrencyCHF, CurrencyPLN}
}

// TrnStatus is the integer status code of a transaction.
type TrnStatus int

// Transaction status codes.
const (
	TrnStatusPending  TrnStatus = 0
	TrnStatusSuccess  TrnStatus = 1
	TrnStatusFailed   TrnStatus = 2
	TrnStatusReversed TrnStatus = 3
)

// TrnStatuses returns all valid status codes.
func TrnStatuses() []TrnStatus {
	return []TrnStatus{TrnStatusPending, TrnStatusSuccess, TrnStatusFailed, TrnStatusReversed}
}

// TrnType is the transaction type code.
type TrnType string

// Transaction type codes.
const (
	// TrnTypeBWI is an inbound bank wire.
	TrnTypeBWI TrnType = "BWI"
	// TrnTypeBWO is an outbound bank wire.
	TrnTypeBWO TrnType = "BWO"
	// TrnTypeCT is an internal customer transfer.
	TrnTypeCT TrnType = "CT"
	// TrnTypeDD is a direct debit.
	TrnTypeDD TrnType = "DD"
)

// TrnTypes returns all valid transaction type codes.
func TrnTypes() []TrnType {
	return []TrnType{TrnTypeBWI, TrnTypeBWO, TrnTypeCT, TrnTypeDD}
}
