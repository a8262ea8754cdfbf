// Voltpay Reader - financial transaction event ingestion
// Copyright 2026 Voltpay
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/voltpay/reader/internal/model"
)

// fakeQuerier records Exec calls and returns a canned error.
type fakeQuerier struct {
	execErr error
	sql     []string
	args    [][]any
}

func (f *fakeQuerier) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, arguments)
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

// TestIdempotencyRepository_InsertNew covers first insert, duplicate
// rejection and transient failure classification.
func TestIdempotencyRepository_InsertNew(t *testing.T) {
	t.Parallel()

	repo := NewIdempotencyRepository(nil)
	date := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)

	t.Run("first insert succeeds", func(t *testing.T) {
		t.Parallel()

		q := &fakeQuerier{}
		if err := repo.InsertNew(context.Background(), q, "msg-1", date); err != nil {
			t.Fatalf("InsertNew() error = %v, want nil", err)
		}
		if len(q.args) != 1 {
			t.Fatalf("Exec calls = %d, want 1", len(q.args))
		}
		if q.args[0][0] != "msg-1" {
			t.Errorf("message_id arg = %v, want msg-1", q.args[0][0])
		}
		if got, ok := q.args[0][1].(time.Time); !ok || !got.Equal(date) {
			t.Errorf("date arg = %v, want %v", q.args[0][1], date)
		}
	})

	t.Run("unique violation becomes ErrDuplicateMessage", func(t *testing.T) {
		t.Parallel()

		q := &fakeQuerier{execErr: &pgconn.PgError{Code: "23505", ConstraintName: "idempotency_pkey"}}
		err := repo.InsertNew(context.Background(), q, "msg-1", date)
		if !errors.Is(err, ErrDuplicateMessage) {
			t.Fatalf("InsertNew() error = %v, want ErrDuplicateMessage", err)
		}
	})

	t.Run("other failures stay transient", func(t *testing.T) {
		t.Parallel()

		q := &fakeQuerier{execErr: errors.New("connection reset")}
		err := repo.InsertNew(context.Background(), q, "msg-1", date)
		if err == nil || errors.Is(err, ErrDuplicateMessage) {
			t.Fatalf("InsertNew() error = %v, want a non-duplicate error", err)
		}
	})
}

// TestTransactionRepository_Save checks the insert argument mapping,
// in particular the exact decimal encoding of the amount.
func TestTransactionRepository_Save(t *testing.T) {
	t.Parallel()

	repo := NewTransactionRepository(nil)

	comment := "wire in"
	version := 3
	updated := model.NewLocalTime(time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC))
	trn := &model.Transaction{
		ID:        "trn-1",
		CreatedAt: model.NewLocalTime(time.Date(2026, 5, 2, 14, 0, 0, 0, time.UTC)),
		UpdatedAt: &updated,
		Amount:    decimal.RequireFromString("1234.5678"),
		Status:    int(model.TrnStatusSuccess),
		Currency:  string(model.CurrencyEUR),
		CustID:    42,
		Type:      string(model.TrnTypeBWI),
		Comment:   &comment,
		Version:   &version,
	}

	q := &fakeQuerier{}
	if err := repo.Save(context.Background(), q, trn); err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}
	if len(q.args) != 1 {
		t.Fatalf("Exec calls = %d, want 1", len(q.args))
	}

	args := q.args[0]
	if len(args) != 10 {
		t.Fatalf("Exec args = %d, want 10", len(args))
	}
	if args[0] != "trn-1" {
		t.Errorf("id arg = %v, want trn-1", args[0])
	}
	if args[3] != "1234.5678" {
		t.Errorf("amount arg = %v, want the exact string 1234.5678", args[3])
	}
	if args[5] != "EUR" || args[7] != "BWI" {
		t.Errorf("currency/type args = %v/%v, want EUR/BWI", args[5], args[7])
	}
	if args[6] != int64(42) {
		t.Errorf("cust_id arg = %v, want 42", args[6])
	}

	t.Run("failure is wrapped with the record id", func(t *testing.T) {
		t.Parallel()

		q := &fakeQuerier{execErr: errors.New("disk full")}
		err := repo.Save(context.Background(), q, trn)
		if err == nil {
			t.Fatal("Save() error = nil, want error")
		}
	})
}
