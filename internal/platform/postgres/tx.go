// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the query surface shared by [pgxpool.Pool] and [pgx.Tx].
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// Conn returns the transaction bound to ctx, or the pool when none is active.
func Conn(ctx context.Context, pool *pgxpool.Pool) DBTX {
	if transaction, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return transaction
	}
	return pool
}

// TxManager runs units of work inside a single database transaction.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a TxManager bound to pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

/*
WithinTx executes fn inside a transaction.

The transaction is committed when fn returns nil and rolled back otherwise.
When ctx already carries a transaction, fn joins it and the outer caller keeps
ownership of commit and rollback.
*/
func (manager *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	transaction, err := manager.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin transaction: %w", err)
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	if err := fn(context.WithValue(ctx, txKey{}, transaction)); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit transaction: %w", err)
	}
	return nil
}
