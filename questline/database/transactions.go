package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"golang.org/x/sync/semaphore"
)

const defaultTxTimeout = 30 * time.Second

type txKey struct{}

// WithTx returns a context carrying the given transaction handle.
// Repositories resolve it through IDB so the same repository code runs both
// inside and outside a transaction.
func WithTx(ctx context.Context, tx bun.IDB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// IDB returns the transaction handle carried by ctx, or fallback when the
// call is not transactional.
func IDB(ctx context.Context, fallback *bun.DB) bun.IDB {
	if tx, ok := ctx.Value(txKey{}).(bun.IDB); ok {
		return tx
	}
	return fallback
}

// TxManager serializes all mutating tracker operations. Every state
// transition acquires the single-slot semaphore and then runs inside one
// serializable transaction, so no operation ever observes a partially applied
// effect of another.
type TxManager struct {
	db  *bun.DB
	sem *semaphore.Weighted
}

func NewTxManager(db *bun.DB) *TxManager {
	return &TxManager{
		db:  db,
		sem: semaphore.NewWeighted(1),
	}
}

// RunSerialized executes fn as one indivisible unit: global execution queue
// plus a serializable database transaction. An error from fn rolls the whole
// transaction back.
func (tm *TxManager) RunSerialized(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := tm.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("failed to acquire execution slot: %w", err)
	}
	defer tm.sem.Release(1)

	timeoutCtx, cancel := context.WithTimeout(ctx, defaultTxTimeout)
	defer cancel()

	err := tm.db.RunInTx(timeoutCtx, &sql.TxOptions{Isolation: sql.LevelSerializable},
		func(txCtx context.Context, tx bun.Tx) error {
			return fn(WithTx(txCtx, tx))
		})
	if err != nil {
		return err
	}
	return nil
}
