package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	appalloc "github.com/jhoicas/mrp-api/internal/application/allocation"
)

var _ appalloc.MaterialLocker = (*MaterialLocker)(nil)

// MaterialLocker serializa las escrituras por material con un advisory lock de
// PostgreSQL. El lock vive en una transacción dedicada: mientras fn corre,
// cualquier otro proceso que pida el mismo material queda en espera. Las
// escrituras de fn van por el pool; el lock solo garantiza exclusión mutua.
type MaterialLocker struct {
	pool *pgxpool.Pool
}

// NewMaterialLocker construye el locker sobre el pool.
func NewMaterialLocker(pool *pgxpool.Pool) *MaterialLocker {
	return &MaterialLocker{pool: pool}
}

// WithLock toma pg_advisory_xact_lock(hashtext(itemID)), ejecuta fn y libera
// el lock al cerrar la transacción (commit o rollback).
func (l *MaterialLocker) WithLock(ctx context.Context, itemID string, fn func(ctx context.Context) error) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin lock transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, itemID); err != nil {
		return fmt.Errorf("advisory lock material %s: %w", itemID, err)
	}
	if err := fn(ctx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit lock transaction: %w", err)
	}
	return nil
}
