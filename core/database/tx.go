package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"scheduling-api/core/logger"
)

// WithinTransaction runs fn inside a single transaction. If fn returns an
// error the transaction is rolled back and the error returned as-is, so
// typed service errors survive the boundary.
func (d *Database) WithinTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := d.sqlx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("Database:WithinTransaction:RollbackOnPanic", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Database:WithinTransaction:Rollback", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
