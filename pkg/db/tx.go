package db

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// InTx runs fn inside a transaction. The transaction is committed only when fn returns nil;
// an error or a panic in fn rolls it back. A panic is re-raised after the rollback. The
// transaction is bound to ctx, so cancelling ctx aborts it and the connection is returned
// to the pool.
func (c *Connection) InTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			c.logger.Error("panic in transaction; rolling back", "panic", p)
			c.rollback(tx)
			panic(p)
		}
		c.rollback(tx)
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		// Commit releases the connection whether it succeeds or not.
		committed = true
		return errors.Wrap(err, "failed to commit transaction")
	}
	committed = true
	return nil
}

func (c *Connection) rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		c.logger.Error("error rolling back transaction", "error", err)
	}
}
