package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/hoangnguyenba/webapi/pkg/errcode"
)

// Outcome is the result of a batch operation. A batch either applies completely (Code OK)
// or not at all.
type Outcome struct {
	Code errcode.Code
	IDs  []int32 // identifiers generated by Add, in input order
}

func (o Outcome) OK() bool {
	return o.Code == errcode.OK
}

func success(ids []int32) Outcome {
	return Outcome{Code: errcode.OK, IDs: ids}
}

func failure(code errcode.Code) Outcome {
	return Outcome{Code: code}
}

// Collection performs batch operations on one table. It keeps no state besides the
// shared pool and may be used from many goroutines at once.
type Collection[T any] struct {
	conn   *Connection
	table  Table[T]
	logger *slog.Logger
}

// NewCollection binds a table descriptor to a connection.
func NewCollection[T any](conn *Connection, table Table[T]) (*Collection[T], error) {
	if err := table.validate(); err != nil {
		return nil, err
	}
	return &Collection[T]{
		conn:   conn,
		table:  table,
		logger: conn.logger.With("table", table.Name),
	}, nil
}

// Name returns the table name.
func (c *Collection[T]) Name() string {
	return c.table.Name
}

// Get returns the rows whose id is in ids, or every row when ids is nil. Ids without a
// row are skipped and duplicates are returned once. Errors carry errcode.DatabaseError.
func (c *Collection[T]) Get(ctx context.Context, ids []int32) ([]T, error) {
	if ids != nil && len(ids) == 0 {
		return []T{}, nil
	}

	q := c.conn.sq.
		Select(c.table.selectColumns()...).
		From(c.table.Name)
	if ids != nil {
		q = q.Where(IDsIn(c.conn.Config.Driver, keyColumn, ids))
	}

	rows, err := q.RunWith(c.conn.DB).QueryContext(ctx)
	if err != nil {
		c.logger.Error("db select", "error", err)
		return nil, errcode.Wrap(errcode.DatabaseError, errors.Wrapf(err, "failed to query %s", c.table.Name))
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		var item T
		if err := rows.Scan(c.table.Fields(&item)...); err != nil {
			c.logger.Error("db scan", "error", err)
			return nil, errcode.Wrap(errcode.DatabaseError, errors.Wrapf(err, "failed to scan %s row", c.table.Name))
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		c.logger.Error("db select", "error", err)
		return nil, errcode.Wrap(errcode.DatabaseError, errors.Wrapf(err, "error iterating %s rows", c.table.Name))
	}

	return items, nil
}

// Add inserts every item in one transaction and returns the generated ids in input order.
// If any insert fails nothing is stored and the outcome is DatabaseError.
func (c *Collection[T]) Add(ctx context.Context, items []T) Outcome {
	ids := make([]int32, 0, len(items))
	err := c.conn.InTx(ctx, func(tx *sql.Tx) error {
		for i := range items {
			id, err := c.insert(ctx, tx, &items[i])
			if err != nil {
				c.logger.Error("db insert", "index", i, "error", err)
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		c.logger.Error("add failed; rolled back", "items", len(items), "error", err)
		return failure(errcode.DatabaseError)
	}
	return success(ids)
}

func (c *Collection[T]) insert(ctx context.Context, tx *sql.Tx, item *T) (int32, error) {
	q := c.conn.sq.
		Insert(c.table.Name).
		Columns(c.table.Columns...).
		Values(c.table.Values(item)...)

	if c.conn.Config.Driver == DriverMySQL {
		res, err := q.RunWith(tx).ExecContext(ctx)
		if err != nil {
			return 0, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		return toID(id)
	}

	var id int32
	err := q.Suffix("RETURNING " + keyColumn).
		RunWith(tx).
		QueryRowContext(ctx).
		Scan(&id)
	return id, err
}

// toID narrows a generated key to the int32 identifiers the collections hand out.
func toID(id int64) (int32, error) {
	if id < 0 || id > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d", ErrIDOutOfRange, id)
	}
	return int32(id), nil
}

// Replace deletes every row of the table and inserts items in the same transaction. The
// old rows survive unless every insert succeeds. Ids are returned as for Add.
func (c *Collection[T]) Replace(ctx context.Context, items []T) Outcome {
	ids := make([]int32, 0, len(items))
	err := c.conn.InTx(ctx, func(tx *sql.Tx) error {
		res, err := c.conn.sq.Delete(c.table.Name).RunWith(tx).ExecContext(ctx)
		if err != nil {
			c.logger.Error("db delete", "error", err)
			return err
		}
		if n, err := res.RowsAffected(); err == nil {
			c.logger.Debug("cleared table", "rows", n)
		}

		for i := range items {
			id, err := c.insert(ctx, tx, &items[i])
			if err != nil {
				c.logger.Error("db insert", "index", i, "error", err)
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		c.logger.Error("replace failed; rolled back", "items", len(items), "error", err)
		return failure(errcode.DatabaseError)
	}
	return success(ids)
}

// Modify updates every item by id in one transaction. It commits only if the updates
// together touched exactly one row per item; otherwise it rolls back with NotFoundError.
// A failing statement rolls back with DatabaseError and stops at that item.
func (c *Collection[T]) Modify(ctx context.Context, items []T) Outcome {
	err := c.conn.InTx(ctx, func(tx *sql.Tx) error {
		var affected int64
		for i := range items {
			n, err := c.update(ctx, tx, &items[i])
			if err != nil {
				c.logger.Error("db update", "index", i, "error", err)
				return errcode.Wrap(errcode.DatabaseError, err)
			}
			affected += n
		}
		if affected != int64(len(items)) {
			return errcode.Wrap(errcode.NotFoundError, errors.Wrapf(ErrRowCountMismatch,
				"updated %d rows for %d items", affected, len(items)))
		}
		return nil
	})
	return c.outcome("modify", err)
}

func (c *Collection[T]) update(ctx context.Context, tx *sql.Tx, item *T) (int64, error) {
	values := c.table.Values(item)
	set := make(map[string]any, len(c.table.Columns))
	for i, col := range c.table.Columns {
		set[col] = values[i]
	}

	res, err := c.conn.sq.
		Update(c.table.Name).
		SetMap(set).
		Where(sq.Eq{keyColumn: c.table.Key(item)}).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Remove deletes the rows with the given ids in one statement. It commits only if exactly
// len(ids) rows were deleted, so duplicate ids make it fail with NotFoundError.
// An empty list is a no-op that succeeds without touching the database.
func (c *Collection[T]) Remove(ctx context.Context, ids []int32) Outcome {
	if len(ids) == 0 {
		return success(nil)
	}

	err := c.conn.InTx(ctx, func(tx *sql.Tx) error {
		res, err := c.conn.sq.
			Delete(c.table.Name).
			Where(IDsIn(c.conn.Config.Driver, keyColumn, ids)).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			c.logger.Error("db delete", "error", err)
			return errcode.Wrap(errcode.DatabaseError, err)
		}
		deleted, err := res.RowsAffected()
		if err != nil {
			return errcode.Wrap(errcode.DatabaseError, err)
		}
		if deleted != int64(len(ids)) {
			return errcode.Wrap(errcode.NotFoundError, errors.Wrapf(ErrRowCountMismatch,
				"deleted %d rows for %d ids", deleted, len(ids)))
		}
		return nil
	})
	return c.outcome("remove", err)
}

func (c *Collection[T]) outcome(op string, err error) Outcome {
	if err == nil {
		return success(nil)
	}
	code := errcode.Of(err)
	if code == errcode.NotFoundError {
		c.logger.Warn(op+" rejected; rolled back", "error", err)
	} else {
		c.logger.Error(op+" failed; rolled back", "error", err)
	}
	return failure(code)
}
