package db

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

// ListTables returns the names of all base tables in the connected database, sorted.
func ListTables(ctx context.Context, conn *Connection) ([]string, error) {
	var q sq.SelectBuilder
	switch conn.Config.Driver {
	case DriverMySQL:
		q = conn.sq.Select("table_name").
			From("information_schema.tables").
			Where("table_schema = DATABASE()").
			Where(sq.Eq{"table_type": "BASE TABLE"})
	case DriverPostgres:
		q = conn.sq.Select("table_name").
			From("information_schema.tables").
			Where("table_schema = current_schema()").
			Where(sq.Eq{"table_type": "BASE TABLE"})
	case DriverSQLite:
		q = conn.sq.Select("name").
			From("sqlite_master").
			Where(sq.Eq{"type": "table"}).
			Where(sq.NotLike{"name": "sqlite_%"})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, conn.Config.Driver)
	}

	rows, err := q.RunWith(conn.DB).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query tables")
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			return nil, errors.Wrap(err, "failed to scan table name")
		}
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating tables")
	}

	sort.Strings(tables)
	return tables, nil
}

// CountRows returns the number of rows in table.
func CountRows(ctx context.Context, conn *Connection, table string) (int64, error) {
	if err := ValidateTableName(table); err != nil {
		return 0, err
	}

	var count int64
	err := conn.sq.Select("COUNT(*)").
		From(table).
		RunWith(conn.DB).
		QueryRowContext(ctx).
		Scan(&count)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to count rows in %s", table)
	}
	return count, nil
}

// CheckTables verifies that every named table exists. The error lists the missing ones
// and wraps ErrMissingTables.
func CheckTables(ctx context.Context, conn *Connection, required ...string) error {
	tables, err := ListTables(ctx, conn)
	if err != nil {
		return err
	}

	existing := make(map[string]bool, len(tables))
	for _, t := range tables {
		existing[strings.ToLower(t)] = true
	}

	var missing []string
	for _, t := range required {
		if !existing[strings.ToLower(t)] {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingTables, strings.Join(missing, ", "))
	}
	return nil
}
