package db

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

// PlaceholderFormat returns the bind parameter style of a driver
func PlaceholderFormat(driver string) (sq.PlaceholderFormat, error) {
	switch driver {
	case DriverPostgres:
		return sq.Dollar, nil
	case DriverMySQL, DriverSQLite:
		return sq.Question, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
}

// IDsIn builds the predicate "column is one of ids" with every id bound as a parameter.
// Postgres binds the whole list as a single int8[] array; the other drivers get one
// placeholder per id, in input order. ids must not be empty.
func IDsIn(driver, column string, ids []int32) sq.Sqlizer {
	if driver == DriverPostgres {
		arr := make(pq.Int64Array, len(ids))
		for i, id := range ids {
			arr[i] = int64(id)
		}
		return sq.Expr(column+" = ANY(?)", arr)
	}
	return sq.Eq{column: ids}
}

// ValidateTableName checks if a table name is valid
func ValidateTableName(tableName string) error {
	if tableName == "" {
		return fmt.Errorf("%w: table name cannot be empty", ErrInvalidTableName)
	}
	if strings.ContainsAny(tableName, "`\"'; ") {
		return fmt.Errorf("%w: table name contains invalid characters", ErrInvalidTableName)
	}
	return nil
}
