package db

import "fmt"

// Table describes how records of type T map onto one database table. The key column is
// always "id".
type Table[T any] struct {
	Name string

	// Columns lists the non-key columns, in the order Values returns them.
	Columns []string

	// Fields returns scan targets for the key followed by Columns.
	Fields func(rec *T) []any

	// Values returns the bind values for Columns.
	Values func(rec *T) []any

	// Key returns the record's identifier, 0 when it has none.
	Key func(rec *T) int32
}

// selectColumns returns the key followed by the non-key columns.
func (t Table[T]) selectColumns() []string {
	return append([]string{keyColumn}, t.Columns...)
}

func (t Table[T]) validate() error {
	if err := ValidateTableName(t.Name); err != nil {
		return err
	}
	if len(t.Columns) == 0 || t.Fields == nil || t.Values == nil || t.Key == nil {
		return fmt.Errorf("%w: table %s is missing columns or mappers", ErrInvalidQuery, t.Name)
	}
	return nil
}

const keyColumn = "id"
