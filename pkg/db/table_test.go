package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangnguyenba/webapi/pkg/entity"
)

func TestListTables(t *testing.T) {
	conn := MustOpenTestConnection(t)

	tables, err := ListTables(context.Background(), conn)
	require.NoError(t, err)
	assert.Subset(t, tables, []string{CarTable, ErrorTable, SubscriptionTable, UserTable})
}

func TestCountRows(t *testing.T) {
	ctx := context.Background()
	conn := MustOpenTestConnection(t)
	cars, err := NewCollection(conn, CarTableDef)
	require.NoError(t, err)

	require.True(t, cars.Add(ctx, []entity.Car{{Name: "a"}, {Name: "b"}}).OK())

	n, err := CountRows(ctx, conn, CarTable)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = CountRows(ctx, conn, "car; DROP TABLE car")
	assert.ErrorIs(t, err, ErrInvalidTableName)
}

func TestCheckSchema(t *testing.T) {
	ctx := context.Background()

	t.Run("complete", func(t *testing.T) {
		p, err := NewProvider(ctx, MustOpenTestConnection(t), nil)
		require.NoError(t, err)
		assert.NoError(t, p.CheckSchema(ctx))
	})

	t.Run("error table is optional", func(t *testing.T) {
		p, err := NewProvider(ctx, MustOpenTestConnection(t, WithoutErrorTable()), nil)
		require.NoError(t, err)
		assert.NoError(t, p.CheckSchema(ctx))
	})

	t.Run("missing", func(t *testing.T) {
		conn := MustOpenTestConnection(t)
		err := CheckTables(ctx, conn, CarTable, "engine", "wheel")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingTables)
		assert.Contains(t, err.Error(), "engine, wheel")
	})
}
