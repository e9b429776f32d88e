package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangnguyenba/webapi/pkg/errcode"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("loads error names", func(t *testing.T) {
		conn := MustOpenTestConnection(t)
		p, err := NewProvider(ctx, conn, nil)
		require.NoError(t, err)

		assert.Len(t, p.Names, len(TestErrorNames))
		name, ok := p.Names.Lookup(errcode.NotFoundError)
		assert.True(t, ok)
		assert.Equal(t, "NotFoundError", name)
	})

	t.Run("custom names resolve by code", func(t *testing.T) {
		conn := MustOpenTestConnection(t, WithoutErrorNames())
		_, err := conn.DB.ExecContext(ctx, "INSERT INTO error (id, error_name) VALUES (7, 'DatabaseError')")
		require.NoError(t, err)

		p, err := NewProvider(ctx, conn, nil)
		require.NoError(t, err)
		assert.Equal(t, errcode.Names{7: "DatabaseError"}, p.Names)
		assert.Equal(t, "", p.Names.Name(errcode.DatabaseError))
	})

	t.Run("missing error table leaves the table empty", func(t *testing.T) {
		conn := MustOpenTestConnection(t, WithoutErrorTable())
		p, err := NewProvider(ctx, conn, nil)
		require.NoError(t, err)
		assert.NotNil(t, p.Names)
		assert.Empty(t, p.Names)

		// collections still work
		out := p.Cars.Add(ctx, nil)
		assert.True(t, out.OK())
	})
}
