package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteBackend_PutGetOverwrite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "paige.db")
	b, err := NewSQLiteBackend(dsn)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()
	ctx := context.Background()

	_, err = b.Get(ctx, "conversations")
	require.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, b.Put(ctx, "conversations", []byte(`[{"id":1}]`)))
	require.NoError(t, b.Put(ctx, "conversations", []byte(`[{"id":1},{"id":2}]`)))

	got, err := b.Get(ctx, "conversations")
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":1},{"id":2}]`, string(got))
}

func TestSQLiteBackend_SurvivesReopen(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "paige.db")
	ctx := context.Background()

	b, err := NewSQLiteBackend(dsn)
	require.NoError(t, err)
	require.NoError(t, b.Put(ctx, "k", []byte("v")))
	require.NoError(t, b.Close())

	b2, err := Open(ctx, Options{Driver: DriverSQLite, SQLiteDSN: dsn})
	require.NoError(t, err)
	defer func() { _ = b2.Close() }()
	got, err := b2.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", string(got))
}
