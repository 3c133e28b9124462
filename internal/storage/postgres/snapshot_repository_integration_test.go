package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

func TestSnapshotRepository_Integration(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewSnapshotRepository(store)
	ctx := context.Background()

	_, err := repo.Load(ctx, "@RocketShoes:cart")
	require.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	require.NoError(t, repo.Save(ctx, "@RocketShoes:cart", []byte(`{"version":1,"entries":[]}`)))
	require.NoError(t, repo.Save(ctx, "@RocketShoes:cart", []byte(`{"version":1,"entries":[{"product_id":1}]}`)))

	data, err := repo.Load(ctx, "@RocketShoes:cart")
	require.NoError(t, err)
	require.JSONEq(t, `{"version":1,"entries":[{"product_id":1}]}`, string(data))
	require.NoError(t, repo.Ping(ctx))
}

func TestMigrator_Integration(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	ctx := context.Background()

	version, count, err := store.MigrationStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), version)
	require.Equal(t, 1, count)

	require.NoError(t, store.MigrateDown(ctx, 1))
	version, count, err = store.MigrationStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), version)
	require.Equal(t, 0, count)

	require.NoError(t, store.MigrateUp(ctx, 0))
	version, _, err = store.MigrationStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), version)
}
