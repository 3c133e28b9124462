package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

func TestSnapshotStore_RoundTrip(t *testing.T) {
	store, err := NewSnapshotStore(filepath.Join(t.TempDir(), "carts"))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Load(ctx, "@RocketShoes:cart")
	require.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	require.NoError(t, store.Save(ctx, "@RocketShoes:cart", []byte(`{"version":1}`)))
	require.NoError(t, store.Save(ctx, "@RocketShoes:cart", []byte(`{"version":1,"entries":[]}`)))

	data, err := store.Load(ctx, "@RocketShoes:cart")
	require.NoError(t, err)
	require.Equal(t, `{"version":1,"entries":[]}`, string(data))
	require.NoError(t, store.Ping(ctx))
}

func TestSnapshotStore_SanitizesKey(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSnapshotStore(dir)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(dir, "_RocketShoes_cart.json"), store.path("@RocketShoes:cart"))
	require.Equal(t, filepath.Join(dir, ".._etc_passwd.json"), store.path("../etc/passwd"))
}

func TestSnapshotStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSnapshotStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "cart", []byte("data")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "cart.json", entries[0].Name())
}

func TestNewSnapshotStore_RequiresDir(t *testing.T) {
	_, err := NewSnapshotStore("  ")
	require.Error(t, err)
}
