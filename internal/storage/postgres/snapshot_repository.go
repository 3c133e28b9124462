package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

type snapshotRepository struct {
	store *Store
}

// NewSnapshotRepository создаёт PostgreSQL-реализацию SnapshotStore.
func NewSnapshotRepository(store *Store) domain.SnapshotStore {
	return &snapshotRepository{store: store}
}

func (r *snapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var payload []byte
	err := r.store.DB().QueryRowContext(ctx,
		`SELECT payload FROM cart_snapshots WHERE key = $1`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}
	return payload, nil
}

func (r *snapshotRepository) Save(ctx context.Context, key string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.store.DB().ExecContext(ctx, `
		INSERT INTO cart_snapshots (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`, key, data)
	if err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

var _ domain.SnapshotStore = (*snapshotRepository)(nil)
