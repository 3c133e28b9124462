package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

// SnapshotVersion — текущая версия формата сохранённой корзины.
const SnapshotVersion = 1

type snapshotEnvelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"saved_at"`
	Entries []snapshotEntry `json:"entries"`
}

type snapshotEntry struct {
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Amount    int             `json:"amount"`
}

// EncodeSnapshot сериализует корзину в версионированный конверт.
func EncodeSnapshot(c domain.Cart, savedAt time.Time) ([]byte, error) {
	env := snapshotEnvelope{
		Version: SnapshotVersion,
		SavedAt: savedAt.UTC(),
		Entries: make([]snapshotEntry, 0, len(c)),
	}
	for _, e := range c {
		env.Entries = append(env.Entries, snapshotEntry{
			ProductID: e.Product.ID,
			Title:     e.Product.Title,
			Price:     e.Product.Price,
			Image:     e.Product.Image,
			Amount:    e.Amount,
		})
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode cart snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot разбирает сохранённую корзину. Любые данные, кроме конверта
// текущей версии с корректными позициями, дают ErrSnapshotMalformed или
// ErrSnapshotVersion.
func DecodeSnapshot(data []byte) (domain.Cart, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrSnapshotMalformed)
	}
	// Клиент до версионирования писал голый JSON-массив.
	if trimmed[0] == '[' {
		return nil, fmt.Errorf("%w: legacy unversioned payload", domain.ErrSnapshotVersion)
	}

	var env snapshotEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSnapshotMalformed, err)
	}
	if env.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", domain.ErrSnapshotVersion, env.Version, SnapshotVersion)
	}

	c := make(domain.Cart, 0, len(env.Entries))
	for _, e := range env.Entries {
		c = append(c, domain.CartEntry{
			Product: domain.Product{
				ID:    e.ProductID,
				Title: e.Title,
				Price: e.Price,
				Image: e.Image,
			},
			Amount: e.Amount,
		})
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSnapshotMalformed, err)
	}
	return c, nil
}
