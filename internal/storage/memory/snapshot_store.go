package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

// snapshotStoreInMemory — простая in-memory реализация SnapshotStore.
type snapshotStoreInMemory struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewSnapshotStore возвращает in-memory хранилище для локальной разработки и тестов.
func NewSnapshotStore() domain.SnapshotStore {
	return &snapshotStoreInMemory{items: make(map[string][]byte)}
}

// Load возвращает копию сохранённых данных или ErrSnapshotNotFound.
func (s *snapshotStoreInMemory) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.items[key]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return append([]byte(nil), data...), nil
}

// Save перезаписывает значение ключа.
func (s *snapshotStoreInMemory) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Храним копию, чтобы вызывающий код не мог изменить снимок извне.
	s.items[key] = append([]byte(nil), data...)
	return nil
}

func (s *snapshotStoreInMemory) Ping(context.Context) error { return nil }

var _ domain.SnapshotStore = (*snapshotStoreInMemory)(nil)
