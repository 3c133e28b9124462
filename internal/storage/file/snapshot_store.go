// Package file хранит снимки корзины в файлах локального каталога.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

// SnapshotStore — один файл на ключ. Запись атомарная: временный файл + rename.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore создаёт каталог при необходимости.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("snapshot directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &SnapshotStore{dir: dir}, nil
}

// Load читает файл ключа или возвращает ErrSnapshotNotFound.
func (s *SnapshotStore) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read snapshot %q: %w", key, err)
	}
	return data, nil
}

// Save перезаписывает файл ключа целиком.
func (s *SnapshotStore) Save(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		return fmt.Errorf("replace snapshot %q: %w", key, err)
	}
	return nil
}

// Ping проверяет, что каталог доступен.
func (s *SnapshotStore) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat snapshot directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("snapshot path %q is not a directory", s.dir)
	}
	return nil
}

// path превращает произвольный ключ (например "@RocketShoes:cart") в безопасное имя файла.
func (s *SnapshotStore) path(key string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(s.dir, name+".json")
}

var _ domain.SnapshotStore = (*SnapshotStore)(nil)
