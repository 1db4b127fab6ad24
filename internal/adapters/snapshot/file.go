package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/taskboard/core/internal/domain/entities"
)

// FileStore writes one JSON snapshot file per user under a data
// directory. This is the default driver.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Save(_ context.Context, userID string, boards []*entities.Board) error {
	data, err := encode(userID, boards)
	if err != nil {
		return err
	}

	path := s.path(userID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	// Rename so readers never observe a half-written snapshot.
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context, userID string) ([]*entities.Board, error) {
	data, err := os.ReadFile(s.path(userID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return decode(data)
}

func (s *FileStore) Delete(_ context.Context, userID string) error {
	err := os.Remove(s.path(userID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

// path namespaces the snapshot file by user. The user ID is opaque and
// unvalidated, so it is escaped before touching the filesystem.
func (s *FileStore) path(userID string) string {
	return filepath.Join(s.dir, "taskboard_"+url.PathEscape(userID)+".json")
}
