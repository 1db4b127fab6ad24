package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/database"
)

// PostgresStore keeps snapshots in a single key-value table: the blob
// stays opaque, no relational modeling of boards. Schema lives in
// migrations/ and is applied with the migrate command.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, userID string, boards []*entities.Board) error {
	data, err := encode(userID, boards)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO snapshots (user_id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`

	if _, err := s.db.DB.ExecContext(ctx, query, userID, data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, userID string) ([]*entities.Board, error) {
	var data []byte
	err := s.db.DB.GetContext(ctx, &data, `SELECT data FROM snapshots WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return decode(data)
}

func (s *PostgresStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.DB.ExecContext(ctx, `DELETE FROM snapshots WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
