package ports

import (
	"context"

	"github.com/taskboard/core/internal/domain/entities"
)

// SnapshotStore persists a user's full board hierarchy as an opaque
// snapshot keyed by the user identity. Implementations must round-trip
// every entity field losslessly through a textual serialization.
type SnapshotStore interface {
	// Save replaces the stored snapshot for userID.
	Save(ctx context.Context, userID string, boards []*entities.Board) error

	// Load returns the stored hierarchy, or (nil, nil) when no snapshot
	// exists for userID.
	Load(ctx context.Context, userID string) ([]*entities.Board, error)

	// Delete removes the snapshot for userID. Deleting a missing
	// snapshot is not an error.
	Delete(ctx context.Context, userID string) error

	// Close releases any underlying resources.
	Close() error
}
