// Package snapshot provides SnapshotStore implementations. All of them
// share one JSON envelope so a user's data can move between backends
// without loss.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/taskboard/core/internal/domain/entities"
)

// envelope is the serialized snapshot shape: the owning user plus their
// full board hierarchy.
type envelope struct {
	User   string            `json:"user"`
	Boards []*entities.Board `json:"boards"`
}

func encode(userID string, boards []*entities.Board) ([]byte, error) {
	data, err := json.Marshal(envelope{User: userID, Boards: boards})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]*entities.Board, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if env.Boards == nil {
		return []*entities.Board{}, nil
	}
	return env.Boards, nil
}
