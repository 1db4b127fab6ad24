package snapshot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/core/internal/adapters/snapshot"
	"github.com/taskboard/core/internal/domain/entities"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := snapshot.NewMemoryStore()
	ctx := context.Background()

	boards := sampleBoards()
	require.NoError(t, store.Save(ctx, "alice", boards))

	loaded, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, boards, loaded)

	// The stored snapshot is a serialized copy, not an alias.
	boards[0].Name = "Changed"
	reloaded, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Home", reloaded[0].Name)
}

func TestMemoryStore_LoadMissingUser(t *testing.T) {
	store := snapshot.NewMemoryStore()

	loaded, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := snapshot.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "alice", sampleBoards()))
	require.NoError(t, store.Delete(ctx, "alice"))

	loaded, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	assert.NoError(t, store.Delete(ctx, "alice"))
}

func TestMemoryStore_EmptyHierarchyStaysEmpty(t *testing.T) {
	store := snapshot.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "alice", []*entities.Board{}))

	loaded, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Empty(t, loaded)
}
