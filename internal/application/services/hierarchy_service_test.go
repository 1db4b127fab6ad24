package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/core/internal/adapters/snapshot"
	"github.com/taskboard/core/internal/application/services"
	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

func newTestHierarchy(t *testing.T) (*services.HierarchyService, *snapshot.MemoryStore) {
	t.Helper()
	store := snapshot.NewMemoryStore()
	svc, err := services.NewHierarchyService(context.Background(), "alice", store, logger.NewNop())
	require.NoError(t, err)
	return svc, store
}

func validTaskRequest(title string) ports.CreateTaskRequest {
	return ports.CreateTaskRequest{
		Title:     title,
		StartDate: "2030-01-01",
		DueDate:   "2030-01-02",
		DueTime:   "10:00",
		Priority:  "high",
		Status:    "pending",
	}
}

func TestCreateBoard(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, err := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, board.ID)
	assert.Equal(t, "Home", board.Name)

	_, err = svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Work"})
	require.NoError(t, err)
	assert.Len(t, svc.Boards(), 2)
}

func TestCreateBoard_DuplicateName(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	_, err := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	require.NoError(t, err)

	_, err = svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	assert.ErrorIs(t, err, entities.ErrDuplicateName)
	assert.Len(t, svc.Boards(), 1)
}

func TestCreateBoard_EmptyName(t *testing.T) {
	svc, _ := newTestHierarchy(t)

	_, err := svc.CreateBoard(context.Background(), ports.CreateBoardRequest{Name: "   "})
	assert.ErrorIs(t, err, entities.ErrValidation)
	assert.Empty(t, svc.Boards())
}

func TestCreateFolder(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, err := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	require.NoError(t, err)

	folder, err := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})
	require.NoError(t, err)
	assert.Equal(t, "Chores", folder.Name)

	// Sibling uniqueness applies per board.
	_, err = svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})
	assert.ErrorIs(t, err, entities.ErrDuplicateName)

	other, err := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Work"})
	require.NoError(t, err)
	_, err = svc.CreateFolder(ctx, other.ID, ports.CreateFolderRequest{Name: "Chores"})
	assert.NoError(t, err)
}

func TestCreateFolder_BoardNotFound(t *testing.T) {
	svc, _ := newTestHierarchy(t)

	_, err := svc.CreateFolder(context.Background(), 99, ports.CreateFolderRequest{Name: "Chores"})
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestCreateTask(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, err := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	require.NoError(t, err)
	folder, err := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})
	require.NoError(t, err)

	task, err := svc.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Buy milk"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, task.ID)
	assert.Equal(t, entities.PriorityHigh, task.Priority)
	assert.Equal(t, entities.StatusPending, task.Status)
	assert.Zero(t, task.TimesUpdated)
}

func TestCreateTask_Defaults(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})

	req := validTaskRequest("Buy milk")
	req.Priority = ""
	req.Status = ""

	task, err := svc.CreateTask(ctx, board.ID, folder.ID, req)
	require.NoError(t, err)
	assert.Equal(t, entities.PriorityMedium, task.Priority)
	assert.Equal(t, entities.StatusPending, task.Status)
}

func TestCreateTask_MissingTitle(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})

	req := validTaskRequest("")
	_, err := svc.CreateTask(ctx, board.ID, folder.ID, req)
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestCreateTask_StartAfterDue(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})

	req := validTaskRequest("Buy milk")
	req.StartDate = "2025-01-05"
	req.DueDate = "2025-01-04"
	req.DueTime = "10:00"

	_, err := svc.CreateTask(ctx, board.ID, folder.ID, req)
	assert.ErrorIs(t, err, entities.ErrInvalidDateRange)

	// Failed creation leaves the folder untouched.
	boards := svc.Boards()
	require.Len(t, boards, 1)
	assert.Empty(t, boards[0].Folders[0].Tasks)
}

func TestUpdateTask_EditQuota(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})
	task, err := svc.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Buy milk"))
	require.NoError(t, err)

	// Five updates are allowed.
	for i := 1; i <= 5; i++ {
		updated, err := svc.UpdateTask(ctx, task.ID, ports.UpdateTaskRequest{
			Title:     fmt.Sprintf("Buy milk v%d", i),
			StartDate: "2030-01-01",
			DueDate:   "2030-01-02",
			DueTime:   "10:00",
			Priority:  "low",
			Status:    "active",
		})
		require.NoError(t, err)
		assert.Equal(t, i, updated.TimesUpdated)
	}

	// The sixth is rejected and the task keeps its last accepted state.
	_, err = svc.UpdateTask(ctx, task.ID, ports.UpdateTaskRequest{
		Title:     "Buy milk v6",
		StartDate: "2030-01-01",
		DueDate:   "2030-01-02",
		DueTime:   "10:00",
	})
	assert.ErrorIs(t, err, entities.ErrEditLimitExceeded)

	current := svc.FindTask(task.ID)
	require.NotNil(t, current)
	assert.Equal(t, "Buy milk v5", current.Title)
	assert.Equal(t, 5, current.TimesUpdated)
	assert.Equal(t, 0, current.RemainingEdits())
}

func TestUpdateTask_ValidationBeforeQuota(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})
	task, _ := svc.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Buy milk"))

	// A rejected update never consumes quota.
	_, err := svc.UpdateTask(ctx, task.ID, ports.UpdateTaskRequest{
		Title:     "Buy milk",
		StartDate: "2025-01-05",
		DueDate:   "2025-01-04",
		DueTime:   "10:00",
	})
	assert.ErrorIs(t, err, entities.ErrInvalidDateRange)

	current := svc.FindTask(task.ID)
	assert.Zero(t, current.TimesUpdated)
}

func TestUpdateTask_NotFound(t *testing.T) {
	svc, _ := newTestHierarchy(t)

	_, err := svc.UpdateTask(context.Background(), 42, ports.UpdateTaskRequest{
		Title:     "Anything",
		StartDate: "2030-01-01",
		DueDate:   "2030-01-02",
		DueTime:   "10:00",
	})
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestDeleteBoard_Cascades(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()
	now := time.Now()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})
	_, err := svc.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Buy milk"))
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Water plants"))
	require.NoError(t, err)

	assert.Equal(t, 2, svc.Stats(now).Pending)

	require.NoError(t, svc.DeleteBoard(ctx, board.ID))

	assert.Empty(t, svc.Boards())
	assert.Zero(t, svc.Stats(now))
}

func TestDeleteFolder(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})
	task, _ := svc.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Buy milk"))

	require.NoError(t, svc.DeleteFolder(ctx, board.ID, folder.ID))

	assert.Nil(t, svc.FindTask(task.ID))
	assert.ErrorIs(t, svc.DeleteFolder(ctx, board.ID, folder.ID), entities.ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})
	task, _ := svc.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Buy milk"))

	require.NoError(t, svc.DeleteTask(ctx, board.ID, folder.ID, task.ID))
	assert.Nil(t, svc.FindTask(task.ID))

	assert.ErrorIs(t, svc.DeleteTask(ctx, board.ID, folder.ID, task.ID), entities.ErrNotFound)
}

func TestSnapshotReload_RestoresStateAndCounters(t *testing.T) {
	svc, store := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})
	task, _ := svc.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Buy milk"))

	reloaded, err := services.NewHierarchyService(ctx, "alice", store, logger.NewNop())
	require.NoError(t, err)

	boards := reloaded.Boards()
	require.Len(t, boards, 1)
	assert.Equal(t, "Home", boards[0].Name)
	require.Len(t, boards[0].Folders, 1)
	require.Len(t, boards[0].Folders[0].Tasks, 1)
	assert.Equal(t, "Buy milk", boards[0].Folders[0].Tasks[0].Title)

	// Counters continue past the highest stored IDs.
	next, err := reloaded.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Water plants"))
	require.NoError(t, err)
	assert.Equal(t, task.ID+1, next.ID)

	other, err := reloaded.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Work"})
	require.NoError(t, err)
	assert.Greater(t, other.ID, folder.ID)
}

func TestSearch_RecordsActiveQuery(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Project Alpha"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Misc"})
	_, err := svc.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Buy milk"))
	require.NoError(t, err)

	result := svc.Search("alpha")
	require.Len(t, result, 1)
	assert.Len(t, result[0].Folders[0].Tasks, 1)

	// The recorded query keeps filtering periodic view refreshes.
	svc.Refresh(time.Now())
	view := svc.CachedView()
	require.Len(t, view, 1)
	assert.Equal(t, "Project Alpha", view[0].Name)
}

func TestClearData(t *testing.T) {
	svc, store := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})
	_, err := svc.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Buy milk"))
	require.NoError(t, err)

	require.NoError(t, svc.ClearData(ctx))

	assert.Empty(t, svc.Boards())

	stored, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, stored)
}
