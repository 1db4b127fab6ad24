package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/core/internal/ports"
)

func TestView_OrdersTasksByPriority(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})

	low := validTaskRequest("Low task")
	low.Priority = "low"
	medium := validTaskRequest("Medium task")
	medium.Priority = "medium"
	high := validTaskRequest("High task")
	high.Priority = "high"

	// Inserted low, high, medium; rendered high, medium, low.
	for _, req := range []ports.CreateTaskRequest{low, high, medium} {
		_, err := svc.CreateTask(ctx, board.ID, folder.ID, req)
		require.NoError(t, err)
	}

	view := svc.View(time.Now(), "")
	require.Len(t, view, 1)
	require.Len(t, view[0].Folders, 1)
	tasks := view[0].Folders[0].Tasks
	require.Len(t, tasks, 3)
	assert.Equal(t, "High task", tasks[0].Title)
	assert.Equal(t, "Medium task", tasks[1].Title)
	assert.Equal(t, "Low task", tasks[2].Title)
}

func TestView_AttachesCountdownAndEdits(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})
	_, err := svc.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Buy milk"))
	require.NoError(t, err)

	// Due 2030-01-02 10:00; one day and one hour earlier.
	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	view := svc.View(now, "")

	task := view[0].Folders[0].Tasks[0]
	assert.Equal(t, "1d 1h 0m 0s left", task.CountdownText)
	assert.False(t, task.Expired)
	assert.False(t, task.Overdue)
	assert.Equal(t, 5, task.RemainingEdits)
}

func TestView_MarksOverdueTasks(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})

	pending := validTaskRequest("Late task")
	done := validTaskRequest("Finished task")
	done.Status = "completed"
	_, err := svc.CreateTask(ctx, board.ID, folder.ID, pending)
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, board.ID, folder.ID, done)
	require.NoError(t, err)

	now := time.Date(2030, 1, 2, 10, 0, 5, 0, time.UTC)
	view := svc.View(now, "")

	tasks := view[0].Folders[0].Tasks
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.True(t, task.Expired)
		assert.Equal(t, "Overdue by 5s", task.CountdownText)
		if task.Title == "Late task" {
			assert.True(t, task.Overdue)
		} else {
			// A completed task past due is expired but never overdue.
			assert.False(t, task.Overdue)
		}
	}
}

func TestView_ServesRefreshedCache(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})
	_, err := svc.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Buy milk"))
	require.NoError(t, err)

	// Prime the cache, then let a tick advance it.
	prime := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	_ = svc.View(prime, "")

	tick := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	svc.Refresh(tick)

	// A read with the same query serves the tick's view verbatim:
	// countdown text reflects the tick time, not the request time.
	later := time.Date(2030, 1, 2, 9, 59, 0, 0, time.UTC)
	view := svc.View(later, "")
	require.Len(t, view, 1)
	assert.Equal(t, "1d 0h 0m 0s left", view[0].Folders[0].Tasks[0].CountdownText)
}

func TestView_MutationInvalidatesCache(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})
	_, err := svc.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Buy milk"))
	require.NoError(t, err)

	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	cached := svc.View(now, "")
	require.Len(t, cached[0].Folders[0].Tasks, 1)

	// A mutation must not leave pre-mutation state in the cache.
	_, err = svc.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Water plants"))
	require.NoError(t, err)

	view := svc.View(now, "")
	require.Len(t, view, 1)
	assert.Len(t, view[0].Folders[0].Tasks, 2)
}

func TestView_QueryChangeRecomputes(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	board, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	folder, _ := svc.CreateFolder(ctx, board.ID, ports.CreateFolderRequest{Name: "Chores"})
	_, err := svc.CreateTask(ctx, board.ID, folder.ID, validTaskRequest("Buy milk"))
	require.NoError(t, err)

	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	full := svc.View(now, "")
	require.Len(t, full, 1)

	// Switching the query must not serve the unfiltered cache.
	filtered := svc.View(now, "plants")
	assert.Empty(t, filtered)

	// And a raw Search changing the active query drops the stale cache.
	_ = svc.Search("milk")
	svc.Refresh(now)
	view := svc.View(now, "milk")
	require.Len(t, view, 1)
	assert.Equal(t, "Buy milk", view[0].Folders[0].Tasks[0].Title)
}

func TestView_AppliesQuery(t *testing.T) {
	svc, _ := newTestHierarchy(t)
	ctx := context.Background()

	home, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Home"})
	homeFolder, _ := svc.CreateFolder(ctx, home.ID, ports.CreateFolderRequest{Name: "Chores"})
	_, err := svc.CreateTask(ctx, home.ID, homeFolder.ID, validTaskRequest("Buy milk"))
	require.NoError(t, err)

	work, _ := svc.CreateBoard(ctx, ports.CreateBoardRequest{Name: "Work"})
	workFolder, _ := svc.CreateFolder(ctx, work.ID, ports.CreateFolderRequest{Name: "Reports"})
	_, err = svc.CreateTask(ctx, work.ID, workFolder.ID, validTaskRequest("Quarterly numbers"))
	require.NoError(t, err)

	view := svc.View(time.Now(), "milk")
	require.Len(t, view, 1)
	assert.Equal(t, "Home", view[0].Name)
}
