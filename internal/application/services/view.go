package services

import (
	"time"

	"github.com/taskboard/core/internal/domain/countdown"
	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/domain/search"
	"github.com/taskboard/core/internal/ports"
)

// View renders the hierarchy (filtered by query when non-empty) for the
// renderer collaborator: tasks in priority order with countdown text,
// overdue classification, and remaining-edit counts attached.
//
// When the query matches the active one and the cache is warm, the view
// the Refresher computed on its last tick is served as-is, so countdown
// text advances at the tick cadence rather than per request. Mutations
// and query changes invalidate the cache, which keeps it at most one
// tick stale and never semantically wrong.
func (s *HierarchyService) View(now time.Time, query string) []ports.BoardView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if query == s.activeQuery && s.cachedView != nil {
		return s.cachedView
	}

	s.activeQuery = query
	s.cachedView = buildView(search.Filter(s.boards, query), now)
	return s.cachedView
}

// Refresh recomputes the cached rendered view, honoring the active
// search query. Called once a second by the Refresher so countdown text
// stays live between user actions.
func (s *HierarchyService) Refresh(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cachedView = buildView(search.Filter(s.boards, s.activeQuery), now)
}

// CachedView returns the last refreshed view, computing one on the spot
// if the refresher has not run yet.
func (s *HierarchyService) CachedView() []ports.BoardView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cachedView == nil {
		return buildView(search.Filter(s.boards, s.activeQuery), time.Now())
	}
	return s.cachedView
}

func buildView(boards []*entities.Board, now time.Time) []ports.BoardView {
	views := make([]ports.BoardView, 0, len(boards))
	for _, board := range boards {
		bv := ports.BoardView{
			ID:          board.ID,
			Name:        board.Name,
			Description: board.Description,
			Color:       board.Color,
			Folders:     make([]ports.FolderView, 0, len(board.Folders)),
		}
		for _, folder := range board.Folders {
			fv := ports.FolderView{
				ID:          folder.ID,
				Name:        folder.Name,
				Description: folder.Description,
				Tasks:       make([]ports.TaskView, 0, len(folder.Tasks)),
			}
			for _, task := range entities.SortTasksByPriority(folder.Tasks) {
				fv.Tasks = append(fv.Tasks, buildTaskView(task, now))
			}
			bv.Folders = append(bv.Folders, fv)
		}
		views = append(views, bv)
	}
	return views
}

func buildTaskView(task *entities.Task, now time.Time) ports.TaskView {
	cd := countdown.Compute(task.DueDate, now)
	return ports.TaskView{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		StartDate:      task.StartDate,
		DueDate:        task.DueDate,
		Priority:       task.Priority,
		Status:         task.Status,
		TimesUpdated:   task.TimesUpdated,
		CreatedAt:      task.CreatedAt,
		CountdownText:  cd.Text,
		Expired:        cd.Expired,
		Overdue:        cd.Expired && task.Status != entities.StatusCompleted,
		RemainingEdits: task.RemainingEdits(),
	}
}
