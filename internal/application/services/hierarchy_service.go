package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/domain/search"
	"github.com/taskboard/core/internal/domain/stats"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// HierarchyService owns one user's in-memory board hierarchy and
// enforces its rules: sibling name uniqueness, the start/due date
// ordering check, the per-task edit quota, and cascading deletes.
// Every mutation is all-or-nothing and, on success, is snapshotted
// synchronously to the snapshot store.
//
// The service is constructed per logged-in identity and discarded at
// logout. The mutex exists because the HTTP transport is concurrent;
// the model itself stays single-writer.
type HierarchyService struct {
	mu     sync.Mutex
	userID string
	boards []*entities.Board

	// ID counters are strictly monotonic and never reused within a
	// session. lastTaskID is restored from the snapshot so reloaded
	// hierarchies keep counting from their highest task ID.
	lastID     int64
	lastTaskID int64

	// activeQuery mirrors the renderer's search box so the periodic
	// refresh re-runs the search instead of the plain listing.
	activeQuery string
	cachedView  []ports.BoardView

	snapshots ports.SnapshotStore
	logger    *logger.Logger
}

// NewHierarchyService loads the user's snapshot (if any) and restores
// the ID counters from it.
func NewHierarchyService(ctx context.Context, userID string, snapshots ports.SnapshotStore, appLogger *logger.Logger) (*HierarchyService, error) {
	boards, err := snapshots.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for %q: %w", userID, err)
	}

	s := &HierarchyService{
		userID:    userID,
		boards:    boards,
		snapshots: snapshots,
		logger:    appLogger.WithUserID(userID),
	}
	s.restoreCounters()

	return s, nil
}

func (s *HierarchyService) restoreCounters() {
	for _, board := range s.boards {
		if board.ID > s.lastID {
			s.lastID = board.ID
		}
		for _, folder := range board.Folders {
			if folder.ID > s.lastID {
				s.lastID = folder.ID
			}
			for _, task := range folder.Tasks {
				if task.ID > s.lastTaskID {
					s.lastTaskID = task.ID
				}
			}
		}
	}
}

// UserID returns the identity this store is bound to.
func (s *HierarchyService) UserID() string {
	return s.userID
}

// CreateBoard creates a new board. Board names are unique among sibling
// boards, case-sensitive exact-match.
func (s *HierarchyService) CreateBoard(ctx context.Context, req ports.CreateBoardRequest) (*entities.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("board name: %w", entities.ErrValidation)
	}

	for _, board := range s.boards {
		if board.Name == req.Name {
			return nil, fmt.Errorf("board %q: %w", req.Name, entities.ErrDuplicateName)
		}
	}

	board := &entities.Board{
		ID:          s.nextID(),
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Folders:     []*entities.Folder{},
	}
	s.boards = append(s.boards, board)
	s.persistLocked(ctx)

	s.logger.Info("Board created", "board_id", board.ID, "name", board.Name)

	return board.Clone(), nil
}

// DeleteBoard removes a board and its full subtree.
func (s *HierarchyService) DeleteBoard(ctx context.Context, boardID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, board := range s.boards {
		if board.ID == boardID {
			s.boards = append(s.boards[:i], s.boards[i+1:]...)
			s.persistLocked(ctx)
			s.logger.Info("Board deleted", "board_id", boardID)
			return nil
		}
	}

	return fmt.Errorf("board %d: %w", boardID, entities.ErrNotFound)
}

// CreateFolder creates a folder inside a board. Folder names are unique
// among siblings within the same board.
func (s *HierarchyService) CreateFolder(ctx context.Context, boardID int64, req ports.CreateFolderRequest) (*entities.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("folder name: %w", entities.ErrValidation)
	}

	board := s.findBoardLocked(boardID)
	if board == nil {
		return nil, fmt.Errorf("board %d: %w", boardID, entities.ErrNotFound)
	}

	if board.HasFolderNamed(req.Name) {
		return nil, fmt.Errorf("folder %q: %w", req.Name, entities.ErrDuplicateName)
	}

	folder := &entities.Folder{
		ID:          s.nextID(),
		Name:        req.Name,
		Description: req.Description,
		Tasks:       []*entities.Task{},
	}
	board.Folders = append(board.Folders, folder)
	s.persistLocked(ctx)

	s.logger.Info("Folder created", "board_id", boardID, "folder_id", folder.ID, "name", folder.Name)

	return folder.Clone(), nil
}

// DeleteFolder removes a folder and its tasks.
func (s *HierarchyService) DeleteFolder(ctx context.Context, boardID, folderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	board := s.findBoardLocked(boardID)
	if board == nil {
		return fmt.Errorf("board %d: %w", boardID, entities.ErrNotFound)
	}

	for i, folder := range board.Folders {
		if folder.ID == folderID {
			board.Folders = append(board.Folders[:i], board.Folders[i+1:]...)
			s.persistLocked(ctx)
			s.logger.Info("Folder deleted", "board_id", boardID, "folder_id", folderID)
			return nil
		}
	}

	return fmt.Errorf("folder %d: %w", folderID, entities.ErrNotFound)
}

// CreateTask creates a task inside a folder. The start date must not be
// after the combined due date and time.
func (s *HierarchyService) CreateTask(ctx context.Context, boardID, folderID int64, req ports.CreateTaskRequest) (*entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startDate, dueDate, err := parseSchedule(req.StartDate, req.DueDate, req.DueTime)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("task title: %w", entities.ErrValidation)
	}

	priority, status, err := parsePriorityStatus(req.Priority, req.Status)
	if err != nil {
		return nil, err
	}

	board := s.findBoardLocked(boardID)
	if board == nil {
		return nil, fmt.Errorf("board %d: %w", boardID, entities.ErrNotFound)
	}
	folder := board.FindFolder(folderID)
	if folder == nil {
		return nil, fmt.Errorf("folder %d: %w", folderID, entities.ErrNotFound)
	}

	task := &entities.Task{
		ID:           s.nextTaskID(),
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    startDate,
		DueDate:      dueDate,
		Priority:     priority,
		Status:       status,
		TimesUpdated: 0,
		CreatedAt:    time.Now(),
	}
	folder.Tasks = append(folder.Tasks, task)
	s.persistLocked(ctx)

	s.logger.Info("Task created", "task_id", task.ID, "title", task.Title, "folder_id", folderID)

	return task.Clone(), nil
}

// UpdateTask locates a task by ID across the entire hierarchy and
// overwrites its mutable fields. A task that has reached the edit quota
// is rejected untouched.
func (s *HierarchyService) UpdateTask(ctx context.Context, taskID int64, req ports.UpdateTaskRequest) (*entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.findTaskLocked(taskID)
	if task == nil {
		return nil, fmt.Errorf("task %d: %w", taskID, entities.ErrNotFound)
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("task title: %w", entities.ErrValidation)
	}
	startDate, dueDate, err := parseSchedule(req.StartDate, req.DueDate, req.DueTime)
	if err != nil {
		return nil, err
	}
	priority, status, err := parsePriorityStatus(req.Priority, req.Status)
	if err != nil {
		return nil, err
	}

	if !task.CanEdit() {
		return nil, fmt.Errorf("task %d: %w", taskID, entities.ErrEditLimitExceeded)
	}

	task.TimesUpdated++
	task.Title = req.Title
	task.Description = req.Description
	task.StartDate = startDate
	task.DueDate = dueDate
	task.Priority = priority
	task.Status = status
	s.persistLocked(ctx)

	s.logger.Info("Task updated", "task_id", taskID, "times_updated", task.TimesUpdated)

	return task.Clone(), nil
}

// DeleteTask removes a task from its folder.
func (s *HierarchyService) DeleteTask(ctx context.Context, boardID, folderID, taskID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	board := s.findBoardLocked(boardID)
	if board == nil {
		return fmt.Errorf("board %d: %w", boardID, entities.ErrNotFound)
	}
	folder := board.FindFolder(folderID)
	if folder == nil {
		return fmt.Errorf("folder %d: %w", folderID, entities.ErrNotFound)
	}

	for i, task := range folder.Tasks {
		if task.ID == taskID {
			folder.Tasks = append(folder.Tasks[:i], folder.Tasks[i+1:]...)
			s.persistLocked(ctx)
			s.logger.Info("Task deleted", "task_id", taskID)
			return nil
		}
	}

	return fmt.Errorf("task %d: %w", taskID, entities.ErrNotFound)
}

// FindTask returns a copy of the task with the given ID, or nil when it
// does not exist anywhere in the hierarchy.
func (s *HierarchyService) FindTask(taskID int64) *entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task := s.findTaskLocked(taskID); task != nil {
		return task.Clone()
	}
	return nil
}

// Boards returns a deep copy of the hierarchy.
func (s *HierarchyService) Boards() []*entities.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entities.CloneBoards(s.boards)
}

// Search returns a filtered copy of the hierarchy and records the query
// as the active one for the periodic refresh.
func (s *HierarchyService) Search(query string) []*entities.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	if query != s.activeQuery {
		s.activeQuery = query
		s.cachedView = nil
	}
	return search.Filter(s.boards, query)
}

// Stats aggregates task counts across the hierarchy.
func (s *HierarchyService) Stats(now time.Time) stats.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stats.Compute(s.boards, now)
}

// ClearData wipes the user's boards and deletes the stored snapshot.
// ID counters are not reset: IDs are never reused within a session.
func (s *HierarchyService) ClearData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.boards = nil
	s.activeQuery = ""
	s.cachedView = nil

	if err := s.snapshots.Delete(ctx, s.userID); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	s.logger.Info("User data cleared")
	return nil
}

func (s *HierarchyService) findBoardLocked(boardID int64) *entities.Board {
	for _, board := range s.boards {
		if board.ID == boardID {
			return board
		}
	}
	return nil
}

func (s *HierarchyService) findTaskLocked(taskID int64) *entities.Task {
	for _, board := range s.boards {
		for _, folder := range board.Folders {
			if task := folder.FindTask(taskID); task != nil {
				return task
			}
		}
	}
	return nil
}

func (s *HierarchyService) nextID() int64 {
	s.lastID++
	return s.lastID
}

func (s *HierarchyService) nextTaskID() int64 {
	s.lastTaskID++
	return s.lastTaskID
}

// persistLocked snapshots the full hierarchy after a successful
// mutation. Persistence failures are logged, not propagated: the
// in-memory state stays authoritative and the next mutation rewrites
// the whole snapshot anyway. The cached view is dropped so reads never
// serve pre-mutation state.
func (s *HierarchyService) persistLocked(ctx context.Context) {
	s.cachedView = nil
	if err := s.snapshots.Save(ctx, s.userID, s.boards); err != nil {
		s.logger.Errorw("Failed to persist snapshot", "error", err)
	}
}

func parseSchedule(startDate, dueDate, dueTime string) (time.Time, time.Time, error) {
	if startDate == "" || dueDate == "" || dueTime == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("task schedule: %w", entities.ErrValidation)
	}

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date %q: %w", startDate, entities.ErrValidation)
	}

	due, err := time.Parse(dateTimeLayout, dueDate+" "+dueTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("due date %q %q: %w", dueDate, dueTime, entities.ErrValidation)
	}

	if start.After(due) {
		return time.Time{}, time.Time{}, fmt.Errorf("start %s, due %s: %w", startDate, dueDate, entities.ErrInvalidDateRange)
	}

	return start, due, nil
}

func parsePriorityStatus(priority, status string) (entities.Priority, entities.Status, error) {
	p := entities.PriorityMedium
	if priority != "" {
		p = entities.Priority(priority)
		if !p.IsValid() {
			return "", "", fmt.Errorf("priority %q: %w", priority, entities.ErrValidation)
		}
	}

	st := entities.StatusPending
	if status != "" {
		st = entities.Status(status)
		if !st.IsValid() {
			return "", "", fmt.Errorf("status %q: %w", status, entities.ErrValidation)
		}
	}

	return p, st, nil
}
