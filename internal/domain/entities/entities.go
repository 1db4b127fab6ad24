package entities

import (
	"errors"
	"sort"
	"time"
)

// Common errors
var (
	ErrValidation        = errors.New("missing required field")
	ErrDuplicateName     = errors.New("name is already in use")
	ErrNotFound          = errors.New("not found")
	ErrInvalidDateRange  = errors.New("start date cannot be after due date")
	ErrEditLimitExceeded = errors.New("task cannot be updated more than 5 times")
)

// MaxTaskEdits is the number of successful updates allowed per task.
// Once reached the task is read-only except for deletion.
const MaxTaskEdits = 5

// Enums and types
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Board is the top-level grouping of work. Folder display order is
// insertion order.
type Board struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	Folders     []*Folder `json:"folders"`
}

// Folder groups tasks within a board. Task display order is
// priority-derived, not insertion order.
type Folder struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Tasks       []*Task `json:"tasks"`
}

// Task is the atomic unit of work.
type Task struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	StartDate    time.Time `json:"start_date"`
	DueDate      time.Time `json:"due_date"`
	Priority     Priority  `json:"priority"`
	Status       Status    `json:"status"`
	TimesUpdated int       `json:"times_updated"`
	CreatedAt    time.Time `json:"created_at"`
}

// Business logic methods for Board
func (b *Board) FindFolder(folderID int64) *Folder {
	for _, f := range b.Folders {
		if f.ID == folderID {
			return f
		}
	}
	return nil
}

func (b *Board) HasFolderNamed(name string) bool {
	for _, f := range b.Folders {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (b *Board) Clone() *Board {
	clone := *b
	clone.Folders = make([]*Folder, len(b.Folders))
	for i, f := range b.Folders {
		clone.Folders[i] = f.Clone()
	}
	return &clone
}

// Business logic methods for Folder
func (f *Folder) FindTask(taskID int64) *Task {
	for _, t := range f.Tasks {
		if t.ID == taskID {
			return t
		}
	}
	return nil
}

func (f *Folder) Clone() *Folder {
	clone := *f
	clone.Tasks = make([]*Task, len(f.Tasks))
	for i, t := range f.Tasks {
		clone.Tasks[i] = t.Clone()
	}
	return &clone
}

// Business logic methods for Task
func (t *Task) Clone() *Task {
	clone := *t
	return &clone
}

// RemainingEdits reports how many successful updates the task has left,
// floored at zero.
func (t *Task) RemainingEdits() int {
	remaining := MaxTaskEdits - t.TimesUpdated
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (t *Task) CanEdit() bool {
	return t.RemainingEdits() > 0
}

// IsOverdue reports whether the due date has passed. A completed task is
// never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate.Before(now) && t.Status != StatusCompleted
}

// CloneBoards deep-copies a whole hierarchy.
func CloneBoards(boards []*Board) []*Board {
	clones := make([]*Board, len(boards))
	for i, b := range boards {
		clones[i] = b.Clone()
	}
	return clones
}

// SortTasksByPriority returns a new slice ordered high, medium, low.
// The sort is stable: tasks of equal priority keep their insertion order.
func SortTasksByPriority(tasks []*Task) []*Task {
	sorted := make([]*Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.weight() < sorted[j].Priority.weight()
	})
	return sorted
}

func (p Priority) weight() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Utility methods
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted:
		return true
	default:
		return false
	}
}
