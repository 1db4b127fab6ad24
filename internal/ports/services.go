package ports

import (
	"time"

	"github.com/taskboard/core/internal/domain/entities"
)

// Request types

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
}

type CreateBoardRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type CreateFolderRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CreateTaskRequest carries user-supplied primitives. StartDate is a
// bare date (2006-01-02); DueDate and DueTime combine into the due
// timestamp (2006-01-02 plus 15:04).
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" validate:"required"`
	DueDate     string `json:"due_date" validate:"required"`
	DueTime     string `json:"due_time" validate:"required"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      string `json:"status" validate:"omitempty,oneof=pending active completed"`
}

type UpdateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" validate:"required"`
	DueDate     string `json:"due_date" validate:"required"`
	DueTime     string `json:"due_time" validate:"required"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      string `json:"status" validate:"omitempty,oneof=pending active completed"`
}

// View types consumed by the renderer. Tasks appear in priority order
// and carry the derived display fields alongside the raw record.

type TaskView struct {
	ID             int64             `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	StartDate      time.Time         `json:"start_date"`
	DueDate        time.Time         `json:"due_date"`
	Priority       entities.Priority `json:"priority"`
	Status         entities.Status   `json:"status"`
	TimesUpdated   int               `json:"times_updated"`
	CreatedAt      time.Time         `json:"created_at"`
	CountdownText  string            `json:"countdown_text"`
	Expired        bool              `json:"expired"`
	Overdue        bool              `json:"overdue"`
	RemainingEdits int               `json:"remaining_edits"`
}

type FolderView struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Tasks       []TaskView `json:"tasks"`
}

type BoardView struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Color       string       `json:"color,omitempty"`
	Folders     []FolderView `json:"folders"`
}
