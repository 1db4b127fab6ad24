package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/application/services"
	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// SessionHandler handles login and logout
type SessionHandler struct {
	sessions *services.SessionService
	logger   *logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *services.SessionService, logger *logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Login handles user login
func (h *SessionHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.sessions.Login(c.Request().Context(), req.Username)
	if err != nil {
		h.logger.Error("Login failed", "error", err, "username", req.Username)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token, Username: req.Username})
}

// Logout handles user logout
func (h *SessionHandler) Logout(c echo.Context) error {
	h.sessions.Logout(currentUser(c))
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// BoardHandler handles board-level requests
type BoardHandler struct {
	sessions *services.SessionService
	logger   *logger.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(sessions *services.SessionService, logger *logger.Logger) *BoardHandler {
	return &BoardHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// ListBoards returns the rendered hierarchy. An optional "q" query
// filters it; tasks carry live countdown text and remaining edits.
func (h *BoardHandler) ListBoards(c echo.Context) error {
	store, err := h.store(c)
	if err != nil {
		return err
	}

	view := store.View(time.Now(), c.QueryParam("q"))
	return c.JSON(http.StatusOK, view)
}

// CreateBoard handles board creation
func (h *BoardHandler) CreateBoard(c echo.Context) error {
	var req ports.CreateBoardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	store, err := h.store(c)
	if err != nil {
		return err
	}

	board, err := store.CreateBoard(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create board failed", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, board)
}

// DeleteBoard removes a board and everything under it
func (h *BoardHandler) DeleteBoard(c echo.Context) error {
	boardID, err := pathID(c, "boardId")
	if err != nil {
		return err
	}

	store, err := h.store(c)
	if err != nil {
		return err
	}

	if err := store.DeleteBoard(c.Request().Context(), boardID); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Board deleted"})
}

// ClearData wipes all boards and the stored snapshot for the user
func (h *BoardHandler) ClearData(c echo.Context) error {
	store, err := h.store(c)
	if err != nil {
		return err
	}

	if err := store.ClearData(c.Request().Context()); err != nil {
		h.logger.Error("Clear data failed", "error", err, "user_id", currentUser(c))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to clear data")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "All data cleared"})
}

func (h *BoardHandler) store(c echo.Context) (*services.HierarchyService, error) {
	return storeFromContext(c, h.sessions)
}

// FolderHandler handles folder-level requests
type FolderHandler struct {
	sessions *services.SessionService
	logger   *logger.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(sessions *services.SessionService, logger *logger.Logger) *FolderHandler {
	return &FolderHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// CreateFolder handles folder creation inside a board
func (h *FolderHandler) CreateFolder(c echo.Context) error {
	boardID, err := pathID(c, "boardId")
	if err != nil {
		return err
	}

	var req ports.CreateFolderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	store, err := storeFromContext(c, h.sessions)
	if err != nil {
		return err
	}

	folder, err := store.CreateFolder(c.Request().Context(), boardID, req)
	if err != nil {
		h.logger.Error("Create folder failed", "error", err, "board_id", boardID)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, folder)
}

// DeleteFolder removes a folder and its tasks
func (h *FolderHandler) DeleteFolder(c echo.Context) error {
	boardID, err := pathID(c, "boardId")
	if err != nil {
		return err
	}
	folderID, err := pathID(c, "folderId")
	if err != nil {
		return err
	}

	store, err := storeFromContext(c, h.sessions)
	if err != nil {
		return err
	}

	if err := store.DeleteFolder(c.Request().Context(), boardID, folderID); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Folder deleted"})
}

// TaskHandler handles task-level requests
type TaskHandler struct {
	sessions *services.SessionService
	logger   *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(sessions *services.SessionService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// CreateTask handles task creation inside a folder
func (h *TaskHandler) CreateTask(c echo.Context) error {
	boardID, err := pathID(c, "boardId")
	if err != nil {
		return err
	}
	folderID, err := pathID(c, "folderId")
	if err != nil {
		return err
	}

	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	store, err := storeFromContext(c, h.sessions)
	if err != nil {
		return err
	}

	task, err := store.CreateTask(c.Request().Context(), boardID, folderID, req)
	if err != nil {
		h.logger.Error("Create task failed", "error", err, "board_id", boardID, "folder_id", folderID)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// GetTask returns a task located by ID across the whole hierarchy
func (h *TaskHandler) GetTask(c echo.Context) error {
	taskID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	store, err := storeFromContext(c, h.sessions)
	if err != nil {
		return err
	}

	task := store.FindTask(taskID)
	if task == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}

	return c.JSON(http.StatusOK, task)
}

// UpdateTask overwrites a task's mutable fields, counting against its
// edit quota
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	taskID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	store, err := storeFromContext(c, h.sessions)
	if err != nil {
		return err
	}

	task, err := store.UpdateTask(c.Request().Context(), taskID, req)
	if err != nil {
		h.logger.Error("Update task failed", "error", err, "task_id", taskID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task from its folder
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	boardID, err := pathID(c, "boardId")
	if err != nil {
		return err
	}
	folderID, err := pathID(c, "folderId")
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "taskId")
	if err != nil {
		return err
	}

	store, err := storeFromContext(c, h.sessions)
	if err != nil {
		return err
	}

	if err := store.DeleteTask(c.Request().Context(), boardID, folderID, taskID); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted"})
}

// QueryHandler handles search and statistics
type QueryHandler struct {
	sessions *services.SessionService
	logger   *logger.Logger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(sessions *services.SessionService, logger *logger.Logger) *QueryHandler {
	return &QueryHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Search returns the filtered hierarchy for a text query
func (h *QueryHandler) Search(c echo.Context) error {
	store, err := storeFromContext(c, h.sessions)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, store.Search(c.QueryParam("q")))
}

// Stats returns task counts by status plus the overdue count
func (h *QueryHandler) Stats(c echo.Context) error {
	store, err := storeFromContext(c, h.sessions)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, store.Stats(time.Now()))
}

// Utility functions and helper types

func currentUser(c echo.Context) string {
	if user, ok := c.Get("user").(string); ok {
		return user
	}
	return ""
}

func storeFromContext(c echo.Context, sessions *services.SessionService) (*services.HierarchyService, error) {
	username := currentUser(c)
	if username == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing session")
	}

	store, err := sessions.Store(c.Request().Context(), username)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to load user data")
	}
	return store, nil
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// domainError maps the domain error taxonomy onto HTTP statuses. The
// wrapped message is passed through for the renderer to display
// verbatim.
func domainError(err error) error {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrDuplicateName):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrEditLimitExceeded):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrValidation), errors.Is(err, entities.ErrInvalidDateRange):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidSession):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}

// Request/Response types
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
