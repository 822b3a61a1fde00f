package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/queue"
	"github.com/iliyamo/todo-list-api/internal/repository"
	"github.com/iliyamo/todo-list-api/internal/validation"
)

// PublishFunc pushes a completed-todo event to the message broker.
// Publishing is best-effort: the handler ignores the returned error and
// the request outcome never depends on the broker.
type PublishFunc func(ctx context.Context, ev queue.TodoCompletedEvent) error

// TodoHandler serves the owner-scoped todo CRUD routes. Every route is
// registered behind the token auth middleware, so a resolved user id is
// always present in the context. All repository lookups are scoped to that
// user: todos owned by someone else answer 404.
type TodoHandler struct {
	Todos   *repository.TodoRepo
	Publish PublishFunc // optional; nil disables event publishing
}

func NewTodoHandler(todos *repository.TodoRepo, publish PublishFunc) *TodoHandler {
	return &TodoHandler{Todos: todos, Publish: publish}
}

// todoReq is the write body for create and update. There is deliberately
// no owner field: ownership always comes from the authenticated caller and
// any "user" value in the request body is discarded by binding.
type todoReq struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Status      string  `json:"status" validate:"omitempty,oneof=pending completed"`
}

// List handles GET /todo and returns all todos owned by the caller.
func (h *TodoHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Todos.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*repository.Todo{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST /todo. The owner is forced to the authenticated user.
func (h *TodoHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req todoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Status == "" {
		req.Status = repository.StatusPending
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "details": validation.Details(err)})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	todo := &repository.Todo{
		UserID:      uid,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	}
	if err := h.Todos.Create(ctx, todo); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create todo"})
	}

	if todo.Status == repository.StatusCompleted {
		h.publishCompleted(todo)
	}
	return c.JSON(http.StatusCreated, todo)
}

// Get handles GET /todo/:id.
func (h *TodoHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	todo, err := h.Todos.GetByIDAndOwner(ctx, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, todo)
}

// Update handles PUT /todo/:id. All writable fields are replaced and
// re-validated; the owner never changes. Transitioning into the completed
// status emits a todo.completed event.
func (h *TodoHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req todoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Status == "" {
		req.Status = repository.StatusPending
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "details": validation.Details(err)})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Fetch the current record first: 404 before touching anything, and the
	// previous status decides whether this update is a completion.
	existing, err := h.Todos.GetByIDAndOwner(ctx, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	updated, err := h.Todos.Update(ctx, id, uid, req.Title, req.Description, req.DueDate, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	if existing.Status != repository.StatusCompleted && updated.Status == repository.StatusCompleted {
		h.publishCompleted(updated)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /todo/:id. The first delete answers 204; deleting
// the same id again answers 404.
func (h *TodoHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Todos.DeleteByIDAndOwner(ctx, id, uid); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TodoHandler) publishCompleted(t *repository.Todo) {
	if h.Publish == nil {
		return
	}
	ev := queue.TodoCompletedEvent{
		TodoID:      t.ID,
		UserID:      t.UserID,
		Username:    t.Username,
		Title:       t.Title,
		DueDate:     t.DueDate,
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() { _ = h.Publish(context.Background(), ev) }()
}
