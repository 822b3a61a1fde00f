// This file defines the Todo model and repository methods for CRUD and
// lookup operations. A Todo belongs to exactly one user; every lookup that
// serves an authenticated caller is scoped by owner so records belonging to
// other users behave as if they do not exist. The repository itself makes
// no authorization decisions beyond that mechanical filtering.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Todo represents a todo entity persisted in the database. UserID is set
// once at creation from the authenticated caller and never updated.
// Username is read-only, joined from the users table for API responses.
// DueDate is an optional calendar date in YYYY-MM-DD form.
type Todo struct {
	ID          uint64  `json:"id"`
	UserID      uint64  `json:"user"`
	Username    string  `json:"username"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// Todo status values. The API rejects anything else at the request
// boundary.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

const dueDateLayout = "2006-01-02"

// scanTodo reads one joined todo row. Date and timestamp columns arrive
// from the driver as time.Time (the DSN sets parseTime) and are formatted
// here, so the JSON shape does not depend on which driver produced the
// row.
func scanTodo(scan func(dest ...any) error) (*Todo, error) {
	var t Todo
	var due sql.NullTime
	var created, updated time.Time
	err := scan(&t.ID, &t.UserID, &t.Username, &t.Title, &t.Description, &due, &t.Status,
		&created, &updated)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Time.Format(dueDateLayout)
		t.DueDate = &d
	}
	t.CreatedAt = created.UTC().Format(time.RFC3339)
	t.UpdatedAt = updated.UTC().Format(time.RFC3339)
	return &t, nil
}

// TodoRepo encapsulates all database queries related to todos. It depends
// on a sql.DB connection which is configured at startup.
type TodoRepo struct {
	db *sql.DB
}

// NewTodoRepo constructs a TodoRepo with the provided DB handle. This
// allows dependency injection of the database in tests and at startup.
func NewTodoRepo(db *sql.DB) *TodoRepo {
	return &TodoRepo{db: db}
}

// Create inserts a new todo for the given owner. On success the todo's ID,
// username and timestamp fields are populated via a follow-up SELECT so
// callers receive a fully populated record.
func (r *TodoRepo) Create(ctx context.Context, t *Todo) error {
	const qInsert = `INSERT INTO todos (user_id, title, description, due_date, status)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, t.UserID, t.Title, t.Description, t.DueDate, t.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	got, err := r.GetByIDAndOwner(ctx, t.ID, t.UserID)
	if err != nil {
		return err
	}
	*t = *got
	return nil
}

// GetByIDAndOwner fetches a todo by id but only if it belongs to the
// specified owner. If the todo doesn't exist or is owned by someone else,
// ErrTodoNotFound is returned.
func (r *TodoRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*Todo, error) {
	const q = `SELECT t.id, t.user_id, u.username, t.title, t.description, t.due_date, t.status,
	                  t.created_at, t.updated_at
	           FROM todos t JOIN users u ON u.id = t.user_id
	           WHERE t.id = ? AND t.user_id = ?`
	t, err := scanTodo(r.db.QueryRowContext(ctx, q, id, ownerID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListByOwner returns all todos for a specific owner ordered by id.
func (r *TodoRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*Todo, error) {
	const q = `SELECT t.id, t.user_id, u.username, t.title, t.description, t.due_date, t.status,
	                  t.created_at, t.updated_at
	           FROM todos t JOIN users u ON u.id = t.user_id
	           WHERE t.user_id = ? ORDER BY t.id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Todo
	for rows.Next() {
		t, err := scanTodo(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the mutable fields of a todo owned by ownerID and
// returns the fresh record. The owner column itself is never part of the
// UPDATE, so ownership cannot change after creation. Existence is checked
// first because an UPDATE that changes nothing reports zero affected rows
// on MySQL.
func (r *TodoRepo) Update(ctx context.Context, id, ownerID uint64, title, description string, dueDate *string, status string) (*Todo, error) {
	if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		return nil, err
	}
	const q = `UPDATE todos
	           SET title = ?, description = ?, due_date = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND user_id = ?`
	if _, err := r.db.ExecContext(ctx, q, title, description, dueDate, status, id, ownerID); err != nil {
		return nil, err
	}
	return r.GetByIDAndOwner(ctx, id, ownerID)
}

// DeleteByIDAndOwner removes a todo if it belongs to the owner. It returns
// ErrTodoNotFound when no row is deleted, so a repeated delete of the same
// id reports not-found rather than failing in any other way.
func (r *TodoRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM todos WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTodoNotFound
	}
	return nil
}
