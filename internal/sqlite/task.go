package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/GerardFevill/taskflow/internal/domain/task"
	"github.com/GerardFevill/taskflow/internal/repository"
)

const taskColumns = `id, ticket_id, parent_id, text, done, position, created_at`

// TaskRepository implements task.Repository for SQLite
type TaskRepository struct {
	db querier
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task and sets its ID. A parent must exist on the same
// ticket and must not be a subtask itself.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	if t.ParentID != nil {
		if err := r.checkParent(ctx, t.TicketID, *t.ParentID); err != nil {
			return err
		}
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO tasks (ticket_id, parent_id, text, done, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		t.TicketID,
		t.ParentID,
		t.Text,
		t.Done,
		t.Position,
		t.CreatedAt,
	)
	if err != nil {
		return translate("create task", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read task id: %w", err)
	}
	t.ID = id

	return nil
}

func (r *TaskRepository) checkParent(ctx context.Context, ticketID, parentID int64) error {
	var parentTicket int64
	var grandparent sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT ticket_id, parent_id FROM tasks WHERE id = ?`,
		parentID,
	).Scan(&parentTicket, &grandparent)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrInvalidHierarchy
	}
	if err != nil {
		return fmt.Errorf("failed to load parent task: %w", err)
	}
	if parentTicket != ticketID || grandparent.Valid {
		return repository.ErrInvalidHierarchy
	}
	return nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, id int64) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return t, nil
}

// ListByTicket returns every task of a ticket ordered by (position, id)
func (r *TaskRepository) ListByTicket(ctx context.Context, ticketID int64) ([]task.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE ticket_id = ?
		ORDER BY position ASC, id ASC
	`
	return r.list(ctx, query, ticketID)
}

// ListChildren returns the direct subtasks of a task ordered by (position, id)
func (r *TaskRepository) ListChildren(ctx context.Context, parentID int64) ([]task.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE parent_id = ?
		ORDER BY position ASC, id ASC
	`
	return r.list(ctx, query, parentID)
}

func (r *TaskRepository) list(ctx context.Context, query string, arg int64) ([]task.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// Update persists text, done and position
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET text = ?, done = ?, position = ? WHERE id = ?`,
		t.Text,
		t.Done,
		t.Position,
		t.ID,
	)
	if err != nil {
		return translate("update task", err)
	}

	return requireAffected(result)
}

// Delete removes a task and, through the cascade, its subtasks
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return translate("delete task", err)
	}

	return requireAffected(result)
}

// NextPosition returns the position after the last sibling. A nil parent
// selects the top-level tasks of the ticket.
func (r *TaskRepository) NextPosition(ctx context.Context, ticketID int64, parentID *int64) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM tasks WHERE ticket_id = ? AND parent_id IS ?`,
		ticketID,
		parentID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute task position: %w", err)
	}
	return next, nil
}

func scanTask(row scanner) (*task.Task, error) {
	var t task.Task
	var parent sql.NullInt64
	err := row.Scan(
		&t.ID,
		&t.TicketID,
		&parent,
		&t.Text,
		&t.Done,
		&t.Position,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		t.ParentID = &parent.Int64
	}
	return &t, nil
}
