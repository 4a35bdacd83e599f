package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/GerardFevill/taskflow/internal/domain/ticket"
	"github.com/GerardFevill/taskflow/internal/repository"
)

const ticketColumns = `id, project_id, title, description, status, priority, position, due_date, created_at, updated_at`

// TicketRepository implements ticket.Repository for SQLite
type TicketRepository struct {
	db querier
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create inserts a ticket and sets its ID
func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}

	query := `
		INSERT INTO tickets (project_id, title, description, status, priority, position, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		t.ProjectID,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.Position,
		t.DueDate,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return translate("create ticket", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read ticket id: %w", err)
	}
	t.ID = id

	return nil
}

// Get retrieves a ticket by ID
func (r *TicketRepository) Get(ctx context.Context, id int64) (*ticket.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`

	t, err := scanTicket(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return t, nil
}

// ListByProject returns the tickets of a project ordered by (position, id)
func (r *TicketRepository) ListByProject(ctx context.Context, projectID int64) ([]ticket.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE project_id = ?
		ORDER BY position ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []ticket.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket rows: %w", err)
	}

	return tickets, nil
}

// Update persists the mutable ticket fields
func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	t.UpdatedAt = time.Now()

	query := `
		UPDATE tickets
		SET project_id = ?, title = ?, description = ?, status = ?, priority = ?,
			position = ?, due_date = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		t.ProjectID,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.Position,
		t.DueDate,
		t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return translate("update ticket", err)
	}

	return requireAffected(result)
}

// Delete removes a ticket and, through the cascade, its tasks
func (r *TicketRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	if err != nil {
		return translate("delete ticket", err)
	}

	return requireAffected(result)
}

// NextPosition returns the position after the last ticket of a project
func (r *TicketRepository) NextPosition(ctx context.Context, projectID int64) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM tickets WHERE project_id = ?`,
		projectID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute ticket position: %w", err)
	}
	return next, nil
}

func scanTicket(row scanner) (*ticket.Ticket, error) {
	return scanTicketWith(row)
}

// scanTicketWith scans the ticket columns followed by extra destinations.
func scanTicketWith(row scanner, extra ...any) (*ticket.Ticket, error) {
	var t ticket.Ticket
	var due sql.NullTime
	dest := []any{
		&t.ID,
		&t.ProjectID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.Position,
		&due,
		&t.CreatedAt,
		&t.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if due.Valid {
		t.DueDate = &due.Time
	}
	return &t, nil
}
