package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db querier
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project and sets its ID
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	if proj.CreatedAt.IsZero() {
		proj.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO projects (name, description, color, icon, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.Name,
		proj.Description,
		proj.Color,
		proj.Icon,
		proj.Position,
		proj.CreatedAt,
	)
	if err != nil {
		return translate("create project", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read project id: %w", err)
	}
	proj.ID = id

	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id int64) (*project.Project, error) {
	query := `
		SELECT id, name, description, color, icon, position, created_at
		FROM projects
		WHERE id = ?
	`

	var proj project.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&proj.ID,
		&proj.Name,
		&proj.Description,
		&proj.Color,
		&proj.Icon,
		&proj.Position,
		&proj.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &proj, nil
}

// List returns all projects with ticket counts, ordered by position
func (r *ProjectRepository) List(ctx context.Context) ([]project.ProjectSummary, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.description,
			p.color,
			p.icon,
			p.position,
			p.created_at,
			COUNT(t.id) as ticket_count,
			COUNT(CASE WHEN t.status != 'done' THEN t.id END) as open_tickets
		FROM projects p
		LEFT JOIN tickets t ON t.project_id = p.id
		GROUP BY p.id, p.name, p.description, p.color, p.icon, p.position, p.created_at
		ORDER BY p.position ASC, p.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.ProjectSummary
	for rows.Next() {
		var summary project.ProjectSummary
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Description,
			&summary.Color,
			&summary.Icon,
			&summary.Position,
			&summary.CreatedAt,
			&summary.TicketCount,
			&summary.OpenTickets,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}

// Update persists the mutable project fields
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	query := `
		UPDATE projects
		SET name = ?, description = ?, color = ?, icon = ?, position = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.Name,
		proj.Description,
		proj.Color,
		proj.Icon,
		proj.Position,
		proj.ID,
	)
	if err != nil {
		return translate("update project", err)
	}

	return requireAffected(result)
}

// Delete removes a project. Its tickets move to the Inbox.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return translate("delete project", err)
	}

	return requireAffected(result)
}

// NextPosition returns the position after the last project
func (r *ProjectRepository) NextPosition(ctx context.Context) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) + 1 FROM projects`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute project position: %w", err)
	}
	return next, nil
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
