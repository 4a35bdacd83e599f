package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/GerardFevill/taskflow/internal/domain/activity"
	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/domain/task"
	"github.com/GerardFevill/taskflow/internal/domain/ticket"
	"github.com/GerardFevill/taskflow/internal/domain/transform"
)

var (
	_ project.Repository      = (*ProjectRepository)(nil)
	_ ticket.Repository       = (*TicketRepository)(nil)
	_ ticket.SearchRepository = (*SearchRepository)(nil)
	_ task.Repository         = (*TaskRepository)(nil)
	_ activity.Repository     = (*ActivityRepository)(nil)
	_ transform.Transactor    = (*Transactor)(nil)
)

// Transactor implements transform.Transactor for SQLite
type Transactor struct {
	db *DB
}

// NewTransactor creates a new Transactor
func NewTransactor(db *DB) *Transactor {
	return &Transactor{db: db}
}

// Transact runs fn with repositories bound to one transaction. The
// transaction is rolled back unless fn returns nil.
func (t *Transactor) Transact(ctx context.Context, fn func(r transform.Repos) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(reposFor(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func reposFor(tx *sql.Tx) transform.Repos {
	return transform.Repos{
		Projects:   &ProjectRepository{db: tx},
		Tickets:    &TicketRepository{db: tx},
		Tasks:      &TaskRepository{db: tx},
		Activities: &ActivityRepository{db: tx},
	}
}
