package transform

import (
	"context"

	"github.com/GerardFevill/taskflow/internal/domain/activity"
	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/domain/task"
	"github.com/GerardFevill/taskflow/internal/domain/ticket"
)

// Repos bundles the stores a conversion touches. A Transactor binds all of
// them to the same transaction.
type Repos struct {
	Projects   project.Repository
	Tickets    ticket.Repository
	Tasks      task.Repository
	Activities activity.Repository
}

// Transactor runs fn inside a single transaction. The transaction commits
// only when fn returns nil.
type Transactor interface {
	Transact(ctx context.Context, fn func(r Repos) error) error
}
