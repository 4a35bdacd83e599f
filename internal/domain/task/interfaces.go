package task

import (
	"context"

	"github.com/GerardFevill/taskflow/internal/domain/activity"
)

// Repository provides persistence for tasks.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id int64) (*Task, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]Task, error)
	ListChildren(ctx context.Context, parentID int64) ([]Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id int64) error
	NextPosition(ctx context.Context, ticketID int64, parentID *int64) (int, error)
}

// ActivityRepository logs task activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
