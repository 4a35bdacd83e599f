package project

import (
	"context"

	"github.com/GerardFevill/taskflow/internal/domain/activity"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context) ([]ProjectSummary, error)
	Update(ctx context.Context, proj *Project) error
	Delete(ctx context.Context, id int64) error
	NextPosition(ctx context.Context) (int, error)
}

// ActivityRepository logs project activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
