package ticket

import (
	"context"

	"github.com/GerardFevill/taskflow/internal/domain/activity"
)

// Repository provides persistence for tickets.
type Repository interface {
	Create(ctx context.Context, t *Ticket) error
	Get(ctx context.Context, id int64) (*Ticket, error)
	ListByProject(ctx context.Context, projectID int64) ([]Ticket, error)
	Update(ctx context.Context, t *Ticket) error
	Delete(ctx context.Context, id int64) error
	NextPosition(ctx context.Context, projectID int64) (int, error)
}

// SearchRepository performs full-text search.
type SearchRepository interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}

// ActivityRepository logs ticket activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// Renderer turns Markdown descriptions into HTML.
type Renderer interface {
	Render(source string) (string, error)
}
