package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GerardFevill/taskflow/internal/domain/activity"
	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/repository"
)

const defaultSearchLimit = 20

// Service handles ticket business logic.
type Service struct {
	tickets    Repository
	search     SearchRepository
	activities ActivityRepository
	renderer   Renderer
	logger     *slog.Logger
}

// NewService creates a new ticket service.
func NewService(
	tickets Repository,
	search SearchRepository,
	activities ActivityRepository,
	renderer Renderer,
	logger *slog.Logger,
) *Service {
	return &Service{
		tickets:    tickets,
		search:     search,
		activities: activities,
		renderer:   renderer,
		logger:     logger,
	}
}

// CreateRequest describes a ticket creation request.
type CreateRequest struct {
	ProjectID   int64
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
}

// UpdateRequest describes a partial ticket update.
type UpdateRequest struct {
	ProjectID   *int64
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	Position    *int
	DueDate     *time.Time
	ClearDue    bool
}

// Create creates a ticket at the end of its project. A zero project means Inbox.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Ticket, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	projectID := req.ProjectID
	if projectID == 0 {
		projectID = project.InboxID
	}
	status := req.Status
	if status == "" {
		status = StatusTodo
	}
	priority := req.Priority
	if priority == "" {
		priority = DefaultPriority
	}

	position, err := s.tickets.NextPosition(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("computing ticket position: %w", err)
	}

	now := time.Now()
	t := &Ticket{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		Position:    position,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tickets.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("creating ticket: %w", err)
	}

	s.logActivity(ctx, t.ID, activity.TypeCreated, fmt.Sprintf("created ticket %q", t.Title))
	return t, nil
}

// Get returns a ticket by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Ticket, error) {
	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("getting ticket: %w", err)
	}
	return t, nil
}

// ListByProject returns the tickets of a project ordered by position.
func (s *Service) ListByProject(ctx context.Context, projectID int64) ([]Ticket, error) {
	tickets, err := s.tickets.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	return tickets, nil
}

// Update applies a partial update. Moving a ticket to another project appends
// it to that project unless an explicit position is given.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Ticket, error) {
	if err := ValidateUpdateInput(req); err != nil {
		return nil, err
	}

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ProjectID != nil && *req.ProjectID != t.ProjectID {
		position, err := s.tickets.NextPosition(ctx, *req.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("computing ticket position: %w", err)
		}
		t.ProjectID = *req.ProjectID
		t.Position = position
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Position != nil {
		t.Position = *req.Position
	}
	if req.ClearDue {
		t.DueDate = nil
	} else if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	t.UpdatedAt = time.Now()

	if err := s.tickets.Update(ctx, t); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTicketNotFound
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating ticket: %w", err)
	}

	s.logActivity(ctx, t.ID, activity.TypeUpdated, fmt.Sprintf("updated ticket %q", t.Title))
	return t, nil
}

// Delete removes a ticket and, through the schema, its tasks.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTicketNotFound
		}
		return fmt.Errorf("deleting ticket: %w", err)
	}
	s.logActivity(ctx, id, activity.TypeDeleted, fmt.Sprintf("deleted ticket %d", id))
	return nil
}

// Search runs full-text search over titles and descriptions.
func (s *Service) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	if s.search == nil {
		return nil, fmt.Errorf("search repository not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidInput
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultSearchLimit
	}
	return s.search.Search(ctx, query, opts)
}

// RenderDescription returns the ticket description rendered as HTML.
func (s *Service) RenderDescription(ctx context.Context, id int64) (string, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if s.renderer == nil {
		return "", fmt.Errorf("markdown renderer not configured")
	}
	html, err := s.renderer.Render(t.Description)
	if err != nil {
		return "", fmt.Errorf("rendering description: %w", err)
	}
	return html, nil
}

func (s *Service) logActivity(ctx context.Context, id int64, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	err := s.activities.Log(ctx, &activity.ActivityEntry{
		EntityType:   activity.EntityTicket,
		EntityID:     id,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    time.Now(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("failed to log ticket activity", "ticket_id", id, "error", err)
	}
}
