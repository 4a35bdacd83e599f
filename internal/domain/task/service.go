package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GerardFevill/taskflow/internal/domain/activity"
	"github.com/GerardFevill/taskflow/internal/repository"
)

// Service handles task operations.
type Service struct {
	tasks      Repository
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new task service.
func NewService(tasks Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{tasks: tasks, activities: activities, logger: logger}
}

// CreateRequest describes a task creation request.
type CreateRequest struct {
	TicketID int64
	ParentID *int64
	Text     string
	Done     bool
}

// UpdateRequest describes a partial task update.
type UpdateRequest struct {
	Text     *string
	Done     *bool
	Position *int
}

// Create appends a task to its sibling set.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Task, error) {
	if req.TicketID <= 0 || strings.TrimSpace(req.Text) == "" {
		return nil, ErrInvalidInput
	}

	position, err := s.tasks.NextPosition(ctx, req.TicketID, req.ParentID)
	if err != nil {
		return nil, fmt.Errorf("computing task position: %w", err)
	}

	t := &Task{
		TicketID:  req.TicketID,
		ParentID:  req.ParentID,
		Text:      req.Text,
		Done:      req.Done,
		Position:  position,
		CreatedAt: time.Now(),
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidHierarchy):
			return nil, ErrInvalidParent
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logActivity(ctx, t.ID, activity.TypeCreated, fmt.Sprintf("created task %q", t.Text))
	return t, nil
}

// Get returns a task by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Task, error) {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

// ListByTicket returns every task of a ticket ordered by position.
func (s *Service) ListByTicket(ctx context.Context, ticketID int64) ([]Task, error) {
	tasks, err := s.tasks.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Task, error) {
	if req.Text != nil && strings.TrimSpace(*req.Text) == "" {
		return nil, ErrInvalidInput
	}

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Text != nil {
		t.Text = *req.Text
	}
	if req.Done != nil {
		t.Done = *req.Done
	}
	if req.Position != nil {
		t.Position = *req.Position
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("updating task: %w", err)
	}

	s.logActivity(ctx, t.ID, activity.TypeUpdated, fmt.Sprintf("updated task %q", t.Text))
	return t, nil
}

// Delete removes a task together with its subtasks.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("deleting task: %w", err)
	}
	s.logActivity(ctx, id, activity.TypeDeleted, fmt.Sprintf("deleted task %d", id))
	return nil
}

func (s *Service) logActivity(ctx context.Context, id int64, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	err := s.activities.Log(ctx, &activity.ActivityEntry{
		EntityType:   activity.EntityTask,
		EntityID:     id,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    time.Now(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("failed to log task activity", "task_id", id, "error", err)
	}
}
