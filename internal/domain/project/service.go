package project

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

// Service handles project operations.
type Service struct {
	repo       Repository
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name        string
	Description string
	Color       string
	Icon        string
}

// UpdateRequest defines a partial project update. Nil fields are left as is.
type UpdateRequest struct {
	Name        *string
	Description *string
	Color       *string
	Icon        *string
	Position    *int
}

// Create creates a new project appended after the existing ones.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}

	position, err := s.repo.NextPosition(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing project position: %w", err)
	}

	proj := &Project{
		Name:        req.Name,
		Description: req.Description,
		Color:       orDefault(req.Color, DefaultColor),
		Icon:        orDefault(req.Icon, DefaultIcon),
		Position:    position,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logActivity(ctx, proj.ID, activity.TypeCreated, fmt.Sprintf("created project %q", proj.Name))
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns project summaries ordered by position.
func (s *Service) List(ctx context.Context) ([]ProjectSummary, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update. The Inbox may be renamed or recolored.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Project, error) {
	proj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrInvalidInput
		}
		proj.Name = *req.Name
	}
	if req.Description != nil {
		proj.Description = *req.Description
	}
	if req.Color != nil {
		proj.Color = orDefault(*req.Color, DefaultColor)
	}
	if req.Icon != nil {
		proj.Icon = orDefault(*req.Icon, DefaultIcon)
	}
	if req.Position != nil {
		proj.Position = *req.Position
	}

	if err := s.repo.Update(ctx, proj); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}

	s.logActivity(ctx, proj.ID, activity.TypeUpdated, fmt.Sprintf("updated project %q", proj.Name))
	return proj, nil
}

// Delete removes a project. Its tickets fall back to the Inbox.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id == InboxID {
		return ErrInboxProtected
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}

	s.logActivity(ctx, id, activity.TypeDeleted, fmt.Sprintf("deleted project %d", id))
	return nil
}

func (s *Service) logActivity(ctx context.Context, id int64, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	err := s.activities.Log(ctx, &activity.ActivityEntry{
		EntityType:   activity.EntityProject,
		EntityID:     id,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    time.Now(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("failed to log project activity", "project_id", id, "error", err)
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
