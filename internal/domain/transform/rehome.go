package transform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/domain/task"
	"github.com/GerardFevill/taskflow/internal/domain/ticket"
	"github.com/GerardFevill/taskflow/internal/repository"
)

var now = func() time.Time { return time.Now().UTC() }

func loadTask(ctx context.Context, r Repos, id int64) (*task.Task, error) {
	t, err := r.Tasks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, task.ErrTaskNotFound
		}
		return nil, fmt.Errorf("loading task: %w", err)
	}
	return t, nil
}

func loadTicket(ctx context.Context, r Repos, id int64) (*ticket.Ticket, error) {
	t, err := r.Tickets.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("loading ticket: %w", err)
	}
	return t, nil
}

func loadTarget(ctx context.Context, r Repos, id int64) (*ticket.Ticket, error) {
	t, err := r.Tickets.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, fmt.Errorf("loading target ticket: %w", err)
	}
	return t, nil
}

func loadProject(ctx context.Context, r Repos, id int64) (*project.Project, error) {
	p, err := r.Projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return p, nil
}

// owningProject resolves the project of a task's ticket, falling back to Inbox.
func owningProject(ctx context.Context, r Repos, ticketID int64) (int64, error) {
	owner, err := r.Tickets.Get(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return project.InboxID, nil
		}
		return 0, fmt.Errorf("loading owning ticket: %w", err)
	}
	return owner.ProjectID, nil
}

func appendProject(ctx context.Context, r Repos, name, description string) (*project.Project, error) {
	position, err := r.Projects.NextPosition(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing project position: %w", err)
	}
	p := &project.Project{
		Name:        name,
		Description: description,
		Color:       project.DefaultColor,
		Icon:        project.DefaultIcon,
		Position:    position,
		CreatedAt:   now(),
	}
	if err := r.Projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return p, nil
}

func appendTicket(ctx context.Context, r Repos, projectID int64, title, description string, status ticket.Status) (*ticket.Ticket, error) {
	position, err := r.Tickets.NextPosition(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("computing ticket position: %w", err)
	}
	return insertTicket(ctx, r, projectID, title, description, status, position)
}

func insertTicket(ctx context.Context, r Repos, projectID int64, title, description string, status ticket.Status, position int) (*ticket.Ticket, error) {
	ts := now()
	t := &ticket.Ticket{
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    ticket.PriorityPlan,
		Position:    position,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := r.Tickets.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating ticket: %w", err)
	}
	return t, nil
}

// appendTask adds a top-level task after the ticket's last top-level task.
// Subtask positions form their own sequence per parent and are not counted,
// so a subtask numbered higher than every top-level task does not push the
// new task further down.
func appendTask(ctx context.Context, r Repos, ticketID int64, text string, done bool) (*task.Task, error) {
	position, err := r.Tasks.NextPosition(ctx, ticketID, nil)
	if err != nil {
		return nil, fmt.Errorf("computing task position: %w", err)
	}
	return insertTask(ctx, r, ticketID, nil, text, done, position)
}

func insertTask(ctx context.Context, r Repos, ticketID int64, parentID *int64, text string, done bool, position int) (*task.Task, error) {
	t := &task.Task{
		TicketID:  ticketID,
		ParentID:  parentID,
		Text:      text,
		Done:      done,
		Position:  position,
		CreatedAt: now(),
	}
	if err := r.Tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return t, nil
}
