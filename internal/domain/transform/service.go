package transform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GerardFevill/taskflow/internal/domain/activity"
	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/domain/task"
	"github.com/GerardFevill/taskflow/internal/domain/ticket"
)

// Service converts tasks, tickets and projects into one another.
//
// Every conversion creates the destination first, rehomes the children and
// deletes the source last, all inside one transaction. The hierarchy is two
// levels deep on both sides, so each conversion carries at most one level
// below the destination and drops anything deeper.
type Service struct {
	tx     Transactor
	logger *slog.Logger
}

// NewService creates a new transformation service.
func NewService(tx Transactor, logger *slog.Logger) *Service {
	return &Service{tx: tx, logger: logger}
}

// TaskToTicket turns a task into a ticket of the project that owns the task's
// ticket. The task's subtasks become top-level tasks of the new ticket.
func (s *Service) TaskToTicket(ctx context.Context, taskID int64) (*ticket.Ticket, error) {
	var dst *ticket.Ticket
	out := Outcome{Operation: OpTaskToTicket, SourceType: activity.EntityTask, SourceID: taskID, TargetType: activity.EntityTicket}

	err := s.tx.Transact(ctx, func(r Repos) error {
		src, err := loadTask(ctx, r, taskID)
		if err != nil {
			return err
		}

		projectID, err := owningProject(ctx, r, src.TicketID)
		if err != nil {
			return err
		}
		dst, err = appendTicket(ctx, r, projectID, src.Text, "", ticket.StatusFromDone(src.Done))
		if err != nil {
			return err
		}

		children, err := r.Tasks.ListChildren(ctx, src.ID)
		if err != nil {
			return fmt.Errorf("listing subtasks: %w", err)
		}
		for i, child := range children {
			if _, err := insertTask(ctx, r, dst.ID, nil, child.Text, child.Done, i+1); err != nil {
				return err
			}
		}

		if err := r.Tasks.Delete(ctx, src.ID); err != nil {
			return fmt.Errorf("deleting source task: %w", err)
		}

		out.TargetID = dst.ID
		out.Children = len(children)
		return record(ctx, r, out)
	})
	if err != nil {
		return nil, err
	}

	s.logSuccess(out)
	return dst, nil
}

// TicketToTask turns a ticket into a task appended to targetTicketID. Every
// task of the source ticket, whatever its depth, becomes a subtask of the new
// task.
func (s *Service) TicketToTask(ctx context.Context, ticketID, targetTicketID int64) (*task.Task, error) {
	var dst *task.Task
	out := Outcome{Operation: OpTicketToTask, SourceType: activity.EntityTicket, SourceID: ticketID, TargetType: activity.EntityTask}

	err := s.tx.Transact(ctx, func(r Repos) error {
		src, err := loadTicket(ctx, r, ticketID)
		if err != nil {
			return err
		}
		if targetTicketID == src.ID {
			return ErrInvalidTarget
		}
		target, err := loadTarget(ctx, r, targetTicketID)
		if err != nil {
			return err
		}

		dst, err = appendTask(ctx, r, target.ID, src.Title, src.Done())
		if err != nil {
			return err
		}

		tasks, err := r.Tasks.ListByTicket(ctx, src.ID)
		if err != nil {
			return fmt.Errorf("listing source tasks: %w", err)
		}
		for i, t := range tasks {
			if _, err := insertTask(ctx, r, target.ID, &dst.ID, t.Text, t.Done, i+1); err != nil {
				return err
			}
		}

		if err := r.Tickets.Delete(ctx, src.ID); err != nil {
			return fmt.Errorf("deleting source ticket: %w", err)
		}

		out.TargetID = dst.ID
		out.Children = len(tasks)
		return record(ctx, r, out)
	})
	if err != nil {
		return nil, err
	}

	s.logSuccess(out)
	return dst, nil
}

// TicketToProject turns a ticket into a project. Each top-level task becomes a
// ticket of the new project and carries its subtasks along as tasks. Rows
// nested deeper than that are not carried.
func (s *Service) TicketToProject(ctx context.Context, ticketID int64) (*project.Project, error) {
	var dst *project.Project
	out := Outcome{Operation: OpTicketToProject, SourceType: activity.EntityTicket, SourceID: ticketID, TargetType: activity.EntityProject}

	err := s.tx.Transact(ctx, func(r Repos) error {
		src, err := loadTicket(ctx, r, ticketID)
		if err != nil {
			return err
		}

		dst, err = appendProject(ctx, r, src.Title, src.Description)
		if err != nil {
			return err
		}

		tasks, err := r.Tasks.ListByTicket(ctx, src.ID)
		if err != nil {
			return fmt.Errorf("listing source tasks: %w", err)
		}
		carried := 0
		for i, top := range task.TopLevel(tasks) {
			child, err := insertTicket(ctx, r, dst.ID, top.Text, "", ticket.StatusFromDone(top.Done), i+1)
			if err != nil {
				return err
			}
			carried++
			for j, sub := range task.ChildrenOf(tasks, top.ID) {
				if _, err := insertTask(ctx, r, child.ID, nil, sub.Text, sub.Done, j+1); err != nil {
					return err
				}
				carried++
			}
			out.Children++
		}

		if err := r.Tickets.Delete(ctx, src.ID); err != nil {
			return fmt.Errorf("deleting source ticket: %w", err)
		}

		out.TargetID = dst.ID
		out.Dropped = len(tasks) - carried
		return record(ctx, r, out)
	})
	if err != nil {
		return nil, err
	}

	s.logSuccess(out)
	return dst, nil
}

// ProjectToTicket turns a project into an Inbox ticket. Each ticket of the
// project becomes a task and its top-level tasks become subtasks. Subtasks of
// the source tickets are not carried.
func (s *Service) ProjectToTicket(ctx context.Context, projectID int64) (*ticket.Ticket, error) {
	if projectID == project.InboxID {
		return nil, ErrCannotConvertInbox
	}

	var dst *ticket.Ticket
	out := Outcome{Operation: OpProjectToTicket, SourceType: activity.EntityProject, SourceID: projectID, TargetType: activity.EntityTicket}

	err := s.tx.Transact(ctx, func(r Repos) error {
		src, err := loadProject(ctx, r, projectID)
		if err != nil {
			return err
		}

		dst, err = appendTicket(ctx, r, project.InboxID, src.Name, "", ticket.StatusTodo)
		if err != nil {
			return err
		}

		tickets, err := r.Tickets.ListByProject(ctx, src.ID)
		if err != nil {
			return fmt.Errorf("listing project tickets: %w", err)
		}
		for i, tk := range tickets {
			parent, err := insertTask(ctx, r, dst.ID, nil, tk.Title, tk.Done(), i+1)
			if err != nil {
				return err
			}

			tasks, err := r.Tasks.ListByTicket(ctx, tk.ID)
			if err != nil {
				return fmt.Errorf("listing ticket tasks: %w", err)
			}
			top := task.TopLevel(tasks)
			for j, t := range top {
				if _, err := insertTask(ctx, r, dst.ID, &parent.ID, t.Text, t.Done, j+1); err != nil {
					return err
				}
			}
			out.Dropped += len(tasks) - len(top)
		}

		if err := deleteProject(ctx, r, src.ID, tickets); err != nil {
			return err
		}

		out.TargetID = dst.ID
		out.Children = len(tickets)
		return record(ctx, r, out)
	})
	if err != nil {
		return nil, err
	}

	s.logSuccess(out)
	return dst, nil
}

// TaskToProject turns a task into a project. The task's subtasks become
// tickets of the new project without tasks of their own.
func (s *Service) TaskToProject(ctx context.Context, taskID int64) (*project.Project, error) {
	var dst *project.Project
	out := Outcome{Operation: OpTaskToProject, SourceType: activity.EntityTask, SourceID: taskID, TargetType: activity.EntityProject}

	err := s.tx.Transact(ctx, func(r Repos) error {
		src, err := loadTask(ctx, r, taskID)
		if err != nil {
			return err
		}

		dst, err = appendProject(ctx, r, src.Text, "")
		if err != nil {
			return err
		}

		children, err := r.Tasks.ListChildren(ctx, src.ID)
		if err != nil {
			return fmt.Errorf("listing subtasks: %w", err)
		}
		for i, child := range children {
			if _, err := insertTicket(ctx, r, dst.ID, child.Text, "", ticket.StatusFromDone(child.Done), i+1); err != nil {
				return err
			}
		}

		if err := r.Tasks.Delete(ctx, src.ID); err != nil {
			return fmt.Errorf("deleting source task: %w", err)
		}

		out.TargetID = dst.ID
		out.Children = len(children)
		return record(ctx, r, out)
	})
	if err != nil {
		return nil, err
	}

	s.logSuccess(out)
	return dst, nil
}

// ProjectToTask turns a project into a task appended to targetTicketID. The
// project's tickets become subtasks; their own tasks are not carried.
func (s *Service) ProjectToTask(ctx context.Context, projectID, targetTicketID int64) (*task.Task, error) {
	if projectID == project.InboxID {
		return nil, ErrCannotConvertInbox
	}

	var dst *task.Task
	out := Outcome{Operation: OpProjectToTask, SourceType: activity.EntityProject, SourceID: projectID, TargetType: activity.EntityTask}

	err := s.tx.Transact(ctx, func(r Repos) error {
		src, err := loadProject(ctx, r, projectID)
		if err != nil {
			return err
		}
		target, err := loadTarget(ctx, r, targetTicketID)
		if err != nil {
			return err
		}
		if target.ProjectID == src.ID {
			return ErrInvalidTarget
		}

		dst, err = appendTask(ctx, r, target.ID, src.Name, false)
		if err != nil {
			return err
		}

		tickets, err := r.Tickets.ListByProject(ctx, src.ID)
		if err != nil {
			return fmt.Errorf("listing project tickets: %w", err)
		}
		for i, tk := range tickets {
			if _, err := insertTask(ctx, r, target.ID, &dst.ID, tk.Title, tk.Done(), i+1); err != nil {
				return err
			}
			tasks, err := r.Tasks.ListByTicket(ctx, tk.ID)
			if err != nil {
				return fmt.Errorf("listing ticket tasks: %w", err)
			}
			out.Dropped += len(tasks)
		}

		if err := deleteProject(ctx, r, src.ID, tickets); err != nil {
			return err
		}

		out.TargetID = dst.ID
		out.Children = len(tickets)
		return record(ctx, r, out)
	})
	if err != nil {
		return nil, err
	}

	s.logSuccess(out)
	return dst, nil
}

func (s *Service) logSuccess(out Outcome) {
	if s.logger == nil {
		return
	}
	s.logger.Info("transformed",
		"operation", out.Operation,
		"source_id", out.SourceID,
		"target_id", out.TargetID,
		"children", out.Children,
		"dropped", out.Dropped,
	)
}

// deleteProject removes the project's tickets before the project itself.
// Deleting the project alone would move the tickets to Inbox.
func deleteProject(ctx context.Context, r Repos, projectID int64, tickets []ticket.Ticket) error {
	for _, tk := range tickets {
		if err := r.Tickets.Delete(ctx, tk.ID); err != nil {
			return fmt.Errorf("deleting project ticket %d: %w", tk.ID, err)
		}
	}
	if err := r.Projects.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("deleting source project: %w", err)
	}
	return nil
}

func record(ctx context.Context, r Repos, out Outcome) error {
	err := r.Activities.Log(ctx, &activity.ActivityEntry{
		EntityType:   out.TargetType,
		EntityID:     out.TargetID,
		ActivityType: activity.TypeTransformed,
		Summary:      fmt.Sprintf("%s %d became %s %d", out.SourceType, out.SourceID, out.TargetType, out.TargetID),
		Details:      out.details(),
		CreatedAt:    now(),
	})
	if err != nil {
		return fmt.Errorf("logging transformation: %w", err)
	}
	return nil
}
