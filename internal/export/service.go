package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/domain/task"
	"github.com/GerardFevill/taskflow/internal/domain/ticket"
	"github.com/google/uuid"
)

// ProjectLister lists projects.
type ProjectLister interface {
	List(ctx context.Context) ([]project.ProjectSummary, error)
}

// TicketLister lists the tickets of a project.
type TicketLister interface {
	ListByProject(ctx context.Context, projectID int64) ([]ticket.Ticket, error)
}

// TaskLister lists the tasks of a ticket.
type TaskLister interface {
	ListByTicket(ctx context.Context, ticketID int64) ([]task.Task, error)
}

// Options selects the encoding of an export.
type Options struct {
	Format      Format
	Compression Compression
}

// Service builds board snapshots.
type Service struct {
	projects ProjectLister
	tickets  TicketLister
	tasks    TaskLister
	logger   *slog.Logger
}

// NewService creates a new export service.
func NewService(projects ProjectLister, tickets TicketLister, tasks TaskLister, logger *slog.Logger) *Service {
	return &Service{projects: projects, tickets: tickets, tasks: tasks, logger: logger}
}

// Snapshot reads the whole board.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	summaries, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	snap := &Snapshot{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Projects:    make([]ProjectExport, 0, len(summaries)),
	}

	for _, p := range summaries {
		pe := ProjectExport{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Color:       p.Color,
			Icon:        p.Icon,
			Position:    p.Position,
			Tickets:     []TicketExport{},
		}

		tickets, err := s.tickets.ListByProject(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("listing tickets of project %d: %w", p.ID, err)
		}
		for _, tk := range tickets {
			te := TicketExport{
				ID:          tk.ID,
				Title:       tk.Title,
				Description: tk.Description,
				Status:      string(tk.Status),
				Priority:    string(tk.Priority),
				Position:    tk.Position,
				DueDate:     tk.DueDate,
				Tasks:       []TaskExport{},
			}

			tasks, err := s.tasks.ListByTicket(ctx, tk.ID)
			if err != nil {
				return nil, fmt.Errorf("listing tasks of ticket %d: %w", tk.ID, err)
			}
			for _, t := range tasks {
				te.Tasks = append(te.Tasks, TaskExport{
					ID:       t.ID,
					ParentID: t.ParentID,
					Text:     t.Text,
					Done:     t.Done,
					Position: t.Position,
				})
			}
			pe.Tickets = append(pe.Tickets, te)
		}
		snap.Projects = append(snap.Projects, pe)
	}

	return snap, nil
}

// Export encodes and optionally compresses a fresh snapshot.
func (s *Service) Export(ctx context.Context, opts Options) (*Result, error) {
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	if opts.Compression == "" {
		opts.Compression = CompressionNone
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	data, err := Encode(snap, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	data, err = Compress(data, opts.Compression)
	if err != nil {
		return nil, fmt.Errorf("compressing snapshot: %w", err)
	}

	filename := fmt.Sprintf("taskflow-%s.%s", snap.GeneratedAt.Format("20060102-150405"), opts.Format)
	contentType := opts.Format.ContentType()
	if opts.Compression == CompressionZstd {
		filename += ".zst"
		contentType = "application/zstd"
	}

	result := &Result{
		ID:          snap.ID,
		Data:        data,
		ContentType: contentType,
		Filename:    filename,
		Checksum:    Checksum(data),
	}

	if s.logger != nil {
		s.logger.Info("exported snapshot",
			"export_id", result.ID,
			"format", opts.Format,
			"compression", opts.Compression,
			"bytes", len(data),
			"projects", len(snap.Projects),
		)
	}

	return result, nil
}
