// Package app wires the SQLite repositories into the domain services.
package app

import (
	"log/slog"

	"github.com/GerardFevill/taskflow/internal/domain/activity"
	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/domain/task"
	"github.com/GerardFevill/taskflow/internal/domain/ticket"
	"github.com/GerardFevill/taskflow/internal/domain/transform"
	"github.com/GerardFevill/taskflow/internal/export"
	"github.com/GerardFevill/taskflow/internal/markdown"
	"github.com/GerardFevill/taskflow/internal/sqlite"
)

// Services holds every service the transports expose.
type Services struct {
	Projects  *project.Service
	Tickets   *ticket.Service
	Tasks     *task.Service
	Activity  *activity.Service
	Transform *transform.Service
	Export    *export.Service
}

// NewServices builds the services on top of db.
func NewServices(db *sqlite.DB, logger *slog.Logger) *Services {
	projectRepo := sqlite.NewProjectRepository(db)
	ticketRepo := sqlite.NewTicketRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	searchRepo := sqlite.NewSearchRepository(db)

	return &Services{
		Projects:  project.NewService(projectRepo, activityRepo, logger),
		Tickets:   ticket.NewService(ticketRepo, searchRepo, activityRepo, markdown.New(), logger),
		Tasks:     task.NewService(taskRepo, activityRepo, logger),
		Activity:  activity.NewService(activityRepo, logger),
		Transform: transform.NewService(sqlite.NewTransactor(db), logger),
		Export:    export.NewService(projectRepo, ticketRepo, taskRepo, logger),
	}
}
