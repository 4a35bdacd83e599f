package mocks

import (
	"context"

	"github.com/GerardFevill/taskflow/internal/domain/activity"
	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/domain/task"
	"github.com/GerardFevill/taskflow/internal/domain/ticket"
	"github.com/GerardFevill/taskflow/internal/domain/transform"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id int64) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.ProjectSummary, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepository) NextPosition(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// TicketRepository is a mock for ticket.Repository.
type TicketRepository struct {
	mock.Mock
}

func (m *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TicketRepository) Get(ctx context.Context, id int64) (*ticket.Ticket, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*ticket.Ticket); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) ListByProject(ctx context.Context, projectID int64) ([]ticket.Ticket, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]ticket.Ticket); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TicketRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TicketRepository) NextPosition(ctx context.Context, projectID int64) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}

// TaskRepository is a mock for task.Repository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TaskRepository) Get(ctx context.Context, id int64) (*task.Task, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*task.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) ListByTicket(ctx context.Context, ticketID int64) ([]task.Task, error) {
	args := m.Called(ctx, ticketID)
	if list, ok := args.Get(0).([]task.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) ListChildren(ctx context.Context, parentID int64) ([]task.Task, error) {
	args := m.Called(ctx, parentID)
	if list, ok := args.Get(0).([]task.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TaskRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TaskRepository) NextPosition(ctx context.Context, ticketID int64, parentID *int64) (int, error) {
	args := m.Called(ctx, ticketID, parentID)
	return args.Int(0), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SearchRepository is a mock for ticket.SearchRepository.
type SearchRepository struct {
	mock.Mock
}

func (m *SearchRepository) Search(ctx context.Context, query string, opts ticket.SearchOptions) ([]ticket.SearchResult, error) {
	args := m.Called(ctx, query, opts)
	if list, ok := args.Get(0).([]ticket.SearchResult); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Transactor is a mock for transform.Transactor. When Repos is set, the
// callback runs against it before the recorded error is returned.
type Transactor struct {
	mock.Mock
	Repos *transform.Repos
}

func (m *Transactor) Transact(ctx context.Context, fn func(r transform.Repos) error) error {
	args := m.Called(ctx, fn)
	if m.Repos != nil {
		if err := fn(*m.Repos); err != nil {
			return err
		}
	}
	return args.Error(0)
}
