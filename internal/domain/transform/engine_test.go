package transform_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/GerardFevill/taskflow/internal/app"
	"github.com/GerardFevill/taskflow/internal/domain/activity"
	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/domain/task"
	"github.com/GerardFevill/taskflow/internal/domain/ticket"
	"github.com/GerardFevill/taskflow/internal/domain/transform"
	"github.com/GerardFevill/taskflow/internal/sqlite"
	"github.com/GerardFevill/taskflow/internal/testserver"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *sqlite.DB
	svc *app.Services
}

func newFixture(t *testing.T) *fixture {
	db, svc := testserver.NewServices(t)
	return &fixture{t: t, ctx: context.Background(), db: db, svc: svc}
}

func (f *fixture) project(name string) *project.Project {
	f.t.Helper()
	p, err := f.svc.Projects.Create(f.ctx, project.CreateRequest{Name: name, Description: name + " description"})
	require.NoError(f.t, err)
	return p
}

func (f *fixture) ticket(projectID int64, title string, status ticket.Status, position int) *ticket.Ticket {
	f.t.Helper()
	tk := &ticket.Ticket{ProjectID: projectID, Title: title, Status: status, Priority: ticket.PriorityDo, Position: position}
	require.NoError(f.t, sqlite.NewTicketRepository(f.db).Create(f.ctx, tk))
	return tk
}

func (f *fixture) task(ticketID int64, parentID *int64, text string, done bool, position int) *task.Task {
	f.t.Helper()
	tk := &task.Task{TicketID: ticketID, ParentID: parentID, Text: text, Done: done, Position: position}
	require.NoError(f.t, sqlite.NewTaskRepository(f.db).Create(f.ctx, tk))
	return tk
}

func (f *fixture) tasksOf(ticketID int64) []task.Task {
	f.t.Helper()
	tasks, err := f.svc.Tasks.ListByTicket(f.ctx, ticketID)
	require.NoError(f.t, err)
	return tasks
}

func (f *fixture) ticketsOf(projectID int64) []ticket.Ticket {
	f.t.Helper()
	tickets, err := f.svc.Tickets.ListByProject(f.ctx, projectID)
	require.NoError(f.t, err)
	return tickets
}

func (f *fixture) count(table string) int {
	f.t.Helper()
	var n int
	require.NoError(f.t, f.db.QueryRowContext(f.ctx, "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// requireNoDangling checks that no row references a missing parent.
func (f *fixture) requireNoDangling() {
	f.t.Helper()
	queries := []string{
		`SELECT COUNT(*) FROM tasks WHERE ticket_id NOT IN (SELECT id FROM tickets)`,
		`SELECT COUNT(*) FROM tasks WHERE parent_id IS NOT NULL AND parent_id NOT IN (SELECT id FROM tasks)`,
		`SELECT COUNT(*) FROM tickets WHERE project_id NOT IN (SELECT id FROM projects)`,
		`SELECT COUNT(*) FROM tasks c JOIN tasks p ON p.id = c.parent_id WHERE p.ticket_id != c.ticket_id OR p.parent_id IS NOT NULL`,
	}
	for _, q := range queries {
		var n int
		require.NoError(f.t, f.db.QueryRowContext(f.ctx, q).Scan(&n))
		require.Zero(f.t, n, q)
	}
}

func (f *fixture) lastTransformation() transform.Outcome {
	f.t.Helper()
	typ := activity.TypeTransformed
	entries, err := f.svc.Activity.GetRecentActivity(f.ctx, activity.ListActivityOptions{ActivityType: &typ, Limit: 1})
	require.NoError(f.t, err)
	require.Len(f.t, entries, 1)
	var out transform.Outcome
	require.NoError(f.t, json.Unmarshal([]byte(entries[0].Details), &out))
	return out
}

func TestTaskToTicket_FixBugExample(t *testing.T) {
	f := newFixture(t)
	work := f.project("Work")
	host := f.ticket(work.ID, "Host", ticket.StatusTodo, 1)
	fix := f.task(host.ID, nil, "Fix bug", true, 1)
	write := f.task(host.ID, &fix.ID, "Write test", false, 1)

	created, err := f.svc.Transform.TaskToTicket(f.ctx, fix.ID)
	require.NoError(t, err)
	require.Equal(t, "Fix bug", created.Title)
	require.Equal(t, ticket.StatusDone, created.Status)
	require.Equal(t, ticket.PriorityPlan, created.Priority)
	require.Equal(t, work.ID, created.ProjectID)
	require.Equal(t, 2, created.Position)

	tasks := f.tasksOf(created.ID)
	require.Len(t, tasks, 1)
	require.Equal(t, "Write test", tasks[0].Text)
	require.False(t, tasks[0].Done)
	require.Nil(t, tasks[0].ParentID)
	require.Equal(t, 1, tasks[0].Position)

	_, err = f.svc.Tasks.Get(f.ctx, fix.ID)
	require.ErrorIs(t, err, task.ErrTaskNotFound)
	_, err = f.svc.Tasks.Get(f.ctx, write.ID)
	require.ErrorIs(t, err, task.ErrTaskNotFound)

	// the owning ticket survives, only the task moved out
	require.Empty(t, f.tasksOf(host.ID))
	f.requireNoDangling()

	out := f.lastTransformation()
	require.Equal(t, transform.OpTaskToTicket, out.Operation)
	require.Equal(t, fix.ID, out.SourceID)
	require.Equal(t, created.ID, out.TargetID)
	require.Equal(t, 1, out.Children)
}

func TestTaskToTicket_SubtaskOrderPreserved(t *testing.T) {
	f := newFixture(t)
	host := f.ticket(project.InboxID, "Host", ticket.StatusTodo, 1)
	parent := f.task(host.ID, nil, "Parent", false, 1)
	f.task(host.ID, &parent.ID, "third", false, 9)
	f.task(host.ID, &parent.ID, "first", true, 2)
	f.task(host.ID, &parent.ID, "second", false, 5)

	created, err := f.svc.Transform.TaskToTicket(f.ctx, parent.ID)
	require.NoError(t, err)
	require.Equal(t, ticket.StatusTodo, created.Status)
	require.Equal(t, project.InboxID, created.ProjectID)

	tasks := f.tasksOf(created.ID)
	require.Len(t, tasks, 3)
	for i, want := range []string{"first", "second", "third"} {
		require.Equal(t, want, tasks[i].Text)
		require.Equal(t, i+1, tasks[i].Position)
	}
	require.True(t, tasks[0].Done)
}

func TestTicketToTask_OrderingAndCompletion(t *testing.T) {
	f := newFixture(t)
	target := f.ticket(project.InboxID, "Target", ticket.StatusTodo, 1)
	f.task(target.ID, nil, "existing", false, 1)

	source := f.ticket(project.InboxID, "Release", ticket.StatusDone, 2)
	c := f.task(source.ID, nil, "c", true, 3)
	a := f.task(source.ID, nil, "a", false, 1)
	b := f.task(source.ID, nil, "b", false, 2)

	created, err := f.svc.Transform.TicketToTask(f.ctx, source.ID, target.ID)
	require.NoError(t, err)
	require.Equal(t, "Release", created.Text)
	require.True(t, created.Done)
	require.Equal(t, target.ID, created.TicketID)
	require.Nil(t, created.ParentID)
	require.Equal(t, 2, created.Position)

	tasks := f.tasksOf(target.ID)
	children := task.ChildrenOf(tasks, created.ID)
	require.Len(t, children, 3)
	for i, want := range []string{"a", "b", "c"} {
		require.Equal(t, want, children[i].Text)
		require.Equal(t, i+1, children[i].Position)
	}
	require.True(t, children[2].Done)

	_, err = f.svc.Tickets.Get(f.ctx, source.ID)
	require.ErrorIs(t, err, ticket.ErrTicketNotFound)
	for _, old := range []*task.Task{a, b, c} {
		_, err = f.svc.Tasks.Get(f.ctx, old.ID)
		require.ErrorIs(t, err, task.ErrTaskNotFound)
	}
	f.requireNoDangling()
}

func TestTicketToTask_PositionIgnoresSubtasks(t *testing.T) {
	f := newFixture(t)
	target := f.ticket(project.InboxID, "Target", ticket.StatusTodo, 1)
	first := f.task(target.ID, nil, "first", false, 1)
	f.task(target.ID, &first.ID, "deep", false, 9)
	source := f.ticket(project.InboxID, "Source", ticket.StatusTodo, 2)

	created, err := f.svc.Transform.TicketToTask(f.ctx, source.ID, target.ID)
	require.NoError(t, err)
	require.Equal(t, 2, created.Position)
	require.Len(t, task.TopLevel(f.tasksOf(target.ID)), 2)
}

func TestTicketToTask_FlattensEveryDepth(t *testing.T) {
	f := newFixture(t)
	target := f.ticket(project.InboxID, "Target", ticket.StatusTodo, 1)
	source := f.ticket(project.InboxID, "Source", ticket.StatusInProgress, 2)
	top := f.task(source.ID, nil, "top", false, 1)
	f.task(source.ID, &top.ID, "nested", true, 2)

	created, err := f.svc.Transform.TicketToTask(f.ctx, source.ID, target.ID)
	require.NoError(t, err)
	require.False(t, created.Done)

	children := task.ChildrenOf(f.tasksOf(target.ID), created.ID)
	require.Len(t, children, 2)
	require.Equal(t, "top", children[0].Text)
	require.Equal(t, "nested", children[1].Text)
	require.True(t, children[1].Done)
	f.requireNoDangling()
}

func TestTicketToTask_BadTargetLeavesSource(t *testing.T) {
	f := newFixture(t)
	source := f.ticket(project.InboxID, "Source", ticket.StatusTodo, 1)
	f.task(source.ID, nil, "keep", false, 1)

	_, err := f.svc.Transform.TicketToTask(f.ctx, source.ID, 9999)
	require.ErrorIs(t, err, transform.ErrTargetNotFound)

	_, err = f.svc.Transform.TicketToTask(f.ctx, source.ID, 0)
	require.ErrorIs(t, err, transform.ErrTargetNotFound)

	_, err = f.svc.Transform.TicketToTask(f.ctx, source.ID, source.ID)
	require.ErrorIs(t, err, transform.ErrInvalidTarget)

	_, err = f.svc.Tickets.Get(f.ctx, source.ID)
	require.NoError(t, err)
	require.Len(t, f.tasksOf(source.ID), 1)
	require.Equal(t, 1, f.count("tasks"))
}

func TestTicketToProject_DepthTruncation(t *testing.T) {
	f := newFixture(t)
	source := f.ticket(project.InboxID, "Launch", ticket.StatusTodo, 1)
	_, err := f.svc.Tickets.Update(f.ctx, source.ID, ticket.UpdateRequest{Description: strPtr("Go live")})
	require.NoError(t, err)

	a := f.task(source.ID, nil, "A", true, 1)
	f.task(source.ID, &a.ID, "B", false, 1)
	f.task(source.ID, nil, "C", false, 2)

	created, err := f.svc.Transform.TicketToProject(f.ctx, source.ID)
	require.NoError(t, err)
	require.Equal(t, "Launch", created.Name)
	require.Equal(t, "Go live", created.Description)
	require.Equal(t, project.DefaultColor, created.Color)
	require.Equal(t, project.DefaultIcon, created.Icon)

	tickets := f.ticketsOf(created.ID)
	require.Len(t, tickets, 2)
	require.Equal(t, "A", tickets[0].Title)
	require.Equal(t, ticket.StatusDone, tickets[0].Status)
	require.Equal(t, ticket.PriorityPlan, tickets[0].Priority)
	require.Equal(t, 1, tickets[0].Position)
	require.Equal(t, "C", tickets[1].Title)
	require.Equal(t, ticket.StatusTodo, tickets[1].Status)
	require.Equal(t, 2, tickets[1].Position)

	underA := f.tasksOf(tickets[0].ID)
	require.Len(t, underA, 1)
	require.Equal(t, "B", underA[0].Text)
	require.Nil(t, underA[0].ParentID)
	require.Empty(t, f.tasksOf(tickets[1].ID))

	_, err = f.svc.Tickets.Get(f.ctx, source.ID)
	require.ErrorIs(t, err, ticket.ErrTicketNotFound)
	f.requireNoDangling()

	out := f.lastTransformation()
	require.Equal(t, 2, out.Children)
	require.Zero(t, out.Dropped)
}

func TestProjectToTicket_InboxImmutable(t *testing.T) {
	f := newFixture(t)
	inboxTicket := f.ticket(project.InboxID, "Keep me", ticket.StatusTodo, 1)
	f.task(inboxTicket.ID, nil, "and me", false, 1)
	before := []int{f.count("projects"), f.count("tickets"), f.count("tasks"), f.count("activity_log")}

	_, err := f.svc.Transform.ProjectToTicket(f.ctx, project.InboxID)
	require.ErrorIs(t, err, transform.ErrCannotConvertInbox)
	_, err = f.svc.Transform.ProjectToTask(f.ctx, project.InboxID, inboxTicket.ID)
	require.ErrorIs(t, err, transform.ErrCannotConvertInbox)

	after := []int{f.count("projects"), f.count("tickets"), f.count("tasks"), f.count("activity_log")}
	require.Equal(t, before, after)
}

func TestProjectToTicket(t *testing.T) {
	f := newFixture(t)
	work := f.project("Work")
	second := f.ticket(work.ID, "second", ticket.StatusTodo, 2)
	first := f.ticket(work.ID, "first", ticket.StatusDone, 1)
	x := f.task(first.ID, nil, "X", true, 4)
	f.task(first.ID, &x.ID, "Y", false, 1)
	f.task(first.ID, nil, "Z", false, 7)
	f.task(second.ID, nil, "W", false, 1)

	created, err := f.svc.Transform.ProjectToTicket(f.ctx, work.ID)
	require.NoError(t, err)
	require.Equal(t, "Work", created.Title)
	require.Equal(t, project.InboxID, created.ProjectID)
	require.Equal(t, ticket.StatusTodo, created.Status)
	require.Equal(t, ticket.PriorityPlan, created.Priority)

	tasks := f.tasksOf(created.ID)
	top := task.TopLevel(tasks)
	require.Len(t, top, 2)
	require.Equal(t, "first", top[0].Text)
	require.True(t, top[0].Done)
	require.Equal(t, 1, top[0].Position)
	require.Equal(t, "second", top[1].Text)
	require.False(t, top[1].Done)
	require.Equal(t, 2, top[1].Position)

	underFirst := task.ChildrenOf(tasks, top[0].ID)
	require.Len(t, underFirst, 2)
	require.Equal(t, "X", underFirst[0].Text)
	require.True(t, underFirst[0].Done)
	require.Equal(t, 1, underFirst[0].Position)
	require.Equal(t, "Z", underFirst[1].Text)
	require.Equal(t, 2, underFirst[1].Position)

	underSecond := task.ChildrenOf(tasks, top[1].ID)
	require.Len(t, underSecond, 1)
	require.Equal(t, "W", underSecond[0].Text)

	// Y was a subtask in the source and is dropped
	require.Len(t, tasks, 5)

	_, err = f.svc.Projects.Get(f.ctx, work.ID)
	require.ErrorIs(t, err, project.ErrProjectNotFound)
	// the source tickets are deleted, not moved to the Inbox
	inbox := f.ticketsOf(project.InboxID)
	require.Len(t, inbox, 1)
	require.Equal(t, created.ID, inbox[0].ID)
	f.requireNoDangling()

	out := f.lastTransformation()
	require.Equal(t, 2, out.Children)
	require.Equal(t, 1, out.Dropped)
}

func TestTaskToProject(t *testing.T) {
	f := newFixture(t)
	host := f.ticket(project.InboxID, "Host", ticket.StatusTodo, 1)
	parent := f.task(host.ID, nil, "Side project", false, 1)
	f.task(host.ID, &parent.ID, "design", true, 2)
	f.task(host.ID, &parent.ID, "build", false, 1)
	f.task(host.ID, nil, "unrelated", false, 2)

	created, err := f.svc.Transform.TaskToProject(f.ctx, parent.ID)
	require.NoError(t, err)
	require.Equal(t, "Side project", created.Name)
	require.Empty(t, created.Description)
	require.Equal(t, project.DefaultColor, created.Color)

	tickets := f.ticketsOf(created.ID)
	require.Len(t, tickets, 2)
	require.Equal(t, "build", tickets[0].Title)
	require.Equal(t, ticket.StatusTodo, tickets[0].Status)
	require.Equal(t, "design", tickets[1].Title)
	require.Equal(t, ticket.StatusDone, tickets[1].Status)
	for _, tk := range tickets {
		require.Equal(t, ticket.PriorityPlan, tk.Priority)
		require.Empty(t, f.tasksOf(tk.ID))
	}

	remaining := f.tasksOf(host.ID)
	require.Len(t, remaining, 1)
	require.Equal(t, "unrelated", remaining[0].Text)
	f.requireNoDangling()
}

func TestProjectToTask(t *testing.T) {
	f := newFixture(t)
	target := f.ticket(project.InboxID, "Target", ticket.StatusTodo, 1)
	work := f.project("Work")
	b := f.ticket(work.ID, "b", ticket.StatusDone, 2)
	a := f.ticket(work.ID, "a", ticket.StatusInProgress, 1)
	f.task(a.ID, nil, "discarded", false, 1)
	f.task(b.ID, nil, "discarded too", true, 1)

	created, err := f.svc.Transform.ProjectToTask(f.ctx, work.ID, target.ID)
	require.NoError(t, err)
	require.Equal(t, "Work", created.Text)
	require.False(t, created.Done)
	require.Equal(t, target.ID, created.TicketID)
	require.Equal(t, 1, created.Position)

	tasks := f.tasksOf(target.ID)
	children := task.ChildrenOf(tasks, created.ID)
	require.Len(t, children, 2)
	require.Equal(t, "a", children[0].Text)
	require.False(t, children[0].Done)
	require.Equal(t, 1, children[0].Position)
	require.Equal(t, "b", children[1].Text)
	require.True(t, children[1].Done)
	require.Equal(t, 2, children[1].Position)
	require.Len(t, tasks, 3)

	_, err = f.svc.Projects.Get(f.ctx, work.ID)
	require.ErrorIs(t, err, project.ErrProjectNotFound)
	require.Equal(t, 1, f.count("tickets"))
	f.requireNoDangling()

	out := f.lastTransformation()
	require.Equal(t, 2, out.Dropped)
}

func TestProjectToTask_TargetInsideSource(t *testing.T) {
	f := newFixture(t)
	work := f.project("Work")
	inside := f.ticket(work.ID, "inside", ticket.StatusTodo, 1)

	_, err := f.svc.Transform.ProjectToTask(f.ctx, work.ID, inside.ID)
	require.ErrorIs(t, err, transform.ErrInvalidTarget)

	_, err = f.svc.Projects.Get(f.ctx, work.ID)
	require.NoError(t, err)
}

func TestFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	source := f.ticket(project.InboxID, "Source", ticket.StatusTodo, 1)
	f.task(source.ID, nil, "A", false, 1)
	before := []int{f.count("projects"), f.count("tickets"), f.count("tasks")}

	// the activity entry is the last write of every conversion
	_, err := f.db.ExecContext(f.ctx, `DROP TABLE activity_log`)
	require.NoError(t, err)

	_, err = f.svc.Transform.TicketToProject(f.ctx, source.ID)
	require.Error(t, err)

	after := []int{f.count("projects"), f.count("tickets"), f.count("tasks")}
	require.Equal(t, before, after)
	_, err = f.svc.Tickets.Get(f.ctx, source.ID)
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }
