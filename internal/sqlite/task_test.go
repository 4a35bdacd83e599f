package sqlite

import (
	"context"
	"testing"

	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/domain/task"
	"github.com/GerardFevill/taskflow/internal/domain/ticket"
	"github.com/GerardFevill/taskflow/internal/repository"
	"github.com/stretchr/testify/require"
)

func insertTask(t *testing.T, db *DB, ticketID int64, parentID *int64, text string, done bool, position int) *task.Task {
	t.Helper()
	tk := &task.Task{
		TicketID: ticketID,
		ParentID: parentID,
		Text:     text,
		Done:     done,
		Position: position,
	}
	require.NoError(t, NewTaskRepository(db).Create(context.Background(), tk))
	return tk
}

func TestTaskRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	tk := insertTicket(t, db, project.InboxID, "Ticket", ticket.StatusTodo, 1)
	parent := insertTask(t, db, tk.ID, nil, "Fix bug", true, 1)
	child := insertTask(t, db, tk.ID, &parent.ID, "Write test", false, 1)

	got, err := repo.Get(ctx, child.ID)
	require.NoError(t, err)
	require.Equal(t, "Write test", got.Text)
	require.False(t, got.Done)
	require.NotNil(t, got.ParentID)
	require.Equal(t, parent.ID, *got.ParentID)

	got, err = repo.Get(ctx, parent.ID)
	require.NoError(t, err)
	require.True(t, got.Done)
	require.Nil(t, got.ParentID)

	_, err = repo.Get(ctx, 999)
	require.Equal(t, repository.ErrNotFound, err)
}

func TestTaskRepository_HierarchyEnforced(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	first := insertTicket(t, db, project.InboxID, "First", ticket.StatusTodo, 1)
	second := insertTicket(t, db, project.InboxID, "Second", ticket.StatusTodo, 2)
	parent := insertTask(t, db, first.ID, nil, "Parent", false, 1)
	child := insertTask(t, db, first.ID, &parent.ID, "Child", false, 1)

	missing := int64(999)
	tests := []struct {
		name     string
		ticketID int64
		parentID *int64
	}{
		{name: "missing parent", ticketID: first.ID, parentID: &missing},
		{name: "parent on another ticket", ticketID: second.ID, parentID: &parent.ID},
		{name: "parent is a subtask", ticketID: first.ID, parentID: &child.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, &task.Task{TicketID: tt.ticketID, ParentID: tt.parentID, Text: "x"})
			require.ErrorIs(t, err, repository.ErrInvalidHierarchy)
		})
	}
}

func TestTaskRepository_CreateUnknownTicket(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)

	err := repo.Create(context.Background(), &task.Task{TicketID: 404, Text: "Lost"})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestTaskRepository_ListOrdering(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	tk := insertTicket(t, db, project.InboxID, "Ticket", ticket.StatusTodo, 1)
	third := insertTask(t, db, tk.ID, nil, "third", false, 3)
	first := insertTask(t, db, tk.ID, nil, "first", false, 1)
	second := insertTask(t, db, tk.ID, nil, "second", false, 2)
	sub := insertTask(t, db, tk.ID, &first.ID, "sub", false, 1)

	tasks, err := repo.ListByTicket(ctx, tk.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 4)
	// (position, id): first(1), sub(1), second(2), third(3)
	require.Equal(t, []int64{first.ID, sub.ID, second.ID, third.ID},
		[]int64{tasks[0].ID, tasks[1].ID, tasks[2].ID, tasks[3].ID})

	children, err := repo.ListChildren(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, sub.ID, children[0].ID)
}

func TestTaskRepository_NextPosition(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	tk := insertTicket(t, db, project.InboxID, "Ticket", ticket.StatusTodo, 1)

	next, err := repo.NextPosition(ctx, tk.ID, nil)
	require.NoError(t, err)
	require.Equal(t, 1, next)

	parent := insertTask(t, db, tk.ID, nil, "Parent", false, 2)
	insertTask(t, db, tk.ID, &parent.ID, "Child", false, 7)

	next, err = repo.NextPosition(ctx, tk.ID, nil)
	require.NoError(t, err)
	require.Equal(t, 3, next)

	next, err = repo.NextPosition(ctx, tk.ID, &parent.ID)
	require.NoError(t, err)
	require.Equal(t, 8, next)
}

func TestTaskRepository_UpdateAndDeleteCascade(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	tk := insertTicket(t, db, project.InboxID, "Ticket", ticket.StatusTodo, 1)
	parent := insertTask(t, db, tk.ID, nil, "Parent", false, 1)
	child := insertTask(t, db, tk.ID, &parent.ID, "Child", false, 1)

	parent.Done = true
	parent.Text = "Parent done"
	require.NoError(t, repo.Update(ctx, parent))

	got, err := repo.Get(ctx, parent.ID)
	require.NoError(t, err)
	require.True(t, got.Done)
	require.Equal(t, "Parent done", got.Text)

	require.NoError(t, repo.Delete(ctx, parent.ID))
	_, err = repo.Get(ctx, child.ID)
	require.Equal(t, repository.ErrNotFound, err)

	require.Equal(t, repository.ErrNotFound, repo.Delete(ctx, parent.ID))
}
