package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"projects",
		"tickets",
		"tasks",
		"activity_log",
		"tickets_fts",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

func TestMigrationsAreRepeatable(t *testing.T) {
	db := NewTestDB(t)

	require.NoError(t, db.RunMigrations())

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&count))
	require.Equal(t, 1, count)
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestInboxSeeded(t *testing.T) {
	db := NewTestDB(t)

	var name string
	err := db.QueryRow("SELECT name FROM projects WHERE id = 1").Scan(&name)
	require.NoError(t, err)
	require.Equal(t, "Inbox", name)
}

func TestInboxCannotBeDeleted(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.Exec("DELETE FROM projects WHERE id = 1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot delete Inbox")
}

// TestTicketsFallBackToInbox verifies the ON DELETE SET DEFAULT rule
func TestTicketsFallBackToInbox(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO projects (id, name) VALUES (2, 'Side')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO tickets (id, project_id, title) VALUES (10, 2, 'Orphan')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `DELETE FROM projects WHERE id = 2`)
	require.NoError(t, err)

	var projectID int64
	require.NoError(t, db.QueryRowContext(ctx, `SELECT project_id FROM tickets WHERE id = 10`).Scan(&projectID))
	require.Equal(t, int64(1), projectID)
}

// TestTasksTable verifies cascades and constraints on tasks
func TestTasksTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO tickets (id, title) VALUES (10, 'Ticket')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO tasks (id, ticket_id, text) VALUES (5, 10, 'Parent')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO tasks (id, ticket_id, parent_id, text) VALUES (6, 10, 5, 'Child')`)
	require.NoError(t, err)

	// unknown ticket
	_, err = db.ExecContext(ctx, `INSERT INTO tasks (ticket_id, text) VALUES (99, 'Lost')`)
	require.Error(t, err)

	// invalid status
	_, err = db.ExecContext(ctx, `INSERT INTO tickets (title, status) VALUES ('Bad', 'blocked')`)
	require.Error(t, err)

	_, err = db.ExecContext(ctx, `DELETE FROM tickets WHERE id = 10`)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count))
	require.Equal(t, 0, count)
}

// TestFTSIndex verifies the full-text search index is synchronized
func TestFTSIndex(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO tickets (id, title, description) VALUES (?, ?, ?)`,
		1, "Unique Ticket Title", "Full description here")
	require.NoError(t, err)

	var count int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets_fts WHERE tickets_fts MATCH ?`,
		"unique").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count, "should find 1 ticket matching 'unique'")

	_, err = db.ExecContext(ctx, `UPDATE tickets SET title = ? WHERE id = ?`, "Updated Title", 1)
	require.NoError(t, err)

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets_fts WHERE tickets_fts MATCH ?`,
		"updated").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count, "should find 1 ticket matching 'updated' after update")

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets_fts WHERE tickets_fts MATCH ?`,
		"unique").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 0, count, "should find 0 tickets matching 'unique' after update")

	_, err = db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, 1)
	require.NoError(t, err)

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets_fts WHERE tickets_fts MATCH ?`,
		"updated").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 0, count, "deleted ticket should leave the index")
}
