package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// querier is satisfied by both *DB and *sql.Tx, so repositories can run
// inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers anyway. A single connection keeps in-memory
	// databases shared and the foreign_keys pragma in effect.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema and seeds the Inbox project. It is safe to
// run against an already migrated database.
func (db *DB) RunMigrations() error {
	migration := `
-- Projects table. Row 1 is the Inbox.
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '#6b7280',
    icon TEXT NOT NULL DEFAULT 'folder',
    position INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

INSERT OR IGNORE INTO projects (id, name, description, position)
VALUES (1, 'Inbox', 'Default project', 0);

CREATE TRIGGER IF NOT EXISTS projects_protect_inbox BEFORE DELETE ON projects
WHEN old.id = 1 BEGIN
    SELECT RAISE(ABORT, 'cannot delete Inbox');
END;

-- Tickets fall back to the Inbox when their project is deleted
CREATE TABLE IF NOT EXISTS tickets (
    id INTEGER PRIMARY KEY,
    project_id INTEGER NOT NULL DEFAULT 1,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'todo' CHECK(status IN ('todo', 'in_progress', 'done')),
    priority TEXT NOT NULL DEFAULT 'plan' CHECK(priority IN ('do', 'plan', 'delegate', 'eliminate')),
    position INTEGER NOT NULL DEFAULT 0,
    due_date TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE SET DEFAULT
);
CREATE INDEX IF NOT EXISTS idx_project_tickets ON tickets(project_id, position);
CREATE INDEX IF NOT EXISTS idx_ticket_status ON tickets(status);

-- Tasks: two levels, enforced by TaskRepository.Create
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY,
    ticket_id INTEGER NOT NULL,
    parent_id INTEGER,
    text TEXT NOT NULL,
    done INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (ticket_id) REFERENCES tickets(id) ON DELETE CASCADE,
    FOREIGN KEY (parent_id) REFERENCES tasks(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_ticket_tasks ON tasks(ticket_id, position);
CREATE INDEX IF NOT EXISTS idx_parent_tasks ON tasks(parent_id);

-- Activity log
CREATE TABLE IF NOT EXISTS activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_type TEXT NOT NULL,
    entity_id INTEGER NOT NULL,
    activity_type TEXT NOT NULL,
    summary TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_entity_activity ON activity_log(entity_type, entity_id);
CREATE INDEX IF NOT EXISTS idx_created_at ON activity_log(created_at);

-- Full-text search (SQLite FTS5)
CREATE VIRTUAL TABLE IF NOT EXISTS tickets_fts USING fts5(
    title,
    description,
    content='tickets',
    content_rowid='id'
);

-- Triggers to keep FTS index synchronized
CREATE TRIGGER IF NOT EXISTS tickets_ai AFTER INSERT ON tickets BEGIN
    INSERT INTO tickets_fts(rowid, title, description)
    VALUES (new.id, new.title, new.description);
END;

CREATE TRIGGER IF NOT EXISTS tickets_ad AFTER DELETE ON tickets BEGIN
    INSERT INTO tickets_fts(tickets_fts, rowid, title, description)
    VALUES('delete', old.id, old.title, old.description);
END;

CREATE TRIGGER IF NOT EXISTS tickets_au AFTER UPDATE OF title, description ON tickets BEGIN
    INSERT INTO tickets_fts(tickets_fts, rowid, title, description)
    VALUES('delete', old.id, old.title, old.description);
    INSERT INTO tickets_fts(rowid, title, description)
    VALUES (new.id, new.title, new.description);
END;
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
