package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GerardFevill/taskflow/internal/app"
	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/domain/task"
	"github.com/GerardFevill/taskflow/internal/domain/ticket"
	"github.com/GerardFevill/taskflow/internal/export"
	"github.com/GerardFevill/taskflow/internal/sqlite"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// seed creates a ticket holding one task in a fresh database file.
func seed(t *testing.T) (string, *ticket.Ticket, *task.Task) {
	t.Helper()
	t.Setenv("TASKFLOW_CONFIG_PATH", "")

	path := filepath.Join(t.TempDir(), "board.db")
	db, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	defer db.Close()

	services := app.NewServices(db, nil)
	ctx := context.Background()
	tk, err := services.Tickets.Create(ctx, ticket.CreateRequest{Title: "Release"})
	require.NoError(t, err)
	tsk, err := services.Tasks.Create(ctx, task.CreateRequest{TicketID: tk.ID, Text: "Tag build"})
	require.NoError(t, err)
	return path, tk, tsk
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "taskflow")
}

func TestMigrate(t *testing.T) {
	t.Setenv("TASKFLOW_CONFIG_PATH", "")
	path := filepath.Join(t.TempDir(), "new.db")

	out, err := run(t, "--db", path, "migrate")
	require.NoError(t, err)
	require.Contains(t, out, "database migrated")
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestTransformTaskToProject(t *testing.T) {
	path, _, tsk := seed(t)

	out, err := run(t, "--db", path, "transform", "task-to-project", strconv.FormatInt(tsk.ID, 10))
	require.NoError(t, err)

	var proj project.Project
	require.NoError(t, json.Unmarshal([]byte(out), &proj))
	require.Equal(t, "Tag build", proj.Name)
}

func TestTransformTicketToTaskRequiresTarget(t *testing.T) {
	path, tk, _ := seed(t)

	_, err := run(t, "--db", path, "transform", "ticket-to-task", strconv.FormatInt(tk.ID, 10))
	require.Error(t, err)
}

func TestTransformInboxRefused(t *testing.T) {
	path, _, _ := seed(t)

	_, err := run(t, "--db", path, "transform", "project-to-ticket", "1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Cannot convert Inbox")
}

func TestTransformInvalidID(t *testing.T) {
	path, _, _ := seed(t)

	_, err := run(t, "--db", path, "transform", "task-to-ticket", "abc")
	require.Error(t, err)
}

func TestExportToFile(t *testing.T) {
	path, _, _ := seed(t)
	outPath := filepath.Join(t.TempDir(), "board.json.zst")

	_, err := run(t, "--db", path, "export", "--format", "json", "--compress", "zstd", "-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	raw, err := export.Decompress(data, export.CompressionZstd)
	require.NoError(t, err)

	var snap export.Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	require.Len(t, snap.Projects, 1)
	require.Equal(t, "Release", snap.Projects[0].Tickets[0].Title)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	path, _, _ := seed(t)

	_, err := run(t, "--db", path, "export", "--format", "xml")
	require.ErrorIs(t, err, export.ErrUnsupportedFormat)
}
