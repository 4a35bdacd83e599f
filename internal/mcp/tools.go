package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/domain/ticket"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type taskInput struct {
	TaskID int64 `json:"task_id" jsonschema:"ID of the task to convert"`
}

type ticketInput struct {
	TicketID int64 `json:"ticket_id" jsonschema:"ID of the ticket to convert"`
}

type ticketToTaskInput struct {
	TicketID       int64 `json:"ticket_id" jsonschema:"ID of the ticket to convert"`
	TargetTicketID int64 `json:"target_ticket_id" jsonschema:"ID of the ticket receiving the new task"`
}

type projectInput struct {
	ProjectID int64 `json:"project_id" jsonschema:"ID of the project to convert (the Inbox, 1, is refused)"`
}

type projectToTaskInput struct {
	ProjectID      int64 `json:"project_id" jsonschema:"ID of the project to convert (the Inbox, 1, is refused)"`
	TargetTicketID int64 `json:"target_ticket_id" jsonschema:"ID of the ticket receiving the new task"`
}

type listProjectsInput struct{}

type searchTicketsInput struct {
	Query     string   `json:"query" jsonschema:"Full-text query over ticket titles and descriptions"`
	ProjectID int64    `json:"project_id,omitempty" jsonschema:"Restrict results to one project"`
	Statuses  []string `json:"statuses,omitempty" jsonschema:"Restrict results to these statuses (todo, in_progress, done)"`
	Limit     int      `json:"limit,omitempty" jsonschema:"Maximum number of results"`
}

type toolRunner struct {
	services Services
	logger   *slog.Logger
}

func registerTools(server *sdkmcp.Server, services Services, logger *slog.Logger) {
	r := &toolRunner{services: services, logger: logger}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "task_to_ticket",
		Description: "Promote a task to a ticket in the project of its ticket. Its subtasks become the ticket's tasks.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in taskInput) (*sdkmcp.CallToolResult, any, error) {
		return r.respond(r.services.Transform.TaskToTicket(ctx, in.TaskID))
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "task_to_project",
		Description: "Promote a task to a project. Its subtasks become tickets of the new project.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in taskInput) (*sdkmcp.CallToolResult, any, error) {
		return r.respond(r.services.Transform.TaskToProject(ctx, in.TaskID))
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ticket_to_task",
		Description: "Demote a ticket to a task of another ticket. Every task of the ticket becomes a subtask, in order.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ticketToTaskInput) (*sdkmcp.CallToolResult, any, error) {
		return r.respond(r.services.Transform.TicketToTask(ctx, in.TicketID, in.TargetTicketID))
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ticket_to_project",
		Description: "Promote a ticket to a project. Top-level tasks become tickets and their subtasks become tasks.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ticketInput) (*sdkmcp.CallToolResult, any, error) {
		return r.respond(r.services.Transform.TicketToProject(ctx, in.TicketID))
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_to_ticket",
		Description: "Demote a project to an Inbox ticket. Tickets become tasks and their top-level tasks become subtasks.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in projectInput) (*sdkmcp.CallToolResult, any, error) {
		return r.respond(r.services.Transform.ProjectToTicket(ctx, in.ProjectID))
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_to_task",
		Description: "Demote a project to a task of another ticket. Its tickets become subtasks; their tasks are dropped.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in projectToTaskInput) (*sdkmcp.CallToolResult, any, error) {
		return r.respond(r.services.Transform.ProjectToTask(ctx, in.ProjectID, in.TargetTicketID))
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all projects with their ticket counts, Inbox first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ listProjectsInput) (*sdkmcp.CallToolResult, any, error) {
		projects, err := r.services.Projects.List(ctx)
		if projects == nil {
			projects = []project.ProjectSummary{}
		}
		return r.respond(projects, err)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_tickets",
		Description: "Search tickets by title and description, best matches first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in searchTicketsInput) (*sdkmcp.CallToolResult, any, error) {
		opts := ticket.SearchOptions{Limit: in.Limit}
		if in.ProjectID > 0 {
			opts.ProjectID = &in.ProjectID
		}
		for _, s := range in.Statuses {
			opts.Statuses = append(opts.Statuses, ticket.Status(s))
		}
		results, err := r.services.Tickets.Search(ctx, in.Query, opts)
		if results == nil {
			results = []ticket.SearchResult{}
		}
		return r.respond(results, err)
	})
}

// respond renders a service result as JSON text, or a tool error carrying
// the mapped code.
func (r *toolRunner) respond(value any, err error) (*sdkmcp.CallToolResult, any, error) {
	if err != nil {
		apiErr := MapError(err)
		if apiErr == nil {
			if r.logger != nil {
				r.logger.Error("tool failed", "error", err)
			}
			apiErr = &APIError{Code: "INTERNAL", Message: "internal error"}
		}
		return &sdkmcp.CallToolResult{
			IsError: true,
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: encode(apiErr)}},
		}, nil, nil
	}

	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: encode(value)}},
	}, nil, nil
}

func encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return formatPayload(v)
	}
	return string(data)
}
