package mcp

import (
	"context"
	"log/slog"

	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/domain/task"
	"github.com/GerardFevill/taskflow/internal/domain/ticket"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// TransformService defines the conversions exposed as tools.
type TransformService interface {
	TaskToTicket(ctx context.Context, taskID int64) (*ticket.Ticket, error)
	TicketToTask(ctx context.Context, ticketID, targetTicketID int64) (*task.Task, error)
	TicketToProject(ctx context.Context, ticketID int64) (*project.Project, error)
	ProjectToTicket(ctx context.Context, projectID int64) (*ticket.Ticket, error)
	TaskToProject(ctx context.Context, taskID int64) (*project.Project, error)
	ProjectToTask(ctx context.Context, projectID, targetTicketID int64) (*task.Task, error)
}

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context) ([]project.ProjectSummary, error)
}

// TicketService defines ticket operations needed by MCP.
type TicketService interface {
	Search(ctx context.Context, query string, opts ticket.SearchOptions) ([]ticket.SearchResult, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Transform TransformService
	Projects  ProjectService
	Tickets   TicketService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "taskflow",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.Logger)

	return server
}
