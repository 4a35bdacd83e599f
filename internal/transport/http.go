package transport

import (
	"log/slog"
	"net/http"

	"github.com/GerardFevill/taskflow/internal/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wires HTTP handlers.
type Server struct {
	services *app.Services
	logger   *slog.Logger
}

// NewRouter creates the REST router with middleware.
func NewRouter(services *app.Services, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(AccessLogMiddleware(logger))
	r.Use(middleware.Recoverer)

	srv := &Server{services: services, logger: logger}

	r.Get("/health", srv.handleHealth)

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", srv.listProjects)
		r.Post("/", srv.createProject)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", srv.getProject)
			r.Patch("/", srv.updateProject)
			r.Delete("/", srv.deleteProject)
			r.Get("/tickets", srv.listProjectTickets)
			r.Post("/to-ticket", srv.projectToTicket)
			r.Post("/to-task", srv.projectToTask)
		})
	})

	r.Route("/tickets", func(r chi.Router) {
		r.Post("/", srv.createTicket)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", srv.getTicket)
			r.Patch("/", srv.updateTicket)
			r.Delete("/", srv.deleteTicket)
			r.Get("/tasks", srv.listTicketTasks)
			r.Get("/description", srv.renderDescription)
			r.Post("/to-task", srv.ticketToTask)
			r.Post("/to-project", srv.ticketToProject)
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", srv.createTask)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", srv.getTask)
			r.Patch("/", srv.updateTask)
			r.Delete("/", srv.deleteTask)
			r.Post("/to-ticket", srv.taskToTicket)
			r.Post("/to-project", srv.taskToProject)
		})
	})

	r.Get("/search", srv.search)
	r.Get("/activity", srv.listActivity)
	r.Get("/export", srv.export)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
