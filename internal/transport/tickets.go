package transport

import (
	"net/http"
	"time"

	"github.com/GerardFevill/taskflow/internal/domain/ticket"
)

type createTicketBody struct {
	ProjectID   int64           `json:"project_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      ticket.Status   `json:"status"`
	Priority    ticket.Priority `json:"priority"`
	DueDate     *time.Time      `json:"due_date"`
}

type updateTicketBody struct {
	ProjectID   *int64           `json:"project_id"`
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Status      *ticket.Status   `json:"status"`
	Priority    *ticket.Priority `json:"priority"`
	Position    *int             `json:"position"`
	DueDate     *time.Time       `json:"due_date"`
	ClearDue    bool             `json:"clear_due"`
}

type descriptionResponse struct {
	ID   int64  `json:"id"`
	HTML string `json:"html"`
}

func (s *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	var body createTicketBody
	if err := decodeJSON(r.Body, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.services.Tickets.Create(r.Context(), ticket.CreateRequest{
		ProjectID:   body.ProjectID,
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		DueDate:     body.DueDate,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.services.Tickets.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body updateTicketBody
	if err := decodeJSON(r.Body, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.services.Tickets.Update(r.Context(), id, ticket.UpdateRequest{
		ProjectID:   body.ProjectID,
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		Position:    body.Position,
		DueDate:     body.DueDate,
		ClearDue:    body.ClearDue,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.services.Tickets.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTicketTasks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if _, err := s.services.Tickets.Get(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	tasks, err := s.services.Tasks.ListByTicket(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(tasks))
}

func (s *Server) renderDescription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	html, err := s.services.Tickets.RenderDescription(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, descriptionResponse{ID: id, HTML: html})
}
