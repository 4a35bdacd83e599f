package transport

import (
	"net/http"

	"github.com/GerardFevill/taskflow/internal/domain/task"
)

type createTaskBody struct {
	TicketID int64  `json:"ticket_id"`
	ParentID *int64 `json:"parent_id"`
	Text     string `json:"text"`
	Done     bool   `json:"done"`
}

type updateTaskBody struct {
	Text     *string `json:"text"`
	Done     *bool   `json:"done"`
	Position *int    `json:"position"`
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var body createTaskBody
	if err := decodeJSON(r.Body, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.services.Tasks.Create(r.Context(), task.CreateRequest{
		TicketID: body.TicketID,
		ParentID: body.ParentID,
		Text:     body.Text,
		Done:     body.Done,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.services.Tasks.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body updateTaskBody
	if err := decodeJSON(r.Body, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.services.Tasks.Update(r.Context(), id, task.UpdateRequest{
		Text:     body.Text,
		Done:     body.Done,
		Position: body.Position,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.services.Tasks.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
