package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/domain/transform"
)

type targetBody struct {
	TargetTicketID int64 `json:"target_ticket_id"`
}

// decodeTarget reads the target ticket id. An empty body, a missing field
// and unknown fields are accepted; the engine reports a target it cannot
// resolve as not found.
func decodeTarget(r *http.Request) (int64, error) {
	var body targetBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return body.TargetTicketID, nil
}

func (s *Server) taskToTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.services.Transform.TaskToTicket(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) taskToProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.services.Transform.TaskToProject(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) ticketToTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	target, err := decodeTarget(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.services.Transform.TicketToTask(r.Context(), id, target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) ticketToProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.services.Transform.TicketToProject(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) projectToTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.services.Transform.ProjectToTicket(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) projectToTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if id == project.InboxID {
		s.writeError(w, r, transform.ErrCannotConvertInbox)
		return
	}
	target, err := decodeTarget(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.services.Transform.ProjectToTask(r.Context(), id, target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
