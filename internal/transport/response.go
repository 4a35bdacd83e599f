package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/GerardFevill/taskflow/internal/domain/activity"
	"github.com/GerardFevill/taskflow/internal/domain/project"
	"github.com/GerardFevill/taskflow/internal/domain/task"
	"github.com/GerardFevill/taskflow/internal/domain/ticket"
	"github.com/GerardFevill/taskflow/internal/domain/transform"
	"github.com/GerardFevill/taskflow/internal/export"
	"github.com/go-chi/chi/v5"
)

// errBadRequest marks malformed paths, queries and bodies.
var errBadRequest = errors.New("bad request")

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps a service error to an HTTP status and a client-facing message.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, transform.ErrCannotConvertInbox):
		return http.StatusBadRequest, "Cannot convert Inbox"
	case errors.Is(err, transform.ErrTargetNotFound):
		return http.StatusNotFound, "Ticket cible non trouve"
	case errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound, "Tache non trouvee"
	case errors.Is(err, ticket.ErrTicketNotFound), errors.Is(err, task.ErrTicketNotFound):
		return http.StatusNotFound, "Ticket non trouve"
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, ticket.ErrProjectNotFound):
		return http.StatusNotFound, "Projet non trouve"
	case errors.Is(err, project.ErrInboxProtected),
		errors.Is(err, transform.ErrInvalidTarget),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, ticket.ErrInvalidInput),
		errors.Is(err, task.ErrInvalidInput),
		errors.Is(err, task.ErrInvalidParent),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, export.ErrUnsupportedCompression),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := StatusFor(err)
	if status == http.StatusInternalServerError {
		id, _ := RequestIDFromContext(r.Context())
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "request_id", id, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", errBadRequest, name, raw)
	}
	return n, nil
}
