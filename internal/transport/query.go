package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/GerardFevill/taskflow/internal/domain/activity"
	"github.com/GerardFevill/taskflow/internal/domain/ticket"
	"github.com/GerardFevill/taskflow/internal/export"
)

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := ticket.SearchOptions{Limit: limit}
	if raw := q.Get("project_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: invalid project_id %q", errBadRequest, raw))
			return
		}
		opts.ProjectID = &id
	}
	for _, st := range q["status"] {
		status := ticket.Status(st)
		if !status.Valid() {
			s.writeError(w, r, fmt.Errorf("%w: invalid status %q", errBadRequest, st))
			return
		}
		opts.Statuses = append(opts.Statuses, status)
	}

	results, err := s.services.Tickets.Search(r.Context(), q.Get("q"), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(results))
}

func (s *Server) listActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := activity.ListActivityOptions{Limit: limit, Offset: offset}
	if raw := q.Get("entity_type"); raw != "" {
		et := activity.EntityType(raw)
		opts.EntityType = &et
	}
	if raw := q.Get("entity_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: invalid entity_id %q", errBadRequest, raw))
			return
		}
		opts.EntityID = &id
	}
	if raw := q.Get("type"); raw != "" {
		at := activity.ActivityType(raw)
		opts.ActivityType = &at
	}

	entries, err := s.services.Activity.GetRecentActivity(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(entries))
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	compression, err := export.ParseCompression(q.Get("compress"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.services.Export.Export(r.Context(), export.Options{Format: format, Compression: compression})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("ETag", strconv.Quote(res.Checksum))
	w.Header().Set("X-Snapshot-ID", res.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}
