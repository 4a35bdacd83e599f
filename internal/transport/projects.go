package transport

import (
	"net/http"

	"github.com/GerardFevill/taskflow/internal/domain/project"
)

type createProjectBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

type updateProjectBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
	Position    *int    `json:"position"`
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.services.Projects.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if projects == nil {
		projects = []project.ProjectSummary{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var body createProjectBody
	if err := decodeJSON(r.Body, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	proj, err := s.services.Projects.Create(r.Context(), project.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
		Color:       body.Color,
		Icon:        body.Icon,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, proj)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	proj, err := s.services.Projects.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body updateProjectBody
	if err := decodeJSON(r.Body, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	proj, err := s.services.Projects.Update(r.Context(), id, project.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Color:       body.Color,
		Icon:        body.Icon,
		Position:    body.Position,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.services.Projects.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listProjectTickets(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if _, err := s.services.Projects.Get(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	tickets, err := s.services.Tickets.ListByProject(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(tickets))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
