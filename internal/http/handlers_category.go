package http

import (
	"net/http"

	"homespend/internal/core"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := s.categories.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []core.Category{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := s.decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.categories.Add(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	var req renameCategoryRequest
	if err := s.decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	renamed, err := s.categories.Rename(r.Context(), r.PathValue("name"), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, renamed)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.categories.Delete(r.Context(), r.PathValue("name"), s.expenses); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
