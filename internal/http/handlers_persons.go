package http

import (
	"net/http"
	"strings"

	"github.com/Cuutu/brasil2026/internal/core"
)

func (s *Server) handlePersons(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listPersons(w, r)
	case http.MethodPost:
		s.createPerson(w, r)
	case http.MethodDelete:
		s.deletePerson(w, r)
	default:
		methodNotAllowed(w, "GET, POST, DELETE")
	}
}

func (s *Server) listPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := s.store.ListPersons(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if persons == nil {
		persons = []core.Person{}
	}
	writeJSON(w, http.StatusOK, persons)
}

func (s *Server) createPerson(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	person, err := s.store.CreatePerson(r.Context(), body.Name)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (s *Server) deletePerson(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}
	if err := s.store.DeletePerson(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeOK(w)
}
