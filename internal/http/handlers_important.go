package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Cuutu/brasil2026/internal/core"
)

func (s *Server) handleImportant(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listItems(w, r)
	case http.MethodPost:
		s.createItem(w, r)
	case http.MethodDelete:
		s.deleteItem(w, r)
	default:
		methodNotAllowed(w, "GET, POST, DELETE")
	}
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListItems(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if items == nil {
		items = []core.ImportantItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Link        string          `json:"link"`
		Information string          `json:"information"`
		AmountBRL   json.RawMessage `json:"amountBRL"`
		AddedBy     string          `json:"addedBy"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Information) == "" {
		writeError(w, http.StatusBadRequest, "information required")
		return
	}

	// The amount is optional on items; when present it must be a valid
	// positive amount.
	var amount *float64
	if !isJSONNull(body.AmountBRL) {
		v, err := amountFromJSON(body.AmountBRL)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid amount")
			return
		}
		amount = &v
	}

	item, err := s.store.CreateItem(r.Context(), core.ImportantItem{
		Link:        body.Link,
		Information: body.Information,
		AmountBRL:   amount,
		AddedBy:     body.AddedBy,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}
	if err := s.store.DeleteItem(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeOK(w)
}
