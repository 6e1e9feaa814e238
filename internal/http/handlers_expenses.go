package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Cuutu/brasil2026/internal/core"
)

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	case http.MethodDelete:
		s.deleteExpense(w, r)
	default:
		methodNotAllowed(w, "GET, POST, DELETE")
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Description string          `json:"description"`
		AmountBRL   json.RawMessage `json:"amountBRL"`
		PaidBy      string          `json:"paidBy"`
		Category    string          `json:"category"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, amountErr := amountFromJSON(body.AmountBRL)
	if strings.TrimSpace(body.Description) == "" || amountErr != nil || strings.TrimSpace(body.PaidBy) == "" {
		writeError(w, http.StatusBadRequest, "description, amountBRL, paidBy required")
		return
	}

	category := core.Category(body.Category)
	if category == "" {
		category = core.CategoryGeneral
	}
	if !category.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}

	expense, err := s.store.CreateExpense(r.Context(), core.Expense{
		Description: body.Description,
		AmountBRL:   amount,
		PaidBy:      body.PaidBy,
		Category:    category,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}
	if err := s.store.DeleteExpense(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeOK(w)
}
