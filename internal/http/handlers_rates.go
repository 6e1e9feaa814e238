package http

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/Cuutu/brasil2026/internal/core"
)

// handleExchange always answers 200: provider failures are absorbed into
// the fallback snapshot and only visible through the fallback flag.
func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	snapshot := s.rates.Get(r.Context())
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, snapshot)
}

type summaryResponse struct {
	core.Summary
	TotalConverted   core.Converted     `json:"totalConverted"`
	PerHeadConverted core.Converted     `json:"perHeadConverted"`
	Rates            core.ExchangeRates `json:"rates"`
}

// handleSummary computes the settlement view server-side: persons and
// expenses are fetched concurrently, then projected through the current
// rate snapshot.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	var (
		persons  []core.Person
		expenses []core.Expense
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		persons, err = s.store.ListPersons(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpenses(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		writeStoreError(w, r, err)
		return
	}

	summary := core.ComputeSummary(persons, expenses)
	snapshot := s.rates.Get(r.Context())

	writeJSON(w, http.StatusOK, summaryResponse{
		Summary:          summary,
		TotalConverted:   core.Convert(summary.TotalBRL, snapshot),
		PerHeadConverted: core.Convert(summary.PerHeadBRL, snapshot),
		Rates:            snapshot,
	})
}
