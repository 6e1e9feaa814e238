package store

import (
	"context"

	"github.com/Cuutu/brasil2026/internal/core"
)

// Unconfigured is the Store used when no datastore is configured. Every
// operation reports ErrUnavailable so the request surface can answer 503
// and clients can degrade to local-only mode.
type Unconfigured struct{}

var _ Store = Unconfigured{}

func (Unconfigured) ListPersons(context.Context) ([]core.Person, error) {
	return nil, ErrUnavailable
}

func (Unconfigured) CreatePerson(context.Context, string) (core.Person, error) {
	return core.Person{}, ErrUnavailable
}

func (Unconfigured) DeletePerson(context.Context, string) error {
	return ErrUnavailable
}

func (Unconfigured) ListExpenses(context.Context) ([]core.Expense, error) {
	return nil, ErrUnavailable
}

func (Unconfigured) CreateExpense(context.Context, core.Expense) (core.Expense, error) {
	return core.Expense{}, ErrUnavailable
}

func (Unconfigured) DeleteExpense(context.Context, string) error {
	return ErrUnavailable
}

func (Unconfigured) ListItems(context.Context) ([]core.ImportantItem, error) {
	return nil, ErrUnavailable
}

func (Unconfigured) CreateItem(context.Context, core.ImportantItem) (core.ImportantItem, error) {
	return core.ImportantItem{}, ErrUnavailable
}

func (Unconfigured) DeleteItem(context.Context, string) error {
	return ErrUnavailable
}
