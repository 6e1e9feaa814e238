// Package store defines the uniform contract over the shared trip
// collections (persons, expenses, important items) and the error taxonomy
// every implementation reports through.
package store

import (
	"context"
	"errors"

	"github.com/Cuutu/brasil2026/internal/core"
)

// ErrUnavailable signals that no datastore was ever configured. It is
// distinguishable from an empty collection and from a transient error so
// callers can choose a degraded mode instead of failing.
var ErrUnavailable = errors.New("datastore not configured")

// ValidationError marks input rejected before any write happened.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// StoreError marks a reachable datastore that rejected the operation.
// The underlying message is propagated verbatim; no retry is attempted.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

// Store exposes the three collections behind a uniform
// list/create/delete contract.
//
// Ordering: persons are returned in insertion order, expenses and items
// newest-first. Create fills in the generated id and timestamp. Deleting
// a person also removes every expense that person paid for.
type Store interface {
	ListPersons(ctx context.Context) ([]core.Person, error)
	CreatePerson(ctx context.Context, name string) (core.Person, error)
	DeletePerson(ctx context.Context, id string) error

	ListExpenses(ctx context.Context) ([]core.Expense, error)
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	ListItems(ctx context.Context) ([]core.ImportantItem, error)
	CreateItem(ctx context.Context, it core.ImportantItem) (core.ImportantItem, error)
	DeleteItem(ctx context.Context, id string) error
}
