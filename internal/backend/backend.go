// Package backend selects and builds the store implementation the server
// runs against.
package backend

import (
	"github.com/Cuutu/brasil2026/internal/store"
)

// Type represents the kind of datastore backing the shared collections.
type Type string

const (
	// SQLiteBackend serves the collections from a SQLite database.
	SQLiteBackend Type = "sqlite"
	// NoneBackend means no datastore is configured: every collection
	// operation reports store.ErrUnavailable and clients degrade to
	// local-only mode.
	NoneBackend Type = "none"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, NoneBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the store instance and optional cleanup function
type Result struct {
	Store   store.Store
	Cleanup CleanupFunc
}

// Config holds configuration for store creation
type Config struct {
	Type         Type
	SQLiteDBPath string
}
