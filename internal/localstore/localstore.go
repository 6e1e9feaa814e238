// Package localstore persists the trip collections as JSON files on
// disk, one file per collection. It backs the client's local-only mode
// when the remote API is unreachable or reports no datastore.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Cuutu/brasil2026/internal/core"
	"github.com/Cuutu/brasil2026/internal/log"
)

// Collection keys double as file names (plus .json) inside the data dir.
const (
	KeyPersons   = "brasil2026_persons"
	KeyExpenses  = "brasil2026_expenses"
	KeyImportant = "brasil2026_important"
)

// Store reads and writes whole collections. Loads never fail: a missing
// or corrupt file yields the collection's default so a damaged data dir
// cannot take the client down.
type Store struct {
	mu     sync.Mutex
	dir    string
	logger *log.Logger
}

func New(dir string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentLocalStore)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating local data dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// LoadPersons returns the saved group, or the single default member when
// nothing usable is on disk.
func (s *Store) LoadPersons() []core.Person {
	var persons []core.Person
	if s.load(KeyPersons, &persons) && len(persons) > 0 {
		return persons
	}
	return []core.Person{{ID: "1", Name: "Persona 1"}}
}

func (s *Store) SavePersons(persons []core.Person) error {
	return s.save(KeyPersons, persons)
}

func (s *Store) LoadExpenses() []core.Expense {
	var expenses []core.Expense
	if s.load(KeyExpenses, &expenses) {
		return expenses
	}
	return []core.Expense{}
}

func (s *Store) SaveExpenses(expenses []core.Expense) error {
	return s.save(KeyExpenses, expenses)
}

func (s *Store) LoadItems() []core.ImportantItem {
	var items []core.ImportantItem
	if s.load(KeyImportant, &items) {
		return items
	}
	return []core.ImportantItem{}
}

func (s *Store) SaveItems(items []core.ImportantItem) error {
	return s.save(KeyImportant, items)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// load reports whether the file existed and decoded cleanly.
func (s *Store) load(key string, out any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Unreadable local collection, using default",
				log.FieldCollection, key,
				log.FieldError, err)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("Corrupt local collection, using default",
			log.FieldCollection, key,
			log.FieldError, err)
		return false
	}
	return true
}

// save writes the collection atomically via a temp file rename.
func (s *Store) save(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}
