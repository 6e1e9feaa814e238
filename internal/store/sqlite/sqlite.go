// Package sqlite implements the store contract on a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Cuutu/brasil2026/internal/core"
	"github.com/Cuutu/brasil2026/internal/store"
)

const timeLayout = time.RFC3339Nano

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ListPersons returns persons in insertion order. These tables are
// append-only, so rowid is the insertion sequence; ordering on the
// timestamp text would misorder same-second rows whose fractions have
// trailing zeros trimmed.
func (s *Store) ListPersons(ctx context.Context) ([]core.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM persons ORDER BY rowid`)
	if err != nil {
		return nil, &store.StoreError{Op: "list persons", Err: err}
	}
	defer rows.Close()

	var persons []core.Person
	for rows.Next() {
		var p core.Person
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, &store.StoreError{Op: "scan person", Err: err}
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &store.StoreError{Op: "list persons", Err: err}
	}
	return persons, nil
}

func (s *Store) CreatePerson(ctx context.Context, name string) (core.Person, error) {
	p := core.Person{ID: uuid.NewString(), Name: strings.TrimSpace(name)}
	if err := p.Validate(); err != nil {
		return core.Person{}, &store.ValidationError{Err: err}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO persons (id, name, created_at) VALUES (?, ?, ?)`,
		p.ID, p.Name, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return core.Person{}, &store.StoreError{Op: "create person", Err: err}
	}

	slog.InfoContext(ctx, "Person created", "id", p.ID, "name", p.Name)
	return p, nil
}

// DeletePerson removes the person and, first, every expense that person
// paid for. The cascade is explicit so behavior does not depend on
// datastore-level foreign keys.
func (s *Store) DeletePerson(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &store.StoreError{Op: "delete person", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE paid_by = ?`, id); err != nil {
		return &store.StoreError{Op: "delete person expenses", Err: err}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id); err != nil {
		return &store.StoreError{Op: "delete person", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &store.StoreError{Op: "delete person", Err: err}
	}

	slog.InfoContext(ctx, "Person deleted with expense cascade", "id", id)
	return nil
}

// ListExpenses returns expenses newest-first.
func (s *Store) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, amount_brl, paid_by, category, created_at
		 FROM expenses ORDER BY rowid DESC`)
	if err != nil {
		return nil, &store.StoreError{Op: "list expenses", Err: err}
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			e         core.Expense
			amount    string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Description, &amount, &e.PaidBy, &e.Category, &createdAt); err != nil {
			return nil, &store.StoreError{Op: "scan expense", Err: err}
		}
		if e.AmountBRL, err = parseStoredAmount(amount); err != nil {
			return nil, &store.StoreError{Op: "scan expense amount", Err: err}
		}
		e.CreatedAt = parseStoredTime(createdAt)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &store.StoreError{Op: "list expenses", Err: err}
	}
	return expenses, nil
}

func (s *Store) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.ID = uuid.NewString()
	e.Description = strings.TrimSpace(e.Description)
	if e.Category == "" {
		e.Category = core.CategoryGeneral
	}
	e.CreatedAt = time.Now().UTC()
	if err := e.Validate(); err != nil {
		return core.Expense{}, &store.ValidationError{Err: err}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount_brl, paid_by, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Description, formatAmount(e.AmountBRL), e.PaidBy, string(e.Category),
		e.CreatedAt.Format(timeLayout))
	if err != nil {
		return core.Expense{}, &store.StoreError{Op: "create expense", Err: err}
	}

	slog.InfoContext(ctx, "Expense created",
		"id", e.ID,
		"description", e.Description,
		"amount_brl", e.AmountBRL,
		"paid_by", e.PaidBy,
		"category", e.Category)
	return e, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return &store.StoreError{Op: "delete expense", Err: err}
	}
	return nil
}

// ListItems returns important items newest-first.
func (s *Store) ListItems(ctx context.Context) ([]core.ImportantItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, link, information, amount_brl, added_by, created_at
		 FROM important_items ORDER BY rowid DESC`)
	if err != nil {
		return nil, &store.StoreError{Op: "list items", Err: err}
	}
	defer rows.Close()

	var items []core.ImportantItem
	for rows.Next() {
		var (
			it        core.ImportantItem
			amount    sql.NullString
			createdAt string
		)
		if err := rows.Scan(&it.ID, &it.Link, &it.Information, &amount, &it.AddedBy, &createdAt); err != nil {
			return nil, &store.StoreError{Op: "scan item", Err: err}
		}
		if amount.Valid {
			v, err := parseStoredAmount(amount.String)
			if err != nil {
				return nil, &store.StoreError{Op: "scan item amount", Err: err}
			}
			it.AmountBRL = &v
		}
		it.CreatedAt = parseStoredTime(createdAt)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, &store.StoreError{Op: "list items", Err: err}
	}
	return items, nil
}

func (s *Store) CreateItem(ctx context.Context, it core.ImportantItem) (core.ImportantItem, error) {
	it.ID = uuid.NewString()
	it.Link = strings.TrimSpace(it.Link)
	it.Information = strings.TrimSpace(it.Information)
	it.CreatedAt = time.Now().UTC()
	if err := it.Validate(); err != nil {
		return core.ImportantItem{}, &store.ValidationError{Err: err}
	}

	var amount any
	if it.AmountBRL != nil {
		amount = formatAmount(*it.AmountBRL)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO important_items (id, link, information, amount_brl, added_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		it.ID, it.Link, it.Information, amount, it.AddedBy, it.CreatedAt.Format(timeLayout))
	if err != nil {
		return core.ImportantItem{}, &store.StoreError{Op: "create item", Err: err}
	}

	slog.InfoContext(ctx, "Important item created", "id", it.ID, "information", it.Information)
	return it, nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM important_items WHERE id = ?`, id); err != nil {
		return &store.StoreError{Op: "delete item", Err: err}
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseStoredAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse stored amount %q: %w", s, err)
	}
	return v, nil
}

func parseStoredTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
