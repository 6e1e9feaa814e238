package localstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cuutu/brasil2026/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

func TestLoadPersonsDefault(t *testing.T) {
	s := newTestStore(t)

	persons := s.LoadPersons()
	require.Len(t, persons, 1)
	assert.Equal(t, "1", persons[0].ID)
	assert.Equal(t, "Persona 1", persons[0].Name)
}

func TestPersonsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	want := []core.Person{{ID: "a", Name: "Ana"}, {ID: "b", Name: "Bruno"}}
	require.NoError(t, s.SavePersons(want))
	assert.Equal(t, want, s.LoadPersons())
}

func TestEmptySavedPersonsYieldsDefault(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SavePersons([]core.Person{}))
	persons := s.LoadPersons()
	require.Len(t, persons, 1)
	assert.Equal(t, "Persona 1", persons[0].Name)
}

func TestCorruptFileYieldsDefault(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, nil)
	require.NoError(t, err)

	path := filepath.Join(dir, KeyExpenses+".json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	expenses := s.LoadExpenses()
	assert.Empty(t, expenses)
	assert.NotNil(t, expenses)
}

func TestExpensesRoundTrip(t *testing.T) {
	s := newTestStore(t)

	created := time.Date(2026, 6, 12, 10, 0, 0, 0, time.UTC)
	want := []core.Expense{{
		ID:          "e1",
		Description: "taxi",
		AmountBRL:   42.5,
		PaidBy:      "1",
		Category:    core.CategoryTransporte,
		CreatedAt:   created,
	}}
	require.NoError(t, s.SaveExpenses(want))
	assert.Equal(t, want, s.LoadExpenses())
}

func TestItemsRoundTripWithOptionalAmount(t *testing.T) {
	s := newTestStore(t)

	amount := 380.0
	want := []core.ImportantItem{
		{ID: "i1", Information: "hotel booking", AmountBRL: &amount},
		{ID: "i2", Information: "passport copies"},
	}
	require.NoError(t, s.SaveItems(want))

	got := s.LoadItems()
	require.Len(t, got, 2)
	require.NotNil(t, got[0].AmountBRL)
	assert.Equal(t, 380.0, *got[0].AmountBRL)
	assert.Nil(t, got[1].AmountBRL)
}

func TestSaveOverwrites(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SavePersons([]core.Person{{ID: "a", Name: "Ana"}}))
	require.NoError(t, s.SavePersons([]core.Person{{ID: "b", Name: "Bruno"}}))

	persons := s.LoadPersons()
	require.Len(t, persons, 1)
	assert.Equal(t, "Bruno", persons[0].Name)
}
