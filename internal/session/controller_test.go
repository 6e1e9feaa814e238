package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cuutu/brasil2026/internal/client"
	"github.com/Cuutu/brasil2026/internal/core"
	"github.com/Cuutu/brasil2026/internal/localstore"
	"github.com/Cuutu/brasil2026/internal/store"
)

// fakeAPI simulates the remote side with switchable failure behavior.
type fakeAPI struct {
	down        bool // transport failures on every call
	unavailable bool // 503 on every call

	persons  []core.Person
	expenses []core.Expense
	items    []core.ImportantItem
	rates    core.ExchangeRates
	nextID   int
}

var errConnRefused = errors.New("connection refused")

func (f *fakeAPI) fail() error {
	if f.down {
		return &client.TransportError{Err: errConnRefused}
	}
	if f.unavailable {
		return store.ErrUnavailable
	}
	return nil
}

func (f *fakeAPI) id() string {
	f.nextID++
	return string(rune('a' + f.nextID - 1))
}

func (f *fakeAPI) ListPersons(ctx context.Context) ([]core.Person, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return append([]core.Person(nil), f.persons...), nil
}

func (f *fakeAPI) CreatePerson(ctx context.Context, name string) (core.Person, error) {
	if err := f.fail(); err != nil {
		return core.Person{}, err
	}
	p := core.Person{ID: f.id(), Name: name}
	f.persons = append(f.persons, p)
	return p, nil
}

func (f *fakeAPI) DeletePerson(ctx context.Context, id string) error {
	if err := f.fail(); err != nil {
		return err
	}
	for i, p := range f.persons {
		if p.ID == id {
			f.persons = append(f.persons[:i], f.persons[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeAPI) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return append([]core.Expense(nil), f.expenses...), nil
}

func (f *fakeAPI) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := f.fail(); err != nil {
		return core.Expense{}, err
	}
	e.ID = f.id()
	e.CreatedAt = time.Now().UTC()
	f.expenses = append([]core.Expense{e}, f.expenses...)
	return e, nil
}

func (f *fakeAPI) DeleteExpense(ctx context.Context, id string) error {
	if err := f.fail(); err != nil {
		return err
	}
	for i, e := range f.expenses {
		if e.ID == id {
			f.expenses = append(f.expenses[:i], f.expenses[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeAPI) ListItems(ctx context.Context) ([]core.ImportantItem, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return append([]core.ImportantItem(nil), f.items...), nil
}

func (f *fakeAPI) CreateItem(ctx context.Context, it core.ImportantItem) (core.ImportantItem, error) {
	if err := f.fail(); err != nil {
		return core.ImportantItem{}, err
	}
	it.ID = f.id()
	it.CreatedAt = time.Now().UTC()
	f.items = append([]core.ImportantItem{it}, f.items...)
	return it, nil
}

func (f *fakeAPI) DeleteItem(ctx context.Context, id string) error {
	if err := f.fail(); err != nil {
		return err
	}
	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeAPI) ExchangeRates(ctx context.Context) (core.ExchangeRates, error) {
	if err := f.fail(); err != nil {
		return core.ExchangeRates{}, err
	}
	return f.rates, nil
}

func newTestController(t *testing.T, api *fakeAPI) *Controller {
	t.Helper()
	local, err := localstore.New(t.TempDir(), nil)
	require.NoError(t, err)

	c := NewController(Config{
		API:         api,
		Local:       local,
		FallbackUSD: 0.18,
		FallbackARS: 260,
	})
	t.Cleanup(c.Close)
	return c
}

func TestInitRemote(t *testing.T) {
	api := &fakeAPI{
		persons: []core.Person{{ID: "a", Name: "Ana"}},
		rates:   core.ExchangeRates{USD: 0.2, ARS: 300, UpdatedAt: time.Now()},
	}
	c := newTestController(t, api)

	mode := c.Init(context.Background())

	assert.Equal(t, ModeRemote, mode)
	assert.Equal(t, ModeRemote, c.Mode())
	require.Len(t, c.Persons(), 1)
	assert.Equal(t, 0.2, c.Rates().USD)
	assert.False(t, c.Rates().Fallback)
}

func TestInitLocalWhenUnavailable(t *testing.T) {
	api := &fakeAPI{unavailable: true}
	c := newTestController(t, api)

	mode := c.Init(context.Background())

	assert.Equal(t, ModeLocal, mode)
	persons := c.Persons()
	require.Len(t, persons, 1)
	assert.Equal(t, "1", persons[0].ID)
	assert.Equal(t, "Persona 1", persons[0].Name)
	assert.Empty(t, c.Expenses())
}

func TestInitLocalOnTransportFailure(t *testing.T) {
	api := &fakeAPI{down: true}
	c := newTestController(t, api)

	assert.Equal(t, ModeLocal, c.Init(context.Background()))
	assert.True(t, c.Rates().Fallback)
	assert.Equal(t, 0.18, c.Rates().USD)
}

func TestWriteTimeDegradationReplaysMutation(t *testing.T) {
	api := &fakeAPI{
		persons: []core.Person{{ID: "a", Name: "Ana"}},
		rates:   core.ExchangeRates{USD: 0.2, ARS: 300},
	}
	c := newTestController(t, api)
	require.Equal(t, ModeRemote, c.Init(context.Background()))

	// The remote goes away mid-session; the write must still land.
	api.down = true
	person, err := c.AddPerson(context.Background(), "Bruno")
	require.NoError(t, err)
	assert.Equal(t, "Bruno", person.Name)
	assert.NotEmpty(t, person.ID)

	assert.Equal(t, ModeLocal, c.Mode())
	assert.Len(t, c.Persons(), 2)

	// Recovery does not re-promote within the session.
	api.down = false
	_, err = c.AddPerson(context.Background(), "Carla")
	require.NoError(t, err)
	assert.Equal(t, ModeLocal, c.Mode())
	assert.Len(t, api.persons, 1, "recovered remote must not receive local writes")
}

func TestAddPersonDefaultName(t *testing.T) {
	api := &fakeAPI{unavailable: true}
	c := newTestController(t, api)
	c.Init(context.Background())

	person, err := c.AddPerson(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, "Persona 2", person.Name)
}

func TestRemoveLastPersonRefused(t *testing.T) {
	api := &fakeAPI{unavailable: true}
	c := newTestController(t, api)
	c.Init(context.Background())

	persons := c.Persons()
	require.Len(t, persons, 1)

	err := c.RemovePerson(context.Background(), persons[0].ID)
	assert.ErrorIs(t, err, ErrLastPerson)
	assert.Len(t, c.Persons(), 1)
}

func TestRemovePersonCascades(t *testing.T) {
	api := &fakeAPI{
		persons: []core.Person{{ID: "a", Name: "Ana"}, {ID: "b", Name: "Bruno"}},
		expenses: []core.Expense{
			{ID: "e1", Description: "taxi", AmountBRL: 30, PaidBy: "a", Category: core.CategoryTransporte},
			{ID: "e2", Description: "cena", AmountBRL: 80, PaidBy: "b", Category: core.CategoryComida},
		},
		rates: core.ExchangeRates{USD: 0.2, ARS: 300},
	}
	c := newTestController(t, api)
	require.Equal(t, ModeRemote, c.Init(context.Background()))

	require.NoError(t, c.RemovePerson(context.Background(), "a"))

	require.Len(t, c.Persons(), 1)
	expenses := c.Expenses()
	require.Len(t, expenses, 1)
	assert.Equal(t, "b", expenses[0].PaidBy)
}

func TestRemoveExpenseIdempotent(t *testing.T) {
	api := &fakeAPI{
		persons:  []core.Person{{ID: "a", Name: "Ana"}},
		expenses: []core.Expense{{ID: "e1", Description: "taxi", AmountBRL: 30, PaidBy: "a", Category: core.CategoryGeneral}},
		rates:    core.ExchangeRates{USD: 0.2, ARS: 300},
	}
	c := newTestController(t, api)
	require.Equal(t, ModeRemote, c.Init(context.Background()))

	require.NoError(t, c.RemoveExpense(context.Background(), "e1"))
	require.NoError(t, c.RemoveExpense(context.Background(), "e1"))
	assert.Empty(t, c.Expenses())
}

func TestAddExpenseValidation(t *testing.T) {
	api := &fakeAPI{unavailable: true}
	c := newTestController(t, api)
	c.Init(context.Background())

	_, err := c.AddExpense(context.Background(), core.Expense{
		Description: "taxi", AmountBRL: 0, PaidBy: "1",
	})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	assert.Empty(t, c.Expenses())
}

func TestAddExpenseNewestFirst(t *testing.T) {
	api := &fakeAPI{unavailable: true}
	c := newTestController(t, api)
	c.Init(context.Background())

	_, err := c.AddExpense(context.Background(), core.Expense{Description: "first", AmountBRL: 10, PaidBy: "1"})
	require.NoError(t, err)
	_, err = c.AddExpense(context.Background(), core.Expense{Description: "second", AmountBRL: 20, PaidBy: "1"})
	require.NoError(t, err)

	expenses := c.Expenses()
	require.Len(t, expenses, 2)
	assert.Equal(t, "second", expenses[0].Description)
	assert.Equal(t, core.CategoryGeneral, expenses[0].Category)
}

func TestItemsLoadOnDemand(t *testing.T) {
	api := &fakeAPI{
		items: []core.ImportantItem{{ID: "i1", Information: "hotel booking"}},
		rates: core.ExchangeRates{USD: 0.2, ARS: 300},
	}
	api.persons = []core.Person{{ID: "a", Name: "Ana"}}
	c := newTestController(t, api)
	require.Equal(t, ModeRemote, c.Init(context.Background()))

	items, err := c.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "hotel booking", items[0].Information)

	created, err := c.AddItem(context.Background(), core.ImportantItem{Information: "passport copies"})
	require.NoError(t, err)

	items, err = c.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, created.ID, items[0].ID)

	require.NoError(t, c.RemoveItem(context.Background(), created.ID))
	items, err = c.Items(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSummaryFromSessionState(t *testing.T) {
	api := &fakeAPI{
		persons: []core.Person{{ID: "a", Name: "Ana"}, {ID: "b", Name: "Bruno"}},
		expenses: []core.Expense{
			{ID: "e1", Description: "hotel", AmountBRL: 100, PaidBy: "a", Category: core.CategoryAirbnb},
		},
		rates: core.ExchangeRates{USD: 0.2, ARS: 300},
	}
	c := newTestController(t, api)
	require.Equal(t, ModeRemote, c.Init(context.Background()))

	summary := c.Summary()
	assert.Equal(t, 100.0, summary.TotalBRL)
	assert.Equal(t, 50.0, summary.PerHeadBRL)
	assert.Equal(t, -50.0, summary.Balances["a"])
	assert.Equal(t, 50.0, summary.Balances["b"])
}

func TestLocalStatePersistsAcrossSessions(t *testing.T) {
	dir := t.TempDir()
	local, err := localstore.New(dir, nil)
	require.NoError(t, err)

	api := &fakeAPI{unavailable: true}
	c := NewController(Config{API: api, Local: local, FallbackUSD: 0.18, FallbackARS: 260})
	c.Init(context.Background())
	_, err = c.AddPerson(context.Background(), "Bruno")
	require.NoError(t, err)
	c.Close()

	local2, err := localstore.New(dir, nil)
	require.NoError(t, err)
	c2 := NewController(Config{API: api, Local: local2, FallbackUSD: 0.18, FallbackARS: 260})
	defer c2.Close()
	c2.Init(context.Background())

	persons := c2.Persons()
	require.Len(t, persons, 2)
	assert.Equal(t, "Bruno", persons[1].Name)
}

func TestRefreshUpdatesRates(t *testing.T) {
	api := &fakeAPI{
		persons: []core.Person{{ID: "a", Name: "Ana"}},
		rates:   core.ExchangeRates{USD: 0.2, ARS: 300},
	}
	c := newTestController(t, api)
	require.Equal(t, ModeRemote, c.Init(context.Background()))

	api.rates = core.ExchangeRates{USD: 0.25, ARS: 320}
	snap := c.Refresh(context.Background())
	assert.Equal(t, 0.25, snap.USD)

	// A failed refresh keeps the last good snapshot.
	api.down = true
	snap = c.Refresh(context.Background())
	assert.Equal(t, 0.25, snap.USD)
	assert.False(t, snap.Fallback)
}
