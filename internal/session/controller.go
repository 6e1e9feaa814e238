// Package session holds the per-session mode decision: remote when the
// API and its datastore answer, local-only otherwise. Every mutation is
// funneled through that decision, and a transport failure during a
// remote write degrades the session to local for good.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Cuutu/brasil2026/internal/client"
	"github.com/Cuutu/brasil2026/internal/core"
	"github.com/Cuutu/brasil2026/internal/localstore"
	"github.com/Cuutu/brasil2026/internal/log"
	"github.com/Cuutu/brasil2026/internal/store"
)

// Mode is the session's current operating mode.
type Mode int

const (
	ModeInitializing Mode = iota
	ModeRemote
	ModeLocal
)

func (m Mode) String() string {
	switch m {
	case ModeRemote:
		return "remote"
	case ModeLocal:
		return "local"
	default:
		return "initializing"
	}
}

// ErrLastPerson is returned when a delete would empty the group.
var ErrLastPerson = errors.New("cannot remove the last person")

// API is the remote side of the session: the collection contract plus
// the rate snapshot endpoint.
type API interface {
	store.Store
	ExchangeRates(ctx context.Context) (core.ExchangeRates, error)
}

// Config configures a Controller.
type Config struct {
	API          API
	Local        *localstore.Store
	Logger       *log.Logger
	PollInterval time.Duration
	FallbackUSD  float64
	FallbackARS  float64
}

// Controller owns the session state. All exported methods are safe for
// concurrent use.
type Controller struct {
	api    API
	local  *localstore.Store
	logger *log.Logger

	pollInterval time.Duration
	fallbackUSD  float64
	fallbackARS  float64

	mu          sync.Mutex
	mode        Mode
	persons     []core.Person
	expenses    []core.Expense
	items       []core.ImportantItem
	itemsLoaded bool
	rates       core.ExchangeRates
	hasRates    bool

	stopPoll  chan struct{}
	closeOnce sync.Once
}

func NewController(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentSession)
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Controller{
		api:          cfg.API,
		local:        cfg.Local,
		logger:       logger,
		pollInterval: interval,
		fallbackUSD:  cfg.FallbackUSD,
		fallbackARS:  cfg.FallbackARS,
		mode:         ModeInitializing,
		stopPoll:     make(chan struct{}),
	}
}

// Init decides the session mode. Persons and expenses are fetched
// concurrently; if either fetch fails for any reason the session starts
// local, seeded from on-device storage. The rate poller starts either
// way.
func (c *Controller) Init(ctx context.Context) Mode {
	var (
		persons  []core.Person
		expenses []core.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		persons, err = c.api.ListPersons(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = c.api.ListExpenses(gctx)
		return err
	})

	c.mu.Lock()
	if err := g.Wait(); err != nil {
		c.logger.WarnContext(ctx, "Remote unavailable, starting local session",
			log.FieldError, err)
		c.mode = ModeLocal
		c.persons = c.local.LoadPersons()
		c.expenses = c.local.LoadExpenses()
	} else {
		c.mode = ModeRemote
		if persons == nil {
			persons = []core.Person{}
		}
		if expenses == nil {
			expenses = []core.Expense{}
		}
		c.persons = persons
		c.expenses = expenses
	}
	mode := c.mode
	c.mu.Unlock()

	c.refreshRates(ctx)
	go c.pollRates()

	c.logger.InfoContext(ctx, "Session initialized", log.FieldMode, mode.String())
	return mode
}

// Mode returns the current operating mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Persons returns the current group in insertion order.
func (c *Controller) Persons() []core.Person {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Person(nil), c.persons...)
}

// Expenses returns the current expenses newest-first.
func (c *Controller) Expenses() []core.Expense {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Expense(nil), c.expenses...)
}

// AddPerson creates a group member. An empty name defaults to
// "Persona N" where N is the next position.
func (c *Controller) AddPerson(ctx context.Context, name string) (core.Person, error) {
	name = strings.TrimSpace(name)

	c.mu.Lock()
	if name == "" {
		name = fmt.Sprintf("Persona %d", len(c.persons)+1)
	}
	mode := c.mode
	c.mu.Unlock()

	if mode == ModeRemote {
		person, err := c.api.CreatePerson(ctx, name)
		if err == nil {
			c.mu.Lock()
			c.persons = append(c.persons, person)
			c.mu.Unlock()
			return person, nil
		}
		if !c.degradeOn(ctx, err) {
			return core.Person{}, err
		}
	}

	person := core.Person{ID: uuid.NewString(), Name: name}
	c.mu.Lock()
	c.persons = append(c.persons, person)
	persons := append([]core.Person(nil), c.persons...)
	c.mu.Unlock()

	if err := c.local.SavePersons(persons); err != nil {
		return core.Person{}, err
	}
	return person, nil
}

// RemovePerson deletes a member and their expenses. The removal is
// optimistic: the visible lists are updated even when the remote delete
// fails. Removing the last person is refused.
func (c *Controller) RemovePerson(ctx context.Context, id string) error {
	c.mu.Lock()
	if len(c.persons) <= 1 {
		c.mu.Unlock()
		return ErrLastPerson
	}
	c.removePersonLocked(id)
	mode := c.mode
	persons := append([]core.Person(nil), c.persons...)
	expenses := append([]core.Expense(nil), c.expenses...)
	c.mu.Unlock()

	if mode == ModeRemote {
		if err := c.api.DeletePerson(ctx, id); err != nil {
			c.degradeOn(ctx, err)
		} else {
			return nil
		}
	}

	if err := c.local.SavePersons(persons); err != nil {
		return err
	}
	return c.local.SaveExpenses(expenses)
}

func (c *Controller) removePersonLocked(id string) {
	for i, p := range c.persons {
		if p.ID == id {
			c.persons = append(c.persons[:i], c.persons[i+1:]...)
			break
		}
	}
	kept := c.expenses[:0]
	for _, e := range c.expenses {
		if e.PaidBy != id {
			kept = append(kept, e)
		}
	}
	c.expenses = kept
}

// AddExpense records a shared cost. The category defaults to general.
func (c *Controller) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.Category == "" {
		e.Category = core.CategoryGeneral
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	if c.Mode() == ModeRemote {
		created, err := c.api.CreateExpense(ctx, e)
		if err == nil {
			c.mu.Lock()
			c.expenses = append([]core.Expense{created}, c.expenses...)
			c.mu.Unlock()
			return created, nil
		}
		if !c.degradeOn(ctx, err) {
			return core.Expense{}, err
		}
	}

	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()
	c.mu.Lock()
	c.expenses = append([]core.Expense{e}, c.expenses...)
	expenses := append([]core.Expense(nil), c.expenses...)
	c.mu.Unlock()

	if err := c.local.SaveExpenses(expenses); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// RemoveExpense deletes an expense optimistically.
func (c *Controller) RemoveExpense(ctx context.Context, id string) error {
	c.mu.Lock()
	for i, e := range c.expenses {
		if e.ID == id {
			c.expenses = append(c.expenses[:i], c.expenses[i+1:]...)
			break
		}
	}
	mode := c.mode
	expenses := append([]core.Expense(nil), c.expenses...)
	c.mu.Unlock()

	if mode == ModeRemote {
		if err := c.api.DeleteExpense(ctx, id); err != nil {
			c.degradeOn(ctx, err)
		} else {
			return nil
		}
	}
	return c.local.SaveExpenses(expenses)
}

// Items returns the important-item list, loading it on first use.
func (c *Controller) Items(ctx context.Context) ([]core.ImportantItem, error) {
	c.mu.Lock()
	if c.itemsLoaded {
		items := append([]core.ImportantItem(nil), c.items...)
		c.mu.Unlock()
		return items, nil
	}
	mode := c.mode
	c.mu.Unlock()

	var items []core.ImportantItem
	if mode == ModeRemote {
		fetched, err := c.api.ListItems(ctx)
		if err != nil {
			if !c.degradeOn(ctx, err) {
				return nil, err
			}
			items = c.local.LoadItems()
		} else {
			items = fetched
		}
	} else {
		items = c.local.LoadItems()
	}
	if items == nil {
		items = []core.ImportantItem{}
	}

	c.mu.Lock()
	c.items = items
	c.itemsLoaded = true
	items = append([]core.ImportantItem(nil), c.items...)
	c.mu.Unlock()
	return items, nil
}

// AddItem records an important item.
func (c *Controller) AddItem(ctx context.Context, it core.ImportantItem) (core.ImportantItem, error) {
	if err := it.Validate(); err != nil {
		return core.ImportantItem{}, err
	}
	if _, err := c.Items(ctx); err != nil {
		return core.ImportantItem{}, err
	}

	if c.Mode() == ModeRemote {
		created, err := c.api.CreateItem(ctx, it)
		if err == nil {
			c.mu.Lock()
			c.items = append([]core.ImportantItem{created}, c.items...)
			c.mu.Unlock()
			return created, nil
		}
		if !c.degradeOn(ctx, err) {
			return core.ImportantItem{}, err
		}
	}

	it.ID = uuid.NewString()
	it.CreatedAt = time.Now().UTC()
	c.mu.Lock()
	c.items = append([]core.ImportantItem{it}, c.items...)
	items := append([]core.ImportantItem(nil), c.items...)
	c.mu.Unlock()

	if err := c.local.SaveItems(items); err != nil {
		return core.ImportantItem{}, err
	}
	return it, nil
}

// RemoveItem deletes an item optimistically.
func (c *Controller) RemoveItem(ctx context.Context, id string) error {
	if _, err := c.Items(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	for i, it := range c.items {
		if it.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	mode := c.mode
	items := append([]core.ImportantItem(nil), c.items...)
	c.mu.Unlock()

	if mode == ModeRemote {
		if err := c.api.DeleteItem(ctx, id); err != nil {
			c.degradeOn(ctx, err)
		} else {
			return nil
		}
	}
	return c.local.SaveItems(items)
}

// Summary computes the settlement view over the current session state.
func (c *Controller) Summary() core.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return core.ComputeSummary(c.persons, c.expenses)
}

// Rates returns the most recent rate snapshot, falling back to the
// static pair before the first successful fetch.
func (c *Controller) Rates() core.ExchangeRates {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasRates {
		return core.ExchangeRates{
			USD:       c.fallbackUSD,
			ARS:       c.fallbackARS,
			UpdatedAt: time.Now().UTC(),
			Fallback:  true,
		}
	}
	return c.rates
}

// Refresh fetches a fresh rate snapshot on demand.
func (c *Controller) Refresh(ctx context.Context) core.ExchangeRates {
	c.refreshRates(ctx)
	return c.Rates()
}

// refreshRates keeps the last good snapshot when the fetch fails.
func (c *Controller) refreshRates(ctx context.Context) {
	snap, err := c.api.ExchangeRates(ctx)
	if err != nil {
		c.logger.DebugContext(ctx, "Rate refresh failed, keeping last snapshot",
			log.FieldError, err)
		return
	}
	c.mu.Lock()
	c.rates = snap
	c.hasRates = true
	c.mu.Unlock()
}

func (c *Controller) pollRates() {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			c.refreshRates(ctx)
			cancel()
		case <-c.stopPoll:
			return
		}
	}
}

// Close stops the rate poller.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.stopPoll)
	})
}

// degradeOn reports whether err warrants degrading to local mode, and
// performs the transition when it does. Transport failures and a
// missing remote datastore degrade; anything else (validation, a
// reachable store rejecting the write) is surfaced to the caller.
func (c *Controller) degradeOn(ctx context.Context, err error) bool {
	var terr *client.TransportError
	if !errors.Is(err, store.ErrUnavailable) && !errors.As(err, &terr) {
		return false
	}

	c.mu.Lock()
	already := c.mode == ModeLocal
	c.mode = ModeLocal
	c.mu.Unlock()

	if !already {
		c.logger.WarnContext(ctx, "Degrading session to local mode",
			log.FieldError, err)
	}
	return true
}
