package dining

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/codewandler/actr-go/ports/kv"
)

var (
	ErrTooFewDiners  = errors.New("at least two diners are needed")
	ErrDuplicateName = errors.New("duplicate diner name")
)

// DefaultNames seats five philosophers.
var DefaultNames = []string{"Heraclitus", "Aristotle", "Epictetus", "Schopenhauer", "Popper"}

type Config struct {
	Options
	// Names of the diners in seat order. Defaults to DefaultNames.
	Names []string
	// Capacity is the most diners eating at once. Defaults to one less
	// than the number of seats.
	Capacity int
	// Store receives the meal tallies. Defaults to an in-memory store.
	Store kv.Store
}

func (c Config) withDefaults() (Config, error) {
	if len(c.Names) == 0 {
		c.Names = DefaultNames
	}
	if len(c.Names) < 2 {
		return c, ErrTooFewDiners
	}
	seen := make(map[string]struct{}, len(c.Names))
	for _, n := range c.Names {
		if _, ok := seen[n]; ok {
			return c, fmt.Errorf("%w: %s", ErrDuplicateName, n)
		}
		seen[n] = struct{}{}
	}
	if c.Capacity <= 0 {
		c.Capacity = len(c.Names) - 1
	}
	if c.Store == nil {
		c.Store = kv.NewMemStore()
	}
	c.Options = c.Options.withDefaults()
	return c, nil
}

// Dinner is a running actor-driven dinner.
type Dinner struct {
	Table        *Table
	Waiter       WaiterRef
	Ledger       LedgerRef
	Philosophers []PhilosopherRef
	store        kv.Store
}

// Start seats every diner and tells each of them to start dining.
func Start(cfg Config) (*Dinner, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	ledger := NewLedger(cfg.Store, cfg.Options)
	cfg.Ledger = ledger

	d := &Dinner{
		Table:  NewTable(len(cfg.Names)),
		Waiter: NewWaiter(cfg.Capacity, cfg.Options),
		Ledger: ledger,
		store:  cfg.Store,
	}
	for _, name := range cfg.Names {
		d.Philosophers = append(d.Philosophers, NewPhilosopher(name, cfg.Options))
	}

	cfg.Logger.Info("dinner is served", slog.Int("seats", len(cfg.Names)), slog.Int("capacity", cfg.Capacity))
	for seat, p := range d.Philosophers {
		if err := p.Later().Dine(d.Table, seat, d.Waiter); err != nil {
			d.Stop()
			return nil, fmt.Errorf("seat %s: %w", p.Name(), err)
		}
	}
	return d, nil
}

// Meals returns the finished meals per diner as counted by the ledger.
func (d *Dinner) Meals(ctx context.Context) (map[string]int, error) {
	return d.Ledger.Counts(ctx)
}

// Tallies reads the persisted tallies back from the store.
func (d *Dinner) Tallies(ctx context.Context) ([]Tally, error) {
	return LoadTallies(ctx, d.store)
}

// Stop terminates philosophers first, then the waiter and the ledger.
func (d *Dinner) Stop() {
	for _, p := range d.Philosophers {
		p.Actor().Terminate()
	}
	for _, p := range d.Philosophers {
		p.Stop()
	}
	d.Waiter.Stop()
	d.Ledger.Stop()
}

// BaselineDinner is a running lock-based dinner.
type BaselineDinner struct {
	Table  *Table
	Waiter *CapacityWaiter
	Ledger LedgerRef
	Diners []*Diner

	cancel context.CancelFunc
	wg     sync.WaitGroup
	store  kv.Store
}

// StartBaseline runs each diner on its own goroutine, coordinated by a
// CapacityWaiter.
func StartBaseline(cfg Config) (*BaselineDinner, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(cfg.Context)
	ledger := NewLedger(cfg.Store, cfg.Options)
	cfg.Ledger = ledger

	d := &BaselineDinner{
		Table:  NewTable(len(cfg.Names)),
		Waiter: NewCapacityWaiter(cfg.Capacity, 0),
		Ledger: ledger,
		cancel: cancel,
		store:  cfg.Store,
	}
	cfg.Logger.Info("dinner is served without actors", slog.Int("seats", len(cfg.Names)), slog.Int("capacity", cfg.Capacity))
	for seat, name := range cfg.Names {
		diner := NewDiner(name, cfg.Options)
		d.Diners = append(d.Diners, diner)
		d.wg.Go(func() {
			if err := diner.Dine(ctx, d.Table, seat, d.Waiter); err != nil && !errors.Is(err, context.Canceled) {
				cfg.Logger.Warn("diner left", slog.String("diner", name), slog.Any("error", err))
			}
		})
	}
	return d, nil
}

func (d *BaselineDinner) Meals(ctx context.Context) (map[string]int, error) {
	return d.Ledger.Counts(ctx)
}

func (d *BaselineDinner) Tallies(ctx context.Context) ([]Tally, error) {
	return LoadTallies(ctx, d.store)
}

func (d *BaselineDinner) Stop() {
	d.cancel()
	d.wg.Wait()
	d.Ledger.Stop()
}
