package dining

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/codewandler/actr-go/core/actor"
	"github.com/codewandler/actr-go/ports/kv"
)

const tallyPrefix = "tally."

// Tally is the persisted meal count of one diner.
type Tally struct {
	Diner     string    `json:"diner"`
	Meals     int       `json:"meals"`
	UpdatedAt time.Time `json:"updated_at"`
}

func TallyKey(diner string) string { return tallyPrefix + diner }

// LoadTallies reads every tally from store, sorted by diner.
func LoadTallies(ctx context.Context, store kv.Store) ([]Tally, error) {
	keys, err := store.Keys(ctx, tallyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list tallies: %w", err)
	}
	out := make([]Tally, 0, len(keys))
	for _, k := range keys {
		t, err := kv.Get[Tally](ctx, store, k)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b Tally) int { return strings.Compare(a.Diner, b.Diner) })
	return out, nil
}

// Ledger counts finished meals and writes them through to a kv.Store.
type Ledger struct {
	store  kv.Store
	counts map[string]int
}

func (l *Ledger) record(hc actor.Context[*Ledger], diner string) error {
	l.counts[diner]++
	t := Tally{Diner: diner, Meals: l.counts[diner], UpdatedAt: time.Now()}
	if err := kv.Put(hc, l.store, TallyKey(diner), t); err != nil {
		return fmt.Errorf("store tally of %s: %w", diner, err)
	}
	hc.Log().Debug("meal recorded", slog.String("diner", diner), slog.Int("meals", t.Meals))
	return nil
}

// LedgerRef is the governed handle of a Ledger. The zero value is a
// disabled ledger: it records nothing and reports no counts.
type LedgerRef struct {
	actor *actor.Actor[*Ledger]
}

// NewLedger starts a ledger actor. A nil store means an in-memory one.
func NewLedger(store kv.Store, opt Options) LedgerRef {
	opt = opt.withDefaults()
	if store == nil {
		store = kv.NewMemStore()
	}
	l := &Ledger{store: store, counts: make(map[string]int)}
	return LedgerRef{actor: actor.New(opt.actorOptions("ledger"), l)}
}

func (r LedgerRef) valid() bool { return r.actor != nil }

func (r LedgerRef) Later() LedgerLater {
	if !r.valid() {
		return LedgerLater{}
	}
	return LedgerLater{async: r.actor.Async()}
}

func (r LedgerRef) Record(ctx context.Context, diner string) error {
	if !r.valid() {
		return nil
	}
	_, err := r.actor.Invoke(ctx, "record", recordBehavior(diner), diner)
	return err
}

// Counts returns a snapshot of all meal counts.
func (r LedgerRef) Counts(ctx context.Context) (map[string]int, error) {
	if !r.valid() {
		return map[string]int{}, nil
	}
	return actor.Query(ctx, r.actor, "counts", func(_ actor.Context[*Ledger], l *Ledger) (map[string]int, error) {
		return maps.Clone(l.counts), nil
	})
}

func (r LedgerRef) Stop() {
	if r.valid() {
		r.actor.Stop()
	}
}

type LedgerLater struct {
	async *actor.Async[*Ledger]
}

func (l LedgerLater) Record(diner string) error {
	if l.async == nil {
		return nil
	}
	return l.async.Send("record", recordBehavior(diner), diner)
}

func recordBehavior(diner string) actor.Behavior[*Ledger] {
	return actor.Do(func(hc actor.Context[*Ledger], l *Ledger) error {
		return l.record(hc, diner)
	})
}
