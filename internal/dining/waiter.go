package dining

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codewandler/actr-go/core/actor"
	"github.com/codewandler/actr-go/core/ds"
)

// Waiter admits philosophers to eat. At most capacity philosophers eat at
// once; further requests wait in arrival order until someone is done.
type Waiter struct {
	capacity int
	opt      Options
	eating   *ds.Set[PhilosopherRef]
	waiting  *ds.Set[PhilosopherRef]
}

func (w *Waiter) requestToEat(hc actor.Context[*Waiter], p PhilosopherRef) error {
	if w.eating.Contains(p) {
		return nil
	}
	if w.full() {
		if w.waiting.Add(p) {
			hc.Log().Debug("asked to wait", slog.String("diner", p.Name()), slog.Int("waiting", w.waiting.Len()))
			w.report()
		}
		return nil
	}
	return w.admit(hc, p)
}

func (w *Waiter) doneEating(hc actor.Context[*Waiter], p PhilosopherRef) error {
	if !w.eating.Remove(p) {
		hc.Log().Warn("done eating without being served", slog.String("diner", p.Name()))
	}
	for !w.waiting.IsEmpty() && !w.full() {
		next := w.waiting.Values()[0]
		w.waiting.Remove(next)
		if err := w.admit(hc, next); err != nil {
			hc.Log().Warn("failed to serve", slog.String("diner", next.Name()), slog.Any("error", err))
		}
	}
	w.report()
	return nil
}

func (w *Waiter) admit(hc actor.Context[*Waiter], p PhilosopherRef) error {
	w.eating.Add(p)
	if err := p.Later().serve(WaiterRef{actor: hc.Self()}); err != nil {
		w.eating.Remove(p)
		w.report()
		return fmt.Errorf("serve %s: %w", p.Name(), err)
	}
	hc.Log().Debug("served", slog.String("diner", p.Name()), slog.Int("eating", w.eating.Len()))
	w.report()
	return nil
}

func (w *Waiter) full() bool {
	return w.capacity > 0 && w.eating.Len() >= w.capacity
}

func (w *Waiter) report() {
	w.opt.Metrics.WaiterQueue(w.eating.Len(), w.waiting.Len())
}

// === handle ===

// WaiterRef is the governed handle of a Waiter.
type WaiterRef struct {
	actor *actor.Actor[*Waiter]
}

// NewWaiter starts a waiter actor. capacity <= 0 admits everybody.
func NewWaiter(capacity int, opt Options) WaiterRef {
	opt = opt.withDefaults()
	w := &Waiter{
		capacity: capacity,
		opt:      opt,
		eating:   ds.NewSet[PhilosopherRef](),
		waiting:  ds.NewSet[PhilosopherRef](),
	}
	return WaiterRef{actor: actor.New(opt.actorOptions("waiter"), w)}
}

func (r WaiterRef) Name() string { return r.actor.ID() }

func (r WaiterRef) valid() bool { return r.actor != nil }

func (r WaiterRef) Later() WaiterLater { return WaiterLater{async: r.actor.Async()} }

func (r WaiterRef) RequestToEat(ctx context.Context, p PhilosopherRef) error {
	_, err := r.actor.Invoke(ctx, "request_to_eat", requestToEatBehavior(p), p.Name())
	return err
}

func (r WaiterRef) DoneEating(ctx context.Context, p PhilosopherRef) error {
	_, err := r.actor.Invoke(ctx, "done_eating", doneEatingBehavior(p), p.Name())
	return err
}

// Eating returns the number of philosophers currently admitted.
func (r WaiterRef) Eating(ctx context.Context) (int, error) {
	return actor.Query(ctx, r.actor, "eating", func(_ actor.Context[*Waiter], w *Waiter) (int, error) {
		return w.eating.Len(), nil
	})
}

// Waiting returns the names of philosophers waiting to be served, in order.
func (r WaiterRef) Waiting(ctx context.Context) ([]string, error) {
	return actor.Query(ctx, r.actor, "waiting", func(_ actor.Context[*Waiter], w *Waiter) ([]string, error) {
		names := make([]string, 0, w.waiting.Len())
		for _, p := range w.waiting.Values() {
			names = append(names, p.Name())
		}
		return names, nil
	})
}

func (r WaiterRef) Stop() { r.actor.Stop() }

// WaiterLater is the fire-and-forget proxy of a waiter.
type WaiterLater struct {
	async *actor.Async[*Waiter]
}

func (l WaiterLater) RequestToEat(p PhilosopherRef) error {
	return l.async.Send("request_to_eat", requestToEatBehavior(p), p.Name())
}

func (l WaiterLater) DoneEating(p PhilosopherRef) error {
	return l.async.Send("done_eating", doneEatingBehavior(p), p.Name())
}

func requestToEatBehavior(p PhilosopherRef) actor.Behavior[*Waiter] {
	return actor.Do(func(hc actor.Context[*Waiter], w *Waiter) error {
		return w.requestToEat(hc, p)
	})
}

func doneEatingBehavior(p PhilosopherRef) actor.Behavior[*Waiter] {
	return actor.Do(func(hc actor.Context[*Waiter], w *Waiter) error {
		return w.doneEating(hc, p)
	})
}
