package dining

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// CapacityWaiter is the lock-based solution: under one mutex it waits until
// fewer than capacity chopsticks are in use, then lets a diner pick up both
// of its chopsticks. Eating happens outside the lock.
type CapacityWaiter struct {
	capacity int
	poll     time.Duration

	mu sync.Mutex
}

// NewCapacityWaiter creates a waiter allowing at most capacity chopsticks in
// use when a diner starts picking up.
func NewCapacityWaiter(capacity int, poll time.Duration) *CapacityWaiter {
	if poll <= 0 {
		poll = time.Millisecond
	}
	return &CapacityWaiter{capacity: capacity, poll: poll}
}

func (w *CapacityWaiter) Serve(ctx context.Context, table *Table, d *Diner) error {
	w.mu.Lock()
	for table.ChopsticksInUse() >= w.capacity {
		if !sleep(ctx, w.poll/2+randDuration(w.poll)) {
			w.mu.Unlock()
			return ctx.Err()
		}
	}
	err := d.takeChopsticks(ctx)
	w.mu.Unlock()
	if err != nil {
		return err
	}

	d.eat(ctx)
	return nil
}

// Diner is a plain philosopher for the lock-based solution. It runs its
// own loop and relies on the CapacityWaiter for coordination.
type Diner struct {
	name  string
	opt   Options
	left  *Chopstick
	right *Chopstick
	meals atomic.Int64
}

func NewDiner(name string, opt Options) *Diner {
	return &Diner{name: name, opt: opt.withDefaults()}
}

func (d *Diner) Name() string { return d.name }

func (d *Diner) Meals() int { return int(d.meals.Load()) }

// Dine runs think/eat cycles until ctx is done or the meal limit is reached.
func (d *Diner) Dine(ctx context.Context, table *Table, seat int, waiter *CapacityWaiter) error {
	if table == nil {
		return ErrNoTable
	}
	d.left = table.LeftChopstickAt(seat)
	d.right = table.RightChopstickAt(seat)
	log := d.opt.Logger.With(slog.String("diner", d.name))
	log.Info("sitting down", slog.Int("seat", seat))

	for d.opt.Meals <= 0 || d.Meals() < d.opt.Meals {
		log.Debug("thinking")
		if !sleep(ctx, randDuration(d.opt.MaxThink)) {
			return ctx.Err()
		}
		if err := waiter.Serve(ctx, table, d); err != nil {
			return err
		}
	}
	log.Info("satisfied", slog.Int("meals", d.Meals()))
	return nil
}

func (d *Diner) takeChopsticks(ctx context.Context) error {
	if err := d.left.TakeContext(ctx); err != nil {
		return err
	}
	if err := d.right.TakeContext(ctx); err != nil {
		d.drop(d.left)
		return err
	}
	return nil
}

func (d *Diner) eat(ctx context.Context) {
	d.opt.Metrics.MealStarted(d.name)
	sleep(ctx, randDuration(d.opt.MaxEat))
	d.meals.Add(1)
	d.opt.Metrics.MealFinished(d.name)

	d.drop(d.left)
	d.drop(d.right)

	if err := d.opt.Ledger.Later().Record(d.name); err != nil {
		d.opt.Logger.Warn("failed to record meal", slog.String("diner", d.name), slog.Any("error", err))
	}
}

func (d *Diner) drop(c *Chopstick) {
	if err := c.Drop(); err != nil {
		d.opt.Metrics.UnheldDrop()
		d.opt.Logger.Warn("dropping a chopstick not acquired", slog.String("diner", d.name), slog.Any("error", err))
	}
}
