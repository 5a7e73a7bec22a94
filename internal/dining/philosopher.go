package dining

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codewandler/actr-go/core/actor"
)

var (
	ErrNotSeated = errors.New("philosopher is not seated")
	ErrNoTable   = errors.New("no table")
)

// Philosopher thinks, asks the waiter for permission to eat, eats when
// served and reports back. Each step is a message to itself or to the
// waiter, so the think/eat cycle keeps going without a loop of its own.
type Philosopher struct {
	name  string
	opt   Options
	seat  int
	left  *Chopstick
	right *Chopstick

	waiter WaiterRef
	meals  int
}

func (p *Philosopher) dine(hc actor.Context[*Philosopher], table *Table, seat int, waiter WaiterRef) error {
	if table == nil {
		return ErrNoTable
	}
	p.seat = seat
	p.left = table.LeftChopstickAt(seat)
	p.right = table.RightChopstickAt(seat)
	p.waiter = waiter

	hc.Log().Info("sitting down", slog.Int("seat", seat))
	p.think(hc)
	return nil
}

// think schedules the next request to eat. The actor stays responsive while
// the philosopher is lost in thought.
func (p *Philosopher) think(hc actor.Context[*Philosopher]) {
	var (
		self   = PhilosopherRef{actor: hc.Self()}
		waiter = p.waiter
		log    = hc.Log()
		d      = randDuration(p.opt.MaxThink)
	)
	log.Debug("thinking", slog.Duration("for", d))

	hc.Schedule(func(ctx context.Context) {
		if !sleep(ctx, d) {
			return
		}
		if err := waiter.Later().RequestToEat(self); err != nil {
			log.Warn("failed to ask waiter", slog.Any("error", err))
		}
	})
}

// eat has a meal and reports back to the waiter that served it, also when
// the meal failed, so the waiter never keeps a seat for a diner who is
// not eating.
func (p *Philosopher) eat(hc actor.Context[*Philosopher], servedBy WaiterRef) error {
	if !servedBy.valid() {
		servedBy = p.waiter
	}

	err := p.meal(hc)
	if servedBy.valid() {
		if nerr := servedBy.Later().DoneEating(PhilosopherRef{actor: hc.Self()}); nerr != nil {
			err = errors.Join(err, fmt.Errorf("notify waiter: %w", nerr))
		}
	}
	if err != nil {
		return err
	}

	if p.opt.Meals > 0 && p.meals >= p.opt.Meals {
		hc.Log().Info("satisfied", slog.Int("meals", p.meals))
		return nil
	}
	p.think(hc)
	return nil
}

func (p *Philosopher) meal(hc actor.Context[*Philosopher]) error {
	if p.left == nil {
		return ErrNotSeated
	}
	if err := p.takeChopsticks(hc); err != nil {
		return fmt.Errorf("take chopsticks: %w", err)
	}

	p.opt.Metrics.MealStarted(p.name)
	hc.Log().Debug("eating", slog.Int("meal", p.meals+1))
	sleep(hc, randDuration(p.opt.MaxEat))
	p.meals++
	p.opt.Metrics.MealFinished(p.name)

	p.dropChopsticks(hc)

	if err := p.opt.Ledger.Later().Record(p.name); err != nil {
		hc.Log().Warn("failed to record meal", slog.Any("error", err))
	}
	return nil
}

func (p *Philosopher) takeChopsticks(ctx context.Context) error {
	if err := p.left.TakeContext(ctx); err != nil {
		return err
	}
	if err := p.right.TakeContext(ctx); err != nil {
		p.drop(ctx, p.left)
		return err
	}
	return nil
}

func (p *Philosopher) dropChopsticks(ctx context.Context) {
	p.drop(ctx, p.left)
	p.drop(ctx, p.right)
}

func (p *Philosopher) drop(ctx context.Context, c *Chopstick) {
	if err := c.Drop(); err != nil {
		p.opt.Metrics.UnheldDrop()
		p.opt.Logger.WarnContext(ctx, "dropping a chopstick not acquired", slog.String("diner", p.name), slog.Any("error", err))
	}
}

// === handle ===

// PhilosopherRef is the governed handle of a Philosopher. It is comparable
// and safe to share.
type PhilosopherRef struct {
	actor *actor.Actor[*Philosopher]
}

// NewPhilosopher starts a philosopher actor named name.
func NewPhilosopher(name string, opt Options) PhilosopherRef {
	opt = opt.withDefaults()
	return PhilosopherRef{actor: actor.New(opt.actorOptions(name), &Philosopher{name: name, opt: opt})}
}

func (r PhilosopherRef) Name() string { return r.actor.ID() }

func (r PhilosopherRef) String() string { return r.Name() }

func (r PhilosopherRef) Actor() *actor.Actor[*Philosopher] { return r.actor }

func (r PhilosopherRef) Later() PhilosopherLater { return PhilosopherLater{async: r.actor.Async()} }

func (r PhilosopherRef) Dine(ctx context.Context, table *Table, seat int, waiter WaiterRef) error {
	_, err := r.actor.Invoke(ctx, "dine", dineBehavior(table, seat, waiter), seat, waiter.Name())
	return err
}

func (r PhilosopherRef) Think(ctx context.Context) error {
	_, err := r.actor.Invoke(ctx, "think", thinkBehavior)
	return err
}

func (r PhilosopherRef) Eat(ctx context.Context) error {
	_, err := r.actor.Invoke(ctx, "eat", eatBehavior(WaiterRef{}))
	return err
}

// Meals returns how many meals the philosopher finished. It waits for a
// meal in progress.
func (r PhilosopherRef) Meals(ctx context.Context) (int, error) {
	return actor.Query(ctx, r.actor, "meals", func(_ actor.Context[*Philosopher], p *Philosopher) (int, error) {
		return p.meals, nil
	})
}

// Stop makes the philosopher leave the table. A meal in progress is
// finished first.
func (r PhilosopherRef) Stop() { r.actor.Stop() }

// PhilosopherLater is the fire-and-forget proxy of a philosopher.
type PhilosopherLater struct {
	async *actor.Async[*Philosopher]
}

func (l PhilosopherLater) Dine(table *Table, seat int, waiter WaiterRef) error {
	return l.async.Send("dine", dineBehavior(table, seat, waiter), seat, waiter.Name())
}

func (l PhilosopherLater) Think() error { return l.async.Send("think", thinkBehavior) }

func (l PhilosopherLater) Eat() error { return l.async.Send("eat", eatBehavior(WaiterRef{})) }

// serve is how a waiter tells the philosopher to eat. The philosopher
// reports back to that waiter whether or not the meal succeeds.
func (l PhilosopherLater) serve(w WaiterRef) error {
	return l.async.Send("eat", eatBehavior(w), w.Name())
}

// === behaviors ===

func dineBehavior(table *Table, seat int, waiter WaiterRef) actor.Behavior[*Philosopher] {
	return actor.Do(func(hc actor.Context[*Philosopher], p *Philosopher) error {
		return p.dine(hc, table, seat, waiter)
	})
}

var thinkBehavior = actor.Do(func(hc actor.Context[*Philosopher], p *Philosopher) error {
	if p.left == nil {
		return ErrNotSeated
	}
	p.think(hc)
	return nil
})

func eatBehavior(servedBy WaiterRef) actor.Behavior[*Philosopher] {
	return actor.Do(func(hc actor.Context[*Philosopher], p *Philosopher) error {
		return p.eat(hc, servedBy)
	})
}
