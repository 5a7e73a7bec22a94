package dining

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/codewandler/actr-go/core/actor"
)

// Options are shared by every actor of a dinner.
type Options struct {
	Context      context.Context
	Logger       *slog.Logger
	ActorMetrics actor.ActorMetrics
	Metrics      Metrics
	// MaxThink and MaxEat bound the random time spent thinking and eating.
	MaxThink time.Duration
	MaxEat   time.Duration
	// Meals stops a philosopher after that many meals. 0 means never.
	Meals int
	// Ledger, if set, is told about every finished meal.
	Ledger LedgerRef
}

func (o Options) withDefaults() Options {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.ActorMetrics == nil {
		o.ActorMetrics = actor.NopActorMetrics()
	}
	if o.Metrics == nil {
		o.Metrics = NopMetrics()
	}
	return o
}

func (o Options) actorOptions(id string) actor.Options {
	return actor.Options{
		ID:      id,
		Context: o.Context,
		Logger:  o.Logger,
		Metrics: o.ActorMetrics,
	}
}

func randDuration(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return rand.N(max)
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
