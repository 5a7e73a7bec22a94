package actor

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Scheduler runs background tasks on behalf of an actor.
type Scheduler interface {
	// Schedule starts f unless the scheduler's context is already done.
	// f receives that context and should return once it is done.
	Schedule(f func(ctx context.Context))
	// Wait stops accepting tasks and blocks until every started task has
	// returned.
	Wait()
}

type scheduler struct {
	ctx      context.Context
	log      *slog.Logger
	sem      chan struct{}
	inflight atomic.Int32

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup

	actorID string
	metrics ActorMetrics
}

// NewScheduler creates a scheduler that runs at most max tasks at once
// (unbounded if max <= 0). Tasks waiting for a slot are dropped when ctx is
// done; running tasks are expected to watch ctx themselves.
func NewScheduler(ctx context.Context, max int) Scheduler {
	return newScheduler(ctx, max, slog.Default(), "", NopActorMetrics())
}

func newScheduler(ctx context.Context, max int, log *slog.Logger, actorID string, m ActorMetrics) *scheduler {
	s := &scheduler{
		ctx:     ctx,
		log:     log,
		actorID: actorID,
		metrics: m,
	}
	if max > 0 {
		s.sem = make(chan struct{}, max)
	}
	return s
}

func (s *scheduler) Schedule(f func(ctx context.Context)) {
	if f == nil || s.ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		if s.sem != nil {
			select {
			case s.sem <- struct{}{}:
			default:
				// only give up on a task that has to wait for a slot
				select {
				case <-s.ctx.Done():
					return
				case s.sem <- struct{}{}:
				}
			}
			defer func() { <-s.sem }()
		}

		s.metrics.SchedulerInflight(s.actorID, int(s.inflight.Add(1)))
		defer func() {
			s.metrics.SchedulerInflight(s.actorID, int(s.inflight.Add(-1)))
		}()

		s.run(f)
	}()
}

func (s *scheduler) run(f func(ctx context.Context)) {
	defer s.metrics.SchedulerTaskDuration().ObserveDuration()
	defer func() {
		if r := recover(); r != nil {
			s.metrics.SchedulerTaskCompleted(false)
			s.log.Error("scheduled task panicked", slog.Any("recovered", r))
		}
	}()

	f(s.ctx)
	s.metrics.SchedulerTaskCompleted(true)
}

func (s *scheduler) Wait() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}
