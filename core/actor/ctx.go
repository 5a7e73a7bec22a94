package actor

import (
	"context"
	"log/slog"
)

type (
	// Context is handed to every behavior. It is only valid while the
	// behavior runs.
	Context[T any] interface {
		context.Context
		// Self returns the actor executing the behavior. Pass it around
		// instead of the raw target so other parties stay serialized.
		Self() *Actor[T]
		// Selector names the behavior being executed.
		Selector() string
		Log() *slog.Logger
		// Schedule runs f in the background, outside the actor lock. f gets
		// a context that is done when the actor terminates.
		Schedule(f func(ctx context.Context))
	}

	activeKey struct{ actor any }
)

type handlerCtx[T any] struct {
	context.Context
	self     *Actor[T]
	selector string
}

func (a *Actor[T]) newContext(parent context.Context, selector string) *handlerCtx[T] {
	return &handlerCtx[T]{
		Context:  context.WithValue(parent, activeKey{actor: a}, true),
		self:     a,
		selector: selector,
	}
}

func (hc *handlerCtx[T]) Self() *Actor[T]                  { return hc.self }
func (hc *handlerCtx[T]) Selector() string                 { return hc.selector }
func (hc *handlerCtx[T]) Schedule(f func(context.Context)) { hc.self.sched.Schedule(f) }

func (hc *handlerCtx[T]) Log() *slog.Logger {
	return hc.self.log.With(slog.String("selector", hc.selector))
}

// runningIn reports whether ctx descends from a behavior of actor a.
func runningIn(ctx context.Context, a any) bool {
	return ctx.Value(activeKey{actor: a}) != nil
}

var _ Context[any] = (*handlerCtx[any])(nil)
