package actor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/codewandler/actr-go/core/ds"
	"github.com/codewandler/actr-go/internal/reflector"
)

type (
	// OnPanic is called by the worker when a mailed behavior panics.
	OnPanic func(recovered any, stack []byte, msg any)

	Options struct {
		// ID identifies the actor in logs and metrics.
		// Defaults to "<pkg.Type>-<random>".
		ID string
		// Context bounds the actor's lifetime: cancelling it terminates
		// the actor like Terminate does.
		Context context.Context
		Logger  *slog.Logger
		OnPanic OnPanic
		Metrics ActorMetrics
		// MaxConcurrentTasks caps the number of tasks run via
		// Context.Schedule. Defaults to 32; negative means unlimited.
		MaxConcurrentTasks int
	}
)

// Actor governs a value of type T: every behavior run against the value,
// whether invoked synchronously or delivered from the mailbox, holds the
// same lock, so at most one behavior is ever in progress.
type Actor[T any] struct {
	id     string
	target T

	mu      sync.Mutex
	mailbox *ds.Queue[Message[T]]
	running atomic.Bool
	async   *Async[T]

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	log     *slog.Logger
	onPanic OnPanic
	metrics ActorMetrics
	sched   *scheduler
}

// Spawn constructs the value with build and returns it wrapped in a running
// actor. If build fails no actor is started.
func Spawn[T any](opt Options, build func() (T, error)) (*Actor[T], error) {
	if build == nil {
		return nil, ErrNilConstructor
	}
	v, err := build()
	if err != nil {
		return nil, fmt.Errorf("construct %s: %w", reflector.TypeInfoFor[T]().Short, err)
	}
	return New(opt, v), nil
}

// New wraps target in an actor and starts its worker. The caller must not
// keep using target directly afterwards.
func New[T any](opt Options, target T) *Actor[T] {
	if opt.ID == "" {
		opt.ID = fmt.Sprintf("%s-%s", reflector.TypeInfoFor[T]().Short, gonanoid.Must(6))
	}
	if opt.Context == nil {
		opt.Context = context.Background()
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.Metrics == nil {
		opt.Metrics = NopActorMetrics()
	}
	if opt.MaxConcurrentTasks == 0 {
		opt.MaxConcurrentTasks = 32
	}

	log := opt.Logger.With(slog.String("actor", opt.ID))
	if opt.OnPanic == nil {
		opt.OnPanic = func(recovered any, stack []byte, msg any) {
			log.Error("actor panicked", slog.Any("recovered", recovered), slog.String("stack", string(stack)), slog.Any("msg", msg))
		}
	}

	ctx, cancel := context.WithCancel(opt.Context)
	a := &Actor[T]{
		id:      opt.ID,
		target:  target,
		mailbox: ds.NewQueue[Message[T]](),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		log:     log,
		onPanic: opt.OnPanic,
		metrics: opt.Metrics,
		sched:   newScheduler(ctx, opt.MaxConcurrentTasks, log, opt.ID, opt.Metrics),
	}
	a.async = &Async[T]{actor: a}
	a.running.Store(true)

	go a.loop()
	return a
}

// ID returns the actor's identifier.
func (a *Actor[T]) ID() string { return a.id }

// IsRunning reports whether the actor still accepts work.
func (a *Actor[T]) IsRunning() bool { return a.running.Load() }

// Done is closed once the worker and all scheduled tasks have exited.
func (a *Actor[T]) Done() <-chan struct{} { return a.done }

// Async returns the actor's fire-and-forget proxy. It is the same proxy on
// every call.
func (a *Actor[T]) Async() *Async[T] { return a.async }

// Pending returns the number of messages waiting in the mailbox.
func (a *Actor[T]) Pending() int { return a.mailbox.Len() }

// Invoke runs b against the wrapped value on the calling goroutine, holding
// the actor lock, and returns its result. A panic in b is returned as
// *PanicError.
func (a *Actor[T]) Invoke(ctx context.Context, selector string, b Behavior[T], args ...any) (any, error) {
	if b == nil {
		return nil, ErrNilBehavior
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if runningIn(ctx, a) {
		return nil, fmt.Errorf("%s on %s: %w", selector, a.id, ErrSelfInvoke)
	}
	if !a.running.Load() {
		return nil, ErrTerminated
	}
	return a.dispatch(ctx, Message[T]{Selector: selector, Args: args, behavior: b})
}

// ReceiveMail queues msg for the worker. It never blocks and never runs the
// behavior itself.
func (a *Actor[T]) ReceiveMail(msg Message[T]) error {
	if msg.behavior == nil {
		return ErrNilBehavior
	}
	if !a.running.Load() {
		return ErrTerminated
	}
	a.mailbox.Push(msg)
	a.metrics.MailboxDepth(a.id, a.mailbox.Len())
	return nil
}

// Terminate stops the worker. A behavior in progress runs to completion;
// queued messages are discarded. An idle worker exits immediately.
// Synchronous calls stop working too: Invoke, Query and Ask return
// ErrTerminated afterwards, and so does every typed handle built on them.
func (a *Actor[T]) Terminate() {
	if a.running.CompareAndSwap(true, false) {
		a.log.Debug("terminating actor", slog.Int("pending", a.mailbox.Len()))
	}
	a.cancel()
}

// Stop terminates the actor and waits for its worker to exit.
func (a *Actor[T]) Stop() {
	a.Terminate()
	<-a.done
}

func (a *Actor[T]) loop() {
	defer close(a.done)
	defer a.sched.Wait()

	for a.running.Load() {
		msg, err := a.mailbox.Pop(a.ctx)
		if err != nil {
			break
		}
		a.metrics.MailboxDepth(a.id, a.mailbox.Len())
		a.deliver(msg)
	}

	a.running.Store(false)
	a.cancel()
	a.log.Debug("actor stopped")
}

// deliver runs a mailed behavior. Failures are reported and swallowed so
// the worker keeps going.
func (a *Actor[T]) deliver(msg Message[T]) {
	_, err := a.dispatch(a.ctx, msg)
	if err == nil {
		return
	}

	var pe *PanicError
	if errors.As(err, &pe) {
		a.onPanic(pe.Recovered, pe.Stack, msg)
		return
	}
	a.log.Warn("mailed behavior failed", slog.String("selector", msg.Selector), slog.Any("error", err))
}

func (a *Actor[T]) dispatch(ctx context.Context, msg Message[T]) (res any, err error) {
	defer a.metrics.MessageDuration(msg.Selector).ObserveDuration()

	a.mu.Lock()
	defer a.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			a.metrics.MessagePanic(msg.Selector)
			res, err = nil, &PanicError{Selector: msg.Selector, Recovered: r, Stack: debug.Stack()}
		}
		a.metrics.MessageProcessed(msg.Selector, err == nil)
	}()

	return msg.behavior(a.newContext(ctx, msg.Selector), a.target)
}

// Async is the fire-and-forget proxy of an actor. Calls made through it are
// queued and return before the behavior runs; results are discarded.
type Async[T any] struct {
	actor *Actor[T]
}

// Send queues b under selector. The error only reports whether the message
// was accepted, never the outcome of b.
func (p *Async[T]) Send(selector string, b Behavior[T], args ...any) error {
	return p.actor.ReceiveMail(NewMessage(selector, b, args...))
}

// Actor returns the actor the proxy is bound to.
func (p *Async[T]) Actor() *Actor[T] { return p.actor }

// Query invokes f synchronously and returns its typed result. Query is not
// ordered with mail: it may run before messages queued earlier. Use Ask to
// read after them.
func Query[T any, R any](ctx context.Context, a *Actor[T], selector string, f func(hc Context[T], target T) (R, error), args ...any) (R, error) {
	var zero R
	if f == nil {
		return zero, ErrNilBehavior
	}
	res, err := a.Invoke(ctx, selector, func(hc Context[T], target T) (any, error) {
		return f(hc, target)
	}, args...)
	if err != nil {
		return zero, err
	}
	out, _ := res.(R)
	return out, nil
}

// Ask mails f and waits for its result. Because it travels through the
// mailbox, f runs after every message the caller queued before. A panic in
// f is returned as *PanicError and reported to OnPanic.
func Ask[T any, R any](ctx context.Context, a *Actor[T], selector string, f func(hc Context[T], target T) (R, error), args ...any) (R, error) {
	var zero R
	if f == nil {
		return zero, ErrNilBehavior
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if runningIn(ctx, a) {
		return zero, fmt.Errorf("%s on %s: %w", selector, a.id, ErrSelfInvoke)
	}

	type reply struct {
		v   R
		err error
	}
	replies := make(chan reply, 1)
	err := a.ReceiveMail(NewMessage(selector, func(hc Context[T], target T) (res any, err error) {
		defer func() {
			if r := recover(); r != nil {
				a.metrics.MessagePanic(selector)
				err = &PanicError{Selector: selector, Recovered: r, Stack: debug.Stack()}
				replies <- reply{err: err}
			}
		}()
		v, err := f(hc, target)
		replies <- reply{v: v, err: err}
		return v, err
	}, args...))
	if err != nil {
		return zero, err
	}

	select {
	case r := <-replies:
		return r.v, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-a.done:
		select {
		case r := <-replies:
			return r.v, r.err
		default:
			return zero, ErrTerminated
		}
	}
}
