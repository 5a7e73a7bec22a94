// Package actor turns an ordinary stateful value into an actor: a value
// whose behavior only ever runs one invocation at a time, no matter how many
// goroutines call it.
//
// An [Actor] owns the wrapped value, an unbounded mailbox, a lock and one
// worker goroutine. Behaviors reach the value through two paths:
//
//   - [Actor.Invoke] runs a behavior on the calling goroutine and returns its
//     result or error (synchronous).
//   - [Actor.Async] returns the actor's [Async] proxy; [Async.Send] queues a
//     behavior and returns immediately (fire-and-forget). The worker executes
//     queued behaviors in order.
//
// Both paths take the same lock, so the wrapped value never sees concurrent
// calls. Only mutual exclusion is guaranteed between the two paths, not
// ordering: a synchronous call may run before mail queued earlier.
//
// # Creating Actors
//
// Wrap a value with [New], or let [Spawn] construct it:
//
//	counter, err := actor.Spawn(actor.Options{}, func() (*Counter, error) {
//	    return &Counter{}, nil
//	})
//
// Domain packages usually hide the actor behind a typed handle whose methods
// forward to Invoke and whose Later() proxy forwards to Async.Send:
//
//	func (r *CounterRef) Add(ctx context.Context, n int) error {
//	    _, err := r.actor.Invoke(ctx, "add", actor.Do(func(_ actor.Context[*Counter], c *Counter) error {
//	        c.n += n
//	        return nil
//	    }), n)
//	    return err
//	}
//
// # Behaviors
//
// A [Behavior] receives a [Context] and the wrapped value. The context
// carries the current actor ([Context.Self]) so a behavior can hand out its
// own actor instead of the raw value, a logger, and [Context.Schedule] for
// background work that must not hold the lock.
//
// A behavior must not synchronously invoke the actor it runs on; Invoke
// detects this and returns [ErrSelfInvoke]. Use the Async proxy instead.
//
// # Failures
//
// Errors and panics from synchronous calls are returned to the caller
// (panics as [*PanicError]). Errors and panics from mailed behaviors are
// logged, reported via [Options.OnPanic], and the worker moves on to the
// next message.
//
// # Termination
//
// [Actor.Terminate] stops the worker even if it is waiting on an empty
// mailbox. A behavior in progress is never interrupted; queued messages are
// dropped. [Actor.Done] closes once the worker and its scheduled tasks have
// exited.
package actor
