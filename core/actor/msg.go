package actor

type (
	// Behavior is one operation against the wrapped value. It runs with the
	// actor lock held, so it has exclusive access to target.
	Behavior[T any] func(hc Context[T], target T) (any, error)

	// Message is a queued invocation: the selector naming the behavior,
	// the arguments it was called with and the behavior itself.
	// Messages are immutable once created.
	Message[T any] struct {
		Selector string
		Args     []any
		behavior Behavior[T]
	}
)

// NewMessage builds a Message for ReceiveMail.
func NewMessage[T any](selector string, b Behavior[T], args ...any) Message[T] {
	return Message[T]{Selector: selector, Args: args, behavior: b}
}

// Do adapts a behavior that produces no result.
func Do[T any](f func(hc Context[T], target T) error) Behavior[T] {
	if f == nil {
		return nil
	}
	return func(hc Context[T], target T) (any, error) {
		return nil, f(hc, target)
	}
}
