package actor

import (
	"errors"
	"fmt"
)

var (
	// ErrTerminated is returned when calling or mailing an actor whose
	// worker has been terminated.
	ErrTerminated = errors.New("actor terminated")
	// ErrNilBehavior is returned when a nil Behavior is invoked or mailed.
	ErrNilBehavior = errors.New("nil behavior")
	// ErrSelfInvoke is returned when a behavior synchronously invokes the
	// actor it is running on (directly or through a chain of other actors).
	// Waiting on it would deadlock; use Async instead.
	ErrSelfInvoke = errors.New("synchronous self-invocation")
	// ErrNilConstructor is returned by Spawn when no constructor is given.
	ErrNilConstructor = errors.New("nil constructor")
)

// PanicError reports a panic raised by a behavior.
type PanicError struct {
	Selector  string
	Recovered any
	Stack     []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Selector, e.Recovered)
}

// Unwrap exposes a recovered error value to errors.Is / errors.As.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}
