package dining

import (
	"context"
	"errors"
)

var ErrNotHeld = errors.New("chopstick not held")

// Chopstick is an exclusive resource. Take blocks while someone else holds
// it.
type Chopstick struct {
	slot chan struct{}
}

func NewChopstick() *Chopstick {
	return &Chopstick{slot: make(chan struct{}, 1)}
}

// Take waits until the chopstick is free and takes it.
func (c *Chopstick) Take() {
	c.slot <- struct{}{}
}

// TakeContext is Take with cancellation.
func (c *Chopstick) TakeContext(ctx context.Context) error {
	select {
	case c.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drop puts the chopstick down. Dropping a chopstick nobody holds returns
// ErrNotHeld and changes nothing.
func (c *Chopstick) Drop() error {
	select {
	case <-c.slot:
		return nil
	default:
		return ErrNotHeld
	}
}

func (c *Chopstick) InUse() bool { return len(c.slot) == 1 }
