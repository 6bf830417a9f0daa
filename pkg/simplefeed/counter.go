package simplefeed

import "fmt"

// Counter is a non-negative integer counter owned by a single aggregate.
//
// Decrease at zero is a no-op: the value is clamped, never negative.
type Counter struct {
	count int
}

// NewCounterFrom restores a counter from a persisted value.
func NewCounterFrom(count int) (Counter, error) {
	if count < 0 {
		return Counter{}, fmt.Errorf("%w: counter cannot be negative (got %d)", ErrInvalidArgument, count)
	}
	return Counter{count: count}, nil
}

// Increase adds one.
func (c *Counter) Increase() {
	c.count++
}

// Decrease subtracts one, stopping at zero.
func (c *Counter) Decrease() {
	if c.count <= 0 {
		return
	}
	c.count--
}

// Count returns the current value.
func (c Counter) Count() int {
	return c.count
}
