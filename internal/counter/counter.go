package counter

import (
	"fmt"
	"sync/atomic"
)

type Op string

const (
	Increment Op = "increment"
	Decrement Op = "decrement"
)

// Counter is safe for concurrent use. The zero value is ready to use.
type Counter struct {
	value atomic.Int64
}

func (c *Counter) Increment() {
	c.value.Add(1)
}

func (c *Counter) Decrement() {
	c.value.Add(-1)
}

func (c *Counter) Get() int64 {
	return c.value.Load()
}

// Apply performs ops in order. It stops at the first unknown operation.
func (c *Counter) Apply(ops []Op) error {
	for idx, op := range ops {
		switch op {
		case Increment:
			c.Increment()
		case Decrement:
			c.Decrement()
		default:
			return fmt.Errorf("unsupported operation %q at index %d", op, idx)
		}
	}

	return nil
}
