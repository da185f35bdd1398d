package epoch

import "sync/atomic"

// Counter is the monotonic epoch source consumed by the incentive engine.
// Epochs only advance between engine operations, never during one: the engine
// reads the counter once at the start of a call and the value stays stable for
// that call's duration.
type Counter struct {
	current atomic.Uint64
}

// NewCounter creates a counter starting at the provided epoch.
func NewCounter(start uint64) *Counter {
	c := &Counter{}
	c.current.Store(start)
	return c
}

// Current returns the current epoch.
func (c *Counter) Current() uint64 {
	return c.current.Load()
}

// Advance moves the counter forward by one epoch and returns the new value.
func (c *Counter) Advance() uint64 {
	return c.current.Add(1)
}

// AdvanceTo moves the counter to the provided epoch. Attempts to move
// backwards are ignored so the counter stays monotonic.
func (c *Counter) AdvanceTo(target uint64) uint64 {
	for {
		cur := c.current.Load()
		if target <= cur {
			return cur
		}
		if c.current.CompareAndSwap(cur, target) {
			return target
		}
	}
}
