package state

// clock hands out sequence numbers for session events. Sessions are driven
// from a single UI thread, so no synchronisation is needed.
type clock struct {
	counter uint64
}

// Tick increments the clock and returns the new value
func (c *clock) Tick() uint64 {
	c.counter++
	return c.counter
}

// Now returns the last value handed out.
func (c *clock) Now() uint64 {
	return c.counter
}
