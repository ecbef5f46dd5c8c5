package world

// Clock is the monotonic simulation clock. It advances only when the host
// loop ticks the simulation, so paused frames cost no time, and every
// cooldown, slow expiry, and effect duration is measured in the same
// simulation seconds.
type Clock struct {
	seconds float64
}

func NewClock() *Clock {
	return &Clock{}
}

// Advance moves the clock forward by dt seconds. Negative deltas are ignored
// so the clock stays monotone.
func (c *Clock) Advance(dt float64) {
	if dt > 0 {
		c.seconds += dt
	}
}

// Now returns the current simulation time in seconds.
func (c *Clock) Now() float64 { return c.seconds }

// Reset rewinds the clock to zero. Used only on full simulation resets.
func (c *Clock) Reset() { c.seconds = 0 }
