package engine

// Clock converts real-time deltas into whole phases.
type Clock struct {
	PhaseDuration float64 // Seconds per phase
	acc           float64
}

// NewClock creates a clock with the given phase duration in seconds.
func NewClock(phaseDuration float64) *Clock {
	return &Clock{PhaseDuration: phaseDuration}
}

// Advance accumulates delta seconds and returns how many phases elapsed.
// The fractional remainder carries into the next call.
func (c *Clock) Advance(delta float64) int {
	if c.PhaseDuration <= 0 || delta <= 0 {
		return 0
	}
	c.acc += delta / c.PhaseDuration
	n := int(c.acc)
	c.acc -= float64(n)
	return n
}

// Progress returns the fraction of the current phase already elapsed, in
// [0, 1). Renderers use it to interpolate between tiles.
func (c *Clock) Progress() float64 {
	return c.acc
}

// Reset drops any accumulated fraction.
func (c *Clock) Reset() {
	c.acc = 0
}
