package renderer

import "time"

// FrameClock measures time since the current program became active.
type FrameClock struct {
	start time.Time
}

func (c *FrameClock) Reset(now time.Time) {
	c.start = now
}

// Elapsed returns seconds since Reset. Frames stamped before the reset
// report zero.
func (c *FrameClock) Elapsed(now time.Time) float32 {
	d := now.Sub(c.start)
	if d < 0 {
		return 0
	}
	return float32(d.Seconds())
}
