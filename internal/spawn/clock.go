package spawn

import "time"

// Clock measures the time since the last spawn.
type Clock interface {
	Elapsed() float64
	Restart()
}

// WallClock reads the monotonic system clock.
type WallClock struct {
	start time.Time
	now   func() time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{start: time.Now(), now: time.Now}
}

func (c *WallClock) Elapsed() float64 {
	return c.now().Sub(c.start).Seconds()
}

func (c *WallClock) Restart() {
	c.start = c.now()
}

// FrameClock only moves when Advance is called, which keeps headless runs
// reproducible.
type FrameClock struct {
	elapsed float64
}

func NewFrameClock() *FrameClock {
	return &FrameClock{}
}

func (c *FrameClock) Advance(dt float64) { c.elapsed += dt }

func (c *FrameClock) Elapsed() float64 { return c.elapsed }

func (c *FrameClock) Restart() { c.elapsed = 0 }
