// internal/hw/sim/clock.go
package sim

import "time"

// Clock compresses simulated time. A scale of 100 makes one simulated
// second pass in 10ms of wall time. Scale 1 runs in real time.
type Clock struct {
	scale int
}

// NewClock creates a clock with the given acceleration factor.
// Scales below 1 are clamped to 1.
func NewClock(scale int) *Clock {
	if scale < 1 {
		scale = 1
	}
	return &Clock{scale: scale}
}

// Delay busy-waits for the scaled duration. Implements hw.Delayer.
func (c *Clock) Delay(d time.Duration) {
	time.Sleep(c.scaled(d))
}

// scaled converts a simulated duration to wall time, never below 1us
// so that ordering between scheduled events survives compression.
func (c *Clock) scaled(d time.Duration) time.Duration {
	s := d / time.Duration(c.scale)
	if s < time.Microsecond {
		s = time.Microsecond
	}
	return s
}
