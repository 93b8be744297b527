// Package uplink drains the durable queues toward their backends with
// throttling, connectivity gating, and exponential backoff.
package uplink

import "time"

// Backoff computes exponential retry delays.
type Backoff struct {
	Base time.Duration
	Cap  time.Duration
}

// Delay returns base × 2^(failures−1), capped. Zero failures yields zero
// delay. The result is monotonically non-decreasing in failures.
func (b Backoff) Delay(failures int) time.Duration {
	if failures <= 0 {
		return 0
	}
	d := b.Base
	for i := 1; i < failures; i++ {
		d *= 2
		if d >= b.Cap {
			return b.Cap
		}
	}
	if d > b.Cap {
		return b.Cap
	}
	return d
}
