package queue

// Policy decides when a persisted entry may be attempted.
type Policy interface {
	Eligible(attempts int, nextAttemptAtMs, nowMs int64) bool
}

// FIFO treats every entry as eligible; the scheduler throttles globally and
// keeps a single backoff timer for the whole queue.
type FIFO struct{}

func (FIFO) Eligible(int, int64, int64) bool { return true }

// PerEntryBackoff holds each entry back until its own next-attempt time, so
// entries fail and retry independently. The oldest eligible entry may not be
// the oldest by enqueue time.
type PerEntryBackoff struct{}

func (PerEntryBackoff) Eligible(_ int, nextAttemptAtMs, nowMs int64) bool {
	return nowMs >= nextAttemptAtMs
}
