package uplink

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"roadsense/internal/queue"
)

// Deliverer performs one delivery attempt for one queue entry. An attempt
// succeeds or fails as a whole; partial per-record failure is not modeled.
type Deliverer[T any] interface {
	Deliver(ctx context.Context, e queue.Entry[T]) error
}

// Options tunes one scheduler instance.
type Options struct {
	// MinInterval throttles attempts: at most one per interval.
	MinInterval time.Duration
	Backoff     Backoff
	// Probe, when set, gates attempts on connectivity.
	Probe Prober
	// Auth, when set, gates attempts on a signed-in identity.
	Auth TokenProvider
	// PerEntryBackoff persists failure state on the entry itself instead of
	// keeping one global backoff timer for the queue.
	PerEntryBackoff bool
}

// Scheduler drains one durable queue: Idle → Attempting → (Success → Idle |
// Failure → Backoff-Wait → Attempting). A single in-flight guard prevents
// re-entrant attempts. Declines (no auth, no connectivity, throttled) never
// advance the failure counter.
type Scheduler[T any] struct {
	name    string
	q       *queue.Queue[T]
	deliver Deliverer[T]
	opts    Options
	log     *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc

	mu          sync.Mutex
	inFlight    bool
	failures    int
	lastAttempt time.Time
	timer       *time.Timer
	now         func() time.Time
}

// NewScheduler creates a scheduler for one queue. Call Kick after enqueueing
// and Stop on shutdown.
func NewScheduler[T any](name string, q *queue.Queue[T], d Deliverer[T], opts Options, log *slog.Logger) *Scheduler[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler[T]{
		name:    name,
		q:       q,
		deliver: d,
		opts:    opts,
		log:     log.With("scheduler", name),
		ctx:     ctx,
		cancel:  cancel,
		now:     time.Now,
	}
}

// Kick requests an attempt as soon as the throttle allows.
func (s *Scheduler[T]) Kick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	wait := time.Duration(0)
	if !s.lastAttempt.IsZero() {
		if since := s.now().Sub(s.lastAttempt); since < s.opts.MinInterval {
			wait = s.opts.MinInterval - since
		}
	}
	s.scheduleLocked(wait)
}

// Stop cancels the pending timer and any in-flight attempt's context.
func (s *Scheduler[T]) Stop() {
	s.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearTimerLocked()
}

// Failures returns the consecutive-failure count (global-timer variant).
func (s *Scheduler[T]) Failures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}

// scheduleLocked arms the retry timer; an armed timer is replaced, so the
// pending retry is cleared whenever a new attempt is about to start.
func (s *Scheduler[T]) scheduleLocked(d time.Duration) {
	s.clearTimerLocked()
	s.timer = time.AfterFunc(d, s.attempt)
}

func (s *Scheduler[T]) clearTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// attempt runs one delivery cycle. It never runs concurrently with itself.
func (s *Scheduler[T]) attempt() {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return
	}
	if since := s.now().Sub(s.lastAttempt); !s.lastAttempt.IsZero() && since < s.opts.MinInterval {
		s.scheduleLocked(s.opts.MinInterval - since)
		s.mu.Unlock()
		return
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	if s.ctx.Err() != nil {
		return
	}

	// Gates: declining is not failing.
	if s.opts.Auth != nil {
		if _, ok := s.opts.Auth.Token(); !ok {
			s.log.Debug("declining attempt: not signed in")
			s.rescheduleAfter(s.opts.MinInterval)
			return
		}
	}
	if s.opts.Probe != nil && !s.opts.Probe.Reachable(s.ctx) {
		s.log.Debug("declining attempt: not reachable")
		s.rescheduleAfter(s.opts.MinInterval)
		return
	}

	entry, err := s.q.PeekOldest()
	if err != nil {
		s.log.Error("queue read failed", "err", err)
		s.rescheduleAfter(s.opts.MinInterval)
		return
	}
	if entry == nil {
		// Nothing eligible. Leave the timer dead if the queue is empty;
		// otherwise poll again once something may have become eligible.
		if n, err := s.q.Size(); err == nil && n > 0 {
			s.rescheduleAfter(s.opts.MinInterval)
		}
		return
	}

	s.mu.Lock()
	s.lastAttempt = s.now()
	s.mu.Unlock()

	if err := s.deliver.Deliver(s.ctx, *entry); err != nil {
		s.onFailure(*entry, err)
		return
	}
	s.onSuccess(*entry)
}

func (s *Scheduler[T]) onSuccess(e queue.Entry[T]) {
	if _, err := s.q.Remove(e.ID); err != nil {
		s.log.Error("remove delivered entry failed", "id", e.ID, "err", err)
	}
	s.mu.Lock()
	s.failures = 0
	s.mu.Unlock()
	s.log.Info("delivered", "id", e.ID)

	if n, err := s.q.Size(); err == nil && n > 0 {
		s.rescheduleAfter(s.opts.MinInterval)
	}
}

func (s *Scheduler[T]) onFailure(e queue.Entry[T], cause error) {
	if s.opts.PerEntryBackoff {
		attempts := e.Attempts + 1
		delay := s.opts.Backoff.Delay(attempts)
		next := s.now().Add(delay)
		if err := s.q.RecordFailure(e.ID, attempts, next); err != nil {
			s.log.Error("persist backoff state failed", "id", e.ID, "err", err)
		}
		s.log.Warn("delivery failed", "id", e.ID, "attempts", attempts, "retry_in", delay, "err", cause)
		s.rescheduleAfter(maxDuration(s.opts.MinInterval, delay))
		return
	}

	s.mu.Lock()
	s.failures++
	delay := s.opts.Backoff.Delay(s.failures)
	failures := s.failures
	s.mu.Unlock()
	s.log.Warn("delivery failed", "id", e.ID, "failures", failures, "retry_in", delay, "err", cause)
	s.rescheduleAfter(delay)
}

func (s *Scheduler[T]) rescheduleAfter(d time.Duration) {
	if s.ctx.Err() != nil {
		return
	}
	s.mu.Lock()
	s.scheduleLocked(d)
	s.mu.Unlock()
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
