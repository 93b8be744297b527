package queue

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry wraps a domain payload with delivery metadata.
type Entry[T any] struct {
	ID              string
	Payload         T
	EnqueuedAtMs    int64
	Attempts        int
	NextAttemptAtMs int64
}

// Queue is one named, persisted FIFO inside the shared outbox.
type Queue[T any] struct {
	store     *Store
	name      string
	policy    Policy
	retention time.Duration
	now       func() time.Time
}

// New creates a queue view over the store. Entries older than retention are
// pruned on every ReadQueue regardless of delivery status.
func New[T any](store *Store, name string, policy Policy, retention time.Duration) *Queue[T] {
	return &Queue[T]{
		store:     store,
		name:      name,
		policy:    policy,
		retention: retention,
		now:       time.Now,
	}
}

// Enqueue appends and persists a payload, returning the stored entry.
func (q *Queue[T]) Enqueue(payload T) (Entry[T], error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Entry[T]{}, fmt.Errorf("marshal payload: %w", err)
	}
	e := Entry[T]{
		ID:           uuid.NewString(),
		Payload:      payload,
		EnqueuedAtMs: q.now().UnixMilli(),
	}
	_, err = q.store.db.Exec(
		`INSERT INTO outbox (id, queue, payload, enqueued_at_ms, attempts, next_attempt_at_ms)
		 VALUES (?, ?, ?, ?, 0, 0)`,
		e.ID, q.name, raw, e.EnqueuedAtMs)
	if err != nil {
		return Entry[T]{}, fmt.Errorf("enqueue: %w", err)
	}
	return e, nil
}

// PeekOldest returns the earliest eligible entry without removing it, or nil
// when nothing is eligible.
func (q *Queue[T]) PeekOldest() (*Entry[T], error) {
	entries, err := q.ReadQueue()
	if err != nil {
		return nil, err
	}
	nowMs := q.now().UnixMilli()
	for i := range entries {
		e := &entries[i]
		if q.policy.Eligible(e.Attempts, e.NextAttemptAtMs, nowMs) {
			return e, nil
		}
	}
	return nil, nil
}

// Remove deletes an entry, reporting whether it existed.
func (q *Queue[T]) Remove(id string) (bool, error) {
	res, err := q.store.db.Exec(`DELETE FROM outbox WHERE queue = ? AND id = ?`, q.name, id)
	if err != nil {
		return false, fmt.Errorf("remove: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Size returns the number of persisted entries, including ineligible ones.
func (q *Queue[T]) Size() (int, error) {
	var n int
	err := q.store.db.QueryRow(`SELECT COUNT(*) FROM outbox WHERE queue = ?`, q.name).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("size: %w", err)
	}
	return n, nil
}

// ReadQueue returns all entries in enqueue order, pruning expired and
// malformed rows first. Pruned rows are deleted permanently; a payload that
// no longer decodes is dropped silently rather than wedging the queue.
func (q *Queue[T]) ReadQueue() ([]Entry[T], error) {
	cutoff := q.now().Add(-q.retention).UnixMilli()
	if _, err := q.store.db.Exec(
		`DELETE FROM outbox WHERE queue = ? AND enqueued_at_ms < ?`, q.name, cutoff); err != nil {
		return nil, fmt.Errorf("prune expired: %w", err)
	}

	rows, err := q.store.db.Query(
		`SELECT id, payload, enqueued_at_ms, attempts, next_attempt_at_ms
		 FROM outbox WHERE queue = ? ORDER BY enqueued_at_ms ASC`, q.name)
	if err != nil {
		return nil, fmt.Errorf("read queue: %w", err)
	}
	defer rows.Close()

	var entries []Entry[T]
	var malformed []string
	for rows.Next() {
		var e Entry[T]
		var raw []byte
		if err := rows.Scan(&e.ID, &raw, &e.EnqueuedAtMs, &e.Attempts, &e.NextAttemptAtMs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &e.Payload); err != nil {
			malformed = append(malformed, e.ID)
			continue
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range malformed {
		if _, err := q.store.db.Exec(`DELETE FROM outbox WHERE queue = ? AND id = ?`, q.name, id); err != nil {
			return nil, fmt.Errorf("prune malformed: %w", err)
		}
	}
	return entries, nil
}

// RecordFailure persists an entry's failure count and next-eligible time.
// Only the per-entry-backoff queue uses this; the FIFO variant keeps its
// backoff state in the scheduler.
func (q *Queue[T]) RecordFailure(id string, attempts int, nextAttemptAt time.Time) error {
	res, err := q.store.db.Exec(
		`UPDATE outbox SET attempts = ?, next_attempt_at_ms = ? WHERE queue = ? AND id = ?`,
		attempts, nextAttemptAt.UnixMilli(), q.name, id)
	if err != nil {
		return fmt.Errorf("record failure: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
