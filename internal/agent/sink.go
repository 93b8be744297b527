package agent

import (
	"roadsense/internal/queue"
	"roadsense/internal/trip"
)

// QueueSink persists finalized artifacts into the two durable queues and
// nudges the schedulers so drained queues wake up again.
type QueueSink struct {
	Batches       *queue.Queue[trip.Batch]
	Reports       *queue.Queue[trip.PotholeEvent]
	KickTelemetry func()
	KickPortal    func()
}

// EnqueueBatch implements Sink.
func (s *QueueSink) EnqueueBatch(b trip.Batch) error {
	if _, err := s.Batches.Enqueue(b); err != nil {
		return err
	}
	if s.KickTelemetry != nil {
		s.KickTelemetry()
	}
	return nil
}

// EnqueueReport implements Sink.
func (s *QueueSink) EnqueueReport(ev trip.PotholeEvent) error {
	if _, err := s.Reports.Enqueue(ev); err != nil {
		return err
	}
	if s.KickPortal != nil {
		s.KickPortal()
	}
	return nil
}
