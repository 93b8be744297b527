// Package agent wires the sensor stream, the trip session, and the delivery
// queues together. One consumer goroutine owns all session state; producers
// only ever touch the bounded sample channel.
package agent

import (
	"context"
	"sync"

	"roadsense/internal/config"
	"roadsense/internal/logging"
	"roadsense/internal/sensor"
	"roadsense/internal/trip"
)

// Sink receives finalized trip artifacts. The production sink persists them
// to the durable queues and kicks the schedulers.
type Sink interface {
	EnqueueBatch(trip.Batch) error
	EnqueueReport(trip.PotholeEvent) error
}

// Snapshot is a point-in-time view of the running agent for status displays.
type Snapshot struct {
	State        string              `json:"state"`
	Stats        trip.Stats          `json:"stats"`
	Potholes     int                 `json:"potholes"`
	TripsClosed  int                 `json:"tripsClosed"`
	LastTrim     string              `json:"lastTrim,omitempty"`
	LastBatchID  string              `json:"lastBatchId,omitempty"`
	LastPotholes []trip.PotholeEvent `json:"lastPotholes,omitempty"`
}

// Agent runs the single-consumer pipeline for one device.
type Agent struct {
	cfg     *config.Config
	samples chan sensor.Sample
	flush   chan struct{}
	session *trip.Session
	sink    Sink

	mu   sync.Mutex
	snap Snapshot
}

// New creates an agent consuming from a bounded channel of the given size.
func New(cfg *config.Config, sink Sink, buffer int) *Agent {
	if buffer <= 0 {
		buffer = 256
	}
	return &Agent{
		cfg:     cfg,
		samples: make(chan sensor.Sample, buffer),
		flush:   make(chan struct{}, 1),
		session: trip.NewSession(cfg),
		sink:    sink,
	}
}

// Samples returns the producer side of the sample channel.
func (a *Agent) Samples() chan<- sensor.Sample { return a.samples }

// EndTrip asks the consumer loop to finalize the current trip and start a
// fresh session. Pending data is enqueued without waiting on any upload.
func (a *Agent) EndTrip() {
	select {
	case a.flush <- struct{}{}:
	default:
	}
}

// Snapshot returns the current status view.
func (a *Agent) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap
}

// Run consumes samples until ctx is cancelled or the channel is closed, then
// finalizes whatever trip is in progress.
func (a *Agent) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	log.Info("agent started", "city", a.cfg.CityID, "hex_resolution", a.cfg.HexResolution)
	for {
		select {
		case <-ctx.Done():
			a.closeTrip(ctx)
			return nil
		case <-a.flush:
			a.closeTrip(ctx)
		case s, ok := <-a.samples:
			if !ok {
				a.closeTrip(ctx)
				return nil
			}
			if err := a.session.Push(s); err != nil {
				log.Error("push failed", "err", err)
				continue
			}
			a.updateSnapshot()
		}
	}
}

func (a *Agent) updateSnapshot() {
	stats, potholes := a.session.Peek()
	a.mu.Lock()
	a.snap.State = stateName(a.session.State())
	a.snap.Stats = stats
	a.snap.Potholes = potholes
	a.mu.Unlock()
}

// closeTrip finalizes the session and hands the artifacts to the sink.
// Nothing is lost on sink errors: the error is logged and the batch stays in
// memory only for this trip, matching best-effort persistence semantics.
func (a *Agent) closeTrip(ctx context.Context) {
	log := logging.FromContext(ctx)
	if a.session.State() != trip.StateAccumulating {
		return
	}
	res, err := a.session.Finalize()
	if err != nil {
		log.Error("finalize failed", "err", err)
		a.session.Reset()
		return
	}
	batch := trip.NewBatch(a.cfg.CityID, res)
	log.Info("trip finalized",
		"segments", len(res.Passes),
		"potholes", len(res.Potholes),
		"trim", res.TrimStrategy,
		"dropped_accuracy", res.Stats.DroppedAccuracy,
		"dropped_handling", res.Stats.DroppedHandling)

	if len(res.Passes) > 0 || len(res.Potholes) > 0 {
		if err := a.sink.EnqueueBatch(batch); err != nil {
			log.Error("enqueue batch failed", "batch_id", batch.ID, "err", err)
		}
		for _, ev := range res.Potholes {
			if err := a.sink.EnqueueReport(ev); err != nil {
				log.Error("enqueue report failed", "event_id", ev.ID, "err", err)
			}
		}
	}

	a.mu.Lock()
	a.snap.TripsClosed++
	a.snap.LastTrim = res.TrimStrategy
	a.snap.LastBatchID = batch.ID
	a.snap.LastPotholes = res.Potholes
	a.mu.Unlock()

	a.session.Reset()
}

func stateName(s trip.State) string {
	switch s {
	case trip.StateAccumulating:
		return "accumulating"
	case trip.StateFinalized:
		return "finalized"
	default:
		return "idle"
	}
}
