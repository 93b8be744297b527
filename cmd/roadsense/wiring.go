package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"roadsense/internal/config"
	"roadsense/internal/queue"
	"roadsense/internal/trip"
	"roadsense/internal/uplink"
)

// delivery bundles the durable queues and their schedulers. A scheduler is
// nil when its backend is not configured; batches then stay queued until a
// later run picks them up.
type delivery struct {
	store     *queue.Store
	batches   *queue.Queue[trip.Batch]
	reports   *queue.Queue[trip.PotholeEvent]
	telemetry *uplink.Scheduler[trip.Batch]
	portal    *uplink.Scheduler[trip.PotholeEvent]
}

// buildDelivery opens the outbox and wires queues to schedulers based on
// which backends the config names.
func buildDelivery(cfg *config.Config, log *slog.Logger) (*delivery, error) {
	store, err := queue.Open(cfg.Queue.Path)
	if err != nil {
		return nil, err
	}
	retention := time.Duration(cfg.Queue.RetentionDays) * 24 * time.Hour

	d := &delivery{
		store:   store,
		batches: queue.New[trip.Batch](store, "telemetry", queue.FIFO{}, retention),
		reports: queue.New[trip.PotholeEvent](store, "portal", queue.PerEntryBackoff{}, retention),
	}

	if cfg.Telemetry.Endpoint != "" {
		client, err := uplink.NewTelemetryClient(
			cfg.Telemetry.Endpoint, cfg.Telemetry.Database,
			cfg.Telemetry.SegmentTable, cfg.Telemetry.PotholeTable,
			cfg.Telemetry.Uplink.BatchLimit)
		if err != nil {
			store.Close()
			return nil, err
		}
		up := cfg.Telemetry.Uplink
		d.telemetry = uplink.NewScheduler("telemetry", d.batches, client, uplink.Options{
			MinInterval: up.PollInterval.Std(),
			Backoff:     uplink.Backoff{Base: up.BackoffBase.Std(), Cap: up.BackoffCap.Std()},
			Probe:       &uplink.HTTPProbe{URL: up.ProbeURL, Timeout: up.ProbeTimeout.Std()},
			Auth:        uplink.StaticToken(os.Getenv("ROADSENSE_TOKEN")),
		}, log)
	} else {
		log.Info("telemetry endpoint not configured, batches stay queued")
	}

	if cfg.Portal.BaseURL != "" {
		up := cfg.Portal.Uplink
		client := &uplink.PortalClient{
			BaseURL: cfg.Portal.BaseURL,
			Client:  &http.Client{Timeout: 15 * time.Second},
		}
		d.portal = uplink.NewScheduler("portal", d.reports, client, uplink.Options{
			MinInterval:     up.PollInterval.Std(),
			Backoff:         uplink.Backoff{Base: up.BackoffBase.Std(), Cap: up.BackoffCap.Std()},
			Probe:           &uplink.HTTPProbe{URL: up.ProbeURL, Timeout: up.ProbeTimeout.Std()},
			PerEntryBackoff: true,
		}, log)
	} else {
		log.Info("portal not configured, reports stay queued")
	}

	return d, nil
}

func (d *delivery) kickTelemetry() {
	if d.telemetry != nil {
		d.telemetry.Kick()
	}
}

func (d *delivery) kickPortal() {
	if d.portal != nil {
		d.portal.Kick()
	}
}

// depths reports queue sizes for the status endpoints and the TUI.
func (d *delivery) depths() map[string]int {
	out := make(map[string]int, 2)
	if n, err := d.batches.Size(); err == nil {
		out["telemetry"] = n
	}
	if n, err := d.reports.Size(); err == nil {
		out["portal"] = n
	}
	return out
}

func (d *delivery) close() {
	if d.telemetry != nil {
		d.telemetry.Stop()
	}
	if d.portal != nil {
		d.portal.Stop()
	}
	d.store.Close()
}
