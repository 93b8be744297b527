package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"roadsense/internal/agent"
	"roadsense/internal/config"
	"roadsense/internal/logging"
	"roadsense/internal/sensor"
	"roadsense/internal/tui"
)

var (
	runConfigPath string
	runSchemaPath string
	runInput      string
	runSimulate   bool
	runAdminAddr  string
	runTUI        bool
	runBuffer     int
	runArchive    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the live agent",
	Long:  "run consumes sensor ticks (from a log file or the synthetic drive), accumulates trips, and drains the durable queues toward the configured backends.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(runConfigPath, runSchemaPath)
		if err != nil {
			return err
		}

		log := logging.New(slog.LevelInfo)
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		ctx = logging.NewContext(ctx, log)

		delivery, err := buildDelivery(cfg, log)
		if err != nil {
			return err
		}
		defer delivery.close()

		var sink agent.Sink = &agent.QueueSink{
			Batches:       delivery.batches,
			Reports:       delivery.reports,
			KickTelemetry: delivery.kickTelemetry,
			KickPortal:    delivery.kickPortal,
		}
		if runArchive != "" {
			archive, err := agent.NewFileSink(runArchive, "")
			if err != nil {
				return err
			}
			defer archive.Close()
			sink = agent.MultiSink{sink, archive}
		}
		a := agent.New(cfg, sink, runBuffer)

		// Anything left queued from previous runs should start draining now.
		delivery.kickTelemetry()
		delivery.kickPortal()

		done := make(chan error, 1)
		go func() { done <- a.Run(ctx) }()

		if runAdminAddr != "" {
			srv := agent.NewServer(a, delivery.depths)
			go func() {
				log.Info("status server listening", "addr", runAdminAddr)
				if err := srv.Start(ctx, runAdminAddr); err != nil && err != http.ErrServerClosed {
					log.Error("status server failed", "err", err)
				}
			}()
		}

		go produceSamples(ctx, cfg, a, log)

		if runTUI {
			if err := tui.Run(a, delivery.depths); err != nil {
				log.Error("status view failed", "err", err)
			}
			cancel()
		}

		<-done
		log.Info("agent stopped")
		return nil
	},
}

// produceSamples feeds the agent's channel from the selected source. Closing
// is left to ctx cancellation so a finished log file does not kill the agent
// before its queues drain.
func produceSamples(ctx context.Context, cfg *config.Config, a *agent.Agent, log *slog.Logger) {
	switch {
	case runInput != "":
		if err := sensor.ReplayLogFile(runInput, a.Samples(), 1); err != nil {
			log.Error("sensor log replay failed", "err", err)
		}
		a.EndTrip()
	case runSimulate:
		d := sensor.NewDrive(sensor.DefaultDriveProfile(), time.Now().UnixNano())
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case a.Samples() <- d.Next():
				default:
					// Consumer is behind; dropping one tick is preferable
					// to blocking the producer.
				}
			}
		}
	default:
		log.Info("no sensor source configured; use --input or --simulate")
	}
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "config/roadsense.yaml", "Path to configuration YAML")
	runCmd.Flags().StringVar(&runSchemaPath, "schema", "schemas/roadsense.cue", "Path to CUE schema file")
	runCmd.Flags().StringVar(&runInput, "input", "", "Sensor JSONL log to feed the agent")
	runCmd.Flags().BoolVar(&runSimulate, "simulate", false, "Feed the agent from the synthetic drive generator")
	runCmd.Flags().StringVar(&runAdminAddr, "admin", ":8080", "Status server address (empty disables)")
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "Show the live status view")
	runCmd.Flags().IntVar(&runBuffer, "buffer", 256, "Sample channel buffer size")
	runCmd.Flags().StringVar(&runArchive, "archive", "", "Also archive finalized batches to this JSONL file")
}
