package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"roadsense/internal/config"
	"roadsense/internal/sensor"
	"roadsense/internal/trip"
)

var (
	replayInput  string
	replaySpeed  float64
	replayConfig string
	replaySchema string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a sensor log through the pipeline",
	Long:  "replay feeds a recorded sensor JSONL log through the full trip pipeline and prints the finalized batch as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		cfg, err := config.Load(replayConfig, replaySchema)
		if err != nil {
			return err
		}

		session := trip.NewSession(cfg)
		samples := make(chan sensor.Sample, 256)
		errc := make(chan error, 1)
		go func() {
			errc <- sensor.ReplayLogFile(replayInput, samples, replaySpeed)
			close(samples)
		}()
		for s := range samples {
			if err := session.Push(s); err != nil {
				return err
			}
		}
		if err := <-errc; err != nil {
			return err
		}

		res, err := session.Finalize()
		if err != nil {
			return err
		}
		batch := trip.NewBatch(cfg.CityID, res)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(batch); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "trim=%s ingested=%d cells=%d trimmed_segments=%d trimmed_potholes=%d\n",
			res.TrimStrategy, res.Stats.Ingested, res.Stats.Cells,
			res.Stats.TrimmedSegments, res.Stats.TrimmedPotholes)
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to sensor JSONL log")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 0, "Playback speed multiplier (0 = as fast as possible)")
	replayCmd.Flags().StringVar(&replayConfig, "config", "config/roadsense.yaml", "Path to configuration YAML")
	replayCmd.Flags().StringVar(&replaySchema, "schema", "schemas/roadsense.cue", "Path to CUE schema file")
	replayCmd.MarkFlagRequired("input")
}
