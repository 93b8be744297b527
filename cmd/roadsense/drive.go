package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"roadsense/internal/sensor"
)

var (
	driveSamples int
	driveSeed    int64
	driveOut     string
)

var driveCmd = &cobra.Command{
	Use:   "drive",
	Short: "Generate a synthetic sensor log",
	Long:  "drive emits a JSONL sensor log simulating a drive with bumps and steering events, for demos and replay tests.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := os.Stdout
		if driveOut != "" {
			f, err := os.Create(driveOut)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		d := sensor.NewDrive(sensor.DefaultDriveProfile(), driveSeed)
		for i := 0; i < driveSamples; i++ {
			if err := enc.Encode(d.Next()); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	driveCmd.Flags().IntVar(&driveSamples, "samples", 6000, "Number of samples to generate (10 Hz)")
	driveCmd.Flags().Int64Var(&driveSeed, "seed", 1, "Random seed")
	driveCmd.Flags().StringVar(&driveOut, "output", "", "Output file (default STDOUT)")
}
