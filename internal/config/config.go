// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Sensor holds filtering thresholds applied to raw sensor ticks.
type Sensor struct {
	MaxGPSAccuracyM  float64 `yaml:"max_gps_accuracy_m"`
	HighpassAlpha    float64 `yaml:"highpass_alpha"`
	TurnSoftRadS     float64 `yaml:"turn_soft_rad_s"`
	TurnHardRadS     float64 `yaml:"turn_hard_rad_s"`
	TurnWeightFloor  float64 `yaml:"turn_weight_floor"`
	SpeedRefMps      float64 `yaml:"speed_ref_mps"`
	SpeedMinMps      float64 `yaml:"speed_min_mps"`
	SpeedMaxMps      float64 `yaml:"speed_max_mps"`
	SpeedExponent    float64 `yaml:"speed_exponent"`
	HandlingWindowMs int64   `yaml:"handling_window_ms"`
}

// Pothole holds impact-detection thresholds.
type Pothole struct {
	ThresholdG   float64 `yaml:"threshold_g"`
	ModerateG    float64 `yaml:"moderate_g"`
	SevereG      float64 `yaml:"severe_g"`
	MinSpeedMps  float64 `yaml:"min_speed_mps"`
	SeparationMs int64   `yaml:"separation_ms"`
}

// Privacy controls head/tail trimming of finalized trips.
type Privacy struct {
	TargetDistanceM float64 `yaml:"target_distance_m"`
	FallbackWindowS int64   `yaml:"fallback_window_s"`
}

// Duration wraps time.Duration so YAML values like "30s" parse directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Uplink describes one upload scheduler instance.
type Uplink struct {
	PollInterval Duration `yaml:"poll_interval"`
	BackoffBase  Duration `yaml:"backoff_base"`
	BackoffCap   Duration `yaml:"backoff_cap"`
	BatchLimit   int      `yaml:"batch_limit"`
	ProbeTimeout Duration `yaml:"probe_timeout"`
	ProbeURL     string   `yaml:"probe_url"`
}

// Telemetry configures the primary backend connection.
type Telemetry struct {
	Endpoint     string `yaml:"endpoint"`
	Database     string `yaml:"database"`
	SegmentTable string `yaml:"segment_table"`
	PotholeTable string `yaml:"pothole_table"`
	Uplink       Uplink `yaml:"uplink"`
}

// Portal configures the municipal report endpoint.
type Portal struct {
	BaseURL string `yaml:"base_url"`
	Uplink  Uplink `yaml:"uplink"`
}

// Queue configures the durable outbox shared by both schedulers.
type Queue struct {
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

// Config is the root configuration for the road-quality agent.
type Config struct {
	CityID        string    `yaml:"city_id"`
	HexResolution int       `yaml:"hex_resolution"`
	Sensor        Sensor    `yaml:"sensor"`
	Pothole       Pothole   `yaml:"pothole"`
	Privacy       Privacy   `yaml:"privacy"`
	Telemetry     Telemetry `yaml:"telemetry"`
	Portal        Portal    `yaml:"portal"`
	Queue         Queue     `yaml:"queue"`
}

// Default returns the configuration used when a field is absent from YAML.
func Default() Config {
	return Config{
		CityID:        "default",
		HexResolution: 9,
		Sensor: Sensor{
			MaxGPSAccuracyM:  25,
			HighpassAlpha:    0.04,
			TurnSoftRadS:     0.35,
			TurnHardRadS:     1.2,
			TurnWeightFloor:  0.2,
			SpeedRefMps:      13.9,
			SpeedMinMps:      2,
			SpeedMaxMps:      33,
			SpeedExponent:    1,
			HandlingWindowMs: 600,
		},
		Pothole: Pothole{
			ThresholdG:   0.45,
			ModerateG:    0.65,
			SevereG:      0.9,
			MinSpeedMps:  2.5,
			SeparationMs: 450,
		},
		Privacy: Privacy{
			TargetDistanceM: 100,
			FallbackWindowS: 20,
		},
		Telemetry: Telemetry{
			Database:     "public",
			SegmentTable: "road_segments",
			PotholeTable: "pothole_events",
			Uplink: Uplink{
				PollInterval: Duration(60 * time.Second),
				BackoffBase:  Duration(30 * time.Second),
				BackoffCap:   Duration(5 * time.Minute),
				BatchLimit:   400,
				ProbeTimeout: Duration(3 * time.Second),
			},
		},
		Portal: Portal{
			Uplink: Uplink{
				PollInterval: Duration(15 * time.Second),
				BackoffBase:  Duration(30 * time.Second),
				BackoffCap:   Duration(5 * time.Minute),
				BatchLimit:   1,
				ProbeTimeout: Duration(3 * time.Second),
			},
		},
		Queue: Queue{
			Path:          "roadsense-outbox.db",
			RetentionDays: 30,
		},
	}
}

// Load reads YAML config, validates it against a CUE schema when schemaPath is
// non-empty, and fills unset fields from Default.
func Load(configPath, schemaPath string) (*Config, error) {
	if schemaPath != "" {
		if err := ValidateWithCue(configPath, schemaPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal YAML config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints CUE cannot express conveniently.
func (c *Config) Validate() error {
	if c.HexResolution < 0 || c.HexResolution > 15 {
		return fmt.Errorf("hex_resolution %d outside [0,15]", c.HexResolution)
	}
	if c.Sensor.TurnHardRadS < c.Sensor.TurnSoftRadS {
		return fmt.Errorf("turn_hard_rad_s %.3f below turn_soft_rad_s %.3f",
			c.Sensor.TurnHardRadS, c.Sensor.TurnSoftRadS)
	}
	if c.Sensor.SpeedMaxMps <= c.Sensor.SpeedMinMps {
		return fmt.Errorf("speed_max_mps must exceed speed_min_mps")
	}
	if c.Pothole.ModerateG < c.Pothole.ThresholdG || c.Pothole.SevereG < c.Pothole.ModerateG {
		return fmt.Errorf("pothole severity thresholds must be ordered minor <= moderate <= severe")
	}
	if c.Queue.RetentionDays <= 0 {
		return fmt.Errorf("retention_days must be positive")
	}
	return nil
}
