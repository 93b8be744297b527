package trip

import (
	"fmt"
	"time"

	"roadsense/internal/config"
	"roadsense/internal/geo"
	"roadsense/internal/sensor"
)

// State tracks the session lifecycle: Idle until the first sample,
// Accumulating for the trip's duration, Finalized exactly once.
type State int

const (
	StateIdle State = iota
	StateAccumulating
	StateFinalized
)

const gravityMps2 = 9.81

// segmentEntry is the mutable per-cell accumulator. Created lazily on the
// first sample in a cell, consumed exactly once at finalize.
type segmentEntry struct {
	cell           geo.Cell
	rawEnergy      float64
	weightedEnergy float64
	samples        int
	speedSum       float64
	maxAbsHpG      float64
	firstLat       float64
	firstLng       float64
	lastLat        float64
	lastLng        float64
	startMs        int64
	endMs          int64
}

// Result is what a finalized trip hands to the delivery layer.
type Result struct {
	Passes       []SegmentPass
	Potholes     []PotholeEvent
	Stats        Stats
	TrimStrategy string
}

// Session owns all accumulator state for one trip. It is not safe for
// concurrent use; the agent feeds it from a single consumer goroutine.
type Session struct {
	cityID     string
	resolution int
	maxAccM    float64
	privacy    config.Privacy

	hp      *sensor.Highpass
	turns   *sensor.TurnWeighter
	norm    *sensor.SpeedNormalizer
	trimmer *sensor.HandlingTrimmer
	holes   *potholeDetector

	track   geo.DistanceTrack
	cells   map[geo.Cell]*segmentEntry
	firstMs int64
	lastMs  int64
	stats   Stats
	state   State
}

// NewSession builds a session from the agent configuration. The hex
// resolution is fixed for the whole session.
func NewSession(cfg *config.Config) *Session {
	return &Session{
		cityID:     cfg.CityID,
		resolution: cfg.HexResolution,
		maxAccM:    cfg.Sensor.MaxGPSAccuracyM,
		privacy:    cfg.Privacy,
		hp:         sensor.NewHighpass(cfg.Sensor.HighpassAlpha),
		turns:      sensor.NewTurnWeighter(cfg.Sensor.TurnSoftRadS, cfg.Sensor.TurnHardRadS, cfg.Sensor.TurnWeightFloor),
		norm:       sensor.NewSpeedNormalizer(cfg.Sensor.SpeedRefMps, cfg.Sensor.SpeedMinMps, cfg.Sensor.SpeedMaxMps, cfg.Sensor.SpeedExponent),
		trimmer:    sensor.NewHandlingTrimmer(time.Duration(cfg.Sensor.HandlingWindowMs)*time.Millisecond, cfg.Sensor.TurnSoftRadS),
		holes:      newPotholeDetector(cfg.Pothole.ThresholdG, cfg.Pothole.ModerateG, cfg.Pothole.SevereG, cfg.Pothole.MinSpeedMps, cfg.Pothole.SeparationMs),
		cells:      make(map[geo.Cell]*segmentEntry),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Peek returns live counters for status displays without touching state.
func (s *Session) Peek() (stats Stats, potholes int) {
	st := s.stats
	st.Cells = len(s.cells)
	return st, len(s.holes.events)
}

// Push ingests one sensor tick. Invalid samples are dropped and counted,
// never surfaced as errors. Pushing after finalize is a programming error.
func (s *Session) Push(sample sensor.Sample) error {
	if s.state == StateFinalized {
		return fmt.Errorf("push on finalized session")
	}
	s.state = StateAccumulating
	s.stats.Ingested++

	if !sample.HasFix() || sample.SpeedMps < 0 {
		s.stats.DroppedMissingFix++
		return nil
	}
	if sample.GPSAccuracyM > s.maxAccM {
		s.stats.DroppedAccuracy++
		return nil
	}

	if s.firstMs == 0 {
		s.firstMs = sample.TimestampMs
	}
	s.lastMs = sample.TimestampMs
	s.track.Add(sample.TimestampMs, sample.Lat, sample.Lng)

	// The baseline keeps tracking gravity across trimmed samples so the
	// filter does not re-seed after every steering event.
	hpZ := s.hp.Step(sample.AccelZ)

	accepted := s.trimmer.Push(sample)
	if accepted == nil {
		s.stats.DroppedHandling++
		return nil
	}

	cell := geo.CellAt(sample.Lat, sample.Lng, s.resolution)
	hpG := hpZ / gravityMps2
	if hpG < 0 {
		hpG = -hpG
	}
	rawEnergy := hpG * hpG
	normalized := s.norm.Normalize(rawEnergy, sample.SpeedMps)
	weighted := normalized * s.turns.Weight(absF(sample.GyroZ))

	entry, ok := s.cells[cell]
	if !ok {
		entry = &segmentEntry{
			cell:     cell,
			firstLat: sample.Lat,
			firstLng: sample.Lng,
			startMs:  sample.TimestampMs,
		}
		s.cells[cell] = entry
	}
	entry.rawEnergy += rawEnergy
	entry.weightedEnergy += weighted
	entry.samples++
	entry.speedSum += sample.SpeedMps
	if hpG > entry.maxAbsHpG {
		entry.maxAbsHpG = hpG
	}
	entry.lastLat = sample.Lat
	entry.lastLng = sample.Lng
	entry.endMs = sample.TimestampMs

	s.holes.check(sample, hpG, cell.String(), s.trimmer.Inside(sample.TimestampMs))
	return nil
}

// Finalize consumes every segment entry, applies privacy trimming and
// classification, and returns the trip artifacts. The session only finalizes
// once; afterwards Reset must be called before reuse.
func (s *Session) Finalize() (Result, error) {
	if s.state == StateFinalized {
		return Result{}, fmt.Errorf("finalize on finalized session")
	}
	s.state = StateFinalized

	trim := ChooseTrim(&s.track, s.privacy.TargetDistanceM,
		time.Duration(s.privacy.FallbackWindowS)*time.Second, s.firstMs, s.lastMs)

	s.stats.Cells = len(s.cells)

	passes := make([]SegmentPass, 0, len(s.cells))
	for _, e := range s.cells {
		midMs := e.startMs + (e.endMs-e.startMs)/2
		if !trim.Keep(midMs) {
			s.stats.TrimmedSegments++
			continue
		}
		passes = append(passes, s.buildPass(e))
	}

	kept := make([]PotholeEvent, 0, len(s.holes.events))
	for _, ev := range s.holes.events {
		if !trim.Keep(ev.TimestampMs) {
			s.stats.TrimmedPotholes++
			continue
		}
		kept = append(kept, ev)
	}

	return Result{
		Passes:       passes,
		Potholes:     kept,
		Stats:        s.stats,
		TrimStrategy: trim.Name(),
	}, nil
}

func (s *Session) buildPass(e *segmentEntry) SegmentPass {
	centerLat, centerLng := geo.Centroid(e.cell)
	avgSpeed := 0.0
	if e.samples > 0 {
		avgSpeed = e.speedSum / float64(e.samples)
	}
	roadType := RoadCity
	if avgSpeed > highwaySpeedCutoffMps {
		roadType = RoadHighway
	}
	perSample := 0.0
	if e.samples > 0 {
		perSample = e.weightedEnergy / float64(e.samples)
	}
	percent := RoughnessPercent(e.weightedEnergy)
	return SegmentPass{
		CellID:           e.cell.String(),
		CityID:           s.cityID,
		StartMs:          e.startMs,
		EndMs:            e.endMs,
		SampleCount:      e.samples,
		AvgSpeedMps:      avgSpeed,
		CenterLat:        centerLat,
		CenterLng:        centerLng,
		StartLat:         e.firstLat,
		StartLng:         e.firstLng,
		EndLat:           e.lastLat,
		EndLng:           e.lastLng,
		RoadType:         roadType,
		EnergySum:        e.weightedEnergy,
		RawEnergySum:     e.rawEnergy,
		EnergyPerSample:  perSample,
		MaxAbsHpG:        e.maxAbsHpG,
		RoughnessPercent: percent,
		EnergyClass:      ClassifyEnergy(e.weightedEnergy),
		PercentClass:     ClassifyPercent(percent),
	}
}

// Reset clears all accumulator and filter state so the session can host the
// next trip.
func (s *Session) Reset() {
	s.hp.Reset()
	s.trimmer.Reset()
	s.holes.reset()
	s.track.Reset()
	s.cells = make(map[geo.Cell]*segmentEntry)
	s.firstMs = 0
	s.lastMs = 0
	s.stats = Stats{}
	s.state = StateIdle
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
