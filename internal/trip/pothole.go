package trip

import (
	"github.com/google/uuid"

	"roadsense/internal/sensor"
)

// potholeDetector runs inline on every accepted sample and debounces impacts
// so one hole is not reported once per wheel.
type potholeDetector struct {
	thresholdG   float64
	moderateG    float64
	severeG      float64
	minSpeedMps  float64
	separationMs int64
	lastAcceptMs int64
	events       []PotholeEvent
}

func newPotholeDetector(thresholdG, moderateG, severeG, minSpeedMps float64, separationMs int64) *potholeDetector {
	return &potholeDetector{
		thresholdG:   thresholdG,
		moderateG:    moderateG,
		severeG:      severeG,
		minSpeedMps:  minSpeedMps,
		separationMs: separationMs,
	}
}

// check evaluates one accepted sample. hpG is the high-passed vertical
// acceleration magnitude in g. Handling samples and samples inside the
// handling exclusion window never qualify.
func (p *potholeDetector) check(s sensor.Sample, hpG float64, cellID string, insideHandlingWindow bool) {
	if hpG < p.thresholdG || s.SpeedMps < p.minSpeedMps {
		return
	}
	if s.HandlingDetected || insideHandlingWindow {
		return
	}
	if p.lastAcceptMs != 0 && s.TimestampMs-p.lastAcceptMs < p.separationMs {
		return
	}
	p.lastAcceptMs = s.TimestampMs
	p.events = append(p.events, PotholeEvent{
		ID:          uuid.NewString(),
		TimestampMs: s.TimestampMs,
		Lat:         s.Lat,
		Lng:         s.Lng,
		CellID:      cellID,
		Severity:    p.bucket(hpG),
		PeakG:       hpG,
		SpeedMps:    s.SpeedMps,
		Source:      "accelerometer",
	})
}

func (p *potholeDetector) bucket(hpG float64) Severity {
	switch {
	case hpG >= p.severeG:
		return SeveritySevere
	case hpG >= p.moderateG:
		return SeverityModerate
	default:
		return SeverityMinor
	}
}

func (p *potholeDetector) reset() {
	p.lastAcceptMs = 0
	p.events = nil
}
