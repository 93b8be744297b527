package sensor

import "time"

// HandlingTrimmer drops samples for a short window after a steering event so
// handling vibration is not misread as surface roughness or pothole impact.
type HandlingTrimmer struct {
	window       time.Duration
	softGyro     float64
	invalidUntil int64 // ms; samples at or before this timestamp are dropped
	dropped      int
}

// NewHandlingTrimmer creates a trimmer with the given exclusion window and the
// yaw-rate magnitude that counts as a handling event on its own.
func NewHandlingTrimmer(window time.Duration, softGyro float64) *HandlingTrimmer {
	return &HandlingTrimmer{window: window, softGyro: softGyro}
}

// Push feeds a sample. A handling event (explicit flag or yaw rate beyond the
// soft threshold) extends the exclusion window. Returns nil while the sample
// falls inside the window; dropped samples are counted.
func (h *HandlingTrimmer) Push(s Sample) *Sample {
	if s.HandlingDetected || abs(s.GyroZ) >= h.softGyro {
		until := s.TimestampMs + h.window.Milliseconds()
		if until > h.invalidUntil {
			h.invalidUntil = until
		}
	}
	if s.TimestampMs <= h.invalidUntil {
		h.dropped++
		return nil
	}
	return &s
}

// Inside reports whether a timestamp falls inside the current exclusion
// window. The pothole check consults this without pushing a sample.
func (h *HandlingTrimmer) Inside(tsMs int64) bool {
	return tsMs <= h.invalidUntil
}

// Dropped returns how many samples the window swallowed.
func (h *HandlingTrimmer) Dropped() int { return h.dropped }

// Reset clears trimmer state for the next trip.
func (h *HandlingTrimmer) Reset() {
	h.invalidUntil = 0
	h.dropped = 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
