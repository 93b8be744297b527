// Package sensor defines the raw tick format produced by the platform
// location/motion provider and the per-sample filters applied to it.
package sensor

import "time"

// Sample is one location+inertial reading. Samples are consumed synchronously
// per tick and not retained beyond trip-distance bookkeeping.
type Sample struct {
	TimestampMs      int64   `json:"timestampMs"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	SpeedMps         float64 `json:"speedMps"`
	AccelZ           float64 `json:"accelZ"`
	GyroZ            float64 `json:"gyroZ"`
	GPSAccuracyM     float64 `json:"gpsAccuracyM"`
	HandlingDetected bool    `json:"handlingDetected"`
}

// Time returns the sample timestamp as time.Time.
func (s Sample) Time() time.Time {
	return time.UnixMilli(s.TimestampMs)
}

// HasFix reports whether the sample carries the fields the accumulator needs.
// Zero timestamps and zero coordinates mean the provider had no fix yet.
func (s Sample) HasFix() bool {
	return s.TimestampMs > 0 && (s.Lat != 0 || s.Lng != 0)
}
