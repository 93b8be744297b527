package sensor

import "math"

// SpeedNormalizer rescales roughness energy to a reference speed so values
// from different travel speeds on the same road are comparable.
type SpeedNormalizer struct {
	ref      float64
	min      float64
	max      float64
	exponent float64
}

// NewSpeedNormalizer creates a normalizer for the given reference speed and
// clamp range, all in m/s.
func NewSpeedNormalizer(ref, min, max, exponent float64) *SpeedNormalizer {
	return &SpeedNormalizer{ref: ref, min: min, max: max, exponent: exponent}
}

// Normalize clamps speed into [min,max] and scales energy by
// (ref/clamped)^exponent.
func (n *SpeedNormalizer) Normalize(energy, speedMps float64) float64 {
	clamped := speedMps
	if clamped < n.min {
		clamped = n.min
	} else if clamped > n.max {
		clamped = n.max
	}
	return energy * math.Pow(n.ref/clamped, n.exponent)
}
