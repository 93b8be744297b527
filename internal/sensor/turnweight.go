package sensor

// TurnWeighter de-weights samples taken during hard steering so cornering
// vibration does not count as road roughness.
type TurnWeighter struct {
	soft  float64
	hard  float64
	floor float64
}

// NewTurnWeighter creates a weighter with soft/hard yaw-rate thresholds in
// rad/s and a minimum weight floor.
func NewTurnWeighter(soft, hard, floor float64) *TurnWeighter {
	return &TurnWeighter{soft: soft, hard: hard, floor: floor}
}

// Weight returns 1 at or below the soft threshold, the floor at or above the
// hard threshold, and interpolates linearly in between.
func (w *TurnWeighter) Weight(absGyroZ float64) float64 {
	if absGyroZ <= w.soft {
		return 1
	}
	if absGyroZ >= w.hard {
		return w.floor
	}
	frac := (absGyroZ - w.soft) / (w.hard - w.soft)
	return 1 - frac*(1-w.floor)
}
