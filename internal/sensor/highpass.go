package sensor

// Highpass removes gravity and slow drift from a vertical-acceleration stream
// by subtracting an exponential moving-average baseline. Alpha is small so the
// baseline follows gravity but not bump-scale motion.
type Highpass struct {
	alpha    float64
	baseline float64
	primed   bool
}

// NewHighpass creates a filter with the given EMA coefficient.
func NewHighpass(alpha float64) *Highpass {
	return &Highpass{alpha: alpha}
}

// Step feeds one raw value and returns the high-passed result. The first call
// seeds the baseline and returns 0.
func (h *Highpass) Step(v float64) float64 {
	if !h.primed {
		h.baseline = v
		h.primed = true
		return 0
	}
	h.baseline = h.alpha*v + (1-h.alpha)*h.baseline
	return v - h.baseline
}

// Reset clears filter state for the next trip.
func (h *Highpass) Reset() {
	h.baseline = 0
	h.primed = false
}
