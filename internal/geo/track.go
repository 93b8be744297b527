package geo

// DistanceTrack accumulates cumulative trip distance from accurate GPS fixes
// and supports mapping a timestamp back to a distance along the trip by
// linear interpolation. The accumulator feeds it only fixes that passed the
// accuracy gate.
type DistanceTrack struct {
	lastLat float64
	lastLng float64
	total   float64
	fixes   int
	samples []trackSample
}

type trackSample struct {
	tsMs int64
	dist float64
}

// Add records an accurate fix and returns the distance added since the
// previous one. The first fix adds zero.
func (t *DistanceTrack) Add(tsMs int64, lat, lng float64) float64 {
	var added float64
	if t.fixes > 0 {
		added = DistanceMeters(t.lastLat, t.lastLng, lat, lng)
		t.total += added
	}
	t.lastLat, t.lastLng = lat, lng
	t.fixes++
	t.samples = append(t.samples, trackSample{tsMs: tsMs, dist: t.total})
	return added
}

// Total returns the cumulative distance over all accurate fixes.
func (t *DistanceTrack) Total() float64 { return t.total }

// Fixes returns how many accurate fixes were recorded.
func (t *DistanceTrack) Fixes() int { return t.fixes }

// DistanceAt maps a timestamp to a distance along the trip. Timestamps before
// the first fix map to 0, after the last fix to Total. Between recorded fixes
// the distance is linearly interpolated.
func (t *DistanceTrack) DistanceAt(tsMs int64) float64 {
	if len(t.samples) == 0 {
		return 0
	}
	if tsMs <= t.samples[0].tsMs {
		return 0
	}
	last := t.samples[len(t.samples)-1]
	if tsMs >= last.tsMs {
		return last.dist
	}
	for i := 1; i < len(t.samples); i++ {
		a, b := t.samples[i-1], t.samples[i]
		if tsMs > b.tsMs {
			continue
		}
		if b.tsMs == a.tsMs {
			return b.dist
		}
		frac := float64(tsMs-a.tsMs) / float64(b.tsMs-a.tsMs)
		return a.dist + frac*(b.dist-a.dist)
	}
	return last.dist
}

// Reset clears all recorded fixes.
func (t *DistanceTrack) Reset() {
	*t = DistanceTrack{}
}
