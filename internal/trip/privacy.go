package trip

import (
	"time"

	"roadsense/internal/geo"
)

// TrimStrategy decides whether a timestamp survives privacy trimming. The
// strategy is chosen once per trip at finalize time; trimming only ever
// removes a contiguous head and tail window, never interior data.
type TrimStrategy interface {
	Keep(tsMs int64) bool
	Name() string
}

// distanceTrim drops anything mapping to within target meters of either trip
// end, interpolating over the recorded distance-vs-time track.
type distanceTrim struct {
	track  *geo.DistanceTrack
	target float64
}

func (d distanceTrim) Keep(tsMs int64) bool {
	at := d.track.DistanceAt(tsMs)
	return at > d.target && d.track.Total()-at > d.target
}

func (d distanceTrim) Name() string { return "distance" }

// timeTrim drops anything within a fixed window of the first or last
// observed timestamp. Used when too little accurate distance was recorded.
type timeTrim struct {
	firstMs  int64
	lastMs   int64
	windowMs int64
}

func (t timeTrim) Keep(tsMs int64) bool {
	return tsMs >= t.firstMs+t.windowMs && tsMs <= t.lastMs-t.windowMs
}

func (t timeTrim) Name() string { return "time" }

// ChooseTrim picks the distance strategy when the trip covered at least twice
// the target distance over two or more accurate fixes, else falls back to the
// time window.
func ChooseTrim(track *geo.DistanceTrack, targetM float64, fallback time.Duration, firstMs, lastMs int64) TrimStrategy {
	if track.Total() >= 2*targetM && track.Fixes() >= 2 {
		return distanceTrim{track: track, target: targetM}
	}
	return timeTrim{firstMs: firstMs, lastMs: lastMs, windowMs: fallback.Milliseconds()}
}
