// Package trip accumulates filtered sensor samples into per-hex-cell road
// roughness summaries and discrete pothole events for one trip session.
package trip

// RoughnessClass labels accumulated cell energy for human consumption.
type RoughnessClass string

const (
	RoughnessSmooth RoughnessClass = "smooth"
	RoughnessNormal RoughnessClass = "normal"
	RoughnessRough  RoughnessClass = "rough"
)

// Severity buckets a pothole impact by peak filtered acceleration.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// RoadType is a coarse hint derived from average cell speed.
type RoadType string

const (
	RoadHighway RoadType = "highway"
	RoadCity    RoadType = "city"
)

// highwaySpeedCutoffMps separates highway from city driving (~70 km/h).
const highwaySpeedCutoffMps = 19.4

// SegmentPass is the finalized, immutable summary of one hex cell visited
// during a trip.
type SegmentPass struct {
	CellID           string         `json:"cellId"`
	CityID           string         `json:"cityId"`
	StartMs          int64          `json:"startMs"`
	EndMs            int64          `json:"endMs"`
	SampleCount      int            `json:"sampleCount"`
	AvgSpeedMps      float64        `json:"avgSpeedMps"`
	CenterLat        float64        `json:"centerLat"`
	CenterLng        float64        `json:"centerLng"`
	StartLat         float64        `json:"startLat"`
	StartLng         float64        `json:"startLng"`
	EndLat           float64        `json:"endLat"`
	EndLng           float64        `json:"endLng"`
	RoadType         RoadType       `json:"roadType"`
	EnergySum        float64        `json:"energySum"`
	RawEnergySum     float64        `json:"rawEnergySum"`
	EnergyPerSample  float64        `json:"energyPerSample"`
	MaxAbsHpG        float64        `json:"maxAbsHpG"`
	RoughnessPercent float64        `json:"roughnessPercent"`
	EnergyClass      RoughnessClass `json:"energyClass"`
	PercentClass     RoughnessClass `json:"percentClass"`
}

// PotholeEvent is a discrete impact, immutable once created.
type PotholeEvent struct {
	ID          string   `json:"id"`
	TimestampMs int64    `json:"timestampMs"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	CellID      string   `json:"cellId"`
	Severity    Severity `json:"severity"`
	PeakG       float64  `json:"peakG"`
	SpeedMps    float64  `json:"speedMps"`
	Source      string   `json:"source"`
}

// Batch is the unit of durable-queue storage and of upload.
type Batch struct {
	ID            string         `json:"id"`
	CreatedAtMs   int64          `json:"createdAtMs"`
	CityID        string         `json:"cityId"`
	SegmentPasses []SegmentPass  `json:"segmentPasses"`
	Potholes      []PotholeEvent `json:"potholes"`
}

// Stats counts what happened to ingested samples. Drops are never errors.
type Stats struct {
	Ingested          int `json:"ingested"`
	DroppedAccuracy   int `json:"droppedAccuracy"`
	DroppedMissingFix int `json:"droppedMissingFix"`
	DroppedHandling   int `json:"droppedHandling"`
	TrimmedSegments   int `json:"trimmedSegments"`
	TrimmedPotholes   int `json:"trimmedPotholes"`
	Cells             int `json:"cells"`
}
