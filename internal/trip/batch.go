package trip

import (
	"time"

	"github.com/google/uuid"
)

// NewBatch wraps a finalized trip result into the upload unit.
func NewBatch(cityID string, res Result) Batch {
	return Batch{
		ID:            uuid.NewString(),
		CreatedAtMs:   time.Now().UnixMilli(),
		CityID:        cityID,
		SegmentPasses: res.Passes,
		Potholes:      res.Potholes,
	}
}
