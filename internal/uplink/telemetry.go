package uplink

import (
	"context"
	"fmt"
	"time"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"roadsense/internal/queue"
	"roadsense/internal/trip"
)

// TelemetryClient delivers finalized trip batches to the primary backend as
// chunked row inserts.
type TelemetryClient struct {
	client       greptime.Client
	db           string
	segmentTable string
	potholeTable string
	chunkSize    int
}

// NewTelemetryClient connects to the backend and auto-creates both tables.
func NewTelemetryClient(endpoint, database, segmentTable, potholeTable string, chunkSize int) (*TelemetryClient, error) {
	ctx := ingesterContext.NewContext(context.Background())
	client, err := greptime.NewClient(ctx, &greptime.Config{Endpoint: endpoint})
	if err != nil {
		return nil, err
	}

	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  city_id STRING TAG,
  cell_id STRING TAG,
  batch_id STRING,
  start_ms DOUBLE,
  end_ms DOUBLE,
  sample_count DOUBLE,
  avg_speed_mps DOUBLE,
  center_lat DOUBLE,
  center_lng DOUBLE,
  road_type STRING,
  energy_sum DOUBLE,
  roughness_percent DOUBLE,
  energy_class STRING,
  percent_class STRING,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='90d')
`, segmentTable)
	if _, err := client.SQL(ctx, ddl); err != nil {
		return nil, err
	}

	ddl = fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  city_id STRING TAG,
  cell_id STRING TAG,
  event_id STRING,
  batch_id STRING,
  lat DOUBLE,
  lng DOUBLE,
  severity STRING,
  peak_g DOUBLE,
  speed_mps DOUBLE,
  source STRING,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='90d')
`, potholeTable)
	if _, err := client.SQL(ctx, ddl); err != nil {
		return nil, err
	}

	if chunkSize <= 0 {
		chunkSize = 400
	}
	return &TelemetryClient{
		client:       client,
		db:           database,
		segmentTable: segmentTable,
		potholeTable: potholeTable,
		chunkSize:    chunkSize,
	}, nil
}

// Deliver implements Deliverer. The whole batch succeeds or fails; each
// insert call carries at most chunkSize records.
func (c *TelemetryClient) Deliver(ctx context.Context, e queue.Entry[trip.Batch]) error {
	batch := e.Payload
	for _, chunk := range chunkPasses(batch.SegmentPasses, c.chunkSize) {
		if err := c.writeSegments(ctx, batch, chunk); err != nil {
			return fmt.Errorf("write segments: %w", err)
		}
	}
	for _, chunk := range chunkPotholes(batch.Potholes, c.chunkSize) {
		if err := c.writePotholes(ctx, batch, chunk); err != nil {
			return fmt.Errorf("write potholes: %w", err)
		}
	}
	return nil
}

func (c *TelemetryClient) writeSegments(ctx context.Context, batch trip.Batch, passes []trip.SegmentPass) error {
	if len(passes) == 0 {
		return nil
	}
	ictx := ingesterContext.NewContext(ctx)

	tbl := table.New(c.segmentTable)
	tbl.AddTagColumn("city_id", types.StringType, 0)
	tbl.AddTagColumn("cell_id", types.StringType, 0)
	tbl.AddFieldColumn("batch_id", types.StringType)
	tbl.AddFieldColumn("start_ms", types.Float64Type)
	tbl.AddFieldColumn("end_ms", types.Float64Type)
	tbl.AddFieldColumn("sample_count", types.Float64Type)
	tbl.AddFieldColumn("avg_speed_mps", types.Float64Type)
	tbl.AddFieldColumn("center_lat", types.Float64Type)
	tbl.AddFieldColumn("center_lng", types.Float64Type)
	tbl.AddFieldColumn("road_type", types.StringType)
	tbl.AddFieldColumn("energy_sum", types.Float64Type)
	tbl.AddFieldColumn("roughness_percent", types.Float64Type)
	tbl.AddFieldColumn("energy_class", types.StringType)
	tbl.AddFieldColumn("percent_class", types.StringType)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, p := range passes {
		tbl.AppendTagValue("city_id", p.CityID)
		tbl.AppendTagValue("cell_id", p.CellID)
		tbl.AppendFieldValue("batch_id", batch.ID)
		tbl.AppendFieldValue("start_ms", float64(p.StartMs))
		tbl.AppendFieldValue("end_ms", float64(p.EndMs))
		tbl.AppendFieldValue("sample_count", float64(p.SampleCount))
		tbl.AppendFieldValue("avg_speed_mps", p.AvgSpeedMps)
		tbl.AppendFieldValue("center_lat", p.CenterLat)
		tbl.AppendFieldValue("center_lng", p.CenterLng)
		tbl.AppendFieldValue("road_type", string(p.RoadType))
		tbl.AppendFieldValue("energy_sum", p.EnergySum)
		tbl.AppendFieldValue("roughness_percent", p.RoughnessPercent)
		tbl.AppendFieldValue("energy_class", string(p.EnergyClass))
		tbl.AppendFieldValue("percent_class", string(p.PercentClass))
		tbl.AppendTimeIndex(timeFromMs(p.EndMs))
	}

	return c.client.Write(ictx, c.db, []*table.Table{tbl})
}

func (c *TelemetryClient) writePotholes(ctx context.Context, batch trip.Batch, events []trip.PotholeEvent) error {
	if len(events) == 0 {
		return nil
	}
	ictx := ingesterContext.NewContext(ctx)

	tbl := table.New(c.potholeTable)
	tbl.AddTagColumn("city_id", types.StringType, 0)
	tbl.AddTagColumn("cell_id", types.StringType, 0)
	tbl.AddFieldColumn("event_id", types.StringType)
	tbl.AddFieldColumn("batch_id", types.StringType)
	tbl.AddFieldColumn("lat", types.Float64Type)
	tbl.AddFieldColumn("lng", types.Float64Type)
	tbl.AddFieldColumn("severity", types.StringType)
	tbl.AddFieldColumn("peak_g", types.Float64Type)
	tbl.AddFieldColumn("speed_mps", types.Float64Type)
	tbl.AddFieldColumn("source", types.StringType)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, ev := range events {
		tbl.AppendTagValue("city_id", batch.CityID)
		tbl.AppendTagValue("cell_id", ev.CellID)
		tbl.AppendFieldValue("event_id", ev.ID)
		tbl.AppendFieldValue("batch_id", batch.ID)
		tbl.AppendFieldValue("lat", ev.Lat)
		tbl.AppendFieldValue("lng", ev.Lng)
		tbl.AppendFieldValue("severity", string(ev.Severity))
		tbl.AppendFieldValue("peak_g", ev.PeakG)
		tbl.AppendFieldValue("speed_mps", ev.SpeedMps)
		tbl.AppendFieldValue("source", ev.Source)
		tbl.AppendTimeIndex(timeFromMs(ev.TimestampMs))
	}

	return c.client.Write(ictx, c.db, []*table.Table{tbl})
}

func timeFromMs(ms int64) time.Time { return time.UnixMilli(ms) }

func chunkPasses(passes []trip.SegmentPass, size int) [][]trip.SegmentPass {
	var chunks [][]trip.SegmentPass
	for len(passes) > size {
		chunks = append(chunks, passes[:size])
		passes = passes[size:]
	}
	if len(passes) > 0 {
		chunks = append(chunks, passes)
	}
	return chunks
}

func chunkPotholes(events []trip.PotholeEvent, size int) [][]trip.PotholeEvent {
	var chunks [][]trip.PotholeEvent
	for len(events) > size {
		chunks = append(chunks, events[:size])
		events = events[size:]
	}
	if len(events) > 0 {
		chunks = append(chunks, events)
	}
	return chunks
}
