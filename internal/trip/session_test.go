package trip

import (
	"testing"

	"roadsense/internal/config"
	"roadsense/internal/sensor"
)

// keepAllConfig disables privacy trimming so accumulation tests can reason
// about exact counts.
func keepAllConfig() *config.Config {
	cfg := config.Default()
	cfg.CityID = "testville"
	cfg.Privacy.TargetDistanceM = 1e9
	cfg.Privacy.FallbackWindowS = 0
	return &cfg
}

func quietSample(tsMs int64, lat, lng float64) sensor.Sample {
	return sensor.Sample{
		TimestampMs:  tsMs,
		Lat:          lat,
		Lng:          lng,
		SpeedMps:     8,
		AccelZ:       9.81,
		GPSAccuracyM: 5,
	}
}

func TestSessionTwoCellRoundTrip(t *testing.T) {
	s := NewSession(keepAllConfig())

	ts := int64(1000)
	for i := 0; i < 20; i++ {
		if err := s.Push(quietSample(ts, 47.05, 15.40)); err != nil {
			t.Fatalf("push: %v", err)
		}
		ts += 100
	}
	for i := 0; i < 20; i++ {
		if err := s.Push(quietSample(ts, 47.06, 15.40)); err != nil {
			t.Fatalf("push: %v", err)
		}
		ts += 100
	}

	res, err := s.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if len(res.Passes) != 2 {
		t.Fatalf("expected 2 segment passes, got %d", len(res.Passes))
	}
	total := 0
	for _, p := range res.Passes {
		total += p.SampleCount
		if p.CityID != "testville" {
			t.Errorf("pass carries city %q", p.CityID)
		}
		if p.EnergyClass != RoughnessSmooth {
			t.Errorf("quiet drive classified %s (energy %f)", p.EnergyClass, p.EnergySum)
		}
		if p.StartMs == 0 || p.EndMs < p.StartMs {
			t.Errorf("bad pass time range: %d..%d", p.StartMs, p.EndMs)
		}
	}
	if total != 40 {
		t.Errorf("expected 40 samples across passes, got %d", total)
	}
	if res.Stats.Ingested != 40 || res.Stats.Cells != 2 {
		t.Errorf("unexpected stats: %+v", res.Stats)
	}
}

func TestSessionDropsInvalidSamples(t *testing.T) {
	s := NewSession(keepAllConfig())

	noFix := quietSample(1000, 0, 0)
	if err := s.Push(noFix); err != nil {
		t.Fatalf("push: %v", err)
	}
	negSpeed := quietSample(1100, 47.05, 15.40)
	negSpeed.SpeedMps = -1
	if err := s.Push(negSpeed); err != nil {
		t.Fatalf("push: %v", err)
	}
	inaccurate := quietSample(1200, 47.05, 15.40)
	inaccurate.GPSAccuracyM = 60
	if err := s.Push(inaccurate); err != nil {
		t.Fatalf("push: %v", err)
	}

	stats, _ := s.Peek()
	if stats.Ingested != 3 {
		t.Errorf("expected 3 ingested, got %d", stats.Ingested)
	}
	if stats.DroppedMissingFix != 2 {
		t.Errorf("expected 2 missing-fix drops, got %d", stats.DroppedMissingFix)
	}
	if stats.DroppedAccuracy != 1 {
		t.Errorf("expected 1 accuracy drop, got %d", stats.DroppedAccuracy)
	}
	if stats.Cells != 0 {
		t.Errorf("dropped samples must not open cells, got %d", stats.Cells)
	}
}

func TestSessionPotholeDebounce(t *testing.T) {
	s := NewSession(keepAllConfig())

	ts := int64(1000)
	for i := 0; i < 20; i++ {
		s.Push(quietSample(ts, 47.05, 15.40))
		ts += 100
	}

	spike := func(tsMs int64) sensor.Sample {
		sm := quietSample(tsMs, 47.05, 15.40)
		sm.AccelZ = 9.81 * 1.6 // ~0.6g impact after the high-pass
		return sm
	}
	s.Push(spike(ts))       // accepted
	s.Push(spike(ts + 200)) // inside 450ms separation, suppressed
	for off := int64(300); off < 2000; off += 100 {
		s.Push(quietSample(ts+off, 47.05, 15.40))
	}
	s.Push(spike(ts + 2000)) // accepted
	for off := int64(2100); off < 2500; off += 100 {
		s.Push(quietSample(ts+off, 47.05, 15.40))
	}
	s.Push(spike(ts + 2500)) // 500ms after the previous hit, accepted

	res, err := s.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if len(res.Potholes) != 3 {
		t.Fatalf("expected 3 pothole events, got %d", len(res.Potholes))
	}
	for _, ev := range res.Potholes {
		if ev.Severity != SeverityMinor {
			t.Errorf("~0.6g impact should be minor, got %s (%.2fg)", ev.Severity, ev.PeakG)
		}
		if ev.ID == "" || ev.CellID == "" || ev.Source != "accelerometer" {
			t.Errorf("incomplete event: %+v", ev)
		}
	}
}

func TestSessionNoPotholeDuringHandling(t *testing.T) {
	s := NewSession(keepAllConfig())

	ts := int64(1000)
	for i := 0; i < 10; i++ {
		s.Push(quietSample(ts, 47.05, 15.40))
		ts += 100
	}
	turn := quietSample(ts, 47.05, 15.40)
	turn.HandlingDetected = true
	turn.AccelZ = 9.81 * 1.8
	s.Push(turn)

	inWindow := quietSample(ts+300, 47.05, 15.40)
	inWindow.AccelZ = 9.81 * 1.8
	s.Push(inWindow)

	res, err := s.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if len(res.Potholes) != 0 {
		t.Errorf("handling-window impacts must not report, got %d", len(res.Potholes))
	}
	if res.Stats.DroppedHandling != 2 {
		t.Errorf("expected 2 handling drops, got %d", res.Stats.DroppedHandling)
	}
}

func TestSessionDistanceTrimDropsEndpointPotholes(t *testing.T) {
	cfg := config.Default()
	cfg.Privacy.TargetDistanceM = 100
	s := NewSession(&cfg)

	// ~1km due north at 10 m/s, one sample per second.
	const latPerMeter = 1.0 / 111194.9
	push := func(sec int64, spike bool) {
		sm := quietSample(sec*1000+1, 47+float64(sec)*10*latPerMeter, 15.40)
		sm.SpeedMps = 10
		if spike {
			sm.AccelZ = 9.81 * 1.6
		}
		s.Push(sm)
	}
	for sec := int64(0); sec <= 100; sec++ {
		switch sec {
		case 2, 50, 99:
			push(sec, true) // ~20m, ~500m, ~990m into the trip
		default:
			push(sec, false)
		}
	}

	res, err := s.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if res.TrimStrategy != "distance" {
		t.Fatalf("expected distance trim, got %s", res.TrimStrategy)
	}
	if len(res.Potholes) != 1 {
		t.Fatalf("expected only the mid-trip pothole to survive, got %d", len(res.Potholes))
	}
	if res.Stats.TrimmedPotholes != 2 {
		t.Errorf("expected 2 trimmed potholes, got %d", res.Stats.TrimmedPotholes)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession(keepAllConfig())
	if s.State() != StateIdle {
		t.Fatalf("fresh session should be idle")
	}
	s.Push(quietSample(1000, 47.05, 15.40))
	if s.State() != StateAccumulating {
		t.Fatalf("session should accumulate after the first push")
	}
	if _, err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if err := s.Push(quietSample(2000, 47.05, 15.40)); err == nil {
		t.Errorf("push after finalize should fail")
	}
	if _, err := s.Finalize(); err == nil {
		t.Errorf("double finalize should fail")
	}
	s.Reset()
	if s.State() != StateIdle {
		t.Errorf("reset should return the session to idle")
	}
	if err := s.Push(quietSample(3000, 47.05, 15.40)); err != nil {
		t.Errorf("push after reset: %v", err)
	}
}

func TestSessionRoadType(t *testing.T) {
	s := NewSession(keepAllConfig())
	ts := int64(1000)
	for i := 0; i < 10; i++ {
		sm := quietSample(ts, 47.05, 15.40)
		sm.SpeedMps = 27 // ~97 km/h
		s.Push(sm)
		ts += 100
	}
	res, err := s.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if len(res.Passes) != 1 {
		t.Fatalf("expected 1 pass, got %d", len(res.Passes))
	}
	if res.Passes[0].RoadType != RoadHighway {
		t.Errorf("expected highway at 27 m/s, got %s", res.Passes[0].RoadType)
	}
}
