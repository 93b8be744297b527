package agent

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"roadsense/internal/trip"
)

func TestFileSinkArchivesBatches(t *testing.T) {
	dir := t.TempDir()
	batchPath := filepath.Join(dir, "batches.jsonl")
	reportPath := filepath.Join(dir, "reports.jsonl")

	fs, err := NewFileSink(batchPath, reportPath)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	b := trip.Batch{ID: "batch-1", CityID: "testville"}
	if err := fs.EnqueueBatch(b); err != nil {
		t.Fatalf("EnqueueBatch: %v", err)
	}
	ev := trip.PotholeEvent{ID: "event-1", Severity: trip.SeverityMinor}
	if err := fs.EnqueueReport(ev); err != nil {
		t.Fatalf("EnqueueReport: %v", err)
	}
	if err := fs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var gotBatch trip.Batch
	decodeFirstLine(t, batchPath, &gotBatch)
	if gotBatch.ID != "batch-1" || gotBatch.CityID != "testville" {
		t.Errorf("unexpected archived batch: %+v", gotBatch)
	}
	var gotEvent trip.PotholeEvent
	decodeFirstLine(t, reportPath, &gotEvent)
	if gotEvent.ID != "event-1" {
		t.Errorf("unexpected archived event: %+v", gotEvent)
	}
}

func TestFileSinkReportsOptional(t *testing.T) {
	fs, err := NewFileSink(filepath.Join(t.TempDir(), "batches.jsonl"), "")
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	defer fs.Close()
	if err := fs.EnqueueReport(trip.PotholeEvent{ID: "event-1"}); err != nil {
		t.Errorf("report without a report log should be a no-op, got %v", err)
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	a := &captureSink{}
	b := &captureSink{}
	m := MultiSink{a, b}

	if err := m.EnqueueBatch(trip.Batch{ID: "batch-1"}); err != nil {
		t.Fatalf("EnqueueBatch: %v", err)
	}
	if err := m.EnqueueReport(trip.PotholeEvent{ID: "event-1"}); err != nil {
		t.Fatalf("EnqueueReport: %v", err)
	}

	for i, s := range []*captureSink{a, b} {
		batches, reports := s.counts()
		if batches != 1 || reports != 1 {
			t.Errorf("sink %d: expected 1/1, got %d/%d", i, batches, reports)
		}
	}
}

func decodeFirstLine(t *testing.T, path string, v any) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		t.Fatalf("%s is empty", path)
	}
	if err := json.Unmarshal(sc.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
}
