package agent

import (
	"encoding/json"
	"os"
	"sync"

	"roadsense/internal/trip"
)

// FileSink archives finalized artifacts as JSONL files alongside the durable
// queues, one batch or report per line. reportPath may be empty to skip the
// separate report log.
type FileSink struct {
	mu         sync.Mutex
	batchFile  *os.File
	reportFile *os.File
	batchEnc   *json.Encoder
	reportEnc  *json.Encoder
}

// NewFileSink creates a FileSink writing to the given paths.
func NewFileSink(batchPath, reportPath string) (*FileSink, error) {
	bf, err := os.Create(batchPath)
	if err != nil {
		return nil, err
	}
	fs := &FileSink{batchFile: bf, batchEnc: json.NewEncoder(bf)}
	if reportPath != "" {
		rf, err := os.Create(reportPath)
		if err != nil {
			bf.Close()
			return nil, err
		}
		fs.reportFile = rf
		fs.reportEnc = json.NewEncoder(rf)
	}
	return fs, nil
}

// EnqueueBatch implements Sink.
func (f *FileSink) EnqueueBatch(b trip.Batch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.batchEnc.Encode(b)
}

// EnqueueReport implements Sink. Reports are skipped when no report log is
// configured; the batch archive already carries the events.
func (f *FileSink) EnqueueReport(ev trip.PotholeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reportEnc == nil {
		return nil
	}
	return f.reportEnc.Encode(ev)
}

// Close closes the underlying files.
func (f *FileSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.batchFile.Close()
	if f.reportFile != nil {
		if e := f.reportFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// MultiSink fans finalized artifacts out to multiple sinks.
type MultiSink []Sink

// EnqueueBatch implements Sink.
func (m MultiSink) EnqueueBatch(b trip.Batch) error {
	for _, s := range m {
		if err := s.EnqueueBatch(b); err != nil {
			return err
		}
	}
	return nil
}

// EnqueueReport implements Sink.
func (m MultiSink) EnqueueReport(ev trip.PotholeEvent) error {
	for _, s := range m {
		if err := s.EnqueueReport(ev); err != nil {
			return err
		}
	}
	return nil
}
