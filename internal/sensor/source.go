package sensor

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// ReplayLog decodes sensor samples from r and sends them to out. A speed >0
// sleeps between samples according to their timestamps; speed <= 0 replays as
// fast as possible. The channel is not closed.
func ReplayLog(r io.Reader, out chan<- Sample, speed float64) error {
	dec := json.NewDecoder(r)
	var prevMs int64
	for {
		var s Sample
		if err := dec.Decode(&s); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if prevMs != 0 && speed > 0 {
			diff := time.Duration(s.TimestampMs-prevMs) * time.Millisecond
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		out <- s
		prevMs = s.TimestampMs
	}
}

// ReplayLogFile opens a JSONL sensor log and replays its samples.
func ReplayLogFile(path string, out chan<- Sample, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(f, out, speed)
}
