package uplink

import (
	"testing"
	"time"
)

func TestBackoffDelaySequence(t *testing.T) {
	b := Backoff{Base: 30 * time.Second, Cap: 5 * time.Minute}
	want := []time.Duration{
		30 * time.Second,
		60 * time.Second,
		120 * time.Second,
		240 * time.Second,
		300 * time.Second,
		300 * time.Second,
	}
	for i, w := range want {
		if got := b.Delay(i + 1); got != w {
			t.Errorf("Delay(%d): expected %v, got %v", i+1, w, got)
		}
	}
}

func TestBackoffDelayZero(t *testing.T) {
	b := Backoff{Base: 30 * time.Second, Cap: 5 * time.Minute}
	if got := b.Delay(0); got != 0 {
		t.Errorf("Delay(0): expected 0, got %v", got)
	}
	if got := b.Delay(-3); got != 0 {
		t.Errorf("Delay(-3): expected 0, got %v", got)
	}
}

func TestBackoffBaseAboveCap(t *testing.T) {
	b := Backoff{Base: 10 * time.Minute, Cap: 5 * time.Minute}
	if got := b.Delay(1); got != 5*time.Minute {
		t.Errorf("expected cap, got %v", got)
	}
}
