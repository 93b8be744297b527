package sensor

import (
	"math"
	"testing"
)

func TestSpeedNormalize(t *testing.T) {
	n := NewSpeedNormalizer(13.9, 2, 33, 1)

	cases := []struct {
		speed float64
		want  float64
	}{
		{13.9, 1},        // reference speed is neutral
		{27.8, 0.5},      // twice the reference halves the energy
		{0.5, 13.9 / 2},  // clamped up to min
		{100, 13.9 / 33}, // clamped down to max
		{6.95, 2},        // half the reference doubles the energy
	}
	for _, c := range cases {
		if got := n.Normalize(1, c.speed); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Normalize(1, %f): expected %f, got %f", c.speed, c.want, got)
		}
	}
}

func TestSpeedNormalizeExponent(t *testing.T) {
	n := NewSpeedNormalizer(10, 2, 33, 2)
	if got, want := n.Normalize(1, 20), 0.25; math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, got)
	}
}
