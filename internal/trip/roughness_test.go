package trip

import (
	"math"
	"testing"
)

func TestClassifyEnergy(t *testing.T) {
	cases := []struct {
		energy float64
		want   RoughnessClass
	}{
		{0, RoughnessSmooth},
		{0.4, RoughnessSmooth},
		{0.5, RoughnessNormal},
		{1.0, RoughnessNormal},
		{1.5, RoughnessRough},
	}
	for _, c := range cases {
		if got := ClassifyEnergy(c.energy); got != c.want {
			t.Errorf("ClassifyEnergy(%f): expected %s, got %s", c.energy, c.want, got)
		}
	}
}

func TestRoughnessPercent(t *testing.T) {
	cases := []struct {
		energy float64
		want   float64
	}{
		{0, 100},
		{3.5, 50},
		{7, 0},
		{10, 0},
		{-1, 100},
	}
	for _, c := range cases {
		if got := RoughnessPercent(c.energy); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("RoughnessPercent(%f): expected %f, got %f", c.energy, c.want, got)
		}
	}
}

func TestClassifyPercent(t *testing.T) {
	cases := []struct {
		percent float64
		want    RoughnessClass
	}{
		{100, RoughnessSmooth},
		{80, RoughnessSmooth},
		{79.99, RoughnessNormal},
		{40, RoughnessNormal},
		{39.99, RoughnessRough},
		{0, RoughnessRough},
	}
	for _, c := range cases {
		if got := ClassifyPercent(c.percent); got != c.want {
			t.Errorf("ClassifyPercent(%f): expected %s, got %s", c.percent, c.want, got)
		}
	}
}

func TestPercentClassFromEnergy(t *testing.T) {
	cases := []struct {
		energy float64
		want   RoughnessClass
	}{
		{0.2, RoughnessSmooth}, // ~97.1%
		{4, RoughnessNormal},   // ~42.9%
		{6, RoughnessRough},    // ~14.3%
	}
	for _, c := range cases {
		if got := ClassifyPercent(RoughnessPercent(c.energy)); got != c.want {
			t.Errorf("energy %f: expected %s, got %s", c.energy, c.want, got)
		}
	}
}

// The two classifiers deliberately disagree in places. Pin one such point so
// an accidental "fix" of either threshold set shows up.
func TestClassifiersDisagree(t *testing.T) {
	energy := 1.2
	if got := ClassifyEnergy(energy); got != RoughnessRough {
		t.Errorf("energy classifier: expected rough, got %s", got)
	}
	percent := RoughnessPercent(energy) // ~82.9
	if got := ClassifyPercent(percent); got != RoughnessSmooth {
		t.Errorf("percent classifier: expected smooth at %f%%, got %s", percent, got)
	}
}
