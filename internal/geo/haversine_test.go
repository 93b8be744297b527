package geo

import (
	"math"
	"testing"
)

func TestDistanceMetersZero(t *testing.T) {
	if d := DistanceMeters(47.07, 15.44, 47.07, 15.44); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestDistanceMetersOneDegreeLat(t *testing.T) {
	d := DistanceMeters(0, 0, 1, 0)
	if math.Abs(d-111195) > 200 {
		t.Errorf("one degree of latitude should be ~111.2km, got %f", d)
	}
}

func TestDistanceMetersSymmetric(t *testing.T) {
	a := DistanceMeters(47.07, 15.44, 47.08, 15.45)
	b := DistanceMeters(47.08, 15.45, 47.07, 15.44)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", a, b)
	}
}
