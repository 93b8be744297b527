package geo

import (
	"math"
	"testing"
)

func TestCellAtStable(t *testing.T) {
	a := CellAt(47.0707, 15.4395, 9)
	b := CellAt(47.0707, 15.4395, 9)
	if a != b {
		t.Errorf("same coordinate resolved to different cells")
	}
	if a.String() == "" {
		t.Errorf("cell id should not be empty")
	}
}

func TestCellAtSeparatesDistantPoints(t *testing.T) {
	a := CellAt(47.05, 15.40, 9)
	b := CellAt(47.06, 15.40, 9) // ~1.1km apart, far beyond a res-9 cell
	if a == b {
		t.Errorf("points 1km apart landed in the same res-9 cell")
	}
}

func TestCentroidNearInput(t *testing.T) {
	c := CellAt(47.0707, 15.4395, 9)
	lat, lng := Centroid(c)
	if d := DistanceMeters(47.0707, 15.4395, lat, lng); d > 400 {
		t.Errorf("centroid %f,%f is %fm from the input point", lat, lng, d)
	}
	if math.Abs(lat-47.0707) > 0.01 || math.Abs(lng-15.4395) > 0.01 {
		t.Errorf("centroid implausibly far: %f,%f", lat, lng)
	}
}
