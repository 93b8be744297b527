package sensor

import "testing"

func TestDriveDeterministic(t *testing.T) {
	a := NewDrive(DefaultDriveProfile(), 42)
	b := NewDrive(DefaultDriveProfile(), 42)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("same seed diverged at sample %d", i)
		}
	}
}

func TestDriveSampleShape(t *testing.T) {
	d := NewDrive(DefaultDriveProfile(), 1)
	prevMs := int64(0)
	for i := 0; i < 200; i++ {
		s := d.Next()
		if !s.HasFix() {
			t.Fatalf("sample %d has no fix: %+v", i, s)
		}
		if prevMs != 0 && s.TimestampMs-prevMs != 100 {
			t.Fatalf("expected 10 Hz spacing, got %dms", s.TimestampMs-prevMs)
		}
		if s.SpeedMps <= 0 {
			t.Fatalf("sample %d has non-positive speed %f", i, s.SpeedMps)
		}
		prevMs = s.TimestampMs
	}
}
