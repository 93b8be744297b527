package sensor

import (
	"math"
	"math/rand"
)

// DriveProfile tunes the synthetic drive generator.
type DriveProfile struct {
	StartLat   float64
	StartLng   float64
	HeadingRad float64
	SpeedMps   float64
	RateHz     int
	BumpEvery  int     // one bump roughly every N samples; 0 disables
	BumpG      float64 // peak bump amplitude in g
	TurnEvery  int     // one steering event roughly every N samples; 0 disables
	NoiseG     float64 // accelerometer noise floor in g
	AccuracyM  float64
}

// DefaultDriveProfile is a 10 Hz urban drive at ~30 km/h.
func DefaultDriveProfile() DriveProfile {
	return DriveProfile{
		StartLat:   47.0707,
		StartLng:   15.4395,
		HeadingRad: 0.6,
		SpeedMps:   8.3,
		RateHz:     10,
		BumpEvery:  120,
		BumpG:      0.7,
		TurnEvery:  200,
		NoiseG:     0.03,
		AccuracyM:  8,
	}
}

const gravityMps2 = 9.81

// Drive generates n synthetic samples along a straight-ish path. The stream
// carries gravity on the Z axis plus noise, sporadic pothole-like spikes, and
// sporadic steering events, so the whole pipeline can be exercised without a
// vehicle.
type Drive struct {
	profile DriveProfile
	rng     *rand.Rand
	lat     float64
	lng     float64
	tsMs    int64
	n       int
}

// NewDrive creates a deterministic generator for the given seed.
func NewDrive(profile DriveProfile, seed int64) *Drive {
	return &Drive{
		profile: profile,
		rng:     rand.New(rand.NewSource(seed)),
		lat:     profile.StartLat,
		lng:     profile.StartLng,
		tsMs:    1_700_000_000_000,
	}
}

// Next returns the next synthetic sample.
func (d *Drive) Next() Sample {
	p := d.profile
	stepMs := int64(1000 / p.RateHz)
	d.tsMs += stepMs
	d.n++

	// Advance position along the heading with slight wander.
	heading := p.HeadingRad + d.rng.NormFloat64()*0.02
	dist := p.SpeedMps * float64(stepMs) / 1000
	d.lat += (dist * math.Cos(heading)) / 111000
	d.lng += (dist * math.Sin(heading)) / (111000 * math.Cos(d.lat*math.Pi/180))

	accelZ := gravityMps2 + d.rng.NormFloat64()*p.NoiseG*gravityMps2
	gyroZ := d.rng.NormFloat64() * 0.05
	handling := false

	if p.BumpEvery > 0 && d.rng.Intn(p.BumpEvery) == 0 {
		sign := 1.0
		if d.rng.Intn(2) == 0 {
			sign = -1
		}
		accelZ += sign * p.BumpG * gravityMps2 * (0.8 + 0.4*d.rng.Float64())
	}
	if p.TurnEvery > 0 && d.rng.Intn(p.TurnEvery) == 0 {
		gyroZ = 1.5 + d.rng.Float64()
		handling = true
	}

	return Sample{
		TimestampMs:      d.tsMs,
		Lat:              d.lat,
		Lng:              d.lng,
		SpeedMps:         p.SpeedMps * (0.9 + 0.2*d.rng.Float64()),
		AccelZ:           accelZ,
		GyroZ:            gyroZ,
		GPSAccuracyM:     p.AccuracyM * (0.7 + 0.6*d.rng.Float64()),
		HandlingDetected: handling,
	}
}
