package celestial

import (
	"fmt"
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// Reading is a snapshot of sun and moon positions for one instant.
// Produced fresh for every update cycle, never persisted.
type Reading struct {
	Timestamp         time.Time
	SunElevationDeg   float64 // [-90, 90]
	SunAzimuthDeg     float64 // compass bearing [0, 360)
	MoonAltitudeDeg   float64 // [-90, 90]
	MoonPhaseFraction float64 // 0 = new moon, 1 = full moon
}

// Provider produces celestial readings for a fixed observer location
type Provider interface {
	Reading(now time.Time) (Reading, error)
}

// provider computes positions with suncalc for a configured coordinate
type provider struct {
	latitude  float64
	longitude float64
}

// NewProvider creates a Provider for the given observer coordinate
func NewProvider(latitude, longitude float64) (Provider, error) {
	if latitude < -90 || latitude > 90 {
		return nil, fmt.Errorf("invalid latitude: %f", latitude)
	}
	if longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("invalid longitude: %f", longitude)
	}
	return &provider{latitude: latitude, longitude: longitude}, nil
}

// Reading computes the current sun and moon positions
func (p *provider) Reading(now time.Time) (Reading, error) {
	sun := suncalc.GetPosition(now, p.latitude, p.longitude)
	moon := suncalc.GetMoonPosition(now, p.latitude, p.longitude)
	illumination := suncalc.GetMoonIllumination(now)

	return Reading{
		Timestamp:         now,
		SunElevationDeg:   toDegrees(sun.Altitude),
		SunAzimuthDeg:     toCompassBearing(sun.Azimuth),
		MoonAltitudeDeg:   toDegrees(moon.Altitude),
		MoonPhaseFraction: illumination.Fraction,
	}, nil
}

func toDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// toCompassBearing converts a suncalc azimuth (radians, measured from south,
// positive westward) to a compass bearing in degrees [0, 360)
func toCompassBearing(rad float64) float64 {
	deg := toDegrees(rad) + 180.0
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}
