package celestial

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_RejectsBadCoordinates(t *testing.T) {
	_, err := NewProvider(95, 0)
	assert.Error(t, err)

	_, err = NewProvider(0, 200)
	assert.Error(t, err)

	_, err = NewProvider(60.1695, 24.9354)
	assert.NoError(t, err)
}

func TestReading_RangesAreSane(t *testing.T) {
	p, err := NewProvider(60.1695, 24.9354)
	require.NoError(t, err)

	// Sample across a full day so both day and night are covered
	base := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	for hour := 0; hour < 24; hour++ {
		now := base.Add(time.Duration(hour) * time.Hour)

		r, err := p.Reading(now)
		require.NoError(t, err)

		assert.Equal(t, now, r.Timestamp)
		assert.GreaterOrEqual(t, r.SunElevationDeg, -90.0)
		assert.LessOrEqual(t, r.SunElevationDeg, 90.0)
		assert.GreaterOrEqual(t, r.SunAzimuthDeg, 0.0)
		assert.Less(t, r.SunAzimuthDeg, 360.0)
		assert.GreaterOrEqual(t, r.MoonAltitudeDeg, -90.0)
		assert.LessOrEqual(t, r.MoonAltitudeDeg, 90.0)
		assert.GreaterOrEqual(t, r.MoonPhaseFraction, 0.0)
		assert.LessOrEqual(t, r.MoonPhaseFraction, 1.0)
	}
}

func TestReading_MidsummerNoonIsDaytime(t *testing.T) {
	p, err := NewProvider(60.1695, 24.9354)
	require.NoError(t, err)

	// Solar noon in Helsinki on the summer solstice: sun well above the horizon
	noon := time.Date(2024, 6, 21, 10, 0, 0, 0, time.UTC)
	r, err := p.Reading(noon)
	require.NoError(t, err)

	assert.Greater(t, r.SunElevationDeg, 30.0)
}

func TestReading_MidwinterMidnightIsNight(t *testing.T) {
	p, err := NewProvider(60.1695, 24.9354)
	require.NoError(t, err)

	midnight := time.Date(2024, 12, 21, 22, 0, 0, 0, time.UTC)
	r, err := p.Reading(midnight)
	require.NoError(t, err)

	assert.Less(t, r.SunElevationDeg, 0.0)
}
