package light

import "math"

// Color mapping constants. Kelvin follows the supported fixture range;
// the sun curve is anchored so that -10° (twilight) is the warm floor and
// the zenith reaches the daylight ceiling.
const (
	minKelvin = 2000
	maxKelvin = 6500

	kelvinPerDegree  = 45
	kelvinAnchorDeg  = -10.0
	minSunBrightness = 20
	maxSunBrightness = 100
)

// Moon color anchors: warm amber on the horizon, cool blue-white overhead
var (
	moonWarm = RGB{R: 255, G: 180, B: 120}
	moonCool = RGB{R: 226, G: 231, B: 244}
)

// SunTarget maps a sun elevation to a color-temperature light state.
// Pure and deterministic; all outputs rounded to integers.
func SunTarget(elevationDeg float64) LightState {
	kelvin := minKelvin + (elevationDeg-kelvinAnchorDeg)*kelvinPerDegree
	kelvin = clampFloat(kelvin, minKelvin, maxKelvin)

	return LightState{
		Mode:       ModeColorTemp,
		ColorTemp:  int(math.Round(kelvin)),
		Brightness: int(math.Round(sunBrightness(elevationDeg))),
	}
}

// sunBrightness rises linearly from 20% at the horizon to 100% at the
// zenith, flat below the horizon so the curve stays continuous at 0°
func sunBrightness(elevationDeg float64) float64 {
	if elevationDeg <= 0 {
		return minSunBrightness
	}
	pct := minSunBrightness + (maxSunBrightness-minSunBrightness)*(elevationDeg/90.0)
	return clampFloat(pct, minSunBrightness, maxSunBrightness)
}

// MoonTarget maps a moon altitude and illuminated phase fraction to an RGB
// light state. Brightness is proportional to the phase fraction capped at
// maxMoonBrightness; a dark moon turns the fixture off entirely so no color
// command is sent to an unlit fixture.
func MoonTarget(altitudeDeg, phaseFraction float64, maxMoonBrightness int) LightState {
	brightness := int(math.Round(clampFloat(phaseFraction, 0, 1) * float64(maxMoonBrightness)))
	if brightness <= 0 {
		return Off()
	}

	t := clampFloat(altitudeDeg/90.0, 0, 1)

	return LightState{
		Mode: ModeRGB,
		Color: RGB{
			R: lerp(moonWarm.R, moonCool.R, t),
			G: lerp(moonWarm.G, moonCool.G, t),
			B: lerp(moonWarm.B, moonCool.B, t),
		},
		Brightness: brightness,
	}
}

func lerp(a, b int, t float64) int {
	return int(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
