package light

import "testing"

func TestSunTarget_KelvinAnchors(t *testing.T) {
	if got := SunTarget(-10).ColorTemp; got != 2000 {
		t.Errorf("Expected 2000K at -10 degrees, got %d", got)
	}

	// 2000 + (40+10)*45 = 4250
	if got := SunTarget(40).ColorTemp; got != 4250 {
		t.Errorf("Expected 4250K at 40 degrees, got %d", got)
	}

	if got := SunTarget(90).ColorTemp; got != 6500 {
		t.Errorf("Expected 6500K ceiling at 90 degrees, got %d", got)
	}

	// Clamped below the anchor
	if got := SunTarget(-30).ColorTemp; got != 2000 {
		t.Errorf("Expected 2000K floor below the anchor, got %d", got)
	}
}

func TestSunTarget_KelvinMonotonicAndBounded(t *testing.T) {
	prev := 0
	for elevation := -10.0; elevation <= 90.0; elevation += 0.5 {
		state := SunTarget(elevation)

		if state.Mode != ModeColorTemp {
			t.Fatalf("Expected color_temp mode at %v degrees, got %s", elevation, state.Mode)
		}
		if state.ColorTemp < 2000 || state.ColorTemp > 6500 {
			t.Fatalf("Kelvin out of bounds at %v degrees: %d", elevation, state.ColorTemp)
		}
		if state.ColorTemp < prev {
			t.Fatalf("Kelvin decreased at %v degrees: %d < %d", elevation, state.ColorTemp, prev)
		}
		prev = state.ColorTemp
	}
}

func TestSunTarget_BrightnessCurve(t *testing.T) {
	if got := SunTarget(-5).Brightness; got != 20 {
		t.Errorf("Expected 20%% below the horizon, got %d", got)
	}
	if got := SunTarget(0).Brightness; got != 20 {
		t.Errorf("Expected 20%% at the horizon, got %d", got)
	}
	if got := SunTarget(90).Brightness; got != 100 {
		t.Errorf("Expected 100%% at the zenith, got %d", got)
	}

	// Continuous at the horizon: a sliver above 0 stays at the floor
	if got := SunTarget(0.1).Brightness; got != 20 {
		t.Errorf("Expected no discontinuity at the horizon, got %d", got)
	}

	// Monotonic over the full range
	prev := 0
	for elevation := -10.0; elevation <= 90.0; elevation += 1.0 {
		b := SunTarget(elevation).Brightness
		if b < 20 || b > 100 {
			t.Fatalf("Brightness out of bounds at %v degrees: %d", elevation, b)
		}
		if b < prev {
			t.Fatalf("Brightness decreased at %v degrees: %d < %d", elevation, b, prev)
		}
		prev = b
	}
}

func TestMoonTarget_NewMoonIsOff(t *testing.T) {
	state := MoonTarget(45, 0, 40)

	if state.Mode != ModeOff {
		t.Errorf("Expected off mode at new moon, got %s", state.Mode)
	}
	if state.Brightness != 0 {
		t.Errorf("Expected brightness 0 at new moon, got %d", state.Brightness)
	}
}

func TestMoonTarget_BrightnessProportionalToPhase(t *testing.T) {
	// Half moon at the configured ceiling of 40: round(0.5 * 40) = 20
	if got := MoonTarget(30, 0.5, 40).Brightness; got != 20 {
		t.Errorf("Expected brightness 20 at half moon, got %d", got)
	}
	if got := MoonTarget(30, 1.0, 40).Brightness; got != 40 {
		t.Errorf("Expected brightness 40 at full moon, got %d", got)
	}

	// Monotonic non-decreasing in phase fraction
	prev := 0
	for fraction := 0.0; fraction <= 1.0; fraction += 0.05 {
		b := MoonTarget(30, fraction, 40).Brightness
		if b < prev {
			t.Fatalf("Brightness decreased at fraction %v: %d < %d", fraction, b, prev)
		}
		prev = b
	}
}

func TestMoonTarget_ColorShiftsWithAltitude(t *testing.T) {
	low := MoonTarget(-10, 1.0, 40)
	high := MoonTarget(90, 1.0, 40)

	if low.Mode != ModeRGB || high.Mode != ModeRGB {
		t.Fatalf("Expected rgb mode, got %s and %s", low.Mode, high.Mode)
	}

	// Below the horizon clamps to the warm anchor
	if low.Color != moonWarm {
		t.Errorf("Expected warm anchor below the horizon, got %+v", low.Color)
	}
	if high.Color != moonCool {
		t.Errorf("Expected cool anchor at the zenith, got %+v", high.Color)
	}

	// In between the blue channel rises with altitude
	mid := MoonTarget(45, 1.0, 40)
	if mid.Color.B <= low.Color.B || mid.Color.B >= high.Color.B {
		t.Errorf("Expected mid-altitude blue between anchors, got %+v", mid.Color)
	}
}
