package light

// Mode identifies how a LightState expresses color
type Mode string

const (
	// ModeColorTemp drives the fixture by color temperature (sun lighting)
	ModeColorTemp Mode = "color_temp"
	// ModeRGB drives the fixture by an RGB color (moon lighting)
	ModeRGB Mode = "rgb"
	// ModeOff turns the fixture off
	ModeOff Mode = "off"
)

// RGB is an 8-bit color triple
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// LightState is the target state for a light fixture. It is a value type:
// two states are the same command iff they are structurally equal, which is
// what the update cycle uses to suppress redundant sends.
type LightState struct {
	Mode       Mode `json:"mode"`
	ColorTemp  int  `json:"color_temp,omitempty"` // Kelvin [2000, 6500], color_temp mode only
	Color      RGB  `json:"color,omitempty"`      // rgb mode only
	Brightness int  `json:"brightness"`           // percent [0, 100]
}

// Equal reports structural equality between two light states
func (s LightState) Equal(o LightState) bool {
	return s == o
}

// Off returns the forced-off light state
func Off() LightState {
	return LightState{Mode: ModeOff}
}

// WithBrightness returns a copy of the state with brightness replaced,
// preserving the color family. Used by manual override.
func (s LightState) WithBrightness(pct int) LightState {
	s.Brightness = clampInt(pct, 0, 100)
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
