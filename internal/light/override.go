package light

import (
	"sync"
	"time"
)

// OverrideMode is the control mode of the light group
type OverrideMode string

const (
	// ModeAuto means celestial control: sun or moon mapping per the cycle
	ModeAuto OverrideMode = "auto"
	// ModeManual means dimmer-driven brightness with the celestial color frozen
	ModeManual OverrideMode = "manual"
	// ModeForcedOff means the user toggled the group off
	ModeForcedOff OverrideMode = "off"
)

// OverrideState is a consistent snapshot of the override machine.
// Active is true whenever the user has suspended celestial control
// (manual or forced off).
type OverrideState struct {
	Active           bool
	Mode             OverrideMode
	ManualBrightness int // percent [0, 100], meaningful in manual mode
	LastTransition   time.Time
}

// OverrideMachine tracks whether automatic (celestial) or manual
// (dimmer-driven) control is active. There is exactly one instance per
// managed light group; all mutation goes through its methods and every
// reader gets a non-torn snapshot. The machine has no terminal state and
// lives for the duration of the process; a restart resets it to auto.
type OverrideMachine struct {
	mu    sync.Mutex
	state OverrideState

	// rotateActivatesManual lets a rotation in auto/off mode start a
	// manual override instead of being ignored
	rotateActivatesManual bool

	// notify is called after a mode-changing transition, outside the
	// machine's lock, so the agent can flash confirmation feedback
	notify func(OverrideMode)
}

// NewOverrideMachine creates a machine in automatic mode
func NewOverrideMachine(rotateActivatesManual bool) *OverrideMachine {
	return &OverrideMachine{
		state: OverrideState{
			Active: false,
			Mode:   ModeAuto,
		},
		rotateActivatesManual: rotateActivatesManual,
	}
}

// OnModeChange registers a callback invoked after every mode-changing
// transition with the mode that was entered. Must be set before the machine
// receives events.
func (m *OverrideMachine) OnModeChange(fn func(OverrideMode)) {
	m.notify = fn
}

// Snapshot returns a consistent copy of the current state
func (m *OverrideMachine) Snapshot() OverrideState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Click handles a dimmer button press. From auto or forced-off it starts a
// manual override, capturing the currently applied brightness as the manual
// level; from manual it resumes automatic control immediately.
func (m *OverrideMachine) Click(now time.Time, currentBrightness int) OverrideState {
	m.mu.Lock()

	var entered OverrideMode
	switch m.state.Mode {
	case ModeManual:
		entered = m.transition(ModeAuto, false, now)
	default: // auto or forced off
		m.state.ManualBrightness = clampInt(currentBrightness, 0, 100)
		entered = m.transition(ModeManual, true, now)
	}
	state := m.state
	m.mu.Unlock()

	m.fireNotify(entered)
	return state
}

// Hold handles a dimmer long press: it toggles forced-off. Any mode enters
// forced-off; a second hold returns to automatic control.
func (m *OverrideMachine) Hold(now time.Time) OverrideState {
	m.mu.Lock()

	var entered OverrideMode
	if m.state.Mode == ModeForcedOff {
		entered = m.transition(ModeAuto, false, now)
	} else {
		entered = m.transition(ModeForcedOff, true, now)
	}
	state := m.state
	m.mu.Unlock()

	m.fireNotify(entered)
	return state
}

// Rotate handles a dimmer rotation by delta percent. In manual mode it
// adjusts the manual brightness, clamped to [0, 100]. In auto or forced-off
// it is ignored unless the rotate-activates-manual policy is enabled, in
// which case it first enters manual at the currently applied brightness.
// The second return value reports whether the event changed any state.
// Rotation steps do not flash; the brightness change itself is the feedback.
func (m *OverrideMachine) Rotate(now time.Time, delta int, currentBrightness int) (OverrideState, bool) {
	m.mu.Lock()

	var entered OverrideMode
	if m.state.Mode != ModeManual {
		if !m.rotateActivatesManual {
			state := m.state
			m.mu.Unlock()
			return state, false
		}
		m.state.ManualBrightness = clampInt(currentBrightness, 0, 100)
		entered = m.transition(ModeManual, true, now)
	}

	m.state.ManualBrightness = clampInt(m.state.ManualBrightness+delta, 0, 100)
	m.state.LastTransition = now
	state := m.state
	m.mu.Unlock()

	m.fireNotify(entered)
	return state, true
}

// transition switches mode and stamps the transition time, returning the
// entered mode. Callers must hold the mutex.
func (m *OverrideMachine) transition(mode OverrideMode, active bool, now time.Time) OverrideMode {
	m.state.Mode = mode
	m.state.Active = active
	m.state.LastTransition = now
	return mode
}

func (m *OverrideMachine) fireNotify(entered OverrideMode) {
	if entered != "" && m.notify != nil {
		m.notify(entered)
	}
}
