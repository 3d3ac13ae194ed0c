package light

import (
	"testing"
	"time"
)

func TestOverrideMachine_StartsInAuto(t *testing.T) {
	m := NewOverrideMachine(false)

	state := m.Snapshot()
	if state.Mode != ModeAuto {
		t.Errorf("Expected initial mode auto, got %s", state.Mode)
	}
	if state.Active {
		t.Error("Expected initial state inactive")
	}
}

func TestOverrideMachine_ClickRoundTrip(t *testing.T) {
	m := NewOverrideMachine(false)
	now := time.Now()

	state := m.Click(now, 60)
	if state.Mode != ModeManual || !state.Active {
		t.Fatalf("Expected active manual after click, got %+v", state)
	}
	if state.ManualBrightness != 60 {
		t.Errorf("Expected captured brightness 60, got %d", state.ManualBrightness)
	}

	later := now.Add(time.Minute)
	state = m.Click(later, 60)
	if state.Mode != ModeAuto || state.Active {
		t.Fatalf("Expected auto resume after second click, got %+v", state)
	}
	if !state.LastTransition.Equal(later) {
		t.Errorf("Expected last transition updated to %v, got %v", later, state.LastTransition)
	}
}

func TestOverrideMachine_RotateClamps(t *testing.T) {
	m := NewOverrideMachine(false)
	now := time.Now()

	m.Click(now, 95)

	state, changed := m.Rotate(now, 20, 95)
	if !changed {
		t.Fatal("Expected rotation in manual mode to change state")
	}
	if state.ManualBrightness != 100 {
		t.Errorf("Expected brightness clamped to 100, got %d", state.ManualBrightness)
	}

	state, _ = m.Rotate(now, -150, 95)
	if state.ManualBrightness != 0 {
		t.Errorf("Expected brightness clamped to 0, got %d", state.ManualBrightness)
	}
}

func TestOverrideMachine_RotateIgnoredInAutoByDefault(t *testing.T) {
	m := NewOverrideMachine(false)

	state, changed := m.Rotate(time.Now(), 10, 80)
	if changed {
		t.Error("Expected rotation in auto mode to be ignored")
	}
	if state.Mode != ModeAuto {
		t.Errorf("Expected mode to stay auto, got %s", state.Mode)
	}
}

func TestOverrideMachine_RotateActivatesManualWithPolicy(t *testing.T) {
	m := NewOverrideMachine(true)

	state, changed := m.Rotate(time.Now(), -5, 80)
	if !changed {
		t.Fatal("Expected rotation to activate manual override")
	}
	if state.Mode != ModeManual || !state.Active {
		t.Fatalf("Expected active manual, got %+v", state)
	}
	// Captured 80, then applied the -5 step
	if state.ManualBrightness != 75 {
		t.Errorf("Expected brightness 75, got %d", state.ManualBrightness)
	}
}

func TestOverrideMachine_HoldTogglesForcedOff(t *testing.T) {
	m := NewOverrideMachine(false)
	now := time.Now()

	state := m.Hold(now)
	if state.Mode != ModeForcedOff || !state.Active {
		t.Fatalf("Expected active forced off after hold, got %+v", state)
	}

	state = m.Hold(now)
	if state.Mode != ModeAuto || state.Active {
		t.Fatalf("Expected auto after second hold, got %+v", state)
	}
}

func TestOverrideMachine_ClickFromOffEntersManual(t *testing.T) {
	m := NewOverrideMachine(false)
	now := time.Now()

	m.Hold(now)
	state := m.Click(now, 30)
	if state.Mode != ModeManual || !state.Active {
		t.Fatalf("Expected manual after click from off, got %+v", state)
	}
	if state.ManualBrightness != 30 {
		t.Errorf("Expected captured brightness 30, got %d", state.ManualBrightness)
	}
}

func TestOverrideMachine_NotifyFiresOnModeChangesOnly(t *testing.T) {
	m := NewOverrideMachine(false)

	var entered []OverrideMode
	m.OnModeChange(func(mode OverrideMode) {
		entered = append(entered, mode)
	})

	now := time.Now()
	m.Click(now, 50)       // auto -> manual
	m.Rotate(now, 5, 50)   // brightness step, no flash
	m.Rotate(now, 5, 50)   // brightness step, no flash
	m.Click(now, 50)       // manual -> auto
	m.Hold(now)            // auto -> off

	want := []OverrideMode{ModeManual, ModeAuto, ModeForcedOff}
	if len(entered) != len(want) {
		t.Fatalf("Expected %d notifications, got %d (%v)", len(want), len(entered), entered)
	}
	for i, mode := range want {
		if entered[i] != mode {
			t.Errorf("Notification %d: expected %s, got %s", i, mode, entered[i])
		}
	}
}
