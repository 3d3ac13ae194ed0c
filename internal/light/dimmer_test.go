package light

import (
	"context"
	"testing"
	"time"

	"github.com/saaga0h/celestial-platform/internal/celestial"
)

func TestParseDimmerEvent_Classification(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		action  DimmerAction
		steps   int
	}{
		{"short release", `{"device_id":"dial-1","type":"short_release"}`, ActionClick, 0},
		{"plain click", `{"device_id":"dial-1","type":"click"}`, ActionClick, 0},
		{"long press", `{"device_id":"dial-1","type":"long_press"}`, ActionHold, 0},
		{"rotate clockwise", `{"device_id":"dial-1","type":"start","subtype":"clock_wise"}`, ActionRotate, 1},
		{"rotate counter", `{"device_id":"dial-1","type":"repeat","subtype":"counter_clock_wise"}`, ActionRotate, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ParseDimmerEvent([]byte(tt.payload))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if event == nil {
				t.Fatal("Expected a classified event, got nil")
			}
			if event.Action != tt.action {
				t.Errorf("Expected action %s, got %s", tt.action, event.Action)
			}
			if event.Steps != tt.steps {
				t.Errorf("Expected steps %d, got %d", tt.steps, event.Steps)
			}
			if event.DeviceID != "dial-1" {
				t.Errorf("Expected device dial-1, got %s", event.DeviceID)
			}
		})
	}
}

func TestParseDimmerEvent_UnreactedActionsAreSilent(t *testing.T) {
	for _, payload := range []string{
		`{"device_id":"dial-1","type":"initial_press"}`,
		`{"device_id":"dial-1","type":"stop"}`,
		`{"device_id":"dial-1","type":"start","subtype":"unknown"}`,
	} {
		event, err := ParseDimmerEvent([]byte(payload))
		if err != nil {
			t.Errorf("Unexpected error for %s: %v", payload, err)
		}
		if event != nil {
			t.Errorf("Expected nil event for %s, got %+v", payload, event)
		}
	}
}

func TestParseDimmerEvent_Malformed(t *testing.T) {
	if _, err := ParseDimmerEvent([]byte(`not json`)); err == nil {
		t.Error("Expected error for malformed payload")
	}
	if _, err := ParseDimmerEvent([]byte(`{"type":"click"}`)); err == nil {
		t.Error("Expected error for missing device_id")
	}
}

func TestDimmerHandler_IgnoresForeignDevice(t *testing.T) {
	machine := NewOverrideMachine(false)
	sink := &fakeSink{}
	provider := &fakeProvider{reading: celestial.Reading{SunElevationDeg: 30}}
	cycle := newTestCycle(provider, sink, machine)
	handler := NewDimmerHandler("dial-1", 5, machine, cycle, testLogger())

	handler.Handle(context.Background(), DimmerEvent{DeviceID: "dial-2", Action: ActionClick})

	if state := machine.Snapshot(); state.Active {
		t.Error("Expected foreign device event to leave the machine untouched")
	}
	if len(sink.sent) != 0 {
		t.Errorf("Expected no commands from a foreign event, got %d", len(sink.sent))
	}
}

func TestDimmerHandler_ClickCapturesAppliedBrightness(t *testing.T) {
	machine := NewOverrideMachine(false)
	sink := &fakeSink{}
	provider := &fakeProvider{reading: celestial.Reading{SunElevationDeg: 30}}
	cycle := newTestCycle(provider, sink, machine)
	handler := NewDimmerHandler("dial-1", 5, machine, cycle, testLogger())

	// Establish the automatic state first
	cycle.Tick(context.Background(), time.Now())
	autoBrightness := sink.sent[0].Brightness

	handler.Handle(context.Background(), DimmerEvent{DeviceID: "dial-1", Action: ActionClick})

	state := machine.Snapshot()
	if state.Mode != ModeManual {
		t.Fatalf("Expected manual mode after click, got %s", state.Mode)
	}
	if state.ManualBrightness != autoBrightness {
		t.Errorf("Expected click to capture the applied brightness %d, got %d",
			autoBrightness, state.ManualBrightness)
	}

	// The manual target equals the state already applied, so the immediate
	// update is suppressed; the flash is the only feedback
	if len(sink.sent) != 1 {
		t.Errorf("Expected the redundant post-click command suppressed, got %d commands", len(sink.sent))
	}
}

func TestDimmerHandler_RotateAppliesStep(t *testing.T) {
	machine := NewOverrideMachine(false)
	sink := &fakeSink{}
	provider := &fakeProvider{reading: celestial.Reading{SunElevationDeg: 90}}
	cycle := newTestCycle(provider, sink, machine)
	handler := NewDimmerHandler("dial-1", 5, machine, cycle, testLogger())

	cycle.Tick(context.Background(), time.Now()) // brightness 100 at the zenith
	handler.Handle(context.Background(), DimmerEvent{DeviceID: "dial-1", Action: ActionClick})

	handler.Handle(context.Background(), DimmerEvent{DeviceID: "dial-1", Action: ActionRotate, Steps: -1})

	state := machine.Snapshot()
	if state.ManualBrightness != 95 {
		t.Errorf("Expected one counter-clockwise step to land at 95, got %d", state.ManualBrightness)
	}

	last, ok := cycle.LastSent()
	if !ok || last.Brightness != 95 {
		t.Errorf("Expected the rotation reflected in the sent state, got %+v", last)
	}
}

func TestDimmerHandler_RotateInAutoDoesNotTick(t *testing.T) {
	machine := NewOverrideMachine(false)
	sink := &fakeSink{}
	provider := &fakeProvider{reading: celestial.Reading{SunElevationDeg: 30}}
	cycle := newTestCycle(provider, sink, machine)
	handler := NewDimmerHandler("dial-1", 5, machine, cycle, testLogger())

	handler.Handle(context.Background(), DimmerEvent{DeviceID: "dial-1", Action: ActionRotate, Steps: 1})

	if len(sink.sent) != 0 {
		t.Errorf("Expected an ignored rotation to trigger no update, got %d commands", len(sink.sent))
	}
}
