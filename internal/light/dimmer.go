package light

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// DimmerAction classifies a physical dimmer action
type DimmerAction string

const (
	// ActionClick is a button press and release
	ActionClick DimmerAction = "click"
	// ActionHold is a long press
	ActionHold DimmerAction = "hold"
	// ActionRotate is a rotation; Steps carries the signed step count
	ActionRotate DimmerAction = "rotate"
)

// DimmerEvent is a classified physical input event
type DimmerEvent struct {
	DeviceID string
	Action   DimmerAction
	Steps    int // signed, rotate only: positive clockwise
}

// rawDimmerEvent is the wire shape delivered by the event source, modeled
// on Hue/ZHA dimmer events (type/subtype vocabulary of the Aurora dial)
type rawDimmerEvent struct {
	DeviceID string `json:"device_id"`
	Type     string `json:"type"`
	Subtype  string `json:"subtype"`
}

// ParseDimmerEvent decodes and classifies a raw dimmer payload. Events that
// carry an action this agent does not react to (e.g. initial_press, rotation
// stop) return a nil event and no error.
func ParseDimmerEvent(payload []byte) (*DimmerEvent, error) {
	var raw rawDimmerEvent
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse dimmer event: %w", err)
	}
	if raw.DeviceID == "" {
		return nil, fmt.Errorf("dimmer event missing device_id")
	}

	switch raw.Type {
	case "short_release", "click", "on":
		return &DimmerEvent{DeviceID: raw.DeviceID, Action: ActionClick}, nil
	case "long_press", "hold":
		return &DimmerEvent{DeviceID: raw.DeviceID, Action: ActionHold}, nil
	case "start", "repeat":
		switch raw.Subtype {
		case "clock_wise":
			return &DimmerEvent{DeviceID: raw.DeviceID, Action: ActionRotate, Steps: 1}, nil
		case "counter_clock_wise":
			return &DimmerEvent{DeviceID: raw.DeviceID, Action: ActionRotate, Steps: -1}, nil
		}
	}

	return nil, nil
}

// DimmerHandler consumes classified dimmer events and drives the override
// machine. Events from other devices are ignored, not errors. Safe to call
// concurrently with the periodic tick.
type DimmerHandler struct {
	deviceID string
	stepPct  int
	machine  *OverrideMachine
	cycle    *Cycle
	logger   *slog.Logger
}

// NewDimmerHandler creates a handler bound to one dimmer device
func NewDimmerHandler(deviceID string, stepPct int, machine *OverrideMachine, cycle *Cycle, logger *slog.Logger) *DimmerHandler {
	return &DimmerHandler{
		deviceID: deviceID,
		stepPct:  stepPct,
		machine:  machine,
		cycle:    cycle,
		logger:   logger,
	}
}

// Handle applies one dimmer event to the override machine and, when state
// changed, triggers an immediate update so the light reacts to the dial
// without waiting for the next period.
func (h *DimmerHandler) Handle(ctx context.Context, event DimmerEvent) {
	if event.DeviceID != h.deviceID {
		// Foreign device, silently ignored
		h.logger.Debug("Ignoring event from unknown dimmer device",
			"device_id", event.DeviceID,
			"expected", h.deviceID)
		return
	}

	now := time.Now()
	changed := true

	switch event.Action {
	case ActionClick:
		state := h.machine.Click(now, h.cycle.CurrentBrightness())
		h.logger.Info("Dimmer click",
			"mode", state.Mode,
			"manual_brightness", state.ManualBrightness)

	case ActionHold:
		state := h.machine.Hold(now)
		h.logger.Info("Dimmer hold", "mode", state.Mode)

	case ActionRotate:
		delta := event.Steps * h.stepPct
		state, ok := h.machine.Rotate(now, delta, h.cycle.CurrentBrightness())
		changed = ok
		if ok {
			h.logger.Info("Dimmer rotate",
				"delta", delta,
				"manual_brightness", state.ManualBrightness)
		} else {
			h.logger.Debug("Dimmer rotation ignored outside manual mode", "delta", delta)
		}

	default:
		h.logger.Warn("Unknown dimmer action", "action", event.Action)
		return
	}

	if changed {
		h.cycle.Tick(ctx, now)
	}
}
