package light

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/saaga0h/celestial-platform/pkg/mqtt"
)

// CommandSink accepts light states and applies them to physical fixtures.
// Implementations report failures back but own their retry policy; the
// update cycle never retries.
type CommandSink interface {
	// SendLightState applies a steady light state to the given fixtures
	SendLightState(ctx context.Context, lights []string, state LightState) error

	// Flash sends a short confirmation flash, distinct from steady state,
	// used as physical feedback for override transitions
	Flash(ctx context.Context, lights []string, mode OverrideMode) error
}

// Confirmation flash colors per entered mode (warm white for auto,
// blue for manual, red for off)
var flashColors = map[OverrideMode]RGB{
	ModeAuto:      {R: 255, G: 200, B: 100},
	ModeManual:    {R: 100, G: 100, B: 255},
	ModeForcedOff: {R: 255, G: 0, B: 0},
}

// commandMessage is the wire shape of a per-light command
type commandMessage struct {
	CommandID  string `json:"command_id"`
	Light      string `json:"light"`
	Action     string `json:"action"` // "on", "off", "flash"
	Mode       Mode   `json:"mode,omitempty"`
	ColorTemp  *int   `json:"color_temp,omitempty"`
	Color      *RGB   `json:"color,omitempty"`
	Brightness int    `json:"brightness"`
	Timestamp  string `json:"timestamp"`
}

// contextMessage is the aggregate group-level context published alongside
// commands so other agents can observe what this agent decided
type contextMessage struct {
	Source     string `json:"source"`
	Type       string `json:"type"`
	Group      string `json:"group"`
	State      string `json:"state"`
	Mode       Mode   `json:"mode,omitempty"`
	ColorTemp  *int   `json:"color_temp,omitempty"`
	Color      *RGB   `json:"color,omitempty"`
	Brightness int    `json:"brightness"`
	Timestamp  string `json:"timestamp"`
}

// mqttSink publishes light commands over the automation command bus. The
// executor that talks to the actual bridge is a separate collaborator.
type mqttSink struct {
	mqtt    mqtt.Client
	group   string
	service string
	logger  *slog.Logger
}

// NewMQTTSink creates a CommandSink publishing to the MQTT command topics
func NewMQTTSink(client mqtt.Client, group, service string, logger *slog.Logger) CommandSink {
	return &mqttSink{
		mqtt:    client,
		group:   group,
		service: service,
		logger:  logger,
	}
}

// SendLightState publishes one command per fixture plus a group context
// message. Publishes are sequential so commands leave in computation order.
func (s *mqttSink) SendLightState(ctx context.Context, lights []string, state LightState) error {
	timestamp := time.Now().UTC().Format(time.RFC3339)

	action := "on"
	if state.Mode == ModeOff {
		action = "off"
	}

	for _, lightID := range lights {
		msg := commandMessage{
			CommandID:  uuid.NewString(),
			Light:      lightID,
			Action:     action,
			Brightness: state.Brightness,
			Timestamp:  timestamp,
		}
		if state.Mode != ModeOff {
			msg.Mode = state.Mode
		}
		if state.Mode == ModeColorTemp {
			ct := state.ColorTemp
			msg.ColorTemp = &ct
		}
		if state.Mode == ModeRGB {
			c := state.Color
			msg.Color = &c
		}

		payload, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal command for %s: %w", lightID, err)
		}

		topic := mqtt.LightCommandTopic(lightID)
		if err := s.mqtt.Publish(topic, 0, false, payload); err != nil {
			return fmt.Errorf("failed to publish command to %s: %w", topic, err)
		}
	}

	ctxMsg := contextMessage{
		Source:     s.service,
		Type:       "lighting",
		Group:      s.group,
		State:      action,
		Brightness: state.Brightness,
		Timestamp:  timestamp,
	}
	if state.Mode != ModeOff {
		ctxMsg.Mode = state.Mode
	}
	if state.Mode == ModeColorTemp {
		ct := state.ColorTemp
		ctxMsg.ColorTemp = &ct
	}
	if state.Mode == ModeRGB {
		c := state.Color
		ctxMsg.Color = &c
	}

	payload, err := json.Marshal(ctxMsg)
	if err != nil {
		return fmt.Errorf("failed to marshal lighting context: %w", err)
	}

	topic := mqtt.LightingContextTopic(s.group)
	if err := s.mqtt.Publish(topic, 0, false, payload); err != nil {
		return fmt.Errorf("failed to publish context to %s: %w", topic, err)
	}

	s.logger.Debug("Published light state",
		"group", s.group,
		"action", action,
		"mode", state.Mode,
		"brightness", state.Brightness,
		"light_count", len(lights))

	return nil
}

// Flash publishes a short full-brightness color pulse per fixture. The
// executor restores the steady state after the pulse; the next tick would
// reassert it regardless.
func (s *mqttSink) Flash(ctx context.Context, lights []string, mode OverrideMode) error {
	color, ok := flashColors[mode]
	if !ok {
		return fmt.Errorf("no flash pattern for mode %s", mode)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)

	for _, lightID := range lights {
		c := color
		msg := commandMessage{
			CommandID:  uuid.NewString(),
			Light:      lightID,
			Action:     "flash",
			Mode:       ModeRGB,
			Color:      &c,
			Brightness: 100,
			Timestamp:  timestamp,
		}

		payload, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal flash for %s: %w", lightID, err)
		}

		topic := mqtt.LightCommandTopic(lightID)
		if err := s.mqtt.Publish(topic, 0, false, payload); err != nil {
			return fmt.Errorf("failed to publish flash to %s: %w", topic, err)
		}
	}

	s.logger.Debug("Published mode flash", "group", s.group, "mode", mode)
	return nil
}
