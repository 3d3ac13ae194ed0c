package mqtt

import "fmt"

// Topic constants for the celestial lighting agent
const (
	// Raw dimmer events (input), one topic per device
	TopicRawDimmer = "automation/raw/dimmer/+"

	// Light command topics (output)
	TopicCommandBase = "automation/command/light"

	// Lighting context topics (output)
	TopicContextBase = "automation/context/lighting"
)

// DimmerEventTopic constructs the raw event topic for a specific dimmer device
// Pattern: automation/raw/dimmer/{device_id}
func DimmerEventTopic(deviceID string) string {
	return fmt.Sprintf("automation/raw/dimmer/%s", deviceID)
}

// LightCommandTopic constructs the command topic for a specific light
// Pattern: automation/command/light/{light}
func LightCommandTopic(light string) string {
	return fmt.Sprintf("%s/%s", TopicCommandBase, light)
}

// LightingContextTopic constructs the context topic for a light group
// Pattern: automation/context/lighting/{group}
func LightingContextTopic(group string) string {
	return fmt.Sprintf("%s/%s", TopicContextBase, group)
}
