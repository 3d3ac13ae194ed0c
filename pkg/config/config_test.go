package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_RequiresLights(t *testing.T) {
	cfg := NewConfig()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "light identifier")

	cfg.Lights = []string{"light.living_room_ne"}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Bounds(t *testing.T) {
	cfg := NewConfig()
	cfg.Lights = []string{"light.one"}

	cfg.Latitude = 120
	assert.Error(t, cfg.Validate())
	cfg.Latitude = 60.17

	cfg.UpdateIntervalSec = 0
	assert.Error(t, cfg.Validate())
	cfg.UpdateIntervalSec = 60

	cfg.MaxMoonBrightness = 150
	assert.Error(t, cfg.Validate())
	cfg.MaxMoonBrightness = 40

	cfg.LogLevel = "verbose"
	assert.Error(t, cfg.Validate())
	cfg.LogLevel = "debug"

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "celestial.yaml")

	content := `
mqtt:
  broker: mqtt.home.lan
  port: 8883
location:
  latitude: 37.7749
  longitude: -122.4194
lights:
  - light.living_room_ne
  - light.living_room_sw
dimmer_device_id: 131f93a35892fd3c7a0cc89d3a585d9e
update_interval_seconds: 30
max_moon_brightness: 25
rotate_activates_manual: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "mqtt.home.lan", cfg.MQTTBroker)
	assert.Equal(t, 8883, cfg.MQTTPort)
	assert.Equal(t, 37.7749, cfg.Latitude)
	assert.Equal(t, -122.4194, cfg.Longitude)
	assert.Equal(t, []string{"light.living_room_ne", "light.living_room_sw"}, cfg.Lights)
	assert.Equal(t, "131f93a35892fd3c7a0cc89d3a585d9e", cfg.DimmerDeviceID)
	assert.Equal(t, 30, cfg.UpdateIntervalSec)
	assert.Equal(t, 25, cfg.MaxMoonBrightness)
	assert.True(t, cfg.RotateActivatesManual)

	// Untouched keys keep their defaults
	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, -10.0, cfg.SunHorizonDeg)
}

func TestLoadFromFile_MissingFileIsNotAnError(t *testing.T) {
	cfg := NewConfig()
	assert.NoError(t, cfg.LoadFromFile("/nonexistent/celestial.yaml"))
}

func TestLoadFromEnv_LightsList(t *testing.T) {
	t.Setenv("CELESTIAL_LIGHTS", "light.a, light.b,light.c")
	t.Setenv("CELESTIAL_SUN_HORIZON_DEG", "-6")

	cfg := NewConfig()
	cfg.LoadFromEnv()

	assert.Equal(t, []string{"light.a", "light.b", "light.c"}, cfg.Lights)
	assert.Equal(t, -6.0, cfg.SunHorizonDeg)
}
