package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the celestial lighting agent
type Config struct {
	// MQTT configuration
	MQTTBroker   string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTClientID string

	// Redis configuration
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Postgres configuration (journal, optional - disabled when host is empty)
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Service configuration
	ServiceName string
	HealthPort  int
	LogLevel    string

	// Location for celestial calculations
	Latitude  float64
	Longitude float64

	// Lighting configuration
	Lights                []string
	LightGroup            string
	DimmerDeviceID        string
	UpdateIntervalSec     int
	SunHorizonDeg         float64
	MaxMoonBrightness     int
	RotateStepPct         int
	RotateActivatesManual bool
	HistorySize           int
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		MQTTBroker:       "localhost",
		MQTTPort:         1883,
		MQTTUser:         "",
		MQTTPassword:     "",
		MQTTClientID:     "",
		RedisHost:        "localhost",
		RedisPort:        6379,
		RedisPassword:    "",
		RedisDB:          0,
		PostgresHost:     "",
		PostgresPort:     5432,
		PostgresUser:     "celestial",
		PostgresPassword: "",
		PostgresDB:       "celestial",
		PostgresSSLMode:  "disable",
		ServiceName:      "celestial-agent",
		HealthPort:       8080,
		LogLevel:         "info",
		// Helsinki coordinates as placeholder defaults
		Latitude:              60.1695,
		Longitude:             24.9354,
		Lights:                nil,
		LightGroup:            "celestial",
		DimmerDeviceID:        "",
		UpdateIntervalSec:     60,
		SunHorizonDeg:         -10.0,
		MaxMoonBrightness:     40,
		RotateStepPct:         5,
		RotateActivatesManual: false,
		HistorySize:           100,
	}
}

// fileConfig is the YAML shape of the operator-editable options
type fileConfig struct {
	MQTT struct {
		Broker   string `yaml:"broker"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		ClientID string `yaml:"client_id"`
	} `yaml:"mqtt"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       *int   `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DB       string `yaml:"db"`
		SSLMode  string `yaml:"ssl_mode"`
	} `yaml:"postgres"`
	Location struct {
		Latitude  *float64 `yaml:"latitude"`
		Longitude *float64 `yaml:"longitude"`
	} `yaml:"location"`
	Lights                []string `yaml:"lights"`
	LightGroup            string   `yaml:"light_group"`
	DimmerDeviceID        string   `yaml:"dimmer_device_id"`
	UpdateIntervalSec     *int     `yaml:"update_interval_seconds"`
	SunHorizonDeg         *float64 `yaml:"sun_horizon_deg"`
	MaxMoonBrightness     *int     `yaml:"max_moon_brightness"`
	RotateStepPct         *int     `yaml:"rotate_step_pct"`
	RotateActivatesManual *bool    `yaml:"rotate_activates_manual"`
	HistorySize           *int     `yaml:"history_size"`
	HealthPort            *int     `yaml:"health_port"`
	LogLevel              string   `yaml:"log_level"`
}

// LoadFromFile merges values from a YAML configuration file.
// A missing file is not an error so the agent can run on env/flags alone.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.MQTT.Broker != "" {
		c.MQTTBroker = fc.MQTT.Broker
	}
	if fc.MQTT.Port > 0 {
		c.MQTTPort = fc.MQTT.Port
	}
	if fc.MQTT.User != "" {
		c.MQTTUser = fc.MQTT.User
	}
	if fc.MQTT.Password != "" {
		c.MQTTPassword = fc.MQTT.Password
	}
	if fc.MQTT.ClientID != "" {
		c.MQTTClientID = fc.MQTT.ClientID
	}

	if fc.Redis.Host != "" {
		c.RedisHost = fc.Redis.Host
	}
	if fc.Redis.Port > 0 {
		c.RedisPort = fc.Redis.Port
	}
	if fc.Redis.Password != "" {
		c.RedisPassword = fc.Redis.Password
	}
	if fc.Redis.DB != nil {
		c.RedisDB = *fc.Redis.DB
	}

	if fc.Postgres.Host != "" {
		c.PostgresHost = fc.Postgres.Host
	}
	if fc.Postgres.Port > 0 {
		c.PostgresPort = fc.Postgres.Port
	}
	if fc.Postgres.User != "" {
		c.PostgresUser = fc.Postgres.User
	}
	if fc.Postgres.Password != "" {
		c.PostgresPassword = fc.Postgres.Password
	}
	if fc.Postgres.DB != "" {
		c.PostgresDB = fc.Postgres.DB
	}
	if fc.Postgres.SSLMode != "" {
		c.PostgresSSLMode = fc.Postgres.SSLMode
	}

	if fc.Location.Latitude != nil {
		c.Latitude = *fc.Location.Latitude
	}
	if fc.Location.Longitude != nil {
		c.Longitude = *fc.Location.Longitude
	}

	if len(fc.Lights) > 0 {
		c.Lights = fc.Lights
	}
	if fc.LightGroup != "" {
		c.LightGroup = fc.LightGroup
	}
	if fc.DimmerDeviceID != "" {
		c.DimmerDeviceID = fc.DimmerDeviceID
	}
	if fc.UpdateIntervalSec != nil {
		c.UpdateIntervalSec = *fc.UpdateIntervalSec
	}
	if fc.SunHorizonDeg != nil {
		c.SunHorizonDeg = *fc.SunHorizonDeg
	}
	if fc.MaxMoonBrightness != nil {
		c.MaxMoonBrightness = *fc.MaxMoonBrightness
	}
	if fc.RotateStepPct != nil {
		c.RotateStepPct = *fc.RotateStepPct
	}
	if fc.RotateActivatesManual != nil {
		c.RotateActivatesManual = *fc.RotateActivatesManual
	}
	if fc.HistorySize != nil {
		c.HistorySize = *fc.HistorySize
	}
	if fc.HealthPort != nil {
		c.HealthPort = *fc.HealthPort
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables with CELESTIAL_ prefix
func (c *Config) LoadFromEnv() {
	// MQTT configuration
	if v := os.Getenv("CELESTIAL_MQTT_BROKER"); v != "" {
		c.MQTTBroker = v
	}
	if v := os.Getenv("CELESTIAL_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MQTTPort = port
		}
	}
	if v := os.Getenv("CELESTIAL_MQTT_USER"); v != "" {
		c.MQTTUser = v
	}
	if v := os.Getenv("CELESTIAL_MQTT_PASSWORD"); v != "" {
		c.MQTTPassword = v
	}
	if v := os.Getenv("CELESTIAL_MQTT_CLIENT_ID"); v != "" {
		c.MQTTClientID = v
	}

	// Redis configuration
	if v := os.Getenv("CELESTIAL_REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("CELESTIAL_REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.RedisPort = port
		}
	}
	if v := os.Getenv("CELESTIAL_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("CELESTIAL_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RedisDB = db
		}
	}

	// Postgres configuration
	if v := os.Getenv("CELESTIAL_POSTGRES_HOST"); v != "" {
		c.PostgresHost = v
	}
	if v := os.Getenv("CELESTIAL_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.PostgresPort = port
		}
	}
	if v := os.Getenv("CELESTIAL_POSTGRES_USER"); v != "" {
		c.PostgresUser = v
	}
	if v := os.Getenv("CELESTIAL_POSTGRES_PASSWORD"); v != "" {
		c.PostgresPassword = v
	}
	if v := os.Getenv("CELESTIAL_POSTGRES_DB"); v != "" {
		c.PostgresDB = v
	}
	if v := os.Getenv("CELESTIAL_POSTGRES_SSL_MODE"); v != "" {
		c.PostgresSSLMode = v
	}

	// Service configuration
	if v := os.Getenv("CELESTIAL_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("CELESTIAL_HEALTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HealthPort = port
		}
	}
	if v := os.Getenv("CELESTIAL_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	// Location
	if v := os.Getenv("CELESTIAL_LATITUDE"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			c.Latitude = lat
		}
	}
	if v := os.Getenv("CELESTIAL_LONGITUDE"); v != "" {
		if lon, err := strconv.ParseFloat(v, 64); err == nil {
			c.Longitude = lon
		}
	}

	// Lighting configuration
	if v := os.Getenv("CELESTIAL_LIGHTS"); v != "" {
		c.Lights = splitList(v)
	}
	if v := os.Getenv("CELESTIAL_LIGHT_GROUP"); v != "" {
		c.LightGroup = v
	}
	if v := os.Getenv("CELESTIAL_DIMMER_DEVICE_ID"); v != "" {
		c.DimmerDeviceID = v
	}
	if v := os.Getenv("CELESTIAL_UPDATE_INTERVAL_SEC"); v != "" {
		if interval, err := strconv.Atoi(v); err == nil {
			c.UpdateIntervalSec = interval
		}
	}
	if v := os.Getenv("CELESTIAL_SUN_HORIZON_DEG"); v != "" {
		if deg, err := strconv.ParseFloat(v, 64); err == nil {
			c.SunHorizonDeg = deg
		}
	}
	if v := os.Getenv("CELESTIAL_MAX_MOON_BRIGHTNESS"); v != "" {
		if pct, err := strconv.Atoi(v); err == nil {
			c.MaxMoonBrightness = pct
		}
	}
	if v := os.Getenv("CELESTIAL_ROTATE_STEP_PCT"); v != "" {
		if step, err := strconv.Atoi(v); err == nil {
			c.RotateStepPct = step
		}
	}
	if v := os.Getenv("CELESTIAL_ROTATE_ACTIVATES_MANUAL"); v != "" {
		if enable, err := strconv.ParseBool(v); err == nil {
			c.RotateActivatesManual = enable
		}
	}
	if v := os.Getenv("CELESTIAL_HISTORY_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			c.HistorySize = size
		}
	}
}

// LoadFromFlags parses command-line flags and overrides config values
func (c *Config) LoadFromFlags() {
	// MQTT flags
	pflag.StringVar(&c.MQTTBroker, "mqtt-broker", c.MQTTBroker, "MQTT broker hostname")
	pflag.IntVar(&c.MQTTPort, "mqtt-port", c.MQTTPort, "MQTT broker port")
	pflag.StringVar(&c.MQTTUser, "mqtt-user", c.MQTTUser, "MQTT username")
	pflag.StringVar(&c.MQTTPassword, "mqtt-password", c.MQTTPassword, "MQTT password")
	pflag.StringVar(&c.MQTTClientID, "mqtt-client-id", c.MQTTClientID, "MQTT client ID")

	// Redis flags
	pflag.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis hostname")
	pflag.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")
	pflag.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	pflag.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")

	// Postgres flags
	pflag.StringVar(&c.PostgresHost, "postgres-host", c.PostgresHost, "Postgres hostname (empty disables the journal)")
	pflag.IntVar(&c.PostgresPort, "postgres-port", c.PostgresPort, "Postgres port")
	pflag.StringVar(&c.PostgresUser, "postgres-user", c.PostgresUser, "Postgres user")
	pflag.StringVar(&c.PostgresPassword, "postgres-password", c.PostgresPassword, "Postgres password")
	pflag.StringVar(&c.PostgresDB, "postgres-db", c.PostgresDB, "Postgres database name")
	pflag.StringVar(&c.PostgresSSLMode, "postgres-ssl-mode", c.PostgresSSLMode, "Postgres SSL mode")

	// Service flags
	pflag.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Service name")
	pflag.IntVar(&c.HealthPort, "health-port", c.HealthPort, "Health check HTTP port")
	pflag.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")

	// Location flags
	pflag.Float64Var(&c.Latitude, "latitude", c.Latitude, "Geographic latitude for celestial calculation")
	pflag.Float64Var(&c.Longitude, "longitude", c.Longitude, "Geographic longitude for celestial calculation")

	// Lighting flags
	pflag.StringSliceVar(&c.Lights, "lights", c.Lights, "Light identifiers to control")
	pflag.StringVar(&c.LightGroup, "light-group", c.LightGroup, "Logical group name for the controlled lights")
	pflag.StringVar(&c.DimmerDeviceID, "dimmer-device-id", c.DimmerDeviceID, "Device ID of the physical dimmer")
	pflag.IntVar(&c.UpdateIntervalSec, "update-interval", c.UpdateIntervalSec, "Update cycle interval in seconds")
	pflag.Float64Var(&c.SunHorizonDeg, "sun-horizon-deg", c.SunHorizonDeg, "Sun elevation threshold below which moon lighting takes over")
	pflag.IntVar(&c.MaxMoonBrightness, "max-moon-brightness", c.MaxMoonBrightness, "Brightness ceiling for moon lighting (percent)")
	pflag.IntVar(&c.RotateStepPct, "rotate-step-pct", c.RotateStepPct, "Brightness change per dimmer rotation step (percent)")
	pflag.BoolVar(&c.RotateActivatesManual, "rotate-activates-manual", c.RotateActivatesManual, "Rotation while in automatic mode activates manual override")
	pflag.IntVar(&c.HistorySize, "history-size", c.HistorySize, "Number of issued commands to keep in Redis history")

	pflag.Parse()
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT broker is required")
	}
	if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
		return fmt.Errorf("MQTT port must be between 1 and 65535")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("Redis host is required")
	}
	if c.RedisPort <= 0 || c.RedisPort > 65535 {
		return fmt.Errorf("Redis port must be between 1 and 65535")
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("Health port must be between 1 and 65535")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("Service name is required")
	}
	if len(c.Lights) == 0 {
		return fmt.Errorf("at least one light identifier is required")
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if c.UpdateIntervalSec <= 0 {
		return fmt.Errorf("update interval must be positive")
	}
	if c.MaxMoonBrightness < 0 || c.MaxMoonBrightness > 100 {
		return fmt.Errorf("max moon brightness must be between 0 and 100")
	}
	if c.RotateStepPct <= 0 || c.RotateStepPct > 100 {
		return fmt.Errorf("rotate step must be between 1 and 100")
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("history size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// JournalEnabled reports whether the Postgres journal is configured
func (c *Config) JournalEnabled() bool {
	return c.PostgresHost != ""
}

// MQTTAddress returns the full MQTT broker address
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}

// RedisAddress returns the full Redis address
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// PostgresConnectionString returns the lib/pq connection string for the journal
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
