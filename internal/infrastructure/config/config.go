package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the Happy Herbs appliance.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Thing      ThingConfig      `yaml:"thing"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	Tasks      TasksConfig      `yaml:"tasks"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Database   DatabaseConfig   `yaml:"database"`
	InfluxDB   InfluxDBConfig   `yaml:"influxdb"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	API        APIConfig        `yaml:"api"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ThingConfig identifies this appliance to the remote shadow service.
type ThingConfig struct {
	// Name is the thing identifier used in shadow and measurement topics.
	Name string `yaml:"name"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker MQTTBrokerConfig `yaml:"broker"`
	Auth   MQTTAuthConfig   `yaml:"auth"`
	TLS    MQTTTLSConfig    `yaml:"tls"`
	QoS    int              `yaml:"qos"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTTLSConfig contains mutual-TLS transport credentials.
// Cloud shadow services (e.g. AWS IoT) require client certificate auth.
type MQTTTLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CAFile   string `yaml:"ca_file"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// TasksConfig contains the scheduling parameters of the task graph.
// Interval fields carry their unit in the name; use the accessor methods
// to obtain time.Duration values.
type TasksConfig struct {
	// TickMS is the pause between scheduler ticks in the main run loop.
	TickMS int `yaml:"tick_ms"`

	// PumpSeconds is how long the water pump stays on once triggered.
	PumpSeconds int `yaml:"pump_seconds"`

	// MoistureCheckMinutes is the interval between soil moisture evaluations.
	MoistureCheckMinutes int `yaml:"moisture_check_minutes"`

	// LightCheckMinutes is the interval between ambient light evaluations.
	LightCheckMinutes int `yaml:"light_check_minutes"`

	// SensorsPublishMinutes is the interval between measurement publishes.
	SensorsPublishMinutes int `yaml:"sensors_publish_minutes"`

	// AnnounceDelayMS defers the first shadow publish after a (re)connection.
	AnnounceDelayMS int `yaml:"announce_delay_ms"`
}

// TickInterval returns the pause between scheduler ticks.
func (t TasksConfig) TickInterval() time.Duration {
	return time.Duration(t.TickMS) * time.Millisecond
}

// PumpDuration returns how long the water pump stays on.
func (t TasksConfig) PumpDuration() time.Duration {
	return time.Duration(t.PumpSeconds) * time.Second
}

// MoistureCheckInterval returns the soil moisture evaluation interval.
func (t TasksConfig) MoistureCheckInterval() time.Duration {
	return time.Duration(t.MoistureCheckMinutes) * time.Minute
}

// LightCheckInterval returns the ambient light evaluation interval.
func (t TasksConfig) LightCheckInterval() time.Duration {
	return time.Duration(t.LightCheckMinutes) * time.Minute
}

// SensorsPublishInterval returns the measurement publish interval.
func (t TasksConfig) SensorsPublishInterval() time.Duration {
	return time.Duration(t.SensorsPublishMinutes) * time.Minute
}

// AnnounceDelay returns the deferral applied to the first shadow publish
// after a successful (re)connection.
func (t TasksConfig) AnnounceDelay() time.Duration {
	return time.Duration(t.AnnounceDelayMS) * time.Millisecond
}

// ThresholdsConfig contains the default actuation thresholds.
// Both can be changed at runtime through shadow delta messages.
type ThresholdsConfig struct {
	// LightLux is the illuminance below which the lamp turns on.
	LightLux float64 `yaml:"light_lux"`

	// Moisture is the soil moisture reading below which watering starts.
	Moisture float64 `yaml:"moisture"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// MetricsConfig contains Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// APIConfig contains settings for the local bench API.
// The API binds to loopback by default; it carries no authentication.
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HAPPYHERBS_SECTION_KEY
// For example: HAPPYHERBS_MQTT_HOST, HAPPYHERBS_THING_NAME
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
// Task intervals follow the appliance's stock firmware values.
func defaultConfig() *Config {
	return &Config{
		Thing: ThingConfig{
			Name: "happy-herbs-01",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "happyherbs",
			},
			QoS: 1,
		},
		Tasks: TasksConfig{
			TickMS:                25,
			PumpSeconds:           5,
			MoistureCheckMinutes:  15,
			LightCheckMinutes:     30,
			SensorsPublishMinutes: 10,
			AnnounceDelayMS:       500,
		},
		Thresholds: ThresholdsConfig{
			LightLux: 200,
			Moisture: 30,
		},
		Database: DatabaseConfig{
			Path:        "./data/happyherbs.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
		API: APIConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HAPPYHERBS_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Thing
	if v := os.Getenv("HAPPYHERBS_THING_NAME"); v != "" {
		cfg.Thing.Name = v
	}

	// MQTT
	if v := os.Getenv("HAPPYHERBS_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("HAPPYHERBS_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("HAPPYHERBS_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("HAPPYHERBS_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Database
	if v := os.Getenv("HAPPYHERBS_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// InfluxDB
	if v := os.Getenv("HAPPYHERBS_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for invalid or inconsistent values.
//
// Returns:
//   - error: Describing the first invalid field found, or nil
func (c *Config) Validate() error {
	if c.Thing.Name == "" {
		return fmt.Errorf("thing.name is required")
	}

	if c.MQTT.Broker.Host == "" {
		return fmt.Errorf("mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		return fmt.Errorf("mqtt.broker.port must be 1-65535, got %d", c.MQTT.Broker.Port)
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1, or 2, got %d", c.MQTT.QoS)
	}
	if c.MQTT.TLS.Enabled {
		if c.MQTT.TLS.CertFile == "" || c.MQTT.TLS.KeyFile == "" {
			return fmt.Errorf("mqtt.tls requires cert_file and key_file when enabled")
		}
	}

	if c.Tasks.TickMS <= 0 {
		return fmt.Errorf("tasks.tick_ms must be positive, got %d", c.Tasks.TickMS)
	}
	if c.Tasks.PumpSeconds <= 0 {
		return fmt.Errorf("tasks.pump_seconds must be positive, got %d", c.Tasks.PumpSeconds)
	}
	if c.Tasks.MoistureCheckMinutes <= 0 {
		return fmt.Errorf("tasks.moisture_check_minutes must be positive, got %d", c.Tasks.MoistureCheckMinutes)
	}
	if c.Tasks.LightCheckMinutes <= 0 {
		return fmt.Errorf("tasks.light_check_minutes must be positive, got %d", c.Tasks.LightCheckMinutes)
	}
	if c.Tasks.SensorsPublishMinutes <= 0 {
		return fmt.Errorf("tasks.sensors_publish_minutes must be positive, got %d", c.Tasks.SensorsPublishMinutes)
	}
	if c.Tasks.AnnounceDelayMS < 0 {
		return fmt.Errorf("tasks.announce_delay_ms must be non-negative, got %d", c.Tasks.AnnounceDelayMS)
	}

	if c.Thresholds.LightLux < 0 {
		return fmt.Errorf("thresholds.light_lux must be non-negative, got %v", c.Thresholds.LightLux)
	}
	if c.Thresholds.Moisture < 0 {
		return fmt.Errorf("thresholds.moisture must be non-negative, got %v", c.Thresholds.Moisture)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			return fmt.Errorf("influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Org == "" || c.InfluxDB.Bucket == "" {
			return fmt.Errorf("influxdb.org and influxdb.bucket are required when influxdb is enabled")
		}
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required when metrics are enabled")
	}

	if c.API.Enabled {
		if c.API.Host == "" {
			return fmt.Errorf("api.host is required when the api is enabled")
		}
		if c.API.Port < 1 || c.API.Port > 65535 {
			return fmt.Errorf("api.port must be 1-65535, got %d", c.API.Port)
		}
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognised", c.Logging.Level)
	}

	return nil
}
