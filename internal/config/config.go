// Package config loads cmd/heatd's environment-driven configuration,
// grounded on the teacher's internal/config (caarlos0/env struct tags,
// godotenv loaded by the caller in main) and generalized from the
// trading service's fields to spec §6's "Configuration" list: timezone,
// Tibber credentials, DB connection, application host/port, MQTT
// host/base-topic, and the run_subscriber/run_mqtt feature flags.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every environment-driven setting cmd/heatd needs.
type Config struct {
	ServiceName    string `env:"SERVICE_NAME" envDefault:"heatd"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPListenAddr string `env:"HTTP_LISTEN_ADDR" envDefault:":8080"`
	TimeZone       string `env:"TIME_ZONE" envDefault:"Europe/Oslo"`

	// Persistence. StoreDriver selects between the Postgres-backed
	// production store and the in-memory store used for dry runs;
	// DatabaseURL is required when StoreDriver is "postgres".
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`

	// Tibber day-ahead prices and live consumption.
	TibberAPIToken string `env:"TIBBER_API_TOKEN"`
	TibberHomeID   string `env:"TIBBER_HOME_ID"`
	RunSubscriber  bool   `env:"RUN_SUBSCRIBER" envDefault:"true"`

	// MQTT temperature sensors.
	RunMQTT       bool   `env:"RUN_MQTT" envDefault:"true"`
	MQTTHost      string `env:"MQTT_HOST" envDefault:"localhost"`
	MQTTPort      int    `env:"MQTT_PORT" envDefault:"1883"`
	MQTTClientID  string `env:"MQTT_CLIENT_ID" envDefault:"heatd"`
	MQTTBaseTopic string `env:"MQTT_BASE_TOPIC" envDefault:"zigbee2mqtt"`

	// Notifications.
	NtfyBaseURL string `env:"NTFY_BASE_URL"`

	// RelayDummyPrefix marks a Plug/Button host as a no-op test fixture
	// instead of a real network device (internal/relay).
	RelayDummyPrefix string `env:"RELAY_DUMMY_PREFIX" envDefault:"dummy://"`

	// Control loop.
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"1m"`
}

// Load reads environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location returns the configured timezone, falling back to UTC if it
// can't be loaded (e.g. a minimal container image without tzdata).
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
