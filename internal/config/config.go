// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// HTTPConfig holds HTTP server settings for the API binary.
type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// PostgresConfig holds database connection settings. An empty DSN selects
// the in-memory repositories.
type PostgresConfig struct {
	DSN             string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
}

// PubSubConfig holds the telemetry ingest subscription settings.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
}

// ObservabilityConfig holds OpenTelemetry export settings.
type ObservabilityConfig struct {
	Enabled      bool
	OTLPEndpoint string
}

// ClientConfig holds settings for the dashboard CLI.
type ClientConfig struct {
	BaseURL   string
	StatePath string
	Timeout   time.Duration
}

// AppConfig is the root configuration shared by all binaries.
type AppConfig struct {
	Environment   string
	LogLevel      string
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	Auth          AuthConfig
	PubSub        PubSubConfig
	Observability ObservabilityConfig
	Client        ClientConfig
}

// Load reads configuration from config.yaml (if present) and the
// KIDWATCH_* environment, applying defaults for everything else.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("KIDWATCH")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("loglevel", "info")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxconns", 25)
	v.SetDefault("postgres.minconns", 5)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("auth.accesstokenttl", "24h")

	v.SetDefault("pubsub.subscriptionname", "device-telemetry")

	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.otlpendpoint", "localhost:4317")

	v.SetDefault("client.baseurl", "https://child-tracker-server.onrender.com/api")
	v.SetDefault("client.timeout", "30s")
}
