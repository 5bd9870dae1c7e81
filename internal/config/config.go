package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigPathEnv overrides the config file location
const ConfigPathEnv = "AIRCARE_CONFIG_PATH"

// Config holds all configuration for the daemon
type Config struct {
	HTTPAddr     string
	DBPath       string
	BatchSize    int
	BatchTimeout int // seconds
	Prediction   PredictionConfig
	Sensors      SensorsConfig
	Log          LogConfig
}

// PredictionConfig configures the remote prediction service and the refresher
type PredictionConfig struct {
	BaseURL         string
	Timeout         int // seconds
	RefreshInterval int // seconds
	Origin          string
	Destination     string
	FlightDuration  int // minutes
}

// SensorsConfig configures the synthetic sensor source
type SensorsConfig struct {
	Enabled       bool
	Interval      int // seconds
	ExcursionRate float64
	Seed          uint64
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from config file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_path", "aircare.db")
	v.SetDefault("batch_size", 100)
	v.SetDefault("batch_timeout", 5)
	v.SetDefault("prediction.base_url", "https://api-aircare.dressr.fashion/api/v1/Predict")
	v.SetDefault("prediction.timeout", 10)
	v.SetDefault("prediction.refresh_interval", 300)
	v.SetDefault("prediction.origin", "NYCA")
	v.SetDefault("prediction.destination", "LOND")
	v.SetDefault("prediction.flight_duration", 420)
	v.SetDefault("sensors.enabled", true)
	v.SetDefault("sensors.interval", 5)
	v.SetDefault("sensors.excursion_rate", 0.05)
	v.SetDefault("sensors.seed", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("/etc/aircare")
	v.AddConfigPath(".")

	if configPath := os.Getenv(ConfigPathEnv); configPath != "" {
		v.SetConfigFile(configPath)
	}

	// A missing config file is fine; defaults and env vars apply.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("AIRCARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		HTTPAddr:     v.GetString("http_addr"),
		DBPath:       v.GetString("db_path"),
		BatchSize:    v.GetInt("batch_size"),
		BatchTimeout: v.GetInt("batch_timeout"),
		Prediction: PredictionConfig{
			BaseURL:         v.GetString("prediction.base_url"),
			Timeout:         v.GetInt("prediction.timeout"),
			RefreshInterval: v.GetInt("prediction.refresh_interval"),
			Origin:          v.GetString("prediction.origin"),
			Destination:     v.GetString("prediction.destination"),
			FlightDuration:  v.GetInt("prediction.flight_duration"),
		},
		Sensors: SensorsConfig{
			Enabled:       v.GetBool("sensors.enabled"),
			Interval:      v.GetInt("sensors.interval"),
			ExcursionRate: v.GetFloat64("sensors.excursion_rate"),
			Seed:          v.GetUint64("sensors.seed"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// BatchTimeoutDuration returns the collector flush interval
func (c *Config) BatchTimeoutDuration() time.Duration {
	return time.Duration(c.BatchTimeout) * time.Second
}

// TimeoutDuration returns the per-request timeout of the prediction client
func (p PredictionConfig) TimeoutDuration() time.Duration {
	return time.Duration(p.Timeout) * time.Second
}

// RefreshDuration returns the prediction refresh period
func (p PredictionConfig) RefreshDuration() time.Duration {
	return time.Duration(p.RefreshInterval) * time.Second
}

// FlightDurationValue returns the scheduled flight length used by the refresher
func (p PredictionConfig) FlightDurationValue() time.Duration {
	return time.Duration(p.FlightDuration) * time.Minute
}

// IntervalDuration returns the simulator tick
func (s SensorsConfig) IntervalDuration() time.Duration {
	return time.Duration(s.Interval) * time.Second
}

// validate validates the configuration values
func validate(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("http_addr is required")
	}

	if cfg.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}

	if cfg.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be greater than 0")
	}

	if cfg.BatchTimeout <= 0 {
		return fmt.Errorf("batch_timeout must be greater than 0")
	}

	if cfg.Prediction.BaseURL == "" {
		return fmt.Errorf("prediction.base_url is required")
	}

	if cfg.Prediction.Timeout <= 0 {
		return fmt.Errorf("prediction.timeout must be greater than 0")
	}

	if cfg.Prediction.RefreshInterval <= 0 {
		return fmt.Errorf("prediction.refresh_interval must be greater than 0")
	}

	if len(cfg.Prediction.Origin) != 4 || len(cfg.Prediction.Destination) != 4 {
		return fmt.Errorf("prediction.origin and prediction.destination must be 4-character airport codes")
	}

	if cfg.Prediction.Origin == cfg.Prediction.Destination {
		return fmt.Errorf("prediction.origin and prediction.destination must differ")
	}

	if cfg.Prediction.FlightDuration <= 0 {
		return fmt.Errorf("prediction.flight_duration must be greater than 0")
	}

	if cfg.Sensors.Interval <= 0 {
		return fmt.Errorf("sensors.interval must be greater than 0")
	}

	if cfg.Sensors.ExcursionRate < 0 || cfg.Sensors.ExcursionRate > 1 {
		return fmt.Errorf("sensors.excursion_rate must be between 0 and 1")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	return nil
}
