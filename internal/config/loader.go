// Package config provides configuration management for the V75 value analyser.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. V75_VALUE_GENERATOR_MODEL
const EnvPrefix = "V75_VALUE"

// DefaultConfigPath is used when no path is given
const DefaultConfigPath = "config/config.yaml"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for every field.
// A missing file is not an error; defaults and environment variables are used instead.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults mirrors the constants of the scoring, recovery and comparison packages
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "v75-value")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("data.csv_dir", "csv")
	v.SetDefault("data.json_dir", "json")
	v.SetDefault("data.market_pattern", "spelprocent")
	v.SetDefault("data.race_key_prefix", "V75")

	v.SetDefault("track.name", "Axevalla")
	v.SetDefault("track.category", "autostart")
	v.SetDefault("track.subcategory", "hög")

	v.SetDefault("scoring.form_weight", 0.3)
	v.SetDefault("scoring.career_weight", 0.2)
	v.SetDefault("scoring.distance_short_weight", 0.1)
	v.SetDefault("scoring.distance_medium_weight", 0.1)
	v.SetDefault("scoring.distance_long_weight", 0.1)
	v.SetDefault("scoring.track_position_weight", 0.2)

	v.SetDefault("recovery.tolerance", 0.1)
	v.SetDefault("recovery.missing_entrants", "ignore")
	v.SetDefault("recovery.deviation_threshold", 1.0)

	v.SetDefault("generator.base_url", "https://api.openai.com/v1")
	v.SetDefault("generator.model", "gpt-3.5-turbo")
	v.SetDefault("generator.api_key", "")
	v.SetDefault("generator.system_prompt", "")
	v.SetDefault("generator.temperature", 0.7)
	v.SetDefault("generator.max_tokens", 300)
	v.SetDefault("generator.json_mode", true)
	v.SetDefault("generator.timeout_seconds", 60)
	v.SetDefault("generator.max_retries", 3)
	v.SetDefault("generator.retry_wait_min_ms", 500)
	v.SetDefault("generator.retry_wait_max_ms", 10000)
	v.SetDefault("generator.rate_limit", 1.0)
	v.SetDefault("generator.circuit_breaker_max", 5)
	v.SetDefault("generator.circuit_reset_ms", 30000)
	v.SetDefault("generator.cache_enabled", true)
	v.SetDefault("generator.cache_ttl_seconds", 900)
	v.SetDefault("generator.cache_max_size", 100)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("schedule.enabled", false)
	v.SetDefault("schedule.cron", "*/10 * * * *")

	v.SetDefault("secrets.aws_region", "")
	v.SetDefault("secrets.secret_name", "")
}
