// Package config provides configuration management for the V75 value analyser.
package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	Track     TrackConfig     `mapstructure:"track" validate:"required"`
	Scoring   ScoringConfig   `mapstructure:"scoring" validate:"required"`
	Recovery  RecoveryConfig  `mapstructure:"recovery" validate:"required"`
	Generator GeneratorConfig `mapstructure:"generator" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DataConfig locates the input files
type DataConfig struct {
	CSVDir        string `mapstructure:"csv_dir" validate:"required"`
	JSONDir       string `mapstructure:"json_dir" validate:"required"`
	MarketPattern string `mapstructure:"market_pattern" validate:"required"`
	RaceKeyPrefix string `mapstructure:"race_key_prefix" validate:"required"`
}

// TrackConfig selects the gate statistics used for the track-position score
type TrackConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Category    string `mapstructure:"category" validate:"required"`
	Subcategory string `mapstructure:"subcategory" validate:"required"`
}

// ScoringConfig holds the composite score coefficients
type ScoringConfig struct {
	FormWeight           float64 `mapstructure:"form_weight" validate:"gte=0,lte=1"`
	CareerWeight         float64 `mapstructure:"career_weight" validate:"gte=0,lte=1"`
	DistanceShortWeight  float64 `mapstructure:"distance_short_weight" validate:"gte=0,lte=1"`
	DistanceMediumWeight float64 `mapstructure:"distance_medium_weight" validate:"gte=0,lte=1"`
	DistanceLongWeight   float64 `mapstructure:"distance_long_weight" validate:"gte=0,lte=1"`
	TrackPositionWeight  float64 `mapstructure:"track_position_weight" validate:"gte=0,lte=1"`
}

// RecoveryConfig controls distribution recovery and comparison
type RecoveryConfig struct {
	Tolerance          float64 `mapstructure:"tolerance" validate:"required,gt=0,lte=5"`
	MissingEntrants    string  `mapstructure:"missing_entrants" validate:"required,missingpolicy"`
	DeviationThreshold float64 `mapstructure:"deviation_threshold" validate:"required,gt=0"`
}

// GeneratorConfig represents the text generator (OpenAI-compatible chat API) configuration
type GeneratorConfig struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	Model             string  `mapstructure:"model" validate:"required"`
	APIKey            string  `mapstructure:"api_key"`
	SystemPrompt      string  `mapstructure:"system_prompt"`
	Temperature       float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens         int     `mapstructure:"max_tokens" validate:"required,gt=0"`
	JSONMode          bool    `mapstructure:"json_mode"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryWaitMinMs    int     `mapstructure:"retry_wait_min_ms" validate:"gte=0"`
	RetryWaitMaxMs    int     `mapstructure:"retry_wait_max_ms" validate:"gte=0"`
	RateLimit         float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CircuitBreakerMax int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
	CircuitResetMs    int     `mapstructure:"circuit_reset_ms" validate:"gte=0"`
	CacheEnabled      bool    `mapstructure:"cache_enabled"`
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize      int     `mapstructure:"cache_max_size" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// ScheduleConfig controls periodic re-analysis
type ScheduleConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron" validate:"omitempty,cronspec"`
}

// SecretsConfig points at an optional AWS Secrets Manager secret
type SecretsConfig struct {
	AWSRegion  string `mapstructure:"aws_region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// WeightSum returns the total of the composite score coefficients
func (s ScoringConfig) WeightSum() float64 {
	return s.FormWeight + s.CareerWeight + s.DistanceShortWeight + s.DistanceMediumWeight +
		s.DistanceLongWeight + s.TrackPositionWeight
}

// Timeout returns the per-request generator timeout
func (g GeneratorConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long generator replies are cached
func (g GeneratorConfig) CacheTTL() time.Duration {
	return time.Duration(g.CacheTTLSeconds) * time.Second
}

// UseSecretsManager reports whether secrets should be overlaid from AWS
func (c *Config) UseSecretsManager() bool {
	return c.Secrets.AWSRegion != "" && c.Secrets.SecretName != ""
}
