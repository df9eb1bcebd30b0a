package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Farmer FarmerConfig `mapstructure:"farmer" validate:"required"`
	HTTP   HTTPConfig   `mapstructure:"http"   validate:"required"`
	TTS    TTSConfig    `mapstructure:"tts"    validate:"required"`
	Status StatusConfig `mapstructure:"status"`
	Log    LogConfig    `mapstructure:"log"    validate:"required"`
}

// FarmerConfig contains the pipeline tunables: input file locations and
// every delay the workflow applies between attempts, campaigns,
// accounts, and cycles.
type FarmerConfig struct {
	TokenFile string `mapstructure:"token_file" validate:"required"`
	ProxyFile string `mapstructure:"proxy_file" validate:"required"`

	// MaxUploadsPerCampaign bounds uploads per campaign per cycle,
	// applied as min(quota cap, this value).
	MaxUploadsPerCampaign int `mapstructure:"max_uploads_per_campaign" validate:"required,gt=0"`

	PolitenessDelay   time.Duration `mapstructure:"politeness_delay"    validate:"required"`
	InterAccountDelay time.Duration `mapstructure:"inter_account_delay" validate:"required"`
	CooldownMin       time.Duration `mapstructure:"cooldown_min"        validate:"required"`
	CooldownMax       time.Duration `mapstructure:"cooldown_max"        validate:"required,gtefield=CooldownMin"`
	CycleInterval     time.Duration `mapstructure:"cycle_interval"      validate:"required"`
}

// HTTPConfig contains the resilient request layer settings and the
// remote service location.
type HTTPConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// RequestTimeout bounds a single HTTP attempt.
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required"`

	// MaxRetries and InitialBackoff are the executor's fallback budget,
	// applied to any call issued without an explicit budget.
	MaxRetries     int           `mapstructure:"max_retries"     validate:"required,gt=0"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff" validate:"required"`

	// GatewayRetries and GatewayBackoff are the smaller per-operation
	// budget every typed API call uses.
	GatewayRetries int           `mapstructure:"gateway_retries" validate:"required,gt=0"`
	GatewayBackoff time.Duration `mapstructure:"gateway_backoff" validate:"required"`
}

// TTSConfig contains the audio synthesis settings.
type TTSConfig struct {
	Endpoint string        `mapstructure:"endpoint" validate:"required,url"`
	Timeout  time.Duration `mapstructure:"timeout"  validate:"required"`
}

// StatusConfig controls the optional local status/metrics server.
// Disabled unless explicitly enabled.
type StatusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr" validate:"required_if=Enabled true"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}
