package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values applied before any file or environment source is read.
// Delay and retry defaults match the remote service's observed
// tolerances; changing them shifts load behavior for every account.
const (
	defaultBaseURL     = "https://poseidon-depin-server.storyapis.com"
	defaultTTSEndpoint = "https://translate.google.com/translate_tts"
)

// Load reads configuration from an optional config file plus
// FARMER_-prefixed environment variables. Environment variables take
// precedence over values from the config file. Returns a populated
// Config or an error if loading or validation fails.
//
// configFile may be empty, in which case farmer.yaml is looked up in
// the working directory and silently skipped when absent.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("farmer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FARMER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing default config file is fine; an explicitly named
		// one is not.
		if !errors.As(err, &notFound) || configFile != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("farmer.token_file", "bearer.txt")
	v.SetDefault("farmer.proxy_file", "proxy.txt")
	v.SetDefault("farmer.max_uploads_per_campaign", 3)
	v.SetDefault("farmer.politeness_delay", "15s")
	v.SetDefault("farmer.inter_account_delay", "5s")
	v.SetDefault("farmer.cooldown_min", "240s")
	v.SetDefault("farmer.cooldown_max", "450s")
	v.SetDefault("farmer.cycle_interval", "24h")

	v.SetDefault("http.base_url", defaultBaseURL)
	v.SetDefault("http.request_timeout", "60s")
	v.SetDefault("http.max_retries", 5)
	v.SetDefault("http.initial_backoff", "5s")
	v.SetDefault("http.gateway_retries", 3)
	v.SetDefault("http.gateway_backoff", "5s")

	v.SetDefault("tts.endpoint", defaultTTSEndpoint)
	v.SetDefault("tts.timeout", "30s")

	v.SetDefault("status.enabled", false)
	v.SetDefault("status.addr", ":9090")

	v.SetDefault("log.level", "info")
}
