package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. JSD_SERVICEDESK_PASSWORD
const EnvPrefix = "JSD"

// Load loads the configuration from file, the environment and overrides.
// Overrides are keyed like the config file (e.g. "servicedesk.host") and win
// over every other source. A missing config file is only an error when
// configPath is given explicitly.
func Load(configPath string, overrides map[string]any) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".jsd"))
		}

		// Check /etc
		v.AddConfigPath("/etc/jsd/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.ServiceDesk.Host = NormalizeHost(cfg.ServiceDesk.Host)

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// NormalizeHost trims whitespace and ensures a single trailing slash
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}
	return strings.TrimRight(host, "/") + "/"
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Service desk defaults
	v.SetDefault("servicedesk.host", "")
	v.SetDefault("servicedesk.username", "")
	v.SetDefault("servicedesk.password", "")
	v.SetDefault("servicedesk.timeout", "30s")
	v.SetDefault("servicedesk.user_agent", "")
	v.SetDefault("servicedesk.rate_limit.rps", 0)
	v.SetDefault("servicedesk.rate_limit.burst", 1)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	// Output defaults
	v.SetDefault("output.color", true)

	// Upload defaults
	v.SetDefault("upload.concurrency", 4)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.ServiceDesk.Host == "" {
		return fmt.Errorf("servicedesk.host is required")
	}

	u, err := url.Parse(cfg.ServiceDesk.Host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("servicedesk.host must be an absolute http(s) URL: %s", cfg.ServiceDesk.Host)
	}

	if cfg.ServiceDesk.Timeout < 0 {
		return fmt.Errorf("servicedesk.timeout must not be negative")
	}

	if rl := cfg.ServiceDesk.RateLimit; rl.RPS < 0 || (rl.Enabled() && rl.Burst < 1) {
		return fmt.Errorf("servicedesk.rate_limit requires rps >= 0 and burst >= 1")
	}

	if cfg.Upload.Concurrency < 1 {
		return fmt.Errorf("upload.concurrency must be at least 1")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
