package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	ServiceDesk ServiceDeskConfig `mapstructure:"servicedesk"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Output      OutputConfig      `mapstructure:"output"`
	Upload      UploadConfig      `mapstructure:"upload"`
}

// ServiceDeskConfig holds the service desk connection details
type ServiceDeskConfig struct {
	Host      string          `mapstructure:"host"`
	Username  string          `mapstructure:"username"`
	Password  string          `mapstructure:"password"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	UserAgent string          `mapstructure:"user_agent"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig throttles outgoing requests. A zero RPS disables it.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// Enabled reports whether throttling was requested
func (r RateLimitConfig) Enabled() bool {
	return r.RPS > 0
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// OutputConfig controls how responses are printed
type OutputConfig struct {
	Color bool `mapstructure:"color"`
}

// UploadConfig contains settings for temporary file uploads
type UploadConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}
