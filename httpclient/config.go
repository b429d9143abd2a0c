package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/jolt/validation"
)

// Config configures a Network.
type Config struct {
	// BaseURL is prepended to every request path. Required.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// Timeout bounds each request, from dispatch to the last body byte.
	// Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// LogLevel is "none" (default), "informative" or "verbose".
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=none informative verbose"`

	// Headers are the initial session headers sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Session configures the underlying HTTP session.
	Session SessionConfig `yaml:"session" mapstructure:"session"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = LogNone.String()
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	return c.Session.TLS.Validate()
}

// level returns the parsed log level. Validate guarantees it parses.
func (c *Config) level() LogLevel {
	l, _ := ParseLogLevel(c.LogLevel)
	return l
}
