package config

import (
	"fmt"
	"time"

	"dario.cat/mergo"

	"github.com/kbukum/jolt/httpclient"
	"github.com/kbukum/jolt/logger"
)

// ClientConfig is the file and environment configuration of the jolt
// command.
//
//	http:
//	  base_url: https://jsonplaceholder.typicode.com
//	  timeout: 10s
//	  log_level: informative
//	logging:
//	  level: info
//	telemetry:
//	  endpoint: localhost:4318
type ClientConfig struct {
	Name      string            `yaml:"name" mapstructure:"name"`
	HTTP      httpclient.Config `yaml:"http" mapstructure:"http"`
	Logging   logger.Config     `yaml:"logging" mapstructure:"logging"`
	Telemetry TelemetryConfig   `yaml:"telemetry" mapstructure:"telemetry"`
}

// TelemetryConfig enables OTLP export of request spans and metrics.
type TelemetryConfig struct {
	// Endpoint is the OTLP HTTP host:port. Empty disables export.
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	// Secure switches the exporters to TLS.
	Secure         bool          `yaml:"secure" mapstructure:"secure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	ExportInterval time.Duration `yaml:"export_interval" mapstructure:"export_interval"`
}

// Enabled reports whether an export endpoint is configured.
func (t TelemetryConfig) Enabled() bool {
	return t.Endpoint != ""
}

func defaultClientConfig() ClientConfig {
	return ClientConfig{
		Name: "jolt",
		Logging: logger.Config{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Telemetry: TelemetryConfig{
			SampleRate:     1.0,
			ExportInterval: 10 * time.Second,
		},
	}
}

// ApplyDefaults fills zero-value fields from the built-in defaults.
func (c *ClientConfig) ApplyDefaults() {
	// mergo only fills zero values, so explicit settings survive.
	_ = mergo.Merge(c, defaultClientConfig())
	c.Logging.ApplyDefaults()
	c.HTTP.ApplyDefaults()
}

// Validate checks the configuration. The HTTP section is validated only
// once a base URL is known, since the command line may supply it later.
func (c *ClientConfig) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("config.telemetry.sample_rate must be within [0, 1] (got: %v)", c.Telemetry.SampleRate)
	}
	if c.HTTP.BaseURL != "" {
		if err := c.HTTP.Validate(); err != nil {
			return fmt.Errorf("config.http: %w", err)
		}
	}
	return nil
}
