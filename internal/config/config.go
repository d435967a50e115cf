package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the config file path.
// The harness's own command line belongs to the simulated module, so the
// config file cannot be passed as a flag.
const EnvConfigPath = "DUMMYMODULE_CONFIG"

// Config holds all dummymodule configuration.
type Config struct {
	// Evaluator limits
	Limits LimitsConfig `yaml:"limits"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Metrics export
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig configures the optional Prometheus textfile.
type MetricsConfig struct {
	Textfile  string `yaml:"textfile"`  // empty = disabled
	Namespace string `yaml:"namespace"` // metric name prefix
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxLen:             512,
			MaxTerms:           128,
			MaxFactors:         128,
			MaxDigitsPerNumber: 6,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},

		Metrics: MetricsConfig{
			Namespace: "dummymodule",
		},
	}
}

// Load reads a YAML config from path on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// Override with environment variables
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads the file named by DUMMYMODULE_CONFIG, or defaults.
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv(EnvConfigPath))
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies DUMMYMODULE_* variables.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("DUMMYMODULE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DUMMYMODULE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("DUMMYMODULE_METRICS_TEXTFILE"); v != "" {
		c.Metrics.Textfile = v
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"DUMMYMODULE_MAX_LEN", &c.Limits.MaxLen},
		{"DUMMYMODULE_MAX_TERMS", &c.Limits.MaxTerms},
		{"DUMMYMODULE_MAX_FACTORS", &c.Limits.MaxFactors},
		{"DUMMYMODULE_MAX_DIGITS", &c.Limits.MaxDigitsPerNumber},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", o.env, v, err)
		}
		*o.dst = n
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.ValidateLimits(); err != nil {
		return err
	}
	return c.Logging.Validate()
}
