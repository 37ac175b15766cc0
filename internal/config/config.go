package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file consulted when no --config flag is given.
const DefaultPath = "weave.yaml"

// Config represents the application configuration.
type Config struct {
	Mode      Mode            `yaml:"mode"`
	Strict    bool            `yaml:"strict"`
	Logging   LoggingConfig   `yaml:"logging"`
	Container ContainerConfig `yaml:"container"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// LoggingConfig controls the slog handler installed by the CLI.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// ContainerConfig selects the container engine binary and the Dockerfile marker name.
type ContainerConfig struct {
	Engine     string `yaml:"engine"`
	Dockerfile string `yaml:"dockerfile"`
}

// MetricsConfig controls the Prometheus textfile export written after each run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Load loads configuration from configPath. A missing file is not an error:
// defaults are returned instead. Environment variables in the file are expanded
// after .env/.env.local have been applied to the process environment.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		applyDefaults(cfg)
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config %s: %w", configPath, err)
	}

	if err := normalize(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
