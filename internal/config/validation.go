package config

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/weave/internal/foundation/errors"
)

// normalize canonicalizes enum-like fields, rejecting unknown mode names.
func normalize(cfg *Config) error {
	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid mode").
			WithContext("field", "mode").
			Fatal().
			Build()
	}
	cfg.Mode = mode
	if cfg.Logging.Level != "" {
		cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	}
	if cfg.Logging.Format != "" {
		cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	}
	cfg.Container.Engine = strings.TrimSpace(cfg.Container.Engine)
	cfg.Container.Dockerfile = strings.TrimSpace(cfg.Container.Dockerfile)
	return nil
}

// ValidateConfig checks a fully defaulted configuration.
func ValidateConfig(cfg *Config) error {
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return errors.ConfigError("invalid mode").
			WithCause(err).
			WithContext("field", "mode").
			Build()
	}
	// The marker is matched against a single regular file, never a path.
	if df := cfg.Container.Dockerfile; df == "." || df == ".." || df != filepath.Base(df) {
		return errors.ConfigError("container.dockerfile must be a file name, not a path").
			WithContext("field", "container.dockerfile").
			WithContext("value", cfg.Container.Dockerfile).
			Build()
	}
	if strings.ContainsAny(cfg.Container.Engine, " \t") {
		return errors.ConfigError("container.engine must be a single executable").
			WithContext("field", "container.engine").
			WithContext("value", cfg.Container.Engine).
			Build()
	}
	return nil
}
