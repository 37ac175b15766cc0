package config

// Default values applied when the configuration leaves a field empty.
const (
	DefaultEngine     = "docker"
	DefaultDockerfile = "Dockerfile"
)

func applyDefaults(cfg *Config) {
	if cfg.Mode == "" {
		cfg.Mode = ModeCI
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Container.Engine == "" {
		cfg.Container.Engine = DefaultEngine
	}
	if cfg.Container.Dockerfile == "" {
		cfg.Container.Dockerfile = DefaultDockerfile
	}
}
