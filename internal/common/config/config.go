// internal/common/config/config.go
package config

// Config holds settings for the payload tooling.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Logging LoggingConfig `mapstructure:"logging"`
	Check   CheckConfig   `mapstructure:"check"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// CheckConfig controls payload checking. DefaultKind is used when no -kind flag is given;
// FailFast stops at the first rejected file.
type CheckConfig struct {
	DefaultKind string `mapstructure:"default_kind"`
	FailFast    bool   `mapstructure:"fail_fast"`
}

// MetricsConfig controls the prometheus textfile export.
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	TextfilePath string `mapstructure:"textfile_path"`
}
