// Package config loads settings for the stage registry, logging and the
// argsgen generator. Values come from defaults, an optional YAML file and
// ODI_* environment variables, in increasing precedence.
package config

import (
	"strings"

	"github.com/sghaida/odistage/di"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g.
// ODI_REGISTRY_MAX_CONCURRENCY for registry.max_concurrency.
const EnvPrefix = "ODI"

// Config represents the complete configuration.
type Config struct {
	Registry  RegistryConfig  `mapstructure:"registry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Generator GeneratorConfig `mapstructure:"generator"`
}

// RegistryConfig controls stage diagnostics and batch instantiation.
type RegistryConfig struct {
	// WarnOnOverwrite logs when Set replaces an unconsumed entry (default: true)
	WarnOnOverwrite bool `mapstructure:"warn_on_overwrite"`
	// WarnOnUnconsumed logs when Clear removes an unconsumed entry (default: true)
	WarnOnUnconsumed bool `mapstructure:"warn_on_unconsumed"`
	// MaxConcurrency bounds concurrent clones in a batch (0 = unbounded)
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `mapstructure:"level"`
	// Format is auto, text or json. auto picks text on a terminal.
	Format string `mapstructure:"format"`
}

// GeneratorConfig holds argsgen defaults.
type GeneratorConfig struct {
	// DIImport is the import path of the di package used by generated code.
	DIImport string `mapstructure:"di_import"`
	// Header is emitted above the package clause of generated files.
	Header string `mapstructure:"header"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			WarnOnOverwrite:  true,
			WarnOnUnconsumed: true,
			MaxConcurrency:   0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
		Generator: GeneratorConfig{
			DIImport: "github.com/sghaida/odistage/di",
			Header:   "",
		},
	}
}

// SetDefaults registers the built-in values on v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("registry.warn_on_overwrite", defaults.Registry.WarnOnOverwrite)
	v.SetDefault("registry.warn_on_unconsumed", defaults.Registry.WarnOnUnconsumed)
	v.SetDefault("registry.max_concurrency", defaults.Registry.MaxConcurrency)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetDefault("generator.di_import", defaults.Generator.DIImport)
	v.SetDefault("generator.header", defaults.Generator.Header)
}

// New returns a viper instance with defaults and environment overrides bound.
// If path is non-empty it is used as the config file.
func New(path string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	}
	v.SetEnvPrefix(EnvPrefix)
	// Replace dots with underscores for nested keys in env vars
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (if one was set), unmarshals and validates.
func Load(v *viper.Viper) (*Config, error) {
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Options converts the registry settings to di options.
func (c RegistryConfig) Options() []di.Option {
	return []di.Option{
		di.WithWarnOnOverwrite(c.WarnOnOverwrite),
		di.WithWarnOnUnconsumed(c.WarnOnUnconsumed),
		di.WithMaxConcurrency(c.MaxConcurrency),
	}
}
