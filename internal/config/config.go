// Package config loads the docpipe configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docpipe/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "docpipe.yaml"

// Config is the root configuration.
type Config struct {
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Build   BuildConfig   `yaml:"build"`
	Audit   AuditConfig   `yaml:"audit"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ContentConfig locates the documentation sources.
type ContentConfig struct {
	Root string `yaml:"root"`
	// Locales and Versions restrict the scopes that are processed. When empty,
	// every locale directory below Root (and every version below it) is used.
	Locales  []string `yaml:"locales,omitempty"`
	Versions []string `yaml:"versions,omitempty"`
}

// OutputConfig controls where build artifacts are written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`
}

// BuildConfig tunes the build orchestrator.
type BuildConfig struct {
	Concurrency int `yaml:"concurrency"`
	CacheSize   int `yaml:"cache_size"`
	// RawHTML passes raw HTML in Markdown through to the output.
	RawHTML *bool `yaml:"raw_html,omitempty"`
}

// AuditConfig tunes the link auditor.
type AuditConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	BackupDir           string  `yaml:"backup_dir,omitempty"`
}

// LoggingConfig selects log level and handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// RawHTMLEnabled reports whether raw HTML passthrough is on.
func (b BuildConfig) RawHTMLEnabled() bool {
	return b.RawHTML == nil || *b.RawHTML
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads, expands, normalizes, defaults and validates a configuration file.
// Variables from .env and .env.local are made available to ${VAR} expansion
// without overriding the process environment.
func Load(configPath string) (*Config, error) {
	if loaded, err := loadEnvFiles(); err != nil {
		slog.Warn("Failed to load env file", slog.String("error", err.Error()))
	} else if len(loaded) > 0 {
		slog.Debug("Loaded environment files", slog.Any("files", loaded))
	}

	// #nosec G304 -- the config path is chosen by the operator
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapError(err, errors.CategoryConfig, "configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}
	return Parse(data)
}

// Parse decodes a configuration document after ${VAR} expansion.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Build()
	}

	res, err := NormalizeConfig(&cfg)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "normalize").Build()
	}
	for _, w := range res.Warnings {
		slog.Warn("Config normalization", slog.String("detail", w))
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "configuration validation failed").Build()
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.NewError(errors.CategoryConfig, fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	rawHTML := true
	example := Config{
		Content: ContentConfig{
			Root:     "./content",
			Locales:  []string{"en"},
			Versions: []string{"v1"},
		},
		Output: OutputConfig{Directory: "./site", Clean: true},
		Build: BuildConfig{
			Concurrency: DefaultConcurrency,
			CacheSize:   DefaultCacheSize,
			RawHTML:     &rawHTML,
		},
		Audit:   AuditConfig{SimilarityThreshold: DefaultSimilarityThreshold},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Metrics: MetricsConfig{Textfile: "${DOCPIPE_METRICS_TEXTFILE}"},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	// #nosec G306 -- the example config holds no secrets
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
