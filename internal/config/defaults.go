package config

// Default values applied when a key is absent.
const (
	DefaultContentRoot         = "content"
	DefaultOutputDirectory     = "site"
	DefaultConcurrency         = 4
	DefaultCacheSize           = 2048
	DefaultSimilarityThreshold = 0.6
)

func applyDefaults(cfg *Config) {
	if cfg.Content.Root == "" {
		cfg.Content.Root = DefaultContentRoot
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDirectory
	}
	if cfg.Build.Concurrency == 0 {
		cfg.Build.Concurrency = DefaultConcurrency
	}
	if cfg.Build.CacheSize == 0 {
		cfg.Build.CacheSize = DefaultCacheSize
	}
	if cfg.Audit.SimilarityThreshold == 0 {
		cfg.Audit.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}
