package config

import (
	"fmt"
	"strings"
)

// NormalizationResult captures adjustments and warnings from the normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated and bounded fields before defaults
// are applied. It mutates c in place.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}
	normalizeContent(&c.Content, res)
	normalizeBuild(&c.Build, res)
	normalizeLogging(&c.Logging, res)
	c.Output.Directory = strings.TrimSpace(c.Output.Directory)
	c.Audit.BackupDir = strings.TrimSpace(c.Audit.BackupDir)
	return res, nil
}

func normalizeContent(cc *ContentConfig, res *NormalizationResult) {
	cc.Root = strings.TrimSpace(cc.Root)
	cc.Locales = dedupeStringSlice("content.locales", cc.Locales, res)
	cc.Versions = dedupeStringSlice("content.versions", cc.Versions, res)
}

func normalizeBuild(b *BuildConfig, res *NormalizationResult) {
	if b.Concurrency < 0 {
		res.Warnings = append(res.Warnings, warnChanged("build.concurrency", b.Concurrency, 0))
		b.Concurrency = 0
	}
	if b.CacheSize < 0 {
		res.Warnings = append(res.Warnings, warnChanged("build.cache_size", b.CacheSize, 0))
		b.CacheSize = 0
	}
}

func normalizeLogging(l *LoggingConfig, res *NormalizationResult) {
	if lvl, err := logLevelNormalizer.NormalizeWithError(string(l.Level)); err == nil {
		if l.Level != "" && l.Level != lvl {
			res.Warnings = append(res.Warnings, warnChanged("logging.level", l.Level, lvl))
		}
		l.Level = lvl
	} else {
		res.Warnings = append(res.Warnings, warnUnknown("logging.level", string(l.Level), string(LogLevelInfo)))
		l.Level = LogLevelInfo
	}

	if f, err := logFormatNormalizer.NormalizeWithError(string(l.Format)); err == nil {
		if l.Format != "" && l.Format != f {
			res.Warnings = append(res.Warnings, warnChanged("logging.format", l.Format, f))
		}
		l.Format = f
	} else {
		res.Warnings = append(res.Warnings, warnUnknown("logging.format", string(l.Format), string(LogFormatText)))
		l.Format = LogFormatText
	}
}

// dedupeStringSlice trims entries and drops empties and duplicates, keeping
// the first occurrence order.
func dedupeStringSlice(label string, in []string, res *NormalizationResult) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		t := strings.Trim(strings.TrimSpace(v), "/")
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) != len(in) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("normalized %s list (%d -> %d entries)", label, len(in), len(out)))
	}
	return out
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
