package config

import (
	"fmt"
	"path/filepath"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// scopeSegment matches a single locale or version directory name.
var scopeSegment = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Validate checks every section and the relations between them.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Content),
		validation.Field(&c.Output),
		validation.Field(&c.Build),
		validation.Field(&c.Audit),
		validation.Field(&c.Logging),
	); err != nil {
		return err
	}
	return c.validatePaths()
}

// Validate implements validation.Validatable.
func (cc ContentConfig) Validate() error {
	return validation.ValidateStruct(&cc,
		validation.Field(&cc.Root, validation.Required),
		validation.Field(&cc.Locales, validation.Each(validation.Match(scopeSegment))),
		validation.Field(&cc.Versions, validation.Each(validation.Match(scopeSegment))),
	)
}

// Validate implements validation.Validatable.
func (o OutputConfig) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Directory, validation.Required),
	)
}

// Validate implements validation.Validatable.
func (b BuildConfig) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Concurrency, validation.Required, validation.Min(1), validation.Max(256)),
		validation.Field(&b.CacheSize, validation.Required, validation.Min(1)),
	)
}

// Validate implements validation.Validatable.
func (a AuditConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SimilarityThreshold, validation.Min(0.0), validation.Max(1.0)),
	)
}

// Validate implements validation.Validatable.
func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)),
		validation.Field(&l.Format, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// validatePaths rejects an output directory that overlaps the content root,
// since output.clean would otherwise delete sources.
func (c *Config) validatePaths() error {
	root, err := filepath.Abs(c.Content.Root)
	if err != nil {
		return fmt.Errorf("content.root: %w", err)
	}
	out, err := filepath.Abs(c.Output.Directory)
	if err != nil {
		return fmt.Errorf("output.directory: %w", err)
	}
	if within(root, out) || within(out, root) {
		return fmt.Errorf("output.directory %s overlaps content.root %s", c.Output.Directory, c.Content.Root)
	}
	if c.Audit.BackupDir != "" {
		backup, err := filepath.Abs(c.Audit.BackupDir)
		if err != nil {
			return fmt.Errorf("audit.backup_dir: %w", err)
		}
		if within(root, backup) {
			return fmt.Errorf("audit.backup_dir %s must not be inside content.root", c.Audit.BackupDir)
		}
	}
	return nil
}

// within reports whether p equals base or lies below it.
func within(base, p string) bool {
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel))
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
