package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyLocale     = "locale"
	KeyVersion    = "version"
	KeySlug       = "slug"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyRunID      = "run_id"
	KeyURL        = "url"
	KeyLine       = "line"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Locale(l string) slog.Attr       { return slog.String(KeyLocale, l) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
