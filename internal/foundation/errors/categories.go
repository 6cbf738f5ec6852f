package errors

import "maps"

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryValidation marks a document whose frontmatter is missing or mistyped.
	CategoryValidation ErrorCategory = "validation"
	// CategoryParse marks malformed markdown or frontmatter that could not be parsed.
	CategoryParse ErrorCategory = "parse"
	// CategoryLink marks a broken internal reference.
	CategoryLink ErrorCategory = "link"
	// CategoryConfig marks a malformed sidebar or application configuration.
	CategoryConfig ErrorCategory = "config"
	// CategoryFileSystem marks a missing or unreadable file or directory.
	CategoryFileSystem ErrorCategory = "filesystem"
	// CategoryBackup marks a failed pre-mutation backup.
	CategoryBackup ErrorCategory = "backup"
	// CategoryInternal marks an unexpected failure inside the engine.
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution completely
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(ErrorContext, len(c)+len(other))
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
