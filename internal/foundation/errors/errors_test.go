package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid sidebar").
			WithSeverity(SeverityWarning).
			WithContext("file", "_sidebar.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityWarning {
			t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
		}
		file, exists := err.Context().GetString("file")
		if !exists || file != "_sidebar.yaml" {
			t.Errorf("expected context file=_sidebar.yaml, got %v", file)
		}
	})

	t.Run("Only backup errors are fatal", func(t *testing.T) {
		if !BackupError("x").Build().IsFatal() {
			t.Error("expected backup error to be fatal")
		}
		for _, b := range []*ErrorBuilder{ValidationError("x"), ParseError("x"), LinkError("x"), ConfigError("x")} {
			if b.Build().IsFatal() {
				t.Errorf("expected %s error to be non-fatal", b.category)
			}
		}
	})

	t.Run("Wrapping preserves cause", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := WrapError(cause, CategoryFileSystem, "write failed").Build()

		if !errors.Is(err, cause) {
			t.Error("expected errors.Is to find cause")
		}
		if err.Error() != "[filesystem:error] write failed: permission denied" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("Chain helpers", func(t *testing.T) {
		err := fmt.Errorf("fix aborted: %w", BackupError("copy failed").Build())

		if !HasCategory(err, CategoryBackup) {
			t.Error("expected backup category in chain")
		}
		if GetSeverity(err) != SeverityFatal {
			t.Errorf("expected fatal severity, got %s", GetSeverity(err))
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected plain errors to default to internal")
		}
	})

	t.Run("WithContext does not mutate original", func(t *testing.T) {
		base := ParseError("unterminated fence").Build()
		derived := base.WithContext("line", 12)

		if _, ok := base.Context().Get("line"); ok {
			t.Error("expected original context to be untouched")
		}
		if v, ok := derived.Context().Get("line"); !ok || v != 12 {
			t.Errorf("expected derived context line=12, got %v", v)
		}
	})
}

func TestErrorContext_Merge(t *testing.T) {
	a := ErrorContext{"a": 1, "shared": "a"}
	b := ErrorContext{"b": 2, "shared": "b"}

	merged := a.Merge(b)
	if merged["shared"] != "b" || merged["a"] != 1 || merged["b"] != 2 {
		t.Errorf("unexpected merge result: %v", merged)
	}
}
