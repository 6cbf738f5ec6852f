package content

import (
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FieldIssue is a single frontmatter field diagnostic.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every invalid frontmatter field of one document.
type ValidationError struct {
	Path   string
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return fmt.Sprintf("%s: invalid frontmatter (%s)", e.Path, strings.Join(parts, "; "))
}

var (
	isString = validation.By(func(v any) error {
		if _, ok := v.(string); !ok {
			return validation.NewError("validation_is_string", "must be a string")
		}
		return nil
	})
	isNumber = validation.By(func(v any) error {
		if _, ok := toFloat(v); !ok {
			return validation.NewError("validation_is_number", "must be a number")
		}
		return nil
	})
	isBool = validation.By(func(v any) error {
		if _, ok := v.(bool); !ok {
			return validation.NewError("validation_is_bool", "must be a boolean")
		}
		return nil
	})
	isStringList = validation.By(func(v any) error {
		if _, ok := toStrings(v); !ok {
			return validation.NewError("validation_is_string_list", "must be a list of strings")
		}
		return nil
	})
)

var frontmatterRules = validation.Map(
	validation.Key("title", validation.Required, isString),
	validation.Key("description", isString),
	validation.Key("version", isString),
	validation.Key("locale", isString),
	validation.Key("order", isNumber),
	validation.Key("tags", isStringList).Optional(),
	validation.Key("lastModified", isString).Optional(),
	validation.Key("deprecated", isBool).Optional(),
	validation.Key("redirectFrom", isStringList).Optional(),
	validation.Key("sidebarPosition", isNumber).Optional(),
	validation.Key("sidebarLabel", isString).Optional(),
).AllowExtraKeys()

// validateFrontmatter type-checks raw fields and converts them to Frontmatter.
func validateFrontmatter(relPath string, fields map[string]any) (Frontmatter, error) {
	if err := validation.Validate(fields, frontmatterRules); err != nil {
		return Frontmatter{}, &ValidationError{Path: relPath, Issues: issuesFrom(err)}
	}

	fm := Frontmatter{
		Title:       fields["title"].(string),
		Description: fields["description"].(string),
		Version:     fields["version"].(string),
		Locale:      fields["locale"].(string),
	}
	fm.Order, _ = toFloat(fields["order"])
	fm.Tags, _ = toStrings(fields["tags"])
	fm.LastModified, _ = fields["lastModified"].(string)
	fm.Deprecated, _ = fields["deprecated"].(bool)
	fm.RedirectFrom, _ = toStrings(fields["redirectFrom"])
	if pos, ok := toFloat(fields["sidebarPosition"]); ok {
		fm.SidebarPosition = &pos
	}
	if label, ok := fields["sidebarLabel"].(string); ok {
		fm.SidebarLabel = &label
	}
	return fm, nil
}

func issuesFrom(err error) []FieldIssue {
	errs, ok := err.(validation.Errors)
	if !ok {
		return []FieldIssue{{Field: "frontmatter", Message: err.Error()}}
	}

	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	issues := make([]FieldIssue, 0, len(keys))
	for _, k := range keys {
		issues = append(issues, FieldIssue{Field: k, Message: errs[k].Error()})
	}
	return issues
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func toStrings(v any) ([]string, bool) {
	switch list := v.(type) {
	case nil:
		return nil, false
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
