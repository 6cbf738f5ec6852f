package navigation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docpipe/internal/foundation/errors"
)

// SidebarFiles are the reserved per-scope config filenames, in lookup order.
// They are never turned into navigation items.
var SidebarFiles = []string{"_sidebar.yaml", "_sidebar.yml", "_sidebar.json"}

// ErrInvalidSidebarConfig marks a config that failed schema validation.
var ErrInvalidSidebarConfig = errors.New("invalid sidebar config")

// Group overrides a directory's presentation.
type Group struct {
	Title     string   `json:"title,omitempty" yaml:"title,omitempty"`
	Order     *float64 `json:"order,omitempty" yaml:"order,omitempty"`
	Collapsed bool     `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
}

// SidebarConfig customizes the navigation of one locale/version scope.
type SidebarConfig struct {
	Order  []string          `json:"order,omitempty" yaml:"order,omitempty"`
	Hidden []string          `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Groups map[string]Group  `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// SchemaIssue is a single schema violation.
type SchemaIssue struct {
	Location string
	Message  string
}

// SidebarSchemaError lists every schema violation of a config file.
type SidebarSchemaError struct {
	Path   string
	Issues []SchemaIssue
}

func (e *SidebarSchemaError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		loc := issue.Location
		if loc == "" {
			loc = "/"
		}
		parts = append(parts, loc+": "+issue.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, strings.Join(parts, "; "))
}

func (e *SidebarSchemaError) Unwrap() error { return ErrInvalidSidebarConfig }

const sidebarSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "order":  {"type": "array", "items": {"type": "string"}},
    "hidden": {"type": "array", "items": {"type": "string"}},
    "labels": {"type": "object", "additionalProperties": {"type": "string"}},
    "groups": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "title":     {"type": "string"},
          "order":     {"type": "number"},
          "collapsed": {"type": "boolean"}
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func sidebarSchemaValidator() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("sidebar.schema.json", strings.NewReader(sidebarSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("sidebar.schema.json")
	})
	return compiledSchema, schemaErr
}

// FindSidebarConfig returns the first reserved config file present in dir.
func FindSidebarConfig(dir string) (string, bool) {
	for _, name := range SidebarFiles {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// IsSidebarFile reports whether name is a reserved sidebar config filename.
func IsSidebarFile(name string) bool {
	for _, f := range SidebarFiles {
		if name == f {
			return true
		}
	}
	return false
}

// LoadSidebarConfig reads and validates a sidebar config file. YAML and JSON
// are both accepted. A config that fails validation is rejected as a whole.
func LoadSidebarConfig(path string) (*SidebarConfig, error) {
	// #nosec G304 -- path is a reserved filename inside the content root
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read sidebar config").
			WithContext("path", path).
			Build()
	}
	return ParseSidebarConfig(path, data)
}

// ParseSidebarConfig validates raw config data. name is used in diagnostics.
// Only the known keys are type-checked; unknown keys are ignored.
func ParseSidebarConfig(name string, data []byte) (*SidebarConfig, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "malformed sidebar config").
			Warning().
			WithContext("path", name).
			Build()
	}
	if raw == nil {
		return &SidebarConfig{}, nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "sidebar config is not representable as JSON").
			Warning().
			WithContext("path", name).
			Build()
	}

	if err := validateSidebar(name, encoded); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "sidebar config rejected").
			Warning().
			WithContext("path", name).
			Build()
	}

	var cfg SidebarConfig
	if err := json.Unmarshal(encoded, &cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to decode sidebar config").
			Warning().
			WithContext("path", name).
			Build()
	}
	return &cfg, nil
}

func validateSidebar(name string, encoded []byte) error {
	schema, err := sidebarSchemaValidator()
	if err != nil {
		return fmt.Errorf("compile sidebar schema: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return err
	}
	if err := schema.Validate(instance); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &SidebarSchemaError{Path: name, Issues: collectSchemaIssues(verr)}
		}
		return err
	}
	return nil
}

func collectSchemaIssues(err *jsonschema.ValidationError) []SchemaIssue {
	var issues []SchemaIssue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			issues = append(issues, SchemaIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Location < issues[j].Location })
	return issues
}
