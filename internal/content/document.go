package content

import (
	"path"
	"strings"
)

// Markdown source extensions recognised by the loader.
const (
	ExtMarkdown = ".md"
	ExtMDX      = ".mdx"
)

// Frontmatter is the validated metadata block of a document.
type Frontmatter struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Version         string   `json:"version"`
	Locale          string   `json:"locale"`
	Order           float64  `json:"order"`
	Tags            []string `json:"tags,omitempty"`
	LastModified    string   `json:"lastModified,omitempty"`
	Deprecated      bool     `json:"deprecated,omitempty"`
	RedirectFrom    []string `json:"redirectFrom,omitempty"`
	SidebarPosition *float64 `json:"sidebarPosition,omitempty"`
	SidebarLabel    *string  `json:"sidebarLabel,omitempty"`
}

// Document is a loaded source file. It is built fresh on every load and
// never mutated afterwards, so it can be shared across goroutines.
type Document struct {
	Frontmatter Frontmatter
	Body        string
	// Slug is the locale/version relative identifier, e.g. "guides/setup".
	Slug string
	// FilePath is the slash-separated path relative to the content root.
	FilePath string
	// BodyLine is the 1-based source line where Body starts.
	BodyLine int
	// Fingerprint identifies the document content (frontmatter + body).
	Fingerprint string
}

// IsMarkdown reports whether name has a Markdown source extension.
func IsMarkdown(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ExtMarkdown, ExtMDX:
		return true
	default:
		return false
	}
}

// Slug derives the canonical slug for a path relative to the content root.
//
// The extension is removed, separators are collapsed, a trailing "index"
// segment is dropped and the leading locale and version segments are
// stripped: "en/v1/a/b.md" yields "a/b" and "en/v1/index.md" yields "".
func Slug(relPath string) string {
	p := strings.ReplaceAll(relPath, "\\", "/")
	p = strings.TrimSuffix(p, path.Ext(p))

	segments := make([]string, 0, strings.Count(p, "/")+1)
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." {
			continue
		}
		segments = append(segments, seg)
	}

	if n := len(segments); n > 0 && segments[n-1] == "index" {
		segments = segments[:n-1]
	}

	drop := min(2, len(segments))
	return strings.Join(segments[drop:], "/")
}
