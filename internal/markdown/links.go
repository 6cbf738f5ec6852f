package markdown

import (
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// IsExternal reports whether target points outside the site.
func IsExternal(target string) bool {
	lower := strings.ToLower(strings.TrimSpace(target))
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "mailto:")
}

// IsAnchor reports whether target is a same-page fragment.
func IsAnchor(target string) bool {
	return strings.HasPrefix(strings.TrimSpace(target), "#")
}

// StripQueryAndFragment removes any "?query" and "#fragment" suffix.
func StripQueryAndFragment(target string) string {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		return target[:i]
	}
	return target
}

// CandidateSlug derives the slug an internal link points at. A leading
// "/locale/docs/version/" or "/locale/version/" prefix is removed, as are
// the Markdown extension and a trailing "index" segment.
func CandidateSlug(target, locale, version string) string {
	p := strings.TrimSpace(StripQueryAndFragment(target))

	for _, prefix := range scopePrefixes(locale, version) {
		if strings.HasPrefix(p, prefix) {
			p = strings.TrimPrefix(p, prefix)
			break
		}
	}

	p = strings.TrimPrefix(p, "./")
	p = strings.Trim(p, "/")
	if ext := path.Ext(p); ext == ".md" || ext == ".mdx" {
		p = strings.TrimSuffix(p, ext)
	}
	if p == "index" {
		return ""
	}
	return strings.TrimSuffix(p, "/index")
}

func scopePrefixes(locale, version string) []string {
	if locale == "" || version == "" {
		return nil
	}
	return []string{
		"/" + locale + "/docs/" + version + "/",
		"/" + locale + "/" + version + "/",
		locale + "/" + version + "/",
	}
}

type linkPass struct{}

func (linkPass) name() string { return "links" }

func (linkPass) visit(n ast.Node, _ []byte, st *docState) ast.Node {
	link, ok := n.(*ast.Link)
	if !ok || st.ctx.Index == nil {
		return nil
	}

	dest := string(link.Destination)
	if dest == "" || IsExternal(dest) || IsAnchor(dest) || IsAssetTarget(dest) {
		return nil
	}

	slug := CandidateSlug(dest, st.ctx.Locale, st.ctx.Version)
	if st.ctx.Index.Has(slug) {
		return nil
	}
	if !strings.HasPrefix(dest, "/") {
		resolved := path.Join(sourceDir(st.ctx.FilePath), slug)
		if resolved == "." {
			resolved = ""
		}
		if st.ctx.Index.Has(resolved) {
			return nil
		}
	}

	st.linkErrors = append(st.linkErrors, fmt.Sprintf("Broken link: %s (no document with slug %q)", dest, slug))
	return nil
}

// sourceDir returns the scope-relative directory of a content-root relative
// path "locale/version/dir/file.md".
func sourceDir(filePath string) string {
	parts := strings.Split(strings.Trim(filePath, "/"), "/")
	if len(parts) <= 3 {
		return ""
	}
	return strings.Join(parts[2:len(parts)-1], "/")
}
