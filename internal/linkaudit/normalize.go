package linkaudit

import (
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/docpipe/internal/markdown"
)

// Normalize rewrites an internal link to its locale/version-prefixed form.
// External and anchor links are returned unchanged. Normalize is idempotent.
func Normalize(link, locale, version string) string {
	if markdown.IsExternal(link) || markdown.IsAnchor(link) {
		return link
	}
	trimmed := strings.TrimPrefix(link, "/")
	prefix := locale + "/" + version + "/"
	if strings.HasPrefix(trimmed, prefix) {
		return trimmed
	}
	return prefix + trimmed
}

// slugOf strips query, fragment and surrounding slashes from a normalized
// link and cleans the path.
func slugOf(normalized string) string {
	p := strings.Trim(markdown.StripQueryAndFragment(normalized), "/")
	if p == "" {
		return ""
	}
	return path.Clean(p)
}

// wellFormed reports whether link can be resolved at all.
func wellFormed(link string) bool {
	if strings.TrimSpace(link) == "" || strings.ContainsAny(link, " \t<>") {
		return false
	}
	_, err := url.Parse(link)
	return err == nil
}

// suffixOf returns the "?query#fragment" tail of link.
func suffixOf(link string) string {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		return link[i:]
	}
	return ""
}
