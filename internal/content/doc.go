// Package content loads versioned, localized Markdown source documents.
//
// A content root is laid out as locale/version/relative/path. Each document
// starts with a YAML frontmatter block that must carry title, description,
// version, locale and order. Documents failing validation are excluded from
// a Set with per-field diagnostics; they never abort loading the rest of
// the tree.
package content
