// Package build renders a content root into per-scope HTML, TOC, navigation
// and manifest artifacts.
//
// A run processes every configured locale/version scope in two phases: the
// scope is loaded and its slug index built first, then documents are
// transformed concurrently against that index. Navigation is built last from
// the same loader so its cache is shared.
package build
