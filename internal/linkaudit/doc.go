// Package linkaudit finds and repairs broken internal links in Markdown
// sources of one locale/version scope.
//
// An audit runs in two phases: the slug index is built from every Markdown
// file first, then each file is scanned for [text](url) links which are
// validated against the finished index. Fix adds two more phases: a full
// backup of the content root, and only after it succeeded, rewriting files.
package linkaudit
