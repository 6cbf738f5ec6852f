// Package markdown turns a document body into HTML, a table of contents and a
// list of link diagnostics.
//
// The body is parsed once with goldmark. A single AST transformer then runs a
// fixed sequence of passes over the shared tree:
//
//  1. headings: assign unique ids and collect TOC entries
//  2. links: validate internal links against the slug index
//  3. images: replace local images with <doc-image> references
//  4. assets: replace links to binary files with <doc-asset> references
//  5. code: replace code blocks with the code-block widget
//
// Passes 3 to 5 replace nodes that passes 1 and 2 read, so the order is fixed.
// Replacement nodes are distinct node kinds rendered by this package.
//
// The package also provides ApplyEdits, a byte-range editor used by the link
// auditor to rewrite sources without re-rendering them, and ProseLines, which
// yields the lines of a source that sit outside fenced code blocks.
package markdown
