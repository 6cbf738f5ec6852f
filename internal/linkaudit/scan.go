package linkaudit

import (
	"os"
	"path/filepath"
	"regexp"

	"git.home.luguber.info/inful/docpipe/internal/markdown"
)

var inlineLinkRe = regexp.MustCompile(`\[([^\[\]]*)\]\(([^()\s]*)\)`)

// ScanFile reads a file below root and returns every internal link in it.
// Images, links inside fenced code and inline code spans are ignored.
func ScanFile(root, relPath string) ([]Link, error) {
	// #nosec G304 -- relPath comes from the slug index walk
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, err
	}
	return ScanSource(relPath, data), nil
}

// ScanSource extracts internal links from source. Multiple links on one line
// are all returned, in order of appearance.
func ScanSource(relPath string, source []byte) []Link {
	var links []Link
	for _, line := range markdown.ProseLines(source) {
		masked := markdown.MaskInlineCode(line.Text)
		for _, m := range inlineLinkRe.FindAllStringSubmatchIndex(masked, -1) {
			start, end := m[0], m[1]
			if start > 0 && masked[start-1] == '!' {
				continue
			}
			target := line.Text[m[4]:m[5]]
			if markdown.IsExternal(target) || markdown.IsAnchor(target) {
				continue
			}
			links = append(links, Link{
				Text:       line.Text[m[2]:m[3]],
				URL:        target,
				FilePath:   relPath,
				LineNumber: line.Number,
				start:      line.Offset + start,
				end:        line.Offset + end,
				urlStart:   line.Offset + m[4],
				urlEnd:     line.Offset + m[5],
			})
		}
	}
	return links
}
