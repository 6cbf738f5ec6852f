package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Block is a source document split into its frontmatter fields and body.
type Block struct {
	// Fields holds the decoded frontmatter. Never nil.
	Fields map[string]any
	// Body is the Markdown body following the closing delimiter.
	Body []byte
	// Present reports whether the source carried a frontmatter block at all.
	Present bool
	// BodyLine is the 1-based line number of the first body line in the source.
	BodyLine int
}

// Parse splits content into frontmatter and body and decodes the YAML fields.
func Parse(content []byte) (*Block, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return nil, err
	}

	fields, err := ParseYAML(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid frontmatter yaml: %w", err)
	}

	bodyLine := 1
	if had {
		bodyLine += bytes.Count(content[:len(content)-len(body)], []byte("\n"))
	}

	return &Block{
		Fields:   fields,
		Body:     body,
		Present:  had,
		BodyLine: bodyLine,
	}, nil
}

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a YAML frontmatter delimiter, had is false
// and body is the full input. CRLF sources are handled.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the final line without a trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content, tail) {
			end := len(content) - len(tail)
			return content[start : end+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	bodyStart := start + idx + len(closeSeq)
	return content[start:end], content[bodyStart:], true, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
