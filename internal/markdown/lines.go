package markdown

import "strings"

// Line is a single source line that lies outside fenced code.
type Line struct {
	// Number is 1-based.
	Number int
	// Offset is the byte offset of the first character of the line.
	Offset int
	// Text excludes the line terminator.
	Text string
}

// ProseLines returns the lines of source that are not part of a ``` or ~~~
// fenced code block. Fence delimiter lines are skipped as well.
func ProseLines(source []byte) []Line {
	text := string(source)
	out := make([]Line, 0, strings.Count(text, "\n")+1)

	inFence := false
	activeFence := ""
	offset := 0
	for n := 1; offset <= len(text); n++ {
		end := strings.IndexByte(text[offset:], '\n')
		var raw string
		if end < 0 {
			raw = text[offset:]
		} else {
			raw = text[offset : offset+end]
		}
		line := strings.TrimSuffix(raw, "\r")

		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "```"):
			inFence, activeFence = toggleFence(inFence, activeFence, "```")
		case strings.HasPrefix(trimmed, "~~~"):
			inFence, activeFence = toggleFence(inFence, activeFence, "~~~")
		case !inFence:
			out = append(out, Line{Number: n, Offset: offset, Text: line})
		}

		if end < 0 {
			break
		}
		offset += end + 1
	}
	return out
}

func toggleFence(inFence bool, activeFence, fence string) (bool, string) {
	if !inFence {
		return true, fence
	}
	if activeFence == fence {
		return false, ""
	}
	return inFence, activeFence
}

// MaskInlineCode replaces the contents of inline code spans with spaces so
// byte offsets into the line stay valid. Unclosed backtick runs are kept.
func MaskInlineCode(line string) string {
	if !strings.Contains(line, "`") {
		return line
	}

	b := []byte(line)
	for i := 0; i < len(b); {
		if b[i] != '`' {
			i++
			continue
		}

		run := 1
		for i+run < len(b) && b[i+run] == '`' {
			run++
		}

		marker := strings.Repeat("`", run)
		closeRel := strings.Index(line[i+run:], marker)
		if closeRel == -1 {
			i += run
			continue
		}

		end := i + run + closeRel + run
		for j := i; j < end; j++ {
			b[j] = ' '
		}
		i = end
	}
	return string(b)
}
