package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
)

// ErrStaleEdit is returned when an edit's expected text no longer matches
// the source at its range.
var ErrStaleEdit = errors.New("edit range does not match expected text")

// Edit is a byte-range replacement of source[Start:End] (End exclusive).
type Edit struct {
	Start       int
	End         int
	Replacement []byte
	// Expect, when non-nil, must equal source[Start:End].
	Expect []byte
}

// ApplyEdits applies non-overlapping edits expressed against the original
// source. Edits are applied from the end of the file toward the beginning
// so earlier offsets stay valid.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End > sorted[j].End
		}
		return sorted[i].Start > sorted[j].Start
	})

	for i, e := range sorted {
		if e.Start < 0 || e.End < 0 {
			return nil, fmt.Errorf("invalid edit[%d]: negative range", i)
		}
		if e.End < e.Start {
			return nil, fmt.Errorf("invalid edit[%d]: end before start", i)
		}
		if e.End > len(source) {
			return nil, fmt.Errorf("invalid edit[%d]: range out of bounds", i)
		}
		if i > 0 && e.End > sorted[i-1].Start {
			return nil, errors.New("invalid edits: overlapping ranges")
		}
		if e.Expect != nil && !bytes.Equal(source[e.Start:e.End], e.Expect) {
			return nil, fmt.Errorf("edit at %d: %w", e.Start, ErrStaleEdit)
		}
	}

	out := append([]byte(nil), source...)
	for _, e := range sorted {
		next := make([]byte, 0, len(out)-(e.End-e.Start)+len(e.Replacement))
		next = append(next, out[:e.Start]...)
		next = append(next, e.Replacement...)
		next = append(next, out[e.End:]...)
		out = next
	}

	return out, nil
}
