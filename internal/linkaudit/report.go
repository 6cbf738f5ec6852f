package linkaudit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format selects a report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// WriteAudit renders an audit result.
func WriteAudit(w io.Writer, res *AuditResult, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, res)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Link audit %s/%s (run %s)\n", res.Locale, res.Version, res.RunID)
	b.WriteString(strings.Repeat("━", 60) + "\n")
	for _, l := range res.BrokenLinks {
		fmt.Fprintf(&b, "%s:%d: [%s](%s) %s\n", l.FilePath, l.LineNumber, l.LinkText, l.OriginalURL, l.Reason)
		if l.Fixable() {
			fmt.Fprintf(&b, "    suggestion: %s\n", l.SuggestedFix)
		}
	}
	for _, e := range res.Errors {
		fmt.Fprintf(&b, "error: %s\n", e)
	}
	b.WriteString(strings.Repeat("━", 60) + "\n")
	fmt.Fprintf(&b, "Results:\n")
	fmt.Fprintf(&b, "  %d file%s scanned\n", res.ProcessedFiles, pluralize(res.ProcessedFiles))
	fmt.Fprintf(&b, "  %d link%s checked, %d valid\n", res.TotalLinks, pluralize(res.TotalLinks), res.ValidLinks)
	fmt.Fprintf(&b, "  %d broken (%d fixable, %d unfixable)\n", len(res.BrokenLinks), len(res.FixableLinks), len(res.UnfixableLinks))

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFix renders a fix result.
func WriteFix(w io.Writer, res *FixResult, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, res)
	}

	var b strings.Builder
	if res.DryRun {
		fmt.Fprintf(&b, "Dry run (run %s): no files modified\n", res.RunID)
	} else {
		fmt.Fprintf(&b, "Link fix (run %s)\n", res.RunID)
	}
	b.WriteString(strings.Repeat("━", 60) + "\n")
	for _, l := range res.FixedLinks {
		fmt.Fprintf(&b, "%s:%d: %s -> %s\n", l.FilePath, l.LineNumber, l.OriginalURL, l.NewURL)
	}
	for _, l := range res.StrippedLinks {
		fmt.Fprintf(&b, "%s:%d: stripped link to %s, kept %q\n", l.FilePath, l.LineNumber, l.OriginalURL, l.LinkText)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(&b, "error: %s\n", e)
	}
	b.WriteString(strings.Repeat("━", 60) + "\n")
	fmt.Fprintf(&b, "  %d link%s rewritten\n", len(res.FixedLinks), pluralize(len(res.FixedLinks)))
	fmt.Fprintf(&b, "  %d link%s stripped\n", len(res.StrippedLinks), pluralize(len(res.StrippedLinks)))
	if res.BackupCreated {
		fmt.Fprintf(&b, "  backup: %s\n", res.BackupPath)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
