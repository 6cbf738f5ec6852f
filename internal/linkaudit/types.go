package linkaudit

// Link is a [text](url) occurrence in a source file.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
	// FilePath is relative to the content root.
	FilePath   string `json:"filePath"`
	LineNumber int    `json:"lineNumber"`

	// Byte ranges in the file of the whole match and of the url.
	start, end       int
	urlStart, urlEnd int
}

// Raw returns the matched source text.
func (l Link) Raw() string {
	return "[" + l.Text + "](" + l.URL + ")"
}

// BrokenLink is a link whose target could not be resolved.
type BrokenLink struct {
	FilePath     string `json:"filePath"`
	LineNumber   int    `json:"lineNumber"`
	OriginalURL  string `json:"originalUrl"`
	LinkText     string `json:"linkText"`
	Reason       string `json:"reason"`
	SuggestedFix string `json:"suggestedFix,omitempty"`

	link Link
}

// Fixable reports whether a replacement target was found.
func (b BrokenLink) Fixable() bool { return b.SuggestedFix != "" }

// FixedLink records one applied (or planned) repair. NewURL is empty when
// the link syntax was stripped.
type FixedLink struct {
	FilePath    string `json:"filePath"`
	LineNumber  int    `json:"lineNumber"`
	OriginalURL string `json:"originalUrl"`
	NewURL      string `json:"newUrl,omitempty"`
	LinkText    string `json:"linkText"`
}

// AuditResult summarizes an audit run.
type AuditResult struct {
	RunID          string       `json:"runId"`
	Locale         string       `json:"locale"`
	Version        string       `json:"version"`
	TotalLinks     int          `json:"totalLinks"`
	ValidLinks     int          `json:"validLinks"`
	BrokenLinks    []BrokenLink `json:"brokenLinks"`
	FixableLinks   []BrokenLink `json:"fixableLinks"`
	UnfixableLinks []BrokenLink `json:"unfixableLinks"`
	ProcessedFiles int          `json:"processedFiles"`
	Errors         []string     `json:"errors,omitempty"`
}

// FixResult summarizes a fix run.
type FixResult struct {
	RunID         string      `json:"runId"`
	DryRun        bool        `json:"dryRun"`
	TotalFixed    int         `json:"totalFixed"`
	FixedLinks    []FixedLink `json:"fixedLinks"`
	StrippedLinks []FixedLink `json:"strippedLinks"`
	BackupCreated bool        `json:"backupCreated"`
	BackupPath    string      `json:"backupPath,omitempty"`
	Errors        []string    `json:"errors"`
}
