package build

import (
	"time"

	"git.home.luguber.info/inful/docpipe/internal/content"
	"git.home.luguber.info/inful/docpipe/internal/navigation"
)

// Status represents the outcome of a build run.
type Status string

const (
	// StatusSuccess means every document was rendered without diagnostics.
	StatusSuccess Status = "success"
	// StatusWarning means output was written but documents were excluded or
	// carry link errors.
	StatusWarning Status = "warning"
	// StatusFailed means at least one scope could not be built.
	StatusFailed Status = "failed"
	// StatusCanceled means the context was canceled mid-run.
	StatusCanceled Status = "canceled"
)

// IsSuccess reports whether output is complete.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess || s == StatusWarning
}

// DocumentIssue lists the diagnostics of one document.
type DocumentIssue struct {
	Slug     string   `json:"slug"`
	Path     string   `json:"path"`
	Messages []string `json:"messages"`
}

// ScopeReport summarizes one locale/version.
type ScopeReport struct {
	Locale      string             `json:"locale"`
	Version     string             `json:"version"`
	Documents   int                `json:"documents"`
	Excluded    []content.Excluded `json:"excluded"`
	LinkErrors  []DocumentIssue    `json:"linkErrors"`
	Failed      []DocumentIssue    `json:"failed"`
	Navigation  navigation.Stats   `json:"navigation"`
	Diagnostics []string           `json:"diagnostics,omitempty"`
}

// LinkErrorCount returns the number of broken links in the scope.
func (s ScopeReport) LinkErrorCount() int {
	n := 0
	for _, d := range s.LinkErrors {
		n += len(d.Messages)
	}
	return n
}

// Report is the outcome of a build run.
type Report struct {
	RunID      string        `json:"runId"`
	Status     Status        `json:"status"`
	OutputPath string        `json:"outputPath"`
	Scopes     []ScopeReport `json:"scopes"`
	StartTime  time.Time     `json:"startTime"`
	EndTime    time.Time     `json:"endTime"`
	Duration   time.Duration `json:"duration"`
}

// Totals sums documents, exclusions, link errors and failures over all scopes.
func (r *Report) Totals() (documents, excluded, linkErrors, failed int) {
	for _, s := range r.Scopes {
		documents += s.Documents
		excluded += len(s.Excluded)
		linkErrors += s.LinkErrorCount()
		failed += len(s.Failed)
	}
	return documents, excluded, linkErrors, failed
}
