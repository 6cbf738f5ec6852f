package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel is the final status of a run.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeWarning  BuildOutcomeLabel = "warning"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// DocumentStatus labels document counters.
type DocumentStatus string

const (
	DocumentLoaded      DocumentStatus = "loaded"
	DocumentExcluded    DocumentStatus = "excluded"
	DocumentTransformed DocumentStatus = "transformed"
	DocumentFailed      DocumentStatus = "failed"
)

// LinkStatus labels audited links.
type LinkStatus string

const (
	LinkValid     LinkStatus = "valid"
	LinkFixable   LinkStatus = "fixable"
	LinkUnfixable LinkStatus = "unfixable"
)

// FixAction labels link repairs.
type FixAction string

const (
	FixRewritten FixAction = "rewritten"
	FixStripped  FixAction = "stripped"
)

// Recorder defines observability hooks for build, audit and fix runs.
// Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	AddDocuments(status DocumentStatus, n int)
	AddLinkErrors(n int)
	AddAuditLinks(status LinkStatus, n int)
	AddFixActions(action FixAction, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
func (NoopRecorder) AddDocuments(DocumentStatus, int)           {}
func (NoopRecorder) AddLinkErrors(int)                          {}
func (NoopRecorder) AddAuditLinks(LinkStatus, int)              {}
func (NoopRecorder) AddFixActions(FixAction, int)               {}
