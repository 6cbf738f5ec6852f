package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docpipe"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	stageResults  *prom.CounterVec
	buildOutcome  *prom.CounterVec
	documents     *prom.CounterVec
	linkErrors    prom.Counter
	auditLinks    *prom.CounterVec
	fixActions    *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual run stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		documents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents by processing status",
		}, []string{"status"}),
		linkErrors: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "link_errors_total",
			Help:      "Broken internal links reported by the transform pipeline",
		}),
		auditLinks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "audit_links_total",
			Help:      "Links checked by the link auditor by status",
		}, []string{"status"}),
		fixActions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fix_actions_total",
			Help:      "Link repairs by action",
		}, []string{"action"}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.documents, pr.linkErrors, pr.auditLinks, pr.fixActions)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddDocuments(status DocumentStatus, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.documents.WithLabelValues(string(status)).Add(float64(n))
}

func (p *PrometheusRecorder) AddLinkErrors(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.linkErrors.Add(float64(n))
}

func (p *PrometheusRecorder) AddAuditLinks(status LinkStatus, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.auditLinks.WithLabelValues(string(status)).Add(float64(n))
}

func (p *PrometheusRecorder) AddFixActions(action FixAction, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.fixActions.WithLabelValues(string(action)).Add(float64(n))
}

// WriteTextfile writes every metric of reg to path in the Prometheus text
// exposition format. The file is replaced atomically.
func WriteTextfile(reg *prom.Registry, path string) error {
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
