package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("transform", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("transform", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.AddDocuments(DocumentLoaded, 3)
	pr.AddDocuments(DocumentExcluded, 0)
	pr.AddLinkErrors(2)
	pr.AddAuditLinks(LinkFixable, 1)
	pr.AddFixActions(FixStripped, 4)

	assert.InDelta(t, 3.0, testutil.ToFloat64(pr.documents.WithLabelValues(string(DocumentLoaded))), 0)
	assert.InDelta(t, 2.0, testutil.ToFloat64(pr.linkErrors), 0)
	assert.InDelta(t, 4.0, testutil.ToFloat64(pr.fixActions.WithLabelValues(string(FixStripped))), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("x", time.Second)
		pr.AddDocuments(DocumentFailed, 1)
		pr.AddAuditLinks(LinkValid, 1)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.AddAuditLinks(LinkValid, 5)

	path := filepath.Join(t.TempDir(), "docpipe.prom")
	require.NoError(t, WriteTextfile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `docpipe_audit_links_total{status="valid"} 5`)
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.AddLinkErrors(1)
	r.IncBuildOutcome(BuildOutcomeFailed)
}
