package build

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpipe/internal/config"
	"git.home.luguber.info/inful/docpipe/internal/markdown"
	"git.home.luguber.info/inful/docpipe/internal/metrics"
	"git.home.luguber.info/inful/docpipe/internal/navigation"
)

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func page(title string, order int, body string) string {
	return "---\n" +
		"title: " + title + "\n" +
		"description: About " + title + "\n" +
		"version: v1\n" +
		"locale: en\n" +
		"order: " + strconv.Itoa(order) + "\n" +
		"---\n\n" + body
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Content.Root = filepath.Join(dir, "content")
	cfg.Output.Directory = filepath.Join(dir, "site")
	cfg.Build.Concurrency = 2
	return cfg
}

type recordingRecorder struct {
	metrics.NoopRecorder
	mu         sync.Mutex
	outcomes   []metrics.BuildOutcomeLabel
	documents  map[metrics.DocumentStatus]int
	linkErrors int
}

func (r *recordingRecorder) IncBuildOutcome(o metrics.BuildOutcomeLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *recordingRecorder) AddDocuments(s metrics.DocumentStatus, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.documents == nil {
		r.documents = make(map[metrics.DocumentStatus]int)
	}
	r.documents[s] += n
}

func (r *recordingRecorder) AddLinkErrors(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.linkErrors += n
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestRun_WritesScopeArtifacts(t *testing.T) {
	cfg := testConfig(t)
	root := cfg.Content.Root
	writeDoc(t, root, "en/v1/index.md", page("Home", 1, "# Home\n\nSee [setup](guides/setup) and [gone](missing-page).\n"))
	writeDoc(t, root, "en/v1/guides/setup.md", page("Setup", 2, "# Setup\n\n## Install\n\nText.\n"))
	writeDoc(t, root, "en/v1/broken.md", "---\ntitle: [unterminated\n---\n")

	rec := &recordingRecorder{}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	report, err := New(cfg, WithRecorder(rec), WithClock(func() time.Time { return fixed })).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, StatusWarning, report.Status)
	require.Len(t, report.Scopes, 1)
	scope := report.Scopes[0]
	assert.Equal(t, "en", scope.Locale)
	assert.Equal(t, "v1", scope.Version)
	assert.Equal(t, 2, scope.Documents)
	require.Len(t, scope.Excluded, 1)
	assert.Equal(t, "en/v1/broken.md", scope.Excluded[0].Path)
	require.Len(t, scope.LinkErrors, 1)
	assert.Equal(t, "en/v1/index.md", scope.LinkErrors[0].Path)
	assert.Equal(t, 1, scope.LinkErrorCount())
	assert.Empty(t, scope.Failed)
	assert.Equal(t, 2, scope.Navigation.Pages)
	assert.Equal(t, 1, scope.Navigation.Directories)
	assert.NotEmpty(t, scope.Diagnostics)

	out := filepath.Join(cfg.Output.Directory, "en", "v1")
	assert.FileExists(t, filepath.Join(out, "index.html"))
	assert.FileExists(t, filepath.Join(out, "guides", "setup.html"))

	var toc []markdown.TOCItem
	readJSON(t, filepath.Join(out, "guides", "setup.toc.json"), &toc)
	require.Len(t, toc, 1)
	assert.Equal(t, "install", toc[0].ID)

	var tree navigation.Tree
	readJSON(t, filepath.Join(out, "navigation.json"), &tree)
	assert.Equal(t, "en", tree.Locale)
	assert.NotEmpty(t, tree.Items)

	var manifest Manifest
	readJSON(t, filepath.Join(out, "manifest.json"), &manifest)
	assert.Equal(t, report.RunID, manifest.RunID)
	assert.Equal(t, fixed, manifest.GeneratedAt)
	require.Len(t, manifest.Documents, 2)
	assert.Equal(t, "", manifest.Documents[0].Slug)
	assert.Equal(t, "index.html", manifest.Documents[0].Output)
	assert.NotEmpty(t, manifest.Documents[0].Fingerprint)
	assert.Len(t, manifest.Documents[0].LinkErrors, 1)
	assert.Equal(t, "guides/setup", manifest.Documents[1].Slug)
	assert.Equal(t, "guides/setup.toc.json", manifest.Documents[1].TOC)
	assert.Len(t, manifest.Excluded, 1)

	assert.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeWarning}, rec.outcomes)
	assert.Equal(t, 2, rec.documents[metrics.DocumentLoaded])
	assert.Equal(t, 1, rec.documents[metrics.DocumentExcluded])
	assert.Equal(t, 2, rec.documents[metrics.DocumentTransformed])
	assert.Equal(t, 1, rec.linkErrors)
}

func TestRun_CleanScopeIsSuccess(t *testing.T) {
	cfg := testConfig(t)
	writeDoc(t, cfg.Content.Root, "en/v1/index.md", page("Home", 1, "# Home\n"))
	writeDoc(t, cfg.Content.Root, "fr/v1/index.md", page("Accueil", 1, "# Accueil\n"))

	report, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, report.Status)
	require.Len(t, report.Scopes, 2)
	assert.Equal(t, "en", report.Scopes[0].Locale)
	assert.Equal(t, "fr", report.Scopes[1].Locale)

	documents, excluded, linkErrors, failed := report.Totals()
	assert.Equal(t, 2, documents)
	assert.Zero(t, excluded+linkErrors+failed)
}

func TestRun_CleanRemovesStaleOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Clean = true
	writeDoc(t, cfg.Content.Root, "en/v1/index.md", page("Home", 1, "# Home\n"))
	stale := filepath.Join(cfg.Output.Directory, "stale.html")
	writeDoc(t, cfg.Output.Directory, "stale.html", "old")

	_, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
}

func TestRun_Canceled(t *testing.T) {
	cfg := testConfig(t)
	writeDoc(t, cfg.Content.Root, "en/v1/index.md", page("Home", 1, "# Home\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(cfg).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusCanceled, report.Status)
}

func TestRun_NilConfig(t *testing.T) {
	report, err := New(nil).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusFailed, report.Status)
}

func TestDiscoverScopes(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"en/v1", "en/v2", "fr/v1", ".git/objects"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o750))
	}

	scopes, err := DiscoverScopes(config.ContentConfig{Root: root})
	require.NoError(t, err)
	assert.Equal(t, []Scope{{"en", "v1"}, {"en", "v2"}, {"fr", "v1"}}, scopes)

	scopes, err = DiscoverScopes(config.ContentConfig{Root: root, Locales: []string{"fr"}, Versions: []string{"v9"}})
	require.NoError(t, err)
	assert.Equal(t, []Scope{{"fr", "v9"}}, scopes)

	scopes, err = DiscoverScopes(config.ContentConfig{Root: filepath.Join(root, "absent")})
	require.NoError(t, err)
	assert.Empty(t, scopes)
}

func TestArtifactPaths(t *testing.T) {
	h, toc := artifactPaths("")
	assert.Equal(t, "index.html", h)
	assert.Equal(t, "index.toc.json", toc)

	h, toc = artifactPaths("guides/setup")
	assert.Equal(t, "guides/setup.html", h)
	assert.Equal(t, "guides/setup.toc.json", toc)
}
