package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpipe/internal/foundation/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultContentRoot, cfg.Content.Root)
	assert.Equal(t, DefaultOutputDirectory, cfg.Output.Directory)
	assert.Equal(t, DefaultConcurrency, cfg.Build.Concurrency)
	assert.Equal(t, DefaultCacheSize, cfg.Build.CacheSize)
	assert.InDelta(t, 0.6, cfg.Audit.SimilarityThreshold, 0)
	assert.True(t, cfg.Build.RawHTMLEnabled())
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	require.NoError(t, cfg.Validate())
}

func TestParse_ExpandsEnvAndNormalizes(t *testing.T) {
	t.Setenv("DOCPIPE_TEST_OUT", "public")

	cfg, err := Parse([]byte(`
content:
  root: ./docs
  locales: [" en ", "fr", "en", ""]
  versions: ["v1/"]
output:
  directory: ${DOCPIPE_TEST_OUT}
build:
  concurrency: 8
  raw_html: false
audit:
  similarity_threshold: 0.75
logging:
  level: WARNING
  format: JSON
`))
	require.NoError(t, err)

	assert.Equal(t, "./docs", cfg.Content.Root)
	assert.Equal(t, []string{"en", "fr"}, cfg.Content.Locales)
	assert.Equal(t, []string{"v1"}, cfg.Content.Versions)
	assert.Equal(t, "public", cfg.Output.Directory)
	assert.Equal(t, 8, cfg.Build.Concurrency)
	assert.Equal(t, DefaultCacheSize, cfg.Build.CacheSize)
	assert.False(t, cfg.Build.RawHTMLEnabled())
	assert.InDelta(t, 0.75, cfg.Audit.SimilarityThreshold, 0)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestParse_UnknownLogLevelFallsBack(t *testing.T) {
	cfg, err := Parse([]byte("logging:\n  level: chatty\n"))
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"threshold above one", "audit:\n  similarity_threshold: 1.5\n"},
		{"bad locale", "content:\n  locales: [\"../etc\"]\n"},
		{"output inside content", "content:\n  root: docs\noutput:\n  directory: docs/site\n"},
		{"content inside output", "content:\n  root: site/docs\noutput:\n  directory: site\n"},
		{"backup inside content", "content:\n  root: docs\naudit:\n  backup_dir: docs/.backups\n"},
		{"malformed yaml", "content: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_EnvFileDoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DOCPIPE_TEST_ROOT", "from-process")
	t.Setenv("DOCPIPE_TEST_OUT_DIR", "")
	require.NoError(t, os.Unsetenv("DOCPIPE_TEST_OUT_DIR"))

	require.NoError(t, os.WriteFile(".env", []byte("DOCPIPE_TEST_ROOT=from-env\nDOCPIPE_TEST_OUT_DIR=from-env-out\n"), 0o600))
	require.NoError(t, os.WriteFile("docpipe.yaml", []byte("content:\n  root: ${DOCPIPE_TEST_ROOT}\noutput:\n  directory: ${DOCPIPE_TEST_OUT_DIR}\n"), 0o600))

	cfg, err := Load("docpipe.yaml")
	require.NoError(t, err)
	assert.Equal(t, "from-process", cfg.Content.Root)
	assert.Equal(t, "from-env-out", cfg.Output.Directory)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docpipe.yaml")
	require.NoError(t, Init(path, false))

	err := Init(path, false)
	require.Error(t, err)
	require.NoError(t, Init(path, true))

	t.Setenv("DOCPIPE_METRICS_TEXTFILE", "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, cfg.Content.Locales)
	assert.True(t, cfg.Output.Clean)
}

func TestLogLevel_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, NormalizeLogLevel("DEBUG").SlogLevel())
	assert.Equal(t, slog.LevelWarn, NormalizeLogLevel("warning").SlogLevel())
	assert.Equal(t, slog.LevelInfo, NormalizeLogLevel("nonsense").SlogLevel())
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat(" Json "))
}
