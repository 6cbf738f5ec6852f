package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docpipe/internal/config"
	"git.home.luguber.info/inful/docpipe/internal/logfields"
	"git.home.luguber.info/inful/docpipe/internal/metrics"
	"git.home.luguber.info/inful/docpipe/internal/observability"
)

// Global carries process-wide collaborators into subcommands.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition and global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"docpipe.yaml" env:"DOCPIPE_CONFIG"`
	Content   string           `help:"Override content.root from the configuration" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log format (text or json); defaults to logging.format" enum:",text,json" default:""`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Render every locale/version scope to HTML, TOC, navigation and manifest files"`
	Nav   NavCmd   `cmd:"" help:"Print the navigation tree of one locale/version"`
	Audit AuditCmd `cmd:"" help:"Report broken internal links of one locale/version"`
	Fix   FixCmd   `cmd:"" help:"Repair broken internal links of one locale/version (backs up content first)"`
	Watch WatchCmd `cmd:"" help:"Build, then rebuild whenever content changes"`
	Init  InitCmd  `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; it installs a logger until the
// configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(observability.NewLogger(os.Stderr, level, c.LogFormat == string(config.LogFormatJSON)))
	return nil
}

// loadConfig loads the configuration file, falling back to defaults when it
// does not exist, applies flag overrides and reconfigures logging.
func (c *CLI) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(c.Config); os.IsNotExist(err) {
		slog.Debug("No configuration file, using defaults", logfields.Path(c.Config))
		cfg = config.Default()
	} else {
		loaded, err := config.Load(c.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.Content != "" {
		cfg.Content.Root = c.Content
	}
	c.configureLogging(cfg)
	return cfg, nil
}

func (c *CLI) configureLogging(cfg *config.Config) {
	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	format := cfg.Logging.Format
	if c.LogFormat != "" {
		format = config.NormalizeLogFormat(c.LogFormat)
	}
	slog.SetDefault(observability.NewLogger(os.Stderr, level, format == config.LogFormatJSON))
}

// metricsSink owns the registry used for the optional textfile export.
type metricsSink struct {
	reg      *prom.Registry
	path     string
	recorder metrics.Recorder
}

func newMetricsSink(cfg *config.Config) *metricsSink {
	if cfg.Metrics.Textfile == "" {
		return &metricsSink{recorder: metrics.NoopRecorder{}}
	}
	reg := prom.NewRegistry()
	return &metricsSink{reg: reg, path: cfg.Metrics.Textfile, recorder: metrics.NewPrometheusRecorder(reg)}
}

// flush writes the textfile, logging rather than failing the command.
func (m *metricsSink) flush() {
	if m.reg == nil {
		return
	}
	if err := metrics.WriteTextfile(m.reg, m.path); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(m.path), logfields.Error(err))
	}
}
