package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docpipe/internal/config"
	"git.home.luguber.info/inful/docpipe/internal/foundation/errors"
	"git.home.luguber.info/inful/docpipe/internal/linkaudit"
)

// ScopeArgs selects the locale/version a link command works on.
type ScopeArgs struct {
	Locale  string `arg:"" help:"Locale directory, e.g. en"`
	Version string `arg:"" name:"doc-version" help:"Version directory, e.g. v1"`
	Format  string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

func (s ScopeArgs) auditor(cfg *config.Config, sink *metricsSink, backupDir string) *linkaudit.Auditor {
	if backupDir == "" {
		backupDir = cfg.Audit.BackupDir
	}
	return linkaudit.New(cfg.Content.Root, s.Locale, s.Version,
		linkaudit.WithSimilarityThreshold(cfg.Audit.SimilarityThreshold),
		linkaudit.WithBackupDir(backupDir),
		linkaudit.WithRecorder(sink.recorder))
}

// AuditCmd implements the 'audit' command.
type AuditCmd struct {
	ScopeArgs `embed:""`
}

func (a *AuditCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	sink := newMetricsSink(cfg)
	defer sink.flush()

	res, err := a.auditor(cfg, sink, "").Audit()
	if err != nil {
		return err
	}
	if err := linkaudit.WriteAudit(g.out(), res, linkaudit.Format(a.Format)); err != nil {
		return err
	}
	if n := len(res.BrokenLinks); n > 0 {
		return errors.LinkError(fmt.Sprintf("%d broken links (%d fixable)", n, len(res.FixableLinks))).Build()
	}
	return nil
}

// FixCmd implements the 'fix' command.
type FixCmd struct {
	ScopeArgs `embed:""`
	DryRun    bool   `help:"Show what would be fixed without writing files or creating a backup"`
	BackupDir string `help:"Directory that receives the content backup (defaults to audit.backup_dir or the content root's parent)" type:"path"`
}

func (f *FixCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	sink := newMetricsSink(cfg)
	defer sink.flush()

	res, err := f.auditor(cfg, sink, f.BackupDir).Fix(f.DryRun)
	if err != nil {
		return err
	}
	if err := linkaudit.WriteFix(g.out(), res, linkaudit.Format(f.Format)); err != nil {
		return err
	}
	if len(res.Errors) > 0 {
		return errors.FileSystemError(fmt.Sprintf("%d files could not be fixed", len(res.Errors))).Build()
	}
	return nil
}
