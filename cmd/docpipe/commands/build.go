package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"git.home.luguber.info/inful/docpipe/internal/build"
	"git.home.luguber.info/inful/docpipe/internal/foundation/errors"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Override output.directory"`
	Clean       bool   `help:"Remove the output directory before building"`
	Concurrency int    `short:"j" help:"Override build.concurrency"`
	Format      string `short:"f" default:"text" help:"Report format (text or json)" enum:"text,json"`
	Strict      bool   `help:"Fail when documents are excluded or links are broken"`
}

func (b *BuildCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.Clean {
		cfg.Output.Clean = true
	}
	if b.Concurrency > 0 {
		cfg.Build.Concurrency = b.Concurrency
	}
	if err := cfg.Validate(); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid configuration").Build()
	}

	sink := newMetricsSink(cfg)
	defer sink.flush()

	report, err := build.New(cfg, build.WithRecorder(sink.recorder)).Run(ctx)
	if err != nil {
		return err
	}
	if err := writeBuildReport(g.out(), report, b.Format); err != nil {
		return err
	}

	if b.Strict && report.Status == build.StatusWarning {
		_, excluded, linkErrors, _ := report.Totals()
		return errors.LinkError(fmt.Sprintf("build finished with %d excluded documents and %d broken links", excluded, linkErrors)).Build()
	}
	return nil
}

func writeBuildReport(w io.Writer, report *build.Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	documents, excluded, linkErrors, failed := report.Totals()
	_, _ = fmt.Fprintf(w, "Build %s (run %s) in %s\n", report.Status, report.RunID, report.Duration.Round(time.Millisecond))
	for _, s := range report.Scopes {
		_, _ = fmt.Fprintf(w, "  %s/%s: %d documents, %d excluded, %d broken links\n",
			s.Locale, s.Version, s.Documents, len(s.Excluded), s.LinkErrorCount())
		for _, ex := range s.Excluded {
			_, _ = fmt.Fprintf(w, "    excluded %s: %s\n", ex.Path, ex.Reason)
		}
		for _, d := range s.LinkErrors {
			for _, msg := range d.Messages {
				_, _ = fmt.Fprintf(w, "    %s: %s\n", d.Path, msg)
			}
		}
		for _, d := range s.Failed {
			_, _ = fmt.Fprintf(w, "    failed %s: %v\n", d.Path, d.Messages)
		}
	}
	_, err := fmt.Fprintf(w, "Total: %d documents, %d excluded, %d broken links, %d failed -> %s\n",
		documents, excluded, linkErrors, failed, report.OutputPath)
	return err
}
