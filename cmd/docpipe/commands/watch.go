package commands

import (
	"context"

	"git.home.luguber.info/inful/docpipe/internal/build"
	"git.home.luguber.info/inful/docpipe/internal/foundation/errors"
	"git.home.luguber.info/inful/docpipe/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Output string `short:"o" help:"Override output.directory"`
}

func (w *WatchCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if w.Output != "" {
		cfg.Output.Directory = w.Output
	}
	if err := cfg.Validate(); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid configuration").Build()
	}

	sink := newMetricsSink(cfg)
	builder := build.New(cfg, build.WithRecorder(sink.recorder))
	rebuild := func(ctx context.Context) error {
		report, err := builder.Run(ctx)
		sink.flush()
		if err != nil {
			return err
		}
		return writeBuildReport(g.out(), report, "text")
	}

	if err := rebuild(ctx); err != nil {
		return err
	}
	return watch.New(cfg.Content.Root, builder.Cache(), rebuild).Run(ctx)
}
