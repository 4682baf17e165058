package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/collectionbuilder/internal/logfields"
	"git.home.luguber.info/inful/collectionbuilder/internal/watch"
)

// WatchCmd builds once, then rebuilds on every content or registry change.
type WatchCmd struct {
	Output   string        `short:"o" help:"Output directory (overrides output.directory)"`
	Debounce time.Duration `help:"Quiet period before a rebuild starts" default:"300ms"`
	Interval time.Duration `help:"Also rebuild on this fixed period (0 disables)" default:"0s"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, logger, err := loadConfig(root)
	if err != nil {
		return err
	}
	outputDir := cfg.Output.Directory
	if w.Output != "" {
		outputDir = w.Output
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := openSession(cfg, logger, outputDir, true)
	if err != nil {
		return err
	}
	defer s.Close()

	rebuild := func(ctx context.Context) error {
		res, err := s.build(ctx)
		if err != nil {
			return err
		}
		for _, f := range res.Failures {
			logger.Warn("Document rejected", logfields.Path(f.Path), logfields.Error(f.Err))
		}
		fmt.Println(res.Manifest.Summary())
		return nil
	}

	if err := rebuild(ctx); err != nil {
		return err
	}

	watcher, err := watch.New(watch.Options{
		Roots:    []string{cfg.Content.Root},
		Files:    []string{cfg.Authors.File},
		Ignore:   []string{outputDir, cfg.History.Database, cfg.Metrics.Textfile},
		Debounce: w.Debounce,
		Interval: w.Interval,
		Logger:   logger,
	}, rebuild)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	logger.Info("Watching for changes", logfields.Path(cfg.Content.Root))
	return watcher.Run(ctx)
}
