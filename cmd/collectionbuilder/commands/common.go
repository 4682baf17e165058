package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/collectionbuilder/internal/config"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"collectionbuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build     BuildCmd     `cmd:"" help:"Build every collection and write JSON output"`
	Validate  ValidateCmd  `cmd:"" help:"Parse, validate and compile every document without writing output"`
	Watch     WatchCmd     `cmd:"" help:"Rebuild whenever content or the author registry changes"`
	History   HistoryCmd   `cmd:"" help:"List recorded builds"`
	Visualize VisualizeCmd `cmd:"" help:"Visualize the article compile chain (text, mermaid, dot, json)"`
	Init      InitCmd      `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; installs a bootstrap logger until the
// configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig reads the configuration and installs the logger it describes.
// A missing file at the default path falls back to defaults.
func loadConfig(root *CLI) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		if _, statErr := os.Stat(root.Config); !os.IsNotExist(statErr) {
			return nil, nil, err
		}
		slog.Warn("Configuration file not found; using defaults", slog.String("path", root.Config))
		cfg = config.Default()
	}
	logger := newLogger(cfg.Logging, root.Verbose, os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// newLogger builds the process logger. --verbose forces debug level.
func newLogger(lc config.LoggingConfig, verbose bool, w io.Writer) *slog.Logger {
	level := lc.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
