package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/layertiming"
	"git.home.luguber.info/inful/layertiming/internal/config"
)

// Global carries shared state into subcommands.
type Global struct {
	Config  *config.Config
	Manager *layertiming.Manager
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"layertiming.yaml"`
	Dir     string           `short:"d" help:"Directory holding the shared counter and flag files (defaults to the system temp directory)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Enable  EnableCmd  `cmd:"" help:"Enable timing collection for all processes on this host"`
	Disable DisableCmd `cmd:"" help:"Disable timing collection"`
	Status  StatusCmd  `cmd:"" help:"Show the enablement state and sample count"`
	Summary SummaryCmd `cmd:"" help:"Print the aggregated timing summary"`
	Record  RecordCmd  `cmd:"" help:"Merge one sample into the shared counter (for scripting and smoke tests)"`
	Clear   ClearCmd   `cmd:"" help:"Remove the accumulated timing data"`
	Reset   ResetCmd   `cmd:"" help:"Clear timing data and disable collection"`
	Watch   WatchCmd   `cmd:"" help:"Re-print the summary whenever the shared counter changes"`
	Serve   ServeCmd   `cmd:"" help:"Serve the accumulated counters as a Prometheus scrape endpoint"`
}

// AfterApply runs after flag parsing; set up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// BuildGlobal loads configuration and constructs the shared Manager handle.
// Priority for the data directory: --dir flag > LAYER_TIMING_DIR > config
// file > system temp directory.
func (c *CLI) BuildGlobal() (*Global, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.Dir != "" {
		cfg.DataDir = c.Dir
	}

	if !c.Verbose {
		applyLogConfig(cfg.Logging)
	}

	var opts []layertiming.Option
	if cfg.DataDir != "" {
		opts = append(opts, layertiming.WithDir(cfg.DataDir))
	}
	return &Global{Config: cfg, Manager: layertiming.New(opts...)}, nil
}

// applyLogConfig replaces the default logger with the configured level/format.
func applyLogConfig(lc config.LoggingConfig) {
	hopts := &slog.HandlerOptions{Level: lc.Level.Slog()}
	var handler slog.Handler
	if lc.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, hopts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, hopts)
	}
	slog.SetDefault(slog.New(handler))
}
