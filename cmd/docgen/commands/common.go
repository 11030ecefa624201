package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/soasis/docgen/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docgen.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the documentation site"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Extract ExtractCmd `cmd:"" help:"Run reference extraction without building the site"`
	Preview PreviewCmd `cmd:"" help:"Serve the site locally and rebuild on change"`
	History HistoryCmd `cmd:"" help:"Show recent build records"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(c.Verbose),
	}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel resolves the log level from the verbose flag and the
// DOCGEN_LOG_LEVEL environment variable. The flag wins.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch config.NormalizeLogLevel(os.Getenv("DOCGEN_LOG_LEVEL")) {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// configureLogging re-applies logging from the loaded configuration; CLI
// verbosity still takes precedence.
func configureLogging(cfg *config.Config, verbose bool) {
	level := parseLogLevel(verbose)
	if !verbose && cfg.Logging.Level != "" {
		switch config.NormalizeLogLevel(cfg.Logging.Level) {
		case config.LogLevelDebug:
			level = slog.LevelDebug
		case config.LogLevelWarn:
			level = slog.LevelWarn
		case config.LogLevelError:
			level = slog.LevelError
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if config.NormalizeLogFormat(cfg.Logging.Format) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// ResolveOutputDir determines the final output directory.
// Priority: CLI flag > configured directory.
func ResolveOutputDir(cliOutput string, cfg *config.Config) string {
	if cliOutput != "" {
		return cliOutput
	}
	if cfg.Output.Directory != "" {
		return cfg.Output.Directory
	}
	return "./_build/html"
}

// workingDir returns the documentation working directory: the directory the
// configuration file lives in. All configured relative paths resolve against
// it.
func workingDir(configPath string) string {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "."
	}
	return filepath.Dir(abs)
}
