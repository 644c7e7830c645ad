// Package cli provides the start-up plumbing of the cycledebt command: .env
// loading, flag parsing over the loaded configuration, and logger setup.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/joho/godotenv"

	"cycledebt/internal/config"
	"cycledebt/internal/log"
)

// ErrTooManyArgs is returned when more than one directory is given.
var ErrTooManyArgs = errors.New("at most one document directory may be given")

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile(filenames ...string) {
	_ = godotenv.Load(filenames...)
}

// SetupLogger builds the application logger for the given level name and
// installs it as the slog default. An unknown level falls back to info and
// the returned error says so.
func SetupLogger(level string, out io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)

	cfg := log.DefaultConfig()
	cfg.Level = lvl
	if out != nil {
		cfg.Output = out
	}

	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger, err
}

// ApplyFlags parses args over cfg. Flags default to the values already in
// cfg, so they take precedence over the file and the environment. A single
// positional argument names the document directory.
func ApplyFlags(cfg *config.Config, args []string, output io.Writer) error {
	fs := flag.NewFlagSet("cycledebt", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: cycledebt [flags] [directory]\n\n")
		fmt.Fprintf(fs.Output(), "Reports how many kilometres of cycling are still owed for the kilometres driven.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	fs.IntVar(&cfg.WindowWeeks, "window", cfg.WindowWeeks, "number of recent weeks in the windowed summary")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "documents parsed concurrently")
	fs.BoolVar(&cfg.ShowTable, "table", cfg.ShowTable, "print the full activity table")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus metrics to this textfile")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.Dir = fs.Arg(0)
	default:
		return fmt.Errorf("%w: got %d", ErrTooManyArgs, fs.NArg())
	}
	return nil
}

// LoadConfig loads the configuration, applies command-line args and
// validates the result.
func LoadConfig(args []string, output io.Writer) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := ApplyFlags(cfg, args, output); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
