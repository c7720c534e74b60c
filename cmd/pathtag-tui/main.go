package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/handiism/pathtag/internal/config"
	ioutils "github.com/handiism/pathtag/internal/io"
	"github.com/handiism/pathtag/internal/logging"
	"github.com/handiism/pathtag/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.LoadWithEnv(os.Getenv("PATHTAG_CONFIG"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// The screen belongs to the TUI, so logs go to a file.
	logDir := filepath.Dir(ioutils.DefaultLockDir())
	if err := ioutils.EnsureDir(logDir); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(logDir, "pathtag-tui.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	logOpts := settings.ToLoggingOptions()
	logOpts.Format = logging.FormatJSON
	logOpts.Output = logFile
	logger, err := logging.New(logOpts)
	if err != nil {
		return err
	}
	logger = logging.WithRun(logger)
	defer func() { _ = logger.Sync() }()

	return tui.Run(settings, logger)
}
