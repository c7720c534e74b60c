package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/handiism/pathtag/internal/audio"
	"github.com/handiism/pathtag/internal/batch"
	"github.com/handiism/pathtag/internal/config"
	ioutils "github.com/handiism/pathtag/internal/io"
	"github.com/handiism/pathtag/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath    string
	backend       string
	workers       int
	dryRun        bool
	createMissing bool
	summary       bool
	logLevel      string
	logFormat     string
	noLock        bool
	lockDir       string
	verbose       bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "pathtag [flags] <basedir>",
		Short: "Tag audio files with the artist and album named by their directories",
		Long: `pathtag walks <basedir> and writes artist and album tags into every file
found at <basedir>/<artist>/<album>/<file> or <basedir>/<artist>/<file>.
Files directly in <basedir> or nested deeper than two levels are left alone.
Files in an artist directory get the album "Unknown".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTag(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Configuration file path (JSON)")
	flags.StringVar(&opts.backend, "backend", audio.BackendAuto, fmt.Sprintf("Tag backend (%s)", strings.Join(audio.BackendNames(), ", ")))
	flags.IntVarP(&opts.workers, "workers", "j", 1, "Number of files tagged at once")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Report what would be tagged without writing")
	flags.BoolVar(&opts.createMissing, "create-missing", false, "Add a tag to MP3 files that have none")
	flags.BoolVar(&opts.summary, "summary", false, "Print a summary table when done")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", logging.FormatAuto, "Log format (auto, console, json)")
	flags.BoolVar(&opts.noLock, "no-lock", false, "Do not lock the tree against concurrent runs")
	flags.StringVar(&opts.lockDir, "lock-dir", "", "Directory for lock files (default: user cache dir)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show every file as it is tagged")

	return cmd
}

func runTag(cmd *cobra.Command, opts *rootOptions, base string) error {
	settings, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}

	logOpts := settings.ToLoggingOptions()
	logOpts.Output = cmd.ErrOrStderr()
	logger, err := logging.New(logOpts)
	if err != nil {
		return err
	}
	logger = logging.WithRun(logger)
	defer func() { _ = logger.Sync() }()

	info, err := os.Stat(base)
	if err != nil {
		return fmt.Errorf("base directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("base directory: %s is not a directory", base)
	}

	if settings.LockTree {
		lockDir := opts.lockDir
		if lockDir == "" {
			lockDir = ioutils.DefaultLockDir()
		}
		lock, err := ioutils.AcquireTreeLock(lockDir, base)
		if err != nil {
			if errors.Is(err, ioutils.ErrTreeLocked) {
				logger.Warn("tree is locked", zap.String("base", base))
			}
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("release tree lock", zap.String("lock", lock.Path()), zap.Error(err))
			}
		}()
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nInterrupted, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	out := cmd.OutOrStdout()
	runner, err := batch.NewRunner(settings, logger, progressPrinter(out, opts.verbose))
	if err != nil {
		return err
	}

	summary, err := runner.Run(ctx, base)
	if opts.summary && summary != nil {
		fmt.Fprintln(out, renderSummary(summary))
	}
	return err
}

// loadSettings reads the config file and environment, then applies every
// flag the user set explicitly.
func loadSettings(cmd *cobra.Command, opts *rootOptions) (*config.Settings, error) {
	settings, err := config.LoadWithEnv(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		settings.Backend = opts.backend
	}
	if flags.Changed("workers") {
		settings.Workers = opts.workers
	}
	if flags.Changed("dry-run") {
		settings.DryRun = opts.dryRun
	}
	if flags.Changed("create-missing") {
		settings.CreateMissingTags = opts.createMissing
	}
	if flags.Changed("log-level") {
		settings.LogLevel = opts.logLevel
	}
	if flags.Changed("log-format") {
		settings.LogFormat = opts.logFormat
	}
	if opts.noLock {
		settings.LockTree = false
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return settings, nil
}

// progressPrinter writes runner events to w. Verbose events are dropped
// unless verbose is set.
func progressPrinter(w io.Writer, verbose bool) func(batch.ProgressEvent) {
	var mu sync.Mutex
	return func(event batch.ProgressEvent) {
		if event.Level == batch.LevelVerbose && !verbose {
			return
		}

		prefix := ""
		switch event.Level {
		case batch.LevelError:
			prefix = "❌ "
		case batch.LevelWarning:
			prefix = "⚠️  "
		case batch.LevelSuccess:
			prefix = "✅ "
		case batch.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, prefix+event.Message)
	}
}
