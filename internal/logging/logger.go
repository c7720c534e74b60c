package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats accepted in Options.Format.
const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configure New.
type Options struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string

	// Format is one of FormatAuto, FormatConsole, FormatJSON.
	Format string

	// Output receives log lines. Defaults to os.Stderr.
	Output io.Writer
}

// New builds a logger from opts.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	format, err := resolveFormat(opts.Format, out)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	switch format {
	case FormatConsole:
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		if isTerminal(out) {
			cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(cfg)
	default:
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), level)
	return zap.New(core), nil
}

// WithRun tags every entry of log with a fresh run id.
func WithRun(log *zap.Logger) *zap.Logger {
	return log.With(zap.String("run_id", uuid.NewString()))
}

// ValidFormat reports whether format is accepted by New.
func ValidFormat(format string) bool {
	switch format {
	case "", FormatAuto, FormatConsole, FormatJSON:
		return true
	default:
		return false
	}
}

func resolveFormat(format string, out io.Writer) (string, error) {
	switch format {
	case "", FormatAuto:
		if isTerminal(out) {
			return FormatConsole, nil
		}
		return FormatJSON, nil
	case FormatConsole, FormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want auto, console or json)", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
