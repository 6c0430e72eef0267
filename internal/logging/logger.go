package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"wcpack/internal/config"
)

// LogFileName is the file written inside logging.dir.
const LogFileName = "wcpack.log"

// Options describes logger construction parameters.
type Options struct {
	// Level is one of debug, info, warn, error. Anything else means info.
	Level string
	// Format is console (default) or json.
	Format string
	// OutputPaths lists sinks: "stdout", "stderr" or file paths. Defaults to stderr.
	OutputPaths []string
	// Writer replaces OutputPaths when set.
	Writer io.Writer
}

// New constructs a slog logger. Debug level also records the caller.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)

	out := opts.Writer
	if out == nil {
		var err error
		if out, err = openOutputs(opts.OutputPaths); err != nil {
			return nil, err
		}
	}

	addSource := level <= slog.LevelDebug
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		return slog.New(newConsoleHandler(out, level, addSource)), nil
	case "json":
		return slog.New(newJSONHandler(out, level, addSource)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewFromConfig builds the application logger. Console output goes to
// console (stderr when nil) so command results on stdout stay machine
// readable; a configured logging.dir adds LogFileName as a second sink.
func NewFromConfig(cfg *config.Config, console io.Writer) (*slog.Logger, error) {
	if console == nil {
		console = os.Stderr
	}
	if cfg == nil {
		return New(Options{Writer: console})
	}

	out := console
	if cfg.Logging.Dir != "" {
		file, err := openOutputs([]string{filepath.Join(cfg.Logging.Dir, LogFileName)})
		if err != nil {
			return nil, err
		}
		out = io.MultiWriter(console, file)
	}
	return New(Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Writer: out})
}

func parseLevel(level string) slog.Level {
	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return parsed
}

func openOutputs(paths []string) (io.Writer, error) {
	if len(paths) == 0 {
		return os.Stderr, nil
	}
	seen := make(map[string]bool, len(paths))
	var writers []io.Writer
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		switch path {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("ensure log directory: %w", err)
			}
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", path, err)
			}
			writers = append(writers, file)
		}
	}
	switch len(writers) {
	case 0:
		return nil, errors.New("no usable log output paths")
	case 1:
		return writers[0], nil
	}
	return io.MultiWriter(writers...), nil
}
