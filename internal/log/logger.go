// Package log configures the process-wide slog logger.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"firestige.xyz/netvis/internal/config"
)

// levelAliases accepts the spellings operators use besides slog's own.
var levelAliases = map[string]string{"warning": "warn"}

// Init installs the default logger described by cfg. Records go to stderr,
// keeping stdout for reports, and to a rotating file when one is enabled.
// The returned closer flushes and closes that file; it is a no-op otherwise.
func Init(cfg config.LogConfig) (io.Closer, error) {
	var (
		sinks            = []io.Writer{os.Stderr}
		closer io.Closer = nopCloser{}
	)
	if fc := cfg.Outputs.File; fc.Enabled {
		if fc.Path == "" {
			return nil, fmt.Errorf("log file output enabled without a path")
		}
		rotating := &lumberjack.Logger{
			Filename:   fc.Path,
			MaxSize:    fc.Rotation.MaxSizeMB,
			MaxAge:     fc.Rotation.MaxAgeDays,
			MaxBackups: fc.Rotation.MaxBackups,
			Compress:   fc.Rotation.Compress,
		}
		sinks, closer = append(sinks, rotating), rotating
	}

	h, err := newHandler(cfg, io.MultiWriter(sinks...))
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(h).With("app", "netvis"))
	return closer, nil
}

// newHandler picks the record encoding for cfg. Debug level also records
// the call site.
func newHandler(cfg config.LogConfig, w io.Writer) (slog.Handler, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: level <= slog.LevelDebug}

	switch strings.ToLower(cfg.Format) {
	case "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	}
	return nil, fmt.Errorf("unsupported log format %q (want json or text)", cfg.Format)
}

func parseLevel(name string) (slog.Level, error) {
	if alias, ok := levelAliases[strings.ToLower(name)]; ok {
		name = alias
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, err
	}
	return l, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
