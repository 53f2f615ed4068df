package telemetry

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// SetupLogger installs the process-wide slog default from the logging section
// of the server configuration. Every package then logs through slog.Info and
// friends without carrying a *slog.Logger around.
//
// format "json" selects JSONHandler for log shippers; any other value selects
// the human-readable TextHandler. level accepts debug, info, warn, and error
// (case-insensitive) and falls back to info. output is "stdout", "stderr", or
// a file path; an unopenable file falls back to stdout so a bad log path
// never prevents startup.
func SetupLogger(format, level, output string) {
	lvl := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug, // include file:line only when debugging
	}

	dest := openOutput(output)

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(dest, opts)
	} else {
		handler = slog.NewTextHandler(dest, opts)
	}

	slog.SetDefault(slog.New(handler))
	slog.Info("logger initialised", "format", format, "level", lvl.String(), "output", output)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openOutput(output string) io.Writer {
	switch output {
	case "", "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Warn("cannot open log output, falling back to stdout", "path", output, "error", err)
		return os.Stdout
	}
	return f
}
