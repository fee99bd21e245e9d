// Package logger installs the process-wide slog handler. All state lives
// in slog's own default, so logging and reconfiguring may race freely.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Init logs to stderr.
func Init(level string, json bool) {
	Setup(os.Stderr, level, json)
}

// Setup makes a text or JSON handler on w the slog default.
func Setup(w io.Writer, level string, json bool) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if json {
		slog.SetDefault(slog.New(slog.NewJSONHandler(w, opts)))
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, opts)))
}

// Discard drops every record. The TUI uses it when no log file is
// configured since it owns the terminal.
func Discard() {
	slog.SetDefault(slog.New(slog.DiscardHandler))
}

// parseLevel accepts slog level names in any case, with offsets such as
// "info+2". Anything else logs at info.
func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Debug(msg string, args ...any) { slog.Debug(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Error(msg, args...) }
