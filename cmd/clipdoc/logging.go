package main

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation settings.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
)

// newLogger returns a text logger writing to a rotated log file when path
// is set, or to stderr otherwise. The returned closer releases the file.
func newLogger(path string, verbose bool, stderr io.Writer) (*slog.Logger, io.Closer) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = stderr
	var closer io.Closer = io.NopCloser(nil)
	if path != "" {
		lj := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
		}
		w, closer = lj, lj
		if !verbose {
			level = slog.LevelInfo
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer
}
