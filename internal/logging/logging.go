// Package logging assembles the process logger: a text handler on stderr,
// fanned out to an optional log file. The level defaults to Warn so normal
// interpreter output stays clean; --debug lowers it to Debug for pipeline
// tracing.
package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

var level = new(slog.LevelVar)

func init() {
	level.Set(slog.LevelWarn)
}

// SetDebug lowers the log level to Debug.
func SetDebug() {
	level.Set(slog.LevelDebug)
}

// New builds the logger. When path is non-empty, records are also appended
// to the file at path; the returned closer owns that file and may be nil.
func New(path string) (*slog.Logger, io.Closer, error) {
	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}

	var closer io.Closer
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closer = f
		handlers = append(handlers,
			slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}
