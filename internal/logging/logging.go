// Package logging builds the colored structured logger used across encryptr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a logger writing to w at the named level ("debug", "info", "warn", "error").
// quiet raises the level to at least warn.
func New(w io.Writer, level string, quiet bool) (*slog.Logger, error) {
	var lvl slog.Level

	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}

	if quiet {
		lvl = max(lvl, slog.LevelWarn)
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
		AddSource:  lvl <= slog.LevelDebug,
	})

	return slog.New(handler), nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(tint.NewHandler(io.Discard, &tint.Options{Level: slog.LevelError + 1}))
}
