package observability

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger returns a JSON logger, or a colored console one in dev or when
// format is "console". Both stamp trace ids from the span in context.
func NewLogger(env, format string) *slog.Logger {
	return newLogger(os.Stdout, env, format)
}

func newLogger(w io.Writer, env, format string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	if format == "" && env == "dev" {
		format = "console"
	}

	var handler slog.Handler
	switch format {
	case "console":
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC1123Z,
		})
	default:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(NewTraceHandler(handler))
}
