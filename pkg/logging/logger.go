package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a JSON slog logger as the process default and returns it.
// Debug lowers the level and adds source locations.
func Setup(debug bool) *slog.Logger {
	return SetupWriter(os.Stdout, debug)
}

func SetupWriter(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}))
	slog.SetDefault(logger)
	return logger
}
