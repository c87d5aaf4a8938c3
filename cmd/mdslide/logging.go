package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// ErrOpenLogFile indicates the --log-file destination could not be opened.
var ErrOpenLogFile = errors.New("failed to open log file")

// logLevel maps the output flags to a console log level.
func logLevel(f commonFlags) slog.Level {
	switch {
	case f.quiet:
		return slog.LevelError
	case f.verbose:
		return slog.LevelDebug
	default:
		return slog.LevelWarn
	}
}

// newLogger builds the CLI logger: text on stderr at the flag-selected
// level, fanned out to a JSON file at debug level when --log-file is set.
// The returned close function releases the file.
func newLogger(f commonFlags, stderr io.Writer) (*slog.Logger, func() error, error) {
	console := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel(f)})
	if f.logFile == "" {
		return slog.New(console), func() error { return nil }, nil
	}

	file, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermissions) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrOpenLogFile, err)
	}
	jsonHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})

	return slog.New(slogmulti.Fanout(console, jsonHandler)), file.Close, nil
}
