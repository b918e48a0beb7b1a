// Package logging holds the process logger. The terminal belongs to the
// radar display, so entries go to a file chosen at startup.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Log is the package-level logger. It discards output until Setup is
// called; tests may replace it or its output.
var Log = newLogger(io.Discard)

// Session identifies this run in every log entry.
var Session = uuid.NewString()

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	return l
}

// Setup points the logger at path (appending) with the given level.
// An empty path keeps logging disabled. The returned closer closes the file.
func Setup(path, level string) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	Log.SetLevel(lvl)

	if path == "" {
		Log.SetOutput(io.Discard)
		return io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	Log.SetOutput(f)
	return f, nil
}

// For returns an entry tagged with the component name and the session.
func For(component string) *logrus.Entry {
	return Log.WithFields(logrus.Fields{
		"component": component,
		"session":   Session,
	})
}
