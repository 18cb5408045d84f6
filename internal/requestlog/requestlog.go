// Package requestlog appends one line per inbound request to requestLog.log.
package requestlog

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const FileName = "requestLog.log"

type Logger struct {
	logger zerolog.Logger
	closer io.Closer
}

// Open creates folder if needed and appends to <folder>/requestLog.log.
func Open(folder string) (*Logger, error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("[requestlog Open] mkdir %s: %w", folder, err)
	}
	f, err := os.OpenFile(filepath.Join(folder, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("[requestlog Open] open: %w", err)
	}
	l := New(f)
	l.closer = f
	return l, nil
}

// New logs to w. Close is a no-op for loggers built this way.
func New(w io.Writer) *Logger {
	return &Logger{logger: zerolog.New(w).With().Timestamp().Logger()}
}

// Log records the method, URL and origin of r under a fresh id.
func (l *Logger) Log(r *http.Request) {
	l.logger.Log().
		Str("id", uuid.NewString()).
		Str("method", r.Method).
		Str("url", r.URL.RequestURI()).
		Str("origin", r.Header.Get("Origin")).
		Send()
}

func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
