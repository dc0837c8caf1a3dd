package utils

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// SetupLogging builds the application logger: console output plus an
// optional file under the logs directory. An empty logFile disables
// file logging.
func SetupLogging(level string, logFile string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}}
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return zerolog.Nop(), errors.Wrap(err, "failed to create log directory")
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), errors.Wrap(err, "failed to open log file")
		}
		writers = append(writers, f)
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().Timestamp().Logger(), nil
}

// GetLogPath returns the default log path.
func GetLogPath() string {
	return filepath.Join(".", "logs", "app-"+time.Now().Format("2006-01-02")+".log")
}
