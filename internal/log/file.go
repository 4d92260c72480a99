package log

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the log file.
const (
	maxLogSizeMB  = 10
	maxLogBackups = 5
	maxLogAgeDays = 28
)

// NewFileLogger creates a JSON logger writing to a size-rotated file at path.
// The returned closer flushes and closes the current file.
func NewFileLogger(path string, verbose bool) (*slog.Logger, io.Closer) {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}
	return NewSecureJSONLogger(rotator, verbose), rotator
}
