// Package logger provides the shared logger for robot-report.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

var (
	globalLogger *log.Logger
	logFile      *os.File
	mu           sync.Mutex
)

// Init initializes the global logger. With an empty path log lines go to
// stderr; otherwise they are appended to the given file.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	if logPath == "" {
		globalLogger = log.New(os.Stderr, "", log.Ltime)
		return nil
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	logFile = f
	globalLogger = log.New(f, "", log.Ltime|log.Lmicroseconds)

	return nil
}

// Close closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	globalLogger = nil
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	logf("[INFO] "+format, v...)
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	logf("[DEBUG] "+format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	logf("[WARN] "+format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	logf("[ERROR] "+format, v...)
}

func logf(format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if globalLogger != nil {
		globalLogger.Printf(format, v...)
	}
}

// GetWriter returns the underlying writer.
func GetWriter() io.Writer {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return logFile
	}
	if globalLogger != nil {
		return os.Stderr
	}
	return io.Discard
}
