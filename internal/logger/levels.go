package logger

import (
	"fmt"
	"log"
	"strings"
)

// Log levels ordered by severity.
const (
	levelDebug = iota
	levelInfo
	levelWarning
	levelError
)

var currentLevel = levelInfo

// setLevel maps the configured level name to a severity threshold.
func setLevel(name string) {
	switch strings.ToUpper(name) {
	case "DEBUG":
		currentLevel = levelDebug
	case "INFO":
		currentLevel = levelInfo
	case "WARNING", "WARN":
		currentLevel = levelWarning
	case "ERROR":
		currentLevel = levelError
	default:
		currentLevel = levelInfo
	}
}

func logf(level int, prefix, format string, args ...interface{}) {
	if level < currentLevel {
		return
	}
	log.Output(3, prefix+" "+fmt.Sprintf(format, args...))
}

// Debugf logs a debug-level message.
func Debugf(format string, args ...interface{}) {
	logf(levelDebug, "[DEBUG]", format, args...)
}

// Infof logs an info-level message.
func Infof(format string, args ...interface{}) {
	logf(levelInfo, "[INFO]", format, args...)
}

// Warningf logs a warning-level message.
func Warningf(format string, args ...interface{}) {
	logf(levelWarning, "[WARNING]", format, args...)
}

// Errorf logs an error-level message.
func Errorf(format string, args ...interface{}) {
	logf(levelError, "[ERROR]", format, args...)
}
