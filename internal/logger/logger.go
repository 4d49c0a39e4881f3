// Package logger configures the process-wide logrus logger. Diagnostics go to
// stderr so stdout carries only the report.
package logger

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// DefaultLevel keeps the report output uncluttered unless something goes wrong.
const DefaultLevel = "warn"

// Setup sets the global level and formatter. An unparseable level falls back to info.
func Setup(level string) {
	SetupWithOutput(level, os.Stderr)
}

// SetupWithOutput is Setup with an explicit destination.
func SetupWithOutput(level string, w io.Writer) {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	loggerLevel, err := log.ParseLevel(level)
	if err != nil {
		log.SetLevel(log.InfoLevel)
		log.Infof("Level setup default INFO, err: %v", err)
		return
	}
	log.SetLevel(loggerLevel)
}
