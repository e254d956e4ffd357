package defs

import (
	log "github.com/sirupsen/logrus"
)

// NoFormatter is the formatter for logrus, printing messages without level or timestamp
type NoFormatter struct{}

// Format prints the log message without timestamp/log level etc.
func (f *NoFormatter) Format(entry *log.Entry) ([]byte, error) {
	return []byte(entry.Message + "\n"), nil
}
