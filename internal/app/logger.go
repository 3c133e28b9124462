package app

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogger применяет уровень и формат к логгеру; out=nil — stderr.
func ConfigureLogger(logger *log.Logger, level, format string, out io.Writer) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(lvl)

	switch format {
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)
	return nil
}
