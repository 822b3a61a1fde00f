// Package logger constructs the application-wide logrus logger.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a configured logger. Development gets human-readable text
// with debug level; every other environment logs JSON at info level.
func New(env string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if env == "dev" {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
