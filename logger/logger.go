package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. All packages log through it so that
// output formatting and level are configured in exactly one place.
var Log = logrus.New()

// Init configures the shared logger. The level can be overridden with the
// LOG_LEVEL environment variable (debug, info, warn, error).
func Init() {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
