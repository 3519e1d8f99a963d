// Package logger provides a zap-based application logger.
package logger

import (
	"os"

	"go.uber.org/zap"
)

// Log is the global zap logger used across the project.
var Log *zap.Logger

// Init configures the global logger. Production encoding by default;
// setting LOG_DEV switches to the human-readable development config.
func Init(service string) {
	cfg := zap.NewProductionConfig()
	if os.Getenv("LOG_DEV") != "" {
		cfg = zap.NewDevelopmentConfig()
	}
	var err error
	Log, err = cfg.Build(zap.Fields(zap.String("service", service)))
	if err != nil {
		panic(err)
	}
}
